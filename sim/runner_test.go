package sim

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"

	"github.com/milk9111/tethersim/common"
	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
	"github.com/milk9111/tethersim/ecs/entity"
	"github.com/milk9111/tethersim/ecs/system"
	"github.com/milk9111/tethersim/netmsg"
	"github.com/milk9111/tethersim/netserver"
	"github.com/milk9111/tethersim/prefabs"
)

func newTestRunner(t *testing.T) (*Runner, *prefabs.Library) {
	t.Helper()
	lib, err := prefabs.NewLibrary("tether_gun.yaml", "salvage_tether.yaml")
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	r, err := New(Config{
		Log:        zerolog.Nop(),
		Role:       system.RoleServer,
		Library:    lib,
		DefaultGun: "tether_gun",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, lib
}

func spawnArmedPlayer(t *testing.T, r *Runner, lib *prefabs.Library, variant string) (player, gun ecs.Entity) {
	t.Helper()
	w := r.World()
	player = entity.NewPlayer(w, r.Joints().Space(), 0, 0)
	spec, ok := lib.Spec(variant)
	if !ok {
		t.Fatalf("unknown variant %q", variant)
	}
	gun, err := entity.NewTetherGun(w, spec)
	if err != nil {
		t.Fatalf("NewTetherGun: %v", err)
	}
	hands, _ := ecs.Get(w, player, component.HandsComponent.Kind())
	hands.Active = component.EntityRef(gun)
	return player, gun
}

func TestTetherPullsTargetTowardAnchor(t *testing.T) {
	r, lib := newTestRunner(t)
	w := r.World()
	player, gun := spawnArmedPlayer(t, r, lib, "tether_gun")

	crate := entity.NewCrate(w, r.Joints().Space(), 3, 0, entity.CrateOpts{Mass: 10})
	if !r.Tether().HandleRangedUse(w, gun, crate, player, false) {
		t.Fatalf("tether should start")
	}
	if !r.Tether().HandleMoveRequest(w, player, 5, 0) {
		t.Fatalf("anchor move should apply")
	}

	for i := 0; i < 600; i++ {
		w.Update()
	}

	tr, _ := ecs.Get(w, crate, component.TransformComponent.Kind())
	if tr.X < 4 {
		t.Fatalf("spring should pull the crate toward the anchor, x = %v", tr.X)
	}

	pb, _ := ecs.Get(w, crate, component.PhysicsBodyComponent.Kind())
	if av := pb.Body.AngularVelocity(); math.Abs(av-common.SpinRate) > 0.5 {
		t.Fatalf("held crate should spin near %v, got %v", common.SpinRate, av)
	}
}

func TestReleaseDestroysAnchorOnNextTick(t *testing.T) {
	r, lib := newTestRunner(t)
	w := r.World()
	player, gun := spawnArmedPlayer(t, r, lib, "tether_gun")

	crate := entity.NewCrate(w, r.Joints().Space(), 2, 0, entity.CrateOpts{Mass: 10})
	r.Tether().HandleRangedUse(w, gun, crate, player, false)

	gc, _ := ecs.Get(w, gun, component.TetherGunComponent.Kind())
	anchor := ecs.Entity(gc.Anchor)

	r.Tether().HandleActivate(w, gun)
	w.Update()

	if ecs.IsAlive(w, anchor) {
		t.Fatalf("anchor should be gone after the tick")
	}
	if ecs.Has(w, crate, component.TetheredComponent.Kind()) {
		t.Fatalf("crate should be released")
	}
	if r.Joints().Len() != 0 {
		t.Fatalf("no joints should remain")
	}
}

func countBodies(r *Runner) int {
	n := 0
	r.Joints().Space().EachBody(func(*cp.Body) { n++ })
	return n
}

func TestDroppedSessionLeavesNoGhostBody(t *testing.T) {
	r, lib := newTestRunner(t)
	w := r.World()
	player, gun := spawnArmedPlayer(t, r, lib, "tether_gun")

	crate := entity.NewCrate(w, r.Joints().Space(), 3, 0, entity.CrateOpts{Mass: 10})
	if !r.Tether().HandleRangedUse(w, gun, crate, player, false) {
		t.Fatalf("tether should start")
	}
	// player + crate + anchor
	if got := countBodies(r); got != 3 {
		t.Fatalf("expected 3 bodies before the drop, got %d", got)
	}

	r.players[0] = player
	r.dropSession(&netserver.Session{})
	w.Update()

	if ecs.IsAlive(w, player) || ecs.IsAlive(w, gun) {
		t.Fatalf("player and gun should be destroyed")
	}
	if ecs.Has(w, crate, component.TetheredComponent.Kind()) {
		t.Fatalf("crate should be released")
	}
	if r.Joints().Len() != 0 {
		t.Fatalf("no joints should remain")
	}
	// only the crate's body survives
	if got := countBodies(r); got != 1 {
		t.Fatalf("expected 1 body after the drop, got %d", got)
	}
}

func TestScriptedVariantRuleIsRegistered(t *testing.T) {
	r, lib := newTestRunner(t)
	w := r.World()
	player, gun := spawnArmedPlayer(t, r, lib, "salvage_tether")

	scrap := entity.NewCrate(w, r.Joints().Space(), 1, 0, entity.CrateOpts{Mass: 2})
	if r.Tether().CanTether(w, gun, scrap, player) {
		t.Fatalf("salvage gun should reject scrap below the script's weight floor")
	}

	slab := entity.NewCrate(w, r.Joints().Space(), 1, 0, entity.CrateOpts{Mass: 200})
	if !r.Tether().CanTether(w, gun, slab, player) {
		t.Fatalf("salvage gun should take the heavy slab")
	}
}

func TestReloadScriptReregistersRule(t *testing.T) {
	r, lib := newTestRunner(t)
	w := r.World()
	player, gun := spawnArmedPlayer(t, r, lib, "salvage_tether")

	scrap := entity.NewCrate(w, r.Joints().Space(), 1, 0, entity.CrateOpts{Mass: 2})
	if r.Tether().CanTether(w, gun, scrap, player) {
		t.Fatalf("script rule should reject scrap below the weight floor")
	}

	// clobber the rule, then reload the script to restore it
	r.Tether().RegisterVariantRule("salvage_tether", func(*ecs.World, ecs.Entity, *component.TetherGun, ecs.Entity, ecs.Entity) bool {
		return true
	})
	if !r.Tether().CanTether(w, gun, scrap, player) {
		t.Fatalf("permissive rule should pass the scrap")
	}

	if err := r.ReloadScript("prefabs/scripts/heavy_lift.tengo"); err != nil {
		t.Fatalf("ReloadScript: %v", err)
	}
	if r.Tether().CanTether(w, gun, scrap, player) {
		t.Fatalf("reloaded script rule should reject the scrap again")
	}
}

func TestHeldGunTracksPlayer(t *testing.T) {
	r, lib := newTestRunner(t)
	w := r.World()
	player, gun := spawnArmedPlayer(t, r, lib, "tether_gun")

	pb, _ := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	pb.Body.SetVelocity(30, 0)
	for i := 0; i < 30; i++ {
		w.Update()
	}

	// the gun is pinned before the physics step, so it trails the player by
	// at most one tick of travel
	ptr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	gtr, _ := ecs.Get(w, gun, component.TransformComponent.Kind())
	if ptr.X <= 0 {
		t.Fatalf("player should have moved, x = %v", ptr.X)
	}
	if drift := math.Abs(ptr.X - gtr.X); drift > 30.0/60+1e-9 {
		t.Fatalf("gun should ride the player, drift = %v", drift)
	}

	pb.Body.SetVelocity(0, 0)
	w.Update()
	ptr, _ = ecs.Get(w, player, component.TransformComponent.Kind())
	gtr, _ = ecs.Get(w, gun, component.TransformComponent.Kind())
	if math.Abs(ptr.X-gtr.X) > 1e-9 {
		t.Fatalf("settled gun should sit exactly on the player, player x = %v gun x = %v", ptr.X, gtr.X)
	}
}

func TestSnapshotCoversDirtyEntities(t *testing.T) {
	r, lib := newTestRunner(t)
	w := r.World()
	player, gun := spawnArmedPlayer(t, r, lib, "tether_gun")

	crate := entity.NewCrate(w, r.Joints().Space(), 3, 0, entity.CrateOpts{Mass: 10})
	if !r.Tether().HandleRangedUse(w, gun, crate, player, false) {
		t.Fatalf("tether should start")
	}

	seat := entity.NewStrap(w, r.Joints().Space(), 10, 0, entity.CrateOpts{Static: true})
	rider := entity.NewMob(w, r.Joints().Space(), 10, 0, entity.CrateOpts{Mass: 60})
	if !system.AttemptBuckle(w, rider, seat) {
		t.Fatalf("buckle should succeed")
	}
	w.MarkChanged(rider)

	state := r.snapshot()

	var gs *netmsg.GunState
	for i := range state.Guns {
		if state.Guns[i].Entity == uint64(gun) {
			gs = &state.Guns[i]
		}
	}
	if gs == nil {
		t.Fatalf("dirty gun missing from snapshot")
	}
	if gs.Tethered != uint64(crate) {
		t.Fatalf("gun tethered = %d, want %d", gs.Tethered, uint64(crate))
	}

	var ss *netmsg.StrapState
	for i := range state.Straps {
		if state.Straps[i].Entity == uint64(seat) {
			ss = &state.Straps[i]
		}
	}
	if ss == nil {
		t.Fatalf("dirty strap missing from snapshot")
	}
	if len(ss.Occupants) != 1 || ss.Occupants[0] != uint64(rider) {
		t.Fatalf("strap occupants = %v, want [%d]", ss.Occupants, uint64(rider))
	}

	crates, riders := 0, 0
	for _, b := range state.Bodies {
		switch b.Entity {
		case uint64(crate):
			crates++
		case uint64(rider):
			riders++
		}
	}
	if crates != 1 {
		t.Fatalf("tethered crate appeared %d times in bodies, want 1", crates)
	}
	if riders != 1 {
		t.Fatalf("dirty rider appeared %d times in bodies, want 1", riders)
	}

	// The dirty set drains on read. Only the always-on tethered pose
	// should survive into the next snapshot.
	next := r.snapshot()
	if len(next.Guns) != 0 || len(next.Straps) != 0 {
		t.Fatalf("second snapshot should carry no drained state, got %d guns %d straps", len(next.Guns), len(next.Straps))
	}
	if len(next.Bodies) != 1 || next.Bodies[0].Entity != uint64(crate) {
		t.Fatalf("second snapshot bodies = %+v, want only the tethered crate", next.Bodies)
	}
}
