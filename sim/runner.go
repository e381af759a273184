// Package sim runs the fixed-rate simulation loop: drain session commands,
// step the world, broadcast snapshots. Everything mutating the world
// happens on the loop goroutine.
package sim

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/tethersim/audio"
	"github.com/milk9111/tethersim/common"
	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
	"github.com/milk9111/tethersim/ecs/entity"
	"github.com/milk9111/tethersim/ecs/system"
	"github.com/milk9111/tethersim/joints"
	"github.com/milk9111/tethersim/netmsg"
	"github.com/milk9111/tethersim/netserver"
	"github.com/milk9111/tethersim/prefabs"
	"github.com/milk9111/tethersim/script"
)

// Config wires a Runner.
type Config struct {
	Log     zerolog.Logger
	Audio   audio.Manager
	Role    system.Role
	Library *prefabs.Library
	Server  *netserver.Server
	// DefaultGun names the prefab variant handed to joining players.
	DefaultGun string
}

// Runner owns the world and the tick loop.
type Runner struct {
	cfg    Config
	world  *ecs.World
	joints *joints.Registry
	tether *system.TetherSystem

	tick    uint64
	players map[uint64]ecs.Entity // session id -> player entity
}

func New(cfg Config) (*Runner, error) {
	w := ecs.NewWorld()
	space := system.NewSpace()
	reg := joints.NewRegistry(space)

	tether := system.NewTetherSystem(reg, cfg.Audio, cfg.Role, cfg.Log)

	w.AddSystem(system.NewHeldSystem())
	w.AddSystem(system.NewSpinSystem())
	w.AddSystem(system.NewPhysicsSystem(space, reg))

	r := &Runner{
		cfg:     cfg,
		world:   w,
		joints:  reg,
		tether:  tether,
		players: make(map[uint64]ecs.Entity),
	}
	if cfg.Library != nil {
		for _, name := range cfg.Library.Names() {
			spec, _ := cfg.Library.Spec(name)
			if spec == nil || spec.Script == "" {
				continue
			}
			if err := r.registerScriptRule(spec); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (r *Runner) registerScriptRule(spec *prefabs.TetherGunSpec) error {
	src, err := prefabs.LoadScript(spec.Script)
	if err != nil {
		return err
	}
	rule, err := script.NewEligibility(src)
	if err != nil {
		return err
	}
	r.tether.RegisterVariantRule(spec.Name, rule.Rule())
	return nil
}

// ReloadScript recompiles an eligibility script and re-registers it for
// every gun variant that names it. Safe to call from the prefab watcher
// goroutine; a compile error leaves the old rule in place.
func (r *Runner) ReloadScript(path string) error {
	if r.cfg.Library == nil {
		return nil
	}
	base := filepath.Base(path)
	for _, name := range r.cfg.Library.Names() {
		spec, _ := r.cfg.Library.Spec(name)
		if spec == nil || spec.Script != base {
			continue
		}
		if err := r.registerScriptRule(spec); err != nil {
			return err
		}
	}
	return nil
}

// World exposes the ECS world for setup code (level population, tests).
func (r *Runner) World() *ecs.World {
	return r.world
}

// Joints exposes the joint registry for setup code.
func (r *Runner) Joints() *joints.Registry {
	return r.joints
}

// Tether exposes the orchestrator for setup code.
func (r *Runner) Tether() *system.TetherSystem {
	return r.tether
}

// Run blocks, ticking the world at the fixed rate until ctx ends.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / common.TickRate)
	defer ticker.Stop()

	r.cfg.Log.Info().
		Int("tick_rate", common.TickRate).
		Str("default_gun", r.cfg.DefaultGun).
		Msg("simulation running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.step()
		}
	}
}

func (r *Runner) step() {
	r.drainCommands()
	r.world.Update()
	r.tick++
	if r.cfg.Server != nil && r.tick%common.BroadcastDivisor == 0 {
		r.broadcast()
	}
}

func (r *Runner) drainCommands() {
	if r.cfg.Server == nil {
		return
	}
	for {
		select {
		case cmd := <-r.cfg.Server.Commands():
			r.handleCommand(cmd)
		case sess := <-r.cfg.Server.Disconnects():
			r.dropSession(sess)
		default:
			return
		}
	}
}

func (r *Runner) handleCommand(cmd netserver.Command) {
	switch cmd.Env.T {
	case netmsg.MsgHello:
		r.handleHello(cmd)
	case netmsg.MsgMove:
		if player, ok := r.players[cmd.Session.ID()]; ok {
			if move, err := netmsg.DecodePayload[netmsg.Move](cmd.Env); err == nil {
				r.tether.HandleMoveRequest(r.world, player, move.X, move.Y)
			}
		}
	case netmsg.MsgActivate:
		if gun, ok := r.wieldedGun(cmd.Session); ok {
			r.tether.HandleActivate(r.world, gun)
		}
	case netmsg.MsgUse:
		use, err := netmsg.DecodePayload[netmsg.Use](cmd.Env)
		if err != nil {
			return
		}
		player, ok := r.players[cmd.Session.ID()]
		if !ok {
			return
		}
		if gun, ok := r.wieldedGun(cmd.Session); ok {
			r.tether.HandleRangedUse(r.world, gun, ecs.Entity(use.Target), player, false)
		}
	default:
		r.cfg.Log.Debug().Str("type", cmd.Env.T).Msg("unknown command dropped")
	}
}

func (r *Runner) handleHello(cmd netserver.Command) {
	if _, ok := r.players[cmd.Session.ID()]; ok {
		return
	}
	hello, err := netmsg.DecodePayload[netmsg.Hello](cmd.Env)
	if err != nil {
		return
	}

	player := entity.NewPlayer(r.world, r.joints.Space(), 0, 0)

	if r.cfg.Library != nil {
		if spec, ok := r.cfg.Library.Spec(r.cfg.DefaultGun); ok {
			if gun, err := entity.NewTetherGun(r.world, spec); err == nil {
				if hands, ok := ecs.Get(r.world, player, component.HandsComponent.Kind()); ok {
					hands.Active = component.EntityRef(gun)
				}
			}
		}
	}

	r.players[cmd.Session.ID()] = player
	r.cfg.Log.Info().
		Uint64("session", cmd.Session.ID()).
		Str("name", hello.Name).
		Stringer("player", player).
		Msg("player joined")

	if frame, err := netmsg.Encode(netmsg.MsgWelcome, netmsg.Welcome{Player: uint64(player)}); err == nil {
		cmd.Session.Send(frame)
	}
}

func (r *Runner) dropSession(sess *netserver.Session) {
	player, ok := r.players[sess.ID()]
	if !ok {
		return
	}
	delete(r.players, sess.ID())

	// PendingDestroy rather than a direct destroy, so the physics system
	// pulls the player's body out of the space before the world frees it.
	if hands, ok := ecs.Get(r.world, player, component.HandsComponent.Kind()); ok && hands.Active.Valid() {
		gun := ecs.Entity(hands.Active)
		r.tether.StopTether(r.world, gun, false)
		_ = ecs.Add(r.world, gun, component.PendingDestroyComponent.Kind(), &component.PendingDestroy{})
	}
	_ = ecs.Add(r.world, player, component.PendingDestroyComponent.Kind(), &component.PendingDestroy{})
	r.cfg.Log.Info().Uint64("session", sess.ID()).Stringer("player", player).Msg("player left")
}

func (r *Runner) wieldedGun(sess *netserver.Session) (ecs.Entity, bool) {
	player, ok := r.players[sess.ID()]
	if !ok {
		return 0, false
	}
	hands, ok := ecs.Get(r.world, player, component.HandsComponent.Kind())
	if !ok || !hands.Active.Valid() {
		return 0, false
	}
	return ecs.Entity(hands.Active), true
}

// snapshot drains the dirty set and serializes every entity it covers:
// gun state, strap occupancy, and the poses of anything else with a
// transform. Tethered bodies are always included, dirty or not, since
// the spring moves them every tick.
func (r *Runner) snapshot() netmsg.State {
	state := netmsg.State{Tick: r.tick}

	seen := make(map[ecs.Entity]struct{})
	ecs.ForEach2(r.world, component.TetheredComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Tethered, tr *component.Transform) {
		seen[e] = struct{}{}
		state.Bodies = append(state.Bodies, netmsg.BodyState{
			Entity:   uint64(e),
			X:        tr.X,
			Y:        tr.Y,
			Rotation: tr.Rotation,
		})
	})

	for _, e := range r.world.DrainChanged() {
		if gun, ok := ecs.Get(r.world, e, component.TetherGunComponent.Kind()); ok {
			gs := netmsg.GunState{
				Entity:   uint64(e),
				Tethered: uint64(gun.Tethered),
				Anchor:   uint64(gun.Anchor),
			}
			if app, ok := ecs.Get(r.world, e, component.AppearanceComponent.Kind()); ok {
				gs.Visuals = app.Flags
			}
			state.Guns = append(state.Guns, gs)
			continue
		}
		if strap, ok := ecs.Get(r.world, e, component.StrapComponent.Kind()); ok {
			ss := netmsg.StrapState{Entity: uint64(e)}
			for _, ref := range strap.Occupants {
				ss.Occupants = append(ss.Occupants, uint64(ref))
			}
			state.Straps = append(state.Straps, ss)
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		if tr, ok := ecs.Get(r.world, e, component.TransformComponent.Kind()); ok {
			state.Bodies = append(state.Bodies, netmsg.BodyState{
				Entity:   uint64(e),
				X:        tr.X,
				Y:        tr.Y,
				Rotation: tr.Rotation,
			})
		}
	}

	return state
}

// broadcast fans the current snapshot out to every session.
func (r *Runner) broadcast() {
	state := r.snapshot()
	if len(state.Guns) == 0 && len(state.Straps) == 0 && len(state.Bodies) == 0 {
		return
	}
	frame, err := netmsg.Encode(netmsg.MsgState, state)
	if err != nil {
		return
	}
	r.cfg.Server.Broadcast(frame)
}
