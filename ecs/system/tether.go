package system

import (
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"

	"github.com/milk9111/tethersim/audio"
	"github.com/milk9111/tethersim/common"
	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
	"github.com/milk9111/tethersim/ecs/entity"
	"github.com/milk9111/tethersim/joints"
)

// TetherJointID keys the one joint an active tether creates, scoped to the
// anchor entity.
const TetherJointID = "tether-joint"

// Role says which side of the client/server split this simulation is.
// Anchor destruction and sound-stream starts only happen on the server;
// predictive clients run the rest of the logic and wait for replication.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

// EligibilityRule is an extra predicate a weapon variant layers on top of
// the base CanTether checks. It runs last and can only tighten the result.
type EligibilityRule func(w *ecs.World, gunEnt ecs.Entity, gun *component.TetherGun, target, user ecs.Entity) bool

// TetherSystem orchestrates the tether gun lifecycle: eligibility, start,
// stop, per-session move requests, and the activation/ranged-use triggers.
// It holds no entity state of its own; everything lives in components.
type TetherSystem struct {
	joints *joints.Registry
	audio  audio.Manager
	role   Role
	log    zerolog.Logger

	mu    sync.RWMutex
	rules map[string]EligibilityRule
}

func NewTetherSystem(reg *joints.Registry, snd audio.Manager, role Role, log zerolog.Logger) *TetherSystem {
	if snd == nil {
		snd = audio.Null{}
	}
	return &TetherSystem{
		joints: reg,
		audio:  snd,
		role:   role,
		log:    log,
		rules:  make(map[string]EligibilityRule),
	}
}

// RegisterVariantRule installs an extra eligibility predicate for guns of
// the named variant, replacing any previous one. Safe to call from the
// prefab watcher goroutine while the sim reads.
func (s *TetherSystem) RegisterVariantRule(variant string, rule EligibilityRule) {
	s.mu.Lock()
	s.rules[variant] = rule
	s.mu.Unlock()
}

func (s *TetherSystem) variantRule(variant string) (EligibilityRule, bool) {
	s.mu.RLock()
	rule, ok := s.rules[variant]
	s.mu.RUnlock()
	return rule, ok
}

// CanTether reports whether the gun may grab target. Pure predicate, no
// side effects; rules run in order and the first failure wins.
func (s *TetherSystem) CanTether(w *ecs.World, gunEnt, target, user ecs.Entity) bool {
	gun, ok := ecs.Get(w, gunEnt, component.TetherGunComponent.Kind())
	if !ok {
		return false
	}
	if ecs.Has(w, target, component.TetheredComponent.Kind()) {
		return false
	}
	pb, ok := ecs.Get(w, target, component.PhysicsBodyComponent.Kind())
	if !ok {
		return false
	}
	if pb.Static && !gun.CanUnanchor {
		return false
	}
	if pb.Mass > gun.MassLimit {
		return false
	}
	if !gun.CanTetherAlive {
		if mob, ok := ecs.Get(w, target, component.MobComponent.Kind()); ok && mob.Alive {
			return false
		}
	}
	if strap, ok := ecs.Get(w, target, component.StrapComponent.Kind()); ok && strap.HasOccupants() {
		return false
	}
	if rule, ok := s.variantRule(gun.Variant); ok && !rule(w, gunEnt, gun, target, user) {
		return false
	}
	return true
}

// StartTether grabs target with the gun. Assumes eligibility was already
// checked; it still aborts, mutation-free, if the target has no physics
// body or transform. Starting again on the gun's current target is a
// no-op. Returns whether a tether is active.
func (s *TetherSystem) StartTether(w *ecs.World, gunEnt, target, user ecs.Entity) bool {
	gun, ok := ecs.Get(w, gunEnt, component.TetherGunComponent.Kind())
	if !ok {
		return false
	}
	pb, ok := ecs.Get(w, target, component.PhysicsBodyComponent.Kind())
	if !ok {
		return false
	}
	tr, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return false
	}

	// Re-grabbing the current target would spawn a second anchor and
	// overwrite the saved damping with the already-zeroed live value.
	if gun.Tethered.Valid() {
		if ecs.Entity(gun.Tethered) == target {
			return true
		}
		// Swapping targets on the same gun keeps the sound stream alive.
		s.StopTether(w, gunEnt, true)
	}

	if app, ok := ecs.Get(w, gunEnt, component.AppearanceComponent.Kind()); ok {
		app.SetFlag(component.VisualTethered, true)
		app.SetFlag(component.VisualLight, true)
	}

	unanchor(pb, tr)

	gun.Tethered = component.EntityRef(target)
	_ = ecs.Add(w, target, component.TetheredComponent.Kind(), &component.Tethered{
		Tetherer:               component.EntityRef(gunEnt),
		OriginalAngularDamping: pb.AngularDamping,
	})

	pb.Status = component.StatusInAir
	pb.SleepForbidden = true
	pb.AngularDamping = 0
	pb.LinearDamping = 0
	if pb.Body != nil {
		pb.Body.SetAngularVelocity(common.SpinRate)
		pb.Body.Activate()
	}

	_ = ecs.Add(w, target, component.ThrownComponent.Kind(), &component.Thrown{
		Thrower: component.EntityRef(gunEnt),
	})
	RefreshMovement(w, target)

	anchor := entity.NewTetherAnchorAt(w, s.joints.Space(), gunEnt, tr.X, tr.Y)
	gun.Anchor = component.EntityRef(anchor)

	if apb, ok := ecs.Get(w, anchor, component.PhysicsBodyComponent.Kind()); ok && apb.Body != nil && pb.Body != nil {
		apb.Body.Activate()
		s.joints.CreateMouseJoint(anchor, TetherJointID, apb.Body, pb.Body,
			apb.Mass, pb.Mass, gun.Frequency, gun.DampingRatio, gun.MaxForce)
	}

	if s.role == RoleServer && gun.Stream == nil {
		stream, err := s.audio.Play(gun.Sound)
		if err != nil {
			s.log.Warn().Err(err).Str("sound", gun.Sound).Msg("tether sound failed")
		} else {
			gun.Stream = stream
		}
	}

	w.MarkChanged(gunEnt)
	w.MarkChanged(target)
	s.log.Debug().
		Stringer("gun", gunEnt).
		Stringer("target", target).
		Stringer("user", user).
		Msg("tether started")
	return true
}

// StopTether releases the gun's current target. No-op when nothing is
// tethered. transfer is true when the same gun immediately re-tethers,
// which keeps the sound stream running across the swap.
func (s *TetherSystem) StopTether(w *ecs.World, gunEnt ecs.Entity, transfer bool) {
	gun, ok := ecs.Get(w, gunEnt, component.TetherGunComponent.Kind())
	if !ok || !gun.Tethered.Valid() {
		return
	}
	target := ecs.Entity(gun.Tethered)

	if gun.Anchor.Valid() {
		anchor := ecs.Entity(gun.Anchor)
		s.joints.Remove(anchor, TetherJointID)
		if s.role == RoleServer {
			_ = ecs.Add(w, anchor, component.PendingDestroyComponent.Kind(), &component.PendingDestroy{})
		}
		gun.Anchor = component.NoEntity
	}

	if pb, ok := ecs.Get(w, target, component.PhysicsBodyComponent.Kind()); ok {
		if th, ok := ecs.Get(w, target, component.ThrownComponent.Kind()); ok {
			th.Landed = true
			w.QueueRemove(target, component.ThrownComponent.Kind().ID())
		}
		pb.SleepForbidden = false
		pb.Status = component.StatusGrounded
		if td, ok := ecs.Get(w, target, component.TetheredComponent.Kind()); ok {
			pb.AngularDamping = td.OriginalAngularDamping
		}
	}

	if !transfer && gun.Stream != nil {
		gun.Stream.Stop()
		gun.Stream = nil
	}

	if app, ok := ecs.Get(w, gunEnt, component.AppearanceComponent.Kind()); ok {
		app.SetFlag(component.VisualTethered, false)
		app.SetFlag(component.VisualLight, false)
	}

	w.QueueRemove(target, component.TetheredComponent.Kind().ID())
	RefreshMovement(w, target)
	gun.Tethered = component.NoEntity
	w.MarkChanged(gunEnt)
	s.log.Debug().
		Stringer("gun", gunEnt).
		Stringer("target", target).
		Bool("transfer", transfer).
		Msg("tether stopped")
}

// HandleActivate is the gun's in-hand use trigger: releases any active
// tether unconditionally.
func (s *TetherSystem) HandleActivate(w *ecs.World, gunEnt ecs.Entity) {
	s.StopTether(w, gunEnt, false)
}

// HandleRangedUse is the use-on-target interaction. handled is whether an
// earlier system already consumed the event; the return value is the new
// handled state.
func (s *TetherSystem) HandleRangedUse(w *ecs.World, gunEnt, target, user ecs.Entity, handled bool) bool {
	if handled || !ecs.IsAlive(w, target) {
		return handled
	}
	if !s.CanTether(w, gunEnt, target, user) {
		return false
	}
	return s.StartTether(w, gunEnt, target, user)
}

// HandleMoveRequest repositions the anchor of the sender's wielded tether
// gun. Requests from senders with no wielded gun, no active tether, or an
// out-of-range target are silently ignored. Returns whether the anchor
// moved.
func (s *TetherSystem) HandleMoveRequest(w *ecs.World, sender ecs.Entity, x, y float64) bool {
	hands, ok := ecs.Get(w, sender, component.HandsComponent.Kind())
	if !ok || !hands.Active.Valid() {
		return false
	}
	gunEnt := ecs.Entity(hands.Active)
	gun, ok := ecs.Get(w, gunEnt, component.TetherGunComponent.Kind())
	if !ok || !gun.Tethered.Valid() || !gun.Anchor.Valid() {
		return false
	}
	gtr, ok := ecs.Get(w, gunEnt, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	if common.Dist(gtr.X, gtr.Y, x, y) > gun.MaxDistance {
		return false
	}

	anchor := ecs.Entity(gun.Anchor)
	atr, ok := ecs.Get(w, anchor, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	atr.X = x
	atr.Y = y
	if apb, ok := ecs.Get(w, anchor, component.PhysicsBodyComponent.Kind()); ok && apb.Body != nil {
		apb.Body.SetPosition(cp.Vector{X: x, Y: y})
	}
	return true
}

// unanchor detaches a world-anchored body so the joint can move it. The
// conversion to a dynamic body is permanent for the session.
func unanchor(pb *component.PhysicsBody, tr *component.Transform) {
	tr.Anchored = false
	if !pb.Static {
		return
	}
	pb.Static = false
	if pb.Body != nil {
		pb.Body.SetType(cp.BODY_DYNAMIC)
		mass := pb.Mass
		if mass <= 0 {
			mass = 1
			pb.Mass = mass
		}
		radius := pb.Radius
		if radius <= 0 {
			radius = defaultBodyRadius
		}
		moment := cp.MomentForCircle(mass, 0, radius*2, cp.Vector{})
		pb.Body.SetMass(mass)
		pb.Body.SetMoment(moment)
		pb.Moment = moment
	}
}
