// Package script runs tengo eligibility scripts for tether weapon
// variants. A script sees the candidate target's facts as globals and sets
// `allow`; it is layered on top of the base checks and can only tighten
// them.
package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
	"github.com/milk9111/tethersim/ecs/system"
)

// Eligibility is a compiled variant script. Compile once per variant, run
// per candidate.
type Eligibility struct {
	compiled *tengo.Compiled
}

func NewEligibility(src []byte) (*Eligibility, error) {
	s := tengo.NewScript(src)
	_ = s.Add("mass", 0.0)
	_ = s.Add("alive", false)
	_ = s.Add("anchored", false)
	_ = s.Add("occupied", false)
	_ = s.Add("allow", true)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile eligibility: %w", err)
	}
	return &Eligibility{compiled: compiled}, nil
}

// Allow runs the script against one candidate's facts. A script runtime
// error falls back to allowing, leaving the base checks in charge.
func (e *Eligibility) Allow(mass float64, alive, anchored, occupied bool) bool {
	c := e.compiled.Clone()
	_ = c.Set("mass", mass)
	_ = c.Set("alive", alive)
	_ = c.Set("anchored", anchored)
	_ = c.Set("occupied", occupied)
	if err := c.Run(); err != nil {
		return true
	}
	return c.Get("allow").Bool()
}

// Rule adapts the script to the tether system's override point.
func (e *Eligibility) Rule() system.EligibilityRule {
	return func(w *ecs.World, _ ecs.Entity, _ *component.TetherGun, target, _ ecs.Entity) bool {
		var mass float64
		var anchored bool
		if pb, ok := ecs.Get(w, target, component.PhysicsBodyComponent.Kind()); ok {
			mass = pb.Mass
			anchored = pb.Static
		}
		var alive bool
		if mob, ok := ecs.Get(w, target, component.MobComponent.Kind()); ok {
			alive = mob.Alive
		}
		var occupied bool
		if strap, ok := ecs.Get(w, target, component.StrapComponent.Kind()); ok {
			occupied = strap.HasOccupants()
		}
		return e.Allow(mass, alive, anchored, occupied)
	}
}
