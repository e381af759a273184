package system

import (
	"github.com/milk9111/tethersim/common"
	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
)

// SpinSystem keeps tethered bodies visibly spinning. The tether joint's
// torque constantly bleeds angular momentum out of the held body, so every
// tick it re-injects an impulse that drives the body back toward SpinRate.
type SpinSystem struct{}

func NewSpinSystem() *SpinSystem {
	return &SpinSystem{}
}

func (s *SpinSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach2(w, component.TetheredComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, _ *component.Tethered, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		applyAngularImpulse(pb, spinImpulse(pb.Body.AngularVelocity(), common.TickDelta))
	})
}

// spinImpulse computes the corrective angular impulse for a body at the
// given angular velocity. The spin target keeps the body's current
// direction; a body at rest spins positive (counter-clockwise). The
// velocity shortfall is clamped before gain and delta scaling so a wildly
// disturbed body is corrected gradually rather than snapped.
func spinImpulse(current, dt float64) float64 {
	sign := 1.0
	if current < 0 {
		sign = -1
	}
	target := sign * common.SpinRate
	shortfall := common.Clamp(target-current, -common.SpinVelocityClamp, common.SpinVelocityClamp)
	return shortfall * dt * common.SpinCorrectionGain
}
