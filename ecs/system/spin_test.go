package system

import (
	"math"
	"testing"

	"github.com/milk9111/tethersim/common"
	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
	"github.com/milk9111/tethersim/ecs/entity"
)

func TestSpinImpulse(t *testing.T) {
	dt := common.TickDelta

	t.Run("at_rest_spins_positive", func(t *testing.T) {
		if got := spinImpulse(0, dt); got <= 0 {
			t.Fatalf("body at rest should get a positive kick, got %v", got)
		}
	})

	t.Run("at_target_no_correction", func(t *testing.T) {
		if got := spinImpulse(common.SpinRate, dt); got != 0 {
			t.Fatalf("body at target should get no impulse, got %v", got)
		}
	})

	t.Run("keeps_negative_direction", func(t *testing.T) {
		if got := spinImpulse(-0.5, dt); got >= 0 {
			t.Fatalf("negatively spinning body should be driven further negative, got %v", got)
		}
	})

	t.Run("overshoot_is_braked", func(t *testing.T) {
		if got := spinImpulse(2*common.SpinRate, dt); got >= 0 {
			t.Fatalf("overspun body should be braked, got %v", got)
		}
	})

	t.Run("shortfall_is_clamped", func(t *testing.T) {
		limit := common.SpinVelocityClamp*dt*common.SpinCorrectionGain + 1e-12
		for current := -20.0; current <= 20.0; current += 0.25 {
			if got := math.Abs(spinImpulse(current, dt)); got > limit {
				t.Fatalf("impulse at velocity %v exceeds clamp: %v > %v", current, got, limit)
			}
		}
	})
}

func TestSpinSystemConvergesOnTarget(t *testing.T) {
	r := newRig(RoleServer)
	target := entity.NewCrate(r.w, r.space, 0, 0, entity.CrateOpts{Mass: 10})
	_ = ecs.Add(r.w, target, component.TetheredComponent.Kind(), &component.Tethered{})

	pb := r.body(target)
	pb.Body.SetAngularVelocity(0)

	sys := NewSpinSystem()
	for i := 0; i < 600; i++ {
		sys.Update(r.w)
	}
	if got := pb.Body.AngularVelocity(); math.Abs(got-common.SpinRate) > 0.05 {
		t.Fatalf("angular velocity should settle near %v, got %v", common.SpinRate, got)
	}
}

func TestSpinSystemIgnoresUntethered(t *testing.T) {
	r := newRig(RoleServer)
	crate := entity.NewCrate(r.w, r.space, 0, 0, entity.CrateOpts{Mass: 10})
	pb := r.body(crate)
	pb.Body.SetAngularVelocity(0)

	NewSpinSystem().Update(r.w)
	if got := pb.Body.AngularVelocity(); got != 0 {
		t.Fatalf("untethered body should be left alone, got %v", got)
	}
}
