package joints

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/tethersim/ecs"
)

func TestLinearStiffness(t *testing.T) {
	cases := []struct {
		name          string
		frequency     float64
		dampingRatio  float64
		massA, massB  float64
		wantStiffness float64
		wantDamping   float64
	}{
		{
			// reduced mass of equal bodies is half a body
			name:      "two_dynamic_equal",
			frequency: 1, dampingRatio: 1, massA: 2, massB: 2,
			wantStiffness: 1 * (2 * math.Pi) * (2 * math.Pi),
			wantDamping:   2 * 1 * 1 * (2 * math.Pi),
		},
		{
			// kinematic anchor: infinite mass falls back to the target's
			name:      "kinematic_anchor",
			frequency: 10, dampingRatio: 2, massA: math.Inf(1), massB: 5,
			wantStiffness: 5 * (20 * math.Pi) * (20 * math.Pi),
			wantDamping:   2 * 5 * 2 * (20 * math.Pi),
		},
		{
			name:      "zero_mass_anchor",
			frequency: 10, dampingRatio: 2, massA: 0, massB: 5,
			wantStiffness: 5 * (20 * math.Pi) * (20 * math.Pi),
			wantDamping:   2 * 5 * 2 * (20 * math.Pi),
		},
		{
			name:      "zero_frequency_is_rigid",
			frequency: 0, dampingRatio: 1, massA: 1, massB: 1,
			wantStiffness: 0, wantDamping: 0,
		},
		{
			name:      "no_usable_mass",
			frequency: 5, dampingRatio: 1, massA: 0, massB: 0,
			wantStiffness: 0, wantDamping: 0,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			stiffness, damping := LinearStiffness(c.frequency, c.dampingRatio, c.massA, c.massB)
			if !closeTo(stiffness, c.wantStiffness) {
				t.Fatalf("stiffness = %v, want %v", stiffness, c.wantStiffness)
			}
			if !closeTo(damping, c.wantDamping) {
				t.Fatalf("damping = %v, want %v", damping, c.wantDamping)
			}
		})
	}
}

func closeTo(got, want float64) bool {
	if want == 0 {
		return got == 0
	}
	return math.Abs(got-want)/math.Abs(want) < 1e-9
}

func TestRegistryLifecycle(t *testing.T) {
	space := cp.NewSpace()
	reg := NewRegistry(space)

	a := cp.NewKinematicBody()
	b := cp.NewBody(5, cp.MomentForCircle(5, 0, 1, cp.Vector{}))
	space.AddBody(a)
	space.AddBody(b)

	owner := ecs.Entity(1)

	if reg.Len() != 0 {
		t.Fatalf("fresh registry should be empty")
	}
	joint := reg.CreateMouseJoint(owner, "tether-joint", a, b, 0, 5, 10, 2, 1000)
	if joint == nil {
		t.Fatalf("expected a joint")
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 joint, got %d", reg.Len())
	}
	if _, ok := reg.Get(owner, "tether-joint"); !ok {
		t.Fatalf("joint should be retrievable by key")
	}

	// replacing under the same key keeps exactly one
	reg.CreateMouseJoint(owner, "tether-joint", a, b, 0, 5, 10, 2, 1000)
	if reg.Len() != 1 {
		t.Fatalf("same key should replace, got %d joints", reg.Len())
	}

	if !reg.Remove(owner, "tether-joint") {
		t.Fatalf("remove should succeed")
	}
	if reg.Remove(owner, "tether-joint") {
		t.Fatalf("second remove should be a no-op")
	}
	if reg.Len() != 0 {
		t.Fatalf("registry should be empty after remove")
	}
}

func TestRegistryRemoveAll(t *testing.T) {
	space := cp.NewSpace()
	reg := NewRegistry(space)

	a := cp.NewKinematicBody()
	b := cp.NewBody(5, cp.MomentForCircle(5, 0, 1, cp.Vector{}))
	space.AddBody(a)
	space.AddBody(b)

	reg.CreateMouseJoint(ecs.Entity(1), "x", a, b, 0, 5, 10, 2, 0)
	reg.CreateMouseJoint(ecs.Entity(1), "y", a, b, 0, 5, 10, 2, 0)
	reg.CreateMouseJoint(ecs.Entity(2), "x", a, b, 0, 5, 10, 2, 0)

	if n := reg.RemoveAll(ecs.Entity(1)); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 joint left, got %d", reg.Len())
	}
}
