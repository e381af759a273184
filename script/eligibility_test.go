package script

import (
	"testing"

	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
	"github.com/milk9111/tethersim/prefabs"
)

func TestAllow(t *testing.T) {
	elig, err := NewEligibility([]byte(`
allow = true
if mass < 5 {
	allow = false
}
if alive {
	allow = false
}
`))
	if err != nil {
		t.Fatalf("NewEligibility: %v", err)
	}

	cases := []struct {
		name  string
		mass  float64
		alive bool
		want  bool
	}{
		{"heavy_dead", 10, false, true},
		{"light_dead", 2, false, false},
		{"heavy_alive", 10, true, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := elig.Allow(c.mass, c.alive, false, false); got != c.want {
				t.Fatalf("Allow = %v, want %v", got, c.want)
			}
		})
	}
}

func TestAllowFailsOpenOnRuntimeError(t *testing.T) {
	elig, err := NewEligibility([]byte(`allow = 1 / int(mass) == 0`))
	if err != nil {
		t.Fatalf("NewEligibility: %v", err)
	}
	// mass 0 divides by zero at runtime; the base checks stay in charge
	if !elig.Allow(0, false, false, false) {
		t.Fatalf("runtime error should fall back to allow")
	}
}

func TestCompileError(t *testing.T) {
	if _, err := NewEligibility([]byte(`allow = `)); err == nil {
		t.Fatalf("broken script should fail to compile")
	}
}

func TestEmbeddedHeavyLiftScript(t *testing.T) {
	src, err := prefabs.LoadScript("heavy_lift.tengo")
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	elig, err := NewEligibility(src)
	if err != nil {
		t.Fatalf("NewEligibility: %v", err)
	}

	if elig.Allow(2, false, false, false) {
		t.Fatalf("scrap below the weight floor should be rejected")
	}
	if !elig.Allow(50, false, false, false) {
		t.Fatalf("plain heavy scrap should pass")
	}
	if elig.Allow(50, false, true, true) {
		t.Fatalf("anchored occupied furniture should be rejected")
	}
	if !elig.Allow(50, false, true, false) {
		t.Fatalf("anchored but empty furniture should pass")
	}
}

func TestRuleReadsComponents(t *testing.T) {
	elig, err := NewEligibility([]byte(`
allow = true
if mass > 20 {
	allow = false
}
`))
	if err != nil {
		t.Fatalf("NewEligibility: %v", err)
	}
	rule := elig.Rule()

	w := ecs.NewWorld()
	light := ecs.CreateEntity(w)
	_ = ecs.Add(w, light, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Mass: 10})
	heavy := ecs.CreateEntity(w)
	_ = ecs.Add(w, heavy, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Mass: 30})

	if !rule(w, 0, nil, light, 0) {
		t.Fatalf("light target should pass")
	}
	if rule(w, 0, nil, heavy, 0) {
		t.Fatalf("heavy target should be rejected")
	}
}
