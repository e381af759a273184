// Package joints owns the constraint side of the Chipmunk space: a registry
// of named joints scoped to an owner entity, plus the spring math that turns
// gameplay-level tuning (frequency, damping ratio) into solver stiffness.
package joints

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/tethersim/ecs"
)

// Key identifies one joint: the entity it hangs off plus a fixed string id.
type Key struct {
	Owner ecs.Entity
	ID    string
}

// Registry tracks constraints added to a space so they can be removed by key
// or swept when their owner entity is destroyed.
type Registry struct {
	space  *cp.Space
	joints map[Key]*cp.Constraint
}

func NewRegistry(space *cp.Space) *Registry {
	return &Registry{
		space:  space,
		joints: make(map[Key]*cp.Constraint),
	}
}

// Space returns the underlying Chipmunk space.
func (r *Registry) Space() *cp.Space {
	if r == nil {
		return nil
	}
	return r.space
}

// CreateMouseJoint connects a and b with a damped spring at their centers.
// Stiffness and damping come from LinearStiffness over the two masses;
// maxForce clamps the solver's pull. An existing joint under the same key is
// replaced.
func (r *Registry) CreateMouseJoint(owner ecs.Entity, id string, a, b *cp.Body, massA, massB, frequency, dampingRatio, maxForce float64) *cp.Constraint {
	if r == nil || r.space == nil || a == nil || b == nil {
		return nil
	}
	r.Remove(owner, id)

	stiffness, damping := LinearStiffness(frequency, dampingRatio, massA, massB)
	spring := cp.NewDampedSpring(a, b, cp.Vector{}, cp.Vector{}, 0, stiffness, damping)
	if maxForce > 0 {
		spring.SetMaxForce(maxForce)
	}
	r.space.AddConstraint(spring)
	r.joints[Key{Owner: owner, ID: id}] = spring
	return spring
}

// Get returns the joint under (owner, id), if any.
func (r *Registry) Get(owner ecs.Entity, id string) (*cp.Constraint, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.joints[Key{Owner: owner, ID: id}]
	return c, ok
}

// Remove deletes the joint under (owner, id). Returns false if absent.
func (r *Registry) Remove(owner ecs.Entity, id string) bool {
	if r == nil {
		return false
	}
	key := Key{Owner: owner, ID: id}
	c, ok := r.joints[key]
	if !ok {
		return false
	}
	r.space.RemoveConstraint(c)
	delete(r.joints, key)
	return true
}

// RemoveAll deletes every joint owned by the entity.
func (r *Registry) RemoveAll(owner ecs.Entity) int {
	if r == nil {
		return 0
	}
	n := 0
	for key, c := range r.joints {
		if key.Owner != owner {
			continue
		}
		r.space.RemoveConstraint(c)
		delete(r.joints, key)
		n++
	}
	return n
}

// Len returns the number of registered joints.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.joints)
}

// LinearStiffness converts a spring frequency (Hz) and damping ratio into
// solver stiffness and damping for the pair of masses, using the reduced
// mass when both bodies are dynamic. Non-positive frequency yields a rigid
// zero pair, matching the convention of Box2D's b2LinearStiffness.
func LinearStiffness(frequency, dampingRatio, massA, massB float64) (stiffness, damping float64) {
	if frequency <= 0 {
		return 0, 0
	}
	var mass float64
	switch {
	case massA > 0 && massB > 0 && !math.IsInf(massA, 1) && !math.IsInf(massB, 1):
		mass = massA * massB / (massA + massB)
	case massA > 0 && !math.IsInf(massA, 1):
		mass = massA
	case massB > 0 && !math.IsInf(massB, 1):
		mass = massB
	default:
		return 0, 0
	}
	omega := 2 * math.Pi * frequency
	stiffness = mass * omega * omega
	damping = 2 * mass * dampingRatio * omega
	return stiffness, damping
}
