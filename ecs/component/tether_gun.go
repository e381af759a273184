package component

import "github.com/milk9111/tethersim/audio"

// TetherGun holds a tether weapon's tuning plus its live session state.
// Tuning fields are written once when the gun is spawned from a prefab spec;
// the live fields flip between zero and set as tethers start and stop.
type TetherGun struct {
	// Variant names the prefab this gun was built from; the tether system
	// looks up variant-specific eligibility rules under it.
	Variant string

	// MaxDistance bounds how far from the gun a move request may place the
	// anchor, in world units.
	MaxDistance float64
	// MassLimit is the heaviest body the gun can grab, in mass units.
	MassLimit float64
	// CanTetherAlive permits grabbing living creatures.
	CanTetherAlive bool
	// CanUnanchor permits grabbing bodies anchored to the world; starting a
	// tether on one detaches it first.
	CanUnanchor bool

	// Frequency and DampingRatio parameterize the mouse joint's spring.
	Frequency    float64
	DampingRatio float64
	// MaxForce clamps the joint's pull.
	MaxForce float64

	// Sound names the looping stream played while a tether is active.
	Sound string

	// Tethered is the currently grabbed entity, if any.
	Tethered EntityRef
	// Anchor is the kinematic entity the joint pulls the target toward.
	Anchor EntityRef
	// Stream is the playing sound handle, kept across same-gun transfers.
	Stream audio.Stream
}

var TetherGunComponent = NewComponent[TetherGun]()
