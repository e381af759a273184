package component

type Transform struct {
	X        float64
	Y        float64
	Rotation float64

	// Anchored means the entity is fixed to the world grid. Cleared when a
	// can-unanchor tether gun detaches it.
	Anchored bool
}

var TransformComponent = NewComponent[Transform]()
