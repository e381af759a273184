package component

// PendingDestroy is a tag marking an entity for removal at the next physics
// flush. The PhysicsSystem (which owns the cp.Space and the joint registry)
// pulls the entity's joints, body, and shape out of the space before the
// world frees the entity. Any entity carrying a PhysicsBody must be
// destroyed through this tag rather than a direct destroy, or its body
// would linger in the space.
type PendingDestroy struct{}

var PendingDestroyComponent = NewComponent[PendingDestroy]()
