package component

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID indexes a world's component stores. IDs are handed out at
// package init, one per NewComponentKind call, process-wide.
type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentKind is a typed key for one component store. The type parameter
// pins the stored value type at the call site, so Get and Add need no
// assertions.
type ComponentKind[T any] struct {
	id ComponentID
}

// NewComponentKind allocates a fresh kind. Callers normally want
// NewComponent instead; this is exported for tests that need throwaway
// kinds.
func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

// Valid distinguishes an allocated kind from the zero value.
func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// ComponentHandle is the package-level variable form of a kind, declared
// next to its component struct (TetherGunComponent, StrapComponent, ...).
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
