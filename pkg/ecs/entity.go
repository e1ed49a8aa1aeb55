package ecs

import "strconv"

// Entity is an opaque handle naming one row across every component store.
// Only a Registry mints entities; the zero value is entity 0.
type Entity struct {
	id uint64
}

// ID returns the underlying integer identity.
func (e Entity) ID() uint64 {
	return e.id
}

// Index returns the slot index of the entity inside any SparseArray.
func (e Entity) Index() int {
	return int(e.id)
}

func (e Entity) String() string {
	return "entity(" + strconv.FormatUint(e.id, 10) + ")"
}

func entityAt(index int) Entity {
	return Entity{id: uint64(index)}
}
