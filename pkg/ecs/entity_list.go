package ecs

import (
	"iter"
	"slices"
)

// EntityList is the caller-scoped set of entities handed to every system and
// event subscriber, e.g. the entities of the active scene.
type EntityList struct {
	items []Entity
}

func NewEntityList(entities ...Entity) *EntityList {
	return &EntityList{items: slices.Clone(entities)}
}

func (l *EntityList) Add(entities ...Entity) {
	l.items = append(l.items, entities...)
}

// Remove drops the first occurrence of e and reports whether it was present.
func (l *EntityList) Remove(e Entity) bool {
	i := slices.Index(l.items, e)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

func (l *EntityList) Contains(e Entity) bool {
	return slices.Contains(l.items, e)
}

func (l *EntityList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

func (l *EntityList) Clear() {
	l.items = l.items[:0]
}

// All iterates over a snapshot, so the list may be edited inside the loop.
func (l *EntityList) All() iter.Seq[Entity] {
	if l == nil {
		return func(func(Entity) bool) {}
	}
	return slices.Values(slices.Clone(l.items))
}

// Slice returns a copy of the entities.
func (l *EntityList) Slice() []Entity {
	if l == nil {
		return nil
	}
	return slices.Clone(l.items)
}
