package ecs

import (
	"fmt"
	"iter"
	"reflect"
)

// ComponentStore is the type-erased view of a SparseArray that the Registry
// and the Zipper work with.
type ComponentStore interface {
	Type() reflect.Type
	Len() int
	Has(index int) bool
	Erase(index int)
}

var _ ComponentStore = (*SparseArray[struct{}])(nil)

type slot[T any] struct {
	value T
	set   bool
}

// SparseArray holds optional components of one type, indexed directly by
// entity index. Its length never shrinks; erasing only empties a slot.
//
// Pointers returned by Insert and At stay valid until the next Insert that
// grows the array.
type SparseArray[T any] struct {
	slots []slot[T]
	count int
}

func NewSparseArray[T any]() *SparseArray[T] {
	return &SparseArray[T]{}
}

func (s *SparseArray[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

// Len is the number of slots, populated or not.
func (s *SparseArray[T]) Len() int {
	return len(s.slots)
}

// Count is the number of populated slots.
func (s *SparseArray[T]) Count() int {
	return s.count
}

// Insert writes value at index, growing the array when index is past the end.
// A negative index panics.
func (s *SparseArray[T]) Insert(index int, value T) *T {
	if index < 0 {
		panic(fmt.Sprintf("ecs: insert at negative index %d", index))
	}
	if index >= len(s.slots) {
		s.grow(index + 1)
	}
	sl := &s.slots[index]
	if !sl.set {
		s.count++
	}
	sl.value = value
	sl.set = true
	return &sl.value
}

// Erase empties the slot at index. Out of range indices are ignored.
func (s *SparseArray[T]) Erase(index int) {
	if index < 0 || index >= len(s.slots) {
		return
	}
	sl := &s.slots[index]
	if !sl.set {
		return
	}
	var zero T
	sl.value = zero
	sl.set = false
	s.count--
}

// At returns the component at index, or nil if the slot is empty.
func (s *SparseArray[T]) At(index int) (*T, error) {
	if index < 0 || index >= len(s.slots) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, index, len(s.slots))
	}
	sl := &s.slots[index]
	if !sl.set {
		return nil, nil
	}
	return &sl.value, nil
}

func (s *SparseArray[T]) Has(index int) bool {
	return index >= 0 && index < len(s.slots) && s.slots[index].set
}

// IndexOf maps a pointer previously obtained from this array back to its
// index. Empty slots and foreign pointers are not found.
func (s *SparseArray[T]) IndexOf(p *T) (int, bool) {
	if p == nil {
		return -1, false
	}
	for i := range s.slots {
		if s.slots[i].set && &s.slots[i].value == p {
			return i, true
		}
	}
	return -1, false
}

// All yields populated slots in index order.
func (s *SparseArray[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range s.slots {
			if !s.slots[i].set {
				continue
			}
			if !yield(i, &s.slots[i].value) {
				return
			}
		}
	}
}

// value returns the slot pointer without bounds reporting; callers have
// already checked presence.
func (s *SparseArray[T]) value(index int) *T {
	return &s.slots[index].value
}

func (s *SparseArray[T]) grow(n int) {
	if n <= cap(s.slots) {
		s.slots = s.slots[:n]
		return
	}
	next := make([]slot[T], n, max(n, 2*cap(s.slots)))
	copy(next, s.slots)
	s.slots = next
}
