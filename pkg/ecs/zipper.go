package ecs

import "iter"

// Zipper walks several stores in lockstep and stops only on indices that are
// populated in all of them. The range is fixed at construction to the
// shortest store.
type Zipper struct {
	stores []ComponentStore
	size   int
}

func NewZipper(stores ...ComponentStore) *Zipper {
	z := &Zipper{stores: stores}
	if len(stores) == 0 {
		return z
	}
	z.size = stores[0].Len()
	for _, s := range stores[1:] {
		z.size = min(z.size, s.Len())
	}
	return z
}

// Size is the exclusive upper bound of the indices the zipper may yield.
func (z *Zipper) Size() int {
	return z.size
}

func (z *Zipper) Begin() Iterator {
	return z.seek(0)
}

func (z *Zipper) End() Iterator {
	return Iterator{z: z, idx: z.size}
}

// Indices yields every matching index once.
func (z *Zipper) Indices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for it := z.Begin(); !it.Done(); it = it.Next() {
			if !yield(it.idx) {
				return
			}
		}
	}
}

func (z *Zipper) match(i int) bool {
	for _, s := range z.stores {
		if !s.Has(i) {
			return false
		}
	}
	return true
}

func (z *Zipper) seek(from int) Iterator {
	for i := from; i < z.size; i++ {
		if z.match(i) {
			return Iterator{z: z, idx: i}
		}
	}
	return z.End()
}

// Iterator is a forward-only cursor into a Zipper.
type Iterator struct {
	z   *Zipper
	idx int
}

// Next returns the cursor at the following match, or End.
func (it Iterator) Next() Iterator {
	if it.Done() {
		return it
	}
	return it.z.seek(it.idx + 1)
}

func (it Iterator) Index() int {
	return it.idx
}

func (it Iterator) Entity() Entity {
	return entityAt(it.idx)
}

func (it Iterator) Done() bool {
	return it.z == nil || it.idx >= it.z.size
}

// Equal reports whether both cursors sit at the same position of the same
// stores. Iterators from distinct zippers over identical stores compare equal.
func (it Iterator) Equal(other Iterator) bool {
	if it.idx != other.idx {
		return false
	}
	if it.z == other.z {
		return true
	}
	if it.z == nil || other.z == nil || len(it.z.stores) != len(other.z.stores) {
		return false
	}
	for i := range it.z.stores {
		if it.z.stores[i] != other.z.stores[i] {
			return false
		}
	}
	return true
}

// cursor drives the typed zippers with a Next/Get loop.
type cursor struct {
	z       *Zipper
	it      Iterator
	started bool
}

func (c *cursor) Next() bool {
	if !c.started {
		c.it = c.z.Begin()
		c.started = true
	} else {
		c.it = c.it.Next()
	}
	return !c.it.Done()
}

func (c *cursor) Index() int {
	return c.it.idx
}

func (c *cursor) Entity() Entity {
	return entityAt(c.it.idx)
}

// Reset rewinds to before the first match.
func (c *cursor) Reset() {
	c.started = false
	c.it = Iterator{}
}

type Zip1[A any] struct {
	cursor
	a *SparseArray[A]
}

func NewZip1[A any](a *SparseArray[A]) *Zip1[A] {
	return &Zip1[A]{cursor: cursor{z: NewZipper(a)}, a: a}
}

func (z *Zip1[A]) Get() *A {
	return z.a.value(z.Index())
}

func (z *Zip1[A]) Each(fn func(e Entity, a *A)) {
	for i := range z.z.Indices() {
		fn(entityAt(i), z.a.value(i))
	}
}

func (z *Zip1[A]) All() iter.Seq2[Entity, *A] {
	return func(yield func(Entity, *A) bool) {
		for i := range z.z.Indices() {
			if !yield(entityAt(i), z.a.value(i)) {
				return
			}
		}
	}
}

// Row2 groups the components All yields for one entity of a Zip2.
type Row2[A, B any] struct {
	First  *A
	Second *B
}

type Zip2[A, B any] struct {
	cursor
	a *SparseArray[A]
	b *SparseArray[B]
}

func NewZip2[A, B any](a *SparseArray[A], b *SparseArray[B]) *Zip2[A, B] {
	return &Zip2[A, B]{cursor: cursor{z: NewZipper(a, b)}, a: a, b: b}
}

func (z *Zip2[A, B]) Get() (*A, *B) {
	i := z.Index()
	return z.a.value(i), z.b.value(i)
}

func (z *Zip2[A, B]) Each(fn func(e Entity, a *A, b *B)) {
	for i := range z.z.Indices() {
		fn(entityAt(i), z.a.value(i), z.b.value(i))
	}
}

func (z *Zip2[A, B]) All() iter.Seq2[Entity, Row2[A, B]] {
	return func(yield func(Entity, Row2[A, B]) bool) {
		for i := range z.z.Indices() {
			if !yield(entityAt(i), Row2[A, B]{z.a.value(i), z.b.value(i)}) {
				return
			}
		}
	}
}

type Row3[A, B, C any] struct {
	First  *A
	Second *B
	Third  *C
}

type Zip3[A, B, C any] struct {
	cursor
	a *SparseArray[A]
	b *SparseArray[B]
	c *SparseArray[C]
}

func NewZip3[A, B, C any](a *SparseArray[A], b *SparseArray[B], c *SparseArray[C]) *Zip3[A, B, C] {
	return &Zip3[A, B, C]{cursor: cursor{z: NewZipper(a, b, c)}, a: a, b: b, c: c}
}

func (z *Zip3[A, B, C]) Get() (*A, *B, *C) {
	i := z.Index()
	return z.a.value(i), z.b.value(i), z.c.value(i)
}

func (z *Zip3[A, B, C]) Each(fn func(e Entity, a *A, b *B, c *C)) {
	for i := range z.z.Indices() {
		fn(entityAt(i), z.a.value(i), z.b.value(i), z.c.value(i))
	}
}

func (z *Zip3[A, B, C]) All() iter.Seq2[Entity, Row3[A, B, C]] {
	return func(yield func(Entity, Row3[A, B, C]) bool) {
		for i := range z.z.Indices() {
			if !yield(entityAt(i), Row3[A, B, C]{z.a.value(i), z.b.value(i), z.c.value(i)}) {
				return
			}
		}
	}
}

type Row4[A, B, C, D any] struct {
	First  *A
	Second *B
	Third  *C
	Fourth *D
}

type Zip4[A, B, C, D any] struct {
	cursor
	a *SparseArray[A]
	b *SparseArray[B]
	c *SparseArray[C]
	d *SparseArray[D]
}

func NewZip4[A, B, C, D any](a *SparseArray[A], b *SparseArray[B], c *SparseArray[C], d *SparseArray[D]) *Zip4[A, B, C, D] {
	return &Zip4[A, B, C, D]{cursor: cursor{z: NewZipper(a, b, c, d)}, a: a, b: b, c: c, d: d}
}

func (z *Zip4[A, B, C, D]) Get() (*A, *B, *C, *D) {
	i := z.Index()
	return z.a.value(i), z.b.value(i), z.c.value(i), z.d.value(i)
}

func (z *Zip4[A, B, C, D]) Each(fn func(e Entity, a *A, b *B, c *C, d *D)) {
	for i := range z.z.Indices() {
		fn(entityAt(i), z.a.value(i), z.b.value(i), z.c.value(i), z.d.value(i))
	}
}

func (z *Zip4[A, B, C, D]) All() iter.Seq2[Entity, Row4[A, B, C, D]] {
	return func(yield func(Entity, Row4[A, B, C, D]) bool) {
		for i := range z.z.Indices() {
			if !yield(entityAt(i), Row4[A, B, C, D]{z.a.value(i), z.b.value(i), z.c.value(i), z.d.value(i)}) {
				return
			}
		}
	}
}
