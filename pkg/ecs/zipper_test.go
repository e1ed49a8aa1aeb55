package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipperIntersection(t *testing.T) {
	a := storeWith(0, 1, 2, 3)
	b := storeWith(1, 2, 4)
	c := storeWith(1, 3)

	z := NewZipper(a, b, c)
	assert.Equal(t, 4, z.Size())
	assert.Equal(t, []int{1}, collect(z))
}

func TestZipperEmptyStore(t *testing.T) {
	a := storeWith(0, 1, 2)
	empty := NewSparseArray[int]()

	assert.Empty(t, collect(NewZipper(a, empty)))
	assert.Empty(t, collect(NewZipper(empty, a)))
	assert.Empty(t, collect(NewZipper()))

	z := NewZipper(a, empty)
	assert.True(t, z.Begin().Equal(z.End()))
}

func TestZipperStoreWithOnlyGaps(t *testing.T) {
	a := storeWith(0, 1, 2)
	b := storeWith(2)
	b.Erase(2)

	assert.Empty(t, collect(NewZipper(a, b)))
}

func TestZipperSingleStore(t *testing.T) {
	a := storeWith(2, 4, 6)
	assert.Equal(t, []int{2, 4, 6}, collect(NewZipper(a)))
}

func TestZipperRestartable(t *testing.T) {
	a := storeWith(0, 2, 3, 5, 8)
	b := storeWith(2, 3, 4, 5, 8, 9)

	first := collect(NewZipper(a, b))
	second := collect(NewZipper(a, b))
	assert.Equal(t, []int{2, 3, 5, 8}, first)
	assert.Equal(t, first, second)
}

func TestZipperIteratorEquality(t *testing.T) {
	a := storeWith(1, 2)
	b := storeWith(2, 3)

	z := NewZipper(a, b)
	it := z.Begin()
	require.False(t, it.Done())
	assert.Equal(t, 2, it.Index())
	assert.Equal(t, entityAt(2), it.Entity())

	it = it.Next()
	assert.True(t, it.Done())
	assert.True(t, it.Equal(z.End()))

	// advancing past the end stays at the end
	assert.True(t, it.Next().Equal(z.End()))

	other := NewZipper(a, b)
	assert.True(t, z.End().Equal(other.End()), "cursors over the same stores compare equal")
	assert.True(t, z.Begin().Equal(other.Begin()))

	swapped := NewZipper(b, a)
	assert.False(t, z.Begin().Equal(swapped.Begin()))
}

func TestZipperSeesErasureDuringIteration(t *testing.T) {
	a := storeWith(0, 1, 2, 3)

	var seen []int
	for it := NewZipper(a).Begin(); !it.Done(); it = it.Next() {
		seen = append(seen, it.Index())
		if it.Index() == 0 {
			a.Erase(2)
		}
	}
	assert.Equal(t, []int{0, 1, 3}, seen)
}

func TestZip2GetAndMutate(t *testing.T) {
	pos := NewSparseArray[Position]()
	vel := NewSparseArray[Velocity]()
	pos.Insert(0, Position{X: 0})
	pos.Insert(1, Position{X: 10})
	vel.Insert(1, Velocity{X: 2})
	vel.Insert(2, Velocity{X: 3})

	z := NewZip2(pos, vel)
	count := 0
	for z.Next() {
		p, v := z.Get()
		p.X += v.X
		assert.Equal(t, 1, z.Index())
		assert.Equal(t, entityAt(1), z.Entity())
		count++
	}
	assert.Equal(t, 1, count)

	got, err := pos.At(1)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.X)

	z.Reset()
	assert.True(t, z.Next(), "reset rewinds the cursor")
	assert.False(t, z.Next())
}

func TestZip1All(t *testing.T) {
	h := NewSparseArray[Health]()
	h.Insert(3, 30)
	h.Insert(1, 10)

	var entities []Entity
	var total Health
	for e, hp := range NewZip1(h).All() {
		entities = append(entities, e)
		total += *hp
	}
	assert.Equal(t, []Entity{entityAt(1), entityAt(3)}, entities)
	assert.Equal(t, Health(40), total)
}

func TestZip3AndZip4Each(t *testing.T) {
	pos := NewSparseArray[Position]()
	vel := NewSparseArray[Velocity]()
	hp := NewSparseArray[Health]()
	tag := NewSparseArray[Tag]()

	for i := 0; i < 5; i++ {
		pos.Insert(i, Position{})
	}
	vel.Insert(1, Velocity{})
	vel.Insert(3, Velocity{})
	hp.Insert(1, 5)
	hp.Insert(3, 5)
	hp.Insert(4, 5)
	tag.Insert(3, Tag{Name: "boss"})

	var three []Entity
	NewZip3(pos, vel, hp).Each(func(e Entity, _ *Position, _ *Velocity, h *Health) {
		*h--
		three = append(three, e)
	})
	assert.Equal(t, []Entity{entityAt(1), entityAt(3)}, three)

	var four []string
	NewZip4(pos, vel, hp, tag).Each(func(e Entity, _ *Position, _ *Velocity, h *Health, tg *Tag) {
		assert.Equal(t, Health(4), *h)
		four = append(four, tg.Name)
	})
	assert.Equal(t, []string{"boss"}, four)

	z := NewZip4(pos, vel, hp, tag)
	require.True(t, z.Next())
	_, _, _, tg := z.Get()
	assert.Equal(t, "boss", tg.Name)
}

func BenchmarkZip2(b *testing.B) {
	pos := NewSparseArray[Position]()
	vel := NewSparseArray[Velocity]()
	for i := 0; i < 10_000; i++ {
		pos.Insert(i, Position{})
		if i%2 == 0 {
			vel.Insert(i, Velocity{X: 1})
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		z := NewZip2(pos, vel)
		for z.Next() {
			p, v := z.Get()
			p.X += v.X
		}
	}
}

func TestTypedZippersEachAndAll(t *testing.T) {
	pos := NewSparseArray[Position]()
	vel := NewSparseArray[Velocity]()
	hp := NewSparseArray[Health]()
	tag := NewSparseArray[Tag]()
	for i := 0; i < 4; i++ {
		pos.Insert(i, Position{X: float64(i)})
		hp.Insert(i, Health(i))
	}
	vel.Insert(1, Velocity{X: 1})
	vel.Insert(2, Velocity{X: 1})
	tag.Insert(2, Tag{Name: "two"})

	var each1 []Entity
	NewZip1(hp).Each(func(e Entity, h *Health) {
		*h += 10
		each1 = append(each1, e)
	})
	assert.Len(t, each1, 4)

	var all2 []Entity
	for e, row := range NewZip2(pos, vel).All() {
		row.First.X += row.Second.X
		all2 = append(all2, e)
	}
	assert.Equal(t, []Entity{entityAt(1), entityAt(2)}, all2)
	p, err := pos.At(2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.X)

	var all3 []Health
	for _, row := range NewZip3(pos, vel, hp).All() {
		all3 = append(all3, *row.Third)
	}
	assert.Equal(t, []Health{11, 12}, all3)

	var all4 []string
	for e, row := range NewZip4(pos, vel, hp, tag).All() {
		assert.Equal(t, entityAt(2), e)
		all4 = append(all4, row.Fourth.Name)
	}
	assert.Equal(t, []string{"two"}, all4)

	// stopping early
	count := 0
	for range NewZip2(pos, hp).All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
