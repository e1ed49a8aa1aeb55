package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnMintsIncreasingIDs(t *testing.T) {
	r := NewRegistry()
	var last Entity
	for i := 0; i < 5; i++ {
		e := r.SpawnEntity()
		if i > 0 {
			assert.Greater(t, e.ID(), last.ID())
		}
		last = e
	}
	assert.Equal(t, 5, r.MaxEntityCount())
	assert.Equal(t, 5, r.AliveCount())
}

func TestKillThenSpawnReusesLIFO(t *testing.T) {
	r := newTestRegistry()
	entities := make([]Entity, 5)
	for i := range entities {
		entities[i] = r.SpawnEntity()
	}

	require.NoError(t, r.KillEntity(entities[2]))
	assert.Equal(t, entities[2], r.SpawnEntity())

	require.NoError(t, r.KillEntity(entities[1]))
	require.NoError(t, r.KillEntity(entities[3]))
	assert.Equal(t, entities[3], r.SpawnEntity(), "most recently freed comes back first")
	assert.Equal(t, entities[1], r.SpawnEntity())

	fresh := r.SpawnEntity()
	for _, e := range entities {
		assert.Greater(t, fresh.ID(), e.ID(), "empty free list mints above every issued id")
	}
}

func TestKillTwiceIsRejected(t *testing.T) {
	r := newTestRegistry()
	e := r.SpawnEntity()

	require.NoError(t, r.KillEntity(e))
	assert.False(t, r.IsAlive(e))
	assert.ErrorIs(t, r.KillEntity(e), ErrEntityNotAlive)

	// the free list holds e exactly once
	assert.Equal(t, e, r.SpawnEntity())
	assert.NotEqual(t, e, r.SpawnEntity())
}

func TestKillUnknownEntity(t *testing.T) {
	r := NewRegistry()
	assert.ErrorIs(t, r.KillEntity(r.EntityFromIndex(3)), ErrEntityNotAlive)
	assert.False(t, r.IsAlive(r.EntityFromIndex(0)))
}

func TestCascadeRemoval(t *testing.T) {
	r := newTestRegistry()
	e := r.SpawnEntity()
	other := r.SpawnEntity()

	_, err := AddComponent(r, e, Position{X: 1})
	require.NoError(t, err)
	_, err = AddComponent(r, e, Velocity{X: 2})
	require.NoError(t, err)
	_, err = AddComponent(r, other, Position{X: 3})
	require.NoError(t, err)

	require.NoError(t, r.KillEntity(e))
	assert.False(t, HasComponent[Position](r, e))
	assert.False(t, HasComponent[Velocity](r, e))
	assert.True(t, HasComponent[Position](r, other))

	reused := r.SpawnEntity()
	require.Equal(t, e, reused)
	assert.False(t, HasComponent[Position](r, reused))
	assert.False(t, HasComponent[Velocity](r, reused))
	assert.False(t, HasComponent[Health](r, reused))
}

func TestRegisterComponentTwiceKeepsData(t *testing.T) {
	r := NewRegistry()
	store, err := RegisterComponent[Health](r)
	require.NoError(t, err)

	e := r.SpawnEntity()
	_, err = AddComponent(r, e, Health(7))
	require.NoError(t, err)

	again, err := RegisterComponent[Health](r)
	assert.ErrorIs(t, err, ErrComponentAlreadyRegistered)
	assert.Same(t, store, again)

	hp, ok := GetComponent[Health](r, e)
	require.True(t, ok)
	assert.Equal(t, Health(7), *hp)
	assert.Len(t, r.ComponentTypes(), 1)

	assert.Panics(t, func() { MustRegisterComponent[Health](r) })
}

func TestUnregisteredComponent(t *testing.T) {
	r := NewRegistry()
	e := r.SpawnEntity()

	_, err := GetComponents[Position](r)
	assert.ErrorIs(t, err, ErrComponentNotRegistered)

	_, err = AddComponent(r, e, Position{})
	assert.ErrorIs(t, err, ErrComponentNotRegistered)

	assert.ErrorIs(t, RemoveComponent[Position](r, e), ErrComponentNotRegistered)
	assert.False(t, HasComponent[Position](r, e))

	_, ok := GetComponent[Position](r, e)
	assert.False(t, ok)
}

func TestHasComponentBeyondBounds(t *testing.T) {
	r := newTestRegistry()
	for i := 0; i < 10; i++ {
		r.SpawnEntity()
	}
	_, err := AddComponent(r, r.EntityFromIndex(1), Health(1))
	require.NoError(t, err)

	assert.False(t, HasComponent[Health](r, r.EntityFromIndex(9)))
	assert.True(t, HasComponent[Health](r, r.EntityFromIndex(1)))
}

func TestAddRemoveComponent(t *testing.T) {
	r := newTestRegistry()
	e := r.SpawnEntity()

	p, err := AddComponent(r, e, Position{X: 1, Y: 2})
	require.NoError(t, err)
	p.Y = 5

	got, ok := GetComponent[Position](r, e)
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 5}, *got)

	require.NoError(t, RemoveComponent[Position](r, e))
	assert.False(t, HasComponent[Position](r, e))
	require.NoError(t, RemoveComponent[Position](r, e), "removing twice is safe")

	store, err := GetComponents[Position](r)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestComponentTypesInRegistrationOrder(t *testing.T) {
	r := newTestRegistry()
	assert.Equal(t, []reflect.Type{
		reflect.TypeFor[Position](),
		reflect.TypeFor[Velocity](),
		reflect.TypeFor[Health](),
	}, r.ComponentTypes())

	store, ok := r.Store(reflect.TypeFor[Velocity]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[Velocity](), store.Type())
}

func TestRegistryState(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "", r.State())
	r.SetState("menu")
	assert.Equal(t, "menu", r.State())
	r.SetState("gameplay")
	assert.Equal(t, "gameplay", r.State())
}

func TestEntityList(t *testing.T) {
	r := NewRegistry()
	a, b, c := r.SpawnEntity(), r.SpawnEntity(), r.SpawnEntity()

	list := NewEntityList(a, b)
	list.Add(c)
	assert.Equal(t, 3, list.Len())
	assert.True(t, list.Contains(b))

	assert.True(t, list.Remove(b))
	assert.False(t, list.Remove(b))
	assert.Equal(t, []Entity{a, c}, list.Slice())

	for e := range list.All() {
		list.Remove(e)
	}
	assert.Equal(t, 0, list.Len())

	var nilList *EntityList
	assert.Equal(t, 0, nilList.Len())
	assert.Nil(t, nilList.Slice())
}
