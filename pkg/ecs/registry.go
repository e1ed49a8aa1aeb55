package ecs

import (
	"fmt"
	"reflect"

	"github.com/zeusync/zeusecs/pkg/module"
	"github.com/zeusync/zeusecs/pkg/observability/log"
)

// Registry owns every component store, the entity allocator, the system
// schedule and the event table. It is not safe for concurrent use; all calls,
// including RunSystems and TriggerEvent, are expected on one goroutine.
type Registry struct {
	stores   map[reflect.Type]ComponentStore
	types    []reflect.Type
	removers []func(Entity)

	nextID  uint64
	free    []Entity
	freeSet map[Entity]struct{}

	systems   []*system
	systemSeq int

	events    map[string][]*Subscription
	factories map[string]componentFactory

	state string

	loader     module.Loader
	entrypoint string
	libs       moduleSet

	logger log.Log
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		stores:     make(map[reflect.Type]ComponentStore),
		freeSet:    make(map[Entity]struct{}),
		events:     make(map[string][]*Subscription),
		factories:  make(map[string]componentFactory),
		loader:     module.PluginLoader{},
		entrypoint: DefaultEntrypoint,
		libs:       newModuleSet(),
		logger:     log.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Logger() log.Log {
	return r.logger
}

// SetState stores a free-form phase tag such as "menu" or "gameplay".
func (r *Registry) SetState(state string) {
	r.state = state
}

func (r *Registry) State() string {
	return r.state
}

// SpawnEntity reuses the most recently killed id, or mints a new one.
func (r *Registry) SpawnEntity() Entity {
	if n := len(r.free); n > 0 {
		e := r.free[n-1]
		r.free = r.free[:n-1]
		delete(r.freeSet, e)
		return e
	}
	e := Entity{id: r.nextID}
	r.nextID++
	return e
}

// KillEntity clears e from every registered store, in registration order,
// and makes its id available again. Killing an entity that is not alive is
// rejected so the free list never holds duplicates.
func (r *Registry) KillEntity(e Entity) error {
	if !r.IsAlive(e) {
		return fmt.Errorf("%w: %s", ErrEntityNotAlive, e)
	}
	for _, remove := range r.removers {
		remove(e)
	}
	r.free = append(r.free, e)
	r.freeSet[e] = struct{}{}
	return nil
}

func (r *Registry) IsAlive(e Entity) bool {
	if e.id >= r.nextID {
		return false
	}
	_, dead := r.freeSet[e]
	return !dead
}

// EntityFromIndex rebuilds a handle from a raw index. It does not check
// that the entity is alive.
func (r *Registry) EntityFromIndex(index int) Entity {
	return entityAt(index)
}

// MaxEntityCount is the number of distinct ids ever minted.
func (r *Registry) MaxEntityCount() int {
	return int(r.nextID)
}

func (r *Registry) AliveCount() int {
	return int(r.nextID) - len(r.free)
}

// ComponentTypes lists registered component types in registration order.
func (r *Registry) ComponentTypes() []reflect.Type {
	return append([]reflect.Type(nil), r.types...)
}
