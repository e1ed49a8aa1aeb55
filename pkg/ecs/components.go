package ecs

import (
	"fmt"
	"reflect"

	"github.com/zeusync/zeusecs/pkg/observability/log"
)

// RegisterComponent creates the store for T and hooks it into entity removal.
// Registering a type twice keeps the existing store and its data; the store
// is returned together with ErrComponentAlreadyRegistered.
func RegisterComponent[T any](r *Registry) (*SparseArray[T], error) {
	t := reflect.TypeFor[T]()
	if _, ok := r.stores[t]; ok {
		store, err := lookup[T](r)
		if err != nil {
			return nil, err
		}
		return store, fmt.Errorf("%w: %s", ErrComponentAlreadyRegistered, t)
	}

	store := NewSparseArray[T]()
	r.stores[t] = store
	r.types = append(r.types, t)
	r.removers = append(r.removers, func(e Entity) {
		store.Erase(e.Index())
	})

	r.logger.Debug("component registered", log.Stringer("type", t))
	return store, nil
}

// MustRegisterComponent is RegisterComponent for initialization code that
// treats any registration problem as fatal.
func MustRegisterComponent[T any](r *Registry) *SparseArray[T] {
	store, err := RegisterComponent[T](r)
	if err != nil {
		panic(err)
	}
	return store
}

// GetComponents returns the store for T.
func GetComponents[T any](r *Registry) (*SparseArray[T], error) {
	return lookup[T](r)
}

// AddComponent sets e's T component. The returned pointer is valid until the
// store next grows.
func AddComponent[T any](r *Registry, e Entity, value T) (*T, error) {
	store, err := lookup[T](r)
	if err != nil {
		return nil, err
	}
	return store.Insert(e.Index(), value), nil
}

func RemoveComponent[T any](r *Registry, e Entity) error {
	store, err := lookup[T](r)
	if err != nil {
		return err
	}
	store.Erase(e.Index())
	return nil
}

// HasComponent never fails: an unregistered type simply reports false.
func HasComponent[T any](r *Registry, e Entity) bool {
	store, err := lookup[T](r)
	if err != nil {
		return false
	}
	return store.Has(e.Index())
}

func GetComponent[T any](r *Registry, e Entity) (*T, bool) {
	store, err := lookup[T](r)
	if err != nil || !store.Has(e.Index()) {
		return nil, false
	}
	return store.value(e.Index()), true
}

// Store returns the type-erased store registered for t.
func (r *Registry) Store(t reflect.Type) (ComponentStore, bool) {
	s, ok := r.stores[t]
	return s, ok
}

func lookup[T any](r *Registry) (*SparseArray[T], error) {
	t := reflect.TypeFor[T]()
	erased, ok := r.stores[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotRegistered, t)
	}
	store, ok := erased.(*SparseArray[T])
	if !ok {
		return nil, fmt.Errorf("%w: %s holds %T", ErrStoreTypeMismatch, t, erased)
	}
	return store, nil
}
