package ecs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zeusync/zeusecs/pkg/observability/log"
)

// DecodeFunc fills the value pointed to by its argument, in the manner of
// yaml.Node.Decode or a json.Unmarshal closure.
type DecodeFunc func(v any) error

type componentFactory func(e Entity, decode DecodeFunc) error

// RegisterNamedComponent registers T (reusing an existing registration) and
// binds name to it so components can be built from declarative data with
// AddComponentByName.
func RegisterNamedComponent[T any](r *Registry, name string) (*SparseArray[T], error) {
	store, err := RegisterComponent[T](r)
	if err != nil && !errors.Is(err, ErrComponentAlreadyRegistered) {
		return nil, err
	}
	if _, taken := r.factories[name]; taken {
		return store, fmt.Errorf("%w: %q", ErrComponentNameTaken, name)
	}

	r.factories[name] = func(e Entity, decode DecodeFunc) error {
		var value T
		if err := decode(&value); err != nil {
			return fmt.Errorf("decode component %q: %w", name, err)
		}
		store.Insert(e.Index(), value)
		return nil
	}
	r.logger.Debug("component name bound", log.String("name", name), log.Stringer("type", store.Type()))
	return store, nil
}

// AddComponentByName decodes a component through the factory bound to name
// and attaches it to e.
func (r *Registry) AddComponentByName(name string, e Entity, decode DecodeFunc) error {
	factory, ok := r.factories[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownComponentName, name)
	}
	return factory(e, decode)
}

// ComponentNames lists the bound component names, sorted.
func (r *Registry) ComponentNames() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
