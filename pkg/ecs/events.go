package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/zeusync/zeusecs/pkg/observability/log"
)

// Subscription is a handler registered for one event name.
type Subscription struct {
	id       string
	event    string
	argTypes []reflect.Type
	invoke   func(r *Registry, entities *EntityList, args []any) error
	registry *Registry
	active   bool
}

func (s *Subscription) ID() string {
	return s.id
}

func (s *Subscription) Event() string {
	return s.event
}

func (s *Subscription) Active() bool {
	return s.active
}

// ArgTypes reports the argument types the handler expects at trigger time.
func (s *Subscription) ArgTypes() []reflect.Type {
	return slices.Clone(s.argTypes)
}

// Cancel removes the handler. Calling it more than once is harmless.
func (s *Subscription) Cancel() {
	if s.registry != nil {
		s.registry.RemoveEvent(s)
	}
}

// AddEvent subscribes a handler that takes no arguments besides the registry
// and the entity list.
func (r *Registry) AddEvent(name string, fn func(*Registry, *EntityList) error) *Subscription {
	return r.subscribe(name, nil, func(r *Registry, entities *EntityList, _ []any) error {
		return fn(r, entities)
	})
}

func AddEvent1[A any](r *Registry, name string, fn func(*Registry, *EntityList, A) error) *Subscription {
	types := []reflect.Type{reflect.TypeFor[A]()}
	return r.subscribe(name, types, func(r *Registry, entities *EntityList, args []any) error {
		return fn(r, entities, argAs[A](args[0]))
	})
}

func AddEvent2[A, B any](r *Registry, name string, fn func(*Registry, *EntityList, A, B) error) *Subscription {
	types := []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()}
	return r.subscribe(name, types, func(r *Registry, entities *EntityList, args []any) error {
		return fn(r, entities, argAs[A](args[0]), argAs[B](args[1]))
	})
}

func AddEvent3[A, B, C any](r *Registry, name string, fn func(*Registry, *EntityList, A, B, C) error) *Subscription {
	types := []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]()}
	return r.subscribe(name, types, func(r *Registry, entities *EntityList, args []any) error {
		return fn(r, entities, argAs[A](args[0]), argAs[B](args[1]), argAs[C](args[2]))
	})
}

// TriggerEvent calls every subscriber of name synchronously, in subscription
// order. A subscriber whose argument types do not match args is skipped and
// reported with ErrEventArgsMismatch; the others still run. Triggering a name
// nobody subscribed to is not an error.
func (r *Registry) TriggerEvent(name string, entities *EntityList, args ...any) error {
	subs := slices.Clone(r.events[name])
	if len(subs) == 0 {
		return nil
	}
	if entities == nil {
		entities = &EntityList{}
	}

	var errs []error
	for _, s := range subs {
		if !s.active {
			continue
		}
		if err := checkArgs(s.argTypes, args); err != nil {
			r.logger.Warn("event contract violated",
				log.String("event", name),
				log.String("subscription", s.id),
				log.Error(err),
			)
			errs = append(errs, fmt.Errorf("event %q: %w", name, err))
			continue
		}
		if err := s.invoke(r, entities, args); err != nil {
			errs = append(errs, fmt.Errorf("event %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// RemoveEvent unsubscribes s; the remaining handlers keep their order.
func (r *Registry) RemoveEvent(s *Subscription) {
	if s == nil || !s.active {
		return
	}
	s.active = false
	subs := r.events[s.event]
	subs = slices.DeleteFunc(subs, func(other *Subscription) bool { return other == s })
	if len(subs) == 0 {
		delete(r.events, s.event)
		return
	}
	r.events[s.event] = subs
}

// Events lists the names that currently have subscribers, sorted.
func (r *Registry) Events() []string {
	names := make([]string, 0, len(r.events))
	for name := range r.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) subscribe(name string, types []reflect.Type, invoke func(*Registry, *EntityList, []any) error) *Subscription {
	s := &Subscription{
		id:       uuid.NewString(),
		event:    name,
		argTypes: types,
		invoke:   invoke,
		registry: r,
		active:   true,
	}
	r.events[name] = append(r.events[name], s)
	r.logger.Debug("event subscribed", log.String("event", name), log.String("subscription", s.id))
	return s
}

func checkArgs(want []reflect.Type, args []any) error {
	if len(args) != len(want) {
		return fmt.Errorf("%w: want %d arguments, got %d", ErrEventArgsMismatch, len(want), len(args))
	}
	for i, arg := range args {
		if arg == nil {
			if nillable(want[i]) {
				continue
			}
			return fmt.Errorf("%w: argument %d is nil, want %s", ErrEventArgsMismatch, i, want[i])
		}
		if got := reflect.TypeOf(arg); !accepts(want[i], got) {
			return fmt.Errorf("%w: argument %d is %s, want %s", ErrEventArgsMismatch, i, got, want[i])
		}
	}
	return nil
}

// accepts mirrors what the type assertion in argAs allows: interface
// parameters take any implementation, every other parameter needs the exact
// type, so named slices or directional channels are rejected here.
func accepts(want, got reflect.Type) bool {
	if want.Kind() == reflect.Interface {
		return got.Implements(want)
	}
	return got == want
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func argAs[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
