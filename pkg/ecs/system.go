package ecs

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/zeusync/zeusecs/pkg/observability/log"
)

// SystemFunc is the per-tick body of a system.
type SystemFunc func(r *Registry, entities *EntityList) error

type system struct {
	name     string
	priority int
	run      SystemFunc
}

type SystemOption func(*system)

// WithPriority sets the execution rank; lower runs first. Default 0.
func WithPriority(priority int) SystemOption {
	return func(s *system) {
		s.priority = priority
	}
}

func WithName(name string) SystemOption {
	return func(s *system) {
		if name != "" {
			s.name = name
		}
	}
}

// SystemInfo describes a scheduled system.
type SystemInfo struct {
	Name     string
	Priority int
}

// AddSystem schedules fn. Systems run by ascending priority; equal priorities
// keep their registration order.
func (r *Registry) AddSystem(fn SystemFunc, opts ...SystemOption) {
	r.systemSeq++
	s := &system{name: "system-" + strconv.Itoa(r.systemSeq), run: fn}
	for _, opt := range opts {
		opt(s)
	}
	r.systems = append(r.systems, s)
	slices.SortStableFunc(r.systems, func(a, b *system) int {
		return cmp.Compare(a.priority, b.priority)
	})
	r.logger.Debug("system added", log.String("system", s.name), log.Int("priority", s.priority))
}

// AddSystem1 schedules fn with the store of A bound once, at registration.
func AddSystem1[A any](r *Registry, fn func(*Registry, *EntityList, *SparseArray[A]) error, opts ...SystemOption) error {
	a, err := lookup[A](r)
	if err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	r.AddSystem(func(r *Registry, entities *EntityList) error {
		return fn(r, entities, a)
	}, opts...)
	return nil
}

func AddSystem2[A, B any](r *Registry, fn func(*Registry, *EntityList, *SparseArray[A], *SparseArray[B]) error, opts ...SystemOption) error {
	a, err := lookup[A](r)
	if err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	b, err := lookup[B](r)
	if err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	r.AddSystem(func(r *Registry, entities *EntityList) error {
		return fn(r, entities, a, b)
	}, opts...)
	return nil
}

func AddSystem3[A, B, C any](r *Registry, fn func(*Registry, *EntityList, *SparseArray[A], *SparseArray[B], *SparseArray[C]) error, opts ...SystemOption) error {
	a, err := lookup[A](r)
	if err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	b, err := lookup[B](r)
	if err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	c, err := lookup[C](r)
	if err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	r.AddSystem(func(r *Registry, entities *EntityList) error {
		return fn(r, entities, a, b, c)
	}, opts...)
	return nil
}

func AddSystem4[A, B, C, D any](r *Registry, fn func(*Registry, *EntityList, *SparseArray[A], *SparseArray[B], *SparseArray[C], *SparseArray[D]) error, opts ...SystemOption) error {
	a, err := lookup[A](r)
	if err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	b, err := lookup[B](r)
	if err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	c, err := lookup[C](r)
	if err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	d, err := lookup[D](r)
	if err != nil {
		return fmt.Errorf("add system: %w", err)
	}
	r.AddSystem(func(r *Registry, entities *EntityList) error {
		return fn(r, entities, a, b, c, d)
	}, opts...)
	return nil
}

// RunSystems runs every system once, in schedule order, on the calling
// goroutine. A failing or panicking system does not stop the tick; all
// failures are joined into the returned error.
func (r *Registry) RunSystems(entities *EntityList) error {
	if entities == nil {
		entities = &EntityList{}
	}
	// systems added during the tick start running on the next one
	scheduled := slices.Clone(r.systems)

	var errs []error
	for _, s := range scheduled {
		start := time.Now()
		if err := r.runSystem(s, entities); err != nil {
			r.logger.Error("system failed",
				log.String("system", s.name),
				log.Duration("elapsed", time.Since(start)),
				log.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) runSystem(s *system, entities *EntityList) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrSystemPanic, rec)
		}
	}()
	return s.run(r, entities)
}

// Systems lists the schedule in execution order.
func (r *Registry) Systems() []SystemInfo {
	out := make([]SystemInfo, len(r.systems))
	for i, s := range r.systems {
		out[i] = SystemInfo{Name: s.name, Priority: s.priority}
	}
	return out
}
