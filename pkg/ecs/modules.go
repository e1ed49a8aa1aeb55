package ecs

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeusync/zeusecs/pkg/module"
	"github.com/zeusync/zeusecs/pkg/observability/log"
)

// DefaultEntrypoint is the symbol a module exports to register itself:
//
//	func Entrypoint(r *ecs.Registry)
const DefaultEntrypoint = "Entrypoint"

// EntrypointFunc is the signature of a module entry point.
type EntrypointFunc = func(*Registry)

// moduleSet remembers loaded modules by content. A path whose content has
// changed since it was loaded is not considered loaded, so a rebuilt module
// can be loaded again from the same place.
type moduleSet struct {
	byPath        map[string]uint64
	byFingerprint map[uint64]string
	order         []string
}

func newModuleSet() moduleSet {
	return moduleSet{
		byPath:        make(map[string]uint64),
		byFingerprint: make(map[uint64]string),
	}
}

func (m *moduleSet) contains(id module.Identity) bool {
	_, ok := m.byFingerprint[id.Fingerprint]
	return ok
}

// reloads reports whether id replaces content previously loaded from the
// same path.
func (m *moduleSet) reloads(id module.Identity) bool {
	fp, ok := m.byPath[id.Path]
	return ok && fp != id.Fingerprint
}

func (m *moduleSet) add(id module.Identity) {
	if _, seen := m.byPath[id.Path]; !seen {
		m.order = append(m.order, id.Path)
	}
	m.byPath[id.Path] = id.Fingerprint
	m.byFingerprint[id.Fingerprint] = id.Path
}

// LibEntrypoint loads the module at path and calls its default entry point
// with r. Every failure is logged as a warning and returned wrapped in
// ErrModuleLoad, and r stays usable. Registrations an entry point made before
// panicking are kept.
//
// A module whose file content changed since it was loaded is loaded again.
// module.PluginLoader refuses that for native plugins, which the Go runtime
// cannot reopen at the same path.
func (r *Registry) LibEntrypoint(path string) error {
	return r.LibEntrypointSymbol(path, r.entrypoint)
}

func (r *Registry) LibEntrypointSymbol(path, symbol string) error {
	id, err := r.loader.Identify(path)
	if err != nil {
		r.logger.Warn("cannot find module", log.String("module", path), log.Error(err))
		return fmt.Errorf("%w: %w", ErrModuleLoad, err)
	}
	return r.loadModule(id, symbol)
}

// AllLibsEntrypoint loads every module file directly inside dir, in name
// order. Files are fingerprinted concurrently; entry points run one at a
// time on the calling goroutine. Modules that were already loaded are
// skipped silently.
func (r *Registry) AllLibsEntrypoint(ctx context.Context, dir string) error {
	paths, err := module.Scan(dir, module.Extension)
	if err != nil {
		r.logger.Warn("cannot scan module directory", log.String("dir", dir), log.Error(err))
		return fmt.Errorf("%w: %w", ErrModuleLoad, err)
	}

	ids, idErrs := module.IdentifyAll(ctx, r.loader, paths)

	var errs []error
	for i, id := range ids {
		if idErrs[i] != nil {
			r.logger.Warn("cannot identify module", log.String("module", paths[i]), log.Error(idErrs[i]))
			errs = append(errs, fmt.Errorf("%w: %w", ErrModuleLoad, idErrs[i]))
			continue
		}
		if err := r.loadModule(id, r.entrypoint); err != nil && !errors.Is(err, ErrModuleAlreadyLoaded) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadPending drains module paths reported so far, typically by a
// module.Watcher, without blocking. Call it from the goroutine that owns r.
func (r *Registry) LoadPending(paths <-chan string) error {
	var errs []error
	for {
		select {
		case path, ok := <-paths:
			if !ok {
				return errors.Join(errs...)
			}
			if err := r.LibEntrypoint(path); err != nil && !errors.Is(err, ErrModuleAlreadyLoaded) {
				errs = append(errs, err)
			}
		default:
			return errors.Join(errs...)
		}
	}
}

// IsLibLoaded reports whether the current content of path, from this or any
// other location, has been loaded.
func (r *Registry) IsLibLoaded(path string) bool {
	id, err := r.loader.Identify(path)
	if err != nil {
		return false
	}
	return r.libs.contains(id)
}

// LoadedLibs lists loaded module paths in first-load order, once per path.
func (r *Registry) LoadedLibs() []string {
	return append([]string(nil), r.libs.order...)
}

func (r *Registry) loadModule(id module.Identity, symbol string) error {
	logger := r.logger.With(log.String("module", id.Path), log.String("symbol", symbol))

	if r.libs.contains(id) {
		logger.Debug("module already loaded")
		return fmt.Errorf("%w: %s", ErrModuleAlreadyLoaded, id.Path)
	}

	lib, err := r.loader.Open(id)
	if err != nil {
		logger.Warn("cannot open module", log.Error(err))
		return fmt.Errorf("%w: %w", ErrModuleLoad, err)
	}

	sym, err := lib.Lookup(symbol)
	if err != nil {
		logger.Warn("cannot load symbol", log.Error(err))
		return fmt.Errorf("%w: %w", ErrModuleLoad, err)
	}

	entry, ok := asEntrypoint(sym)
	if !ok {
		logger.Warn("symbol has wrong signature", log.String("got", fmt.Sprintf("%T", sym)))
		return fmt.Errorf("%w: symbol %q in %s is %T, want func(*ecs.Registry)", ErrModuleLoad, symbol, id.Path, sym)
	}

	if err = r.callEntrypoint(entry); err != nil {
		logger.Warn("module entry point failed", log.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrModuleLoad, id.Path, err)
	}

	reload := r.libs.reloads(id)
	r.libs.add(id)
	logger.Info("module loaded", log.Uint64("fingerprint", id.Fingerprint), log.Bool("reload", reload))
	return nil
}

func (r *Registry) callEntrypoint(entry EntrypointFunc) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("entry point panicked: %v", rec)
		}
	}()
	entry(r)
	return nil
}

// asEntrypoint accepts a function symbol or, as plugins export variables by
// pointer, a pointer to one.
func asEntrypoint(sym any) (EntrypointFunc, bool) {
	switch fn := sym.(type) {
	case func(*Registry):
		return fn, fn != nil
	case *func(*Registry):
		if fn == nil || *fn == nil {
			return nil, false
		}
		return *fn, true
	default:
		return nil, false
	}
}
