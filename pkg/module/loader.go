// Package module loads code units that register themselves into a running
// registry through a single exported entry point.
package module

import (
	"fmt"
	"plugin"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Extension is the file suffix of loadable native modules.
const Extension = ".so"

// Identity names a module both by location and by content, so the same
// binary reached through two paths is recognised.
type Identity struct {
	Path        string
	Fingerprint uint64
}

func (id Identity) String() string {
	return fmt.Sprintf("%s#%016x", id.Path, id.Fingerprint)
}

// Library is an opened module.
type Library interface {
	Identity() Identity
	Lookup(symbol string) (any, error)
}

// Loader resolves and opens modules. Identify must be safe for concurrent
// use; Open is only ever called from one goroutine at a time.
type Loader interface {
	Identify(path string) (Identity, error)
	Open(id Identity) (Library, error)
}

// PluginLoader opens modules built with -buildmode=plugin.
//
// The Go runtime caches plugins by path for the life of the process, so a
// file rebuilt in place cannot be reopened: Open reports ErrChangedInPlace
// instead of handing back the stale code. Copy a rebuilt module to a new
// file name to load it.
type PluginLoader struct{}

// opened maps every path handed to plugin.Open to the fingerprint it had.
var opened sync.Map

func (PluginLoader) Identify(path string) (Identity, error) {
	return IdentifyFile(path)
}

func (PluginLoader) Open(id Identity) (Library, error) {
	if err := checkReopen(&opened, id); err != nil {
		return nil, err
	}
	p, err := plugin.Open(id.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, id.Path, err)
	}
	opened.Store(id.Path, id.Fingerprint)
	return &pluginLibrary{id: id, plugin: p}, nil
}

func checkReopen(opened *sync.Map, id Identity) error {
	prev, ok := opened.Load(id.Path)
	if ok && prev.(uint64) != id.Fingerprint {
		return fmt.Errorf("%w: %s", ErrChangedInPlace, id.Path)
	}
	return nil
}

type pluginLibrary struct {
	id     Identity
	plugin *plugin.Plugin
}

func (l *pluginLibrary) Identity() Identity {
	return l.id
}

func (l *pluginLibrary) Lookup(symbol string) (any, error) {
	sym, err := l.plugin.Lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %q in %s: %w", ErrSymbolNotFound, symbol, l.id.Path, err)
	}
	return sym, nil
}

// Static is a Loader over modules compiled into the host binary. Keys are
// the names passed where a path would be; values map symbol names to symbols.
type Static map[string]map[string]any

func (s Static) Identify(name string) (Identity, error) {
	if _, ok := s[name]; !ok {
		return Identity{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Identity{Path: name, Fingerprint: xxhash.Sum64String(name)}, nil
}

func (s Static) Open(id Identity) (Library, error) {
	symbols, ok := s[id.Path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id.Path)
	}
	return staticLibrary{id: id, symbols: symbols}, nil
}

// Names lists the static modules in lexical order.
func (s Static) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type staticLibrary struct {
	id      Identity
	symbols map[string]any
}

func (l staticLibrary) Identity() Identity {
	return l.id
}

func (l staticLibrary) Lookup(symbol string) (any, error) {
	sym, ok := l.symbols[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrSymbolNotFound, symbol, l.id.Path)
	}
	return sym, nil
}
