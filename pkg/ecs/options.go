package ecs

import (
	"github.com/zeusync/zeusecs/pkg/module"
	"github.com/zeusync/zeusecs/pkg/observability/log"
)

type Option func(*Registry)

func WithLogger(logger log.Log) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLoader replaces the native plugin loader, e.g. with a module.Static
// table of modules linked into the host binary.
func WithLoader(loader module.Loader) Option {
	return func(r *Registry) {
		if loader != nil {
			r.loader = loader
		}
	}
}

// WithEntrypoint changes the symbol LibEntrypoint resolves by default.
func WithEntrypoint(symbol string) Option {
	return func(r *Registry) {
		if symbol != "" {
			r.entrypoint = symbol
		}
	}
}
