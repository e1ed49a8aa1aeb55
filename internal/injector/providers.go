package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/zeusecs/internal/config"
	"github.com/zeusync/zeusecs/pkg/ecs"
	"github.com/zeusync/zeusecs/pkg/module"
	"github.com/zeusync/zeusecs/pkg/observability/log"
)

// ProviderSet builds a Registry from a Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideLoader,
	ProvideRegistry,
)

// ProvideLogger builds the zap-backed logger. The cleanup flushes it.
func ProvideLogger(cfg config.Config) (log.Log, func(), error) {
	logger, err := log.New(log.Options{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
	})
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideLoader() module.Loader {
	return module.PluginLoader{}
}

func ProvideRegistry(cfg config.Config, logger log.Log, loader module.Loader) *ecs.Registry {
	r := ecs.NewRegistry(
		ecs.WithLogger(logger.Named("ecs")),
		ecs.WithLoader(loader),
		ecs.WithEntrypoint(cfg.Modules.Entrypoint),
	)
	if cfg.Loop.State != "" {
		r.SetState(cfg.Loop.State)
	}
	return r
}
