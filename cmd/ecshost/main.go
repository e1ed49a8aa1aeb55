// Command ecshost is a reference host: it builds a registry from a config
// file, loads every module from the configured directory, spawns the
// configured scene and runs the systems in a fixed-interval loop.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/zeusecs/internal/config"
	"github.com/zeusync/zeusecs/internal/injector"
	"github.com/zeusync/zeusecs/pkg/ecs"
	"github.com/zeusync/zeusecs/pkg/module"
	"github.com/zeusync/zeusecs/pkg/observability/log"
	"github.com/zeusync/zeusecs/pkg/scene"
)

// Events the host triggers; modules may subscribe to them.
const (
	EventStart = "host.start"
	EventTick  = "host.tick" // args: tick int
	EventStop  = "host.stop"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "ecshost:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			return err
		}
	}

	r, cleanup, err := injector.InitializeRegistry(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := r.Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Modules.Dir != "" {
		if err = r.AllLibsEntrypoint(ctx, cfg.Modules.Dir); err != nil {
			logger.Warn("some modules failed to load", log.Error(err))
		}
	}

	var pending <-chan string
	if cfg.Modules.Watch {
		watcher, err := module.NewWatcher(module.Extension, cfg.Modules.Dir)
		if err != nil {
			return fmt.Errorf("watch modules: %w", err)
		}
		defer watcher.Close()
		pending = watcher.Events
		go func() {
			for err := range watcher.Errors {
				logger.Warn("module watcher", log.Error(err))
			}
		}()
	}

	entities := ecs.NewEntityList()
	if cfg.Scene != "" {
		if entities, err = scene.LoadFile(r, cfg.Scene); err != nil {
			return err
		}
	}

	logger.Info("host started",
		log.Strings("modules", r.LoadedLibs()),
		log.Int("systems", len(r.Systems())),
		log.Int("entities", entities.Len()),
		log.String("state", r.State()),
	)
	if err = r.TriggerEvent(EventStart, entities); err != nil {
		logger.Warn("start handlers failed", log.Error(err))
	}

	err = loop(ctx, r, cfg.Loop, entities, pending)

	if stopErr := r.TriggerEvent(EventStop, entities); stopErr != nil {
		logger.Warn("stop handlers failed", log.Error(stopErr))
	}
	if errors.Is(err, context.Canceled) {
		logger.Info("host interrupted")
		return nil
	}
	return err
}

func loop(ctx context.Context, r *ecs.Registry, cfg config.LoopConfig, entities *ecs.EntityList, pending <-chan string) error {
	logger := r.Logger()
	var ticker *time.Ticker
	if cfg.Interval > 0 {
		ticker = time.NewTicker(cfg.Interval)
		defer ticker.Stop()
	}

	for tick := 0; cfg.Ticks == 0 || tick < cfg.Ticks; tick++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if pending != nil {
			if err := r.LoadPending(pending); err != nil {
				logger.Warn("hot module load failed", log.Error(err))
			}
		}
		if err := r.TriggerEvent(EventTick, entities, tick); err != nil {
			logger.Warn("tick handlers failed", log.Int("tick", tick), log.Error(err))
		}
		if err := r.RunSystems(entities); err != nil {
			logger.Warn("tick finished with errors", log.Int("tick", tick), log.Error(err))
		}
	}
	logger.Info("host finished", log.Int("ticks", cfg.Ticks))
	return nil
}
