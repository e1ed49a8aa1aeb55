//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/zeusecs/internal/config"
	"github.com/zeusync/zeusecs/pkg/ecs"
)

func InitializeRegistry(cfg config.Config) (*ecs.Registry, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
