//go:build wireinject
// +build wireinject

package router

import (
	"github.com/google/wire"
	"tunehub.io/tunehub-server/common/config"
)

func initHandlerRegistry(config *config.Config) (*HandlerRegistry, error) {
	wire.Build(HandlerSet)
	return nil, nil
}
