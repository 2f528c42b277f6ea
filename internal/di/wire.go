//go:build wireinject
// +build wireinject

package di

import (
	"GoldGate/pkg/config"
	"GoldGate/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideCacheStore,

		// External services
		ProvideModel,
		ProvideMarketProvider,
		ProvideLedger,
		ProvideSignalPublisher,

		// Domain services
		ProvideGate,
		ProvideAdvisor,
		ProvideSignalService,
		ProvidePriceStream,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
