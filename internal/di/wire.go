//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"InsideX/internal/client"
	"InsideX/pkg/config"
	"InsideX/pkg/server"
)

// InitializeAPI wires the REST backend with its scheduler.
func InitializeAPI(cfg *config.Config) (*server.App, error) {
	wire.Build(
		InfraSet,
		BackendSet,
		ProvideSignalPublisher,
		ProvideAPIHandler,
		ProvideScheduler,
		ProvideAPIServer,
		ProvideAPIApp,
	)
	return &server.App{}, nil
}

// InitializeWeb wires the dashboard server on top of the API client.
func InitializeWeb(cfg *config.Config) (*server.App, error) {
	wire.Build(
		InfraSet,
		ProvideAPIClient,
		ProvideRenderer,
		ProvideWebHandler,
		ProvideWebApp,
	)
	return &server.App{}, nil
}

// InitializeClient wires a standalone API client for CLI commands.
func InitializeClient(cfg *config.Config) (*client.Client, error) {
	wire.Build(
		InfraSet,
		ProvideAPIClient,
	)
	return &client.Client{}, nil
}

// InitializeBackend wires direct store access for CLI commands.
func InitializeBackend(cfg *config.Config) (*Backend, error) {
	wire.Build(
		InfraSet,
		BackendSet,
		ProvideBackend,
	)
	return &Backend{}, nil
}
