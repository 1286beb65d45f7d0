//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/learnpulse/internal/adapter/httpapi"
	"github.com/eslsoft/learnpulse/internal/infrastructure/config"
	"github.com/eslsoft/learnpulse/internal/infrastructure/server"
	"github.com/eslsoft/learnpulse/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
)

var storeSet = wire.NewSet(
	ProvideStores,
	wire.FieldsOf(new(*Stores), "Events", "Profiles"),
)

var usecaseSet = wire.NewSet(
	ProvideRetriever,
	ProvideEngineParams,
	usecase.NewLearningEngine,
)

var serviceSet = wire.NewSet(
	httpapi.NewHandler,
)

var serverSet = wire.NewSet(
	server.NewLogger,
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		storeSet,
		usecaseSet,
		serviceSet,
		serverSet,
		wire.Struct(new(Container), "Logger", "Server"),
	)
	return nil, nil, nil
}
