//go:build wireinject
// +build wireinject

package marketplace

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	httpDelivery "github.com/tair/vapt/internal/marketplace/delivery/http"
	"github.com/tair/vapt/internal/store"
	"github.com/tair/vapt/kafka"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideRepository,
)

var HandlerSet = wire.NewSet(
	NewCommandHandlers,
	NewQueryHandlers,
	NewDispatcher,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	HandlerSet,
)

// InitializeDispatcher initializes the dispatcher with all dependencies
func InitializeDispatcher(s *store.Store, publisher kafka.Publisher) (*Dispatcher, error) {
	wire.Build(AllHandlersSet)
	return nil, nil
}

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(s *store.Store, publisher kafka.Publisher, reg prometheus.Registerer) (*httpDelivery.MarketplaceHandler, error) {
	wire.Build(
		AllHandlersSet,
		wire.Bind(new(httpDelivery.Dispatcher), new(*Dispatcher)),
		wire.Bind(new(httpDelivery.Pinger), new(*store.Store)),
		httpDelivery.NewMarketplaceHandler,
	)
	return nil, nil
}
