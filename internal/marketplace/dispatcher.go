// Package marketplace routes marketplace commands and queries to their
// handlers and emits domain events for successful mutations.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/usecase/command"
	"github.com/tair/vapt/internal/marketplace/usecase/query"
	"github.com/tair/vapt/internal/store"
	"github.com/tair/vapt/kafka"
	"github.com/tair/vapt/pkg/logger"
)

// Dispatcher is the single entry point for marketplace commands and queries
type Dispatcher struct {
	commands  *CommandHandlers
	queries   *QueryHandlers
	publisher kafka.Publisher
	now       func() time.Time
}

// NewDispatcher creates a dispatcher. A nil publisher drops events.
func NewDispatcher(commands *CommandHandlers, queries *QueryHandlers, publisher kafka.Publisher) *Dispatcher {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &Dispatcher{
		commands:  commands,
		queries:   queries,
		publisher: publisher,
		now:       time.Now,
	}
}

// Dispatch runs msg through its handler. The result type depends on msg:
// commands return the affected record, queries their view.
func (d *Dispatcher) Dispatch(ctx context.Context, msg any) (any, error) {
	switch m := msg.(type) {
	case command.RegisterUserCommand:
		user, err := d.commands.RegisterHandler.Handle(ctx, m)
		if err != nil {
			return nil, d.failed(ctx, "register", err)
		}
		d.emit(ctx, kafka.EventTypeUserRegistered, user.ID, "")
		return user, nil

	case command.LoginUserCommand:
		user, err := d.commands.LoginHandler.Handle(ctx, m)
		if err != nil {
			return nil, d.failed(ctx, "login", err)
		}
		d.emit(ctx, kafka.EventTypeUserLoggedIn, user.ID, "")
		return user, nil

	case command.LogoutUserCommand:
		previous, err := d.commands.LogoutHandler.Handle(ctx, m)
		if err != nil {
			return nil, d.failed(ctx, "logout", err)
		}
		if previous != nil {
			d.emit(ctx, kafka.EventTypeUserLoggedOut, previous.ID, "")
		}
		return previous, nil

	case command.CreateListingCommand:
		product, err := d.commands.ListingHandler.Handle(ctx, m)
		if err != nil {
			return nil, d.failed(ctx, "add_product", err)
		}
		d.emit(ctx, kafka.EventTypeProductListed, product.SellerID, product.ID)
		return product, nil

	case command.ToggleFavoriteCommand:
		res, err := d.commands.FavoriteHandler.Handle(ctx, m)
		if err != nil {
			return nil, d.failed(ctx, "toggle_favorite", err)
		}
		eventType := kafka.EventTypeFavoriteRemoved
		if res.Favorite {
			eventType = kafka.EventTypeFavoriteAdded
		}
		d.emit(ctx, eventType, res.UserID, res.ProductID)
		return res, nil

	case command.SeedSampleDataCommand:
		res, err := d.commands.SeedHandler.Handle(ctx, m)
		if err != nil {
			return nil, d.failed(ctx, "seed", err)
		}
		logger.WithContext(ctx).Info().
			Int("users", res.Users).
			Int("products", res.Products).
			Msg("Sample data seeded")
		return res, nil

	case query.ListFeedQuery:
		return answer(d.queries.FeedHandler.Handle(ctx, m))
	case query.GetProductQuery:
		return answer(d.queries.ProductHandler.Handle(ctx, m))
	case query.ListFavoritesQuery:
		return answer(d.queries.FavoritesHandler.Handle(ctx, m))
	case query.ListSellerProductsQuery:
		return answer(d.queries.SellerProductsHandler.Handle(ctx, m))
	case query.GetStatsQuery:
		return answer(d.queries.StatsHandler.Handle(ctx, m))
	case query.GetSessionQuery:
		return answer(d.queries.SessionHandler.Handle(ctx, m))
	}

	return nil, fmt.Errorf("unsupported message %T", msg)
}

func answer(v any, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (d *Dispatcher) failed(ctx context.Context, op string, err error) error {
	var verr *domain.ValidationError
	event := logger.WithContext(ctx).Warn()
	if errors.As(err, &verr) {
		event = event.Str("field", verr.Field)
	} else if errors.Is(err, store.ErrStoreUnavailable) {
		event = logger.WithContext(ctx).Error()
	}
	event.Err(err).Str("command", op).Msg("Command rejected")
	return err
}

// emit publishes an event; a failed publication is logged and otherwise ignored
func (d *Dispatcher) emit(ctx context.Context, eventType, userID, productID string) {
	logger.WithContext(ctx).Info().
		Str("event_type", eventType).
		Str("user_id", userID).
		Str("product_id", productID).
		Msg("Command applied")

	event := kafka.Event{
		EventType: eventType,
		UserID:    userID,
		ProductID: productID,
		Timestamp: d.now().UTC(),
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		logger.WithContext(ctx).Error().
			Err(err).
			Str("event_type", eventType).
			Msg("Failed to publish event")
	}
}
