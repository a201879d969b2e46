package marketplace

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/feed"
	"github.com/tair/vapt/internal/marketplace/usecase/command"
	"github.com/tair/vapt/internal/marketplace/usecase/query"
	"github.com/tair/vapt/internal/store"
	"github.com/tair/vapt/kafka"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

func setupDispatcher(t *testing.T, pub kafka.Publisher) *Dispatcher {
	t.Helper()
	s := store.New(store.NewMemoryBackend())
	require.NoError(t, s.Initialize(context.Background()))

	d, err := InitializeDispatcher(s, pub)
	require.NoError(t, err)
	return d
}

func TestDispatchFlow(t *testing.T) {
	pub := &recordingPublisher{}
	d := setupDispatcher(t, pub)
	ctx := context.Background()

	res, err := d.Dispatch(ctx, command.SeedSampleDataCommand{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.(*command.SeedResult).Products)

	res, err = d.Dispatch(ctx, command.LoginUserCommand{Identifier: "(11) 98765-4321", Password: "123456"})
	require.NoError(t, err)
	joao := res.(*domain.User)
	assert.Equal(t, "João Silva", joao.Name)

	res, err = d.Dispatch(ctx, command.CreateListingCommand{
		Name:        "Camiseta",
		Description: "Camiseta de algodão",
		Price:       49.9,
		Category:    domain.CategoryFashion,
		Location:    "São Paulo, SP",
		Images:      []string{"camiseta.jpg"},
	})
	require.NoError(t, err)
	shirt := res.(*domain.Product)

	res, err = d.Dispatch(ctx, command.ToggleFavoriteCommand{ProductID: shirt.ID})
	require.NoError(t, err)
	assert.True(t, res.(*command.ToggleFavoriteResult).Favorite)

	res, err = d.Dispatch(ctx, query.ListFeedQuery{Filter: feed.Filter{Category: domain.CategoryFashion}})
	require.NoError(t, err)
	result := res.(*query.FeedResult)
	require.Equal(t, 1, result.Count)
	assert.True(t, result.Products[0].Favorite)

	res, err = d.Dispatch(ctx, command.ToggleFavoriteCommand{ProductID: shirt.ID})
	require.NoError(t, err)
	assert.False(t, res.(*command.ToggleFavoriteResult).Favorite)

	_, err = d.Dispatch(ctx, command.LogoutUserCommand{})
	require.NoError(t, err)

	_, err = d.Dispatch(ctx, command.LogoutUserCommand{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		kafka.EventTypeUserLoggedIn,
		kafka.EventTypeProductListed,
		kafka.EventTypeFavoriteAdded,
		kafka.EventTypeFavoriteRemoved,
		kafka.EventTypeUserLoggedOut,
	}, pub.types())
}

func TestDispatchRegisterEmitsEvent(t *testing.T) {
	pub := &recordingPublisher{}
	d := setupDispatcher(t, pub)

	res, err := d.Dispatch(context.Background(), command.RegisterUserCommand{
		Name: "Ana", Email: "ana@example.com", Phone: "1", Password: "x", ConfirmPassword: "x",
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, kafka.EventTypeUserRegistered, pub.events[0].EventType)
	assert.Equal(t, res.(*domain.User).ID, pub.events[0].UserID)
}

func TestDispatchFailedCommandEmitsNothing(t *testing.T) {
	pub := &recordingPublisher{}
	d := setupDispatcher(t, pub)

	_, err := d.Dispatch(context.Background(), command.LoginUserCommand{Identifier: "nobody", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Empty(t, pub.types())
}

func TestDispatchIgnoresPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	d := setupDispatcher(t, pub)
	ctx := context.Background()

	_, err := d.Dispatch(ctx, command.SeedSampleDataCommand{})
	require.NoError(t, err)

	res, err := d.Dispatch(ctx, command.LoginUserCommand{Identifier: "maria@example.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "Maria Oliveira", res.(*domain.User).Name)
}

func TestDispatchUnsupportedMessage(t *testing.T) {
	d := setupDispatcher(t, nil)

	_, err := d.Dispatch(context.Background(), struct{}{})
	assert.Error(t, err)
}

func TestDispatchQueries(t *testing.T) {
	d := setupDispatcher(t, nil)
	ctx := context.Background()

	_, err := d.Dispatch(ctx, command.SeedSampleDataCommand{})
	require.NoError(t, err)

	res, err := d.Dispatch(ctx, query.GetStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.(*query.MarketplaceStats).TotalUsers)

	res, err = d.Dispatch(ctx, query.GetSessionQuery{})
	require.NoError(t, err)
	assert.False(t, res.(*query.SessionView).LoggedIn)

	_, err = d.Dispatch(ctx, query.ListFavoritesQuery{})
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)

	_, err = d.Dispatch(ctx, query.GetProductQuery{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	res, err = d.Dispatch(ctx, query.ListFeedQuery{Filter: feed.Filter{Sort: feed.SortPriceHigh}})
	require.NoError(t, err)
	feedResult := res.(*query.FeedResult)
	require.Equal(t, 3, feedResult.Count)
	assert.Equal(t, "iPhone 13 Pro", feedResult.Products[0].Name)

	sellerID := feedResult.Products[0].SellerID
	res, err = d.Dispatch(ctx, query.ListSellerProductsQuery{SellerID: sellerID})
	require.NoError(t, err)
	assert.Len(t, res.(*query.SellerProfile).Products, 2)
}
