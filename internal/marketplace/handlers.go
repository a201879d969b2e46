package marketplace

import (
	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/usecase/command"
	"github.com/tair/vapt/internal/marketplace/usecase/query"
)

// CommandHandlers is a struct that holds all command handlers
type CommandHandlers struct {
	RegisterHandler *command.RegisterUserHandler
	LoginHandler    *command.LoginUserHandler
	LogoutHandler   *command.LogoutUserHandler
	ListingHandler  *command.CreateListingHandler
	FavoriteHandler *command.ToggleFavoriteHandler
	SeedHandler     *command.SeedSampleDataHandler
}

// QueryHandlers is a struct that holds all query handlers
type QueryHandlers struct {
	FeedHandler           *query.ListFeedHandler
	ProductHandler        *query.GetProductHandler
	FavoritesHandler      *query.ListFavoritesHandler
	SellerProductsHandler *query.ListSellerProductsHandler
	StatsHandler          *query.GetStatsHandler
	SessionHandler        *query.GetSessionHandler
}

// NewCommandHandlers builds every command handler over repo
func NewCommandHandlers(repo domain.Repository) *CommandHandlers {
	return &CommandHandlers{
		RegisterHandler: command.NewRegisterUserHandler(repo),
		LoginHandler:    command.NewLoginUserHandler(repo),
		LogoutHandler:   command.NewLogoutUserHandler(repo),
		ListingHandler:  command.NewCreateListingHandler(repo),
		FavoriteHandler: command.NewToggleFavoriteHandler(repo),
		SeedHandler:     command.NewSeedSampleDataHandler(repo),
	}
}

// NewQueryHandlers builds every query handler over repo
func NewQueryHandlers(repo domain.Repository) *QueryHandlers {
	return &QueryHandlers{
		FeedHandler:           query.NewListFeedHandler(repo),
		ProductHandler:        query.NewGetProductHandler(repo),
		FavoritesHandler:      query.NewListFavoritesHandler(repo),
		SellerProductsHandler: query.NewListSellerProductsHandler(repo),
		StatsHandler:          query.NewGetStatsHandler(repo),
		SessionHandler:        query.NewGetSessionHandler(repo),
	}
}
