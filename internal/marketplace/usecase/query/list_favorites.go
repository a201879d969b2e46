package query

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
)

// ListFavoritesQuery lists the session user's favorite products
type ListFavoritesQuery struct{}

// ListFavoritesHandler handles list favorites query
type ListFavoritesHandler struct {
	repo domain.Repository
}

// NewListFavoritesHandler creates a new list favorites handler
func NewListFavoritesHandler(repo domain.Repository) *ListFavoritesHandler {
	return &ListFavoritesHandler{repo: repo}
}

// Handle executes the list favorites query. Favorites pointing at removed
// products are left out.
func (h *ListFavoritesHandler) Handle(ctx context.Context, _ ListFavoritesQuery) ([]ProductView, error) {
	viewer, err := h.repo.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if viewer == nil {
		return nil, domain.ErrNotLoggedIn
	}

	products, err := h.repo.GetUserFavorites(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	a, err := newAnnotator(ctx, h.repo, viewer)
	if err != nil {
		return nil, err
	}
	return a.views(products), nil
}
