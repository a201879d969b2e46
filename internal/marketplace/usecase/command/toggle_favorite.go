package command

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
)

// ToggleFavoriteCommand flips the favorite state of a product for the session user
type ToggleFavoriteCommand struct {
	ProductID string
}

// ToggleFavoriteResult reports the state after the toggle
type ToggleFavoriteResult struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Favorite  bool   `json:"favorite"`
}

// ToggleFavoriteHandler handles favorite toggling
type ToggleFavoriteHandler struct {
	repo domain.Repository
}

// NewToggleFavoriteHandler creates a new toggle favorite handler
func NewToggleFavoriteHandler(repo domain.Repository) *ToggleFavoriteHandler {
	return &ToggleFavoriteHandler{repo: repo}
}

// Handle removes the favorite when present, otherwise adds it
func (h *ToggleFavoriteHandler) Handle(ctx context.Context, cmd ToggleFavoriteCommand) (*ToggleFavoriteResult, error) {
	user, err := requireSession(ctx, h.repo)
	if err != nil {
		return nil, err
	}
	if cmd.ProductID == "" {
		return nil, domain.NewValidationError("productId", "product id is required")
	}

	if _, ok, err := h.repo.GetProductByID(ctx, cmd.ProductID); err != nil {
		return nil, err
	} else if !ok {
		return nil, domain.ErrProductNotFound
	}

	fav, err := h.repo.ToggleFavorite(ctx, user.ID, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return &ToggleFavoriteResult{UserID: user.ID, ProductID: cmd.ProductID, Favorite: fav}, nil
}
