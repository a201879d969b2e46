package query

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID string
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.Repository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.Repository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*ProductView, error) {
	if query.ID == "" {
		return nil, domain.ErrProductNotFound
	}

	product, ok, err := h.repo.GetProductByID(ctx, query.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	viewer, err := h.repo.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	a, err := newAnnotator(ctx, h.repo, viewer)
	if err != nil {
		return nil, err
	}

	view := a.view(product)
	return &view, nil
}
