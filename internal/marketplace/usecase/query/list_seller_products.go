package query

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/feed"
)

// ListSellerProductsQuery represents the query for a seller profile
type ListSellerProductsQuery struct {
	SellerID string
}

// SellerProfile is a seller with their listings, newest first
type SellerProfile struct {
	Seller   UserView      `json:"seller"`
	Products []ProductView `json:"products"`
}

// ListSellerProductsHandler handles seller profile query
type ListSellerProductsHandler struct {
	repo domain.Repository
}

// NewListSellerProductsHandler creates a new seller profile handler
func NewListSellerProductsHandler(repo domain.Repository) *ListSellerProductsHandler {
	return &ListSellerProductsHandler{repo: repo}
}

// Handle executes the seller profile query
func (h *ListSellerProductsHandler) Handle(ctx context.Context, query ListSellerProductsQuery) (*SellerProfile, error) {
	seller, ok, err := h.repo.GetUserByID(ctx, query.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	products, err := h.repo.ListProductsBySeller(ctx, seller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	feed.Sort(products, feed.SortRecent)

	viewer, err := h.repo.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	a, err := newAnnotator(ctx, h.repo, viewer)
	if err != nil {
		return nil, err
	}

	return &SellerProfile{
		Seller:   NewUserView(seller),
		Products: a.views(products),
	}, nil
}
