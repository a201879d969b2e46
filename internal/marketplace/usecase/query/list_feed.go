package query

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/feed"
)

// ListFeedQuery represents the query to list the product feed
type ListFeedQuery struct {
	Filter feed.Filter
}

// FeedResult is the filtered feed. Filtered is set when any criterion narrowed it.
type FeedResult struct {
	Products []ProductView `json:"products"`
	Count    int           `json:"count"`
	Filtered bool          `json:"filtered"`
}

// ListFeedHandler handles list feed query
type ListFeedHandler struct {
	repo domain.Repository
}

// NewListFeedHandler creates a new list feed handler
func NewListFeedHandler(repo domain.Repository) *ListFeedHandler {
	return &ListFeedHandler{repo: repo}
}

// Handle executes the list feed query
func (h *ListFeedHandler) Handle(ctx context.Context, query ListFeedQuery) (*FeedResult, error) {
	products, err := h.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	viewer, err := h.repo.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	a, err := newAnnotator(ctx, h.repo, viewer)
	if err != nil {
		return nil, err
	}

	views := a.views(feed.Apply(products, query.Filter))
	return &FeedResult{
		Products: views,
		Count:    len(views),
		Filtered: query.Filter.Active(),
	}, nil
}
