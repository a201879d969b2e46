package query

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
)

// GetStatsQuery represents the query to get marketplace statistics
type GetStatsQuery struct{}

// MarketplaceStats represents marketplace statistics
type MarketplaceStats struct {
	TotalUsers         int            `json:"totalUsers"`
	TotalProducts      int            `json:"totalProducts"`
	TotalFavorites     int            `json:"totalFavorites"`
	AveragePrice       float64        `json:"averagePrice"`
	ProductsByCategory map[string]int `json:"productsByCategory"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.Repository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.Repository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*MarketplaceStats, error) {
	users, err := h.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	products, err := h.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	favs, err := h.repo.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}

	stats := &MarketplaceStats{
		TotalUsers:         len(users),
		TotalProducts:      len(products),
		TotalFavorites:     len(favs),
		ProductsByCategory: make(map[string]int),
	}

	var totalPrice float64
	for _, p := range products {
		totalPrice += p.Price
		stats.ProductsByCategory[p.Category]++
	}
	if len(products) > 0 {
		stats.AveragePrice = totalPrice / float64(len(products))
	}

	return stats, nil
}
