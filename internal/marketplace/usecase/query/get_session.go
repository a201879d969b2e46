package query

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
)

// GetSessionQuery reads the current session
type GetSessionQuery struct{}

// SessionView describes the session slot
type SessionView struct {
	LoggedIn  bool      `json:"loggedIn"`
	User      *UserView `json:"user,omitempty"`
	Favorites int       `json:"favorites"`
}

// GetSessionHandler handles session query
type GetSessionHandler struct {
	repo domain.Repository
}

// NewGetSessionHandler creates a new session handler
func NewGetSessionHandler(repo domain.Repository) *GetSessionHandler {
	return &GetSessionHandler{repo: repo}
}

// Handle executes the session query
func (h *GetSessionHandler) Handle(ctx context.Context, _ GetSessionQuery) (*SessionView, error) {
	current, err := h.repo.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if current == nil {
		return &SessionView{}, nil
	}

	favs, err := h.repo.GetUserFavorites(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	uv := NewUserView(*current)
	return &SessionView{LoggedIn: true, User: &uv, Favorites: len(favs)}, nil
}
