package command

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
)

// LogoutUserCommand clears the session
type LogoutUserCommand struct{}

// LogoutUserHandler handles logout command
type LogoutUserHandler struct {
	repo domain.Repository
}

// NewLogoutUserHandler creates a new logout handler
func NewLogoutUserHandler(repo domain.Repository) *LogoutUserHandler {
	return &LogoutUserHandler{repo: repo}
}

// Handle clears the session and returns the user that was logged in, if any
func (h *LogoutUserHandler) Handle(ctx context.Context, _ LogoutUserCommand) (*domain.User, error) {
	previous, err := h.repo.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if previous == nil {
		return nil, nil
	}

	if err := h.repo.SetCurrentUser(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to clear session: %w", err)
	}
	return previous, nil
}
