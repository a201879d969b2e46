package command

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
)

// LoginUserCommand represents the command to log in with email or phone
type LoginUserCommand struct {
	Identifier string
	Password   string
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo domain.Repository
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.Repository) *LoginUserHandler {
	return &LoginUserHandler{repo: repo}
}

// Handle executes the login user command. A previous session is overwritten.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*domain.User, error) {
	if cmd.Identifier == "" || cmd.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, ok, err := h.repo.FindUserByLogin(ctx, cmd.Identifier, cmd.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if err := h.repo.SetCurrentUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return &user, nil
}
