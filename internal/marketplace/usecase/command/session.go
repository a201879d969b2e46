package command

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
)

func requireSession(ctx context.Context, repo domain.Repository) (*domain.User, error) {
	current, err := repo.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if current == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return current, nil
}
