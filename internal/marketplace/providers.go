package marketplace

import (
	"time"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/repository"
	"github.com/tair/vapt/internal/store"
)

// ProvideRepository provides the traced store-backed repository
func ProvideRepository(s *store.Store) domain.Repository {
	return repository.NewTracedRepository(repository.NewStoreRepository(s, time.Now))
}
