package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/favorites"
	"github.com/tair/vapt/internal/store"
)

// StoreRepository implements domain.Repository over the collection store.
// Mutations are read-modify-write of a whole collection and are serialized by mu.
type StoreRepository struct {
	store *store.Store
	now   func() time.Time
	mu    sync.Mutex
}

var _ domain.Repository = (*StoreRepository)(nil)

// NewStoreRepository creates a repository; now stamps product creation times
func NewStoreRepository(s *store.Store, now func() time.Time) *StoreRepository {
	if now == nil {
		now = time.Now
	}
	return &StoreRepository{store: s, now: now}
}

func (r *StoreRepository) AddUser(ctx context.Context, draft domain.UserDraft) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := store.ReadAll[domain.User](ctx, r.store, store.Users)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to load users: %w", err)
	}

	user := domain.User{
		ID:       r.store.NewID(),
		Name:     draft.Name,
		Email:    draft.Email,
		Phone:    draft.Phone,
		Location: draft.Location,
		Password: draft.Password,
		Photo:    draft.Photo,
	}
	users = append(users, user)

	if err := store.WriteAll(ctx, r.store, store.Users, users); err != nil {
		return domain.User{}, fmt.Errorf("failed to save users: %w", err)
	}
	return user, nil
}

func (r *StoreRepository) AddProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := store.ReadAll[domain.Product](ctx, r.store, store.Products)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to load products: %w", err)
	}

	images := make([]string, len(draft.Images))
	copy(images, draft.Images)

	product := domain.Product{
		ID:          r.store.NewID(),
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		Category:    draft.Category,
		Location:    draft.Location,
		SellerID:    draft.SellerID,
		Images:      images,
		Video:       draft.Video,
		CreatedAt:   domain.NewTimestamp(r.now()),
		PlusCode:    draft.PlusCode,
	}
	products = append(products, product)

	if err := store.WriteAll(ctx, r.store, store.Products, products); err != nil {
		return domain.Product{}, fmt.Errorf("failed to save products: %w", err)
	}
	return product, nil
}

// AddFavorite appends a favorite without looking for an existing one
func (r *StoreRepository) AddFavorite(ctx context.Context, userID, productID string) (domain.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	favs, err := r.loadFavorites(ctx)
	if err != nil {
		return domain.Favorite{}, err
	}
	return r.appendFavorite(ctx, favs, userID, productID)
}

// AddFavoriteUnique returns the existing favorite for the pair, creating one only if absent
func (r *StoreRepository) AddFavoriteUnique(ctx context.Context, userID, productID string) (domain.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	favs, err := r.loadFavorites(ctx)
	if err != nil {
		return domain.Favorite{}, err
	}
	for _, f := range favs {
		if f.Matches(userID, productID) {
			return f, nil
		}
	}
	return r.appendFavorite(ctx, favs, userID, productID)
}

func (r *StoreRepository) appendFavorite(ctx context.Context, favs []domain.Favorite, userID, productID string) (domain.Favorite, error) {
	fav := domain.Favorite{
		ID:        r.store.NewID(),
		UserID:    userID,
		ProductID: productID,
	}
	favs = append(favs, fav)

	if err := store.WriteAll(ctx, r.store, store.Favorites, favs); err != nil {
		return domain.Favorite{}, fmt.Errorf("failed to save favorites: %w", err)
	}
	return fav, nil
}

// RemoveFavorite deletes every favorite linking userID to productID
func (r *StoreRepository) RemoveFavorite(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	favs, err := r.loadFavorites(ctx)
	if err != nil {
		return err
	}

	kept := favs[:0]
	for _, f := range favs {
		if !f.Matches(userID, productID) {
			kept = append(kept, f)
		}
	}

	if err := store.WriteAll(ctx, r.store, store.Favorites, kept); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

// ToggleFavorite removes every favorite for the pair when one exists, otherwise adds one.
// It reports whether the pair is a favorite afterwards.
func (r *StoreRepository) ToggleFavorite(ctx context.Context, userID, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	favs, err := r.loadFavorites(ctx)
	if err != nil {
		return false, err
	}

	kept := favs[:0]
	for _, f := range favs {
		if !f.Matches(userID, productID) {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(favs) {
		if _, err := r.appendFavorite(ctx, favs, userID, productID); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := store.WriteAll(ctx, r.store, store.Favorites, kept); err != nil {
		return false, fmt.Errorf("failed to save favorites: %w", err)
	}
	return false, nil
}

func (r *StoreRepository) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	favs, err := r.loadFavorites(ctx)
	if err != nil {
		return false, err
	}
	return favorites.Build(favs, nil).Contains(userID, productID), nil
}

// GetUserFavorites resolves the user's favorites to products, skipping missing ones
func (r *StoreRepository) GetUserFavorites(ctx context.Context, userID string) ([]domain.Product, error) {
	favs, err := r.loadFavorites(ctx)
	if err != nil {
		return nil, err
	}
	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return favorites.Build(favs, products).ProductsFor(userID), nil
}

func (r *StoreRepository) GetUserByID(ctx context.Context, id string) (domain.User, bool, error) {
	return r.findUser(ctx, func(u domain.User) bool { return u.ID == id })
}

func (r *StoreRepository) FindUserByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	return r.findUser(ctx, func(u domain.User) bool { return u.Email == email })
}

// FindUserByLogin matches identifier against email or phone, and password exactly
func (r *StoreRepository) FindUserByLogin(ctx context.Context, identifier, password string) (domain.User, bool, error) {
	return r.findUser(ctx, func(u domain.User) bool { return u.MatchesLogin(identifier, password) })
}

func (r *StoreRepository) findUser(ctx context.Context, match func(domain.User) bool) (domain.User, bool, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return domain.User{}, false, err
	}
	for _, u := range users {
		if match(u) {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (r *StoreRepository) GetProductByID(ctx context.Context, id string) (domain.Product, bool, error) {
	products, err := r.ListProducts(ctx)
	if err != nil {
		return domain.Product{}, false, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return domain.Product{}, false, nil
}

func (r *StoreRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := store.ReadAll[domain.User](ctx, r.store, store.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

func (r *StoreRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := store.ReadAll[domain.Product](ctx, r.store, store.Products)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

func (r *StoreRepository) ListProductsBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *StoreRepository) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	return r.loadFavorites(ctx)
}

func (r *StoreRepository) loadFavorites(ctx context.Context) ([]domain.Favorite, error) {
	favs, err := store.ReadAll[domain.Favorite](ctx, r.store, store.Favorites)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return favs, nil
}

func (r *StoreRepository) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	user, err := store.ReadValue[domain.User](ctx, r.store, store.CurrentUser)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return user, nil
}

// SetCurrentUser replaces the session; nil logs out
func (r *StoreRepository) SetCurrentUser(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := store.WriteValue(ctx, r.store, store.CurrentUser, user); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
