package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/feed"
	"github.com/tair/vapt/internal/store"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func setupRepo(t *testing.T) (*StoreRepository, *store.Store) {
	t.Helper()

	n := 0
	s := store.New(store.NewMemoryBackend(), store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	require.NoError(t, s.Initialize(context.Background()))

	return NewStoreRepository(s, func() time.Time { return fixedNow }), s
}

func TestAddUserAndLookup(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	user, err := repo.AddUser(ctx, domain.UserDraft{
		Name: "João Silva", Email: "joao@example.com", Phone: "(11) 98765-4321",
		Location: "São Paulo, SP", Password: "123456", Photo: "photo.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", user.ID)

	got, ok, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user, got)

	_, ok, err = repo.GetUserByID(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err = repo.FindUserByEmail(ctx, "joao@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, user.ID, got.ID)
}

func TestAddUserDoesNotEnforceUniqueEmail(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	draft := domain.UserDraft{Name: "A", Email: "same@example.com"}
	_, err := repo.AddUser(ctx, draft)
	require.NoError(t, err)
	_, err = repo.AddUser(ctx, draft)
	require.NoError(t, err)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestFindUserByLogin(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.AddUser(ctx, domain.UserDraft{Email: "maria@example.com", Phone: "(21) 98765-4321", Password: "secret"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		identifier string
		password   string
		want       bool
	}{
		{"email and password", "maria@example.com", "secret", true},
		{"phone and password", "(21) 98765-4321", "secret", true},
		{"wrong password", "maria@example.com", "Secret", false},
		{"unknown identifier", "joao@example.com", "secret", false},
		{"empty identifier", "", "secret", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok, err := repo.FindUserByLogin(ctx, tc.identifier, tc.password)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestAddProductAssignsIDAndCreatedAt(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	images := []string{"a.jpg", "b.jpg"}
	product, err := repo.AddProduct(ctx, domain.ProductDraft{
		Name: "Sofá", Price: 1899.99, Category: domain.CategoryHome, SellerID: "u1", Images: images,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.True(t, fixedNow.Equal(product.CreatedAt.Time))

	images[0] = "changed.jpg"
	got, ok, err := repo.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)
	assert.Nil(t, got.Video)
}

func TestAddAndRemoveFavorite(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	isFav := func() bool {
		ok, err := repo.IsFavorite(ctx, "u1", "p1")
		require.NoError(t, err)
		return ok
	}

	assert.False(t, isFav())

	_, err := repo.AddFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, isFav())

	require.NoError(t, repo.RemoveFavorite(ctx, "u1", "p1"))
	assert.False(t, isFav())

	require.NoError(t, repo.RemoveFavorite(ctx, "u1", "p1"))
	assert.False(t, isFav())
}

func TestToggleFavorite(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	fav, err := repo.ToggleFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, fav)

	favs, err := repo.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	fav, err = repo.ToggleFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, fav)

	favs, err = repo.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestToggleFavoriteClearsDuplicates(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	for range 2 {
		_, err := repo.AddFavorite(ctx, "u1", "p1")
		require.NoError(t, err)
	}

	fav, err := repo.ToggleFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, fav)

	ok, err := repo.IsFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

// slowBackend delays reads so concurrent read-modify-write cycles overlap
type slowBackend struct {
	store.Backend
}

func (b slowBackend) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(time.Millisecond)
	return b.Backend.Get(ctx, key)
}

func TestToggleFavoriteConcurrent(t *testing.T) {
	s := store.New(slowBackend{Backend: store.NewMemoryBackend()})
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	repo := NewStoreRepository(s, nil)

	const workers = 8
	start := make(chan struct{})
	results := make([]bool, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i], errs[i] = repo.ToggleFavorite(ctx, "u1", "p1")
		}()
	}
	close(start)
	wg.Wait()

	added := 0
	for i := range workers {
		require.NoError(t, errs[i])
		if results[i] {
			added++
		}
	}
	assert.Equal(t, workers/2, added)

	favs, err := repo.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)

	fav, err := repo.ToggleFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, fav)

	favs, err = repo.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestStoredProductsWithBadCreatedAtSortLast(t *testing.T) {
	backend := store.NewMemoryBackend()
	s := store.New(backend)
	repo := NewStoreRepository(s, nil)
	ctx := context.Background()

	raw := `[
		{"id":"p-garbage","sellerId":"u1","createdAt":"garbage"},
		{"id":"p-new","sellerId":"u1","createdAt":"2024-03-10T12:00:00.000Z"},
		{"id":"p-missing","sellerId":"u1","images":["a.jpg"]},
		{"id":"p-date","sellerId":"u1","createdAt":"2024-03-09"},
		{"id":"p-number","sellerId":"u1","createdAt":12345}
	]`
	require.NoError(t, backend.Set(ctx, string(store.Products), []byte(raw)))

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 5)

	feed.Sort(products, feed.SortRecent)

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"p-new", "p-date", "p-number", "p-garbage", "p-missing"}, ids)

	assert.NotNil(t, products[3].Images)
	assert.Empty(t, products[3].Images)
}

func TestWrittenProductWithoutImagesReadsBackEmpty(t *testing.T) {
	repo, s := setupRepo(t)
	ctx := context.Background()

	written := domain.Product{ID: "p1", SellerID: "u1", Name: "x", CreatedAt: domain.NewTimestamp(fixedNow)}
	require.NoError(t, store.WriteAll(ctx, s, store.Products, []domain.Product{written}))

	got, ok, err := repo.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{}, got.Images)

	got.Images = nil
	assert.Equal(t, written, got)
}

func TestRemoveFavoriteRemovesDuplicatesOnly(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.AddFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	_, err = repo.AddFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	_, err = repo.AddFavorite(ctx, "u1", "p2")
	require.NoError(t, err)
	_, err = repo.AddFavorite(ctx, "u2", "p1")
	require.NoError(t, err)

	favs, err := repo.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Len(t, favs, 4)

	require.NoError(t, repo.RemoveFavorite(ctx, "u1", "p1"))

	favs, err = repo.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	for _, f := range favs {
		assert.False(t, f.Matches("u1", "p1"))
	}
}

func TestAddFavoriteUnique(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	first, err := repo.AddFavoriteUnique(ctx, "u1", "p1")
	require.NoError(t, err)
	second, err := repo.AddFavoriteUnique(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	favs, err := repo.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestGetUserFavoritesSkipsDanglingProducts(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	p1, err := repo.AddProduct(ctx, domain.ProductDraft{Name: "Bike", SellerID: "u9", Images: []string{"b.jpg"}})
	require.NoError(t, err)
	p2, err := repo.AddProduct(ctx, domain.ProductDraft{Name: "Sofá", SellerID: "u9", Images: []string{"s.jpg"}})
	require.NoError(t, err)

	for _, pid := range []string{p2.ID, "deleted-product", p1.ID} {
		_, err := repo.AddFavorite(ctx, "u1", pid)
		require.NoError(t, err)
	}
	_, err = repo.AddFavorite(ctx, "u2", p1.ID)
	require.NoError(t, err)

	got, err := repo.GetUserFavorites(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, p2.ID, got[0].ID)
	assert.Equal(t, p1.ID, got[1].ID)

	none, err := repo.GetUserFavorites(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListProductsBySeller(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	for _, seller := range []string{"u1", "u2", "u1"} {
		_, err := repo.AddProduct(ctx, domain.ProductDraft{Name: "item", SellerID: seller, Images: []string{"x"}})
		require.NoError(t, err)
	}

	got, err := repo.ListProductsBySeller(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.ListProductsBySeller(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionLifecycle(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	current, err := repo.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	user := domain.User{ID: "u1", Name: "Maria"}
	require.NoError(t, repo.SetCurrentUser(ctx, &user))
	current, err = repo.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "u1", current.ID)

	require.NoError(t, repo.SetCurrentUser(ctx, nil))
	current, err = repo.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestRepositorySurfacesStoreUnavailable(t *testing.T) {
	backend := store.NewMemoryBackend()
	s := store.New(backend)
	repo := NewStoreRepository(s, nil)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, string(store.Products), []byte("garbage")))

	_, _, err := repo.GetProductByID(ctx, "p1")
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)

	_, err = repo.AddProduct(ctx, domain.ProductDraft{Name: "x"})
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
}

func TestTracedRepositoryDelegates(t *testing.T) {
	inner, _ := setupRepo(t)
	repo := NewTracedRepository(inner)
	ctx := context.Background()

	user, err := repo.AddUser(ctx, domain.UserDraft{Email: "a@example.com"})
	require.NoError(t, err)

	product, err := repo.AddProduct(ctx, domain.ProductDraft{Name: "x", SellerID: user.ID, Images: []string{"x"}})
	require.NoError(t, err)

	_, err = repo.AddFavorite(ctx, user.ID, product.ID)
	require.NoError(t, err)

	ok, err := repo.IsFavorite(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	favs, err := repo.GetUserFavorites(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	fav, err := repo.ToggleFavorite(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, fav)
}
