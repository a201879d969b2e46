package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/vapt/internal/marketplace"
	httpDelivery "github.com/tair/vapt/internal/marketplace/delivery/http"
	"github.com/tair/vapt/internal/marketplace/usecase/command"
	"github.com/tair/vapt/internal/store"
	"github.com/tair/vapt/kafka"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func setupRouter(t *testing.T, seed bool) *mux.Router {
	t.Helper()
	ctx := context.Background()

	s := store.New(store.NewMemoryBackend())
	require.NoError(t, s.Initialize(ctx))

	if seed {
		d, err := marketplace.InitializeDispatcher(s, kafka.NopPublisher{})
		require.NoError(t, err)
		_, err = d.Dispatch(ctx, command.SeedSampleDataCommand{})
		require.NoError(t, err)
	}

	handler, err := marketplace.InitializeHTTPHandler(s, kafka.NopPublisher{}, prometheus.NewRegistry())
	require.NoError(t, err)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func do(t *testing.T, router http.Handler, method, target string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

type productView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Favorite bool    `json:"favorite"`
	Seller   *struct {
		Name string `json:"name"`
	} `json:"seller"`
}

func TestFeedFilters(t *testing.T) {
	router := setupRouter(t, true)

	tests := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{"all recent", url.Values{}, []string{"Sofá 3 lugares", "Bicicleta Mountain Bike", "iPhone 13 Pro"}},
		{"search and max price", url.Values{"search": {"bike"}, "maxPrice": {"2000"}}, []string{"Bicicleta Mountain Bike"}},
		{"category", url.Values{"category": {"eletronicos"}}, []string{"iPhone 13 Pro"}},
		{"price high", url.Values{"sort": {"price-high"}}, []string{"iPhone 13 Pro", "Sofá 3 lugares", "Bicicleta Mountain Bike"}},
		{"location", url.Values{"location": {"rio"}}, []string{"Bicicleta Mountain Bike"}},
		{"near rio", url.Values{"near": {"-22.91,-43.17"}, "distance": {"100"}}, []string{"Bicicleta Mountain Bike"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, env := do(t, router, http.MethodGet, "/api/products?"+tc.query.Encode(), nil)
			require.Equal(t, http.StatusOK, status, env.Error)

			var data struct {
				Products []productView `json:"products"`
				Count    int           `json:"count"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &data))

			names := make([]string, 0, len(data.Products))
			for _, p := range data.Products {
				names = append(names, p.Name)
				require.NotNil(t, p.Seller)
			}
			assert.Equal(t, tc.want, names)
			assert.Equal(t, len(tc.want), data.Count)
		})
	}
}

func TestFeedRejectsBadParameters(t *testing.T) {
	router := setupRouter(t, false)

	for _, q := range []string{"minPrice=abc", "near=somewhere", "distance=far&near=1,1"} {
		status, env := do(t, router, http.MethodGet, "/api/products?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, status, q)
		assert.False(t, env.Success)
	}
}

func TestAuthAndFavoritesFlow(t *testing.T) {
	router := setupRouter(t, true)

	status, _ := do(t, router, http.MethodGet, "/api/favorites", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := do(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"identifier": "joao@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, env.Error)

	status, env = do(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"identifier": "joao@example.com", "password": "123456",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(env.Data), "password")

	status, env = do(t, router, http.MethodPost, "/api/products", map[string]any{
		"name": "Mesa", "description": "Mesa de jantar", "price": 800,
		"category": "casa", "location": "São Paulo, SP", "images": []string{"mesa.jpg"},
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	status, env = do(t, router, http.MethodPost, "/api/products/"+created.ID+"/favorite", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Added to favorites", env.Message)

	status, env = do(t, router, http.MethodGet, "/api/favorites", nil)
	require.Equal(t, http.StatusOK, status)
	var favs []productView
	require.NoError(t, json.Unmarshal(env.Data, &favs))
	require.Len(t, favs, 1)
	assert.Equal(t, created.ID, favs[0].ID)
	assert.True(t, favs[0].Favorite)

	status, _ = do(t, router, http.MethodPost, "/api/products/missing/favorite", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, router, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, router, http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"loggedIn":false,"favorites":0}`, string(env.Data))
}

func TestRegister(t *testing.T) {
	router := setupRouter(t, true)

	body := map[string]string{
		"name": "Ana", "email": "ana@example.com", "phone": "(31) 91234-5678",
		"location": "Belo Horizonte, MG", "password": "abc", "confirmPassword": "abc",
	}
	status, env := do(t, router, http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, _ = do(t, router, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, status)

	body["email"] = "joao@example.com"
	status, _ = do(t, router, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, status)

	body["email"] = "other@example.com"
	body["confirmPassword"] = "abd"
	status, env = do(t, router, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "confirmPassword")
}

func TestCreateListingRequiresLogin(t *testing.T) {
	router := setupRouter(t, false)

	status, _ := do(t, router, http.MethodPost, "/api/products", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductAndSellerLookup(t *testing.T) {
	router := setupRouter(t, true)

	status, _ := do(t, router, http.MethodGet, "/api/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, router, http.MethodGet, "/api/users/missing/products", nil)
	assert.Equal(t, http.StatusNotFound, status)

	_, env := do(t, router, http.MethodGet, "/api/products?sort=price-low", nil)
	var data struct {
		Products []struct {
			ID       string `json:"id"`
			SellerID string `json:"sellerId"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Products)

	status, env = do(t, router, http.MethodGet, "/api/products/"+data.Products[0].ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Bicicleta Mountain Bike")

	status, env = do(t, router, http.MethodGet, "/api/users/"+data.Products[0].SellerID+"/products", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Maria Oliveira")
}

func TestCategoriesStatsAndHealth(t *testing.T) {
	router := setupRouter(t, true)

	status, env := do(t, router, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Casa e Decoração")

	status, env = do(t, router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"totalProducts":3`)

	status, env = do(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

type failingDispatcher struct{}

func (failingDispatcher) Dispatch(context.Context, any) (any, error) {
	return nil, store.ErrStoreUnavailable
}

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestStoreUnavailable(t *testing.T) {
	handler := httpDelivery.NewMarketplaceHandler(failingDispatcher{}, downStore{}, prometheus.NewRegistry())
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	status, env := do(t, router, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, http.StatusText(http.StatusServiceUnavailable), env.Error)

	status, _ = do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
