package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/usecase/command"
	"github.com/tair/vapt/internal/marketplace/usecase/query"
	"github.com/tair/vapt/internal/store"
	"github.com/tair/vapt/pkg/logger"
)

// Dispatcher routes commands and queries to their handlers
type Dispatcher interface {
	Dispatch(ctx context.Context, msg any) (any, error)
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// MarketplaceHandler handles HTTP requests for the marketplace
type MarketplaceHandler struct {
	dispatcher     Dispatcher
	health         Pinger
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	totalProducts  prometheus.Gauge
}

// NewMarketplaceHandler creates a handler and registers its metrics with reg
func NewMarketplaceHandler(dispatcher Dispatcher, health Pinger, reg prometheus.Registerer) *MarketplaceHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_requests_total",
			Help: "Total number of requests to the marketplace",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketplace_request_duration_seconds",
			Help:    "Duration of marketplace requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// p50, p90, p95, p99
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "marketplace_request_duration_summary",
			Help: "Summary of request durations with percentiles",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	totalProducts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketplace_total_products",
			Help: "Total number of products listed",
		},
	)

	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	reg.MustRegister(requestCounter, requestLatency, requestSummary, totalProducts)

	return &MarketplaceHandler{
		dispatcher:     dispatcher,
		health:         health,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		requestSummary: requestSummary,
		totalProducts:  totalProducts,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *MarketplaceHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *MarketplaceHandler) route(router *mux.Router, method, path string, fn http.HandlerFunc) {
	router.HandleFunc(path, h.metricsMiddleware(path, fn)).Methods(method)
}

func (h *MarketplaceHandler) RegisterRoutes(router *mux.Router) {
	h.route(router, http.MethodPost, "/api/auth/register", h.Register)
	h.route(router, http.MethodPost, "/api/auth/login", h.Login)
	h.route(router, http.MethodPost, "/api/auth/logout", h.Logout)
	h.route(router, http.MethodGet, "/api/auth/session", h.GetSession)

	h.route(router, http.MethodGet, "/api/products", h.ListFeed)
	h.route(router, http.MethodPost, "/api/products", h.CreateListing)
	h.route(router, http.MethodGet, "/api/products/{id}", h.GetProduct)
	h.route(router, http.MethodPost, "/api/products/{id}/favorite", h.ToggleFavorite)

	h.route(router, http.MethodGet, "/api/favorites", h.ListFavorites)
	h.route(router, http.MethodGet, "/api/users/{id}/products", h.ListSellerProducts)
	h.route(router, http.MethodGet, "/api/categories", h.ListCategories)
	h.route(router, http.MethodGet, "/api/stats", h.GetStats)

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
}

// Register handles POST /api/auth/register
func (h *MarketplaceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Phone           string `json:"phone"`
		Location        string `json:"location"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		Photo           string `json:"photo"`
	}
	if !decode(w, r, &req) {
		return
	}

	res, err := h.dispatcher.Dispatch(r.Context(), command.RegisterUserCommand{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Location:        req.Location,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Photo:           req.Photo,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "User registered successfully",
		Data:    query.NewUserView(*res.(*domain.User)),
	})
}

// Login handles POST /api/auth/login
func (h *MarketplaceHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	res, err := h.dispatcher.Dispatch(r.Context(), command.LoginUserCommand{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data:    query.NewUserView(*res.(*domain.User)),
	})
}

// Logout handles POST /api/auth/logout
func (h *MarketplaceHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.dispatcher.Dispatch(r.Context(), command.LogoutUserCommand{}); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Logged out",
	})
}

// GetSession handles GET /api/auth/session
func (h *MarketplaceHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.respondQuery(w, r, query.GetSessionQuery{})
}

// ListFeed handles GET /api/products
func (h *MarketplaceHandler) ListFeed(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondQuery(w, r, query.ListFeedQuery{Filter: filter})
}

// CreateListing handles POST /api/products
func (h *MarketplaceHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Category    string   `json:"category"`
		Location    string   `json:"location"`
		Images      []string `json:"images"`
		Video       string   `json:"video"`
		PlusCode    string   `json:"plusCode"`
	}
	if !decode(w, r, &req) {
		return
	}

	res, err := h.dispatcher.Dispatch(r.Context(), command.CreateListingCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Location:    req.Location,
		Images:      req.Images,
		Video:       req.Video,
		PlusCode:    req.PlusCode,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.updateProductsMetric(r.Context())

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    res,
	})
}

// GetProduct handles GET /api/products/{id}
func (h *MarketplaceHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	h.respondQuery(w, r, query.GetProductQuery{ID: mux.Vars(r)["id"]})
}

// ToggleFavorite handles POST /api/products/{id}/favorite
func (h *MarketplaceHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	res, err := h.dispatcher.Dispatch(r.Context(), command.ToggleFavoriteCommand{ProductID: mux.Vars(r)["id"]})
	if err != nil {
		respondError(w, r, err)
		return
	}

	msg := "Removed from favorites"
	if res.(*command.ToggleFavoriteResult).Favorite {
		msg = "Added to favorites"
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    res,
	})
}

// ListFavorites handles GET /api/favorites
func (h *MarketplaceHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	h.respondQuery(w, r, query.ListFavoritesQuery{})
}

// ListSellerProducts handles GET /api/users/{id}/products
func (h *MarketplaceHandler) ListSellerProducts(w http.ResponseWriter, r *http.Request) {
	h.respondQuery(w, r, query.ListSellerProductsQuery{SellerID: mux.Vars(r)["id"]})
}

// ListCategories handles GET /api/categories
func (h *MarketplaceHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    domain.Categories(),
	})
}

// GetStats handles GET /api/stats
func (h *MarketplaceHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	res, err := h.dispatcher.Dispatch(r.Context(), query.GetStatsQuery{})
	if err != nil {
		respondError(w, r, err)
		return
	}

	stats := res.(*query.MarketplaceStats)
	h.totalProducts.Set(float64(stats.TotalProducts))

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stats,
	})
}

// HealthCheck handles GET /health
func (h *MarketplaceHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("Health check failed")
		respondJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Store unavailable",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Marketplace is healthy",
	})
}

func (h *MarketplaceHandler) respondQuery(w http.ResponseWriter, r *http.Request, q any) {
	res, err := h.dispatcher.Dispatch(r.Context(), q)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    res,
	})
}

// updateProductsMetric updates the total products gauge
func (h *MarketplaceHandler) updateProductsMetric(ctx context.Context) {
	res, err := h.dispatcher.Dispatch(ctx, query.GetStatsQuery{})
	if err == nil {
		h.totalProducts.Set(float64(res.(*query.MarketplaceStats).TotalProducts))
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return false
	}
	return true
}

// statusFor maps domain and store errors to HTTP status codes
func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()

	if status >= http.StatusInternalServerError {
		logger.WithContext(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("Request failed")
		msg = http.StatusText(status)
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   msg,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
