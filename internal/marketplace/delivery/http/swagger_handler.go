package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Register godoc
// @Summary Register a user
// @Description Create an account and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,phone=string,location=string,password=string,confirmPassword=string,photo=string} true "Registration data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/auth/register [post]
func (h *MarketplaceHandler) RegisterDoc() {}

// Login godoc
// @Summary Log in
// @Description Log in with email or phone and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{identifier=string,password=string} true "Credentials"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/auth/login [post]
func (h *MarketplaceHandler) LoginDoc() {}

// Logout godoc
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Router /api/auth/logout [post]
func (h *MarketplaceHandler) LogoutDoc() {}

// GetSession godoc
// @Summary Current session
// @Tags Auth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{loggedIn=bool,user=object,favorites=int}}
// @Router /api/auth/session [get]
func (h *MarketplaceHandler) GetSessionDoc() {}

// ListFeed godoc
// @Summary List the product feed
// @Description Filter and order products. All criteria are combined.
// @Tags Products
// @Produce json
// @Param search query string false "Text in name or description"
// @Param category query string false "Category id"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param location query string false "Text in location"
// @Param near query string false "Plus code or lat,lng"
// @Param distance query number false "Radius in km"
// @Param sort query string false "recent, price-low or price-high"
// @Success 200 {object} object{success=bool,data=object{products=array,count=int,filtered=bool}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/products [get]
func (h *MarketplaceHandler) ListFeedDoc() {}

// CreateListing godoc
// @Summary List a product
// @Description List a product as the session user
// @Tags Products
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,price=number,category=string,location=string,images=[]string,video=string,plusCode=string} true "Product data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/products [post]
func (h *MarketplaceHandler) CreateListingDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *MarketplaceHandler) GetProductDoc() {}

// ToggleFavorite godoc
// @Summary Toggle favorite
// @Tags Favorites
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,message=string,data=object{userId=string,productId=string,favorite=bool}}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id}/favorite [post]
func (h *MarketplaceHandler) ToggleFavoriteDoc() {}

// ListFavorites godoc
// @Summary List favorites of the session user
// @Tags Favorites
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/favorites [get]
func (h *MarketplaceHandler) ListFavoritesDoc() {}

// ListSellerProducts godoc
// @Summary Seller profile
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} object{success=bool,data=object{seller=object,products=array}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/users/{id}/products [get]
func (h *MarketplaceHandler) ListSellerProductsDoc() {}

// ListCategories godoc
// @Summary List categories
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/categories [get]
func (h *MarketplaceHandler) ListCategoriesDoc() {}

// GetStats godoc
// @Summary Marketplace statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/stats [get]
func (h *MarketplaceHandler) GetStatsDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and store connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *MarketplaceHandler) HealthCheckDoc() {}
