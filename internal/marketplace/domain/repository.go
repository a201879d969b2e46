package domain

import "context"

// Repository is the only writer of marketplace collections.
//
// Lookups return ok=false for a missing id instead of an error. AddUser does not
// enforce email uniqueness and AddFavorite does not enforce pair uniqueness; both
// checks belong to the caller. ToggleFavorite is atomic and keeps at most one
// favorite per pair.
type Repository interface {
	AddUser(ctx context.Context, draft UserDraft) (User, error)
	AddProduct(ctx context.Context, draft ProductDraft) (Product, error)
	AddFavorite(ctx context.Context, userID, productID string) (Favorite, error)
	AddFavoriteUnique(ctx context.Context, userID, productID string) (Favorite, error)
	RemoveFavorite(ctx context.Context, userID, productID string) error
	ToggleFavorite(ctx context.Context, userID, productID string) (bool, error)
	IsFavorite(ctx context.Context, userID, productID string) (bool, error)
	GetUserFavorites(ctx context.Context, userID string) ([]Product, error)

	GetUserByID(ctx context.Context, id string) (User, bool, error)
	GetProductByID(ctx context.Context, id string) (Product, bool, error)
	FindUserByEmail(ctx context.Context, email string) (User, bool, error)
	FindUserByLogin(ctx context.Context, identifier, password string) (User, bool, error)

	ListUsers(ctx context.Context) ([]User, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListProductsBySeller(ctx context.Context, sellerID string) ([]Product, error)
	ListFavorites(ctx context.Context) ([]Favorite, error)

	GetCurrentUser(ctx context.Context) (*User, error)
	SetCurrentUser(ctx context.Context, user *User) error
}
