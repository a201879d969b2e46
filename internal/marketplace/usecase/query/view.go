package query

import (
	"context"
	"fmt"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/favorites"
)

// UserView is a user without credentials
type UserView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Photo    string `json:"photo"`
}

// NewUserView strips the password from u
func NewUserView(u domain.User) UserView {
	return UserView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Location: u.Location,
		Photo:    u.Photo,
	}
}

// ProductView is a product annotated for display. Seller is nil when the
// seller record no longer exists.
type ProductView struct {
	domain.Product
	CategoryLabel string    `json:"categoryLabel"`
	Seller        *UserView `json:"seller"`
	Favorite      bool      `json:"favorite"`
}

// annotator resolves sellers and favorite flags against one snapshot
type annotator struct {
	users   map[string]domain.User
	favored map[string]bool
}

func newAnnotator(ctx context.Context, repo domain.Repository, viewer *domain.User) (*annotator, error) {
	users, err := repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	a := &annotator{users: make(map[string]domain.User, len(users)), favored: map[string]bool{}}
	for _, u := range users {
		a.users[u.ID] = u
	}

	if viewer != nil {
		favs, err := repo.ListFavorites(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list favorites: %w", err)
		}
		a.favored = favorites.Build(favs, nil).FavoritedProductIDs(viewer.ID)
	}
	return a, nil
}

func (a *annotator) view(p domain.Product) ProductView {
	v := ProductView{
		Product:       p,
		CategoryLabel: domain.CategoryLabel(p.Category),
		Favorite:      a.favored[p.ID],
	}
	if seller, ok := a.users[p.SellerID]; ok {
		sv := NewUserView(seller)
		v.Seller = &sv
	}
	return v
}

func (a *annotator) views(products []domain.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, a.view(p))
	}
	return out
}
