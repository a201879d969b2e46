package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/vapt/internal/marketplace/domain"
)

var tracer = otel.Tracer("marketplace-repository")

// TracedRepository wraps a domain.Repository with a span per operation
type TracedRepository struct {
	next domain.Repository
}

var _ domain.Repository = (*TracedRepository)(nil)

// NewTracedRepository wraps next with tracing
func NewTracedRepository(next domain.Repository) *TracedRepository {
	return &TracedRepository{next: next}
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *TracedRepository) AddUser(ctx context.Context, draft domain.UserDraft) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.AddUser",
		trace.WithAttributes(attribute.String("user.location", draft.Location)),
	)
	user, err := r.next.AddUser(ctx, draft)
	if err == nil {
		span.SetAttributes(attribute.String("user.id", user.ID))
	}
	finish(span, err)
	return user, err
}

func (r *TracedRepository) AddProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.AddProduct",
		trace.WithAttributes(
			attribute.String("product.name", draft.Name),
			attribute.String("product.category", draft.Category),
			attribute.Float64("product.price", draft.Price),
			attribute.String("product.seller_id", draft.SellerID),
			attribute.Int("product.images", len(draft.Images)),
		),
	)
	product, err := r.next.AddProduct(ctx, draft)
	if err == nil {
		span.SetAttributes(attribute.String("product.id", product.ID))
	}
	finish(span, err)
	return product, err
}

func favoriteAttrs(userID, productID string) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("product.id", productID),
	)
}

func (r *TracedRepository) AddFavorite(ctx context.Context, userID, productID string) (domain.Favorite, error) {
	ctx, span := tracer.Start(ctx, "repository.AddFavorite", favoriteAttrs(userID, productID))
	fav, err := r.next.AddFavorite(ctx, userID, productID)
	finish(span, err)
	return fav, err
}

func (r *TracedRepository) AddFavoriteUnique(ctx context.Context, userID, productID string) (domain.Favorite, error) {
	ctx, span := tracer.Start(ctx, "repository.AddFavoriteUnique", favoriteAttrs(userID, productID))
	fav, err := r.next.AddFavoriteUnique(ctx, userID, productID)
	finish(span, err)
	return fav, err
}

func (r *TracedRepository) RemoveFavorite(ctx context.Context, userID, productID string) error {
	ctx, span := tracer.Start(ctx, "repository.RemoveFavorite", favoriteAttrs(userID, productID))
	err := r.next.RemoveFavorite(ctx, userID, productID)
	finish(span, err)
	return err
}

func (r *TracedRepository) ToggleFavorite(ctx context.Context, userID, productID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "repository.ToggleFavorite", favoriteAttrs(userID, productID))
	fav, err := r.next.ToggleFavorite(ctx, userID, productID)
	if err == nil {
		span.SetAttributes(attribute.Bool("favorite.active", fav))
	}
	finish(span, err)
	return fav, err
}

func (r *TracedRepository) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "repository.IsFavorite", favoriteAttrs(userID, productID))
	ok, err := r.next.IsFavorite(ctx, userID, productID)
	span.SetAttributes(attribute.Bool("favorite.exists", ok))
	finish(span, err)
	return ok, err
}

func (r *TracedRepository) GetUserFavorites(ctx context.Context, userID string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.GetUserFavorites",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	products, err := r.next.GetUserFavorites(ctx, userID)
	span.SetAttributes(attribute.Int("result.count", len(products)))
	finish(span, err)
	return products, err
}

func (r *TracedRepository) GetUserByID(ctx context.Context, id string) (domain.User, bool, error) {
	ctx, span := tracer.Start(ctx, "repository.GetUserByID",
		trace.WithAttributes(attribute.String("user.id", id)),
	)
	user, ok, err := r.next.GetUserByID(ctx, id)
	span.SetAttributes(attribute.Bool("result.found", ok))
	finish(span, err)
	return user, ok, err
}

func (r *TracedRepository) GetProductByID(ctx context.Context, id string) (domain.Product, bool, error) {
	ctx, span := tracer.Start(ctx, "repository.GetProductByID",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	product, ok, err := r.next.GetProductByID(ctx, id)
	span.SetAttributes(attribute.Bool("result.found", ok))
	finish(span, err)
	return product, ok, err
}

func (r *TracedRepository) FindUserByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	ctx, span := tracer.Start(ctx, "repository.FindUserByEmail")
	user, ok, err := r.next.FindUserByEmail(ctx, email)
	span.SetAttributes(attribute.Bool("result.found", ok))
	finish(span, err)
	return user, ok, err
}

func (r *TracedRepository) FindUserByLogin(ctx context.Context, identifier, password string) (domain.User, bool, error) {
	ctx, span := tracer.Start(ctx, "repository.FindUserByLogin")
	user, ok, err := r.next.FindUserByLogin(ctx, identifier, password)
	span.SetAttributes(attribute.Bool("result.found", ok))
	finish(span, err)
	return user, ok, err
}

func (r *TracedRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.ListUsers")
	users, err := r.next.ListUsers(ctx)
	span.SetAttributes(attribute.Int("result.count", len(users)))
	finish(span, err)
	return users, err
}

func (r *TracedRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.ListProducts")
	products, err := r.next.ListProducts(ctx)
	span.SetAttributes(attribute.Int("result.count", len(products)))
	finish(span, err)
	return products, err
}

func (r *TracedRepository) ListProductsBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.ListProductsBySeller",
		trace.WithAttributes(attribute.String("seller.id", sellerID)),
	)
	products, err := r.next.ListProductsBySeller(ctx, sellerID)
	span.SetAttributes(attribute.Int("result.count", len(products)))
	finish(span, err)
	return products, err
}

func (r *TracedRepository) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	ctx, span := tracer.Start(ctx, "repository.ListFavorites")
	favs, err := r.next.ListFavorites(ctx)
	span.SetAttributes(attribute.Int("result.count", len(favs)))
	finish(span, err)
	return favs, err
}

func (r *TracedRepository) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.GetCurrentUser")
	user, err := r.next.GetCurrentUser(ctx)
	span.SetAttributes(attribute.Bool("session.active", user != nil))
	finish(span, err)
	return user, err
}

func (r *TracedRepository) SetCurrentUser(ctx context.Context, user *domain.User) error {
	ctx, span := tracer.Start(ctx, "repository.SetCurrentUser",
		trace.WithAttributes(attribute.Bool("session.active", user != nil)),
	)
	err := r.next.SetCurrentUser(ctx, user)
	finish(span, err)
	return err
}
