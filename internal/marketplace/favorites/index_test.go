package favorites

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tair/vapt/internal/marketplace/domain"
)

func TestIndex(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Name: "Sofá"},
		{ID: "p2", Name: "Bike"},
	}
	favs := []domain.Favorite{
		{ID: "f1", UserID: "u1", ProductID: "p2"},
		{ID: "f2", UserID: "u1", ProductID: "ghost"},
		{ID: "f3", UserID: "u1", ProductID: "p1"},
		{ID: "f4", UserID: "u2", ProductID: "p1"},
	}

	idx := Build(favs, products)

	t.Run("membership", func(t *testing.T) {
		assert.True(t, idx.Contains("u1", "p1"))
		assert.True(t, idx.Contains("u1", "ghost"))
		assert.False(t, idx.Contains("u2", "p2"))
		assert.False(t, idx.Contains("nobody", "p1"))
	})

	t.Run("listing skips dangling references and keeps order", func(t *testing.T) {
		got := idx.ProductsFor("u1")
		assert.Equal(t, []string{"p2", "p1"}, ids(got))
		assert.Equal(t, 2, idx.CountFor("u1"))
	})

	t.Run("unknown user has no favorites", func(t *testing.T) {
		assert.Empty(t, idx.ProductsFor("nobody"))
		assert.NotNil(t, idx.ProductsFor("nobody"))
	})

	t.Run("favorited ids", func(t *testing.T) {
		assert.Equal(t, map[string]bool{"p2": true, "ghost": true, "p1": true}, idx.FavoritedProductIDs("u1"))
	})
}

func TestIndexDuplicateFavorites(t *testing.T) {
	products := []domain.Product{{ID: "p1"}}
	favs := []domain.Favorite{
		{ID: "f1", UserID: "u1", ProductID: "p1"},
		{ID: "f2", UserID: "u1", ProductID: "p1"},
	}

	idx := Build(favs, products)
	assert.Len(t, idx.ProductsFor("u1"), 2)
	assert.Equal(t, 2, idx.CountFor("u1"))
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
