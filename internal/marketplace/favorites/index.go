// Package favorites derives the user/product favorite relation from the stored
// favorites and products. An Index is built per request and never cached.
package favorites

import "github.com/tair/vapt/internal/marketplace/domain"

type pair struct {
	userID    string
	productID string
}

// Index answers membership and per-user listing questions
type Index struct {
	members  map[pair]int
	byUser   map[string][]string
	products map[string]domain.Product
}

// Build indexes favs against products. Favorites pointing at unknown products are
// kept for membership but skipped when listing products.
func Build(favs []domain.Favorite, products []domain.Product) *Index {
	idx := &Index{
		members:  make(map[pair]int, len(favs)),
		byUser:   make(map[string][]string),
		products: make(map[string]domain.Product, len(products)),
	}
	for _, p := range products {
		if _, dup := idx.products[p.ID]; !dup {
			idx.products[p.ID] = p
		}
	}
	for _, f := range favs {
		idx.members[pair{f.UserID, f.ProductID}]++
		idx.byUser[f.UserID] = append(idx.byUser[f.UserID], f.ProductID)
	}
	return idx
}

// Contains reports whether at least one favorite links userID to productID
func (i *Index) Contains(userID, productID string) bool {
	return i.members[pair{userID, productID}] > 0
}

// ProductsFor lists the products userID favorited, in favorite order.
// Duplicate favorites yield the product once per record.
func (i *Index) ProductsFor(userID string) []domain.Product {
	ids := i.byUser[userID]
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := i.products[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CountFor returns how many favorites of userID resolve to an existing product
func (i *Index) CountFor(userID string) int {
	n := 0
	for _, id := range i.byUser[userID] {
		if _, ok := i.products[id]; ok {
			n++
		}
	}
	return n
}

// FavoritedProductIDs returns the set of product ids userID favorited
func (i *Index) FavoritedProductIDs(userID string) map[string]bool {
	set := make(map[string]bool, len(i.byUser[userID]))
	for _, id := range i.byUser[userID] {
		set[id] = true
	}
	return set
}
