package domain

import "errors"

// Favorite joins a user to a product they saved
type Favorite struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

// Validate checks the shape of a favorite record read from storage
func (f Favorite) Validate() error {
	if f.ID == "" {
		return errors.New("favorite record without id")
	}
	return nil
}

// Matches reports whether the favorite links userID to productID
func (f Favorite) Matches(userID, productID string) bool {
	return f.UserID == userID && f.ProductID == productID
}
