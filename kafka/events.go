package kafka

import "time"

// Event represents a marketplace domain event
type Event struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id,omitempty"`
	ProductID string    `json:"product_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeUserRegistered  = "user.registered"
	EventTypeUserLoggedIn    = "user.logged_in"
	EventTypeUserLoggedOut   = "user.logged_out"
	EventTypeProductListed   = "product.listed"
	EventTypeFavoriteAdded   = "favorite.added"
	EventTypeFavoriteRemoved = "favorite.removed"
)

// Kafka topics
const (
	TopicMarketplaceEvents = "marketplace-events"
)

// Key partitions events by the product when there is one, otherwise by user
func (e Event) Key() string {
	if e.ProductID != "" {
		return "product_" + e.ProductID
	}
	return "user_" + e.UserID
}
