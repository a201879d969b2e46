package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// MaxProductImages is the number of images kept per listing
const MaxProductImages = 5

// Product represents a listing in the feed. Products are immutable once stored.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	SellerID    string    `json:"sellerId"`
	Images      []string  `json:"images"`
	Video       *string   `json:"video"`
	CreatedAt   Timestamp `json:"createdAt"`
	PlusCode    string    `json:"plusCode,omitempty"`
}

// ProductDraft carries the fields of a listing before id and creation time are assigned
type ProductDraft struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Location    string
	SellerID    string
	Images      []string
	Video       *string
	PlusCode    string
}

// Validate checks the shape of a product record read from storage.
// A missing images list is coerced to an empty one, so nil and empty images are equivalent.
func (p *Product) Validate() error {
	if p.ID == "" {
		return errors.New("product record without id")
	}
	if p.SellerID == "" {
		return errors.New("product " + p.ID + " without sellerId")
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

// Cover returns the first image of the listing, or "" when there is none
func (p Product) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Timestamp is a creation time that tolerates missing or malformed values.
// Strings are read as RFC 3339, as a zone-less date-time in UTC, or as a date;
// numbers are Unix milliseconds. Anything else decodes to the zero value.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

// NewTimestamp wraps t, normalised to UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// MarshalJSON encodes the zero value as null and everything else as RFC 3339
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON never fails on a bad timestamp
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case string:
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				t.Time = parsed.UTC()
				return nil
			}
		}
	case float64:
		t.Time = time.UnixMilli(int64(v)).UTC()
	}
	return nil
}

// SortKey returns the instant used for recency ordering; zero counts as the epoch
func (t Timestamp) SortKey() time.Time {
	if t.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return t.Time
}
