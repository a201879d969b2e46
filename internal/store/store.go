// Package store persists marketplace collections as whole serialized values in a
// key-value backend. Each collection is the unit of atomic replace.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tair/vapt/pkg/logger"
)

// Collection names a persisted collection
type Collection string

// Persisted collections
const (
	Users       Collection = "users"
	Products    Collection = "products"
	Favorites   Collection = "favorites"
	CurrentUser Collection = "currentUser"
)

// Errors returned by the store and its backends
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrKeyNotFound      = errors.New("key not found")
)

// Backend is a byte-oriented key-value medium
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// Validator is implemented by records that can check their own shape after decoding
type Validator interface {
	Validate() error
}

// Store encodes collections as JSON on top of a Backend
type Store struct {
	backend Backend
	newID   func() string
	log     zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithIDGenerator replaces the default UUIDv7 identity generator
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// New creates a store over backend
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		newID:   newUUID,
		log:     logger.Logger.With().Str("component", "store").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewID returns a fresh record identity
func (s *Store) NewID() string {
	return s.newID()
}

// Backend exposes the underlying medium
func (s *Store) Backend() Backend {
	return s.backend
}

// Initialize creates empty users, products and favorites collections and a null
// currentUser slot, leaving any collection that already exists untouched.
func (s *Store) Initialize(ctx context.Context) error {
	defaults := []struct {
		c     Collection
		value []byte
	}{
		{Users, []byte("[]")},
		{Products, []byte("[]")},
		{Favorites, []byte("[]")},
		{CurrentUser, []byte("null")},
	}

	for _, d := range defaults {
		created, err := s.backend.SetIfAbsent(ctx, string(d.c), d.value)
		if err != nil {
			return unavailable("initialize "+string(d.c), err)
		}
		if created {
			s.log.Debug().Str("collection", string(d.c)).Msg("Collection initialized")
		}
	}
	return nil
}

// Ping checks that the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	if err := s.backend.Ping(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) read(ctx context.Context, c Collection) ([]byte, error) {
	raw, err := s.backend.Get(ctx, string(c))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("read "+string(c), err)
	}
	return raw, nil
}

func (s *Store) write(ctx context.Context, c Collection, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c, err)
	}
	if err := s.backend.Set(ctx, string(c), raw); err != nil {
		return unavailable("write "+string(c), err)
	}
	return nil
}

// ReadAll decodes collection c. An uninitialized or null collection yields an empty
// slice. Every call decodes a new slice, so callers may mutate the result freely.
func ReadAll[T any](ctx context.Context, s *Store, c Collection) ([]T, error) {
	raw, err := s.read(ctx, c)
	if err != nil {
		return nil, err
	}
	records := []T{}
	if isEmpty(raw) {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, unavailable("decode "+string(c), err)
	}
	if records == nil {
		records = []T{}
	}
	for i := range records {
		if v, ok := any(&records[i]).(Validator); ok {
			if err := v.Validate(); err != nil {
				return nil, unavailable(fmt.Sprintf("decode %s[%d]", c, i), err)
			}
		}
	}
	return records, nil
}

// WriteAll replaces collection c with records
func WriteAll[T any](ctx context.Context, s *Store, c Collection, records []T) error {
	if records == nil {
		records = []T{}
	}
	return s.write(ctx, c, records)
}

// ReadValue decodes the single-value slot c; nil means absent or null
func ReadValue[T any](ctx context.Context, s *Store, c Collection) (*T, error) {
	raw, err := s.read(ctx, c)
	if err != nil {
		return nil, err
	}
	if isEmpty(raw) {
		return nil, nil
	}
	var value *T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, unavailable("decode "+string(c), err)
	}
	if value != nil {
		if v, ok := any(value).(Validator); ok {
			if err := v.Validate(); err != nil {
				return nil, unavailable("decode "+string(c), err)
			}
		}
	}
	return value, nil
}

// WriteValue stores value in slot c; nil stores null
func WriteValue[T any](ctx context.Context, s *Store, c Collection, value *T) error {
	return s.write(ctx, c, value)
}

func isEmpty(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
