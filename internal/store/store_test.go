package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/vapt/pkg/database"
)

type record struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

func (r record) Validate() error {
	if r.ID == "" {
		return errors.New("missing id")
	}
	return nil
}

type failingBackend struct {
	*MemoryBackend
}

func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func setupBackends(t *testing.T) map[string]Backend {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	sqlBackend := NewSQLBackend(db)
	require.NoError(t, sqlBackend.AutoMigrate())

	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"redis":  NewRedisBackendWithClient(client, "test"),
		"sql":    sqlBackend,
		"traced": NewTracedBackend(NewMemoryBackend(), "memory"),
	}
}

func TestStoreContract(t *testing.T) {
	for name, backend := range setupBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(backend)
			t.Cleanup(func() { s.Close() })

			t.Run("read before initialize is empty", func(t *testing.T) {
				got, err := ReadAll[record](ctx, s, Products)
				require.NoError(t, err)
				assert.NotNil(t, got)
				assert.Empty(t, got)
			})

			t.Run("initialize is idempotent", func(t *testing.T) {
				require.NoError(t, s.Initialize(ctx))
				want := []record{{ID: "1", Tags: []string{"a", "b"}}}
				require.NoError(t, WriteAll(ctx, s, Users, want))

				require.NoError(t, s.Initialize(ctx))

				got, err := ReadAll[record](ctx, s, Users)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			})

			t.Run("round trip keeps nested sequences", func(t *testing.T) {
				want := []record{
					{ID: "p1", Tags: []string{"img1", "img2"}},
					{ID: "p2", Tags: []string{}},
				}
				require.NoError(t, WriteAll(ctx, s, Products, want))

				got, err := ReadAll[record](ctx, s, Products)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			})

			t.Run("reads are independent copies", func(t *testing.T) {
				require.NoError(t, WriteAll(ctx, s, Favorites, []record{{ID: "f1", Tags: []string{"x"}}}))

				first, err := ReadAll[record](ctx, s, Favorites)
				require.NoError(t, err)
				first[0].ID = "mutated"
				first[0].Tags[0] = "mutated"

				second, err := ReadAll[record](ctx, s, Favorites)
				require.NoError(t, err)
				assert.Equal(t, "f1", second[0].ID)
				assert.Equal(t, "x", second[0].Tags[0])
			})

			t.Run("single value slot", func(t *testing.T) {
				got, err := ReadValue[record](ctx, s, CurrentUser)
				require.NoError(t, err)
				assert.Nil(t, got)

				require.NoError(t, WriteValue(ctx, s, CurrentUser, &record{ID: "u1"}))
				got, err = ReadValue[record](ctx, s, CurrentUser)
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, "u1", got.ID)

				require.NoError(t, WriteValue[record](ctx, s, CurrentUser, nil))
				got, err = ReadValue[record](ctx, s, CurrentUser)
				require.NoError(t, err)
				assert.Nil(t, got)
			})

			t.Run("ping", func(t *testing.T) {
				assert.NoError(t, s.Ping(ctx))
			})
		})
	}
}

func TestReadCorruptPayload(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend)

	require.NoError(t, backend.Set(ctx, string(Products), []byte("{not json")))
	_, err := ReadAll[record](ctx, s, Products)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	require.NoError(t, backend.Set(ctx, string(Users), []byte(`[{"id":""}]`)))
	_, err = ReadAll[record](ctx, s, Users)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	require.NoError(t, backend.Set(ctx, string(CurrentUser), []byte(`[1,2]`)))
	_, err = ReadValue[record](ctx, s, CurrentUser)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestReadUnavailableBackend(t *testing.T) {
	s := New(failingBackend{MemoryBackend: NewMemoryBackend()})

	_, err := ReadAll[record](context.Background(), s, Users)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestNewIDIsUniqueAndOverridable(t *testing.T) {
	s := New(NewMemoryBackend())
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := s.NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	fixed := New(NewMemoryBackend(), WithIDGenerator(func() string { return "fixed" }))
	assert.Equal(t, "fixed", fixed.NewID())
}

func TestRedisKeysArePrefixed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(NewRedisBackendWithClient(client, "shop"))

	require.NoError(t, s.Initialize(context.Background()))

	v, err := mr.Get("shop:users")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
	v, err = mr.Get("shop:currentUser")
	require.NoError(t, err)
	assert.Equal(t, "null", v)
}
