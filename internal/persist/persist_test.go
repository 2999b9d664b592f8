package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	key := Key("3f2c7c4e-1d8b-4f47-9d55-8f7f0e6f2a10", CartRecord)

	require.NoError(t, store.Put(ctx, key, []byte(`{"items":[]}`)))
	got, err := store.Get(ctx, key)

	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(got))
}

func TestFileStore_KeysStayInsideDirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "../../escape/user-storage", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsDir())
	_, err = os.Stat(filepath.Join(dir, "..", "escape"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_Errors(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	assert.ErrorIs(t, store.Put(ctx, "", nil), ErrInvalidKey)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.Put(cancelled, "k", nil), context.Canceled)
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	_, err := NewFileStore("")

	assert.Error(t, err)
}

// failingStore fails every call with a backend error.
type failingStore struct {
	calls atomic.Int32
	err   error
}

func (s *failingStore) Get(context.Context, string) ([]byte, error) {
	s.calls.Add(1)
	return nil, s.err
}

func (s *failingStore) Put(context.Context, string, []byte) error {
	s.calls.Add(1)
	return s.err
}

func TestBreakerStore_OpensAfterFailures(t *testing.T) {
	backend := &failingStore{err: errors.New("disk full")}
	store := NewBreakerStore("test", backend, BreakerConfig{
		ConsecutiveFailures: 2,
		ErrorRatePercent:    50,
		MaxRequests:         1,
		Timeout:             time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Error(t, store.Put(ctx, "k", []byte("v")))
	}
	assert.False(t, store.Healthy())

	err := store.Put(ctx, "k", []byte("v"))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), backend.calls.Load(), "open breaker must not reach the backend")
	assert.False(t, Healthy(store))
}

func TestBreakerStore_NotFoundIsNotAFailure(t *testing.T) {
	backend := &failingStore{err: ErrNotFound}
	store := NewBreakerStore("test", backend, BreakerConfig{ConsecutiveFailures: 1, Timeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := store.Get(ctx, "k")
		require.ErrorIs(t, err, ErrNotFound)
	}

	assert.True(t, store.Healthy())
	assert.Equal(t, int32(10), backend.calls.Load())
}

func TestBreakerStore_PassesThrough(t *testing.T) {
	store := NewBreakerStore("test", NewMemoryStore(), BreakerConfig{ConsecutiveFailures: 5})
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	got, err := store.Get(ctx, "k")

	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

type cartRecord struct {
	Items []string `json:"items"`
}

func TestSaveLoad(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	key := Key("s1", CartRecord)

	require.NoError(t, Save(ctx, store, key, cartRecord{Items: []string{"1", "2"}}))
	got, ok, err := Load[cartRecord](ctx, store, key)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, got.Items)
}

func TestLoad_Missing(t *testing.T) {
	got, ok, err := Load[cartRecord](context.Background(), NewMemoryStore(), "s1/cart-storage")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got.Items)
}

func TestLoad_Corrupt(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "s1/cart-storage", []byte(`{"items":"nope"`)))

	got, ok, err := Load[cartRecord](ctx, store, "s1/cart-storage")

	assert.ErrorIs(t, err, ErrCorrupt)
	assert.False(t, ok)
	assert.Nil(t, got.Items)
}

func TestLoad_BackendError(t *testing.T) {
	_, _, err := Load[cartRecord](context.Background(), &failingStore{err: errors.New("io")}, "k")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorrupt)
}

func TestOpen(t *testing.T) {
	mem, err := Open(BackendMemory, "", BreakerConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, mem)

	file, err := Open(BackendFile, t.TempDir(), BreakerConfig{ConsecutiveFailures: 3})
	require.NoError(t, err)
	assert.IsType(t, &BreakerStore{}, file)
	assert.True(t, Healthy(file))

	_, err = Open("s3", "", BreakerConfig{})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
