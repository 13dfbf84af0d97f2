package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreTakeClears(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	require.NoError(t, store.Put(ctx, "a", 42))

	c, ok, err := store.Take(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(42), c)

	// a consumed challenge cannot be used again
	_, ok, err = store.Take(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	require.NoError(t, store.Put(ctx, "a", 1))
	require.NoError(t, store.Put(ctx, "a", 2))
	require.NoError(t, store.Put(ctx, "b", 3))

	c, ok, _ := store.Take(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, uint32(2), c)

	c, ok, _ = store.Take(ctx, "b")
	assert.True(t, ok)
	assert.Equal(t, uint32(3), c)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "old", 1))
	now = now.Add(2 * time.Minute)

	_, ok, err := store.Take(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)

	// expired entries are swept on the next write
	require.NoError(t, store.Put(ctx, "stale", 2))
	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Put(ctx, "fresh", 3))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreConcurrentTake(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	require.NoError(t, store.Put(ctx, "race", 9))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := store.Take(ctx, "race"); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestManagerIssuesAndReusesID(t *testing.T) {
	m := NewManager([]byte("0123456789abcdef0123456789abcdef"), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	id, err := m.ID(w, r)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.AddCookie(cookies[0])
	again, err := m.ID(w, r)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Empty(t, w.Result().Cookies())
}

func TestManagerIgnoresForgedCookie(t *testing.T) {
	m := NewManager([]byte("0123456789abcdef0123456789abcdef"), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: cookieName, Value: "not-signed"})

	id, err := m.ID(w, r)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Len(t, w.Result().Cookies(), 1)
}
