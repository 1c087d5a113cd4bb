package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "kpi_2025-01-01_2025-01-31", []byte(`{"total":1}`), time.Minute)

	got, ok := store.Get(ctx, "kpi_2025-01-01_2025-01-31")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"total":1}`), got)

	_, ok = store.Get(ctx, "kpi_other")
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "status_all", []byte("1"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := store.Get(ctx, "status_all")
	assert.False(t, ok)
}

func TestMemoryStoreIgnoresNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "kpi_x", []byte("1"), 0)

	_, ok := store.Get(ctx, "kpi_x")
	assert.False(t, ok)
}

func TestMemoryStorePrefixInvalidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "kpi_2025-01-01_2025-01-31", []byte("1"), time.Minute)
	store.Set(ctx, "kpi_2025-02-01_2025-02-28", []byte("2"), time.Minute)
	store.Set(ctx, "yearly_revenue_2025", []byte("3"), time.Minute)
	store.Set(ctx, "unrelated", []byte("4"), time.Minute)

	deleted := store.Invalidate(ctx, "kpi_", "yearly_revenue_")
	assert.Equal(t, 3, deleted)

	_, ok := store.Get(ctx, "kpi_2025-01-01_2025-01-31")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "yearly_revenue_2025")
	assert.False(t, ok)

	got, ok := store.Get(ctx, "unrelated")
	require.True(t, ok)
	assert.Equal(t, []byte("4"), got)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	src := []byte("abc")
	store.Set(ctx, "k", src, time.Minute)
	src[0] = 'z'

	got, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), got)
}
