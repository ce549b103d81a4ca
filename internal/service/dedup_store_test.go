package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDedupStore_SetThenExists(t *testing.T) {
	store := NewMemoryDedupStore()
	ctx := context.Background()

	ok, err := store.Exists(ctx, PaymentDedupKey("TX-1"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, PaymentDedupKey("TX-1"), time.Hour))

	ok, err = store.Exists(ctx, PaymentDedupKey("TX-1"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, BookingDedupKey("TX-1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryDedupStore_Expires(t *testing.T) {
	now := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	store := &memoryDedupStore{entries: map[string]time.Time{}, now: func() time.Time { return now }}
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", time.Hour))

	now = now.Add(59 * time.Minute)
	ok, _ := store.Exists(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = store.Exists(ctx, "k")
	assert.False(t, ok)
	assert.Empty(t, store.entries)
}

func TestMemoryDedupStore_ReserveIsExclusive(t *testing.T) {
	store := NewMemoryDedupStore()
	ctx := context.Background()
	key := PaymentDedupKey("TX-2")

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Reserve(ctx, key, time.Minute)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)

	require.NoError(t, store.Release(ctx, key))
	ok, err := store.Reserve(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Set(ctx, key, time.Hour))
	ok, err = store.Reserve(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryDedupStore_ReservationExpires(t *testing.T) {
	now := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	store := &memoryDedupStore{entries: map[string]time.Time{}, now: func() time.Time { return now }}
	ctx := context.Background()

	ok, _ := store.Reserve(ctx, "k", 5*time.Minute)
	require.True(t, ok)

	now = now.Add(5 * time.Minute)
	ok, _ = store.Reserve(ctx, "k", 5*time.Minute)
	assert.True(t, ok)
}

func TestReservationTTL(t *testing.T) {
	assert.Equal(t, maxReservationTTL, reservationTTL(time.Hour))
	assert.Equal(t, time.Minute, reservationTTL(time.Minute))
}

func TestDedupKeys(t *testing.T) {
	assert.Equal(t, "notification:payment:TX-9", PaymentDedupKey("TX-9"))
	assert.Equal(t, "notification:booking:abc", BookingDedupKey("abc"))
}
