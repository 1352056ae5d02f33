package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/actionkit/pkg/adapters/memory"
	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()
	ports.RunFlashStoreContract(t, store)
}

func TestMemoryStore_ContractWithTTL(t *testing.T) {
	store := memory.NewStore(memory.WithTTL(time.Minute))
	defer store.Close()
	ports.RunFlashStoreContract(t, store)
}

func TestMemoryStore_Expiration(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	store := memory.NewStore(memory.WithTTL(time.Hour), memory.WithClock(clock))
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Push(ctx, "s1", domain.Flash{Kind: "notice", Message: "stale"}))
	require.NoError(t, store.Push(ctx, "s2", domain.Flash{Kind: "notice", Message: "stale too"}))
	advance(2 * time.Hour)

	flashes, err := store.Drain(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, flashes, "expired messages must not be returned")

	store.Sweep()
	assert.Equal(t, 0, store.Len(), "sweep removes expired keys")
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := memory.NewStore(memory.WithTTL(10 * time.Millisecond))
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
