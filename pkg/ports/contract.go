package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFlashStoreContract runs a suite of tests to verify that a FlashStore implementation
// adheres to the defined interface contract.
func RunFlashStoreContract(t *testing.T, store FlashStore) {
	ctx := context.Background()
	key := "contract-test-session-" + time.Now().Format("20060102150405.000000")

	t.Run("Push and Drain", func(t *testing.T) {
		require.NoError(t, store.Push(ctx, key, domain.Flash{Kind: "notice", Message: "first"}))
		require.NoError(t, store.Push(ctx, key, domain.Flash{Kind: "alert", Message: "second"}))

		flashes, err := store.Drain(ctx, key)
		require.NoError(t, err, "Drain should not return error")
		assert.Equal(t, []domain.Flash{
			{Kind: "notice", Message: "first"},
			{Kind: "alert", Message: "second"},
		}, flashes, "Drain must preserve push order")
	})

	t.Run("Drain clears", func(t *testing.T) {
		require.NoError(t, store.Push(ctx, key, domain.Flash{Kind: "notice", Message: "once"}))
		_, err := store.Drain(ctx, key)
		require.NoError(t, err)

		flashes, err := store.Drain(ctx, key)
		require.NoError(t, err)
		assert.Empty(t, flashes, "second Drain must be empty")
	})

	t.Run("Drain Unknown", func(t *testing.T) {
		flashes, err := store.Drain(ctx, "unknown-"+key)
		require.NoError(t, err)
		assert.Empty(t, flashes)
	})

	t.Run("Keys Are Isolated", func(t *testing.T) {
		other := key + "-other"
		require.NoError(t, store.Push(ctx, key, domain.Flash{Kind: "notice", Message: "mine"}))
		require.NoError(t, store.Push(ctx, other, domain.Flash{Kind: "notice", Message: "theirs"}))

		mine, err := store.Drain(ctx, key)
		require.NoError(t, err)
		theirs, err := store.Drain(ctx, other)
		require.NoError(t, err)

		require.Len(t, mine, 1)
		require.Len(t, theirs, 1)
		assert.Equal(t, "mine", mine[0].Message)
		assert.Equal(t, "theirs", theirs[0].Message)
	})
}
