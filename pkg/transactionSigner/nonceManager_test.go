package transactionSigner

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceManagerIncrementOnSubmit(t *testing.T) {
	nm := newNonceManager()
	fetches := 0
	fetch := func(ctx context.Context) (uint64, error) {
		fetches++
		return 10, nil
	}

	for i := 0; i < 3; i++ {
		nonce, err := nm.reserve(context.Background(), fetch)
		require.NoError(t, err)
		assert.Equal(t, uint64(10+i), nonce)
		nm.submitted()
	}
	assert.Equal(t, 1, fetches)
}

func TestNonceManagerAbandonInvalidatesCache(t *testing.T) {
	nm := newNonceManager()
	next := uint64(10)
	fetches := 0
	fetch := func(ctx context.Context) (uint64, error) {
		fetches++
		return next, nil
	}

	nonce, err := nm.reserve(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), nonce)
	nm.abandon()

	// A failed submission may or may not have reached the network, so the
	// next reservation must ask the backend again.
	next = 11
	nonce, err = nm.reserve(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), nonce)
	nm.submitted()

	assert.Equal(t, 2, fetches)
}

func TestNonceManagerFetchErrorReleasesLock(t *testing.T) {
	nm := newNonceManager()

	_, err := nm.reserve(context.Background(), func(ctx context.Context) (uint64, error) {
		return 0, fmt.Errorf("backend unavailable")
	})
	require.Error(t, err)

	// The failed reservation must not leave the manager locked.
	nonce, err := nm.reserve(context.Background(), func(ctx context.Context) (uint64, error) {
		return 5, nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), nonce)
	nm.submitted()
}
