package testutil

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountResolver"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/relay"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevKeysAreStable(t *testing.T) {
	_, owner0 := DevOwner(t, 0)
	_, owner1 := DevOwner(t, 1)

	// Anvil's first two dev accounts.
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", owner0.Hex())
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", owner1.Hex())

	key := DevKey(t, 0)
	assert.Equal(t, owner0, crypto.PubkeyToAddress(key.PublicKey))
}

func TestHarnessServesHealth(t *testing.T) {
	harness := NewTestRelayServer(t)

	resp, err := http.Get(harness.URL + "/v1/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health types.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, harness.Caller.GetRelayerAddress().Hex(), health.RelayerAddress)
}

func TestHarnessExposesChainState(t *testing.T) {
	harness := NewTestRelayServer(t)
	ctx := context.Background()

	_, owner := DevOwner(t, 0)

	// Arrange a deployed account directly on the simulated chain.
	account := harness.Caller.DeriveAccountAddress(owner, accountResolver.SaltForOwner(owner))
	harness.Caller.SetAccount(account, owner, 3)

	resp, err := harness.Executor.DescribeAccount(ctx, owner)
	require.NoError(t, err)
	assert.True(t, resp.Deployed)
	assert.Equal(t, account, resp.SmartAccountAddress)
	// The store has never seen this account, so no nonce is cached.
	assert.Nil(t, resp.CachedNonce)

	nonce, err := harness.Caller.GetAccountNonce(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, int64(3), nonce.Int64())
}

func TestHarnessConfigOverride(t *testing.T) {
	harness := NewTestRelayServerWithConfig(t, &HarnessConfig{
		ExecutorConfig: &relay.ExecutorConfig{
			ChainID:        big.NewInt(1),
			ReceiptTimeout: time.Second,
		},
	})

	_, owner := DevOwner(t, 1)
	digest, err := harness.Executor.GetDigestToSign(context.Background(), owner, types.CallBatch{{
		To: owner, Value: big.NewInt(1),
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), (*big.Int)(digest.ChainID).Int64())
}
