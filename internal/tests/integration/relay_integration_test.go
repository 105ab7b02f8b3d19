package integration

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/internal/tests"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountResolver"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountSigner"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore/memory"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/config"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/contractCaller/caller"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/digest"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/logger"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/relay"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/transactionSigner"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider/localSigner"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_OnChainRelay runs the whole relay flow against a real anvil node with
// the factory contract deployed: counterfactual deployment, digest issuance
// with the contract cross-check on, signing, relayed execution and replay
// rejection. Requires anvil on PATH and a provisioned state dump; see
// internal/testData/chain-config.json.
func Test_OnChainRelay(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping end-to-end integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	root := tests.GetProjectRootPath()
	chainConfig, err := tests.ReadChainConfig(root)
	if err != nil {
		t.Skipf("chain config not provisioned, skipping: %v", err)
	}

	t.Log("Starting anvil from provisioned state...")
	_ = tests.KillallAnvils()

	anvil, err := tests.StartStateAnvil(root, ctx, chainConfig)
	require.NoError(t, err)
	defer func() {
		t.Log("Cleaning up anvil...")
		if err := tests.KillAnvil(anvil); err != nil {
			t.Logf("Warning: failed to kill anvil: %v", err)
		}
		_ = tests.KillallAnvils()
	}()

	rpcUrl := fmt.Sprintf("http://localhost:%s", chainConfig.PortNumber)
	ethClient, err := ethclient.DialContext(ctx, rpcUrl)
	require.NoError(t, err)
	defer ethClient.Close()

	chainId, ok := new(big.Int).SetString(chainConfig.ChainId, 10)
	require.True(t, ok, "invalid chain id in chain config")

	// ------------------------------------------------------------------------
	// Wire the relay stack against the real chain
	// ------------------------------------------------------------------------
	signer, err := transactionSigner.NewTransactionSigner(&config.RelayerKeyConfig{
		Source:     config.KeySourcePrivateKey,
		PrivateKey: chainConfig.RelayerAccountPk,
	}, ethClient, l)
	require.NoError(t, err)
	t.Logf("Relayer address: %s", signer.GetFromAddress().Hex())

	contractCaller, err := caller.NewContractCaller(ethClient, signer, common.HexToAddress(chainConfig.FactoryAddress), l)
	require.NoError(t, err)

	store := memory.NewMemoryAccountStore()
	resolver, err := accountResolver.NewSmartAccountResolver(contractCaller, store, 2*time.Minute, l)
	require.NoError(t, err)

	executor, err := relay.NewRelayExecutor(&relay.ExecutorConfig{
		ChainID:          chainId,
		ReceiptTimeout:   time.Minute,
		DigestCrossCheck: true,
	}, contractCaller, resolver, store, l)
	require.NoError(t, err)

	ownerKey, err := crypto.HexToECDSA(strings.TrimPrefix(chainConfig.OwnerAccountPk, "0x"))
	require.NoError(t, err)
	owner := crypto.PubkeyToAddress(ownerKey.PublicKey)

	provider, err := localSigner.NewLocalSigner(&localSigner.LocalSignerConfig{PrivateKey: ownerKey, Logger: l})
	require.NoError(t, err)
	acquirer, err := accountSigner.NewAcquirer(&accountSigner.AcquirerConfig{Provider: provider, Logger: l})
	require.NoError(t, err)

	calls := types.CallBatch{{
		To:    common.HexToAddress("0x000000000000000000000000000000000000dEaD"),
		Value: big.NewInt(0),
		Data:  nil,
	}}

	// ------------------------------------------------------------------------
	// Digest issuance deploys the smart account and cross-checks the digest
	// against the deployed contract's own hash view
	// ------------------------------------------------------------------------
	t.Logf("Requesting digest for owner %s", owner.Hex())
	digestResp, err := executor.GetDigestToSign(ctx, owner, calls)
	require.NoError(t, err)
	require.Equal(t, int64(0), (*big.Int)(digestResp.Nonce).Int64())
	t.Logf("Smart account deployed at %s", digestResp.SmartAccountAddress.Hex())

	code, err := ethClient.CodeAt(ctx, digestResp.SmartAccountAddress, nil)
	require.NoError(t, err)
	require.NotEmpty(t, code, "smart account has no bytecode after resolution")

	// ------------------------------------------------------------------------
	// Sign locally and relay
	// ------------------------------------------------------------------------
	payload, err := digest.BuildPayload(chainId, digestResp.SmartAccountAddress, calls, (*big.Int)(digestResp.Nonce))
	require.NoError(t, err)
	require.Equal(t, digestResp.Digest, payload.Digest)

	auth, err := acquirer.AcquireSignature(ctx, payload)
	require.NoError(t, err)

	request := &types.RelayRequest{
		Owner:     owner,
		Calls:     calls,
		Signature: auth.Signature,
		Scheme:    auth.Scheme,
		Nonce:     digestResp.Nonce,
	}
	relayResp, err := executor.SubmitRelay(ctx, request)
	require.NoError(t, err)
	t.Logf("Relayed in transaction %s", relayResp.TransactionHash.Hex())

	receipt, err := ethClient.TransactionReceipt(ctx, relayResp.TransactionHash)
	require.NoError(t, err)
	require.Equal(t, ethereumTypes.ReceiptStatusSuccessful, receipt.Status)

	nonce, err := contractCaller.GetAccountNonce(ctx, digestResp.SmartAccountAddress)
	require.NoError(t, err)
	assert.Equal(t, int64(1), nonce.Int64(), "account nonce did not advance")

	// ------------------------------------------------------------------------
	// Replaying the consumed authorization must be rejected before execution
	// ------------------------------------------------------------------------
	_, err = executor.SubmitRelay(ctx, request)
	require.Error(t, err)
	assert.Equal(t, types.KindStaleNonce, types.KindOf(err))
}
