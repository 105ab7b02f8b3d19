package relay

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountResolver"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/config"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/contractCaller"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/digest"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/verifier"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// ExecutorConfig carries the operational knobs for the executor. The server
// entry point fills it from RelayServerConfig.
type ExecutorConfig struct {
	ChainID          *big.Int
	ReceiptTimeout   time.Duration
	DigestCrossCheck bool
	RateLimit        config.RateLimitConfig
}

// RelayExecutor implements the two relay operations: fixing a digest and
// nonce for an owner to sign, and executing a signed authorization through
// the owner's smart account with gas paid by the relayer. The signature is
// the sole authorization check.
type RelayExecutor struct {
	logger           *zap.Logger
	caller           contractCaller.IContractCaller
	resolver         accountResolver.IAccountResolver
	store            accountStore.IAccountStore
	chainID          *big.Int
	receiptTimeout   time.Duration
	digestCrossCheck bool
	locks            *accountLocks
	limiters         *ownerLimiters
}

func NewRelayExecutor(
	cfg *ExecutorConfig,
	caller contractCaller.IContractCaller,
	resolver accountResolver.IAccountResolver,
	store accountStore.IAccountStore,
	logger *zap.Logger,
) (*RelayExecutor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.ChainID == nil {
		return nil, fmt.Errorf("chain ID cannot be nil")
	}
	if cfg.ReceiptTimeout <= 0 {
		return nil, fmt.Errorf("receipt timeout must be positive")
	}
	if caller == nil {
		return nil, fmt.Errorf("contract caller cannot be nil")
	}
	if resolver == nil {
		return nil, fmt.Errorf("account resolver cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("account store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &RelayExecutor{
		logger:           logger,
		caller:           caller,
		resolver:         resolver,
		store:            store,
		chainID:          new(big.Int).Set(cfg.ChainID),
		receiptTimeout:   cfg.ReceiptTimeout,
		digestCrossCheck: cfg.DigestCrossCheck,
		locks:            newAccountLocks(),
		limiters:         newOwnerLimiters(cfg.RateLimit),
	}, nil
}

// GetDigestToSign resolves the owner's smart account and fixes the digest and
// nonce for one authorization. The nonce is read live from the chain so the
// issued digest matches what the contract will verify at submission; the same
// nonce must travel with the signed request.
func (e *RelayExecutor) GetDigestToSign(ctx context.Context, owner common.Address, calls types.CallBatch) (*types.DigestResponse, error) {
	if err := calls.Validate(); err != nil {
		return nil, err
	}

	record, err := e.resolver.Resolve(ctx, owner)
	if err != nil {
		return nil, err
	}

	nonce, err := e.caller.GetAccountNonce(ctx, record.SmartAccount)
	if err != nil {
		return nil, types.NewResolutionError("GetDigestToSign", fmt.Errorf("failed to read account nonce: %w", err))
	}
	e.cacheNonce(record.SmartAccount, nonce)

	payload, err := digest.BuildPayload(e.chainID, record.SmartAccount, calls, nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to build signing payload: %w", err)
	}

	if e.digestCrossCheck {
		if err := e.crossCheckDigest(ctx, payload); err != nil {
			return nil, err
		}
	}

	e.logger.Sugar().Infow("Issued digest",
		"owner", owner.Hex(),
		"account", record.SmartAccount.Hex(),
		"nonce", nonce.String(),
		"digest", payload.Digest.Hex(),
	)

	return &types.DigestResponse{
		Digest:              payload.Digest,
		Nonce:               (*hexutil.Big)(nonce),
		SmartAccountAddress: record.SmartAccount,
		ChainID:             (*hexutil.Big)(new(big.Int).Set(e.chainID)),
	}, nil
}

// SubmitRelay verifies a signed authorization and executes it through the
// owner's smart account. Verification happens before anything is submitted;
// a request that fails it never costs the relayer gas.
func (e *RelayExecutor) SubmitRelay(ctx context.Context, request *types.RelayRequest) (*types.RelayResponse, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	if err := request.Calls.Validate(); err != nil {
		return nil, err
	}
	if !request.Scheme.Valid() {
		return nil, fmt.Errorf("unknown signing scheme %q", request.Scheme)
	}
	if len(request.Signature) != crypto.SignatureLength {
		return nil, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(request.Signature))
	}

	// Relayer gas is the protected resource, so the limiter runs before any
	// chain work.
	if !e.limiters.allow(request.Owner) {
		e.logger.Sugar().Warnw("Rejected relay request over rate limit", "owner", request.Owner.Hex())
		return nil, types.NewRateLimitedError("SubmitRelay")
	}

	record, err := e.resolver.Resolve(ctx, request.Owner)
	if err != nil {
		return nil, err
	}
	account := record.SmartAccount

	// Losing a nonce race on-chain still reverts deterministically; the lock
	// only avoids burning relayer gas on predictable reverts.
	unlock := e.locks.lock(account)
	defer unlock()

	nonce := (*big.Int)(request.Nonce)
	var liveNonce *big.Int
	if nonce == nil {
		liveNonce, err = e.caller.GetAccountNonce(ctx, account)
		if err != nil {
			return nil, types.NewResolutionError("SubmitRelay", fmt.Errorf("failed to read account nonce: %w", err))
		}
		nonce = liveNonce
	}

	payload, err := digest.BuildPayload(e.chainID, account, request.Calls, nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to build signing payload: %w", err)
	}

	if err := verifier.Verify(payload, request.Signature, request.Scheme, request.Owner); err != nil {
		e.logger.Sugar().Warnw("Rejected relay request with invalid signature",
			"owner", request.Owner.Hex(),
			"account", account.Hex(),
			"scheme", string(request.Scheme),
		)
		return nil, err
	}

	// Fail fast on nonces the contract will deterministically reject.
	if liveNonce == nil {
		liveNonce, err = e.caller.GetAccountNonce(ctx, account)
		if err != nil {
			return nil, types.NewResolutionError("SubmitRelay", fmt.Errorf("failed to read account nonce: %w", err))
		}
	}
	e.cacheNonce(account, liveNonce)
	if nonce.Cmp(liveNonce) != 0 {
		return nil, types.NewStaleNonceError("SubmitRelay", "",
			fmt.Errorf("provided nonce %s does not match account nonce %s", nonce.String(), liveNonce.String()))
	}

	receipt, err := e.execute(ctx, account, request.Calls, request.Signature)
	if err != nil {
		return nil, e.classifySubmission(err)
	}

	logFields := []interface{}{
		"owner", request.Owner.Hex(),
		"account", account.Hex(),
		"transactionHash", receipt.TxHash.Hex(),
		"gasUsed", receipt.GasUsed,
	}
	if executedNonce, ok := e.caller.ExecutedNonceFromReceipt(account, receipt); ok {
		logFields = append(logFields, "nonce", executedNonce.String())
	}
	e.logger.Sugar().Infow("Relay confirmed", logFields...)

	// The on-chain nonce advanced, so the cached value is now wrong.
	if invErr := e.store.InvalidateNonce(account); invErr != nil {
		e.logger.Sugar().Warnw("Failed to invalidate cached nonce",
			"account", account.Hex(),
			"error", invErr,
		)
	}

	return &types.RelayResponse{
		TransactionHash:     receipt.TxHash,
		SmartAccountAddress: account,
	}, nil
}

// DescribeAccount reports an owner's smart account without deploying it.
// Reads come from the store when possible, else from the chain; the endpoint
// behind this stays side-effect free.
func (e *RelayExecutor) DescribeAccount(ctx context.Context, owner common.Address) (*types.AccountResponse, error) {
	if owner == (common.Address{}) {
		return nil, fmt.Errorf("owner address cannot be the zero address")
	}

	record, err := e.store.GetAccount(owner)
	if err != nil {
		e.logger.Sugar().Warnw("Account store read failed, describing from chain",
			"owner", owner.Hex(),
			"error", err,
		)
	}
	if record != nil {
		return &types.AccountResponse{
			Owner:               record.Owner,
			SmartAccountAddress: record.SmartAccount,
			Deployed:            record.Deployed,
			CachedNonce:         (*hexutil.Big)(record.CachedNonce),
		}, nil
	}

	account, err := e.caller.GetDeterministicAccountAddress(ctx, owner, accountResolver.SaltForOwner(owner))
	if err != nil {
		return nil, types.NewResolutionError("DescribeAccount", fmt.Errorf("factory address lookup failed: %w", err))
	}
	deployed, err := e.caller.IsDeployed(ctx, account)
	if err != nil {
		return nil, types.NewResolutionError("DescribeAccount", fmt.Errorf("bytecode check failed: %w", err))
	}

	return &types.AccountResponse{
		Owner:               owner,
		SmartAccountAddress: account,
		Deployed:            deployed,
	}, nil
}

// crossCheckDigest refuses to issue a digest whose packed form the deployed
// contract does not reproduce, catching encoding drift between this code and
// the contract.
func (e *RelayExecutor) crossCheckDigest(ctx context.Context, payload *types.SigningPayload) error {
	var (
		onChain [32]byte
		err     error
	)
	if payload.Calls.Single() {
		onChain, err = e.caller.GetTransactionHash(ctx, payload.SmartAccount, payload.Calls[0], payload.Nonce)
	} else {
		onChain, err = e.caller.GetBatchTransactionHash(ctx, payload.SmartAccount, payload.Calls, payload.Nonce)
	}
	if err != nil {
		return types.NewResolutionError("GetDigestToSign", fmt.Errorf("digest cross-check call failed: %w", err))
	}
	if common.Hash(onChain) != payload.Digest {
		return fmt.Errorf("digest mismatch: computed %s, contract returned %s",
			payload.Digest.Hex(), common.Hash(onChain).Hex())
	}
	return nil
}

func (e *RelayExecutor) execute(ctx context.Context, account common.Address, calls types.CallBatch, signature []byte) (*ethereumTypes.Receipt, error) {
	submitCtx, cancel := context.WithTimeout(ctx, e.receiptTimeout)
	defer cancel()

	if calls.Single() {
		return e.caller.ExecuteTransaction(submitCtx, account, calls[0], signature)
	}
	return e.caller.ExecuteBatchTransaction(submitCtx, account, calls, signature)
}

// classifySubmission maps an execution failure to its taxonomy kind. Reverts
// that name the account nonce are nonce races, retryable with a fresh digest;
// an expired receipt wait is ambiguous and must not look like a revert.
func (e *RelayExecutor) classifySubmission(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewTimeoutError("SubmitRelay",
			fmt.Errorf("no receipt within %s, transaction may still confirm: %w", e.receiptTimeout, err))
	}

	var relayErr *types.RelayError
	if errors.As(err, &relayErr) {
		if relayErr.Kind == types.KindExecutionReverted && isNonceRevert(relayErr.RevertReason) {
			return types.NewStaleNonceError(relayErr.Op, relayErr.RevertReason, relayErr.Err)
		}
		return err
	}

	return types.NewResolutionError("SubmitRelay", fmt.Errorf("submission failed: %w", err))
}

func (e *RelayExecutor) cacheNonce(account common.Address, nonce *big.Int) {
	if err := e.store.UpdateCachedNonce(account, nonce); err != nil {
		e.logger.Sugar().Warnw("Failed to cache account nonce",
			"account", account.Hex(),
			"error", err,
		)
	}
}

// isNonceRevert matches the revert reasons the smart account emits when the
// supplied nonce does not equal its current nonce.
func isNonceRevert(reason string) bool {
	normalized := strings.ToLower(reason)
	return strings.Contains(normalized, "invalid nonce") || strings.Contains(normalized, "invalidnonce")
}
