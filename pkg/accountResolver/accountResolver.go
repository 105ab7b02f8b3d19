package accountResolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/contractCaller"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// IAccountResolver maps an owner address to its smart account, deploying the
// account through the relayer on first use.
type IAccountResolver interface {
	// Resolve returns the smart-account record for an owner, deploying the
	// account when none exists yet. Idempotent; concurrent calls for the same
	// owner serialize on a per-owner lock.
	Resolve(ctx context.Context, owner common.Address) (*types.SmartAccountRecord, error)
}

// SaltForOwner derives the deployment salt the factory expects for an owner.
// The factory feeds this salt into CREATE2, so one owner always maps to the
// same smart-account address on a given chain.
func SaltForOwner(owner common.Address) [32]byte {
	return crypto.Keccak256Hash(owner.Bytes())
}

// SmartAccountResolver resolves owners against the factory contract. The
// account store is a cache of chain state: store failures are logged and
// resolution continues from the chain alone.
type SmartAccountResolver struct {
	logger        *zap.Logger
	caller        contractCaller.IContractCaller
	store         accountStore.IAccountStore
	deployTimeout time.Duration
	locks         *ownerLocks
}

func NewSmartAccountResolver(
	caller contractCaller.IContractCaller,
	store accountStore.IAccountStore,
	deployTimeout time.Duration,
	logger *zap.Logger,
) (*SmartAccountResolver, error) {
	if caller == nil {
		return nil, fmt.Errorf("contract caller cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("account store cannot be nil")
	}
	if deployTimeout <= 0 {
		return nil, fmt.Errorf("deploy timeout must be positive")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &SmartAccountResolver{
		logger:        logger,
		caller:        caller,
		store:         store,
		deployTimeout: deployTimeout,
		locks:         newOwnerLocks(),
	}, nil
}

func (r *SmartAccountResolver) Resolve(ctx context.Context, owner common.Address) (*types.SmartAccountRecord, error) {
	if owner == (common.Address{}) {
		return nil, fmt.Errorf("owner address cannot be the zero address")
	}

	unlock := r.locks.lock(owner)
	defer unlock()

	// Fast path: a deployed record in the store needs no chain round trip.
	record, err := r.store.GetAccount(owner)
	if err != nil {
		r.logger.Sugar().Warnw("Account store read failed, resolving from chain",
			"owner", owner.Hex(),
			"error", err,
		)
	} else if record != nil && record.Deployed {
		return record, nil
	}

	salt := SaltForOwner(owner)
	account, err := r.caller.GetDeterministicAccountAddress(ctx, owner, salt)
	if err != nil {
		return nil, types.NewResolutionError("Resolve", fmt.Errorf("factory address lookup failed: %w", err))
	}

	deployed, err := r.caller.IsDeployed(ctx, account)
	if err != nil {
		return nil, types.NewResolutionError("Resolve", fmt.Errorf("bytecode check failed: %w", err))
	}

	if !deployed {
		account, err = r.deployAccount(ctx, owner, salt, account)
		if err != nil {
			return nil, err
		}
	}

	record = &types.SmartAccountRecord{
		Owner:        owner,
		SmartAccount: account,
		Deployed:     true,
	}
	if saveErr := r.store.SaveAccount(record); saveErr != nil {
		// Chain state stays authoritative; the record can be rebuilt on the
		// next resolve.
		r.logger.Sugar().Warnw("Failed to persist account record",
			"owner", owner.Hex(),
			"account", account.Hex(),
			"error", saveErr,
		)
	}

	return record, nil
}

// deployAccount submits the factory deployment and waits for confirmation
// within the configured bound. An expired bound is a timeout, not a
// resolution failure: the deployment may still confirm afterwards.
func (r *SmartAccountResolver) deployAccount(ctx context.Context, owner common.Address, salt [32]byte, predicted common.Address) (common.Address, error) {
	r.logger.Sugar().Infow("Deploying smart account",
		"owner", owner.Hex(),
		"predictedAddress", predicted.Hex(),
	)

	deployCtx, cancel := context.WithTimeout(ctx, r.deployTimeout)
	defer cancel()

	account, receipt, err := r.caller.CreateSmartAccount(deployCtx, owner, salt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return common.Address{}, types.NewTimeoutError("Resolve",
				fmt.Errorf("smart account deployment not confirmed within %s: %w", r.deployTimeout, err))
		}
		return common.Address{}, types.NewResolutionError("Resolve", fmt.Errorf("smart account deployment failed: %w", err))
	}

	if account != predicted {
		// The SmartAccountCreated event is the on-chain truth.
		r.logger.Sugar().Warnw("Smart account deployed at an unexpected address",
			"owner", owner.Hex(),
			"predictedAddress", predicted.Hex(),
			"deployedAddress", account.Hex(),
		)
	}

	r.logger.Sugar().Infow("Smart account deployed",
		"owner", owner.Hex(),
		"account", account.Hex(),
		"transactionHash", receipt.TxHash.Hex(),
	)
	return account, nil
}
