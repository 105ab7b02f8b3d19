package transactionSigner

import (
	"context"
	"fmt"
	"math/big"

	internalAws "github.com/Gasway-Labs/gasway-relay-go/internal/aws"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/config"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider/awsKmsSigner"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// ITransactionSigner provides methods for signing Ethereum transactions with
// the relayer's funded key
type ITransactionSigner interface {
	// GetTransactOpts returns transaction options for creating unsigned transactions
	GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error)

	// SignAndSendTransaction fills in fees and the relayer nonce, signs the
	// transaction and sends it to the network, then waits for the receipt
	SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

	// GetFromAddress returns the address that will be used for signing
	GetFromAddress() common.Address

	// EstimateGasPriceAndLimit estimates the max fee per gas and the buffered
	// gas limit for a transaction without sending it
	EstimateGasPriceAndLimit(ctx context.Context, tx *types.Transaction) (*big.Int, uint64, error)
}

// IEthereumBackend is the slice of the execution client API the transaction
// signers use. *ethclient.Client satisfies it.
type IEthereumBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionByHash(ctx context.Context, txHash common.Hash) (tx *types.Transaction, isPending bool, err error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// NewTransactionSigner builds the transaction signer selected by the relayer
// key config: a local private key or an AWS KMS key.
func NewTransactionSigner(cfg *config.RelayerKeyConfig, backend IEthereumBackend, logger *zap.Logger) (ITransactionSigner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Source {
	case config.KeySourcePrivateKey:
		return NewPrivateKeySigner(cfg.PrivateKey, backend, logger)
	case config.KeySourceAWSKMS:
		awsCfg, err := internalAws.LoadAWSConfig(context.Background(), cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		provider, err := awsKmsSigner.NewAWSKMSSigner(awsCfg, cfg.KMSKeyID, logger)
		if err != nil {
			return nil, err
		}
		return NewKMSTransactionSigner(provider, backend, logger)
	default:
		return nil, fmt.Errorf("unsupported relayer key source: %s", cfg.Source)
	}
}
