package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"os"

	internalAws "github.com/Gasway-Labs/gasway-relay-go/internal/aws"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountResolver"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore"
	badgerStore "github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore/badger"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore/memory"
	redisStore "github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore/redis"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/config"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/contractCaller/caller"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/logger"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/relay"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/transactionSigner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "relay-server",
		Usage: "Gasway meta-transaction relay server",
		Description: `A gasless relay server that executes user-authorized calls through
deterministic smart accounts, with transaction gas paid by the relayer.

This server implements:
- Digest issuance bound to the owner's smart account and live nonce
- Signature verification across the supported wallet signing schemes
- Counterfactual smart account deployment on first use
- Relayed execution with typed failure reporting`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8080,
				Usage:   "HTTP server port",
				EnvVars: []string{config.EnvRelayPort},
			},
			&cli.Uint64Flag{
				Name:     "chain-id",
				Aliases:  []string{"chain"},
				Usage:    fmt.Sprintf("Ethereum chain ID: %s", config.GetSupportedChainIDsString()),
				EnvVars:  []string{config.EnvRelayChainID},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "rpc-url",
				Aliases: []string{"rpc"},
				Usage:   "Ethereum RPC endpoint URL",
				Value:   "http://localhost:8545",
				EnvVars: []string{config.EnvRelayRPCURL},
			},
			&cli.StringFlag{
				Name:    "factory-address",
				Aliases: []string{"factory"},
				Usage:   "SmartAccountFactory contract address (chain default when unset)",
				EnvVars: []string{config.EnvRelayFactoryAddress},
			},
			&cli.StringFlag{
				Name:    "relayer-key-source",
				Usage:   "Relayer key source: private_key or aws_kms",
				Value:   string(config.KeySourcePrivateKey),
				EnvVars: []string{config.EnvRelayRelayerKeySource},
			},
			&cli.StringFlag{
				Name:    "relayer-private-key",
				Usage:   "Relayer private key (hex) for the private_key source",
				EnvVars: []string{config.EnvRelayRelayerPrivateKey},
			},
			&cli.StringFlag{
				Name:    "kms-key-id",
				Usage:   "AWS KMS key ID or alias for the aws_kms source",
				EnvVars: []string{config.EnvRelayKMSKeyID},
			},
			&cli.StringFlag{
				Name:    "aws-region",
				Usage:   "AWS region override for the aws_kms source",
				EnvVars: []string{config.EnvRelayAWSRegion},
			},
			&cli.StringFlag{
				Name:    "store-backend",
				Usage:   "Account store backend: memory, redis or badger",
				Value:   string(config.StoreBackendMemory),
				EnvVars: []string{config.EnvRelayStoreBackend},
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "Redis address (host:port) for the redis backend",
				EnvVars: []string{config.EnvRelayRedisAddr},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password for the redis backend",
				EnvVars: []string{config.EnvRelayRedisPassword},
			},
			&cli.StringFlag{
				Name:    "badger-path",
				Usage:   "Data directory for the badger backend",
				EnvVars: []string{config.EnvRelayBadgerPath},
			},
			&cli.BoolFlag{
				Name:    "digest-cross-check",
				Usage:   "Verify locally computed digests against the smart account's hash views",
				EnvVars: []string{config.EnvRelayDigestCrossCheck},
			},
			&cli.Float64Flag{
				Name:    "owner-rate-limit",
				Usage:   "Max relay submissions per second per owner (0 disables limiting)",
				EnvVars: []string{config.EnvRelayOwnerRateLimit},
			},
			&cli.IntFlag{
				Name:    "owner-rate-burst",
				Usage:   "Burst size for the per-owner rate limit",
				EnvVars: []string{config.EnvRelayOwnerRateBurst},
			},
			&cli.DurationFlag{
				Name:    "receipt-timeout",
				Usage:   "Max time to wait for a relayed transaction receipt (chain default when unset)",
				EnvVars: []string{config.EnvRelayReceiptTimeout},
			},
			&cli.DurationFlag{
				Name:    "deploy-timeout",
				Usage:   "Max time to wait for a smart account deployment (chain default when unset)",
				EnvVars: []string{config.EnvRelayDeployTimeout},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvRelayDebug},
			},
		},
		Action: runRelayServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func runRelayServer(c *cli.Context) error {
	// Create logger
	loggerConfig := &logger.LoggerConfig{
		Debug: c.Bool("verbose"),
	}
	l, err := logger.NewLogger(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	// Parse configuration from flags/environment
	relayConfig := parseRelayConfig(c)

	// Validate configuration and fill chain-derived defaults
	if err := relayConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l.Sugar().Infow("Using chain", "name", relayConfig.ChainName, "chain_id", relayConfig.ChainID)

	// Connect to the execution client
	ethClient, err := ethclient.Dial(relayConfig.RpcUrl)
	if err != nil {
		l.Sugar().Fatalw("Failed to connect to Ethereum RPC", "rpc_url", relayConfig.RpcUrl, "error", err)
	}

	// A wrong RPC would issue digests bound to the wrong chain
	rpcChainID, err := ethClient.ChainID(context.Background())
	if err != nil {
		l.Sugar().Fatalw("Failed to query RPC chain ID", "error", err)
	}
	if rpcChainID.Cmp(new(big.Int).SetUint64(uint64(relayConfig.ChainID))) != 0 {
		l.Sugar().Fatalw("RPC chain ID does not match configuration",
			"configured", relayConfig.ChainID,
			"rpc", rpcChainID.String(),
		)
	}

	// Surface which AWS identity will be signing when the key lives in KMS
	if relayConfig.RelayerKey.Source == config.KeySourceAWSKMS {
		awsCfg, err := internalAws.LoadAWSConfig(context.Background(), relayConfig.RelayerKey.AWSRegion)
		if err != nil {
			l.Sugar().Fatalw("Failed to load AWS config", "error", err)
		}
		identity, err := internalAws.DescribeSigningIdentity(context.Background(), awsCfg)
		if err != nil {
			l.Sugar().Fatalw("Failed to get AWS caller identity", "error", err)
		}
		l.Sugar().Infow("AWS caller identity",
			"account", identity.Account,
			"arn", identity.Arn,
		)
	}

	// Relayer signing key
	signer, err := transactionSigner.NewTransactionSigner(&relayConfig.RelayerKey, ethClient, l)
	if err != nil {
		l.Sugar().Fatalw("Failed to create transaction signer", "error", err)
	}

	// Contract caller bound to the factory
	contractCaller, err := caller.NewContractCaller(ethClient, signer, common.HexToAddress(relayConfig.FactoryAddress), l)
	if err != nil {
		l.Sugar().Fatalw("Failed to create contract caller", "error", err)
	}

	// Smart-account record store
	store, err := buildAccountStore(relayConfig, l)
	if err != nil {
		l.Sugar().Fatalw("Failed to create account store", "backend", relayConfig.Store.Backend, "error", err)
	}

	resolver, err := accountResolver.NewSmartAccountResolver(contractCaller, store, relayConfig.DeployTimeout, l)
	if err != nil {
		l.Sugar().Fatalw("Failed to create account resolver", "error", err)
	}

	executor, err := relay.NewRelayExecutor(&relay.ExecutorConfig{
		ChainID:          new(big.Int).SetUint64(uint64(relayConfig.ChainID)),
		ReceiptTimeout:   relayConfig.ReceiptTimeout,
		DigestCrossCheck: relayConfig.DigestCrossCheck,
		RateLimit:        relayConfig.RateLimit,
	}, contractCaller, resolver, store, l)
	if err != nil {
		l.Sugar().Fatalw("Failed to create relay executor", "error", err)
	}

	// The relayer pays for every transaction; an unfunded key is a
	// misconfiguration worth failing loudly on startup.
	balance, err := contractCaller.GetRelayerBalance(context.Background())
	if err != nil {
		l.Sugar().Fatalw("Failed to read relayer balance", "error", err)
	}
	if balance.Sign() == 0 {
		l.Sugar().Fatalw("Relayer account has no funds",
			"relayer_address", contractCaller.GetRelayerAddress().Hex(),
		)
	}
	l.Sugar().Infow("Relayer funded",
		"relayer_address", contractCaller.GetRelayerAddress().Hex(),
		"balance_wei", balance.String(),
	)

	if c.Bool("verbose") {
		l.Sugar().Infow("Relay Server Configuration",
			"port", relayConfig.Port,
			"chain", relayConfig.ChainName,
			"factory_address", relayConfig.FactoryAddress,
			"store_backend", relayConfig.Store.Backend,
			"digest_cross_check", relayConfig.DigestCrossCheck,
			"receipt_timeout", relayConfig.ReceiptTimeout,
			"deploy_timeout", relayConfig.DeployTimeout,
			"owner_rate_limit", relayConfig.RateLimit.OwnerRPS,
		)
	}

	// Start the HTTP server
	server := relay.NewServer(executor, relayConfig.Port)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	l.Sugar().Infow("Relay server running", "port", relayConfig.Port)
	l.Sugar().Infow("Available endpoints",
		"digest", "POST /v1/relay/digest",
		"submit", "POST /v1/relay/submit",
		"account", "GET /v1/account",
		"health", "GET /v1/healthz")
	l.Sugar().Info("Press Ctrl+C to stop")

	// Keep the server running
	select {}
}

func parseRelayConfig(c *cli.Context) *config.RelayServerConfig {
	return &config.RelayServerConfig{
		Port:    c.Int("port"),
		ChainID: config.ChainId(c.Uint64("chain-id")),
		RpcUrl:  c.String("rpc-url"),

		FactoryAddress: c.String("factory-address"),
		RelayerKey: config.RelayerKeyConfig{
			Source:     config.KeySource(c.String("relayer-key-source")),
			PrivateKey: c.String("relayer-private-key"),
			KMSKeyID:   c.String("kms-key-id"),
			AWSRegion:  c.String("aws-region"),
		},
		Store: config.StoreConfig{
			Backend:       config.StoreBackend(c.String("store-backend")),
			RedisAddr:     c.String("redis-addr"),
			RedisPassword: c.String("redis-password"),
			BadgerPath:    c.String("badger-path"),
		},

		DigestCrossCheck: c.Bool("digest-cross-check"),
		ReceiptTimeout:   c.Duration("receipt-timeout"),
		DeployTimeout:    c.Duration("deploy-timeout"),
		RateLimit: config.RateLimitConfig{
			OwnerRPS:   c.Float64("owner-rate-limit"),
			OwnerBurst: c.Int("owner-rate-burst"),
		},
		Debug: c.Bool("verbose"),
	}
}

func buildAccountStore(cfg *config.RelayServerConfig, l *zap.Logger) (accountStore.IAccountStore, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		l.Sugar().Warnw("Using in-memory account store; records will not survive restarts")
		return memory.NewMemoryAccountStore(), nil
	case config.StoreBackendRedis:
		return redisStore.NewRedisAccountStore(&redisStore.RedisConfig{
			Address:  cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
		}, l)
	case config.StoreBackendBadger:
		return badgerStore.NewBadgerAccountStore(cfg.Store.BadgerPath, l)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}
