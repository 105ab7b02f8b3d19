package main

import (
	"context"
	"os"

	"github.com/Gasway-Labs/gasway-relay-go/internal/aws"
	"github.com/Gasway-Labs/gasway-relay-go/internal/keyGenerator/awsKms"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/logger"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Describes an existing KMS relayer key and, when RPC_URL is set, reports
// whether its address holds gas funds.
func main() {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	ctx := context.Background()

	keyId := os.Getenv("KEY_ID")
	if keyId == "" {
		l.Sugar().Fatal("KEY_ID environment variable is not set")
	}

	awsCfg, err := aws.LoadAWSConfig(ctx, os.Getenv("AWS_REGION"))
	if err != nil {
		panic(err)
	}

	keyGen := awsKms.NewAWSKMSKeyGenerator(awsCfg, awsCfg.Region, "", l)

	key, err := keyGen.GetECDSAKeyById(ctx, keyId)
	if err != nil {
		l.Sugar().Fatalw("failed to describe relayer key", "error", err)
	}

	pubKeyHex, err := key.GetPublicKeyHex()
	if err != nil {
		l.Sugar().Fatalw("failed to get public key hex", "error", err)
	}

	l.Sugar().Infow("Relayer key",
		"keyId", key.KeyId,
		"address", key.Address.Hex(),
		"publicKeyHex", pubKeyHex,
	)

	rpcUrl := os.Getenv("RPC_URL")
	if rpcUrl == "" {
		return
	}
	ethClient, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		l.Sugar().Fatalw("failed to connect to RPC", "error", err)
	}
	balance, err := ethClient.BalanceAt(ctx, key.Address, nil)
	if err != nil {
		l.Sugar().Fatalw("failed to read relayer balance", "error", err)
	}
	l.Sugar().Infow("Relayer balance",
		"address", key.Address.Hex(),
		"balanceWei", balance.String(),
		"funded", balance.Sign() > 0,
	)
}
