package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Gasway-Labs/gasway-relay-go/internal/aws"
	"github.com/Gasway-Labs/gasway-relay-go/internal/keyGenerator/awsKms"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/logger"
)

// Provisions a relayer signing key in AWS KMS and prints what the server
// config needs. The printed address must be funded before the relay server
// will start against it.
func main() {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	ctx := context.Background()

	keyName := os.Getenv("KEY_NAME")
	if keyName == "" {
		l.Sugar().Fatal("KEY_NAME environment variable is not set")
	}
	aliasName := os.Getenv("ALIAS")
	if aliasName == "" {
		aliasName = fmt.Sprintf("gasway-relayer-%s", keyName)
	}
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "devnet"
	}

	awsCfg, err := aws.LoadAWSConfig(ctx, os.Getenv("AWS_REGION"))
	if err != nil {
		panic(err)
	}

	keyGen := awsKms.NewAWSKMSKeyGenerator(awsCfg, awsCfg.Region, environment, l)

	key, err := keyGen.ProvisionECDSAKey(ctx, keyName, aliasName)
	if err != nil {
		l.Sugar().Fatalw("failed to provision relayer key", "error", err)
	}

	pubKeyHex, err := key.GetPublicKeyHex()
	if err != nil {
		l.Sugar().Fatalw("failed to get public key hex", "error", err)
	}

	l.Sugar().Infow("Provisioned relayer key",
		"keyId", key.KeyId,
		"alias", aliasName,
		"address", key.Address.Hex(),
		"publicKeyHex", pubKeyHex,
	)
	fmt.Printf("Fund %s, then set RELAY_RELAYER_KEY_SOURCE=aws_kms RELAY_KMS_KEY_ID=%s\n", key.Address.Hex(), key.KeyId)
}
