package awsKms

import (
	"context"
	cryptoEcdsa "crypto/ecdsa"
	"encoding/asn1"
	"fmt"

	"github.com/Gasway-Labs/gasway-relay-go/internal/keyGenerator"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AWSKMSKeyGenerator provisions relayer signing keys in AWS KMS. The private
// key never leaves KMS; only the derived address does.
type AWSKMSKeyGenerator struct {
	logger      *zap.Logger
	awsConfig   aws.Config
	kmsClient   *kms.Client
	awsRegion   string
	environment string
}

func NewAWSKMSKeyGenerator(awsCfg aws.Config, awsRegion string, environment string, logger *zap.Logger) *AWSKMSKeyGenerator {
	kmsClient := kms.NewFromConfig(awsCfg)

	return &AWSKMSKeyGenerator{
		logger:      logger,
		awsConfig:   awsCfg,
		kmsClient:   kmsClient,
		awsRegion:   awsRegion,
		environment: environment,
	}
}

func (a *AWSKMSKeyGenerator) ProvisionECDSAKey(ctx context.Context, keyName string, aliasName string) (*keyGenerator.ProvisionedKey, error) {
	keyRes, err := a.createRelayerSigningKey(ctx, keyName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create ECDSA key %s in region %s", keyName, a.awsRegion)
	}

	err = a.createKeyAlias(ctx, *keyRes.KeyMetadata.KeyId, aliasName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create alias %s for key %s in region %s", aliasName, *keyRes.KeyMetadata.KeyId, a.awsRegion)
	}

	return a.GetECDSAKeyById(ctx, *keyRes.KeyMetadata.KeyId)
}

func (a *AWSKMSKeyGenerator) GetECDSAKeyById(ctx context.Context, keyId string) (*keyGenerator.ProvisionedKey, error) {
	kmsPubKey, err := a.getPublicKey(ctx, keyId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get public key for key %s in region %s", keyId, a.awsRegion)
	}

	ecdsaPubKey, err := parseECDSAPublicKey(kmsPubKey.PublicKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse public key for key %s in region %s", keyId, a.awsRegion)
	}

	return &keyGenerator.ProvisionedKey{
		PublicKey: ecdsaPubKey,
		Address:   crypto.PubkeyToAddress(*ecdsaPubKey),
		KeyId:     keyId,
	}, nil
}

// createRelayerSigningKey creates an ECDSA key suitable for Ethereum
// transaction signing. The relayer funds this key's address.
func (k *AWSKMSKeyGenerator) createRelayerSigningKey(ctx context.Context, keyName string) (*kms.CreateKeyOutput, error) {
	input := &kms.CreateKeyInput{
		KeyUsage:    types.KeyUsageTypeSignVerify,
		KeySpec:     types.KeySpecEccSecgP256k1, // secp256k1 curve used by Ethereum
		Description: aws.String(fmt.Sprintf("ECDSA key for relayer transaction signing - %s", keyName)),
		Tags: []types.Tag{
			{
				TagKey:   aws.String("Name"),
				TagValue: aws.String(keyName),
			},
			{
				TagKey:   aws.String("Environment"),
				TagValue: aws.String(k.environment),
			},
			{
				TagKey:   aws.String("Purpose"),
				TagValue: aws.String("relayer-key"),
			},
			{
				TagKey:   aws.String("Curve"),
				TagValue: aws.String("secp256k1"),
			},
			{
				TagKey:   aws.String("GaswayRelay"),
				TagValue: aws.String("true"),
			},
		},
	}

	result, err := k.kmsClient.CreateKey(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create KMS key: %w", err)
	}

	return result, nil
}

// createKeyAlias creates an alias for the KMS key for easier reference
func (k *AWSKMSKeyGenerator) createKeyAlias(ctx context.Context, keyId, aliasName string) error {
	input := &kms.CreateAliasInput{
		AliasName:   aws.String(fmt.Sprintf("alias/%s", aliasName)),
		TargetKeyId: aws.String(keyId),
	}

	_, err := k.kmsClient.CreateAlias(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create key alias: %w", err)
	}

	k.logger.Sugar().Infow("Created key alias",
		"alias", fmt.Sprintf("alias/%s", aliasName),
		"keyId", keyId,
	)
	return nil
}

func (k *AWSKMSKeyGenerator) getPublicKey(ctx context.Context, keyId string) (*kms.GetPublicKeyOutput, error) {
	input := &kms.GetPublicKeyInput{
		KeyId: aws.String(keyId),
	}

	result, err := k.kmsClient.GetPublicKey(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}

	return result, nil
}

// parseECDSAPublicKey parses the DER-encoded public key from KMS
func parseECDSAPublicKey(derBytes []byte) (*cryptoEcdsa.PublicKey, error) {
	var asn1pubk asn1EcPublicKey
	_, err := asn1.Unmarshal(derBytes, &asn1pubk)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ASN.1 public key: %w", err)
	}

	return crypto.UnmarshalPubkey(asn1pubk.PublicKey.Bytes)
}

type asn1EcPublicKey struct {
	EcPublicKeyInfo asn1EcPublicKeyInfo
	PublicKey       asn1.BitString
}

type asn1EcPublicKeyInfo struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}
