package awsKmsSigner

import (
	"context"
	cryptoEcdsa "crypto/ecdsa"
	"encoding/asn1"
	"fmt"
	"math/big"
	"sync"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmstypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// IKMSClient is the subset of the AWS KMS API the signer uses.
type IKMSClient interface {
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
}

// AWSKMSSigner signs digests with a secp256k1 key held in AWS KMS. KMS only
// signs a caller-supplied digest and returns a DER-encoded (r, s) pair with
// no recovery id, so this provider supports the raw-hash primitive alone and
// its signatures come back as 64 bytes for the caller to repair.
type AWSKMSSigner struct {
	logger    *zap.Logger
	kmsClient IKMSClient
	keyId     string

	mu      sync.Mutex
	address *common.Address
}

func NewAWSKMSSigner(awsCfg aws.Config, keyId string, logger *zap.Logger) (*AWSKMSSigner, error) {
	return NewAWSKMSSignerWithClient(kms.NewFromConfig(awsCfg), keyId, logger)
}

func NewAWSKMSSignerWithClient(client IKMSClient, keyId string, logger *zap.Logger) (*AWSKMSSigner, error) {
	if client == nil {
		return nil, fmt.Errorf("kms client is required")
	}
	if keyId == "" {
		return nil, fmt.Errorf("key id is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &AWSKMSSigner{
		logger:    logger,
		kmsClient: client,
		keyId:     keyId,
	}, nil
}

func (a *AWSKMSSigner) SignerAddress(ctx context.Context) (common.Address, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.address != nil {
		return *a.address, nil
	}

	pubKey, err := a.getPublicKey(ctx)
	if err != nil {
		return common.Address{}, err
	}

	addr := crypto.PubkeyToAddress(*pubKey)
	a.address = &addr

	a.logger.Debug("Resolved KMS signer address",
		zap.String("keyId", a.keyId),
		zap.String("address", addr.Hex()),
	)
	return addr, nil
}

func (a *AWSKMSSigner) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	signInput := &kms.SignInput{
		KeyId:            aws.String(a.keyId),
		Message:          digest.Bytes(),
		SigningAlgorithm: kmstypes.SigningAlgorithmSpecEcdsaSha256,
		MessageType:      kmstypes.MessageTypeDigest,
	}

	signOutput, err := a.kmsClient.Sign(ctx, signInput)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign digest with KMS key %s", a.keyId)
	}

	var sigAsn1 asn1EcSig
	if _, err := asn1.Unmarshal(signOutput.Signature, &sigAsn1); err != nil {
		return nil, errors.Wrap(err, "failed to parse ASN.1 signature")
	}

	r := new(big.Int).SetBytes(sigAsn1.R.Bytes)
	s := new(big.Int).SetBytes(sigAsn1.S.Bytes)

	// Low-S canonicalization for malleability protection; KMS may return
	// either candidate.
	curveOrder := crypto.S256().Params().N
	halfOrder := new(big.Int).Rsh(curveOrder, 1)
	if s.Cmp(halfOrder) > 0 {
		s = new(big.Int).Sub(curveOrder, s)
	}

	signature := make([]byte, 64)
	r.FillBytes(signature[0:32])
	s.FillBytes(signature[32:64])

	a.logger.Debug("Signed digest with KMS key",
		zap.String("keyId", a.keyId),
		zap.Int("signatureLen", len(signature)),
	)
	return signature, nil
}

func (a *AWSKMSSigner) SignPersonalMessage(ctx context.Context, digest common.Hash) ([]byte, error) {
	return nil, walletProvider.ErrPrimitiveUnsupported
}

func (a *AWSKMSSigner) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	return nil, walletProvider.ErrPrimitiveUnsupported
}

func (a *AWSKMSSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	return nil, walletProvider.ErrPrimitiveUnsupported
}

func (a *AWSKMSSigner) getPublicKey(ctx context.Context) (*cryptoEcdsa.PublicKey, error) {
	input := &kms.GetPublicKeyInput{
		KeyId: aws.String(a.keyId),
	}
	result, err := a.kmsClient.GetPublicKey(ctx, input)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get public key for KMS key %s", a.keyId)
	}
	return parseECDSAPublicKey(result.PublicKey)
}

// parseECDSAPublicKey parses the DER-encoded public key returned by KMS.
func parseECDSAPublicKey(derBytes []byte) (*cryptoEcdsa.PublicKey, error) {
	var asn1pubk asn1EcPublicKey
	if _, err := asn1.Unmarshal(derBytes, &asn1pubk); err != nil {
		return nil, errors.Wrap(err, "failed to parse ASN.1 public key")
	}
	return crypto.UnmarshalPubkey(asn1pubk.PublicKey.Bytes)
}

type asn1EcSig struct {
	R asn1.RawValue
	S asn1.RawValue
}

type asn1EcPublicKey struct {
	EcPublicKeyInfo asn1EcPublicKeyInfo
	PublicKey       asn1.BitString
}

type asn1EcPublicKeyInfo struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}
