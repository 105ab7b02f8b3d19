package main

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"strings"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountSigner"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/digest"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/logger"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/verifier"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider/localSigner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signs a relay payload offline and prints the signature, for reproducing
// verification failures without a running server.
//
// Environment:
//
//	PRIVATE_KEY  owner key (hex)
//	CHAIN_ID     decimal chain id
//	ACCOUNT      smart account address
//	NONCE        decimal account nonce
//	CALLS        call batch as a JSON array
//	SCHEME       optional; restrict to one signing scheme
func main() {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	privateKeyHex := os.Getenv("PRIVATE_KEY")
	if privateKeyHex == "" {
		l.Sugar().Fatal("PRIVATE_KEY environment variable is not set")
	}
	chainIdArg := os.Getenv("CHAIN_ID")
	if chainIdArg == "" {
		l.Sugar().Fatal("CHAIN_ID environment variable is not set")
	}
	accountArg := os.Getenv("ACCOUNT")
	if !common.IsHexAddress(accountArg) {
		l.Sugar().Fatal("ACCOUNT environment variable must be a hex address")
	}
	nonceArg := os.Getenv("NONCE")
	if nonceArg == "" {
		l.Sugar().Fatal("NONCE environment variable is not set")
	}
	callsArg := os.Getenv("CALLS")
	if callsArg == "" {
		l.Sugar().Fatal("CALLS environment variable is not set")
	}

	chainId, ok := new(big.Int).SetString(chainIdArg, 10)
	if !ok {
		l.Sugar().Fatalf("invalid CHAIN_ID %q", chainIdArg)
	}
	nonce, ok := new(big.Int).SetString(nonceArg, 10)
	if !ok {
		l.Sugar().Fatalf("invalid NONCE %q", nonceArg)
	}
	var calls types.CallBatch
	if err := json.Unmarshal([]byte(callsArg), &calls); err != nil {
		l.Sugar().Fatalw("failed to parse CALLS", "error", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		l.Sugar().Fatalw("failed to parse private key", "error", err)
	}
	signerConfig := &localSigner.LocalSignerConfig{PrivateKey: privateKey, Logger: l}
	if schemeArg := os.Getenv("SCHEME"); schemeArg != "" {
		scheme, err := types.ParseSigningScheme(schemeArg)
		if err != nil {
			l.Sugar().Fatalw("invalid SCHEME", "error", err)
		}
		signerConfig.EnabledSchemes = []types.SigningScheme{scheme}
	}
	provider, err := localSigner.NewLocalSigner(signerConfig)
	if err != nil {
		l.Sugar().Fatalw("failed to create signer", "error", err)
	}
	acquirer, err := accountSigner.NewAcquirer(&accountSigner.AcquirerConfig{Provider: provider, Logger: l})
	if err != nil {
		l.Sugar().Fatalw("failed to create acquirer", "error", err)
	}

	payload, err := digest.BuildPayload(chainId, common.HexToAddress(accountArg), calls, nonce)
	if err != nil {
		l.Sugar().Fatalw("failed to build payload", "error", err)
	}

	auth, err := acquirer.AcquireSignature(context.Background(), payload)
	if err != nil {
		l.Sugar().Fatalw("failed to acquire signature", "error", err)
	}

	recovered, err := verifier.RecoverSigner(payload, auth.Signature, auth.Scheme)
	if err != nil {
		l.Sugar().Fatalw("signature does not recover", "error", err)
	}

	l.Sugar().Infow("Signed payload",
		"owner", crypto.PubkeyToAddress(privateKey.PublicKey).Hex(),
		"digest", payload.Digest.Hex(),
		"scheme", auth.Scheme,
		"signature", hexutil.Encode(auth.Signature),
		"recovered", recovered.Hex(),
	)
}
