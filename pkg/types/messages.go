package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DigestRequest asks the relay which digest an owner must sign to authorize
// the given calls on their smart account.
type DigestRequest struct {
	Owner common.Address `json:"owner"`
	Calls CallBatch      `json:"calls"`
}

// DigestResponse fixes the digest, nonce, and account for one authorization.
// The client signs the digest and must submit with this exact nonce; the
// chain ID lets the client rebuild the typed-data form locally, bit-exact.
type DigestResponse struct {
	Digest              common.Hash    `json:"digest"`
	Nonce               *hexutil.Big   `json:"nonce"`
	SmartAccountAddress common.Address `json:"smartAccountAddress"`
	ChainID             *hexutil.Big   `json:"chainId"`
	RequestID           string         `json:"requestId,omitempty"`
}

// RelayRequest submits a signed authorization for execution. Nonce is the
// value returned at digest time; Scheme tags which wallet primitive produced
// the signature.
type RelayRequest struct {
	Owner     common.Address `json:"owner"`
	Calls     CallBatch      `json:"calls"`
	Signature hexutil.Bytes  `json:"signature"`
	Scheme    SigningScheme  `json:"scheme"`
	Nonce     *hexutil.Big   `json:"nonce"`
}

// RelayResponse reports a confirmed execution.
type RelayResponse struct {
	TransactionHash     common.Hash    `json:"transactionHash"`
	SmartAccountAddress common.Address `json:"smartAccountAddress"`
	RequestID           string         `json:"requestId,omitempty"`
}

// AccountResponse describes a resolved smart account.
type AccountResponse struct {
	Owner               common.Address `json:"owner"`
	SmartAccountAddress common.Address `json:"smartAccountAddress"`
	Deployed            bool           `json:"deployed"`
	CachedNonce         *hexutil.Big   `json:"cachedNonce,omitempty"`
}

// ErrorResponse carries a failure across the HTTP boundary without losing
// the kind, so API clients keep the full error taxonomy.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Kind      FailureKind `json:"kind,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

// HealthResponse reports server liveness and the relayer's funding. The
// balance is in wei, as a decimal string.
type HealthResponse struct {
	Status         string `json:"status"`
	RelayerAddress string `json:"relayerAddress"`
	RelayerBalance string `json:"relayerBalance,omitempty"`
}
