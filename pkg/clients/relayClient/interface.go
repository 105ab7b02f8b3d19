package relayClient

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
)

// IRelayClient defines the interface for interacting with a relay server.
// This interface abstracts the client implementation to allow for easier
// testing and potential alternative implementations.
type IRelayClient interface {
	// SetHttpClient allows setting a custom HTTP client for the relay client.
	SetHttpClient(client *http.Client)

	// GetDigestToSign asks the server for the digest to sign for the given
	// calls, bound to the owner's smart account and its current nonce.
	GetDigestToSign(ctx context.Context, owner common.Address, calls types.CallBatch) (*types.DigestResponse, error)

	// SubmitRelay submits a signed authorization for execution. Failures come
	// back as *types.RelayError carrying the server's failure kind.
	SubmitRelay(ctx context.Context, request *types.RelayRequest) (*types.RelayResponse, error)

	// GetAccount reports the owner's smart account without deploying it.
	GetAccount(ctx context.Context, owner common.Address) (*types.AccountResponse, error)

	// Health reports the server's health and the relayer's funding.
	Health(ctx context.Context) (*types.HealthResponse, error)
}

// Compile-time check to ensure Client implements IRelayClient
var _ IRelayClient = (*Client)(nil)
