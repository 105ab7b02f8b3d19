package walletProvider

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

// ErrPrimitiveUnsupported is returned by an entry point the provider does not
// implement. The signature acquirer treats it like any other signing failure
// and moves on to the next primitive in its order.
var ErrPrimitiveUnsupported = errors.New("signing primitive not supported by provider")

// IWalletProvider is the signing surface of one wallet integration. Real
// providers implement a subset of the four entry points and return
// ErrPrimitiveUnsupported from the rest.
//
// Returned signatures are r || s || v (65 bytes) where the backend exposes a
// recovery id, or r || s (64 bytes) where it does not; callers normalize
// 64-byte signatures before use.
type IWalletProvider interface {
	// SignerAddress returns the address whose key the provider controls.
	SignerAddress(ctx context.Context) (common.Address, error)

	// SignDigest signs the 32-byte digest directly, with no transformation.
	SignDigest(ctx context.Context, digest common.Hash) ([]byte, error)

	// SignPersonalMessage signs the digest through the personal-message
	// entry point. The provider applies the EIP-191 prefix internally.
	SignPersonalMessage(ctx context.Context, digest common.Hash) ([]byte, error)

	// SignTypedData signs the EIP-712 hash of the typed payload.
	SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error)

	// SignMessage signs arbitrary bytes through the generic message entry
	// point, which always applies the length-prefixed message wrapper.
	SignMessage(ctx context.Context, message []byte) ([]byte, error)
}
