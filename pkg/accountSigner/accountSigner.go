package accountSigner

import (
	"context"
	"fmt"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/verifier"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// strategy is one signing primitive: the scheme it produces and the provider
// entry point that produces it.
type strategy struct {
	scheme  types.SigningScheme
	attempt func(ctx context.Context, provider walletProvider.IWalletProvider, payload *types.SigningPayload) ([]byte, error)
}

// strategies returns the primitive order. Raw-hash first because it needs no
// transform reversal; typed data before the generic message entry point
// because wallets that forbid raw-hash signing usually still offer it; the
// prefixed message path is the last resort every wallet supports.
func strategies() []strategy {
	return []strategy{
		{
			scheme: types.SchemeRawHash,
			attempt: func(ctx context.Context, provider walletProvider.IWalletProvider, payload *types.SigningPayload) ([]byte, error) {
				return provider.SignDigest(ctx, payload.Digest)
			},
		},
		{
			scheme: types.SchemePersonalSign,
			attempt: func(ctx context.Context, provider walletProvider.IWalletProvider, payload *types.SigningPayload) ([]byte, error) {
				return provider.SignPersonalMessage(ctx, payload.Digest)
			},
		},
		{
			scheme: types.SchemeTypedDataV4,
			attempt: func(ctx context.Context, provider walletProvider.IWalletProvider, payload *types.SigningPayload) ([]byte, error) {
				return provider.SignTypedData(ctx, payload.TypedData)
			},
		},
		{
			scheme: types.SchemePrefixedMessage,
			attempt: func(ctx context.Context, provider walletProvider.IWalletProvider, payload *types.SigningPayload) ([]byte, error) {
				return provider.SignMessage(ctx, payload.Digest.Bytes())
			},
		},
	}
}

// Acquirer obtains a verified authorization signature from a wallet provider,
// walking the primitive order until one produces a signature that survives
// normalization and a local verification pre-check.
type Acquirer struct {
	logger   *zap.Logger
	provider walletProvider.IWalletProvider
}

type AcquirerConfig struct {
	Provider walletProvider.IWalletProvider
	Logger   *zap.Logger
}

func NewAcquirer(cfg *AcquirerConfig) (*Acquirer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("wallet provider is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Acquirer{
		logger:   cfg.Logger,
		provider: cfg.Provider,
	}, nil
}

// AcquireSignature tries each signing primitive in order against the
// provider. Every candidate is normalized to the canonical 65-byte form and
// verified locally before it is returned, so a mislabeled or malformed
// provider response falls through to the next primitive instead of reaching
// the relayer. Cancelling the context abandons the in-flight authorization;
// nothing has been submitted anywhere at this stage.
//
// The returned authorization carries the scheme that produced it. The
// verifier cannot reverse the signing transform without it, so the tag must
// travel with the signature from here on.
func (a *Acquirer) AcquireSignature(ctx context.Context, payload *types.SigningPayload) (*types.SignedAuthorization, error) {
	if payload == nil {
		return nil, fmt.Errorf("payload cannot be nil")
	}

	expectedSigner, err := a.provider.SignerAddress(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve signer address")
	}

	var attemptErrs error
	for _, strat := range strategies() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := strat.attempt(ctx, a.provider, payload)
		if err != nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			a.logger.Debug("Signing primitive failed",
				zap.String("scheme", string(strat.scheme)),
				zap.Error(err),
			)
			attemptErrs = multierr.Append(attemptErrs, errors.Wrap(err, string(strat.scheme)))
			continue
		}

		signature, err := NormalizeSignature(payload, raw, strat.scheme, expectedSigner)
		if err != nil {
			a.logger.Debug("Signature normalization failed",
				zap.String("scheme", string(strat.scheme)),
				zap.Int("rawLen", len(raw)),
				zap.Error(err),
			)
			attemptErrs = multierr.Append(attemptErrs, errors.Wrap(err, string(strat.scheme)))
			continue
		}

		// Client-side sanity pre-check, so a bad signature fails here
		// rather than after a network round trip.
		if err := verifier.Verify(payload, signature, strat.scheme, expectedSigner); err != nil {
			a.logger.Debug("Acquired signature failed verification",
				zap.String("scheme", string(strat.scheme)),
				zap.Error(err),
			)
			attemptErrs = multierr.Append(attemptErrs, errors.Wrap(err, string(strat.scheme)))
			continue
		}

		a.logger.Debug("Acquired authorization signature",
			zap.String("scheme", string(strat.scheme)),
			zap.String("signer", expectedSigner.Hex()),
		)
		return &types.SignedAuthorization{
			Signature: signature,
			Scheme:    strat.scheme,
		}, nil
	}

	return nil, types.NewSigningExhaustedError("acquire_signature",
		errors.Wrap(attemptErrs, "all signing primitives exhausted"))
}
