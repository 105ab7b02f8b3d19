package accountSigner

import (
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/verifier"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// ErrRepairFailed reports that a 64-byte signature could not be completed:
// neither recovery byte candidate recovers to the expected signer.
var ErrRepairFailed = errors.New("signature repair failed: no recovery byte candidate matches the expected signer")

// NormalizeSignature converts a 64- or 65-byte signature into the canonical
// 65-byte r || s || v form with v in {27, 28}, the encoding the account
// contract's ecrecover expects.
//
// A 64-byte input carries no recovery byte, so both candidates are appended
// in turn and the signer is recovered under the transform the scheme denotes;
// the first candidate that recovers to expectedSigner wins. A 65-byte input
// only has its recovery byte shifted into the legacy range if needed.
func NormalizeSignature(payload *types.SigningPayload, signature []byte, scheme types.SigningScheme, expectedSigner common.Address) ([]byte, error) {
	switch len(signature) {
	case crypto.SignatureLength:
		normalized := make([]byte, crypto.SignatureLength)
		copy(normalized, signature)
		if normalized[64] < 27 {
			normalized[64] += 27
		}
		return normalized, nil

	case crypto.SignatureLength - 1:
		for _, v := range []byte{27, 28} {
			candidate := make([]byte, crypto.SignatureLength)
			copy(candidate, signature)
			candidate[64] = v

			recovered, err := verifier.RecoverSigner(payload, candidate, scheme)
			if err != nil {
				continue
			}
			if recovered == expectedSigner {
				return candidate, nil
			}
		}
		return nil, ErrRepairFailed

	default:
		return nil, errors.Errorf("invalid signature length: expected 64 or 65 bytes, got %d", len(signature))
	}
}
