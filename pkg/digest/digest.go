package digest

import (
	"math/big"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// SingleCallDigest computes the authorization digest for a single call:
// keccak256(account || to || value || data || nonce) with value and nonce
// encoded as 32-byte big-endian words and data included raw. This matches
// the hash the account contract derives in getTransactionHash.
func SingleCallDigest(account common.Address, call types.Call, nonce *big.Int) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(account.Bytes())
	h.Write(call.To.Bytes())
	h.Write(u256Word(call.Value))
	h.Write(call.Data)
	h.Write(u256Word(nonce))

	var out common.Hash
	h.Sum(out[:0])
	return out
}

// BatchCallDigest computes the authorization digest for a batch:
// keccak256(account || (to_i || value_i || keccak256(data_i))* || nonce).
// Per-call payloads are hashed rather than included raw so the encoding
// stays unambiguous across variable-length data, matching
// getBatchTransactionHash on the account contract.
func BatchCallDigest(account common.Address, calls types.CallBatch, nonce *big.Int) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(account.Bytes())
	for _, call := range calls {
		h.Write(call.To.Bytes())
		h.Write(u256Word(call.Value))
		dataHash := crypto.Keccak256(call.Data)
		h.Write(dataHash)
	}
	h.Write(u256Word(nonce))

	var out common.Hash
	h.Sum(out[:0])
	return out
}

// Compute routes to the single or batch encoding. A one-element batch is
// signed and executed through the single-call path, so it hashes with the
// single encoding here as well.
func Compute(account common.Address, calls types.CallBatch, nonce *big.Int) common.Hash {
	if len(calls) == 1 {
		return SingleCallDigest(account, calls[0], nonce)
	}
	return BatchCallDigest(account, calls, nonce)
}

// TypedDataFor builds the EIP-712 payload for the same authorization. The
// struct hash it produces is distinct from the packed digest: wallets that
// only expose eth_signTypedData sign this form, and the account contract
// accepts either.
func TypedDataFor(chainID *big.Int, account common.Address, calls types.CallBatch, nonce *big.Int) apitypes.TypedData {
	domain := apitypes.TypedDataDomain{
		Name:              types.TypedDataDomainName,
		Version:           types.TypedDataDomainVersion,
		ChainId:           (*math.HexOrDecimal256)(new(big.Int).Set(chainID)),
		VerifyingContract: account.Hex(),
	}

	if len(calls) == 1 {
		call := calls[0]
		return apitypes.TypedData{
			Types: apitypes.Types{
				"EIP712Domain": domainType(),
				"Execute": {
					{Name: "to", Type: "address"},
					{Name: "value", Type: "uint256"},
					{Name: "data", Type: "bytes"},
					{Name: "nonce", Type: "uint256"},
				},
			},
			PrimaryType: "Execute",
			Domain:      domain,
			Message: apitypes.TypedDataMessage{
				"to":    call.To.Hex(),
				"value": (*math.HexOrDecimal256)(valueOrZero(call.Value)),
				"data":  hexutil.Encode(call.Data),
				"nonce": (*math.HexOrDecimal256)(valueOrZero(nonce)),
			},
		}
	}

	targets := make([]string, len(calls))
	values := make([]*math.HexOrDecimal256, len(calls))
	payloads := make([]string, len(calls))
	for i, call := range calls {
		targets[i] = call.To.Hex()
		values[i] = (*math.HexOrDecimal256)(valueOrZero(call.Value))
		payloads[i] = hexutil.Encode(call.Data)
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType(),
			"ExecuteBatch": {
				{Name: "to", Type: "address[]"},
				{Name: "value", Type: "uint256[]"},
				{Name: "data", Type: "bytes[]"},
				{Name: "nonce", Type: "uint256"},
			},
		},
		PrimaryType: "ExecuteBatch",
		Domain:      domain,
		Message: apitypes.TypedDataMessage{
			"to":    targets,
			"value": values,
			"data":  payloads,
			"nonce": (*math.HexOrDecimal256)(valueOrZero(nonce)),
		},
	}
}

// TypedDataHash returns the final EIP-712 signing hash
// keccak256(0x1901 || domainSeparator || structHash).
func TypedDataHash(typedData apitypes.TypedData) (common.Hash, error) {
	raw, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to hash typed data")
	}
	return common.BytesToHash(raw), nil
}

// BuildPayload assembles everything a signer needs for one authorization:
// the packed digest, the typed-data form, and its hash, together with the
// inputs they were derived from.
func BuildPayload(chainID *big.Int, account common.Address, calls types.CallBatch, nonce *big.Int) (*types.SigningPayload, error) {
	if chainID == nil {
		return nil, errors.New("chainID is required")
	}
	if err := calls.Validate(); err != nil {
		return nil, err
	}

	typedData := TypedDataFor(chainID, account, calls, nonce)
	typedHash, err := TypedDataHash(typedData)
	if err != nil {
		return nil, err
	}

	return &types.SigningPayload{
		ChainID:       new(big.Int).Set(chainID),
		SmartAccount:  account,
		Calls:         calls.Copy(),
		Nonce:         valueOrZero(nonce),
		Digest:        Compute(account, calls, nonce),
		TypedData:     typedData,
		TypedDataHash: typedHash,
	}, nil
}

func domainType() []apitypes.Type {
	return []apitypes.Type{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	}
}

// u256Word encodes a possibly-nil big.Int as a 32-byte big-endian word.
func u256Word(v *big.Int) []byte {
	return math.U256Bytes(valueOrZero(v))
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
