package types

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// SigningScheme identifies the wallet RPC primitive that produced a signature.
// Each primitive applies a different transform to the digest before signing,
// so the scheme must travel with the signature for the verifier to know which
// transform to reverse.
type SigningScheme string

const (
	// SchemeRawHash signs the 32-byte digest directly, no transform.
	SchemeRawHash SigningScheme = "raw_hash"
	// SchemePersonalSign signs through the wallet's personal-message endpoint,
	// which applies the Ethereum signed-message prefix to the digest bytes.
	SchemePersonalSign SigningScheme = "personal_sign"
	// SchemeTypedDataV4 signs the EIP-712 hash of the typed call batch.
	SchemeTypedDataV4 SigningScheme = "typed_data_v4"
	// SchemePrefixedMessage signs the digest bytes through the generic
	// message endpoint, which always applies the signed-message prefix.
	SchemePrefixedMessage SigningScheme = "prefixed_message"
)

// AllSigningSchemes returns the schemes in acquisition priority order. Raw
// signing needs no reversal so it comes first; the prefixed generic endpoint
// is the last resort.
func AllSigningSchemes() []SigningScheme {
	return []SigningScheme{
		SchemeRawHash,
		SchemePersonalSign,
		SchemeTypedDataV4,
		SchemePrefixedMessage,
	}
}

// Valid reports whether s is one of the four known schemes.
func (s SigningScheme) Valid() bool {
	switch s {
	case SchemeRawHash, SchemePersonalSign, SchemeTypedDataV4, SchemePrefixedMessage:
		return true
	}
	return false
}

// ParseSigningScheme parses a scheme string as it appears on the wire.
func ParseSigningScheme(s string) (SigningScheme, error) {
	scheme := SigningScheme(strings.ToLower(strings.TrimSpace(s)))
	if !scheme.Valid() {
		return "", fmt.Errorf("unknown signing scheme %q", s)
	}
	return scheme, nil
}

// Call is a single target invocation to be executed by a smart account.
// Immutable once constructed.
type Call struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

type callJSON struct {
	To    common.Address `json:"to"`
	Value string         `json:"value,omitempty"`
	Data  hexutil.Bytes  `json:"data,omitempty"`
}

// MarshalJSON encodes the value as a decimal string so uint256 amounts
// survive JSON number precision limits.
func (c Call) MarshalJSON() ([]byte, error) {
	out := callJSON{
		To:   c.To,
		Data: c.Data,
	}
	if c.Value != nil {
		out.Value = c.Value.String()
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the value as a decimal string or a 0x-hex string.
func (c *Call) UnmarshalJSON(data []byte) error {
	var in callJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	value := new(big.Int)
	switch {
	case in.Value == "":
		// absent value means zero
	case strings.HasPrefix(in.Value, "0x") || strings.HasPrefix(in.Value, "0X"):
		parsed, err := hexutil.DecodeBig(in.Value)
		if err != nil {
			return fmt.Errorf("invalid call value %q: %w", in.Value, err)
		}
		value = parsed
	default:
		if _, ok := value.SetString(in.Value, 10); !ok {
			return fmt.Errorf("invalid call value %q", in.Value)
		}
	}
	if value.Sign() < 0 {
		return fmt.Errorf("call value must not be negative")
	}
	c.To = in.To
	c.Value = value
	c.Data = in.Data
	return nil
}

// CallBatch is an ordered sequence of calls. Order is semantically
// significant: it is hashed in-order and executed in-order.
type CallBatch []Call

// Validate checks the batch is executable.
func (b CallBatch) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("call batch must contain at least one call")
	}
	for i, call := range b {
		if call.Value != nil && call.Value.Sign() < 0 {
			return fmt.Errorf("call %d: value must not be negative", i)
		}
	}
	return nil
}

// Single reports whether the batch degenerates to a single call, which routes
// through the single-call digest encoding and execution entry point.
func (b CallBatch) Single() bool {
	return len(b) == 1
}

// Targets returns the call targets aligned by index.
func (b CallBatch) Targets() []common.Address {
	out := make([]common.Address, len(b))
	for i, call := range b {
		out[i] = call.To
	}
	return out
}

// Values returns the call values aligned by index, nil normalized to zero.
func (b CallBatch) Values() []*big.Int {
	out := make([]*big.Int, len(b))
	for i, call := range b {
		if call.Value == nil {
			out[i] = new(big.Int)
		} else {
			out[i] = new(big.Int).Set(call.Value)
		}
	}
	return out
}

// Payloads returns the call data slices aligned by index.
func (b CallBatch) Payloads() [][]byte {
	out := make([][]byte, len(b))
	for i, call := range b {
		out[i] = call.Data
	}
	return out
}

// Copy returns a deep copy of the batch.
func (b CallBatch) Copy() CallBatch {
	out := make(CallBatch, len(b))
	for i, call := range b {
		out[i] = Call{
			To:   call.To,
			Data: append([]byte(nil), call.Data...),
		}
		if call.Value != nil {
			out[i].Value = new(big.Int).Set(call.Value)
		}
	}
	return out
}

// SigningPayload carries everything a signer or verifier needs for one
// authorization: the packed digest the contract verifies and the EIP-712
// object whose hash the typed-data primitive signs. All fields are
// deterministic functions of (chainID, smartAccount, calls, nonce).
type SigningPayload struct {
	ChainID       *big.Int
	SmartAccount  common.Address
	Calls         CallBatch
	Nonce         *big.Int
	Digest        common.Hash
	TypedData     apitypes.TypedData
	TypedDataHash common.Hash
}

// SignedAuthorization is the output of signature acquisition: the canonical
// 65-byte signature and the scheme that produced it.
type SignedAuthorization struct {
	Signature hexutil.Bytes `json:"signature"`
	Scheme    SigningScheme `json:"scheme"`
}

// SmartAccountRecord is the relay layer's cached view of one smart account.
// CachedNonce is nil when unknown; it is invalidated after every successful
// execution on the account because the on-chain nonce has advanced.
type SmartAccountRecord struct {
	Owner        common.Address `json:"owner"`
	SmartAccount common.Address `json:"smartAccount"`
	Deployed     bool           `json:"deployed"`
	CachedNonce  *big.Int       `json:"cachedNonce,omitempty"`
	UpdatedAt    int64          `json:"updatedAt"`
}

// Copy returns a deep copy so store backends and callers never share the
// nonce pointer.
func (r *SmartAccountRecord) Copy() *SmartAccountRecord {
	if r == nil {
		return nil
	}
	out := &SmartAccountRecord{
		Owner:        r.Owner,
		SmartAccount: r.SmartAccount,
		Deployed:     r.Deployed,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.CachedNonce != nil {
		out.CachedNonce = new(big.Int).Set(r.CachedNonce)
	}
	return out
}

// TypedDataDomainName and TypedDataDomainVersion are the EIP-712 domain
// values the smart-account contract advertises.
const (
	TypedDataDomainName    = "SmartAccount"
	TypedDataDomainVersion = "1"
)
