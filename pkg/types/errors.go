package types

import (
	"errors"
)

// FailureKind classifies a relay failure. Every kind implies a different
// client remediation, so kinds are preserved end-to-end and never collapsed
// into a generic "transaction failed".
type FailureKind string

const (
	// KindAuthorization: the signature does not recover to the claimed
	// owner. Rejected before any chain write; never retried silently.
	KindAuthorization FailureKind = "authorization"
	// KindStaleNonce: the account nonce advanced between digest issuance and
	// submission. Retryable after requesting a fresh digest.
	KindStaleNonce FailureKind = "stale_nonce"
	// KindSigningExhausted: no wallet-provider primitive produced a usable
	// signature. Terminal for the current user action.
	KindSigningExhausted FailureKind = "signing_exhausted"
	// KindResolution: factory or account RPC unreachable or reverted while
	// resolving the smart account. Retryable.
	KindResolution FailureKind = "resolution"
	// KindTimeout: a bounded on-chain wait expired. Ambiguous outcome; the
	// transaction may still confirm, so callers must re-query before
	// resubmitting.
	KindTimeout FailureKind = "timeout"
	// KindExecutionReverted: the chain reverted the execution for a reason
	// other than a nonce race. Carries the revert reason verbatim.
	KindExecutionReverted FailureKind = "execution_reverted"
	// KindRateLimited: the relayer declined to spend gas for this owner
	// right now. Retryable after backoff.
	KindRateLimited FailureKind = "rate_limited"
)

// RelayError is the typed failure surfaced by every relay operation.
type RelayError struct {
	Kind         FailureKind
	Op           string
	RevertReason string
	Retryable    bool
	Err          error
}

func (e *RelayError) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.RevertReason != "" {
		msg += ": " + e.RevertReason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// NewAuthorizationError reports a signature that fails verification.
func NewAuthorizationError(op string, err error) *RelayError {
	return &RelayError{Kind: KindAuthorization, Op: op, Err: err}
}

// NewStaleNonceError reports a nonce race, either detected before submission
// or classified from an on-chain revert.
func NewStaleNonceError(op string, revertReason string, err error) *RelayError {
	return &RelayError{Kind: KindStaleNonce, Op: op, RevertReason: revertReason, Retryable: true, Err: err}
}

// NewSigningExhaustedError reports that every signing strategy failed.
func NewSigningExhaustedError(op string, err error) *RelayError {
	return &RelayError{Kind: KindSigningExhausted, Op: op, Err: err}
}

// NewResolutionError reports a failure while resolving or deploying the
// smart account.
func NewResolutionError(op string, err error) *RelayError {
	return &RelayError{Kind: KindResolution, Op: op, Retryable: true, Err: err}
}

// NewTimeoutError reports an expired confirmation wait.
func NewTimeoutError(op string, err error) *RelayError {
	return &RelayError{Kind: KindTimeout, Op: op, Err: err}
}

// NewExecutionRevertedError reports an on-chain revert with the chain's
// reason verbatim.
func NewExecutionRevertedError(op string, revertReason string, err error) *RelayError {
	return &RelayError{Kind: KindExecutionReverted, Op: op, RevertReason: revertReason, Err: err}
}

// NewRateLimitedError reports that the per-owner submission limit was hit.
func NewRateLimitedError(op string) *RelayError {
	return &RelayError{Kind: KindRateLimited, Op: op, Retryable: true}
}

// NewRelayErrorFromKind rebuilds a typed error from its wire form.
func NewRelayErrorFromKind(kind FailureKind, message string, retryable bool) *RelayError {
	return &RelayError{Kind: kind, Retryable: retryable, Err: errors.New(message)}
}

// KindOf returns the failure kind of err, or "" for untyped errors.
func KindOf(err error) FailureKind {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Kind
	}
	return ""
}

// IsRetryable reports whether the caller may retry the same request after
// remediation.
func IsRetryable(err error) bool {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Retryable
	}
	return false
}
