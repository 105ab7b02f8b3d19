package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore/memory"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/config"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/contractCaller"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRelayServer(t *testing.T) (*Server, *contractCaller.TestableContractCaller, *memory.MemoryAccountStore) {
	t.Helper()
	return setupRelayServerWithConfig(t, testExecutorConfig())
}

func setupRelayServerWithConfig(t *testing.T, cfg *ExecutorConfig) (*Server, *contractCaller.TestableContractCaller, *memory.MemoryAccountStore) {
	t.Helper()

	caller := contractCaller.NewTestableContractCaller()
	store := memory.NewMemoryAccountStore()
	executor := newTestExecutorWithConfig(t, caller, store, cfg)
	return NewServer(executor, 8080), caller, store
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func getPath(handler http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var resp types.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

// requestDigest runs the digest endpoint for the owner and decodes the result.
func requestDigest(t *testing.T, handler http.Handler, owner common.Address, calls types.CallBatch) types.DigestResponse {
	t.Helper()

	w := postJSON(t, handler, "/v1/relay/digest", types.DigestRequest{Owner: owner, Calls: calls})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.DigestResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHandleDigest(t *testing.T) {
	server, _, _ := setupRelayServer(t)
	handler := server.GetHandler()
	_, owner := newOwnerKey(t)

	t.Run("rejects non-POST requests", func(t *testing.T) {
		w := getPath(handler, "/v1/relay/digest")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/relay/digest", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeErrorResponse(t, w)
		assert.Contains(t, resp.Error, "failed to parse request")
		assert.NotEmpty(t, resp.RequestID)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		w := postJSON(t, handler, "/v1/relay/digest", types.DigestRequest{Calls: sampleCalls(1)})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeErrorResponse(t, w).Error, "owner is required")
	})

	t.Run("rejects an empty call batch", func(t *testing.T) {
		w := postJSON(t, handler, "/v1/relay/digest", types.DigestRequest{Owner: owner})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("issues a digest", func(t *testing.T) {
		resp := requestDigest(t, handler, owner, sampleCalls(2))

		assert.NotEqual(t, common.Hash{}, resp.Digest)
		assert.NotEqual(t, common.Address{}, resp.SmartAccountAddress)
		assert.NotNil(t, resp.Nonce)
		assert.NotEmpty(t, resp.RequestID)
	})
}

func TestHandleSubmit(t *testing.T) {
	server, caller, _ := setupRelayServer(t)
	handler := server.GetHandler()
	key, owner := newOwnerKey(t)
	calls := sampleCalls(1)

	t.Run("rejects non-POST requests", func(t *testing.T) {
		w := getPath(handler, "/v1/relay/submit")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("rejects missing signature", func(t *testing.T) {
		w := postJSON(t, handler, "/v1/relay/submit", types.RelayRequest{
			Owner:  owner,
			Calls:  calls,
			Scheme: types.SchemeRawHash,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeErrorResponse(t, w).Error, "signature is required")
	})

	t.Run("rejects unknown schemes", func(t *testing.T) {
		w := postJSON(t, handler, "/v1/relay/submit", types.RelayRequest{
			Owner:     owner,
			Calls:     calls,
			Signature: make([]byte, 65),
			Scheme:    types.SigningScheme("eip191"),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("relays a signed request", func(t *testing.T) {
		digestResp := requestDigest(t, handler, owner, calls)
		sig, err := crypto.Sign(digestResp.Digest.Bytes(), key)
		require.NoError(t, err)

		w := postJSON(t, handler, "/v1/relay/submit", types.RelayRequest{
			Owner:     owner,
			Calls:     calls,
			Signature: sig,
			Scheme:    types.SchemeRawHash,
			Nonce:     digestResp.Nonce,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp types.RelayResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.NotEqual(t, common.Hash{}, resp.TransactionHash)
		assert.Equal(t, digestResp.SmartAccountAddress, resp.SmartAccountAddress)
		assert.NotEmpty(t, resp.RequestID)
		assert.Len(t, caller.Executions, 1)
	})

	t.Run("maps authorization failures to 403", func(t *testing.T) {
		otherKey, _ := newOwnerKey(t)
		digestResp := requestDigest(t, handler, owner, calls)
		sig, err := crypto.Sign(digestResp.Digest.Bytes(), otherKey)
		require.NoError(t, err)

		w := postJSON(t, handler, "/v1/relay/submit", types.RelayRequest{
			Owner:     owner,
			Calls:     calls,
			Signature: sig,
			Scheme:    types.SchemeRawHash,
			Nonce:     digestResp.Nonce,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)

		resp := decodeErrorResponse(t, w)
		assert.Equal(t, types.KindAuthorization, resp.Kind)
		assert.False(t, resp.Retryable)
		assert.NotEmpty(t, resp.RequestID)
	})

	t.Run("maps stale nonces to 409", func(t *testing.T) {
		digestResp := requestDigest(t, handler, owner, calls)
		sig, err := crypto.Sign(digestResp.Digest.Bytes(), key)
		require.NoError(t, err)

		// The nonce is consumed before the submission arrives.
		caller.AdvanceNonce(digestResp.SmartAccountAddress)

		w := postJSON(t, handler, "/v1/relay/submit", types.RelayRequest{
			Owner:     owner,
			Calls:     calls,
			Signature: sig,
			Scheme:    types.SchemeRawHash,
			Nonce:     digestResp.Nonce,
		})
		assert.Equal(t, http.StatusConflict, w.Code)

		resp := decodeErrorResponse(t, w)
		assert.Equal(t, types.KindStaleNonce, resp.Kind)
		assert.True(t, resp.Retryable)
	})

	t.Run("maps rate limiting to 429", func(t *testing.T) {
		cfg := testExecutorConfig()
		cfg.RateLimit = config.RateLimitConfig{OwnerRPS: 1, OwnerBurst: 1}
		limitedServer, _, _ := setupRelayServerWithConfig(t, cfg)
		limitedHandler := limitedServer.GetHandler()

		limitedKey, limitedOwner := newOwnerKey(t)
		digestResp := requestDigest(t, limitedHandler, limitedOwner, calls)
		sig, err := crypto.Sign(digestResp.Digest.Bytes(), limitedKey)
		require.NoError(t, err)

		request := types.RelayRequest{
			Owner:     limitedOwner,
			Calls:     calls,
			Signature: sig,
			Scheme:    types.SchemeRawHash,
			Nonce:     digestResp.Nonce,
		}

		w := postJSON(t, limitedHandler, "/v1/relay/submit", request)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = postJSON(t, limitedHandler, "/v1/relay/submit", request)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, types.KindRateLimited, decodeErrorResponse(t, w).Kind)
	})

	t.Run("maps resolution failures to 502", func(t *testing.T) {
		failingServer, failingCaller, _ := setupRelayServer(t)
		failingCaller.ViewErr = errors.New("connection refused")

		w := postJSON(t, failingServer.GetHandler(), "/v1/relay/submit", types.RelayRequest{
			Owner:     owner,
			Calls:     calls,
			Signature: make([]byte, 65),
			Scheme:    types.SchemeRawHash,
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, types.KindResolution, decodeErrorResponse(t, w).Kind)
	})
}

func TestHandleAccount(t *testing.T) {
	server, caller, _ := setupRelayServer(t)
	handler := server.GetHandler()
	_, owner := newOwnerKey(t)

	t.Run("rejects non-GET requests", func(t *testing.T) {
		w := postJSON(t, handler, "/v1/account", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("requires the owner parameter", func(t *testing.T) {
		w := getPath(handler, "/v1/account")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		w := getPath(handler, "/v1/account?owner=zzz")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reports an unresolved account without deploying", func(t *testing.T) {
		w := getPath(handler, "/v1/account?owner="+owner.Hex())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp types.AccountResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, owner, resp.Owner)
		assert.False(t, resp.Deployed)
		assert.NotEqual(t, common.Address{}, resp.SmartAccountAddress)
		assert.Zero(t, caller.Creates)
	})

	t.Run("reports a deployed account", func(t *testing.T) {
		requestDigest(t, handler, owner, sampleCalls(1))

		w := getPath(handler, "/v1/account?owner="+owner.Hex())
		require.Equal(t, http.StatusOK, w.Code)

		var resp types.AccountResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.Deployed)
		assert.NotNil(t, resp.CachedNonce)
	})
}

func TestHandleHealth(t *testing.T) {
	server, caller, store := setupRelayServer(t)
	handler := server.GetHandler()

	t.Run("rejects non-GET requests", func(t *testing.T) {
		w := postJSON(t, handler, "/v1/healthz", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("reports healthy", func(t *testing.T) {
		w := getPath(handler, "/v1/healthz")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp types.HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, caller.GetRelayerAddress().Hex(), resp.RelayerAddress)
		assert.Equal(t, "1000000000000000000", resp.RelayerBalance)
	})

	t.Run("reports an unhealthy store", func(t *testing.T) {
		require.NoError(t, store.Close())

		w := getPath(handler, "/v1/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
