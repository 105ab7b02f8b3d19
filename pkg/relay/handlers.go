package relay

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// statusForKind maps a failure kind onto the HTTP status carrying it.
func statusForKind(kind types.FailureKind) int {
	switch kind {
	case types.KindAuthorization:
		return http.StatusForbidden
	case types.KindStaleNonce:
		return http.StatusConflict
	case types.KindRateLimited:
		return http.StatusTooManyRequests
	case types.KindExecutionReverted:
		return http.StatusUnprocessableEntity
	case types.KindResolution:
		return http.StatusBadGateway
	case types.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// handleDigest handles the /v1/relay/digest endpoint
func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	requestID := uuid.New().String()

	// Parse request
	var req types.DigestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, requestID, fmt.Sprintf("failed to parse request: %v", err))
		return
	}

	// Validate required fields
	if req.Owner == (common.Address{}) {
		s.writeBadRequest(w, requestID, "owner is required")
		return
	}
	if err := req.Calls.Validate(); err != nil {
		s.writeBadRequest(w, requestID, err.Error())
		return
	}

	resp, err := s.executor.GetDigestToSign(r.Context(), req.Owner, req.Calls)
	if err != nil {
		s.executor.logger.Sugar().Warnw("Digest request failed",
			"request_id", requestID,
			"owner", req.Owner.Hex(),
			"kind", string(types.KindOf(err)),
			"error", err,
		)
		s.writeError(w, requestID, err)
		return
	}

	resp.RequestID = requestID
	writeJSON(w, http.StatusOK, resp)
}

// handleSubmit handles the /v1/relay/submit endpoint
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	requestID := uuid.New().String()

	// Parse request
	var req types.RelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, requestID, fmt.Sprintf("failed to parse request: %v", err))
		return
	}

	// Validate required fields
	if req.Owner == (common.Address{}) {
		s.writeBadRequest(w, requestID, "owner is required")
		return
	}
	if err := req.Calls.Validate(); err != nil {
		s.writeBadRequest(w, requestID, err.Error())
		return
	}
	if len(req.Signature) == 0 {
		s.writeBadRequest(w, requestID, "signature is required")
		return
	}
	if !req.Scheme.Valid() {
		s.writeBadRequest(w, requestID, fmt.Sprintf("unknown signing scheme %q", req.Scheme))
		return
	}

	resp, err := s.executor.SubmitRelay(r.Context(), &req)
	if err != nil {
		s.executor.logger.Sugar().Warnw("Relay request failed",
			"request_id", requestID,
			"owner", req.Owner.Hex(),
			"kind", string(types.KindOf(err)),
			"retryable", types.IsRetryable(err),
			"error", err,
		)
		s.writeError(w, requestID, err)
		return
	}

	resp.RequestID = requestID
	writeJSON(w, http.StatusOK, resp)
}

// handleAccount handles the /v1/account endpoint
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	requestID := uuid.New().String()

	ownerParam := r.URL.Query().Get("owner")
	if ownerParam == "" {
		s.writeBadRequest(w, requestID, "owner query parameter is required")
		return
	}
	if !common.IsHexAddress(ownerParam) {
		s.writeBadRequest(w, requestID, fmt.Sprintf("invalid owner address %q", ownerParam))
		return
	}

	resp, err := s.executor.DescribeAccount(r.Context(), common.HexToAddress(ownerParam))
	if err != nil {
		s.executor.logger.Sugar().Warnw("Account lookup failed",
			"request_id", requestID,
			"owner", ownerParam,
			"error", err,
		)
		s.writeError(w, requestID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth handles the /v1/healthz endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.executor.store.HealthCheck(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, types.ErrorResponse{
			Error: fmt.Sprintf("account store unhealthy: %v", err),
		})
		return
	}

	balance, err := s.executor.caller.GetRelayerBalance(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, types.ErrorResponse{
			Error: fmt.Sprintf("relayer RPC unhealthy: %v", err),
		})
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:         "ok",
		RelayerAddress: s.executor.caller.GetRelayerAddress().Hex(),
		RelayerBalance: balance.String(),
	})
}

// writeError encodes a typed failure with its kind mapped onto the status
// code, so API clients can rebuild the same error on their side.
func (s *Server) writeError(w http.ResponseWriter, requestID string, err error) {
	kind := types.KindOf(err)
	status := http.StatusInternalServerError
	if kind != "" {
		status = statusForKind(kind)
	}

	writeJSON(w, status, types.ErrorResponse{
		Error:     err.Error(),
		Kind:      kind,
		Retryable: types.IsRetryable(err),
		RequestID: requestID,
	})
}

func (s *Server) writeBadRequest(w http.ResponseWriter, requestID string, message string) {
	writeJSON(w, http.StatusBadRequest, types.ErrorResponse{
		Error:     message,
		RequestID: requestID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
