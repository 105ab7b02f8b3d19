package relay

import (
	"fmt"
	"net/http"
)

/*
Server exposes the relay operations over HTTP.

Relay Flow (client perspective):
  POST /v1/relay/digest:
    - Request: { owner, calls }
    - Resolves (and on first use deploys) the owner's smart account
    - Response: { digest, nonce, smartAccountAddress, chainId, requestId }
    - The client signs the digest with one of the wallet primitives and must
      submit with this exact nonce

  POST /v1/relay/submit:
    - Request: { owner, calls, signature, scheme, nonce }
    - Verifies the signature against the owner before anything is submitted
    - Executes through the smart account, gas paid by the relayer
    - Response: { transactionHash, smartAccountAddress, requestId }

  GET /v1/account?owner=0x..:
    - Side-effect free: reports the (predicted or deployed) smart account
      without deploying it

  GET /v1/healthz:
    - Checks the account store and the relayer RPC; reports relayer funding

Error responses are JSON { error, kind, retryable, requestId } with the kind
mapped onto the status code: authorization 403, stale_nonce 409,
rate_limited 429, execution_reverted 422, resolution 502, timeout 504.
Untyped failures are 500; malformed requests are 400.
*/

// Server handles HTTP requests for the relay
type Server struct {
	executor   *RelayExecutor
	httpServer *http.Server
}

// NewServer creates a new server instance
func NewServer(executor *RelayExecutor, port int) *Server {
	s := &Server{
		executor: executor,
	}

	mux := http.NewServeMux()

	// Relay endpoints
	mux.HandleFunc("/v1/relay/digest", s.handleDigest)
	mux.HandleFunc("/v1/relay/submit", s.handleSubmit)

	// Account lookup endpoint
	mux.HandleFunc("/v1/account", s.handleAccount)

	// Health endpoint
	mux.HandleFunc("/v1/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go func() {
		s.executor.logger.Sugar().Infow("Starting HTTP server",
			"relayer_address", s.executor.caller.GetRelayerAddress().Hex(),
			"addr", s.httpServer.Addr,
		)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			s.executor.logger.Sugar().Errorw("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	return s.httpServer.Close()
}

// GetHandler returns the HTTP handler (for testing)
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}
