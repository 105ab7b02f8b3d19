package relayClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
)

// DefaultTimeout bounds each request when the config leaves Timeout unset.
const DefaultTimeout = 30 * time.Second

// ClientConfig holds the configuration for the relay client
type ClientConfig struct {
	// BaseURL is the relay server address, e.g. "http://localhost:8080"
	BaseURL string
	// Timeout bounds each HTTP request; zero means DefaultTimeout
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client provides a reusable library interface for the relay v1 API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new relay client instance
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     config.Logger,
	}, nil
}

// SetHttpClient allows setting a custom HTTP client for the relay client.
// This is useful for testing or when custom HTTP client configuration is needed.
func (c *Client) SetHttpClient(client *http.Client) {
	c.httpClient = client
}

// GetDigestToSign asks the server for the digest the owner must sign for the
// given calls, along with the nonce and smart account it is bound to.
func (c *Client) GetDigestToSign(ctx context.Context, owner common.Address, calls types.CallBatch) (*types.DigestResponse, error) {
	c.logger.Sugar().Debugw("Requesting digest", "owner", owner.Hex(), "calls", len(calls))

	var resp types.DigestResponse
	if err := c.post(ctx, "/v1/relay/digest", types.DigestRequest{Owner: owner, Calls: calls}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitRelay submits a signed authorization for execution through the
// owner's smart account, gas paid by the relayer.
func (c *Client) SubmitRelay(ctx context.Context, request *types.RelayRequest) (*types.RelayResponse, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	c.logger.Sugar().Debugw("Submitting relay request",
		"owner", request.Owner.Hex(),
		"calls", len(request.Calls),
		"scheme", string(request.Scheme),
	)

	var resp types.RelayResponse
	if err := c.post(ctx, "/v1/relay/submit", request, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccount reports the owner's smart account without deploying it.
func (c *Client) GetAccount(ctx context.Context, owner common.Address) (*types.AccountResponse, error) {
	var resp types.AccountResponse
	if err := c.get(ctx, "/v1/account?owner="+url.QueryEscape(owner.Hex()), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health reports the server's health and the relayer's funding.
func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	var resp types.HealthResponse
	if err := c.get(ctx, "/v1/healthz", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// decodeError rebuilds the server's typed failure from the error payload, so
// callers see the same failure kinds on both sides of the wire.
func (c *Client) decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp types.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		if errResp.Kind != "" {
			return types.NewRelayErrorFromKind(errResp.Kind, errResp.Error, errResp.Retryable)
		}
		return fmt.Errorf("relay server returned status %d: %s", resp.StatusCode, errResp.Error)
	}

	return fmt.Errorf("relay server returned status %d: %s", resp.StatusCode, string(body))
}
