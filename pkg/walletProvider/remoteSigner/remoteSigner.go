package remoteSigner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RemoteSigner talks JSON-RPC to an external signing service (Web3Signer or
// compatible). The service holds the key and exposes eth_sign, which applies
// the Ethereum message prefix server-side, and eth_signTypedData. Raw digest
// signing is not offered over this protocol, so the raw-hash and dedicated
// personal-message primitives report ErrPrimitiveUnsupported and callers fall
// through to typed data or the generic message entry point.
type RemoteSigner struct {
	logger     *zap.Logger
	baseUrl    string
	from       string
	httpClient *http.Client
	requestId  atomic.Uint64

	mu      sync.Mutex
	address *common.Address
}

type RemoteSignerConfig struct {
	BaseUrl string
	// FromAddress selects the signing key when the service hosts several.
	// Empty uses the first account the service reports.
	FromAddress string
	Timeout     time.Duration
	Logger      *zap.Logger
}

func DefaultConfig() *RemoteSignerConfig {
	return &RemoteSignerConfig{
		BaseUrl: "http://localhost:9000",
		Timeout: 30 * time.Second,
	}
}

func NewRemoteSigner(cfg *RemoteSignerConfig, logger *zap.Logger) (*RemoteSigner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.BaseUrl == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &RemoteSigner{
		logger:     logger,
		baseUrl:    cfg.BaseUrl,
		from:       cfg.FromAddress,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// SetHttpClient replaces the underlying HTTP client. Useful for tests or
// custom transport configuration.
func (r *RemoteSigner) SetHttpClient(client *http.Client) {
	r.httpClient = client
}

func (r *RemoteSigner) SignerAddress(ctx context.Context) (common.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.address != nil {
		return *r.address, nil
	}

	if r.from != "" {
		if !common.IsHexAddress(r.from) {
			return common.Address{}, fmt.Errorf("invalid from address %q", r.from)
		}
		addr := common.HexToAddress(r.from)
		r.address = &addr
		return addr, nil
	}

	var accounts []string
	if err := r.call(ctx, "eth_accounts", []interface{}{}, &accounts); err != nil {
		return common.Address{}, err
	}
	if len(accounts) == 0 {
		return common.Address{}, fmt.Errorf("remote signer reports no accounts")
	}

	addr := common.HexToAddress(accounts[0])
	r.address = &addr
	r.from = accounts[0]

	r.logger.Debug("Resolved remote signer address", zap.String("address", addr.Hex()))
	return addr, nil
}

func (r *RemoteSigner) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	return nil, walletProvider.ErrPrimitiveUnsupported
}

func (r *RemoteSigner) SignPersonalMessage(ctx context.Context, digest common.Hash) ([]byte, error) {
	return nil, walletProvider.ErrPrimitiveUnsupported
}

func (r *RemoteSigner) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	from, err := r.SignerAddress(ctx)
	if err != nil {
		return nil, err
	}

	var result string
	if err := r.call(ctx, "eth_signTypedData", []interface{}{from.Hex(), typedData}, &result); err != nil {
		return nil, err
	}
	return decodeSignature(result)
}

func (r *RemoteSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	from, err := r.SignerAddress(ctx)
	if err != nil {
		return nil, err
	}

	var result string
	if err := r.call(ctx, "eth_sign", []interface{}{from.Hex(), hexutil.Encode(message)}, &result); err != nil {
		return nil, err
	}
	return decodeSignature(result)
}

type rpcRequest struct {
	JsonRpc string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	Id      uint64        `json:"id"`
}

type rpcResponse struct {
	JsonRpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	Id      uint64          `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (r *RemoteSigner) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	reqBody, err := json.Marshal(rpcRequest{
		JsonRpc: "2.0",
		Method:  method,
		Params:  params,
		Id:      r.requestId.Add(1),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s request", method)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseUrl, bytes.NewReader(reqBody))
	if err != nil {
		return errors.Wrapf(err, "failed to build %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request failed", method)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("remote signer returned status %d for %s: %s", resp.StatusCode, method, string(body))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return errors.Wrapf(err, "failed to parse %s response", method)
	}
	if rpcResp.Error != nil {
		return errors.Wrapf(rpcResp.Error, "%s rejected", method)
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return errors.Wrapf(err, "failed to parse %s result", method)
	}
	return nil
}

func decodeSignature(result string) ([]byte, error) {
	signature, err := hexutil.Decode(result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode signature hex")
	}
	if len(signature) != 64 && len(signature) != 65 {
		return nil, fmt.Errorf("unexpected signature length %d", len(signature))
	}
	return signature, nil
}
