package testutil

import (
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountResolver"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore/memory"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/contractCaller"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/relay"
	"go.uber.org/zap/zaptest"
)

// TestChainID is the chain id the harness executor is bound to.
var TestChainID = big.NewInt(31337)

// TestRelayServer is a fully wired relay server behind httptest, backed by
// the simulated contract caller and the in-memory account store. Tests reach
// into Caller and Store to arrange chain and cache state.
type TestRelayServer struct {
	Server   *httptest.Server
	URL      string
	Caller   *contractCaller.TestableContractCaller
	Store    *memory.MemoryAccountStore
	Executor *relay.RelayExecutor
}

// HarnessConfig tunes the executor under test. The zero value means no
// digest cross-check and no rate limiting.
type HarnessConfig struct {
	ExecutorConfig *relay.ExecutorConfig
}

// NewTestRelayServer starts a relay server on a loopback listener and tears
// it down with the test.
func NewTestRelayServer(t *testing.T) *TestRelayServer {
	return NewTestRelayServerWithConfig(t, &HarnessConfig{})
}

func NewTestRelayServerWithConfig(t *testing.T, cfg *HarnessConfig) *TestRelayServer {
	l := zaptest.NewLogger(t)

	caller := contractCaller.NewTestableContractCaller()
	store := memory.NewMemoryAccountStore()

	resolver, err := accountResolver.NewSmartAccountResolver(caller, store, 2*time.Second, l)
	if err != nil {
		t.Fatalf("failed to create resolver: %v", err)
	}

	executorConfig := cfg.ExecutorConfig
	if executorConfig == nil {
		executorConfig = &relay.ExecutorConfig{
			ChainID:        TestChainID,
			ReceiptTimeout: 2 * time.Second,
		}
	}
	executor, err := relay.NewRelayExecutor(executorConfig, caller, resolver, store, l)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	ts := httptest.NewServer(relay.NewServer(executor, 0).GetHandler())
	t.Cleanup(ts.Close)

	return &TestRelayServer{
		Server:   ts,
		URL:      ts.URL,
		Caller:   caller,
		Store:    store,
		Executor: executor,
	}
}
