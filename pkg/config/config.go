package config

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for relay server configuration
const (
	EnvRelayPort              = "RELAY_PORT"
	EnvRelayChainID           = "RELAY_CHAIN_ID"
	EnvRelayRPCURL            = "RELAY_RPC_URL"
	EnvRelayFactoryAddress    = "RELAY_FACTORY_ADDRESS"
	EnvRelayRelayerKeySource  = "RELAY_RELAYER_KEY_SOURCE"
	EnvRelayRelayerPrivateKey = "RELAY_RELAYER_PRIVATE_KEY"
	EnvRelayKMSKeyID          = "RELAY_KMS_KEY_ID"
	EnvRelayAWSRegion         = "RELAY_AWS_REGION"
	EnvRelayStoreBackend      = "RELAY_STORE_BACKEND"
	EnvRelayRedisAddr         = "RELAY_REDIS_ADDR"
	EnvRelayRedisPassword     = "RELAY_REDIS_PASSWORD"
	EnvRelayBadgerPath        = "RELAY_BADGER_PATH"
	EnvRelayDigestCrossCheck  = "RELAY_DIGEST_CROSS_CHECK"
	EnvRelayOwnerRateLimit    = "RELAY_OWNER_RATE_LIMIT"
	EnvRelayOwnerRateBurst    = "RELAY_OWNER_RATE_BURST"
	EnvRelayReceiptTimeout    = "RELAY_RECEIPT_TIMEOUT"
	EnvRelayDeployTimeout     = "RELAY_DEPLOY_TIMEOUT"
	EnvRelayDebug             = "RELAY_DEBUG"
)

// KeySource selects where the relayer's funded key lives.
type KeySource string

func (k KeySource) String() string {
	return string(k)
}

const (
	KeySourcePrivateKey KeySource = "private_key"
	KeySourceAWSKMS     KeySource = "aws_kms"
)

// StoreBackend selects the smart-account record store implementation.
type StoreBackend string

func (s StoreBackend) String() string {
	return string(s)
}

const (
	StoreBackendMemory StoreBackend = "memory"
	StoreBackendRedis  StoreBackend = "redis"
	StoreBackendBadger StoreBackend = "badger"
)

type ChainId uint

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

type ChainName string

const (
	ChainName_EthereumMainnet ChainName = "mainnet"
	ChainName_EthereumSepolia ChainName = "sepolia"
	ChainName_EthereumAnvil   ChainName = "devnet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet: ChainName_EthereumMainnet,
	ChainId_EthereumSepolia: ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:   ChainName_EthereumAnvil,
}
var ChainNameToId = map[ChainName]ChainId{
	ChainName_EthereumMainnet: ChainId_EthereumMainnet,
	ChainName_EthereumSepolia: ChainId_EthereumSepolia,
	ChainName_EthereumAnvil:   ChainId_EthereumAnvil,
}

// GetFallbackGasTipCapForChain returns the priority fee used when the RPC
// does not support eth_maxPriorityFeePerGas.
func GetFallbackGasTipCapForChain(chainId ChainId) *big.Int {
	switch chainId {
	case ChainId_EthereumMainnet, ChainId_EthereumSepolia:
		return big.NewInt(1500000000) // 1.5 gwei
	case ChainId_EthereumAnvil:
		return big.NewInt(1000000000) // 1 gwei
	default:
		return big.NewInt(1500000000)
	}
}

// GetBaseFeeMultiplierForChain returns the base-fee headroom multiplier for
// maxFeePerGas so submissions survive fee spikes between estimate and mine.
func GetBaseFeeMultiplierForChain(chainId ChainId) int64 {
	switch chainId {
	case ChainId_EthereumMainnet:
		return 3
	default:
		return 2
	}
}

// GetReceiptTimeoutForChain returns the default bounded wait for a
// submission receipt.
func GetReceiptTimeoutForChain(chainId ChainId) time.Duration {
	switch chainId {
	case ChainId_EthereumMainnet:
		// ~10 blocks at 12s
		return 2 * time.Minute
	case ChainId_EthereumSepolia:
		return 90 * time.Second
	case ChainId_EthereumAnvil:
		return 15 * time.Second
	default:
		return 2 * time.Minute
	}
}

// GetDeployTimeoutForChain returns the default bounded wait for an account
// deployment receipt. Deployments are rarer and heavier than executions, so
// the bound is wider.
func GetDeployTimeoutForChain(chainId ChainId) time.Duration {
	switch chainId {
	case ChainId_EthereumAnvil:
		return 30 * time.Second
	default:
		return 3 * time.Minute
	}
}

// RelayContractAddresses holds the per-chain addresses of the fixed external
// contracts the relay talks to.
type RelayContractAddresses struct {
	SmartAccountFactory string
}

var (
	ethereumSepoliaRelayContracts = &RelayContractAddresses{
		SmartAccountFactory: "0x8aC2D54a0b6a6e4E1cCA61b3Ec6f65F5cbbE9C27",
	}

	RelayContracts = map[ChainId]*RelayContractAddresses{
		ChainId_EthereumMainnet: {
			SmartAccountFactory: "", // no default; must be supplied explicitly
		},
		ChainId_EthereumSepolia: ethereumSepoliaRelayContracts,
		ChainId_EthereumAnvil: {
			// first contract deployed from the default anvil account
			SmartAccountFactory: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		},
	}
)

func GetRelayContractsForChainId(chainId ChainId) (*RelayContractAddresses, error) {
	contracts, ok := RelayContracts[chainId]
	if !ok {
		return nil, fmt.Errorf("unsupported chain ID: %d", chainId)
	}
	return contracts, nil
}

// GetSupportedChainIDs returns all supported chain IDs
func GetSupportedChainIDs() []ChainId {
	return []ChainId{
		ChainId_EthereumMainnet,
		ChainId_EthereumSepolia,
		ChainId_EthereumAnvil,
	}
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (sepolia), %d (anvil)",
		ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil)
}

// RelayerKeyConfig configures the relayer's funded signing key.
type RelayerKeyConfig struct {
	Source     KeySource `json:"source"`
	PrivateKey string    `json:"private_key,omitempty"` // hex, with or without 0x prefix
	KMSKeyID   string    `json:"kms_key_id,omitempty"`
	AWSRegion  string    `json:"aws_region,omitempty"`
}

func (rkc *RelayerKeyConfig) Validate() error {
	var allErrors field.ErrorList
	switch rkc.Source {
	case KeySourcePrivateKey:
		if rkc.PrivateKey == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("privateKey"), "privateKey is required for private_key source"))
		} else {
			key := strings.TrimPrefix(rkc.PrivateKey, "0x")
			if len(key) != 64 {
				allErrors = append(allErrors, field.Invalid(field.NewPath("privateKey"), "<redacted>", "private key must be 32 bytes (64 hex chars)"))
			}
		}
	case KeySourceAWSKMS:
		if rkc.KMSKeyID == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("kmsKeyId"), "kmsKeyId is required for aws_kms source"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(field.NewPath("source"), rkc.Source, []string{string(KeySourcePrivateKey), string(KeySourceAWSKMS)}))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// StoreConfig configures the smart-account record store.
type StoreConfig struct {
	Backend       StoreBackend `json:"backend"`
	RedisAddr     string       `json:"redis_addr,omitempty"`
	RedisPassword string       `json:"redis_password,omitempty"`
	BadgerPath    string       `json:"badger_path,omitempty"`
}

func (sc *StoreConfig) Validate() error {
	var allErrors field.ErrorList
	switch sc.Backend {
	case StoreBackendMemory:
	case StoreBackendRedis:
		if sc.RedisAddr == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("redisAddr"), "redisAddr is required for redis backend"))
		}
	case StoreBackendBadger:
		if sc.BadgerPath == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("badgerPath"), "badgerPath is required for badger backend"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(field.NewPath("backend"), sc.Backend, []string{string(StoreBackendMemory), string(StoreBackendRedis), string(StoreBackendBadger)}))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// RateLimitConfig bounds how fast the relayer will spend gas per owner.
// A zero OwnerRPS disables limiting.
type RateLimitConfig struct {
	OwnerRPS   float64 `json:"owner_rps"`
	OwnerBurst int     `json:"owner_burst"`
}

// RelayServerConfig represents the complete configuration for a relay server
type RelayServerConfig struct {
	Port int `json:"port"`

	// Chain configuration
	ChainID   ChainId   `json:"chain_id"`
	ChainName ChainName `json:"chain_name"`

	// Blockchain configuration
	RpcUrl         string `json:"rpc_url"`
	FactoryAddress string `json:"factory_address"` // SmartAccountFactory contract

	// Relayer key
	RelayerKey RelayerKeyConfig `json:"relayer_key"`

	// Smart-account record store
	Store StoreConfig `json:"store"`

	// Operational settings
	DigestCrossCheck bool            `json:"digest_cross_check"` // verify local digests against the contract views
	ReceiptTimeout   time.Duration   `json:"receipt_timeout"`
	DeployTimeout    time.Duration   `json:"deploy_timeout"`
	RateLimit        RateLimitConfig `json:"rate_limit"`
	Debug            bool            `json:"debug"`
}

// Validate validates the relay server configuration and fills chain-derived
// defaults (chain name, factory address, timeouts).
func (c *RelayServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1-65535, got %d", c.Port)
	}

	chainName, exists := ChainIdToName[c.ChainID]
	if !exists {
		return fmt.Errorf("unsupported chain ID %d. Supported: %s", c.ChainID, GetSupportedChainIDsString())
	}
	c.ChainName = chainName

	if c.RpcUrl == "" {
		return fmt.Errorf("rpc url cannot be empty")
	}

	if c.FactoryAddress == "" {
		contracts, err := GetRelayContractsForChainId(c.ChainID)
		if err != nil {
			return fmt.Errorf("failed to get relay contracts: %w", err)
		}
		c.FactoryAddress = contracts.SmartAccountFactory
	}
	if c.FactoryAddress == "" {
		return fmt.Errorf("no default factory address for chain %d; set %s", c.ChainID, EnvRelayFactoryAddress)
	}
	if !common.IsHexAddress(c.FactoryAddress) {
		return fmt.Errorf("invalid factory address format: %s", c.FactoryAddress)
	}

	if err := c.RelayerKey.Validate(); err != nil {
		return fmt.Errorf("relayer key config invalid: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config invalid: %w", err)
	}

	if c.ReceiptTimeout <= 0 {
		c.ReceiptTimeout = GetReceiptTimeoutForChain(c.ChainID)
	}
	if c.DeployTimeout <= 0 {
		c.DeployTimeout = GetDeployTimeoutForChain(c.ChainID)
	}
	if c.RateLimit.OwnerRPS < 0 {
		return fmt.Errorf("owner rate limit must not be negative")
	}
	if c.RateLimit.OwnerRPS > 0 && c.RateLimit.OwnerBurst < 1 {
		c.RateLimit.OwnerBurst = 1
	}

	return nil
}
