package redis

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key prefixes for namespacing in Redis
const (
	keyPrefixAccount     = "gasway_relay:v1:account:"
	keyPrefixByAccount   = "gasway_relay:v1:byaccount:"
	keySchemaVersion     = "gasway_relay:v1:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Key set for listing operations (Redis doesn't support prefix iteration natively)
	keySetOwners = "gasway_relay:v1:accounts:index"
)

// RedisAccountStore is a production-ready account store using Redis.
// Provides durable, distributed storage suitable for cloud-native deployments.
type RedisAccountStore struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string // Custom prefix for all keys
	mu        sync.RWMutex
	closed    bool
}

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is an optional custom prefix for all keys (for multi-tenant setups).
	// If set, this prefix is prepended to all keys, e.g., "staging:" would result in
	// keys like "staging:gasway_relay:v1:account:0x...". If empty, keys use the
	// default "gasway_relay:v1:" namespace.
	KeyPrefix string
}

// NewRedisAccountStore creates a new Redis-backed account store.
func NewRedisAccountStore(cfg *RedisConfig, logger *zap.Logger) (*RedisAccountStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	// Create Redis client options
	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	// Create Redis client
	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rs := &RedisAccountStore{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	// Initialize schema version
	if err := rs.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if cfg.KeyPrefix != "" {
		logger.Sugar().Infow("Redis account store initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)
	} else {
		logger.Sugar().Infow("Redis account store initialized", "address", cfg.Address, "db", cfg.DB)
	}

	return rs, nil
}

// prefixKey adds the custom key prefix (if configured) to a key
func (r *RedisAccountStore) prefixKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + key
}

func (r *RedisAccountStore) accountKey(owner common.Address) string {
	return r.prefixKey(keyPrefixAccount + owner.Hex())
}

func (r *RedisAccountStore) byAccountKey(account common.Address) string {
	return r.prefixKey(keyPrefixByAccount + account.Hex())
}

// initSchema initializes or validates the schema version
func (r *RedisAccountStore) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	// Check if schema version exists
	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if err == redis.Nil {
		// First time setup - set schema version
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	// Validate existing schema version
	if existingVersion != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}

	return nil
}

// SaveAccount persists a smart-account record
func (r *RedisAccountStore) SaveAccount(record *types.SmartAccountRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil SmartAccountRecord")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("account store is closed")
	}

	ctx := context.Background()

	// Copy so stamping UpdatedAt never mutates the caller's record
	stored := record.Copy()
	stored.UpdatedAt = time.Now().Unix()

	// Serialize to JSON
	data, err := accountStore.MarshalAccountRecord(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal SmartAccountRecord: %w", err)
	}

	// Store record, smart-account index entry and owner index set entry
	// using a pipeline for atomicity
	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.accountKey(stored.Owner), data, 0)
	pipe.Set(ctx, r.byAccountKey(stored.SmartAccount), stored.Owner.Hex(), 0)
	pipe.SAdd(ctx, r.prefixKey(keySetOwners), stored.Owner.Hex())

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save SmartAccountRecord: %w", err)
	}

	return nil
}

// GetAccount retrieves the record for an owner address
func (r *RedisAccountStore) GetAccount(owner common.Address) (*types.SmartAccountRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("account store is closed")
	}

	ctx := context.Background()

	data, err := r.client.Get(ctx, r.accountKey(owner)).Bytes()
	if err == redis.Nil {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load SmartAccountRecord: %w", err)
	}

	// Deserialize from JSON
	record, err := accountStore.UnmarshalAccountRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal SmartAccountRecord: %w", err)
	}

	return record, nil
}

// GetAccountBySmartAccount retrieves the record for a smart account address
func (r *RedisAccountStore) GetAccountBySmartAccount(account common.Address) (*types.SmartAccountRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("account store is closed")
	}

	ctx := context.Background()

	ownerHex, err := r.client.Get(ctx, r.byAccountKey(account)).Result()
	if err == redis.Nil {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve smart-account index: %w", err)
	}

	data, err := r.client.Get(ctx, r.accountKey(common.HexToAddress(ownerHex))).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load SmartAccountRecord: %w", err)
	}

	record, err := accountStore.UnmarshalAccountRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal SmartAccountRecord: %w", err)
	}

	return record, nil
}

// ListAccounts returns all records sorted by owner address
func (r *RedisAccountStore) ListAccounts() ([]*types.SmartAccountRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("account store is closed")
	}

	ctx := context.Background()
	indexKey := r.prefixKey(keySetOwners)

	// Get all owners from the index set
	owners, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list account owners: %w", err)
	}

	if len(owners) == 0 {
		return []*types.SmartAccountRecord{}, nil
	}

	// Build keys for all records
	keys := make([]string, len(owners))
	for i, owner := range owners {
		keys[i] = r.accountKey(common.HexToAddress(owner))
	}

	// Fetch all values using MGET
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch SmartAccountRecords: %w", err)
	}

	// Parse all records
	var records []*types.SmartAccountRecord
	for i, val := range values {
		if val == nil {
			// Key was in index but doesn't exist - clean up index
			r.client.SRem(ctx, indexKey, owners[i])
			continue
		}

		data, ok := val.(string)
		if !ok {
			r.logger.Sugar().Warnw("Unexpected value type for SmartAccountRecord", "key", keys[i])
			continue
		}

		record, err := accountStore.UnmarshalAccountRecord([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal SmartAccountRecord, skipping",
				"key", keys[i], "error", err)
			continue
		}

		records = append(records, record)
	}

	// Sort by owner address (ascending)
	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].Owner.Bytes(), records[j].Owner.Bytes()) < 0
	})

	return records, nil
}

// UpdateCachedNonce stores the nonce observed on chain for a smart account
func (r *RedisAccountStore) UpdateCachedNonce(account common.Address, nonce *big.Int) error {
	if nonce == nil {
		return fmt.Errorf("cannot cache nil nonce - use InvalidateNonce")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("account store is closed")
	}

	ctx := context.Background()

	record, owner, err := r.loadByAccount(ctx, account)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("no account record for smart account %s", account.Hex())
	}

	record.CachedNonce = new(big.Int).Set(nonce)
	record.UpdatedAt = time.Now().Unix()

	data, err := accountStore.MarshalAccountRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal SmartAccountRecord: %w", err)
	}

	return r.client.Set(ctx, r.accountKey(owner), data, 0).Err()
}

// InvalidateNonce clears the cached nonce for a smart account
func (r *RedisAccountStore) InvalidateNonce(account common.Address) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("account store is closed")
	}

	ctx := context.Background()

	record, owner, err := r.loadByAccount(ctx, account)
	if err != nil {
		return err
	}
	if record == nil {
		return nil // Nothing cached, nothing to invalidate
	}

	record.CachedNonce = nil
	record.UpdatedAt = time.Now().Unix()

	data, err := accountStore.MarshalAccountRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal SmartAccountRecord: %w", err)
	}

	return r.client.Set(ctx, r.accountKey(owner), data, 0).Err()
}

// loadByAccount resolves a record through the smart-account index.
// Returns a nil record (and no error) when either the index entry or the
// record itself is missing.
func (r *RedisAccountStore) loadByAccount(ctx context.Context, account common.Address) (*types.SmartAccountRecord, common.Address, error) {
	ownerHex, err := r.client.Get(ctx, r.byAccountKey(account)).Result()
	if err == redis.Nil {
		return nil, common.Address{}, nil
	}
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to resolve smart-account index: %w", err)
	}

	owner := common.HexToAddress(ownerHex)
	data, err := r.client.Get(ctx, r.accountKey(owner)).Bytes()
	if err == redis.Nil {
		return nil, owner, nil
	}
	if err != nil {
		return nil, owner, fmt.Errorf("failed to load SmartAccountRecord: %w", err)
	}

	record, err := accountStore.UnmarshalAccountRecord(data)
	if err != nil {
		return nil, owner, fmt.Errorf("failed to unmarshal SmartAccountRecord: %w", err)
	}

	return record, owner, nil
}

// Close shuts down the store
func (r *RedisAccountStore) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil // Already closed, idempotent
	}
	r.closed = true
	r.mu.Unlock()

	// Close Redis client
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Info("Redis account store closed")
	return nil
}

// HealthCheck verifies the store is operational
func (r *RedisAccountStore) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("account store is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Ping Redis to check connectivity
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	// Verify schema version exists
	schemaKey := r.prefixKey(keySchemaVersion)
	_, err := r.client.Get(ctx, schemaKey).Result()
	if err == redis.Nil {
		return fmt.Errorf("schema version not found - database may not be properly initialized")
	}
	if err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}

	return nil
}
