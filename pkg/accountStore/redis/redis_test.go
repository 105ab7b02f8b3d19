package redis

import (
	"math/big"
	"os"
	"testing"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/logger"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ accountStore.IAccountStore = (*RedisAccountStore)(nil)

// getTestRedisAddress returns the Redis address for testing.
// Uses REDIS_TEST_ADDRESS env var if set, otherwise defaults to localhost:6379.
func getTestRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// requireRedis skips the test if Redis is not available
func requireRedis(t *testing.T) *RedisAccountStore {
	t.Helper()

	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	cfg := &RedisConfig{
		Address: getTestRedisAddress(),
		DB:      15, // Use DB 15 for tests to avoid conflicts
	}

	rs, err := NewRedisAccountStore(cfg, testLogger)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", cfg.Address, err)
		return nil
	}

	return rs
}

func testRecord(ownerByte, accountByte byte) *types.SmartAccountRecord {
	return &types.SmartAccountRecord{
		Owner:        common.BytesToAddress([]byte{0x7e, ownerByte}),
		SmartAccount: common.BytesToAddress([]byte{0x7e, accountByte, 0x01}),
		Deployed:     true,
		CachedNonce:  big.NewInt(int64(accountByte)),
	}
}

func TestRedisAccountStore_NilConfig(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	_, err := NewRedisAccountStore(nil, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config cannot be nil")
}

func TestRedisAccountStore_EmptyAddress(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	_, err := NewRedisAccountStore(&RedisConfig{}, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address cannot be empty")
}

func TestRedisAccountStore_SaveAndGetAccount(t *testing.T) {
	rs := requireRedis(t)
	defer func() { _ = rs.Close() }()

	record := testRecord(0xaa, 0x01)

	// Save
	err := rs.SaveAccount(record)
	require.NoError(t, err)

	// Load by owner
	loaded, err := rs.GetAccount(record.Owner)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	// Verify
	assert.Equal(t, record.Owner, loaded.Owner)
	assert.Equal(t, record.SmartAccount, loaded.SmartAccount)
	assert.True(t, loaded.Deployed)
	require.NotNil(t, loaded.CachedNonce)
	assert.Zero(t, record.CachedNonce.Cmp(loaded.CachedNonce))

	// Load via the smart-account index
	byAccount, err := rs.GetAccountBySmartAccount(record.SmartAccount)
	require.NoError(t, err)
	require.NotNil(t, byAccount)
	assert.Equal(t, record.Owner, byAccount.Owner)
}

func TestRedisAccountStore_GetAccount_NotFound(t *testing.T) {
	rs := requireRedis(t)
	defer func() { _ = rs.Close() }()

	loaded, err := rs.GetAccount(common.BytesToAddress([]byte{0x7e, 0xff, 0xff}))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisAccountStore_SaveAccount_Nil(t *testing.T) {
	rs := requireRedis(t)
	defer func() { _ = rs.Close() }()

	err := rs.SaveAccount(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil SmartAccountRecord")
}

func TestRedisAccountStore_NonceLifecycle(t *testing.T) {
	rs := requireRedis(t)
	defer func() { _ = rs.Close() }()

	record := testRecord(0xbb, 0x02)
	require.NoError(t, rs.SaveAccount(record))

	// Update the cached nonce
	err := rs.UpdateCachedNonce(record.SmartAccount, big.NewInt(42))
	require.NoError(t, err)

	loaded, err := rs.GetAccount(record.Owner)
	require.NoError(t, err)
	require.NotNil(t, loaded.CachedNonce)
	assert.Equal(t, int64(42), loaded.CachedNonce.Int64())

	// Invalidate it
	err = rs.InvalidateNonce(record.SmartAccount)
	require.NoError(t, err)

	loaded, err = rs.GetAccount(record.Owner)
	require.NoError(t, err)
	assert.Nil(t, loaded.CachedNonce)
}

func TestRedisAccountStore_UpdateCachedNonce_UnknownAccount(t *testing.T) {
	rs := requireRedis(t)
	defer func() { _ = rs.Close() }()

	err := rs.UpdateCachedNonce(common.BytesToAddress([]byte{0x7e, 0xff, 0xfe}), big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no account record")
}

func TestRedisAccountStore_InvalidateNonce_Idempotent(t *testing.T) {
	rs := requireRedis(t)
	defer func() { _ = rs.Close() }()

	err := rs.InvalidateNonce(common.BytesToAddress([]byte{0x7e, 0xff, 0xfd}))
	require.NoError(t, err)
}

func TestRedisAccountStore_ListAccounts(t *testing.T) {
	rs := requireRedis(t)
	defer func() { _ = rs.Close() }()

	saved := make(map[common.Address]bool)
	for i := 1; i <= 3; i++ {
		record := testRecord(byte(0xc0+i), byte(0x10+i))
		require.NoError(t, rs.SaveAccount(record))
		saved[record.Owner] = true
	}

	listed, err := rs.ListAccounts()
	require.NoError(t, err)

	// The test DB is shared, so only require that our records are present
	// and that the result is sorted
	found := 0
	for _, record := range listed {
		if saved[record.Owner] {
			found++
		}
	}
	assert.Equal(t, len(saved), found)

	for i := 0; i < len(listed)-1; i++ {
		assert.Negative(t, listed[i].Owner.Cmp(listed[i+1].Owner))
	}
}

func TestRedisAccountStore_Close(t *testing.T) {
	rs := requireRedis(t)

	err := rs.Close()
	require.NoError(t, err)

	// Operations after close should fail
	err = rs.SaveAccount(testRecord(0xdd, 0x04))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")

	// Second close should also succeed
	err = rs.Close()
	require.NoError(t, err)
}

func TestRedisAccountStore_HealthCheck(t *testing.T) {
	rs := requireRedis(t)
	defer func() { _ = rs.Close() }()

	err := rs.HealthCheck()
	require.NoError(t, err)
}
