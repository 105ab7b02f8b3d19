package badger

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Key prefixes for namespacing
const (
	keyPrefixAccount     = "account:"
	keyPrefixByAccount   = "byaccount:"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"
)

// BadgerAccountStore is a production-ready account store using Badger.
// Provides durable, disk-based storage with ACID guarantees.
type BadgerAccountStore struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewBadgerAccountStore creates a new Badger-backed account store.
// The database is opened at the specified path with SyncWrites enabled for
// durability. A background goroutine is started for garbage collection.
func NewBadgerAccountStore(dataPath string, logger *zap.Logger) (*BadgerAccountStore, error) {
	// Convert to absolute path
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	// Configure Badger for production use
	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = newStoreLogger(logger)
	opts.SyncWrites = true // Ensure durability (fsync on every write)
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1 // We don't need versioning within Badger

	// Open database
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bs := &BadgerAccountStore{
		db:     db,
		logger: logger,
	}

	// Initialize schema version
	if err := bs.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Start background GC
	ctx, cancel := context.WithCancel(context.Background())
	bs.gcCancel = cancel
	bs.gcWg.Add(1)
	go bs.runGC(ctx)

	logger.Sugar().Infow("Badger account store initialized", "path", absPath)

	return bs, nil
}

// initSchema initializes or validates the schema version
func (b *BadgerAccountStore) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			// First time setup - set schema version
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		// Validate existing schema version
		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read schema version value: %w", err)
		}

		if existingVersion != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}

		return nil
	})
}

// runGC runs periodic garbage collection in the background
func (b *BadgerAccountStore) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Run value log GC with 0.5 discard ratio
			err := b.db.RunValueLogGC(0.5)
			if err != nil && err != badgerdb.ErrNoRewrite {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// SaveAccount persists a smart-account record
func (b *BadgerAccountStore) SaveAccount(record *types.SmartAccountRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil SmartAccountRecord")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("account store is closed")
	}

	// Copy so stamping UpdatedAt never mutates the caller's record
	stored := record.Copy()
	stored.UpdatedAt = time.Now().Unix()

	// Serialize to JSON
	data, err := accountStore.MarshalAccountRecord(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal SmartAccountRecord: %w", err)
	}

	// Store the record plus the smart-account index entry
	key := accountKey(stored.Owner)
	indexKey := byAccountKey(stored.SmartAccount)
	return b.db.Update(func(txn *badgerdb.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(indexKey, stored.Owner.Bytes())
	})
}

// GetAccount retrieves the record for an owner address
func (b *BadgerAccountStore) GetAccount(owner common.Address) (*types.SmartAccountRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("account store is closed")
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(accountKey(owner))
		if err == badgerdb.ErrKeyNotFound {
			return nil // Not found is not an error
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...) // Copy value
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to load SmartAccountRecord: %w", err)
	}

	if data == nil {
		return nil, nil // Not found
	}

	// Deserialize from JSON
	record, err := accountStore.UnmarshalAccountRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal SmartAccountRecord: %w", err)
	}

	return record, nil
}

// GetAccountBySmartAccount retrieves the record for a smart account address
func (b *BadgerAccountStore) GetAccountBySmartAccount(account common.Address) (*types.SmartAccountRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("account store is closed")
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		owner, err := resolveOwner(txn, account)
		if err == badgerdb.ErrKeyNotFound {
			return nil // Not found is not an error
		}
		if err != nil {
			return err
		}

		item, err := txn.Get(accountKey(owner))
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...) // Copy value
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to load SmartAccountRecord: %w", err)
	}

	if data == nil {
		return nil, nil // Not found
	}

	record, err := accountStore.UnmarshalAccountRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal SmartAccountRecord: %w", err)
	}

	return record, nil
}

// ListAccounts returns all records sorted by owner address
func (b *BadgerAccountStore) ListAccounts() ([]*types.SmartAccountRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("account store is closed")
	}

	var records []*types.SmartAccountRecord

	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixAccount)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			var data []byte
			err := item.Value(func(val []byte) error {
				data = append([]byte{}, val...) // Copy value
				return nil
			})
			if err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}

			record, err := accountStore.UnmarshalAccountRecord(data)
			if err != nil {
				b.logger.Sugar().Warnw("Failed to unmarshal SmartAccountRecord, skipping",
					"key", string(item.Key()), "error", err)
				continue
			}

			records = append(records, record)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list SmartAccountRecords: %w", err)
	}

	// Sort by owner address (ascending)
	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].Owner.Bytes(), records[j].Owner.Bytes()) < 0
	})

	return records, nil
}

// UpdateCachedNonce stores the nonce observed on chain for a smart account
func (b *BadgerAccountStore) UpdateCachedNonce(account common.Address, nonce *big.Int) error {
	if nonce == nil {
		return fmt.Errorf("cannot cache nil nonce - use InvalidateNonce")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("account store is closed")
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		record, owner, err := loadByAccount(txn, account)
		if err == badgerdb.ErrKeyNotFound {
			return fmt.Errorf("no account record for smart account %s", account.Hex())
		}
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
		return txn.Set(accountKey(owner), data)
	})
}

// InvalidateNonce clears the cached nonce for a smart account
func (b *BadgerAccountStore) InvalidateNonce(account common.Address) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("account store is closed")
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		record, owner, err := loadByAccount(txn, account)
		if err == badgerdb.ErrKeyNotFound {
			return nil // Nothing cached, nothing to invalidate
		}
		if err != nil {
			return err
		}
		if record == nil {
			return nil
		}

		record.CachedNonce = nil
		record.UpdatedAt = time.Now().Unix()

		data, err := accountStore.MarshalAccountRecord(record)
		if err != nil {
			return fmt.Errorf("failed to marshal SmartAccountRecord: %w", err)
		}
		return txn.Set(accountKey(owner), data)
	})
}

// Close shuts down the store
func (b *BadgerAccountStore) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil // Already closed, idempotent
	}
	b.closed = true
	b.mu.Unlock()

	// Stop GC goroutine
	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	// Close database
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Info("Badger account store closed")
	return nil
}

// HealthCheck verifies the store is operational
func (b *BadgerAccountStore) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("account store is closed")
	}

	// Try a simple read operation to verify database is accessible
	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return err
	})
}

func accountKey(owner common.Address) []byte {
	return []byte(keyPrefixAccount + owner.Hex())
}

func byAccountKey(account common.Address) []byte {
	return []byte(keyPrefixByAccount + account.Hex())
}

// resolveOwner follows the smart-account index entry to the owner address.
// Returns badgerdb.ErrKeyNotFound when no index entry exists.
func resolveOwner(txn *badgerdb.Txn, account common.Address) (common.Address, error) {
	item, err := txn.Get(byAccountKey(account))
	if err != nil {
		return common.Address{}, err
	}

	var owner common.Address
	err = item.Value(func(val []byte) error {
		if len(val) != common.AddressLength {
			return fmt.Errorf("invalid owner index entry length: %d", len(val))
		}
		owner = common.BytesToAddress(val)
		return nil
	})
	return owner, err
}

// loadByAccount resolves and unmarshals the record behind a smart-account
// index entry. Returns badgerdb.ErrKeyNotFound when no index entry exists
// and a nil record when the index points at a missing record.
func loadByAccount(txn *badgerdb.Txn, account common.Address) (*types.SmartAccountRecord, common.Address, error) {
	owner, err := resolveOwner(txn, account)
	if err != nil {
		return nil, common.Address{}, err
	}

	item, err := txn.Get(accountKey(owner))
	if err == badgerdb.ErrKeyNotFound {
		return nil, owner, nil
	}
	if err != nil {
		return nil, owner, err
	}

	var data []byte
	err = item.Value(func(val []byte) error {
		data = append([]byte{}, val...) // Copy value
		return nil
	})
	if err != nil {
		return nil, owner, err
	}

	record, err := accountStore.UnmarshalAccountRecord(data)
	if err != nil {
		return nil, owner, fmt.Errorf("failed to unmarshal SmartAccountRecord: %w", err)
	}

	return record, owner, nil
}
