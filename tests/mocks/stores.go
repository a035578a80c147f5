package mocks

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/diirlabs/station-service/pkg/types"
)

// MockWalletStore is an in-memory wallet store with the same conditional-put
// semantics as the Postgres repository: CreateIfAbsent either inserts exactly
// once per user id or reports a conflict.
type MockWalletStore struct {
	mu      sync.Mutex
	wallets map[string]*types.Wallet

	// Behavior controls.
	failGet    bool
	failCreate bool

	// BeforeCreate runs inside CreateIfAbsent before the insert check,
	// outside the lock. Tests use it to interleave a competing writer.
	BeforeCreate func()
}

// NewMockWalletStore creates an empty in-memory wallet store.
func NewMockWalletStore() *MockWalletStore {
	return &MockWalletStore{wallets: make(map[string]*types.Wallet)}
}

// GetByUserID returns the stored wallet, or nil when absent.
func (m *MockWalletStore) GetByUserID(ctx context.Context, userID string) (*types.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failGet {
		return nil, fmt.Errorf("mock store: get failure")
	}

	wallet, ok := m.wallets[userID]
	if !ok {
		return nil, nil
	}
	copied := *wallet
	return &copied, nil
}

// CreateIfAbsent inserts the wallet unless one already exists for the user.
func (m *MockWalletStore) CreateIfAbsent(ctx context.Context, wallet *types.Wallet) (bool, error) {
	if m.BeforeCreate != nil {
		m.BeforeCreate()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreate {
		return false, fmt.Errorf("mock store: create failure")
	}

	if _, ok := m.wallets[wallet.UserID]; ok {
		return false, nil
	}

	copied := *wallet
	copied.CreatedAt = time.Now().UTC()
	m.wallets[wallet.UserID] = &copied
	wallet.CreatedAt = copied.CreatedAt
	return true, nil
}

// Put stores a wallet directly, bypassing conflict checks.
func (m *MockWalletStore) Put(wallet *types.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *wallet
	m.wallets[wallet.UserID] = &copied
}

// SetFailGet makes GetByUserID fail.
func (m *MockWalletStore) SetFailGet(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGet = fail
}

// SetFailCreate makes CreateIfAbsent fail.
func (m *MockWalletStore) SetFailCreate(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failCreate = fail
}

// Len returns the number of stored wallets.
func (m *MockWalletStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.wallets)
}

// MockStatusStore is an in-memory publish/upload status store.
type MockStatusStore struct {
	mu       sync.Mutex
	publish  map[string]*types.StatusRecord
	upload   map[string]*types.StatusRecord
	failSets bool
}

// NewMockStatusStore creates an empty status store.
func NewMockStatusStore() *MockStatusStore {
	return &MockStatusStore{
		publish: make(map[string]*types.StatusRecord),
		upload:  make(map[string]*types.StatusRecord),
	}
}

// SetPublishStatus upserts the publish state for a station.
func (m *MockStatusStore) SetPublishStatus(ctx context.Context, station, status string) error {
	return m.set(m.publish, station, status)
}

// SetUploadStatus upserts the upload state for a station.
func (m *MockStatusStore) SetUploadStatus(ctx context.Context, station, status string) error {
	return m.set(m.upload, station, status)
}

// GetPublishStatus returns the publish state, or nil when absent.
func (m *MockStatusStore) GetPublishStatus(ctx context.Context, station string) (*types.StatusRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.publish[station], nil
}

// GetUploadStatus returns the upload state, or nil when absent.
func (m *MockStatusStore) GetUploadStatus(ctx context.Context, station string) (*types.StatusRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upload[station], nil
}

// SetFailWrites makes the Set methods fail.
func (m *MockStatusStore) SetFailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSets = fail
}

func (m *MockStatusStore) set(table map[string]*types.StatusRecord, station, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSets {
		return fmt.Errorf("mock store: write failure")
	}

	table[station] = &types.StatusRecord{
		ID:        station,
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

// MockBalanceReader serves fixed balances per address.
type MockBalanceReader struct {
	mu       sync.Mutex
	balances map[string]*big.Int
	err      error
}

// NewMockBalanceReader creates an empty balance reader.
func NewMockBalanceReader() *MockBalanceReader {
	return &MockBalanceReader{balances: make(map[string]*big.Int)}
}

// SetBalance sets the balance returned for an address.
func (m *MockBalanceReader) SetBalance(address string, wei *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[address] = wei
}

// SetError makes GetBalance fail.
func (m *MockBalanceReader) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetBalance returns the configured balance, defaulting to zero.
func (m *MockBalanceReader) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if wei, ok := m.balances[address]; ok {
		return new(big.Int).Set(wei), nil
	}
	return big.NewInt(0), nil
}
