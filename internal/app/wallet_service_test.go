package app

import (
	"context"
	"math/big"
	"testing"

	"github.com/diirlabs/station-service/internal/keyvault"
	"github.com/diirlabs/station-service/pkg/errors"
	"github.com/diirlabs/station-service/pkg/types"
	"github.com/diirlabs/station-service/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWalletService(env types.Environment, store *mocks.MockWalletStore) (*WalletService, *mocks.MockBalanceReader) {
	vault := keyvault.NewAdapter(mocks.NewMockKMSProvider())
	chain := mocks.NewMockBalanceReader()
	return NewWalletService(env, "test-seed", store, vault, chain), chain
}

func TestGetOrCreateWalletCreatesOnFirstUse(t *testing.T) {
	store := mocks.NewMockWalletStore()
	svc, _ := newWalletService(types.EnvTest, store)

	result, err := svc.GetOrCreateWallet(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, result.UsedExistingWallet)
	assert.Regexp(t, "^0x[0-9a-f]{40}$", result.Address)
	assert.Equal(t, 1, store.Len())
}

func TestGetOrCreateWalletIsIdempotent(t *testing.T) {
	store := mocks.NewMockWalletStore()
	svc, _ := newWalletService(types.EnvTest, store)

	first, err := svc.GetOrCreateWallet(context.Background(), "user-1")
	require.NoError(t, err)

	second, err := svc.GetOrCreateWallet(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, second.UsedExistingWallet)
	assert.Equal(t, first.Address, second.Address)
	assert.Equal(t, 1, store.Len())
}

func TestGetOrCreateWalletDeterministicInDevelopment(t *testing.T) {
	storeA := mocks.NewMockWalletStore()
	storeB := mocks.NewMockWalletStore()
	svcA, _ := newWalletService(types.EnvDevelopment, storeA)
	svcB, _ := newWalletService(types.EnvDevelopment, storeB)

	a, err := svcA.GetOrCreateWallet(context.Background(), "user-1")
	require.NoError(t, err)
	b, err := svcB.GetOrCreateWallet(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, a.Address, b.Address)

	other, err := svcA.GetOrCreateWallet(context.Background(), "user-2")
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, other.Address)
}

func TestGetOrCreateWalletLosesRaceGracefully(t *testing.T) {
	store := mocks.NewMockWalletStore()
	svc, _ := newWalletService(types.EnvTest, store)

	// A competing instance stores the winning wallet between the lookup and
	// the conditional insert.
	winner := &types.Wallet{
		UserID:        "user-1",
		Address:       "0xab5801a7d398351b8be11c439e05c5b3259aec9b",
		KeyCiphertext: []byte("winner-ciphertext"),
	}
	store.BeforeCreate = func() {
		store.Put(winner)
		store.BeforeCreate = nil
	}

	result, err := svc.GetOrCreateWallet(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, result.UsedExistingWallet)
	assert.Equal(t, winner.Address, result.Address)
	assert.Equal(t, 1, store.Len())
}

func TestGetOrCreateWalletRejectsEmptyUserID(t *testing.T) {
	store := mocks.NewMockWalletStore()
	svc, _ := newWalletService(types.EnvTest, store)

	_, err := svc.GetOrCreateWallet(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestGetOrCreateWalletSurfacesVaultFailure(t *testing.T) {
	store := mocks.NewMockWalletStore()
	provider := mocks.NewMockKMSProvider()
	provider.SetShouldFail(true)
	svc := NewWalletService(types.EnvTest, "seed", store, keyvault.NewAdapter(provider), mocks.NewMockBalanceReader())

	_, err := svc.GetOrCreateWallet(context.Background(), "user-1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeKeyServiceFailed))
	assert.Equal(t, 0, store.Len())
}

func TestGetWalletAddress(t *testing.T) {
	store := mocks.NewMockWalletStore()
	svc, _ := newWalletService(types.EnvTest, store)

	addr, err := svc.GetWalletAddress(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, addr)

	created, err := svc.GetOrCreateWallet(context.Background(), "user-1")
	require.NoError(t, err)

	addr, err = svc.GetWalletAddress(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, created.Address, addr)
}

func TestGetBalanceFormatsEther(t *testing.T) {
	store := mocks.NewMockWalletStore()
	svc, chain := newWalletService(types.EnvTest, store)

	address := "0xab5801a7d398351b8be11c439e05c5b3259aec9b"
	wei, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)
	chain.SetBalance(address, wei)

	balance, err := svc.GetBalance(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, "1.5", balance)
}

func TestGetBalanceRejectsBadAddress(t *testing.T) {
	store := mocks.NewMockWalletStore()
	svc, _ := newWalletService(types.EnvTest, store)

	_, err := svc.GetBalance(context.Background(), "not-an-address")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}
