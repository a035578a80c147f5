package app

import (
	"context"
	"encoding/base64"
	"math/big"
	"testing"

	"github.com/diirlabs/station-service/internal/contracts"
	internalcrypto "github.com/diirlabs/station-service/internal/crypto"
	"github.com/diirlabs/station-service/internal/keyvault"
	"github.com/diirlabs/station-service/pkg/errors"
	"github.com/diirlabs/station-service/pkg/types"
	"github.com/diirlabs/station-service/tests/mocks"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

type stationFixture struct {
	svc       *StationService
	wallets   *mocks.MockWalletStore
	chain     *mocks.MockContracts
	vault     *keyvault.Adapter
	adminAddr common.Address
}

func newStationFixture(t *testing.T, env types.Environment) *stationFixture {
	t.Helper()

	wallets := mocks.NewMockWalletStore()
	chain := mocks.NewMockContracts()
	vault := keyvault.NewAdapter(mocks.NewMockKMSProvider())

	adminKey, err := internalcrypto.KeyFromHex(testAdminKeyHex)
	require.NoError(t, err)
	adminAddr := internalcrypto.Address(adminKey)

	adminCiphertext := ""
	adminHex := ""
	if env == types.EnvDevelopment {
		adminHex = testAdminKeyHex
	} else {
		blob, err := vault.EncryptKey(context.Background(), testAdminKeyHex)
		require.NoError(t, err)
		adminCiphertext = base64.StdEncoding.EncodeToString(blob)
	}

	svc, err := NewStationService(env, wallets, vault, chain, adminHex, adminCiphertext)
	require.NoError(t, err)

	return &stationFixture{
		svc:       svc,
		wallets:   wallets,
		chain:     chain,
		vault:     vault,
		adminAddr: adminAddr,
	}
}

// provisionWallet stores an encrypted wallet for the user and returns its
// lowercase address.
func (f *stationFixture) provisionWallet(t *testing.T, userID string) string {
	t.Helper()

	key, err := internalcrypto.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := f.vault.EncryptKey(context.Background(), internalcrypto.KeyToHex(key))
	require.NoError(t, err)

	f.wallets.Put(&types.Wallet{
		UserID:        userID,
		Address:       internalcrypto.LowercaseAddress(key),
		KeyCiphertext: ciphertext,
	})
	return internalcrypto.LowercaseAddress(key)
}

func TestMintStation(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.provisionWallet(t, "user-1")
	f.chain.ValidNames["radio1"] = true

	result, err := f.svc.MintStation(context.Background(), "user-1", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "Radio1", "ipfs://meta")
	require.NoError(t, err)

	require.NotNil(t, result.TokenID)
	assert.Equal(t, int64(1), *result.TokenID)
	assert.NotEmpty(t, result.TxHash)

	// The name reaches the contract lowercased regardless of caller casing.
	assert.Equal(t, []string{"radio1"}, f.chain.MintedNames)
}

func TestMintStationRejectsTakenName(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.provisionWallet(t, "user-1")

	_, err := f.svc.MintStation(context.Background(), "user-1", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "radio1", "")
	assert.True(t, errors.IsCode(err, errors.ErrCodePolicyDenied))
	assert.Empty(t, f.chain.MintedNames)
}

func TestMintStationRequiresWallet(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.chain.ValidNames["radio1"] = true

	_, err := f.svc.MintStation(context.Background(), "user-1", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "radio1", "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestMintStationRejectsBadInputs(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.provisionWallet(t, "user-1")
	f.chain.ValidNames["radio1"] = true

	_, err := f.svc.MintStation(context.Background(), "user-1", "not-an-address", "radio1", "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	_, err = f.svc.MintStation(context.Background(), "user-1", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "x", "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestMintStationMissingEventStillReturnsHash(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.provisionWallet(t, "user-1")
	f.chain.ValidNames["radio1"] = true
	f.chain.OmitMintEvt = true

	result, err := f.svc.MintStation(context.Background(), "user-1", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "radio1", "")
	require.NoError(t, err)
	assert.Nil(t, result.TokenID)
	assert.NotEmpty(t, result.TxHash)
}

func TestMintStationSubsidized(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.chain.ValidNames["radio1"] = true
	f.chain.GrantRole(f.adminAddr, contracts.AdminRole)

	result, err := f.svc.MintStationSubsidized(context.Background(), "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "radio1")
	require.NoError(t, err)
	require.NotNil(t, result.TokenID)

	// The operator key signed, not a user key.
	require.Len(t, f.chain.Signers, 1)
	assert.Equal(t, f.adminAddr, f.chain.Signers[0])
}

func TestMintStationSubsidizedFirstMintOnly(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.chain.ValidNames["radio2"] = true
	f.chain.GrantRole(f.adminAddr, contracts.AdminRole)

	recipient := common.HexToAddress("0xab5801a7d398351b8be11c439e05c5b3259aec9b")
	f.chain.Balances[recipient] = big.NewInt(1)

	_, err := f.svc.MintStationSubsidized(context.Background(), recipient.Hex(), "radio2")
	assert.True(t, errors.IsCode(err, errors.ErrCodePolicyDenied))
	assert.Empty(t, f.chain.MintedNames)
}

func TestMintStationSubsidizedRequiresAdminRole(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.chain.ValidNames["radio1"] = true

	_, err := f.svc.MintStationSubsidized(context.Background(), "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "radio1")
	assert.True(t, errors.IsCode(err, errors.ErrCodePolicyDenied))
	assert.Empty(t, f.chain.MintedNames)
}

func TestValidateStationName(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.chain.ValidNames["radio1"] = true

	valid, err := f.svc.ValidateStationName(context.Background(), "radio1")
	require.NoError(t, err)
	assert.True(t, valid)

	// Case-insensitive by lowercasing before the contract call.
	valid, err = f.svc.ValidateStationName(context.Background(), "RADIO1")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = f.svc.ValidateStationName(context.Background(), "taken-name")
	require.NoError(t, err)
	assert.False(t, valid)

	// Locally malformed names never reach the chain.
	f.chain.ReadErr = assert.AnError
	valid, err = f.svc.ValidateStationName(context.Background(), "x!")
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = f.svc.ValidateStationName(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestCalculateTips(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)

	quote, err := f.svc.CalculateTips(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), quote.Qty)
	assert.Equal(t, "30000000000000000", quote.Wei)
	assert.Equal(t, "0.03", quote.Amount)

	_, err = f.svc.CalculateTips(context.Background(), 0)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestSendTipsToAddress(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	from := f.provisionWallet(t, "user-1")

	result, err := f.svc.SendTips(context.Background(), "user-1", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", 2)
	require.NoError(t, err)

	assert.Equal(t, from, result.From)
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", result.To)
	assert.Equal(t, "0.02", result.Amount)
	assert.NotEmpty(t, result.TxHash)

	// The attached value is recomputed on-chain, never taken from a client
	// quote.
	require.Len(t, f.chain.TippedValues, 1)
	assert.Equal(t, "20000000000000000", f.chain.TippedValues[0].String())
}

func TestSendTipsResolvesStationName(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.provisionWallet(t, "user-1")

	owner := common.HexToAddress("0xab5801a7d398351b8be11c439e05c5b3259aec9b")
	f.chain.Owners["radio1"] = owner

	result, err := f.svc.SendTips(context.Background(), "user-1", "Radio1", 1)
	require.NoError(t, err)

	require.Len(t, f.chain.TippedTo, 1)
	assert.Equal(t, owner, f.chain.TippedTo[0])
	assert.NotEmpty(t, result.TxHash)
}

func TestSendTipsUnknownStationName(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.provisionWallet(t, "user-1")

	_, err := f.svc.SendTips(context.Background(), "user-1", "nobody", 1)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Empty(t, f.chain.TippedValues)
}

func TestSendTipsMissingEventFallsBack(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.provisionWallet(t, "user-1")
	f.chain.OmitTipEvt = true

	result, err := f.svc.SendTips(context.Background(), "user-1", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", 5)
	require.NoError(t, err)

	assert.Empty(t, result.From)
	assert.Equal(t, "0.05", result.Amount)
	assert.NotEmpty(t, result.TxHash)
}

func TestSendTipsRequiresCaller(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)

	_, err := f.svc.SendTips(context.Background(), "", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", 1)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestSendTipsChainFailure(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.provisionWallet(t, "user-1")
	f.chain.WriteErr = assert.AnError

	_, err := f.svc.SendTips(context.Background(), "user-1", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", 1)
	assert.True(t, errors.IsCode(err, errors.ErrCodeChainFailed))
}

func TestStationOwner(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)

	owner := common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	f.chain.Owners["radio1"] = owner

	got, err := f.svc.StationOwner(context.Background(), "Radio1")
	require.NoError(t, err)
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", got)

	_, err = f.svc.StationOwner(context.Background(), "nobody")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestTokenURI(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.chain.TokenURIs["7"] = "ipfs://station-7"

	uri, err := f.svc.TokenURI(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://station-7", uri)

	_, err = f.svc.TokenURI(context.Background(), -1)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestWithdrawTips(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)
	f.chain.GrantRole(f.adminAddr, contracts.AdminRole)

	txHash, err := f.svc.WithdrawTips(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, txHash)
	assert.Equal(t, 1, f.chain.Withdrawals)
}

func TestWithdrawTipsRequiresAdminRole(t *testing.T) {
	f := newStationFixture(t, types.EnvTest)

	_, err := f.svc.WithdrawTips(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodePolicyDenied))
	assert.Equal(t, 0, f.chain.Withdrawals)
}

func TestAdminKeyFromPlainHexInDevelopment(t *testing.T) {
	f := newStationFixture(t, types.EnvDevelopment)
	f.chain.ValidNames["radio1"] = true
	f.chain.GrantRole(f.adminAddr, contracts.AdminRole)

	_, err := f.svc.MintStationSubsidized(context.Background(), "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "radio1")
	require.NoError(t, err)
	require.Len(t, f.chain.Signers, 1)
	assert.Equal(t, f.adminAddr, f.chain.Signers[0])
}
