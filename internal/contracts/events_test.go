package contracts

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stationMintedLog(t *testing.T, contract common.Address, tokenID *big.Int, owner common.Address, name string) *ethtypes.Log {
	t.Helper()

	data, err := stationABI.Events["StationMinted"].Inputs.NonIndexed().Pack(name)
	require.NoError(t, err)

	return &ethtypes.Log{
		Address: contract,
		Topics: []common.Hash{
			stationMintedID,
			common.BigToHash(tokenID),
			common.BytesToHash(owner.Bytes()),
		},
		Data: data,
	}
}

func tipsTransferredLog(t *testing.T, contract common.Address, from, to common.Address, amount, fee *big.Int) *ethtypes.Log {
	t.Helper()

	data, err := tipABI.Events["TipsTransferred"].Inputs.NonIndexed().Pack(amount, fee)
	require.NoError(t, err)

	return &ethtypes.Log{
		Address: contract,
		Topics: []common.Hash{
			tipsTransferredID,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: data,
	}
}

func TestParseStationMinted(t *testing.T) {
	contract := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")

	receipt := &ethtypes.Receipt{
		Logs: []*ethtypes.Log{
			stationMintedLog(t, contract, big.NewInt(42), owner, "radio1"),
		},
	}

	event := parseStationMinted(receipt, contract)
	require.NotNil(t, event)
	assert.Equal(t, int64(42), event.TokenID.Int64())
	assert.Equal(t, owner, event.Owner)
	assert.Equal(t, "radio1", event.Name)
}

func TestParseStationMintedAbsent(t *testing.T) {
	contract := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	// Empty receipt
	assert.Nil(t, parseStationMinted(&ethtypes.Receipt{}, contract))

	// Log from a different contract address is ignored
	other := common.HexToAddress("0x2222222222222222222222222222222222222222")
	receipt := &ethtypes.Receipt{
		Logs: []*ethtypes.Log{
			stationMintedLog(t, other, big.NewInt(1), other, "x"),
		},
	}
	assert.Nil(t, parseStationMinted(receipt, contract))
}

func TestParseTipsTransferred(t *testing.T) {
	contract := common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	from := common.HexToAddress("0x3333333333333333333333333333333333333333")
	to := common.HexToAddress("0x4444444444444444444444444444444444444444")
	amount, _ := new(big.Int).SetString("1000000000000000000", 10)
	fee, _ := new(big.Int).SetString("20000000000000000", 10)

	receipt := &ethtypes.Receipt{
		Logs: []*ethtypes.Log{
			tipsTransferredLog(t, contract, from, to, amount, fee),
		},
	}

	event := parseTipsTransferred(receipt, contract)
	require.NotNil(t, event)
	assert.Equal(t, from, event.From)
	assert.Equal(t, to, event.To)
	assert.Equal(t, amount, event.Amount)
	assert.Equal(t, fee, event.Fee)
}

func TestParseTipsTransferredAbsent(t *testing.T) {
	contract := common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	assert.Nil(t, parseTipsTransferred(&ethtypes.Receipt{}, contract))
}

func TestRegistryAddressResolution(t *testing.T) {
	// A registry can be constructed for every known environment without a
	// live client; address resolution is pure table lookup.
	for env := range stationAddresses {
		registry, err := NewRegistry(env, nil)
		require.NoError(t, err)
		assert.Equal(t, env, registry.Environment())
		assert.NotEqual(t, common.Address{}, registry.stationAddr)
		assert.NotEqual(t, common.Address{}, registry.tipAddr)
	}

	_, err := NewRegistry("staging", nil)
	assert.Error(t, err)
}

func TestRoleConstants(t *testing.T) {
	assert.Equal(t, [32]byte{}, DefaultAdminRole)
	assert.NotEqual(t, DefaultAdminRole, AdminRole)
	assert.NotEqual(t, AdminRole, UpgraderRole)
}
