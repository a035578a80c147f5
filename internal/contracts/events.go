package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// StationMinted is the parsed StationMinted(tokenId, owner, name) event.
type StationMinted struct {
	TokenID *big.Int
	Owner   common.Address
	Name    string
}

// TipsTransferred is the parsed TipsTransferred(from, to, amount, fee) event.
type TipsTransferred struct {
	From   common.Address
	To     common.Address
	Amount *big.Int
	Fee    *big.Int
}

// MintReceipt is the outcome of a mint submission. Event is nil when the
// mined receipt did not carry a StationMinted log; the transaction still
// committed on-chain.
type MintReceipt struct {
	TxHash string
	Event  *StationMinted
}

// TipReceipt is the outcome of a tip submission. Event is nil when the mined
// receipt did not carry a TipsTransferred log.
type TipReceipt struct {
	TxHash string
	Event  *TipsTransferred
}

// parseStationMinted scans the receipt logs for the first StationMinted event
// emitted by the station contract. Returns nil when absent.
func parseStationMinted(receipt *ethtypes.Receipt, contract common.Address) *StationMinted {
	for _, log := range receipt.Logs {
		if log.Address != contract || len(log.Topics) != 3 || log.Topics[0] != stationMintedID {
			continue
		}

		vals, err := stationABI.Events["StationMinted"].Inputs.NonIndexed().Unpack(log.Data)
		if err != nil || len(vals) != 1 {
			continue
		}

		name, ok := vals[0].(string)
		if !ok {
			continue
		}

		return &StationMinted{
			TokenID: new(big.Int).SetBytes(log.Topics[1].Bytes()),
			Owner:   common.BytesToAddress(log.Topics[2].Bytes()),
			Name:    name,
		}
	}

	return nil
}

// parseTipsTransferred scans the receipt logs for the first TipsTransferred
// event emitted by the tip contract. Returns nil when absent.
func parseTipsTransferred(receipt *ethtypes.Receipt, contract common.Address) *TipsTransferred {
	for _, log := range receipt.Logs {
		if log.Address != contract || len(log.Topics) != 3 || log.Topics[0] != tipsTransferredID {
			continue
		}

		vals, err := tipABI.Events["TipsTransferred"].Inputs.NonIndexed().Unpack(log.Data)
		if err != nil || len(vals) != 2 {
			continue
		}

		amount, okAmount := vals[0].(*big.Int)
		fee, okFee := vals[1].(*big.Int)
		if !okAmount || !okFee {
			continue
		}

		return &TipsTransferred{
			From:   common.BytesToAddress(log.Topics[1].Bytes()),
			To:     common.BytesToAddress(log.Topics[2].Bytes()),
			Amount: amount,
			Fee:    fee,
		}
	}

	return nil
}
