package contracts

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// writer submits state-changing calls signed with a single key. External
// calls within one orchestration are sequential; nonce ordering for the
// account must stay serial, so the writer never fans out submissions.
type writer struct {
	registry *Registry
	key      *ecdsa.PrivateKey
	from     common.Address
}

// From returns the address the writer signs as.
func (w *writer) From() common.Address {
	return w.from
}

// MintStation submits a station mint and parses the StationMinted event from
// the mined receipt. A confirmed receipt without the event yields a nil Event.
func (w *writer) MintStation(ctx context.Context, to common.Address, name, uri string) (*MintReceipt, error) {
	calldata, err := stationABI.Pack("mint", to, name, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to pack mint call: %w", err)
	}

	receipt, err := w.submit(ctx, w.registry.stationAddr, nil, calldata)
	if err != nil {
		return nil, err
	}

	return &MintReceipt{
		TxHash: receipt.TxHash.Hex(),
		Event:  parseStationMinted(receipt, w.registry.stationAddr),
	}, nil
}

// Tip submits a tip transfer carrying the given wei value and parses the
// TipsTransferred event from the mined receipt.
func (w *writer) Tip(ctx context.Context, to common.Address, qty, value *big.Int) (*TipReceipt, error) {
	calldata, err := tipABI.Pack("tip", to, qty)
	if err != nil {
		return nil, fmt.Errorf("failed to pack tip call: %w", err)
	}

	receipt, err := w.submit(ctx, w.registry.tipAddr, value, calldata)
	if err != nil {
		return nil, err
	}

	return &TipReceipt{
		TxHash: receipt.TxHash.Hex(),
		Event:  parseTipsTransferred(receipt, w.registry.tipAddr),
	}, nil
}

// Withdraw drains accumulated fees to the operator. Returns the tx hash.
func (w *writer) Withdraw(ctx context.Context) (string, error) {
	calldata, err := tipABI.Pack("withdraw")
	if err != nil {
		return "", fmt.Errorf("failed to pack withdraw call: %w", err)
	}

	receipt, err := w.submit(ctx, w.registry.tipAddr, nil, calldata)
	if err != nil {
		return "", err
	}

	return receipt.TxHash.Hex(), nil
}

// submit builds, signs and sends an EIP-1559 transaction, then blocks until
// it is mined. Confirmation defers entirely to the chain client; there is no
// local timeout or retry (a resubmitted mint or tip would double-charge).
func (w *writer) submit(ctx context.Context, to common.Address, value *big.Int, calldata []byte) (*ethtypes.Receipt, error) {
	client := w.registry.client

	if value == nil {
		value = new(big.Int)
	}

	nonce, err := client.GetNonce(ctx, w.from)
	if err != nil {
		return nil, err
	}

	gasLimit, err := client.EstimateGas(ctx, w.from, to, value, calldata)
	if err != nil {
		return nil, err
	}

	gasTipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	// Fee cap at twice the suggested price leaves headroom for base-fee
	// movement between estimation and inclusion.
	gasFeeCap := new(big.Int).Mul(gasPrice, big.NewInt(2))
	if gasFeeCap.Cmp(gasTipCap) < 0 {
		gasFeeCap = gasTipCap
	}

	tx := ethtypes.NewTx(&ethtypes.DynamicFeeTx{
		ChainID:   client.ChainID(),
		Nonce:     nonce,
		To:        &to,
		Value:     value,
		Gas:       gasLimit,
		GasFeeCap: gasFeeCap,
		GasTipCap: gasTipCap,
		Data:      calldata,
	})

	signedTx, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(client.ChainID()), w.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return nil, err
	}

	receipt, err := client.WaitMined(ctx, signedTx)
	if err != nil {
		return nil, err
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted", receipt.TxHash.Hex())
	}

	return receipt, nil
}

var _ WriteClient = (*writer)(nil)
