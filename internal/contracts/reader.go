package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// reader executes view calls against the station and tip contracts. Every
// call reads live chain state; name validity and tip pricing are never cached
// (stale authoritative state is worse than an extra RPC round trip).
type reader struct {
	registry *Registry
}

func (r *reader) ValidateName(ctx context.Context, name string) (bool, error) {
	out, err := r.call(ctx, stationABI, r.registry.stationAddr, "validateName", name)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

func (r *reader) CalculateTips(ctx context.Context, qty *big.Int) (*big.Int, error) {
	out, err := r.call(ctx, tipABI, r.registry.tipAddr, "calculateTips", qty)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (r *reader) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := r.call(ctx, stationABI, r.registry.stationAddr, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (r *reader) HasRole(ctx context.Context, role [32]byte, account common.Address) (bool, error) {
	out, err := r.call(ctx, stationABI, r.registry.stationAddr, "hasRole", role, account)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

func (r *reader) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	out, err := r.call(ctx, stationABI, r.registry.stationAddr, "tokenURI", tokenID)
	if err != nil {
		return "", err
	}
	return out[0].(string), nil
}

func (r *reader) StationOwner(ctx context.Context, name string) (common.Address, error) {
	out, err := r.call(ctx, stationABI, r.registry.stationAddr, "stationOwner", name)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

func (r *reader) call(ctx context.Context, contractABI abi.ABI, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	raw, err := r.registry.client.CallContract(ctx, to, data)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	out, err := contractABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}

	return out, nil
}

var _ ReadClient = (*reader)(nil)
