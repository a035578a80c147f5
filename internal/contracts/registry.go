// Package contracts holds the narrow client surface over the fixed station
// and tip contracts. Addresses and ABI are resolved purely from the process
// environment; the registry is built once at startup and is read-only after.
package contracts

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/diirlabs/station-service/internal/eth"
	"github.com/diirlabs/station-service/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ReadClient is a key-free handle for contract state reads.
type ReadClient interface {
	ValidateName(ctx context.Context, name string) (bool, error)
	CalculateTips(ctx context.Context, qty *big.Int) (*big.Int, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	HasRole(ctx context.Context, role [32]byte, account common.Address) (bool, error)
	TokenURI(ctx context.Context, tokenID *big.Int) (string, error)
	StationOwner(ctx context.Context, name string) (common.Address, error)
}

// WriteClient is a handle bound to exactly one signing key for its lifetime.
// A fresh handle is constructed per transaction orchestration; handles are
// never shared across users' keys.
type WriteClient interface {
	From() common.Address
	MintStation(ctx context.Context, to common.Address, name, uri string) (*MintReceipt, error)
	Tip(ctx context.Context, to common.Address, qty, value *big.Int) (*TipReceipt, error)
	Withdraw(ctx context.Context) (string, error)
}

// Factory builds read and write clients for the configured environment.
type Factory interface {
	ReadClient() ReadClient
	WriteClient(key *ecdsa.PrivateKey) WriteClient
}

// Registry implements Factory against a live RPC client.
type Registry struct {
	env         types.Environment
	client      *eth.Client
	stationAddr common.Address
	tipAddr     common.Address
}

// NewRegistry resolves the contract addresses for the environment and wires
// them to the RPC client.
func NewRegistry(env types.Environment, client *eth.Client) (*Registry, error) {
	stationAddr, ok := stationAddresses[env]
	if !ok {
		return nil, fmt.Errorf("no station contract address for environment %q", env)
	}

	tipAddr, ok := tipAddresses[env]
	if !ok {
		return nil, fmt.Errorf("no tip contract address for environment %q", env)
	}

	return &Registry{
		env:         env,
		client:      client,
		stationAddr: stationAddr,
		tipAddr:     tipAddr,
	}, nil
}

// Environment returns the environment the registry was built for.
func (r *Registry) Environment() types.Environment {
	return r.env
}

// ReadClient returns a key-free contract handle.
func (r *Registry) ReadClient() ReadClient {
	return &reader{registry: r}
}

// WriteClient returns a contract handle bound to the given signing key.
func (r *Registry) WriteClient(key *ecdsa.PrivateKey) WriteClient {
	return &writer{
		registry: r,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
	}
}

var _ Factory = (*Registry)(nil)
