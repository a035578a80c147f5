package mocks

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/diirlabs/station-service/internal/contracts"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// MockContracts is a scripted contracts.Factory. Reads are served from
// in-memory tables and writes append to a journal, so tests can assert on
// exactly what would have been submitted to the chain.
type MockContracts struct {
	mu sync.Mutex

	// Read-side state.
	ValidNames   map[string]bool
	Owners       map[string]common.Address
	Balances     map[common.Address]*big.Int
	Roles        map[common.Address][][32]byte
	TokenURIs    map[string]string
	TipPerUnit   *big.Int
	ReadErr      error
	WriteErr     error
	MintEvent    *contracts.StationMinted
	TipEvent     *contracts.TipsTransferred
	OmitMintEvt  bool
	OmitTipEvt   bool
	nextTokenID  int64
	MintedNames  []string
	TippedValues []*big.Int
	TippedTo     []common.Address
	Withdrawals  int
	Signers      []common.Address
}

// NewMockContracts creates a factory with empty tables and a 0.01 ether tip
// unit price.
func NewMockContracts() *MockContracts {
	unit, _ := new(big.Int).SetString("10000000000000000", 10)
	return &MockContracts{
		ValidNames:  make(map[string]bool),
		Owners:      make(map[string]common.Address),
		Balances:    make(map[common.Address]*big.Int),
		Roles:       make(map[common.Address][][32]byte),
		TokenURIs:   make(map[string]string),
		TipPerUnit:  unit,
		nextTokenID: 1,
	}
}

// GrantRole marks the account as holding the role.
func (m *MockContracts) GrantRole(account common.Address, role [32]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Roles[account] = append(m.Roles[account], role)
}

// ReadClient returns the scripted read side.
func (m *MockContracts) ReadClient() contracts.ReadClient {
	return &mockReader{m}
}

// WriteClient returns a write handle bound to the key's address.
func (m *MockContracts) WriteClient(key *ecdsa.PrivateKey) contracts.WriteClient {
	from := ethcrypto.PubkeyToAddress(key.PublicKey)
	m.mu.Lock()
	m.Signers = append(m.Signers, from)
	m.mu.Unlock()
	return &mockWriter{m: m, from: from}
}

type mockReader struct {
	m *MockContracts
}

func (r *mockReader) ValidateName(ctx context.Context, name string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.ReadErr != nil {
		return false, r.m.ReadErr
	}
	return r.m.ValidNames[name], nil
}

func (r *mockReader) CalculateTips(ctx context.Context, qty *big.Int) (*big.Int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.ReadErr != nil {
		return nil, r.m.ReadErr
	}
	return new(big.Int).Mul(r.m.TipPerUnit, qty), nil
}

func (r *mockReader) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.ReadErr != nil {
		return nil, r.m.ReadErr
	}
	if bal, ok := r.m.Balances[owner]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

func (r *mockReader) HasRole(ctx context.Context, role [32]byte, account common.Address) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.ReadErr != nil {
		return false, r.m.ReadErr
	}
	for _, held := range r.m.Roles[account] {
		if held == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockReader) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.ReadErr != nil {
		return "", r.m.ReadErr
	}
	return r.m.TokenURIs[tokenID.String()], nil
}

func (r *mockReader) StationOwner(ctx context.Context, name string) (common.Address, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.ReadErr != nil {
		return common.Address{}, r.m.ReadErr
	}
	return r.m.Owners[strings.ToLower(name)], nil
}

type mockWriter struct {
	m    *MockContracts
	from common.Address
}

func (w *mockWriter) From() common.Address {
	return w.from
}

func (w *mockWriter) MintStation(ctx context.Context, to common.Address, name, uri string) (*contracts.MintReceipt, error) {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()

	if w.m.WriteErr != nil {
		return nil, w.m.WriteErr
	}

	w.m.MintedNames = append(w.m.MintedNames, name)
	tokenID := w.m.nextTokenID
	w.m.nextTokenID++

	receipt := &contracts.MintReceipt{TxHash: fmt.Sprintf("0xmint%08d", tokenID)}
	if !w.m.OmitMintEvt {
		if w.m.MintEvent != nil {
			receipt.Event = w.m.MintEvent
		} else {
			receipt.Event = &contracts.StationMinted{
				TokenID: big.NewInt(tokenID),
				Owner:   to,
				Name:    name,
			}
		}
	}
	return receipt, nil
}

func (w *mockWriter) Tip(ctx context.Context, to common.Address, qty, value *big.Int) (*contracts.TipReceipt, error) {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()

	if w.m.WriteErr != nil {
		return nil, w.m.WriteErr
	}

	w.m.TippedTo = append(w.m.TippedTo, to)
	w.m.TippedValues = append(w.m.TippedValues, new(big.Int).Set(value))

	receipt := &contracts.TipReceipt{TxHash: fmt.Sprintf("0xtip%08d", len(w.m.TippedValues))}
	if !w.m.OmitTipEvt {
		if w.m.TipEvent != nil {
			receipt.Event = w.m.TipEvent
		} else {
			fee := new(big.Int).Div(value, big.NewInt(10))
			receipt.Event = &contracts.TipsTransferred{
				From:   w.from,
				To:     to,
				Amount: new(big.Int).Set(value),
				Fee:    fee,
			}
		}
	}
	return receipt, nil
}

func (w *mockWriter) Withdraw(ctx context.Context) (string, error) {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()

	if w.m.WriteErr != nil {
		return "", w.m.WriteErr
	}

	w.m.Withdrawals++
	return fmt.Sprintf("0xwithdraw%08d", w.m.Withdrawals), nil
}
