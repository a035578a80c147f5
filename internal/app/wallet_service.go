package app

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/diirlabs/station-service/internal/contracts"
	internalcrypto "github.com/diirlabs/station-service/internal/crypto"
	"github.com/diirlabs/station-service/internal/logger"
	"github.com/diirlabs/station-service/internal/validation"
	apperrors "github.com/diirlabs/station-service/pkg/errors"
	"github.com/diirlabs/station-service/pkg/types"
)

// WalletStore is the persistence boundary for wallet documents. CreateIfAbsent
// must have conditional-put semantics: it either creates the record exactly
// once per user id or reports a conflict atomically.
type WalletStore interface {
	GetByUserID(ctx context.Context, userID string) (*types.Wallet, error)
	CreateIfAbsent(ctx context.Context, wallet *types.Wallet) (bool, error)
}

// KeyVault encrypts and decrypts hex-encoded wallet keys.
type KeyVault interface {
	EncryptKey(ctx context.Context, hexKey string) ([]byte, error)
	DecryptKey(ctx context.Context, ciphertext []byte) (string, error)
}

// BalanceReader reads chain-native balances.
type BalanceReader interface {
	GetBalance(ctx context.Context, address string) (*big.Int, error)
}

// WalletService provisions and looks up custodial wallets.
type WalletService struct {
	env     types.Environment
	devSeed string
	wallets WalletStore
	vault   KeyVault
	chain   BalanceReader
}

// NewWalletService creates a new wallet service.
func NewWalletService(env types.Environment, devSeed string, wallets WalletStore, vault KeyVault, chain BalanceReader) *WalletService {
	return &WalletService{
		env:     env,
		devSeed: devSeed,
		wallets: wallets,
		vault:   vault,
		chain:   chain,
	}
}

// ProvisionResult is the outcome of a get-or-create call.
type ProvisionResult struct {
	Address            string `json:"address"`
	UsedExistingWallet bool   `json:"used_existing_wallet"`
}

// GetOrCreateWallet returns the user's wallet address, creating the wallet on
// first use. Concurrent calls for the same new user id converge on one stored
// record through the store's conditional insert; a caller that loses the race
// discards its generated key and returns the winner's address.
func (s *WalletService) GetOrCreateWallet(ctx context.Context, userID string) (*ProvisionResult, error) {
	if userID == "" {
		return nil, apperrors.Input("userId is required")
	}

	existing, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up wallet: %w", err)
	}
	if existing.HasKeyMaterial() {
		return &ProvisionResult{Address: existing.Address, UsedExistingWallet: true}, nil
	}

	key, err := s.generateKey(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate wallet key: %w", err)
	}

	ciphertext, err := s.vault.EncryptKey(ctx, internalcrypto.KeyToHex(key))
	if err != nil {
		return nil, err
	}

	wallet := &types.Wallet{
		UserID:        userID,
		Address:       internalcrypto.LowercaseAddress(key),
		KeyCiphertext: ciphertext,
	}

	created, err := s.wallets.CreateIfAbsent(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to store wallet: %w", err)
	}
	if !created {
		// Lost the provisioning race: another instance stored a wallet for
		// this user between the lookup and the insert.
		stored, err := s.wallets.GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read wallet after conflict: %w", err)
		}
		if !stored.HasKeyMaterial() {
			return nil, fmt.Errorf("wallet record for user %s is incomplete after conflict", userID)
		}
		return &ProvisionResult{Address: stored.Address, UsedExistingWallet: true}, nil
	}

	walletsProvisioned.Inc()
	logger.Info(ctx, "provisioned wallet", "user_id", userID, "address", wallet.Address)

	return &ProvisionResult{Address: wallet.Address, UsedExistingWallet: false}, nil
}

// GetWalletAddress returns the user's wallet address, or empty when the user
// has no complete wallet record. No provisioning happens here.
func (s *WalletService) GetWalletAddress(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperrors.Input("userId is required")
	}

	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to look up wallet: %w", err)
	}
	if !wallet.HasKeyMaterial() {
		return "", nil
	}

	return wallet.Address, nil
}

// GetBalance returns the chain-native balance of an address as a decimal
// ether string.
func (s *WalletService) GetBalance(ctx context.Context, address string) (string, error) {
	if err := validation.ValidateEthereumAddress(address); err != nil {
		return "", apperrors.Input(err.Error())
	}

	balance, err := s.chain.GetBalance(ctx, address)
	if err != nil {
		return "", apperrors.Chain(err)
	}

	return contracts.WeiToEtherString(balance), nil
}

// generateKey picks the generator for the environment: deterministic HKDF
// derivation in development, the hardened CSPRNG generator otherwise.
func (s *WalletService) generateKey(userID string) (*ecdsa.PrivateKey, error) {
	if s.env == types.EnvDevelopment {
		return internalcrypto.GenerateDevKey(s.devSeed, userID)
	}
	return internalcrypto.GenerateKey()
}
