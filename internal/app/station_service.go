package app

import (
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"github.com/diirlabs/station-service/internal/contracts"
	internalcrypto "github.com/diirlabs/station-service/internal/crypto"
	"github.com/diirlabs/station-service/internal/logger"
	"github.com/diirlabs/station-service/internal/validation"
	apperrors "github.com/diirlabs/station-service/pkg/errors"
	"github.com/diirlabs/station-service/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

// StationService orchestrates contract transactions. Every operation runs the
// same sequence: validate inputs, resolve the signing key, re-check
// authoritative on-chain preconditions, submit, await confirmation, and
// extract a typed result from the receipt. Nothing is retried: chain and
// key-service failures surface to the caller as-is.
type StationService struct {
	env     types.Environment
	wallets WalletStore
	vault   KeyVault
	factory contracts.Factory

	// Operator key for subsidized mints and withdrawals. Plain hex in
	// development; encrypted-at-rest and decrypted per call otherwise.
	adminKeyHex        string
	adminKeyCiphertext []byte
}

// NewStationService creates a new station service.
func NewStationService(
	env types.Environment,
	wallets WalletStore,
	vault KeyVault,
	factory contracts.Factory,
	adminKeyHex string,
	adminKeyCiphertext string,
) (*StationService, error) {
	s := &StationService{
		env:         env,
		wallets:     wallets,
		vault:       vault,
		factory:     factory,
		adminKeyHex: adminKeyHex,
	}

	if adminKeyCiphertext != "" {
		blob, err := base64.StdEncoding.DecodeString(adminKeyCiphertext)
		if err != nil {
			return nil, fmt.Errorf("invalid admin key ciphertext: %w", err)
		}
		s.adminKeyCiphertext = blob
	}

	return s, nil
}

// MintStation mints a station token with the caller's own custodial key.
func (s *StationService) MintStation(ctx context.Context, userID, to, name, uri string) (*types.MintResult, error) {
	name = strings.ToLower(name)

	if err := validation.ValidateEthereumAddress(to); err != nil {
		return nil, apperrors.Input(err.Error())
	}
	if err := validation.ValidateStationName(name); err != nil {
		return nil, apperrors.Input(err.Error())
	}

	// Authoritative server-side re-validation, even if the caller already
	// checked through the validate endpoint.
	if err := s.requireValidName(ctx, name); err != nil {
		return nil, err
	}

	key, err := s.resolveUserKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	writer := s.factory.WriteClient(key)
	receipt, err := writer.MintStation(ctx, common.HexToAddress(to), name, uri)
	observeTx("mint_station", err)
	if err != nil {
		return nil, apperrors.Chain(err)
	}

	logger.Info(ctx, "minted station", "name", name, "tx_hash", receipt.TxHash)

	return mintResult(receipt), nil
}

// MintStationSubsidized mints a station token with the operator key, paying
// gas on the recipient's behalf. The subsidy applies only to a recipient's
// first station: a non-zero token balance rejects the request.
func (s *StationService) MintStationSubsidized(ctx context.Context, to, name string) (*types.MintResult, error) {
	name = strings.ToLower(name)

	if err := validation.ValidateEthereumAddress(to); err != nil {
		return nil, apperrors.Input(err.Error())
	}
	if err := validation.ValidateStationName(name); err != nil {
		return nil, apperrors.Input(err.Error())
	}

	if err := s.requireValidName(ctx, name); err != nil {
		return nil, err
	}

	reader := s.factory.ReadClient()
	recipient := common.HexToAddress(to)

	balance, err := reader.BalanceOf(ctx, recipient)
	if err != nil {
		return nil, apperrors.Chain(err)
	}
	if balance.Sign() != 0 {
		return nil, apperrors.PolicyDenied("recipient already holds a station; subsidized mint is first-mint only")
	}

	key, err := s.resolveAdminKey(ctx)
	if err != nil {
		return nil, err
	}

	writer := s.factory.WriteClient(key)

	hasRole, err := reader.HasRole(ctx, contracts.AdminRole, writer.From())
	if err != nil {
		return nil, apperrors.Chain(err)
	}
	if !hasRole {
		return nil, apperrors.PolicyDenied("operator key does not hold the admin role")
	}

	receipt, err := writer.MintStation(ctx, recipient, name, "")
	observeTx("mint_station_subsidized", err)
	if err != nil {
		return nil, apperrors.Chain(err)
	}

	logger.Info(ctx, "minted subsidized station", "name", name, "to", to, "tx_hash", receipt.TxHash)

	return mintResult(receipt), nil
}

// ValidateStationName checks a name against the contract's authoritative
// uniqueness and format rules. Names are lowercased first so the check is
// case-insensitive by construction.
func (s *StationService) ValidateStationName(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, apperrors.Input("name is required")
	}
	name = strings.ToLower(name)

	// Cheap local reject before the RPC round trip; the contract would
	// refuse these anyway.
	if err := validation.ValidateStationName(name); err != nil {
		return false, nil
	}

	valid, err := s.factory.ReadClient().ValidateName(ctx, name)
	if err != nil {
		return false, apperrors.Chain(err)
	}
	return valid, nil
}

// CalculateTips prices a tip quantity via the contract's pricing formula.
// The service never computes pricing itself, so the UI-facing preview and the
// charged amount always come from the same authoritative source.
func (s *StationService) CalculateTips(ctx context.Context, qty int64) (*types.TipQuote, error) {
	if err := validation.ValidateQuantity(qty); err != nil {
		return nil, apperrors.Input(err.Error())
	}

	wei, err := s.factory.ReadClient().CalculateTips(ctx, big.NewInt(qty))
	if err != nil {
		return nil, apperrors.Chain(err)
	}

	return &types.TipQuote{
		Qty:    qty,
		Wei:    wei.String(),
		Amount: contracts.WeiToEtherString(wei),
	}, nil
}

// SendTips transfers a tip payment from the caller's wallet to a station
// owner. The recipient may be an address or a station name; names are
// resolved through the contract. The attached value is recomputed via
// calculateTips immediately before submission and never taken from the
// caller, so a stale client quote cannot change the charged amount.
func (s *StationService) SendTips(ctx context.Context, userID, recipient string, qty int64) (*types.TipResult, error) {
	if err := validation.ValidateQuantity(qty); err != nil {
		return nil, apperrors.Input(err.Error())
	}

	to, err := s.resolveRecipient(ctx, recipient)
	if err != nil {
		return nil, err
	}

	key, err := s.resolveUserKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	tips, err := s.factory.ReadClient().CalculateTips(ctx, big.NewInt(qty))
	if err != nil {
		return nil, apperrors.Chain(err)
	}

	writer := s.factory.WriteClient(key)
	receipt, err := writer.Tip(ctx, to, big.NewInt(qty), tips)
	observeTx("send_tips", err)
	if err != nil {
		return nil, apperrors.Chain(err)
	}

	logger.Info(ctx, "sent tips", "to", to.Hex(), "qty", qty, "tx_hash", receipt.TxHash)

	if receipt.Event == nil {
		// The transfer committed on-chain even though the summary event
		// could not be located; fall back to the recomputed amount.
		return &types.TipResult{
			Amount: contracts.WeiToEtherString(tips),
			TxHash: receipt.TxHash,
		}, nil
	}

	return &types.TipResult{
		From:   strings.ToLower(receipt.Event.From.Hex()),
		To:     strings.ToLower(receipt.Event.To.Hex()),
		Amount: contracts.WeiToEtherString(receipt.Event.Amount),
		Fee:    contracts.WeiToEtherString(receipt.Event.Fee),
		TxHash: receipt.TxHash,
	}, nil
}

// StationOwner resolves a station name to its owner address.
func (s *StationService) StationOwner(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", apperrors.Input("name is required")
	}
	name = strings.ToLower(name)

	owner, err := s.factory.ReadClient().StationOwner(ctx, name)
	if err != nil {
		return "", apperrors.Chain(err)
	}
	if owner == (common.Address{}) {
		return "", apperrors.NotFound(fmt.Sprintf("no station named %q", name))
	}

	return strings.ToLower(owner.Hex()), nil
}

// TokenURI returns the metadata URI of a station token.
func (s *StationService) TokenURI(ctx context.Context, tokenID int64) (string, error) {
	if tokenID < 0 {
		return "", apperrors.Input("tokenId must be non-negative")
	}

	uri, err := s.factory.ReadClient().TokenURI(ctx, big.NewInt(tokenID))
	if err != nil {
		return "", apperrors.Chain(err)
	}
	return uri, nil
}

// WithdrawTips drains accumulated tip fees to the operator. Admin-role gated.
func (s *StationService) WithdrawTips(ctx context.Context) (string, error) {
	key, err := s.resolveAdminKey(ctx)
	if err != nil {
		return "", err
	}

	writer := s.factory.WriteClient(key)

	hasRole, err := s.factory.ReadClient().HasRole(ctx, contracts.AdminRole, writer.From())
	if err != nil {
		return "", apperrors.Chain(err)
	}
	if !hasRole {
		return "", apperrors.PolicyDenied("operator key does not hold the admin role")
	}

	txHash, err := writer.Withdraw(ctx)
	observeTx("withdraw", err)
	if err != nil {
		return "", apperrors.Chain(err)
	}

	logger.Info(ctx, "withdrew tip fees", "tx_hash", txHash)

	return txHash, nil
}

// requireValidName runs the authoritative on-chain name check and converts a
// negative answer into a policy rejection before any transaction is built.
func (s *StationService) requireValidName(ctx context.Context, name string) error {
	valid, err := s.factory.ReadClient().ValidateName(ctx, name)
	if err != nil {
		return apperrors.Chain(err)
	}
	if !valid {
		return apperrors.PolicyDenied("the given name is taken or invalid")
	}
	return nil
}

// resolveUserKey fetches the caller's wallet and decrypts its key. The
// decrypted key lives only for the scope of the submission that follows.
func (s *StationService) resolveUserKey(ctx context.Context, userID string) (*ecdsa.PrivateKey, error) {
	if userID == "" {
		return nil, apperrors.Auth("missing caller id")
	}

	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up wallet: %w", err)
	}
	if !wallet.HasKeyMaterial() {
		return nil, apperrors.WalletNotFound(userID)
	}

	hexKey, err := s.vault.DecryptKey(ctx, wallet.KeyCiphertext)
	if err != nil {
		return nil, err
	}

	key, err := internalcrypto.KeyFromHex(hexKey)
	if err != nil {
		// Decryption succeeded but produced garbage: a corrupted record,
		// not a transient failure.
		return nil, apperrors.KeyService(err)
	}

	return key, nil
}

// resolveAdminKey selects the operator key for the environment.
func (s *StationService) resolveAdminKey(ctx context.Context) (*ecdsa.PrivateKey, error) {
	if s.env == types.EnvDevelopment {
		key, err := internalcrypto.KeyFromHex(s.adminKeyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid development admin key: %w", err)
		}
		return key, nil
	}

	if len(s.adminKeyCiphertext) == 0 {
		return nil, fmt.Errorf("no admin key ciphertext configured")
	}

	hexKey, err := s.vault.DecryptKey(ctx, s.adminKeyCiphertext)
	if err != nil {
		return nil, err
	}

	key, err := internalcrypto.KeyFromHex(hexKey)
	if err != nil {
		return nil, apperrors.KeyService(err)
	}

	return key, nil
}

// resolveRecipient accepts either a hex address or a station name and returns
// the target address. Names are lowercased and resolved on-chain.
func (s *StationService) resolveRecipient(ctx context.Context, recipient string) (common.Address, error) {
	if recipient == "" {
		return common.Address{}, apperrors.Input("recipient is required")
	}

	if validation.EthereumAddressPattern.MatchString(recipient) {
		if err := validation.ValidateEthereumAddress(recipient); err != nil {
			return common.Address{}, apperrors.Input(err.Error())
		}
		return common.HexToAddress(recipient), nil
	}

	name := strings.ToLower(recipient)
	owner, err := s.factory.ReadClient().StationOwner(ctx, name)
	if err != nil {
		return common.Address{}, apperrors.Chain(err)
	}
	if owner == (common.Address{}) {
		return common.Address{}, apperrors.NotFound(fmt.Sprintf("no station named %q", name))
	}

	return owner, nil
}

func mintResult(receipt *contracts.MintReceipt) *types.MintResult {
	result := &types.MintResult{TxHash: receipt.TxHash}
	if receipt.Event != nil && receipt.Event.TokenID != nil {
		tokenID := receipt.Event.TokenID.Int64()
		result.TokenID = &tokenID
	}
	return result
}
