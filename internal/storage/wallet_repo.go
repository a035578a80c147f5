package storage

import (
	"context"
	"fmt"

	"github.com/diirlabs/station-service/pkg/types"
	"github.com/jackc/pgx/v5"
)

// WalletRepository handles custodial wallet documents. Records are write-once:
// there is no update or delete path, and concurrent provisioning for the same
// user id is resolved by the conditional insert, not by an in-process lock.
type WalletRepository struct {
	store *Store
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(store *Store) *WalletRepository {
	return &WalletRepository{store: store}
}

// GetByUserID retrieves a wallet by user id. Returns nil when absent; absence
// is a normal branch for the get-or-create flow, not an error.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*types.Wallet, error) {
	query := `
		SELECT user_id, address, key_ciphertext, created_at
		FROM wallets
		WHERE user_id = $1
	`

	var wallet types.Wallet
	err := r.store.pool.QueryRow(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.Address,
		&wallet.KeyCiphertext,
		&wallet.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet by user id: %w", err)
	}

	return &wallet, nil
}

// CreateIfAbsent inserts the wallet unless a record for the user id already
// exists. Returns true when this call created the record. The ON CONFLICT
// clause is the enforcement point for wallet-creation exclusivity across
// service instances.
func (r *WalletRepository) CreateIfAbsent(ctx context.Context, wallet *types.Wallet) (bool, error) {
	query := `
		INSERT INTO wallets (user_id, address, key_ciphertext)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING created_at
	`

	err := r.store.pool.QueryRow(ctx, query,
		wallet.UserID,
		wallet.Address,
		wallet.KeyCiphertext,
	).Scan(&wallet.CreatedAt)

	if err == pgx.ErrNoRows {
		// Conflict: another caller won the race
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create wallet: %w", err)
	}

	return true, nil
}
