package storage

import (
	"context"
	"fmt"

	"github.com/diirlabs/station-service/pkg/types"
	"github.com/jackc/pgx/v5"
)

// StatusRepository records publish/upload progress documents that the UI
// watches. Unlike wallets these are plain upserts: the latest status wins.
type StatusRepository struct {
	store *Store
}

// NewStatusRepository creates a new StatusRepository
func NewStatusRepository(store *Store) *StatusRepository {
	return &StatusRepository{store: store}
}

// SetPublishStatus upserts the status of a publish document.
func (r *StatusRepository) SetPublishStatus(ctx context.Context, publishID, status string) error {
	return r.upsert(ctx, "publish_statuses", publishID, status)
}

// SetUploadStatus upserts the status of an upload document.
func (r *StatusRepository) SetUploadStatus(ctx context.Context, publishID, status string) error {
	return r.upsert(ctx, "upload_statuses", publishID, status)
}

// GetPublishStatus retrieves a publish status record, nil when absent.
func (r *StatusRepository) GetPublishStatus(ctx context.Context, publishID string) (*types.StatusRecord, error) {
	return r.get(ctx, "publish_statuses", publishID)
}

// GetUploadStatus retrieves an upload status record, nil when absent.
func (r *StatusRepository) GetUploadStatus(ctx context.Context, publishID string) (*types.StatusRecord, error) {
	return r.get(ctx, "upload_statuses", publishID)
}

func (r *StatusRepository) upsert(ctx context.Context, table, id, status string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, status, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`, table)

	if _, err := r.store.pool.Exec(ctx, query, id, status); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", table, err)
	}
	return nil
}

func (r *StatusRepository) get(ctx context.Context, table, id string) (*types.StatusRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, status, updated_at
		FROM %s
		WHERE id = $1
	`, table)

	var record types.StatusRecord
	err := r.store.pool.QueryRow(ctx, query, id).Scan(&record.ID, &record.Status, &record.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", table, err)
	}

	return &record, nil
}
