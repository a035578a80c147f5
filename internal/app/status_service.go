package app

import (
	"context"
	"fmt"

	"github.com/diirlabs/station-service/internal/logger"
	apperrors "github.com/diirlabs/station-service/pkg/errors"
	"github.com/diirlabs/station-service/pkg/types"
)

// StatusStore persists pipeline status markers keyed by station name.
type StatusStore interface {
	SetPublishStatus(ctx context.Context, station, status string) error
	SetUploadStatus(ctx context.Context, station, status string) error
	GetPublishStatus(ctx context.Context, station string) (*types.StatusRecord, error)
	GetUploadStatus(ctx context.Context, station string) (*types.StatusRecord, error)
}

// StatusService records publish and upload pipeline callbacks so clients can
// poll progress without holding a connection open.
type StatusService struct {
	store StatusStore
}

// NewStatusService creates a new status service.
func NewStatusService(store StatusStore) *StatusService {
	return &StatusService{store: store}
}

// RecordPublishUpdated marks a station's publish pipeline state.
func (s *StatusService) RecordPublishUpdated(ctx context.Context, station, status string) error {
	if station == "" {
		return apperrors.Input("station is required")
	}
	if !types.ValidPublishStatus(status) {
		return apperrors.Input(fmt.Sprintf("unknown publish status %q", status))
	}

	if err := s.store.SetPublishStatus(ctx, station, status); err != nil {
		return fmt.Errorf("failed to record publish status: %w", err)
	}

	logger.Info(ctx, "publish status updated", "station", station, "status", status)
	return nil
}

// RecordUploadFinished marks a station's upload pipeline state.
func (s *StatusService) RecordUploadFinished(ctx context.Context, station, status string) error {
	if station == "" {
		return apperrors.Input("station is required")
	}
	if !types.ValidUploadStatus(status) {
		return apperrors.Input(fmt.Sprintf("unknown upload status %q", status))
	}

	if err := s.store.SetUploadStatus(ctx, station, status); err != nil {
		return fmt.Errorf("failed to record upload status: %w", err)
	}

	logger.Info(ctx, "upload status updated", "station", station, "status", status)
	return nil
}

// PublishStatus returns the latest recorded publish state for a station.
func (s *StatusService) PublishStatus(ctx context.Context, station string) (*types.StatusRecord, error) {
	if station == "" {
		return nil, apperrors.Input("station is required")
	}

	record, err := s.store.GetPublishStatus(ctx, station)
	if err != nil {
		return nil, fmt.Errorf("failed to read publish status: %w", err)
	}
	if record == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("no publish status for station %q", station))
	}
	return record, nil
}

// UploadStatus returns the latest recorded upload state for a station.
func (s *StatusService) UploadStatus(ctx context.Context, station string) (*types.StatusRecord, error) {
	if station == "" {
		return nil, apperrors.Input("station is required")
	}

	record, err := s.store.GetUploadStatus(ctx, station)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload status: %w", err)
	}
	if record == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("no upload status for station %q", station))
	}
	return record, nil
}
