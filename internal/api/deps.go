package api

import (
	"context"

	"github.com/diirlabs/station-service/internal/app"
	"github.com/diirlabs/station-service/pkg/types"
)

// WalletService is the subset of app.WalletService used by the API layer.
// It is an interface to allow handler-level unit tests without a database.
type WalletService interface {
	GetOrCreateWallet(ctx context.Context, userID string) (*app.ProvisionResult, error)
	GetWalletAddress(ctx context.Context, userID string) (string, error)
	GetBalance(ctx context.Context, address string) (string, error)
}

// StationService is the subset of app.StationService used by the API layer.
type StationService interface {
	MintStation(ctx context.Context, userID, to, name, uri string) (*types.MintResult, error)
	MintStationSubsidized(ctx context.Context, to, name string) (*types.MintResult, error)
	ValidateStationName(ctx context.Context, name string) (bool, error)
	CalculateTips(ctx context.Context, qty int64) (*types.TipQuote, error)
	SendTips(ctx context.Context, userID, recipient string, qty int64) (*types.TipResult, error)
	StationOwner(ctx context.Context, name string) (string, error)
	TokenURI(ctx context.Context, tokenID int64) (string, error)
	WithdrawTips(ctx context.Context) (string, error)
}

// StatusService is the subset of app.StatusService used by the API layer.
type StatusService interface {
	RecordPublishUpdated(ctx context.Context, station, status string) error
	RecordUploadFinished(ctx context.Context, station, status string) error
	PublishStatus(ctx context.Context, station string) (*types.StatusRecord, error)
	UploadStatus(ctx context.Context, station string) (*types.StatusRecord, error)
}
