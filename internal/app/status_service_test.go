package app

import (
	"context"
	"testing"

	"github.com/diirlabs/station-service/pkg/errors"
	"github.com/diirlabs/station-service/pkg/types"
	"github.com/diirlabs/station-service/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndReadPublishStatus(t *testing.T) {
	store := mocks.NewMockStatusStore()
	svc := NewStatusService(store)

	err := svc.RecordPublishUpdated(context.Background(), "radio1", types.StatusPublishUpdated)
	require.NoError(t, err)

	record, err := svc.PublishStatus(context.Background(), "radio1")
	require.NoError(t, err)
	assert.Equal(t, "radio1", record.ID)
	assert.Equal(t, types.StatusPublishUpdated, record.Status)
}

func TestRecordPublishStatusLatestWins(t *testing.T) {
	store := mocks.NewMockStatusStore()
	svc := NewStatusService(store)

	require.NoError(t, svc.RecordPublishUpdated(context.Background(), "radio1", types.StatusPending))
	require.NoError(t, svc.RecordPublishUpdated(context.Background(), "radio1", types.StatusPublishUpdated))

	record, err := svc.PublishStatus(context.Background(), "radio1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusPublishUpdated, record.Status)
}

func TestRecordPublishStatusRejectsUnknownState(t *testing.T) {
	svc := NewStatusService(mocks.NewMockStatusStore())

	err := svc.RecordPublishUpdated(context.Background(), "radio1", "sideways")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	err = svc.RecordPublishUpdated(context.Background(), "", types.StatusPending)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestRecordAndReadUploadStatus(t *testing.T) {
	store := mocks.NewMockStatusStore()
	svc := NewStatusService(store)

	err := svc.RecordUploadFinished(context.Background(), "radio1", types.StatusUploadFinished)
	require.NoError(t, err)

	record, err := svc.UploadStatus(context.Background(), "radio1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusUploadFinished, record.Status)
}

func TestStatusNotFound(t *testing.T) {
	svc := NewStatusService(mocks.NewMockStatusStore())

	_, err := svc.PublishStatus(context.Background(), "ghost")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	_, err = svc.UploadStatus(context.Background(), "ghost")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}
