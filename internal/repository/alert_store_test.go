package repository

import (
	"errors"
	"sync"
	"testing"

	"silent-sos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func distressResult(cameraID string, risk models.RiskLevel) models.SessionResult {
	label := models.DistressCollapse
	onset := 1.07
	return models.SessionResult{
		SessionID:             "session-" + cameraID,
		DistressLabel:         &label,
		Risk:                  risk,
		OnsetTimestampSeconds: &onset,
		CameraID:              cameraID,
		Confidence:            0.78,
	}
}

func TestAlertStore_Record_NoDistressIsNoop(t *testing.T) {
	store := NewAlertStore(zap.NewNop())

	_, ok := store.Record(models.NoDistressResult("CAM_01"))

	assert.False(t, ok)
	assert.Empty(t, store.List())
}

func TestAlertStore_Record_CopiesResultFields(t *testing.T) {
	store := NewAlertStore(zap.NewNop())

	record, ok := store.Record(distressResult("CAM_01", models.RiskHigh))

	require.True(t, ok)
	assert.Equal(t, int64(1), record.ID)
	assert.Equal(t, models.DistressCollapse, record.DistressLabel)
	assert.Equal(t, models.RiskHigh, record.Risk)
	assert.Equal(t, 1.07, record.OnsetTimestampSeconds)
	assert.Equal(t, "CAM_01", record.CameraID)
	assert.Equal(t, 0.78, record.Confidence)
	assert.Equal(t, models.AlertActive, record.Status)
	assert.False(t, record.CreatedAt.IsZero())
	assert.Nil(t, record.AcknowledgedAt)
}

func TestAlertStore_IDsAreSequential(t *testing.T) {
	store := NewAlertStore(zap.NewNop())

	for i := 1; i <= 5; i++ {
		record, ok := store.Record(distressResult("CAM_01", models.RiskHigh))
		require.True(t, ok)
		assert.Equal(t, int64(i), record.ID)
	}

	list := store.List()
	require.Len(t, list, 5)
	for i, r := range list {
		assert.Equal(t, int64(i+1), r.ID)
	}
}

func TestAlertStore_ConcurrentRecordKeepsIDsUnique(t *testing.T) {
	store := NewAlertStore(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Record(distressResult("CAM_01", models.RiskHigh))
		}()
	}
	wg.Wait()

	list := store.List()
	require.Len(t, list, 50)
	for i, r := range list {
		assert.Equal(t, int64(i+1), r.ID)
	}
}

func TestAlertStore_Acknowledge_Idempotent(t *testing.T) {
	store := NewAlertStore(zap.NewNop())
	record, _ := store.Record(distressResult("CAM_01", models.RiskHigh))

	first, err := store.Acknowledge(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertAcknowledged, first.Status)
	require.NotNil(t, first.AcknowledgedAt)

	second, err := store.Acknowledge(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertAcknowledged, second.Status)
	assert.Equal(t, *first.AcknowledgedAt, *second.AcknowledgedAt)
}

func TestAlertStore_Acknowledge_NotFound(t *testing.T) {
	store := NewAlertStore(zap.NewNop())
	store.Record(distressResult("CAM_01", models.RiskHigh))

	for _, id := range []int64{0, -1, 2, 99} {
		_, err := store.Acknowledge(id)
		assert.True(t, errors.Is(err, models.ErrAlertNotFound), "id=%d", id)
	}
}

func TestAlertStore_ListIsSnapshot(t *testing.T) {
	store := NewAlertStore(zap.NewNop())
	record, _ := store.Record(distressResult("CAM_01", models.RiskHigh))

	list := store.List()
	list[0].Status = models.AlertAcknowledged
	list[0].Risk = models.RiskLow

	got, err := store.Get(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertActive, got.Status)
	assert.Equal(t, models.RiskHigh, got.Risk)
}

func TestAlertStore_ActiveByCamera(t *testing.T) {
	store := NewAlertStore(zap.NewNop())
	a, _ := store.Record(distressResult("CAM_01", models.RiskHigh))
	store.Record(distressResult("CAM_01", models.RiskLow))
	store.Record(distressResult("CAM_02", models.RiskHigh))

	_, err := store.Acknowledge(a.ID)
	require.NoError(t, err)

	active := store.ActiveByCamera("CAM_01")
	require.Len(t, active, 1)
	assert.Equal(t, int64(2), active[0].ID)
	assert.Empty(t, store.ActiveByCamera("CAM_03"))
}

func TestLatestAnalysisStore_Lifecycle(t *testing.T) {
	store := NewLatestAnalysisStore()

	latest := store.Get()
	assert.Equal(t, models.AnalysisIdle, latest.Status)
	assert.Nil(t, latest.Result)

	store.MarkProcessing()
	assert.Equal(t, models.AnalysisProcessing, store.Get().Status)

	store.MarkDone(distressResult("CAM_01", models.RiskHigh))
	latest = store.Get()
	assert.Equal(t, models.AnalysisDone, latest.Status)
	require.NotNil(t, latest.Result)
	assert.Equal(t, "CAM_01", latest.Result.CameraID)

	store.MarkProcessing()
	assert.Nil(t, store.Get().Result)
}
