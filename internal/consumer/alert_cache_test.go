package consumer

import (
	"context"
	"testing"
	"time"

	"silent-sos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertCache_PublishAndGet(t *testing.T) {
	mr, redisClient, cfg := setupTestRedis(t)
	cache := NewAlertCache(cfg, redisClient, newNopLogger())
	ctx := context.Background()

	alerts := []models.AlertRecord{
		{ID: 1, DistressLabel: models.DistressCollapse, Risk: models.RiskHigh, CameraID: "CAM_01", Confidence: 0.78, Status: models.AlertActive, CreatedAt: time.Now().UTC()},
		{ID: 3, DistressLabel: models.DistressCollapse, Risk: models.RiskCritical, CameraID: "CAM_01", Confidence: 0.91, Status: models.AlertActive, CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, cache.PublishAlerts(ctx, "CAM_01", alerts))

	key := "silent-sos:camera:CAM_01:alerts"
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 60*time.Second, mr.TTL(key))

	got, err := cache.GetAlerts(ctx, "CAM_01")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Equal(t, models.RiskCritical, got[1].Risk)
}

func TestAlertCache_EmptyListDeletesKey(t *testing.T) {
	mr, redisClient, cfg := setupTestRedis(t)
	cache := NewAlertCache(cfg, redisClient, newNopLogger())
	ctx := context.Background()

	require.NoError(t, cache.PublishAlerts(ctx, "CAM_02", []models.AlertRecord{{ID: 1, CameraID: "CAM_02"}}))
	require.NoError(t, cache.PublishAlerts(ctx, "CAM_02", nil))

	assert.False(t, mr.Exists("silent-sos:camera:CAM_02:alerts"))
}

func TestAlertCache_GetMissing(t *testing.T) {
	_, redisClient, cfg := setupTestRedis(t)
	cache := NewAlertCache(cfg, redisClient, newNopLogger())

	got, err := cache.GetAlerts(context.Background(), "CAM_404")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAlertCache_Expires(t *testing.T) {
	mr, redisClient, cfg := setupTestRedis(t)
	cache := NewAlertCache(cfg, redisClient, newNopLogger())
	ctx := context.Background()

	require.NoError(t, cache.PublishAlerts(ctx, "CAM_01", []models.AlertRecord{{ID: 1, CameraID: "CAM_01"}}))
	mr.FastForward(61 * time.Second)

	got, err := cache.GetAlerts(ctx, "CAM_01")
	require.NoError(t, err)
	assert.Empty(t, got)
}
