package consumer

import (
	"context"
	"sync"
	"testing"

	"silent-sos/internal/config"
	"silent-sos/internal/ingest"
	"silent-sos/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client, *config.Config) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = redisClient.Close() })

	cfg := &config.Config{}
	cfg.Stream.Keypoints = "pose:keypoints:stream"
	cfg.Stream.ConsumerGroup = "silent-sos-group"
	cfg.Stream.ConsumerName = "silent-sos-test"
	cfg.Stream.BatchSize = 10
	cfg.Cache.AlertKeyPrefix = "silent-sos:camera:"
	cfg.Cache.AlertSuffix = ":alerts"
	cfg.Cache.AlertTTL = 60

	return mr, redisClient, cfg
}

// fakeAnalyzer 记录每次会话打开的流
type fakeAnalyzer struct {
	mu      sync.Mutex
	streams []*ingest.KeypointStream
	errors  int
	alert   bool
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, cameraID string, source ingest.KeypointSource) (models.SessionResult, *models.AlertRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	stream, err := source.Open(ctx)
	if err != nil {
		a.errors++
		return models.NoDistressResult(cameraID), nil
	}
	a.streams = append(a.streams, stream)
	if a.alert {
		return models.SessionResult{CameraID: stream.CameraID, Risk: models.RiskHigh}, &models.AlertRecord{ID: 1}
	}
	return models.NoDistressResult(stream.CameraID), nil
}

var _ Analyzer = (*fakeAnalyzer)(nil)

func newNopLogger() *zap.Logger { return zap.NewNop() }
