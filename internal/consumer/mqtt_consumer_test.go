package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"silent-sos/internal/metrics"
	"silent-sos/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCameras map[string]*models.Camera

func (f fakeCameras) GetCameraBySerialNumber(ctx context.Context, serialNumber string) (*models.Camera, error) {
	if c, ok := f[serialNumber]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("camera not found: %s", serialNumber)
}

func TestMQTTConsumer_HandleMessage_Forwards(t *testing.T) {
	_, redisClient, cfg := setupTestRedis(t)
	m := metrics.New()
	cameras := fakeCameras{"SN-100": {CameraID: "CAM_LOBBY", SerialNumber: "SN-100"}}
	c := NewMQTTConsumer(cfg, nil, redisClient, cameras, m, newNopLogger())

	payload := []byte(`{"camera_id":"spoofed","fps":30,"frames":[{"frame_index":1,"landmarks":null}]}`)
	require.NoError(t, c.handleMessage("pose/SN-100/keypoints", payload))

	msgs, err := redisClient.XRange(context.Background(), cfg.Stream.Keypoints, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	var forwarded models.KeypointPayload
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["data"].(string)), &forwarded))
	assert.Equal(t, "CAM_LOBBY", forwarded.CameraID)
	assert.Equal(t, 30.0, forwarded.FPS)
	assert.Len(t, forwarded.Frames, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StreamMessages.WithLabelValues("mqtt", "forwarded")))
}

func TestMQTTConsumer_HandleMessage_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
		result  string
	}{
		{"short topic", "pose", `{}`, "invalid_topic"},
		{"empty serial", "pose//keypoints", `{}`, "invalid_topic"},
		{"bad json", "pose/SN-100/keypoints", `{nope`, "invalid_payload"},
		{"unknown camera", "pose/SN-999/keypoints", `{"frames":[]}`, "unknown_camera"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, redisClient, cfg := setupTestRedis(t)
			m := metrics.New()
			cameras := fakeCameras{"SN-100": {CameraID: "CAM_LOBBY"}}
			c := NewMQTTConsumer(cfg, nil, redisClient, cameras, m, newNopLogger())

			err := c.handleMessage(tt.topic, []byte(tt.payload))
			assert.Error(t, err)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.StreamMessages.WithLabelValues("mqtt", tt.result)))

			n, err := redisClient.XLen(context.Background(), cfg.Stream.Keypoints).Result()
			require.NoError(t, err)
			assert.Equal(t, int64(0), n)
		})
	}
}
