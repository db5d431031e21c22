package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 清除环境变量
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "uploads", cfg.HTTP.UploadDir)

	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "silent_sos", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)

	assert.False(t, cfg.MQTTEnabled)
	assert.Equal(t, "pose/+/keypoints", cfg.MQTTTopic)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)

	assert.Equal(t, "pose:keypoints:stream", cfg.Stream.Keypoints)
	assert.Equal(t, "silent-sos", cfg.Stream.ConsumerGroup)
	assert.Equal(t, int64(10), cfg.Stream.BatchSize)

	assert.Equal(t, "silent-sos:camera:", cfg.Cache.AlertKeyPrefix)
	assert.Equal(t, ":alerts", cfg.Cache.AlertSuffix)
	assert.Equal(t, 300, cfg.Cache.AlertTTL)

	// 检测阈值默认值
	assert.Equal(t, 75.0, cfg.Detection.FallVelocity)
	assert.Equal(t, 0.4, cfg.Detection.HeightDropRatio)
	assert.Equal(t, 10.0, cfg.Detection.QuietVelocity)
	assert.Equal(t, 0.85, cfg.Detection.RecoverRatio)
	assert.Equal(t, 1.5, cfg.Detection.RecoverySeconds)
	assert.Equal(t, 4.0, cfg.Detection.InactivitySeconds)
	assert.Equal(t, 30.0, cfg.Detection.DefaultFPS)

	assert.Equal(t, "CAM_01", cfg.DefaultCameraID)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Clearenv()
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ADDR", "test-redis:6380")
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("DETECT_VFALL", "55")
	t.Setenv("DETECT_HDROP", "0.75")
	t.Setenv("DETECT_INACTIVITY_SEC", "8")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "test-redis:6380", cfg.Redis.Addr)
	assert.True(t, cfg.MQTTEnabled)
	assert.Equal(t, 55.0, cfg.Detection.FallVelocity)
	assert.Equal(t, 0.75, cfg.Detection.HeightDropRatio)
	assert.Equal(t, 8.0, cfg.Detection.InactivitySeconds)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestParseFloat_InvalidFallsBack(t *testing.T) {
	assert.Equal(t, 0.4, parseFloat("abc", 0.4))
	assert.Equal(t, 0.4, parseFloat("", 0.4))
	assert.Equal(t, 1.25, parseFloat("1.25", 0.4))
}

func TestGetEnv(t *testing.T) {
	os.Clearenv()
	assert.Equal(t, "default-value", getEnv("TEST_KEY", "default-value"))

	t.Setenv("TEST_KEY", "env-value")
	assert.Equal(t, "env-value", getEnv("TEST_KEY", "default-value"))
}
