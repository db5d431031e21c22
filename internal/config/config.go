package config

import (
	"os"
	"strconv"

	commoncfg "silent-sos/internal/common/config"
)

// Config silent-sos 跌倒检测服务配置
type Config struct {
	HTTP struct {
		Addr      string
		UploadDir string // 上传视频的临时目录
	}

	DBEnabled bool
	Database  commoncfg.DatabaseConfig

	RedisEnabled bool
	Redis        commoncfg.RedisConfig

	MQTTEnabled bool
	MQTT        commoncfg.MQTTConfig
	MQTTTopic   string // 关键点主题，如 "pose/+/keypoints"

	// 外部姿态推理服务
	Pose struct {
		BaseURL    string
		TimeoutSec int
	}

	// Redis Streams 消费配置
	Stream struct {
		Keypoints     string
		ConsumerGroup string
		ConsumerName  string
		BatchSize     int64
	}

	// 报警缓存配置
	Cache struct {
		AlertKeyPrefix string // 如 "silent-sos:camera:"
		AlertSuffix    string // 如 ":alerts"
		AlertTTL       int    // 秒
	}

	// 检测阈值
	Detection struct {
		FallVelocity      float64 // Vfall，px/s
		HeightDropRatio   float64 // Hdrop
		QuietVelocity     float64 // Vquiet，px/s
		RecoverRatio      float64 // Hrecover
		RecoverySeconds   float64
		InactivitySeconds float64
		DefaultFPS        float64
	}

	DefaultCameraID string

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.UploadDir = getEnv("UPLOAD_DIR", "uploads")

	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "silent_sos",
		SSLMode:  "disable",
		MaxConns: 10,
		MaxIdle:  5,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.RedisEnabled = getEnv("REDIS_ENABLED", "true") == "true"
	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.MQTTEnabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT = commoncfg.MQTTConfig{
		Broker:   "tcp://localhost:1883",
		ClientID: "silent-sos",
		QoS:      1,
	}
	cfg.MQTT.LoadFromEnv("MQTT")
	cfg.MQTTTopic = getEnv("MQTT_TOPIC", "pose/+/keypoints")

	cfg.Pose.BaseURL = getEnv("POSE_SERVICE_URL", "http://localhost:9000")
	cfg.Pose.TimeoutSec = parseInt(getEnv("POSE_TIMEOUT_SEC", "60"), 60)

	cfg.Stream.Keypoints = getEnv("STREAM_KEYPOINTS", "pose:keypoints:stream")
	cfg.Stream.ConsumerGroup = getEnv("STREAM_CONSUMER_GROUP", "silent-sos")
	cfg.Stream.ConsumerName = getEnv("STREAM_CONSUMER_NAME", "silent-sos-1")
	cfg.Stream.BatchSize = int64(parseInt(getEnv("STREAM_BATCH_SIZE", "10"), 10))

	cfg.Cache.AlertKeyPrefix = getEnv("CACHE_ALERT_PREFIX", "silent-sos:camera:")
	cfg.Cache.AlertSuffix = ":alerts"
	cfg.Cache.AlertTTL = parseInt(getEnv("CACHE_ALERT_TTL", "300"), 300)

	cfg.Detection.FallVelocity = parseFloat(getEnv("DETECT_VFALL", ""), 75)
	cfg.Detection.HeightDropRatio = parseFloat(getEnv("DETECT_HDROP", ""), 0.4)
	cfg.Detection.QuietVelocity = parseFloat(getEnv("DETECT_VQUIET", ""), 10)
	cfg.Detection.RecoverRatio = parseFloat(getEnv("DETECT_HRECOVER", ""), 0.85)
	cfg.Detection.RecoverySeconds = parseFloat(getEnv("DETECT_RECOVERY_SEC", ""), 1.5)
	cfg.Detection.InactivitySeconds = parseFloat(getEnv("DETECT_INACTIVITY_SEC", ""), 4)
	cfg.Detection.DefaultFPS = parseFloat(getEnv("DETECT_DEFAULT_FPS", ""), 30)

	cfg.DefaultCameraID = getEnv("DEFAULT_CAMERA_ID", "CAM_01")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}
