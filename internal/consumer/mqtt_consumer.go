package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"silent-sos/internal/config"
	"silent-sos/internal/metrics"
	"silent-sos/internal/models"

	mqttcommon "silent-sos/internal/common/mqtt"
	rediscommon "silent-sos/internal/common/redis"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CameraLookup 按序列号查询摄像头
type CameraLookup interface {
	GetCameraBySerialNumber(ctx context.Context, serialNumber string) (*models.Camera, error)
}

// MQTTConsumer MQTT 关键点消费者：解析摄像头后转发到 Redis Streams
type MQTTConsumer struct {
	config      *config.Config
	mqttClient  *mqttcommon.Client
	redisClient *redis.Client
	cameras     CameraLookup
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewMQTTConsumer 创建MQTT消费者
func NewMQTTConsumer(
	cfg *config.Config,
	mqttClient *mqttcommon.Client,
	redisClient *redis.Client,
	cameras CameraLookup,
	m *metrics.Metrics,
	logger *zap.Logger,
) *MQTTConsumer {
	return &MQTTConsumer{
		config:      cfg,
		mqttClient:  mqttClient,
		redisClient: redisClient,
		cameras:     cameras,
		metrics:     m,
		logger:      logger,
	}
}

// Start 启动消费者
func (c *MQTTConsumer) Start(ctx context.Context) error {
	if err := c.mqttClient.Subscribe(c.config.MQTTTopic, c.config.MQTT.QoS, c.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to keypoint topic: %w", err)
	}

	c.logger.Info("MQTT consumer started",
		zap.String("topic", c.config.MQTTTopic),
	)

	<-ctx.Done()
	return nil
}

// Stop 停止消费者
func (c *MQTTConsumer) Stop(ctx context.Context) error {
	if c.mqttClient.IsConnected() {
		if err := c.mqttClient.Unsubscribe(c.config.MQTTTopic); err != nil {
			c.logger.Error("Failed to unsubscribe", zap.Error(err))
		}
	}

	c.logger.Info("MQTT consumer stopped")
	return nil
}

// handleMessage 处理MQTT消息
// 主题格式: pose/{serial_number}/keypoints
func (c *MQTTConsumer) handleMessage(topic string, payload []byte) error {
	ctx := context.Background()

	parts := strings.Split(topic, "/")
	if len(parts) < 3 || parts[1] == "" {
		c.count("invalid_topic")
		return fmt.Errorf("invalid topic format: %s", topic)
	}
	serial := parts[1]

	var keypoints models.KeypointPayload
	if err := json.Unmarshal(payload, &keypoints); err != nil {
		c.count("invalid_payload")
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	camera, err := c.cameras.GetCameraBySerialNumber(ctx, serial)
	if err != nil {
		c.count("unknown_camera")
		c.logger.Warn("Camera not found",
			zap.String("serial_number", serial),
			zap.Error(err),
		)
		return fmt.Errorf("camera not found: %s", serial)
	}
	keypoints.CameraID = camera.CameraID

	streamID, err := rediscommon.PublishJSONToStream(ctx, c.redisClient, c.config.Stream.Keypoints, keypoints)
	if err != nil {
		c.count("publish_failed")
		return fmt.Errorf("failed to publish to stream: %w", err)
	}
	c.count("forwarded")

	c.logger.Info("Forwarded keypoints to Redis Streams",
		zap.String("camera_id", camera.CameraID),
		zap.String("stream", c.config.Stream.Keypoints),
		zap.String("stream_id", streamID),
		zap.Int("frame_count", len(keypoints.Frames)),
	)
	return nil
}

func (c *MQTTConsumer) count(result string) {
	if c.metrics != nil {
		c.metrics.StreamMessages.WithLabelValues("mqtt", result).Inc()
	}
}
