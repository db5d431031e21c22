package consumer

import (
	"context"
	"fmt"
	"time"

	"silent-sos/internal/config"
	"silent-sos/internal/ingest"
	"silent-sos/internal/metrics"
	"silent-sos/internal/models"

	rediscommon "silent-sos/internal/common/redis"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Analyzer 分析会话执行者
type Analyzer interface {
	Analyze(ctx context.Context, cameraID string, source ingest.KeypointSource) (models.SessionResult, *models.AlertRecord)
}

// StreamConsumer Redis Streams 关键点消费者：每条消息运行一次分析会话
type StreamConsumer struct {
	config      *config.Config
	redisClient *redis.Client
	analyzer    Analyzer
	metrics     *metrics.Metrics
	logger      *zap.Logger

	block      time.Duration // XREADGROUP 阻塞时间
	ackTimeout time.Duration
}

// NewStreamConsumer 创建 Streams 消费者
func NewStreamConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	analyzer Analyzer,
	m *metrics.Metrics,
	logger *zap.Logger,
) *StreamConsumer {
	return &StreamConsumer{
		config:      cfg,
		redisClient: redisClient,
		analyzer:    analyzer,
		metrics:     m,
		logger:      logger,
		block:       2 * time.Second,
		ackTimeout:  5 * time.Second,
	}
}

// Start 启动消费者，阻塞直到 ctx 取消
func (c *StreamConsumer) Start(ctx context.Context) error {
	stream := c.config.Stream.Keypoints
	if err := rediscommon.CreateConsumerGroup(ctx, c.redisClient, stream, c.config.Stream.ConsumerGroup); err != nil {
		return fmt.Errorf("failed to create consumer group for %s: %w", stream, err)
	}

	c.logger.Info("Stream consumer started",
		zap.String("stream", stream),
		zap.String("consumer_group", c.config.Stream.ConsumerGroup),
		zap.String("consumer_name", c.config.Stream.ConsumerName),
	)

	backoffDuration := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stream consumer stopped")
			return nil
		default:
		}

		if _, err := c.consumeOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to consume keypoint stream",
				zap.Error(err),
				zap.Duration("backoff", backoffDuration),
			)

			// 指数退避
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoffDuration):
				backoffDuration *= 2
				if backoffDuration > maxBackoff {
					backoffDuration = maxBackoff
				}
			}
			continue
		}
		backoffDuration = time.Second
	}
}

// consumeOnce 读取一批消息并逐条处理，返回处理条数
func (c *StreamConsumer) consumeOnce(ctx context.Context) (int, error) {
	messages, err := rediscommon.ReadFromStream(
		ctx,
		c.redisClient,
		c.config.Stream.Keypoints,
		c.config.Stream.ConsumerGroup,
		c.config.Stream.ConsumerName,
		c.config.Stream.BatchSize,
		c.block,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to read from stream %s: %w", c.config.Stream.Keypoints, err)
	}

	for _, msg := range messages {
		c.processMessage(ctx, msg)

		// 无论结果如何都确认，坏消息不重投
		if err := c.ack(msg); err != nil {
			c.logger.Error("Failed to ack message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}
	return len(messages), nil
}

// ack 确认消息；使用独立超时 ctx，关闭服务时已处理的消息仍会被确认
func (c *StreamConsumer) ack(msg rediscommon.StreamMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.ackTimeout)
	defer cancel()
	return rediscommon.AckMessage(ctx, c.redisClient, msg.Stream, c.config.Stream.ConsumerGroup, msg.ID)
}

// processMessage 处理单条消息，data 字段缺失或不可解析时按不可读流处理
func (c *StreamConsumer) processMessage(ctx context.Context, msg rediscommon.StreamMessage) {
	var raw []byte
	if data, ok := msg.Values["data"].(string); ok {
		raw = []byte(data)
	}

	result, alert := c.analyzer.Analyze(ctx, "", ingest.JSONSource(raw))

	outcome := "no_distress"
	if alert != nil {
		outcome = "alert"
	}
	if c.metrics != nil {
		c.metrics.StreamMessages.WithLabelValues("redis", outcome).Inc()
	}

	c.logger.Debug("Processed keypoint message",
		zap.String("message_id", msg.ID),
		zap.String("session_id", result.SessionID),
		zap.String("risk", string(result.Risk)),
	)
}
