package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"silent-sos/internal/config"
	"silent-sos/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AlertCache Redis 报警缓存（按摄像头保存当前 ACTIVE 报警，供前端轮询）
type AlertCache struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewAlertCache 创建报警缓存
func NewAlertCache(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) *AlertCache {
	return &AlertCache{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (c *AlertCache) key(cameraID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Cache.AlertKeyPrefix,
		cameraID,
		c.config.Cache.AlertSuffix,
	)
}

// PublishAlerts 覆盖写入摄像头的活跃报警；列表为空时删除键
func (c *AlertCache) PublishAlerts(ctx context.Context, cameraID string, alerts []models.AlertRecord) error {
	key := c.key(cameraID)

	if len(alerts) == 0 {
		if err := c.redisClient.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to delete alert cache: %w", err)
		}
		c.logger.Debug("Cleared alert cache", zap.String("camera_id", cameraID))
		return nil
	}

	jsonData, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to marshal alert data: %w", err)
	}

	ttl := time.Duration(c.config.Cache.AlertTTL) * time.Second
	if err := c.redisClient.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set alert cache: %w", err)
	}

	c.logger.Debug("Updated alert cache",
		zap.String("camera_id", cameraID),
		zap.Int("alert_count", len(alerts)),
	)
	return nil
}

// GetAlerts 读取摄像头的活跃报警，键不存在返回空列表
func (c *AlertCache) GetAlerts(ctx context.Context, cameraID string) ([]models.AlertRecord, error) {
	val, err := c.redisClient.Get(ctx, c.key(cameraID)).Result()
	if err != nil {
		if err == redis.Nil {
			return []models.AlertRecord{}, nil
		}
		return nil, fmt.Errorf("failed to get alert cache: %w", err)
	}

	var alerts []models.AlertRecord
	if err := json.Unmarshal([]byte(val), &alerts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert cache: %w", err)
	}
	return alerts, nil
}
