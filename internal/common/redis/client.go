package redis

import (
	"context"
	"fmt"
	"time"

	"silent-sos/internal/common/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 连接探测超时
const pingTimeout = 3 * time.Second

// Connect 创建 Redis 客户端并探测连通性；失败时关闭客户端并返回错误
// 读超时需大于 Streams 消费的 BLOCK 时间，否则阻塞读会被客户端提前中断
func Connect(ctx context.Context, cfg *config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)
	return client, nil
}

// Close 关闭Redis连接
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
