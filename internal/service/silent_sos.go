package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"silent-sos/internal/config"
	"silent-sos/internal/consumer"
	"silent-sos/internal/evaluator"
	"silent-sos/internal/httpapi"
	"silent-sos/internal/metrics"
	"silent-sos/internal/repository"

	"silent-sos/internal/common/database"
	mqttcommon "silent-sos/internal/common/mqtt"
	rediscommon "silent-sos/internal/common/redis"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SilentSOSService 跌倒检测服务：HTTP 接口 + 可选的 Redis Streams / MQTT 接入
type SilentSOSService struct {
	config   *config.Config
	logger   *zap.Logger
	db       *sql.DB
	redis    *redis.Client
	mqtt     *mqttcommon.Client
	analysis *AnalysisService
	server   *Server

	streamConsumer *consumer.StreamConsumer
	mqttConsumer   *consumer.MQTTConsumer

	wg sync.WaitGroup
}

// NewSilentSOSService 创建服务；可选依赖连接失败时降级运行
func NewSilentSOSService(cfg *config.Config, logger *zap.Logger) (*SilentSOSService, error) {
	m := metrics.New()
	analysis := NewAnalysisService(
		evaluator.ThresholdsFromConfig(cfg),
		repository.NewAlertStore(logger),
		repository.NewLatestAnalysisStore(),
		m,
		cfg.DefaultCameraID,
		logger,
	)

	s := &SilentSOSService{
		config:   cfg,
		logger:   logger,
		analysis: analysis,
	}

	// 初始化数据库（摄像头登记）
	if cfg.DBEnabled {
		if db, err := database.NewPostgresDB(context.Background(), &cfg.Database, logger); err == nil {
			s.db = db
		} else {
			logger.Warn("DB enabled but connection failed, camera lookup disabled", zap.Error(err))
		}
	}

	// 初始化Redis
	if cfg.RedisEnabled {
		if client, err := rediscommon.Connect(context.Background(), &cfg.Redis, logger); err == nil {
			s.redis = client
			analysis.SetAlertPublisher(consumer.NewAlertCache(cfg, client, logger))
			s.streamConsumer = consumer.NewStreamConsumer(cfg, client, analysis, m, logger)
		} else {
			logger.Warn("Redis enabled but connection failed, streams and alert cache disabled", zap.Error(err))
		}
	}

	// 初始化MQTT（需要数据库解析摄像头、Redis 转发）
	if cfg.MQTTEnabled {
		if s.db == nil || s.redis == nil {
			logger.Warn("MQTT enabled but DB or Redis unavailable, MQTT ingestion disabled")
		} else {
			mqttClient, err := mqttcommon.NewClient(&cfg.MQTT, logger)
			if err != nil {
				s.close()
				return nil, fmt.Errorf("failed to connect to MQTT: %w", err)
			}
			s.mqtt = mqttClient
			cameraRepo := repository.NewCameraRepository(s.db, logger)
			s.mqttConsumer = consumer.NewMQTTConsumer(cfg, mqttClient, s.redis, cameraRepo, m, logger)
		}
	}

	poseTimeout := time.Duration(cfg.Pose.TimeoutSec) * time.Second
	poseClient := NewPoseClient(cfg.Pose.BaseURL, poseTimeout, logger)

	router := httpapi.NewRouter(logger)
	router.RegisterHealthRoutes()
	router.RegisterAnalysisRoutes(httpapi.NewAnalysisHandler(analysis, poseClient, cfg.HTTP.UploadDir, logger))
	router.RegisterAlertRoutes(httpapi.NewAlertHandler(analysis, logger))
	router.HandleHandler("/metrics", m.Handler())
	// 写超时覆盖一次完整的姿态推理
	s.server = NewServer(cfg.HTTP.Addr, router, poseTimeout+30*time.Second, logger)

	return s, nil
}

// Analysis 分析服务
func (s *SilentSOSService) Analysis() *AnalysisService {
	return s.analysis
}

// Start 启动 HTTP 服务与消费者（后台运行）；端口绑定失败时返回错误
func (s *SilentSOSService) Start(ctx context.Context) error {
	s.logger.Info("Starting silent-sos service components")

	if s.streamConsumer != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.streamConsumer.Start(ctx); err != nil {
				s.logger.Error("Stream consumer exited", zap.Error(err))
			}
		}()
	}

	if s.mqttConsumer != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.mqttConsumer.Start(ctx); err != nil {
				s.logger.Error("MQTT consumer exited", zap.Error(err))
			}
		}()
	}

	if err := s.server.Start(); err != nil {
		return err
	}

	s.logger.Info("Silent-sos service started successfully",
		zap.Bool("redis", s.redis != nil),
		zap.Bool("db", s.db != nil),
		zap.Bool("mqtt", s.mqtt != nil),
	)
	return nil
}

// Stop 停止服务；调用前应先取消 Start 的 ctx
func (s *SilentSOSService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping silent-sos service")

	if err := s.server.Stop(ctx); err != nil {
		s.logger.Error("Error stopping HTTP server", zap.Error(err))
	}

	if s.mqttConsumer != nil {
		if err := s.mqttConsumer.Stop(ctx); err != nil {
			s.logger.Error("Error stopping MQTT consumer", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for consumers to stop")
	}

	s.close()
	s.logger.Info("Silent-sos service stopped")
	return nil
}

func (s *SilentSOSService) close() {
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	if s.redis != nil {
		_ = rediscommon.Close(s.redis)
	}
	if s.db != nil {
		_ = database.Close(s.db)
	}
}
