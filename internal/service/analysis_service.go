package service

import (
	"context"
	"time"

	"silent-sos/internal/evaluator"
	"silent-sos/internal/ingest"
	"silent-sos/internal/metrics"
	"silent-sos/internal/models"
	"silent-sos/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertPublisher 报警镜像（如 Redis 缓存），失败只记录日志
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, cameraID string, alerts []models.AlertRecord) error
}

// AnalysisService 分析会话编排：打开关键点流，逐帧驱动检测会话，
// 更新最近一次分析并在检测到跌倒时生成报警
type AnalysisService struct {
	thresholds      evaluator.Thresholds
	alerts          *repository.AlertStore
	latest          *repository.LatestAnalysisStore
	publisher       AlertPublisher
	metrics         *metrics.Metrics
	defaultCameraID string
	logger          *zap.Logger
}

// NewAnalysisService 创建分析服务
func NewAnalysisService(
	thresholds evaluator.Thresholds,
	alerts *repository.AlertStore,
	latest *repository.LatestAnalysisStore,
	m *metrics.Metrics,
	defaultCameraID string,
	logger *zap.Logger,
) *AnalysisService {
	if defaultCameraID == "" {
		defaultCameraID = models.DefaultCameraID
	}
	return &AnalysisService{
		thresholds:      thresholds,
		alerts:          alerts,
		latest:          latest,
		metrics:         m,
		defaultCameraID: defaultCameraID,
		logger:          logger,
	}
}

// SetAlertPublisher 设置报警镜像，nil 表示不镜像
func (s *AnalysisService) SetAlertPublisher(p AlertPublisher) {
	s.publisher = p
}

// Analyze 对一个关键点来源运行一次完整的分析会话
// cameraID 非空时优先于流自带的摄像头标识；流无法打开时返回无异常的默认结果
func (s *AnalysisService) Analyze(ctx context.Context, cameraID string, source ingest.KeypointSource) (models.SessionResult, *models.AlertRecord) {
	sessionID := uuid.New().String()
	started := time.Now()
	s.latest.MarkProcessing()

	stream, err := source.Open(ctx)
	if err != nil {
		s.logger.Warn("Keypoint stream unreadable, returning default result",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		result := models.NoDistressResult(s.resolveCamera(cameraID, ""))
		result.SessionID = sessionID
		return s.finish(ctx, result, 0, started)
	}

	camera := s.resolveCamera(cameraID, stream.CameraID)
	session := evaluator.NewSession(s.thresholds, stream.FPS)
	// 流已在内存中且有限，会话总是跑到终止状态或流结束，不受 ctx 取消影响
	for {
		frame, ok := stream.Frames.Next()
		if !ok {
			break
		}
		if session.Feed(frame) {
			break
		}
	}

	result := session.Result(camera)
	result.SessionID = sessionID

	s.logger.Info("Analysis session finished",
		zap.String("session_id", sessionID),
		zap.String("camera_id", camera),
		zap.String("final_state", string(result.FinalState)),
		zap.String("risk", string(result.Risk)),
		zap.Float64("confidence", result.Confidence),
		zap.Int("frames", session.Frames()),
		zap.Float64("fps", session.FPS()),
	)
	return s.finish(ctx, result, session.Frames(), started)
}

// finish 更新最近一次分析、记录报警并上报指标
func (s *AnalysisService) finish(ctx context.Context, result models.SessionResult, frames int, started time.Time) (models.SessionResult, *models.AlertRecord) {
	s.latest.MarkDone(result)

	if s.metrics != nil {
		s.metrics.SessionsTotal.WithLabelValues(string(result.Risk)).Inc()
		s.metrics.FramesProcessed.Add(float64(frames))
		s.metrics.SessionDuration.Observe(time.Since(started).Seconds())
	}

	record, created := s.alerts.Record(result)
	if !created {
		return result, nil
	}

	if s.metrics != nil {
		s.metrics.AlertsCreated.WithLabelValues(string(record.Risk)).Inc()
	}
	// 报警已落入存储，镜像写入不随请求取消而放弃
	s.publish(context.WithoutCancel(ctx), record.CameraID)
	return result, &record
}

// Acknowledge 确认报警并刷新该摄像头的报警镜像
func (s *AnalysisService) Acknowledge(ctx context.Context, id int64) (models.AlertRecord, error) {
	before, err := s.alerts.Get(id)
	if err != nil {
		return models.AlertRecord{}, err
	}

	record, err := s.alerts.Acknowledge(id)
	if err != nil {
		return models.AlertRecord{}, err
	}

	if before.Status == models.AlertActive {
		if s.metrics != nil {
			s.metrics.AlertsAcknowledged.Inc()
		}
		s.publish(ctx, record.CameraID)
	}
	return record, nil
}

// ListAlerts 报警历史（按创建顺序）
func (s *AnalysisService) ListAlerts() []models.AlertRecord {
	return s.alerts.List()
}

// LatestAnalysis 最近一次分析
func (s *AnalysisService) LatestAnalysis() models.LatestAnalysis {
	return s.latest.Get()
}

func (s *AnalysisService) publish(ctx context.Context, cameraID string) {
	if s.publisher == nil {
		return
	}
	active := s.alerts.ActiveByCamera(cameraID)
	if err := s.publisher.PublishAlerts(ctx, cameraID, active); err != nil {
		s.logger.Error("Failed to publish alert cache",
			zap.String("camera_id", cameraID),
			zap.Error(err),
		)
	}
}

func (s *AnalysisService) resolveCamera(requested, fromStream string) string {
	if requested != "" {
		return requested
	}
	if fromStream != "" {
		return fromStream
	}
	return s.defaultCameraID
}
