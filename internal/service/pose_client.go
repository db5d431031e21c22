package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"silent-sos/internal/ingest"
	"silent-sos/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PoseRequest 姿态推理请求
type PoseRequest struct {
	VideoPath string `json:"video_path"`
	CameraID  string `json:"camera_id,omitempty"`
}

// PoseResponse 姿态推理响应，status 为 0 表示成功
type PoseResponse struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// PoseClient 外部姿态推理服务客户端（视频 -> 逐帧关键点）
type PoseClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewPoseClient 创建姿态推理客户端
func NewPoseClient(baseURL string, timeout time.Duration, logger *zap.Logger) *PoseClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &PoseClient{
		httpClient: client,
		logger:     logger,
	}
}

// InferKeypoints 请求姿态服务对视频做关键点推理
// 任何失败都包装为 models.ErrStreamUnreadable
func (c *PoseClient) InferKeypoints(ctx context.Context, videoPath, cameraID string) (*models.KeypointPayload, error) {
	c.logger.Info("Calling pose service",
		zap.String("video_path", videoPath),
		zap.String("camera_id", cameraID),
	)

	var response PoseResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(PoseRequest{VideoPath: videoPath, CameraID: cameraID}).
		SetResult(&response).
		Post("/v1/pose/keypoints")
	if err != nil {
		c.logger.Error("Pose service call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: failed to call pose service: %v", models.ErrStreamUnreadable, err)
	}

	if resp.IsError() {
		c.logger.Error("Pose service returned HTTP error",
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("%w: pose service http status %d", models.ErrStreamUnreadable, resp.StatusCode())
	}

	if response.Status != 0 {
		c.logger.Error("Pose service returned error",
			zap.Int("status", response.Status),
			zap.String("msg", response.Msg),
		)
		return nil, fmt.Errorf("%w: pose service error: %s (status: %d)", models.ErrStreamUnreadable, response.Msg, response.Status)
	}

	payload, err := ingest.DecodePayload(response.Data)
	if err != nil {
		return nil, err
	}
	if payload.CameraID == "" {
		payload.CameraID = cameraID
	}

	c.logger.Info("Pose service returned keypoints",
		zap.String("camera_id", payload.CameraID),
		zap.Int("frame_count", len(payload.Frames)),
		zap.Float64("fps", payload.FPS),
	)
	return payload, nil
}

// VideoSource 以视频文件为关键点来源，Open 时才调用姿态服务
func (c *PoseClient) VideoSource(videoPath, cameraID string) ingest.KeypointSource {
	return ingest.SourceFunc(func(ctx context.Context) (*ingest.KeypointStream, error) {
		payload, err := c.InferKeypoints(ctx, videoPath, cameraID)
		if err != nil {
			return nil, err
		}
		return ingest.PayloadStream(payload), nil
	})
}
