package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"silent-sos/internal/ingest"
	"silent-sos/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxKeypointBody = 32 << 20
	maxUploadBody   = 512 << 20
)

// Analyzer 分析会话服务
type Analyzer interface {
	Analyze(ctx context.Context, cameraID string, source ingest.KeypointSource) (models.SessionResult, *models.AlertRecord)
	LatestAnalysis() models.LatestAnalysis
}

// VideoSourceFactory 以视频文件构造关键点来源（姿态推理服务）
type VideoSourceFactory interface {
	VideoSource(videoPath, cameraID string) ingest.KeypointSource
}

// AnalysisResponse 分析结果，生成报警时附带报警 ID
type AnalysisResponse struct {
	models.SessionResult
	AlertID *int64 `json:"alert_id,omitempty"`
}

// AnalysisHandler 分析接口
type AnalysisHandler struct {
	analyzer  Analyzer
	videos    VideoSourceFactory
	uploadDir string
	logger    *zap.Logger
}

func NewAnalysisHandler(analyzer Analyzer, videos VideoSourceFactory, uploadDir string, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:  analyzer,
		videos:    videos,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// AnalyzeKeypoints 直接提交关键点序列进行分析
func (h *AnalysisHandler) AnalyzeKeypoints(w http.ResponseWriter, r *http.Request) {
	var payload models.KeypointPayload
	if err := readBodyJSON(r, maxKeypointBody, &payload); err != nil {
		writeFail(w, http.StatusBadRequest, fmt.Sprintf("invalid keypoint payload: %v", err))
		return
	}

	cameraID := r.URL.Query().Get("camera_id")
	result, alert := h.analyzer.Analyze(r.Context(), cameraID, ingest.PayloadSource(&payload))
	writeOk(w, newAnalysisResponse(result, alert))
}

// UploadVideo 上传视频（multipart 字段 video），保存后交给姿态服务推理再分析
func (h *AnalysisHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeFail(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		writeFail(w, http.StatusBadRequest, "video file not found in request")
		return
	}
	defer file.Close()

	path, err := h.saveUpload(file, header.Filename)
	if err != nil {
		h.logger.Error("Failed to save uploaded video", zap.Error(err))
		writeFail(w, http.StatusInternalServerError, "failed to save video")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn("Failed to remove uploaded video", zap.String("path", path), zap.Error(err))
		}
	}()

	cameraID := r.FormValue("camera_id")
	h.logger.Info("Video uploaded",
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
		zap.String("camera_id", cameraID),
	)

	result, alert := h.analyzer.Analyze(r.Context(), cameraID, h.videos.VideoSource(path, cameraID))
	writeOk(w, newAnalysisResponse(result, alert))
}

// GetLatest 最近一次分析
func (h *AnalysisHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	writeOk(w, h.analyzer.LatestAnalysis())
}

// saveUpload 以随机文件名保存上传文件，保留原扩展名
func (h *AnalysisHandler) saveUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	path, err := filepath.Abs(filepath.Join(h.uploadDir, uuid.New().String()+ext))
	if err != nil {
		return "", fmt.Errorf("failed to resolve upload path: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

func newAnalysisResponse(result models.SessionResult, alert *models.AlertRecord) AnalysisResponse {
	resp := AnalysisResponse{SessionResult: result}
	if alert != nil {
		id := alert.ID
		resp.AlertID = &id
	}
	return resp
}
