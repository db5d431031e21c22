package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"silent-sos/internal/models"

	"go.uber.org/zap"
)

// AlertService 报警服务
type AlertService interface {
	ListAlerts() []models.AlertRecord
	Acknowledge(ctx context.Context, id int64) (models.AlertRecord, error)
}

// AlertHandler 报警接口
type AlertHandler struct {
	alerts AlertService
	logger *zap.Logger
}

func NewAlertHandler(alerts AlertService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, logger: logger}
}

// ListAlerts 报警历史；?status=ACTIVE|ACKNOWLEDGED 过滤
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	records := h.alerts.ListAlerts()

	status := models.AlertStatus(r.URL.Query().Get("status"))
	cameraID := r.URL.Query().Get("camera_id")
	if status != "" || cameraID != "" {
		filtered := make([]models.AlertRecord, 0, len(records))
		for _, rec := range records {
			if status != "" && rec.Status != status {
				continue
			}
			if cameraID != "" && rec.CameraID != cameraID {
				continue
			}
			filtered = append(filtered, rec)
		}
		records = filtered
	}

	writeOk(w, map[string]any{
		"items": records,
		"total": len(records),
	})
}

// AcknowledgeAlert 确认报警
func (h *AlertHandler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseID(rawID)
	if err != nil {
		writeError(w, err, "invalid alert id")
		return
	}

	record, err := h.alerts.Acknowledge(r.Context(), id)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.logger.Error("Acknowledge alert failed", zap.Int64("alert_id", id), zap.Error(err))
		}
		writeError(w, err, "failed to acknowledge alert")
		return
	}

	writeOk(w, record)
}

// ExportAlerts 导出报警历史为 Excel
func (h *AlertHandler) ExportAlerts(w http.ResponseWriter, r *http.Request) {
	excelData, err := GenerateAlertExport(h.alerts.ListAlerts())
	if err != nil {
		h.logger.Error("GenerateAlertExport failed", zap.Error(err))
		writeFail(w, http.StatusInternalServerError, "failed to generate export")
		return
	}

	filename := fmt.Sprintf("alerts-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(excelData)
}
