package repository

import (
	"fmt"
	"sync"
	"time"

	"silent-sos/internal/models"

	"go.uber.org/zap"
)

// AlertStore 报警记录仓库（进程内、只追加）
// ID 从 1 开始顺序分配，不复用；记录除状态外不可变
type AlertStore struct {
	mu      sync.RWMutex
	records []models.AlertRecord
	index   map[int64]int // id -> records 下标
	nextID  int64
	now     func() time.Time
	logger  *zap.Logger
}

// NewAlertStore 创建报警仓库
func NewAlertStore(logger *zap.Logger) *AlertStore {
	return &AlertStore{
		index:  make(map[int64]int),
		nextID: 1,
		now:    time.Now,
		logger: logger,
	}
}

// Record 根据会话结果创建报警；未检测到跌倒时不创建，返回 false
func (s *AlertStore) Record(result models.SessionResult) (models.AlertRecord, bool) {
	if !result.HasDistress() {
		return models.AlertRecord{}, false
	}

	record := models.AlertRecord{
		SessionID:     result.SessionID,
		DistressLabel: *result.DistressLabel,
		Risk:          result.Risk,
		CameraID:      result.CameraID,
		Confidence:    result.Confidence,
		Status:        models.AlertActive,
	}
	if result.OnsetTimestampSeconds != nil {
		record.OnsetTimestampSeconds = *result.OnsetTimestampSeconds
	}

	s.mu.Lock()
	record.ID = s.nextID
	s.nextID++
	record.CreatedAt = s.now()
	s.index[record.ID] = len(s.records)
	s.records = append(s.records, record)
	s.mu.Unlock()

	s.logger.Info("Alert recorded",
		zap.Int64("alert_id", record.ID),
		zap.String("camera_id", record.CameraID),
		zap.String("risk", string(record.Risk)),
		zap.Float64("confidence", record.Confidence),
	)

	return record, true
}

// Acknowledge 确认报警；重复确认不报错、状态不变；ID 不存在返回 ErrAlertNotFound
func (s *AlertStore) Acknowledge(id int64) (models.AlertRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.AlertRecord{}, fmt.Errorf("%w: id=%d", models.ErrAlertNotFound, id)
	}

	record := &s.records[i]
	if record.Status != models.AlertAcknowledged {
		ackAt := s.now()
		record.Status = models.AlertAcknowledged
		record.AcknowledgedAt = &ackAt

		s.logger.Info("Alert acknowledged",
			zap.Int64("alert_id", id),
			zap.String("camera_id", record.CameraID),
		)
	}

	return copyRecord(*record), nil
}

// Get 按 ID 获取报警
func (s *AlertStore) Get(id int64) (models.AlertRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.AlertRecord{}, fmt.Errorf("%w: id=%d", models.ErrAlertNotFound, id)
	}
	return copyRecord(s.records[i]), nil
}

// List 按创建顺序返回全部报警快照
func (s *AlertStore) List() []models.AlertRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AlertRecord, len(s.records))
	for i, r := range s.records {
		out[i] = copyRecord(r)
	}
	return out
}

// ActiveByCamera 某摄像头下仍为 ACTIVE 的报警
func (s *AlertStore) ActiveByCamera(cameraID string) []models.AlertRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AlertRecord, 0)
	for _, r := range s.records {
		if r.CameraID == cameraID && r.Status == models.AlertActive {
			out = append(out, copyRecord(r))
		}
	}
	return out
}

// copyRecord 复制指针字段，避免调用方修改仓库内数据
func copyRecord(r models.AlertRecord) models.AlertRecord {
	if r.AcknowledgedAt != nil {
		t := *r.AcknowledgedAt
		r.AcknowledgedAt = &t
	}
	return r
}
