package models

import "time"

// AlertStatus 报警状态，只允许 ACTIVE -> ACKNOWLEDGED
type AlertStatus string

const (
	AlertActive       AlertStatus = "ACTIVE"
	AlertAcknowledged AlertStatus = "ACKNOWLEDGED"
)

// AlertRecord 跌倒报警记录（除 Status/AcknowledgedAt 外不可变）
type AlertRecord struct {
	ID                    int64       `json:"id"`
	SessionID             string      `json:"session_id,omitempty"`
	DistressLabel         string      `json:"distress_label"`
	Risk                  RiskLevel   `json:"risk"`
	OnsetTimestampSeconds float64     `json:"onset_timestamp_seconds"`
	CameraID              string      `json:"camera_id"`
	Confidence            float64     `json:"confidence"`
	Status                AlertStatus `json:"status"`
	CreatedAt             time.Time   `json:"created_at"`
	AcknowledgedAt        *time.Time  `json:"acknowledged_at,omitempty"`
}
