package models

// DetectionState 检测状态机状态
type DetectionState string

const (
	StateUpright    DetectionState = "UPRIGHT"
	StateFalling    DetectionState = "FALLING"
	StateHorizontal DetectionState = "HORIZONTAL"
	StateInactive   DetectionState = "INACTIVE"
	StateRecovered  DetectionState = "RECOVERED"
)

// IsTerminal 是否为终止状态
func (s DetectionState) IsTerminal() bool {
	return s == StateInactive || s == StateRecovered
}

// RiskLevel 风险等级
type RiskLevel string

const (
	RiskNone     RiskLevel = "NONE"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// DistressCollapse 唯一的 distress 标签
const DistressCollapse = "collapse"

// DefaultCameraID 来源未提供摄像头标识时使用
const DefaultCameraID = "CAM_01"

// SessionResult 一次分析会话的结果
// OnsetTimestampSeconds 当且仅当 DistressLabel 非空时设置
type SessionResult struct {
	SessionID             string         `json:"session_id,omitempty"`
	DistressLabel         *string        `json:"distress_label"`
	Risk                  RiskLevel      `json:"risk"`
	OnsetTimestampSeconds *float64       `json:"onset_timestamp_seconds"`
	CameraID              string         `json:"camera_id"`
	Confidence            float64        `json:"confidence"`
	FinalState            DetectionState `json:"final_state,omitempty"`
}

// HasDistress 是否检测到跌倒
func (r *SessionResult) HasDistress() bool {
	return r.DistressLabel != nil
}

// NoDistressResult 无异常时的默认结果
func NoDistressResult(cameraID string) SessionResult {
	if cameraID == "" {
		cameraID = DefaultCameraID
	}
	return SessionResult{
		Risk:       RiskNone,
		CameraID:   cameraID,
		Confidence: 0.0,
	}
}

// AnalysisStatus 最近一次分析的状态
type AnalysisStatus string

const (
	AnalysisIdle       AnalysisStatus = "idle"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisDone       AnalysisStatus = "done"
)

// LatestAnalysis 最近一次分析（进程内单例，不持久化）
type LatestAnalysis struct {
	Status AnalysisStatus `json:"status"`
	Result *SessionResult `json:"result"`
}
