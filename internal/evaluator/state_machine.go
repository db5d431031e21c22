package evaluator

import (
	"math"

	"silent-sos/internal/models"
)

// StateMachine 跌倒检测状态机
// UPRIGHT -> FALLING -> HORIZONTAL -> INACTIVE | RECOVERED，每个样本最多发生一次转移
type StateMachine struct {
	thresholds       Thresholds
	fps              float64
	recoveryFrames   int
	inactivityFrames int

	state models.DetectionState

	// 站立参考高度：进入 FALLING 前最后一个站立样本的身体高度，用于判断起身
	uprightHeight float64

	onsetFrame     int
	inactivity     int // 当前连续静止帧数
	peakInactivity int // HORIZONTAL 期间最长连续静止帧数
	recoveryRun    int // 当前连续起身帧数

	// 全会话极值，与当前状态无关
	maxVelocity    float64
	minHeightRatio float64
	samples        int
}

// Outcome 状态机终止（或流结束）时的统计
type Outcome struct {
	FinalState       models.DetectionState
	FPS              float64
	OnsetFrame       int
	InactivityFrames int
	MaxVelocity      float64
	MinHeightRatio   float64
	Samples          int
}

// Distress 是否已确认倒地
func (o Outcome) Distress() bool {
	switch o.FinalState {
	case models.StateHorizontal, models.StateInactive, models.StateRecovered:
		return true
	}
	return false
}

// NewStateMachine 创建状态机，fps 需已规范化
func NewStateMachine(thresholds Thresholds, fps float64) *StateMachine {
	return &StateMachine{
		thresholds:       thresholds,
		fps:              fps,
		recoveryFrames:   thresholds.RecoveryFrames(fps),
		inactivityFrames: thresholds.InactivityFrames(fps),
		state:            models.StateUpright,
		minHeightRatio:   1,
	}
}

// State 当前状态
func (m *StateMachine) State() models.DetectionState {
	return m.state
}

// Step 处理一个样本，返回处理后的状态；终止状态下不再变化
func (m *StateMachine) Step(sample models.KinematicSample, frameIndex int) models.DetectionState {
	if m.state.IsTerminal() {
		return m.state
	}

	m.samples++
	m.maxVelocity = math.Max(m.maxVelocity, sample.VerticalVelocity)
	m.minHeightRatio = math.Min(m.minHeightRatio, sample.HeightRatio)

	switch m.state {
	case models.StateUpright:
		if sample.VerticalVelocity > m.thresholds.FallVelocity {
			m.state = models.StateFalling
		} else {
			m.uprightHeight = sample.BodyHeight
		}

	case models.StateFalling:
		if sample.HeightRatio < m.thresholds.HeightDropRatio {
			m.state = models.StateHorizontal
			m.onsetFrame = frameIndex
			m.inactivity = 0
			m.recoveryRun = 0
		}

	case models.StateHorizontal:
		m.stepHorizontal(sample)
	}

	return m.state
}

func (m *StateMachine) stepHorizontal(sample models.KinematicSample) {
	if math.Abs(sample.VerticalVelocity) < m.thresholds.QuietVelocity {
		m.inactivity++
		if m.inactivity > m.peakInactivity {
			m.peakInactivity = m.inactivity
		}
	} else {
		m.inactivity = 0
	}

	if m.uprightHeight > 0 && sample.BodyHeight/m.uprightHeight > m.thresholds.RecoverRatio {
		m.recoveryRun++
	} else {
		m.recoveryRun = 0
	}

	// 同一帧同时满足时取 INACTIVE（风险更高的一侧）
	if m.inactivity > m.inactivityFrames {
		m.state = models.StateInactive
		return
	}
	if m.recoveryRun >= m.recoveryFrames {
		m.state = models.StateRecovered
	}
}

// Outcome 当前统计快照
func (m *StateMachine) Outcome() Outcome {
	return Outcome{
		FinalState:       m.state,
		FPS:              m.fps,
		OnsetFrame:       m.onsetFrame,
		InactivityFrames: m.peakInactivity,
		MaxVelocity:      m.maxVelocity,
		MinHeightRatio:   m.minHeightRatio,
		Samples:          m.samples,
	}
}
