package evaluator

import (
	"silent-sos/internal/models"
)

// Session 单次分析会话：投影器 + 状态机 + 评分器
// 每个会话独立持有状态，不跨会话共享
type Session struct {
	projector *FeatureProjector
	machine   *StateMachine
	scorer    *ConfidenceScorer
	previous  *models.KinematicSample
	fps       float64
	frames    int
}

// NewSession 创建会话，fps 非法时使用默认帧率
func NewSession(thresholds Thresholds, fps float64) *Session {
	fps = thresholds.NormalizeFPS(fps)
	return &Session{
		projector: NewFeatureProjector(),
		machine:   NewStateMachine(thresholds, fps),
		scorer:    NewConfidenceScorer(),
		fps:       fps,
	}
}

// FPS 会话实际使用的帧率
func (s *Session) FPS() float64 {
	return s.fps
}

// Frames 已输入的帧数（含无关键点帧）
func (s *Session) Frames() int {
	return s.frames
}

// Feed 输入一帧，返回状态机是否已进入终止状态
func (s *Session) Feed(frame models.KeypointFrame) bool {
	if s.machine.State().IsTerminal() {
		return true
	}
	s.frames++

	var sample *models.KinematicSample
	sample, s.previous = s.projector.Project(frame, s.previous, s.fps)
	if sample == nil {
		return false
	}

	return s.machine.Step(*sample, frame.FrameIndex).IsTerminal()
}

// State 当前检测状态
func (s *Session) State() models.DetectionState {
	return s.machine.State()
}

// Result 结束会话并生成结果
func (s *Session) Result(cameraID string) models.SessionResult {
	outcome := s.machine.Outcome()
	result := models.NoDistressResult(cameraID)
	result.FinalState = outcome.FinalState

	if !outcome.Distress() {
		return result
	}

	score := s.scorer.Score(outcome)
	label := models.DistressCollapse
	onset := score.OnsetSeconds

	result.DistressLabel = &label
	result.Risk = score.Risk
	result.Confidence = score.Confidence
	result.OnsetTimestampSeconds = &onset
	return result
}
