package evaluator

import (
	"math"

	"silent-sos/internal/models"
)

const (
	velocityScale   = 300.0 // px/s 达到满分的速度
	heightDropScale = 0.5
	inactivityScale = 15.0 // 秒

	criticalInactivitySec = 15.0
	highInactivitySec     = 8.0

	// 确认倒地后置信度下限
	minDistressConfidence = 0.70
)

// Score 风险等级与置信度
type Score struct {
	Risk              models.RiskLevel
	Confidence        float64
	InactivitySeconds float64
	OnsetSeconds      float64
}

// ConfidenceScorer 根据状态机终止统计计算风险与置信度
type ConfidenceScorer struct{}

// NewConfidenceScorer 创建评分器
func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{}
}

// Score 评分；未确认倒地时返回 NONE / 0.0
func (s *ConfidenceScorer) Score(o Outcome) Score {
	if !o.Distress() || o.FPS <= 0 {
		return Score{Risk: models.RiskNone}
	}

	inactivitySeconds := float64(o.InactivityFrames) / o.FPS

	risk := models.RiskHigh
	switch {
	case o.FinalState == models.StateRecovered:
		risk = models.RiskLow
	case inactivitySeconds >= criticalInactivitySec:
		risk = models.RiskCritical
	case inactivitySeconds >= highInactivitySec:
		risk = models.RiskHigh
	}

	velocityScore := clamp01(o.MaxVelocity / velocityScale)
	heightScore := clamp01((1 - o.MinHeightRatio) / heightDropScale)
	inactivityScore := clamp01(inactivitySeconds / inactivityScale)

	confidence := round2(0.4*velocityScore + 0.3*heightScore + 0.3*inactivityScore)
	confidence = math.Min(math.Max(confidence, minDistressConfidence), 1.0)

	return Score{
		Risk:              risk,
		Confidence:        confidence,
		InactivitySeconds: inactivitySeconds,
		OnsetSeconds:      round2(float64(o.OnsetFrame) / o.FPS),
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
