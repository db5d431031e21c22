package evaluator

import (
	"testing"

	"silent-sos/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceScorer_NoDistress(t *testing.T) {
	s := NewConfidenceScorer()

	for _, st := range []models.DetectionState{models.StateUpright, models.StateFalling} {
		score := s.Score(Outcome{FinalState: st, FPS: 30, MaxVelocity: 4500, MinHeightRatio: 0.1})
		assert.Equal(t, models.RiskNone, score.Risk, st)
		assert.Equal(t, 0.0, score.Confidence, st)
	}
}

func TestConfidenceScorer_RiskLevels(t *testing.T) {
	s := NewConfidenceScorer()

	tests := []struct {
		name       string
		state      models.DetectionState
		inactivity int
		want       models.RiskLevel
	}{
		{"recovered is low", models.StateRecovered, 600, models.RiskLow},
		{"brief collapse stays high", models.StateInactive, 30, models.RiskHigh},
		{"unresolved at end of stream", models.StateHorizontal, 0, models.RiskHigh},
		{"eight seconds is high", models.StateInactive, 240, models.RiskHigh},
		{"fifteen seconds is critical", models.StateInactive, 450, models.RiskCritical},
		{"critical while still horizontal", models.StateHorizontal, 500, models.RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := s.Score(Outcome{
				FinalState:       tt.state,
				FPS:              30,
				InactivityFrames: tt.inactivity,
				MinHeightRatio:   1,
			})
			assert.Equal(t, tt.want, score.Risk)
		})
	}
}

func TestConfidenceScorer_WeightedConfidence(t *testing.T) {
	s := NewConfidenceScorer()

	// velocity 1.0*0.4 + height 1.0*0.3 + inactivity (121/30/15)*0.3 = 0.7807
	score := s.Score(Outcome{
		FinalState:       models.StateInactive,
		FPS:              30,
		OnsetFrame:       32,
		InactivityFrames: 121,
		MaxVelocity:      4500,
		MinHeightRatio:   0.3,
	})

	assert.Equal(t, 0.78, score.Confidence)
	assert.Equal(t, 1.07, score.OnsetSeconds)
	assert.InDelta(t, 4.0333, score.InactivitySeconds, 1e-3)
}

func TestConfidenceScorer_FloorAndCap(t *testing.T) {
	s := NewConfidenceScorer()

	low := s.Score(Outcome{FinalState: models.StateHorizontal, FPS: 30, MaxVelocity: 80, MinHeightRatio: 0.39})
	assert.Equal(t, 0.70, low.Confidence)

	high := s.Score(Outcome{FinalState: models.StateInactive, FPS: 30, MaxVelocity: 1000, MinHeightRatio: 0, InactivityFrames: 900})
	assert.Equal(t, 1.0, high.Confidence)
}
