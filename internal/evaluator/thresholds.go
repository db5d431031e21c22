package evaluator

import (
	"math"

	"silent-sos/internal/config"
)

// Thresholds 跌倒检测阈值（全部可配置）
type Thresholds struct {
	FallVelocity      float64 // Vfall：质心向下速度超过该值进入 FALLING（px/s）
	HeightDropRatio   float64 // Hdrop：身体高度比低于该值确认倒地
	QuietVelocity     float64 // Vquiet：|速度| 低于该值视为静止（px/s）
	RecoverRatio      float64 // Hrecover：相对站立高度恢复到该比例以上视为起身
	RecoverySeconds   float64
	InactivitySeconds float64
	DefaultFPS        float64
}

// DefaultThresholds 默认阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		FallVelocity:      75,
		HeightDropRatio:   0.4,
		QuietVelocity:     10,
		RecoverRatio:      0.85,
		RecoverySeconds:   1.5,
		InactivitySeconds: 4,
		DefaultFPS:        30,
	}
}

// ThresholdsFromConfig 从服务配置构建阈值，未配置（<=0）的项使用默认值
func ThresholdsFromConfig(cfg *config.Config) Thresholds {
	t := DefaultThresholds()
	d := cfg.Detection
	if d.FallVelocity > 0 {
		t.FallVelocity = d.FallVelocity
	}
	if d.HeightDropRatio > 0 {
		t.HeightDropRatio = d.HeightDropRatio
	}
	if d.QuietVelocity > 0 {
		t.QuietVelocity = d.QuietVelocity
	}
	if d.RecoverRatio > 0 {
		t.RecoverRatio = d.RecoverRatio
	}
	if d.RecoverySeconds > 0 {
		t.RecoverySeconds = d.RecoverySeconds
	}
	if d.InactivitySeconds > 0 {
		t.InactivitySeconds = d.InactivitySeconds
	}
	if d.DefaultFPS > 0 {
		t.DefaultFPS = d.DefaultFPS
	}
	return t
}

// RecoveryFrames 连续多少帧满足起身条件才判定 RECOVERED；至少 1 帧，低帧率下 RECOVERED 仍可达
func (t Thresholds) RecoveryFrames(fps float64) int {
	return secondsToFrames(t.RecoverySeconds, fps)
}

// InactivityFrames 静止帧数超过该值判定 INACTIVE；至少 1 帧
func (t Thresholds) InactivityFrames(fps float64) int {
	return secondsToFrames(t.InactivitySeconds, fps)
}

func secondsToFrames(seconds, fps float64) int {
	n := int(math.Round(seconds * fps))
	if n < 1 {
		return 1
	}
	return n
}

// NormalizeFPS 来源帧率为 0、负数或非法值时退回默认帧率
func (t Thresholds) NormalizeFPS(fps float64) float64 {
	if fps > 0 && !math.IsInf(fps, 0) && !math.IsNaN(fps) {
		return fps
	}
	if t.DefaultFPS > 0 {
		return t.DefaultFPS
	}
	return 30
}
