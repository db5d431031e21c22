package evaluator

import (
	"silent-sos/internal/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FeatureProjector 将单帧关键点投影为运动学特征
// 无状态：上一帧特征由调用方持有并传入
type FeatureProjector struct{}

// NewFeatureProjector 创建特征投影器
func NewFeatureProjector() *FeatureProjector {
	return &FeatureProjector{}
}

// Project 计算当前帧特征
// 帧内没有关键点时不产生样本，previous 原样返回（运动学冻结，静止计数也不会推进）
func (p *FeatureProjector) Project(frame models.KeypointFrame, previous *models.KinematicSample, fps float64) (*models.KinematicSample, *models.KinematicSample) {
	if frame.Landmarks == nil {
		return nil, previous
	}

	ys := frame.Landmarks.Ys()
	sample := &models.KinematicSample{
		CenterY:     stat.Mean(ys, nil),
		BodyHeight:  floats.Max(ys) - floats.Min(ys),
		HeightRatio: 1.0,
	}

	if previous != nil {
		sample.VerticalVelocity = (sample.CenterY - previous.CenterY) * fps
		if previous.BodyHeight != 0 {
			sample.HeightRatio = sample.BodyHeight / previous.BodyHeight
		}
	}

	return sample, sample
}
