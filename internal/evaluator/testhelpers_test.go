package evaluator

import "silent-sos/internal/models"

// bodyFrame 构造以 centerY 为中心、躯干高度为 height 的关键点帧
func bodyFrame(index int, centerY, height float64) models.KeypointFrame {
	top := centerY - height/2
	bottom := centerY + height/2
	return models.KeypointFrame{
		CameraID:   "CAM_TEST",
		FrameIndex: index,
		Landmarks: &models.Landmarks{
			LeftShoulder:  models.Point{X: 100, Y: top},
			RightShoulder: models.Point{X: 160, Y: top},
			LeftHip:       models.Point{X: 110, Y: bottom},
			RightHip:      models.Point{X: 150, Y: bottom},
		},
	}
}

func absentFrame(index int) models.KeypointFrame {
	return models.KeypointFrame{CameraID: "CAM_TEST", FrameIndex: index}
}

// fallFrames 1-30 站立（centerY 300，高度 200），31 质心跳到 450，32 高度降到 60，
// 之后保持倒地静止直到 lastFrame
func fallFrames(lastFrame int) []models.KeypointFrame {
	frames := make([]models.KeypointFrame, 0, lastFrame)
	for i := 1; i <= 30; i++ {
		frames = append(frames, bodyFrame(i, 300, 200))
	}
	frames = append(frames, bodyFrame(31, 450, 200))
	frames = append(frames, bodyFrame(32, 450, 60))
	for i := 33; i <= lastFrame; i++ {
		frames = append(frames, bodyFrame(i, 450, 60))
	}
	return frames
}

