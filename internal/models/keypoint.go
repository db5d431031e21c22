package models

// Point 像素坐标系中的二维关键点（y 轴向下）
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmarks 躯干四个关键点（左右肩、左右髋）
type Landmarks struct {
	LeftShoulder  Point `json:"left_shoulder"`
	RightShoulder Point `json:"right_shoulder"`
	LeftHip       Point `json:"left_hip"`
	RightHip      Point `json:"right_hip"`
}

// Ys 返回四个关键点的 y 坐标
func (l *Landmarks) Ys() []float64 {
	return []float64{l.LeftShoulder.Y, l.RightShoulder.Y, l.LeftHip.Y, l.RightHip.Y}
}

// KeypointFrame 姿态模型输出的单帧关键点
// Landmarks 为 nil 表示该帧姿态推理失败
type KeypointFrame struct {
	CameraID   string     `json:"camera_id,omitempty"`
	FrameIndex int        `json:"frame_index"`
	Landmarks  *Landmarks `json:"landmarks"`
}

// KinematicSample 单帧运动学特征
type KinematicSample struct {
	CenterY          float64 `json:"center_y"`
	BodyHeight       float64 `json:"body_height"`
	VerticalVelocity float64 `json:"vertical_velocity"` // px/s，正值表示向下
	HeightRatio      float64 `json:"height_ratio"`
}

// KeypointPayload 一次分析会话的完整关键点序列（HTTP / Redis Streams / MQTT 共用格式）
type KeypointPayload struct {
	CameraID string          `json:"camera_id"`
	FPS      float64         `json:"fps"`
	Frames   []KeypointFrame `json:"frames"`
}
