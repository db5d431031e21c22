package models

// Camera 摄像头设备（对应 cameras 表）
type Camera struct {
	CameraID     string  `json:"camera_id" db:"camera_id"`
	TenantID     string  `json:"tenant_id" db:"tenant_id"`
	SerialNumber string  `json:"serial_number" db:"serial_number"`
	CameraName   string  `json:"camera_name" db:"camera_name"`
	Location     *string `json:"location,omitempty" db:"location"`
	Status       string  `json:"status" db:"status"`
}
