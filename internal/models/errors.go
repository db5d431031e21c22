package models

import "errors"

var (
	// ErrStreamUnreadable 关键点来源无法打开或解析，由编排器转换为默认结果
	ErrStreamUnreadable = errors.New("keypoint stream unreadable")
	// ErrAlertNotFound 报警 ID 不存在
	ErrAlertNotFound = errors.New("alert not found")
	// ErrInvalidInput 边界层请求参数缺失或格式错误
	ErrInvalidInput = errors.New("invalid input")
)
