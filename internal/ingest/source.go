package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"silent-sos/internal/models"
)

// FrameIterator 按顺序逐帧读取关键点，第二个返回值为 false 表示流结束
type FrameIterator interface {
	Next() (models.KeypointFrame, bool)
}

// KeypointStream 已打开的关键点流：整条流共用一个 fps
type KeypointStream struct {
	CameraID string
	FPS      float64
	Frames   FrameIterator
}

// KeypointSource 关键点来源；Open 失败时返回包装了 models.ErrStreamUnreadable 的错误
type KeypointSource interface {
	Open(ctx context.Context) (*KeypointStream, error)
}

// SourceFunc 函数适配为 KeypointSource
type SourceFunc func(ctx context.Context) (*KeypointStream, error)

// Open 实现 KeypointSource
func (f SourceFunc) Open(ctx context.Context) (*KeypointStream, error) {
	return f(ctx)
}

// SliceIterator 基于切片的帧迭代器
type SliceIterator struct {
	frames []models.KeypointFrame
	pos    int
}

// NewSliceIterator 创建切片迭代器
func NewSliceIterator(frames []models.KeypointFrame) *SliceIterator {
	return &SliceIterator{frames: frames}
}

// Next 实现 FrameIterator
func (it *SliceIterator) Next() (models.KeypointFrame, bool) {
	if it.pos >= len(it.frames) {
		return models.KeypointFrame{}, false
	}
	f := it.frames[it.pos]
	it.pos++
	return f, true
}

// PayloadStream 将已解析的负载包装为流
func PayloadStream(p *models.KeypointPayload) *KeypointStream {
	return &KeypointStream{
		CameraID: p.CameraID,
		FPS:      p.FPS,
		Frames:   NewSliceIterator(p.Frames),
	}
}

// PayloadSource 已解析负载的来源，Open 不会失败
func PayloadSource(p *models.KeypointPayload) KeypointSource {
	return SourceFunc(func(ctx context.Context) (*KeypointStream, error) {
		return PayloadStream(p), nil
	})
}

// JSONSource 原始 JSON 负载来源（Redis Streams 消息 data 字段）
type JSONSource []byte

// Open 解析负载；空负载或非法 JSON 视为流不可读
func (s JSONSource) Open(ctx context.Context) (*KeypointStream, error) {
	p, err := DecodePayload(s)
	if err != nil {
		return nil, err
	}
	return PayloadStream(p), nil
}

// DecodePayload 解析关键点负载
func DecodePayload(data []byte) (*models.KeypointPayload, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: empty payload", models.ErrStreamUnreadable)
	}

	var p models.KeypointPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStreamUnreadable, err)
	}
	return &p, nil
}
