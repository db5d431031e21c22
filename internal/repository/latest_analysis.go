package repository

import (
	"sync"

	"silent-sos/internal/models"
)

// LatestAnalysisStore 最近一次分析状态（进程内单例，由服务持有并注入）
type LatestAnalysisStore struct {
	mu     sync.RWMutex
	status models.AnalysisStatus
	result *models.SessionResult
}

// NewLatestAnalysisStore 创建，初始状态 idle
func NewLatestAnalysisStore() *LatestAnalysisStore {
	return &LatestAnalysisStore{status: models.AnalysisIdle}
}

// MarkProcessing 新会话开始，清空上一次结果
func (s *LatestAnalysisStore) MarkProcessing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = models.AnalysisProcessing
	s.result = nil
}

// MarkDone 会话完成
func (s *LatestAnalysisStore) MarkDone(result models.SessionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = models.AnalysisDone
	s.result = &result
}

// Get 返回快照
func (s *LatestAnalysisStore) Get() models.LatestAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := models.LatestAnalysis{Status: s.status}
	if s.result != nil {
		r := *s.result
		latest.Result = &r
	}
	return latest
}
