package rpreport

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"irap/analyzer/internal/analysis/report"
	"irap/analyzer/internal/app/pkg/errorx"
)

// MemoryReportRepository 报告仓储实现（进程内存）
type MemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[string]*report.Report
	order   []string // 按生成先后追加
	evicted *atomic.Int64
}

// NewMemoryReportRepository 创建内存报告仓储实例
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{
		reports: make(map[string]*report.Report),
		evicted: atomic.NewInt64(0),
	}
}

// Save 保存报告
func (r *MemoryReportRepository) Save(ctx context.Context, rep *report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[rep.ReportID]; !ok {
		r.order = append(r.order, rep.ReportID)
	}
	r.reports[rep.ReportID] = rep
	return nil
}

// GetByID 根据ID查询报告
func (r *MemoryReportRepository) GetByID(ctx context.Context, reportID string) (*report.Report, error) {
	r.mu.RLock()
	rep, ok := r.reports[reportID]
	r.mu.RUnlock()

	if !ok {
		return nil, errorx.ErrReportNotFound
	}

	if time.Now().UTC().After(rep.Meta.ExpiresAt) {
		r.mu.Lock()
		delete(r.reports, reportID)
		r.mu.Unlock()
		r.evicted.Inc()
		return nil, errorx.ErrReportNotFound
	}

	return rep, nil
}

// Recent 按生成时间倒序返回最近的报告摘要
func (r *MemoryReportRepository) Recent(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	now := time.Now().UTC()

	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]ReportSummary, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(summaries) < limit; i-- {
		rep, ok := r.reports[r.order[i]]
		if !ok || now.After(rep.Meta.ExpiresAt) {
			continue
		}
		summaries = append(summaries, SummaryOf(rep))
	}

	return summaries, nil
}

// EvictExpired 清理过期报告
func (r *MemoryReportRepository) EvictExpired(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	kept := r.order[:0]
	for _, id := range r.order {
		rep, ok := r.reports[id]
		if !ok {
			continue
		}
		if now.After(rep.Meta.ExpiresAt) {
			delete(r.reports, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept

	r.evicted.Add(int64(removed))
	return removed, nil
}

// EvictedCount 累计清理条数（运行状态观测用）
func (r *MemoryReportRepository) EvictedCount() int64 {
	return r.evicted.Load()
}
