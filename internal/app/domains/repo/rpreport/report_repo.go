package rpreport

import (
	"context"
	"time"

	"irap/analyzer/internal/analysis/report"
)

// ReportSummary 报告列表条目（最近报告查询用）
type ReportSummary struct {
	ReportID    string    `json:"reportId"`
	UploadID    string    `json:"uploadId,omitempty"`
	Overall     int       `json:"overall"`
	Readiness   string    `json:"readiness"`
	GeneratedAt time.Time `json:"generatedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// SummaryOf 从完整报告提取列表条目
func SummaryOf(rep *report.Report) ReportSummary {
	return ReportSummary{
		ReportID:    rep.ReportID,
		UploadID:    rep.UploadID,
		Overall:     rep.Scores.Overall,
		Readiness:   rep.Scores.Readiness.Level,
		GeneratedAt: rep.Meta.GeneratedAt,
		ExpiresAt:   rep.Meta.ExpiresAt,
	}
}

// ReportRepository 报告仓储接口
// 报告在保留期内可按ID取回，过期后自动失效
type ReportRepository interface {
	// Save 保存报告
	Save(ctx context.Context, rep *report.Report) error

	// GetByID 根据ID查询报告，过期视为不存在
	GetByID(ctx context.Context, reportID string) (*report.Report, error)

	// Recent 按生成时间倒序返回最近的报告摘要
	Recent(ctx context.Context, limit int) ([]ReportSummary, error)

	// EvictExpired 清理过期报告，返回清理条数
	EvictExpired(ctx context.Context) (int, error)
}
