package svanalysis

import (
	"context"
	"fmt"

	"irap/analyzer/internal/analysis"
	"irap/analyzer/internal/analysis/dataproc"
	"irap/analyzer/internal/analysis/report"
	"irap/analyzer/internal/analysis/scoring"
	"irap/analyzer/internal/app/domains/repo/rpreport"
	"irap/analyzer/internal/app/domains/repo/rpupload"
	"irap/analyzer/internal/app/pkg/logger"
)

// maxRecentReports 最近报告列表的条数上限
const maxRecentReports = 50

// AnalysisService 分析服务，负责分析编排和报告存取
type AnalysisService struct {
	uploadRepo rpupload.UploadRepository
	reportRepo rpreport.ReportRepository
	analyzer   *analysis.Analyzer
	maxRows    int
	log        logger.Logger
}

// NewAnalysisService 创建分析服务实例
func NewAnalysisService(
	uploadRepo rpupload.UploadRepository,
	reportRepo rpreport.ReportRepository,
	analyzer *analysis.Analyzer,
	maxRows int,
	log logger.Logger,
) *AnalysisService {
	if maxRows <= 0 {
		maxRows = dataproc.DefaultMaxRows
	}
	return &AnalysisService{
		uploadRepo: uploadRepo,
		reportRepo: reportRepo,
		analyzer:   analyzer,
		maxRows:    maxRows,
		log:        log,
	}
}

// Analyze 对上传数据执行完整分析并保存报告
// 1. 取回上传数据（过期即不存在）
// 2. 行数截断后交给分析引擎
// 3. 保存报告供保留期内查询
func (s *AnalysisService) Analyze(ctx context.Context, uploadID string, questionnaire *scoring.Questionnaire) (*report.Report, error) {
	upload, err := s.uploadRepo.GetByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	processed := dataproc.LimitRows(upload.Rows, s.maxRows)

	rep, err := s.analyzer.Analyze(ctx, &analysis.Input{
		UploadID:      upload.ID,
		Data:          processed,
		Questionnaire: questionnaire,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	if err := s.reportRepo.Save(ctx, rep); err != nil {
		return nil, fmt.Errorf("save report failed: %w", err)
	}

	s.log.Infof(ctx, "report %s generated for upload %s: overall=%d readiness=%s",
		rep.ReportID, uploadID, rep.Scores.Overall, rep.Scores.Readiness.Level)
	return rep, nil
}

// GetReport 查询报告
func (s *AnalysisService) GetReport(ctx context.Context, reportID string) (*report.Report, error) {
	return s.reportRepo.GetByID(ctx, reportID)
}

// RecentReports 查询最近报告摘要，limit 超限时收敛到上限
func (s *AnalysisService) RecentReports(ctx context.Context, limit int) ([]rpreport.ReportSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > maxRecentReports {
		limit = maxRecentReports
	}
	return s.reportRepo.Recent(ctx, limit)
}
