package reports

import "irap/analyzer/internal/app/domains/services/svanalysis"

// ReportHandler 分析与报告 HTTP 处理器
type ReportHandler struct {
	analysisService *svanalysis.AnalysisService
}

// NewReportHandler 创建报告处理器实例
func NewReportHandler(analysisService *svanalysis.AnalysisService) *ReportHandler {
	return &ReportHandler{
		analysisService: analysisService,
	}
}
