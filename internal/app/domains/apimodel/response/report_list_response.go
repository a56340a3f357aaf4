package response

import "irap/analyzer/internal/app/domains/repo/rpreport"

// ReportListResponse 最近报告列表响应
type ReportListResponse struct {
	Reports []rpreport.ReportSummary `json:"reports"`
	Count   int                      `json:"count"`
}
