package reports

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"irap/analyzer/internal/app/domains/apimodel/response"
	"irap/analyzer/internal/app/pkg/ginx"
)

// Recent godoc
// @Summary      最近报告列表
// @Description  按生成时间倒序返回最近的报告摘要，limit 默认 10、上限 50
// @Tags         reports
// @Produce      json
// @Param        limit query int false "返回条数"
// @Success      200 {object} ginx.Response{data=response.ReportListResponse} "报告摘要列表"
// @Router       /reports [get]
func (h *ReportHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	summaries, err := h.analysisService.RecentReports(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] list recent reports failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.ReportListResponse{
		Reports: summaries,
		Count:   len(summaries),
	})
}
