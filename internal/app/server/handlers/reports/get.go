package reports

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"irap/analyzer/internal/app/pkg/errorx"
	"irap/analyzer/internal/app/pkg/ginx"
)

// Get godoc
// @Summary      获取分析报告
// @Description  根据报告ID取回保留期内的完整报告
// @Tags         reports
// @Produce      json
// @Param        id path string true "报告ID"
// @Success      200 {object} ginx.Response "分析报告"
// @Failure      404 {object} ginx.Response "报告不存在或已过期"
// @Router       /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	reportID := c.Param("id")

	rep, err := h.analysisService.GetReport(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, errorx.ErrReportNotFound) {
			ginx.NotFound(c, "report not found or expired")
			return
		}
		log.Printf("[ERROR] get report %s failed: %v", reportID, err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, rep)
}
