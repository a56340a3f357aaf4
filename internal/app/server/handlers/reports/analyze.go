package reports

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"irap/analyzer/internal/app/domains/apimodel/request"
	"irap/analyzer/internal/app/pkg/errorx"
	"irap/analyzer/internal/app/pkg/ginx"
)

// Analyze godoc
// @Summary      分析上传数据
// @Description  对指定上传执行字段映射、规则校验和评分，返回完整分析报告
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body request.AnalyzeRequest true "分析请求"
// @Success      200 {object} ginx.Response "分析报告"
// @Failure      400 {object} ginx.Response "参数错误"
// @Failure      404 {object} ginx.Response "上传不存在或已过期"
// @Router       /analyze [post]
func (h *ReportHandler) Analyze(c *gin.Context) {
	var req request.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	rep, err := h.analysisService.Analyze(c.Request.Context(), req.UploadID, req.ToQuestionnaire())
	if err != nil {
		if errors.Is(err, errorx.ErrUploadNotFound) {
			ginx.NotFound(c, "upload not found or expired, please upload again")
			return
		}
		log.Printf("[ERROR] analyze upload %s failed: %v", req.UploadID, err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, rep)
}
