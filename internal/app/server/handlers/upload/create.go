package upload

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"irap/analyzer/internal/app/domains/apimodel/request"
	"irap/analyzer/internal/app/domains/apimodel/response"
	"irap/analyzer/internal/app/pkg/errorx"
	"irap/analyzer/internal/app/pkg/ginx"
)

// Create godoc
// @Summary      上传发票数据
// @Description  接收 CSV 或 JSON 数据（multipart 文件或 JSON 文本二选一），解析后暂存并返回上传ID
// @Tags         uploads
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        file formData file false "CSV/JSON 文件"
// @Success      200 {object} ginx.Response{data=response.UploadResponse} "上传成功"
// @Failure      400 {object} ginx.Response "参数错误"
// @Failure      413 {object} ginx.Response "文件过大"
// @Failure      415 {object} ginx.Response "不支持的文件类型"
// @Router       /uploads [post]
func (h *UploadHandler) Create(c *gin.Context) {
	filename, content, err := h.readPayload(c)
	if err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	upload, err := h.uploadService.CreateUpload(c.Request.Context(), filename, content)
	if err != nil {
		switch {
		case errors.Is(err, errorx.ErrFileTooLarge):
			ginx.PayloadTooLarge(c, err.Error())
		case errors.Is(err, errorx.ErrUnsupportedFileType):
			ginx.UnsupportedMediaType(c, err.Error())
		case errors.Is(err, errorx.ErrMalformedInput), errors.Is(err, errorx.ErrEmptyDataset):
			// 挂到 gin 错误链，由 ErrorHandler 中间件统一转响应
			_ = c.Error(errorx.NewBusinessError(http.StatusBadRequest, "invalid upload data").
				WithDetails(errorx.ErrorDetail{Path: "file", Info: err.Error()}))
		default:
			log.Printf("[ERROR] create upload failed: %v", err)
			ginx.InternalError(c, err.Error())
		}
		return
	}

	ginx.Success(c, response.FromUploadEntity(upload))
}

// readPayload 读取上传内容：multipart 文件优先，其次 JSON 文本体
func (h *UploadHandler) readPayload(c *gin.Context) (string, []byte, error) {
	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return "", nil, err
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return "", nil, err
		}
		return fileHeader.Filename, content, nil
	}

	var req request.UploadTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", nil, err
	}

	filename := req.Filename
	// 显式指定格式时用扩展名传递给格式识别
	if filename == "" && req.Format != "" {
		filename = "upload." + req.Format
	}
	return filename, []byte(req.Text), nil
}
