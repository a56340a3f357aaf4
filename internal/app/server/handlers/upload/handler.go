package upload

import "irap/analyzer/internal/app/domains/services/svupload"

// UploadHandler 上传 HTTP 处理器
type UploadHandler struct {
	uploadService *svupload.UploadService
}

// NewUploadHandler 创建上传处理器实例
func NewUploadHandler(uploadService *svupload.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}
