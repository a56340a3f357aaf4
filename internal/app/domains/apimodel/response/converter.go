package response

import "irap/analyzer/internal/app/domains/entity/etupload"

// FromUploadEntity 从领域对象转换为响应 DTO
func FromUploadEntity(upload *etupload.Upload) *UploadResponse {
	return &UploadResponse{
		UploadID:   upload.ID,
		Filename:   upload.Filename,
		Format:     string(upload.Format),
		TotalRows:  upload.TotalRows,
		ReceivedAt: upload.ReceivedAt,
		ExpiresAt:  upload.ExpiresAt,
	}
}
