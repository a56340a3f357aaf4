package response

import "time"

// UploadResponse 上传响应
type UploadResponse struct {
	UploadID   string    `json:"uploadId" example:"u_3f2a9c81d4e5"`
	Filename   string    `json:"filename,omitempty" example:"invoices.csv"`
	Format     string    `json:"format" example:"csv"`
	TotalRows  int       `json:"totalRows" example:"120"`
	ReceivedAt time.Time `json:"receivedAt" example:"2025-01-15T08:30:00Z"`
	ExpiresAt  time.Time `json:"expiresAt" example:"2025-01-16T08:30:00Z"`
}
