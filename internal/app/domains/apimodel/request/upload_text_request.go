package request

// UploadTextRequest 文本方式上传请求（DTO）
// 与 multipart 文件上传互斥，二选一
type UploadTextRequest struct {
	Text     string `json:"text" binding:"required"`
	Format   string `json:"format" binding:"omitempty,oneof=csv json"`
	Filename string `json:"filename"`
}
