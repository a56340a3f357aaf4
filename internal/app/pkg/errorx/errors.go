package errorx

import "errors"

// 业务错误定义
var (
	ErrUploadNotFound      = errors.New("upload not found")
	ErrReportNotFound      = errors.New("report not found")
	ErrEmptyDataset        = errors.New("dataset contains no rows")
	ErrMalformedInput      = errors.New("malformed input data")
	ErrFileTooLarge        = errors.New("file exceeds size limit")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// BusinessError 业务错误结构，Code 为 HTTP 状态码
type BusinessError struct {
	Code    int
	Message string
	Details []ErrorDetail
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Path string
	Info string
}

// Error 实现 error 接口
func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError 创建业务错误
func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
	}
}

// WithDetails 附加错误详情
func (e *BusinessError) WithDetails(details ...ErrorDetail) *BusinessError {
	e.Details = append(e.Details, details...)
	return e
}
