package etupload

import (
	"errors"
	"time"
)

// 错误定义
var (
	ErrInvalidUploadID = errors.New("invalid upload ID")
	ErrInvalidFormat   = errors.New("invalid upload format")
	ErrNoRows          = errors.New("upload contains no rows")
)

// Format 上传数据格式
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Upload 上传数据实体
// Rows 保存解析后的原始行，行数截断在分析阶段进行
type Upload struct {
	ID         string                   // 上传ID（u_ 前缀）
	Filename   string                   // 原始文件名（可为空）
	Format     Format                   // 数据格式
	Rows       []map[string]interface{} // 解析后的行
	TotalRows  int                      // 总行数
	ReceivedAt time.Time                // 接收时间
	ExpiresAt  time.Time                // 过期时间
}

// NewUpload 创建上传实体（工厂方法）
func NewUpload(id, filename string, format Format, rows []map[string]interface{}, retention time.Duration) (*Upload, error) {
	if id == "" {
		return nil, ErrInvalidUploadID
	}
	if format != FormatCSV && format != FormatJSON {
		return nil, ErrInvalidFormat
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	now := time.Now().UTC()
	return &Upload{
		ID:         id,
		Filename:   filename,
		Format:     format,
		Rows:       rows,
		TotalRows:  len(rows),
		ReceivedAt: now,
		ExpiresAt:  now.Add(retention),
	}, nil
}

// Expired 判断上传数据是否已过期
func (u *Upload) Expired(now time.Time) bool {
	return now.After(u.ExpiresAt)
}
