// Package idgen 生成上传和报告的短 ID。
// 格式：前缀 + UUID 去掉连字符后的前 12 位，如 r_3f2a9c81d4e5
package idgen

import (
	"strings"

	"github.com/google/uuid"
)

const shortLen = 12

// NewUploadID 生成上传 ID（u_ 前缀）
func NewUploadID() string {
	return shortID("u_")
}

// NewReportID 生成报告 ID（r_ 前缀）
func NewReportID() string {
	return shortID("r_")
}

func shortID(prefix string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + raw[:shortLen]
}
