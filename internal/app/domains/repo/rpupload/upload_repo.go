package rpupload

import (
	"context"

	"irap/analyzer/internal/app/domains/entity/etupload"
)

// UploadRepository 上传数据仓储接口
// 上传数据只做带 TTL 的暂存，过期后由后台任务清理
type UploadRepository interface {
	// Save 保存上传数据
	Save(ctx context.Context, upload *etupload.Upload) error

	// GetByID 根据ID查询上传数据，过期视为不存在
	GetByID(ctx context.Context, uploadID string) (*etupload.Upload, error)

	// EvictExpired 清理过期数据，返回清理条数
	EvictExpired(ctx context.Context) (int, error)
}
