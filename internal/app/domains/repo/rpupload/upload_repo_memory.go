package rpupload

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"irap/analyzer/internal/app/domains/entity/etupload"
	"irap/analyzer/internal/app/pkg/errorx"
)

// MemoryUploadRepository 上传数据仓储实现（进程内存）
type MemoryUploadRepository struct {
	mu      sync.RWMutex
	uploads map[string]*etupload.Upload
	evicted *atomic.Int64
}

// NewMemoryUploadRepository 创建内存上传仓储实例
func NewMemoryUploadRepository() *MemoryUploadRepository {
	return &MemoryUploadRepository{
		uploads: make(map[string]*etupload.Upload),
		evicted: atomic.NewInt64(0),
	}
}

// Save 保存上传数据
func (r *MemoryUploadRepository) Save(ctx context.Context, upload *etupload.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads[upload.ID] = upload
	return nil
}

// GetByID 根据ID查询上传数据
func (r *MemoryUploadRepository) GetByID(ctx context.Context, uploadID string) (*etupload.Upload, error) {
	r.mu.RLock()
	upload, ok := r.uploads[uploadID]
	r.mu.RUnlock()

	if !ok {
		return nil, errorx.ErrUploadNotFound
	}

	// 惰性过期：读到过期数据时当场删除
	if upload.Expired(time.Now().UTC()) {
		r.mu.Lock()
		delete(r.uploads, uploadID)
		r.mu.Unlock()
		r.evicted.Inc()
		return nil, errorx.ErrUploadNotFound
	}

	return upload, nil
}

// EvictExpired 清理过期数据
func (r *MemoryUploadRepository) EvictExpired(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, upload := range r.uploads {
		if upload.Expired(now) {
			delete(r.uploads, id)
			removed++
		}
	}

	r.evicted.Add(int64(removed))
	return removed, nil
}

// EvictedCount 累计清理条数（运行状态观测用）
func (r *MemoryUploadRepository) EvictedCount() int64 {
	return r.evicted.Load()
}
