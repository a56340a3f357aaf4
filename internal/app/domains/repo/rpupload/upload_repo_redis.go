package rpupload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"irap/analyzer/internal/app/domains/entity/etupload"
	"irap/analyzer/internal/app/pkg/errorx"
)

const uploadKeyPrefix = "irap:upload:"

// RedisUploadRepository 上传数据仓储实现（Redis，TTL 由 Redis 管理）
type RedisUploadRepository struct {
	rdb *redis.Client
}

// NewRedisUploadRepository 创建 Redis 上传仓储实例
func NewRedisUploadRepository(rdb *redis.Client) *RedisUploadRepository {
	return &RedisUploadRepository{rdb: rdb}
}

// uploadRecord Redis 序列化结构
type uploadRecord struct {
	ID         string                   `json:"id"`
	Filename   string                   `json:"filename,omitempty"`
	Format     etupload.Format          `json:"format"`
	Rows       []map[string]interface{} `json:"rows"`
	TotalRows  int                      `json:"total_rows"`
	ReceivedAt time.Time                `json:"received_at"`
	ExpiresAt  time.Time                `json:"expires_at"`
}

// Save 保存上传数据，TTL 设为剩余保留时长
func (r *RedisUploadRepository) Save(ctx context.Context, upload *etupload.Upload) error {
	ttl := time.Until(upload.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(uploadRecord{
		ID:         upload.ID,
		Filename:   upload.Filename,
		Format:     upload.Format,
		Rows:       upload.Rows,
		TotalRows:  upload.TotalRows,
		ReceivedAt: upload.ReceivedAt,
		ExpiresAt:  upload.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal upload failed: %w", err)
	}

	return r.rdb.Set(ctx, uploadKeyPrefix+upload.ID, payload, ttl).Err()
}

// GetByID 根据ID查询上传数据，键不存在即视为过期
func (r *RedisUploadRepository) GetByID(ctx context.Context, uploadID string) (*etupload.Upload, error) {
	raw, err := r.rdb.Get(ctx, uploadKeyPrefix+uploadID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errorx.ErrUploadNotFound
		}
		return nil, fmt.Errorf("redis get upload failed: %w", err)
	}

	var record uploadRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal upload failed: %w", err)
	}

	return &etupload.Upload{
		ID:         record.ID,
		Filename:   record.Filename,
		Format:     record.Format,
		Rows:       record.Rows,
		TotalRows:  record.TotalRows,
		ReceivedAt: record.ReceivedAt,
		ExpiresAt:  record.ExpiresAt,
	}, nil
}

// EvictExpired 过期清理由 Redis TTL 负责，这里无事可做
func (r *RedisUploadRepository) EvictExpired(ctx context.Context) (int, error) {
	return 0, nil
}
