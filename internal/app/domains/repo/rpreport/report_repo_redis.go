package rpreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"irap/analyzer/internal/analysis/report"
	"irap/analyzer/internal/app/pkg/errorx"
)

const (
	reportKeyPrefix = "irap:report:"
	reportIndexKey  = "irap:reports:index"
)

// RedisReportRepository 报告仓储实现（Redis）
// 报告正文存 String 并带 TTL，最近列表用 Sorted Set 以生成时间做分值
type RedisReportRepository struct {
	rdb *redis.Client
}

// NewRedisReportRepository 创建 Redis 报告仓储实例
func NewRedisReportRepository(rdb *redis.Client) *RedisReportRepository {
	return &RedisReportRepository{rdb: rdb}
}

// Save 保存报告并写入最近列表索引
func (r *RedisReportRepository) Save(ctx context.Context, rep *report.Report) error {
	ttl := time.Until(rep.Meta.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report failed: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, reportKeyPrefix+rep.ReportID, payload, ttl)
	pipe.ZAdd(ctx, reportIndexKey, redis.Z{
		Score:  float64(rep.Meta.GeneratedAt.Unix()),
		Member: rep.ReportID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

// GetByID 根据ID查询报告，键已过期即视为不存在
func (r *RedisReportRepository) GetByID(ctx context.Context, reportID string) (*report.Report, error) {
	raw, err := r.rdb.Get(ctx, reportKeyPrefix+reportID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errorx.ErrReportNotFound
		}
		return nil, fmt.Errorf("redis get report failed: %w", err)
	}

	var rep report.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report failed: %w", err)
	}
	return &rep, nil
}

// Recent 按生成时间倒序返回最近的报告摘要
// 正文已过期的索引项顺手从 Sorted Set 中移除
func (r *RedisReportRepository) Recent(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	ids, err := r.rdb.ZRevRange(ctx, reportIndexKey, 0, int64(limit*2-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis range report index failed: %w", err)
	}

	summaries := make([]ReportSummary, 0, limit)
	for _, id := range ids {
		if len(summaries) >= limit {
			break
		}

		rep, err := r.GetByID(ctx, id)
		if errors.Is(err, errorx.ErrReportNotFound) {
			r.rdb.ZRem(ctx, reportIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, SummaryOf(rep))
	}

	return summaries, nil
}

// EvictExpired 清理索引中正文已过期的条目，正文本身由 Redis TTL 负责
func (r *RedisReportRepository) EvictExpired(ctx context.Context) (int, error) {
	ids, err := r.rdb.ZRange(ctx, reportIndexKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("redis range report index failed: %w", err)
	}

	removed := 0
	for _, id := range ids {
		exists, err := r.rdb.Exists(ctx, reportKeyPrefix+id).Result()
		if err != nil {
			return removed, err
		}
		if exists == 0 {
			r.rdb.ZRem(ctx, reportIndexKey, id)
			removed++
		}
	}

	return removed, nil
}
