package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"irap/analyzer/internal/analysis"
	"irap/analyzer/internal/app/config"
	"irap/analyzer/internal/app/domains/repo/rpreport"
	"irap/analyzer/internal/app/domains/repo/rpupload"
	"irap/analyzer/internal/app/domains/services/svanalysis"
	"irap/analyzer/internal/app/domains/services/svupload"
	"irap/analyzer/internal/app/pkg/logger"
	"irap/analyzer/internal/app/server/handlers/reports"
	"irap/analyzer/internal/app/server/handlers/upload"
	"irap/analyzer/internal/app/server/routers"
)

// App 组装完成的应用实例
type App struct {
	Engine     *gin.Engine
	Log        logger.Logger
	UploadRepo rpupload.UploadRepository
	ReportRepo rpreport.ReportRepository
}

// InitializeApp 按配置装配依赖并返回应用实例与清理函数
// 1. 初始化日志
// 2. 按 store.driver 选择存储实现
// 3. 组装服务、处理器和路由
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger failed: %w", err)
	}

	var (
		uploadRepo rpupload.UploadRepository
		reportRepo rpreport.ReportRepository
		cleanup    = func() { _ = log.Sync() }
	)

	switch cfg.Store.Driver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}

		uploadRepo = rpupload.NewRedisUploadRepository(rdb)
		reportRepo = rpreport.NewRedisReportRepository(rdb)
		cleanup = func() {
			_ = rdb.Close()
			_ = log.Sync()
		}
	default:
		uploadRepo = rpupload.NewMemoryUploadRepository()
		reportRepo = rpreport.NewMemoryReportRepository()
	}

	analyzer := analysis.NewAnalyzer(cfg.Report.RetentionDays)

	uploadService := svupload.NewUploadService(uploadRepo, cfg.Upload.MaxFileBytes, cfg.UploadRetention(), log)
	analysisService := svanalysis.NewAnalysisService(uploadRepo, reportRepo, analyzer, cfg.Upload.MaxRows, log)

	uploadHandler := upload.NewUploadHandler(uploadService)
	reportHandler := reports.NewReportHandler(analysisService)

	engine := routers.SetupRoutes(uploadHandler, reportHandler, log)

	return &App{
		Engine:     engine,
		Log:        log,
		UploadRepo: uploadRepo,
		ReportRepo: reportRepo,
	}, cleanup, nil
}

// StartEviction 启动后台过期清理循环，ctx 取消后退出
func (a *App) StartEviction(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uploads, err := a.UploadRepo.EvictExpired(ctx)
			if err != nil {
				a.Log.Warnf(ctx, "evict expired uploads failed: %v", err)
			}
			reps, err := a.ReportRepo.EvictExpired(ctx)
			if err != nil {
				a.Log.Warnf(ctx, "evict expired reports failed: %v", err)
			}
			if uploads > 0 || reps > 0 {
				a.Log.Infof(ctx, "eviction pass removed %d uploads, %d reports", uploads, reps)
			}
		}
	}
}
