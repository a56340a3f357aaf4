package routers

import (
	"github.com/gin-gonic/gin"

	"irap/analyzer/internal/app/pkg/logger"
	"irap/analyzer/internal/app/server/handlers/reports"
	"irap/analyzer/internal/app/server/handlers/upload"
	"irap/analyzer/internal/app/server/middlewares"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(
	uploadHandler *upload.UploadHandler,
	reportHandler *reports.ReportHandler,
	log logger.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "analyzer",
			"message": "Service is running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		uploads := v1.Group("/uploads")
		{
			uploads.POST("", uploadHandler.Create)
		}

		v1.POST("/analyze", reportHandler.Analyze)

		rep := v1.Group("/reports")
		{
			rep.GET("", reportHandler.Recent)
			rep.GET("/:id", reportHandler.Get)
		}
	}

	return r
}
