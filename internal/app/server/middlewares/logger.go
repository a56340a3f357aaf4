package middlewares

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"irap/analyzer/internal/app/pkg/logger"
)

// RequestIDKey 请求ID在上下文中的键
const RequestIDKey = "request_id"

// Logger 请求日志中间件：生成请求ID并记录访问日志
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		// 将请求ID注入请求上下文，供下游日志提取
		ctx := context.WithValue(c.Request.Context(), RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		cost := time.Since(start)
		log.Infof(c.Request.Context(), "%s %s status=%d cost=%s client=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), cost, c.ClientIP())
	}
}
