package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"irap/analyzer/internal/app/pkg/errorx"
	"irap/analyzer/internal/app/pkg/ginx"
)

// ErrorHandler 统一错误处理中间件
// 处理器通过 c.Error 挂载的错误在这里统一转成响应
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var bizErr *errorx.BusinessError
		if errors.As(err, &bizErr) {
			status := bizErr.Code
			if status < http.StatusBadRequest {
				status = http.StatusBadRequest
			}

			details := make([]ginx.ErrorDetail, 0, len(bizErr.Details))
			for _, d := range bizErr.Details {
				details = append(details, ginx.ErrorDetail{Path: d.Path, Info: d.Info})
			}
			ginx.ErrorWithDetails(c, status, bizErr.Message, details)
			return
		}

		ginx.InternalError(c, err.Error())
	}
}
