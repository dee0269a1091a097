package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "go-gin-user-crud/internal/transport/http/response"
)

// JSONRecovery 把 panic 转成统一 JSON 响应，供 admin API 使用
func JSONRecovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.String("rid", c.GetString(KeyRequestID)),
					zap.Stack("stack"),
				)
				c.Abort()
				resp.Fail(c, resp.CodeServerError, "internal error")
			}
		}()
		c.Next()
	}
}
