package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"go-gin-user-crud/internal/core/auth"
	resp "go-gin-user-crud/internal/transport/http/response"
)

// AuthJWT 校验 Bearer token；requireRole 为空时只要求登录
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.Abort()
			resp.Fail(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.Abort()
			resp.Fail(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.Abort()
			resp.Fail(c, resp.CodeForbidden, "")
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
