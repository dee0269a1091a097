package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "go-gin-user-crud/internal/transport/http/middleware"
)

// NewAdminEngine JSON 管理接口，挂在 /admin/v1 下
func NewAdminEngine(l *zap.Logger, mode string, lim Limits, mods ...Module) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.JSONRecovery(l),
		cors.Default(),
	)
	r.Use(lim.middlewares("admin")...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(mdw.MetricsHandler()))

	MountAll(r.Group("/admin/v1"), mods...)
	return r
}
