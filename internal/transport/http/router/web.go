package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-user-crud/internal/core/server"
	mdw "go-gin-user-crud/internal/transport/http/middleware"
	"go-gin-user-crud/internal/transport/http/view"
)

// NewWebEngine 服务端渲染页面（/user/...）
func NewWebEngine(l *zap.Logger, mode string, lim Limits, mods ...Module) *gin.Engine {
	r := server.NewRouter(l, server.Options{Mode: mode})
	r.SetHTMLTemplate(view.MustTemplates())

	r.Use(mdw.RequestID())
	r.Use(lim.middlewares("web")...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(mdw.MetricsHandler()))
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/user/list") })

	MountAll(r.Group(""), mods...)
	return r
}
