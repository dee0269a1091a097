package server

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Mode string // gin mode：debug / release / test，空则不改
	CORS bool
}

const ctxRequestID = "X-Request-ID"

// NewRouter gin.New + zap 请求日志 + zap panic 恢复
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	if o.Mode != "" {
		gin.SetMode(o.Mode)
	}
	r := gin.New()
	r.Use(ginzap.GinzapWithConfig(l, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health"},
		Context: func(c *gin.Context) []zapcore.Field {
			if rid := c.GetString(ctxRequestID); rid != "" {
				return []zapcore.Field{zap.String("rid", rid)}
			}
			return nil
		},
	}))
	r.Use(ginzap.RecoveryWithZap(l, true))
	if o.CORS {
		r.Use(cors.Default())
	}
	return r
}
