package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ory/graceful"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-user-crud/internal/core/logger"
)

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// BaseURL 启动日志里可点击的地址
func BaseURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// Run 阻塞直到收到 SIGINT/SIGTERM，随后在 grace 内优雅关闭
func Run(srv *http.Server, l *zap.Logger, name string, grace time.Duration) error {
	if srv.ErrorLog == nil {
		if std, err := logger.ToStdLogger(l.Named("http"), zapcore.WarnLevel); err == nil {
			srv.ErrorLog = std
		}
	}
	if grace > 0 {
		graceful.DefaultShutdownTimeout = grace
	}

	l.Info(name+" starting", zap.String("addr", srv.Addr))
	if err := graceful.Graceful(srv.ListenAndServe, srv.Shutdown); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	l.Info(name + " stopped gracefully")
	return nil
}
