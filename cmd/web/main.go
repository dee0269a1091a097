package main

import (
	"context"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-user-crud/internal/app"
	"go-gin-user-crud/internal/core/config"
	"go-gin-user-crud/internal/core/database"
	"go-gin-user-crud/internal/core/logger"
	"go-gin-user-crud/internal/core/server"
	"go-gin-user-crud/internal/transport/http/handler"
	"go-gin-user-crud/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := app.Logger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log.Named("gin"), zapcore.ErrorLevel)

	// 数据库（失败直接 Fatal）
	db, err := app.OpenDB(cfg, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	svc, closeCache, err := app.UserService(context.Background(), cfg, db, log)
	if err != nil {
		_ = database.Close(db)
		log.Fatal("user service", zap.Error(err))
	}

	// 路由（页面端）
	r := router.NewWebEngine(log, cfg.App.Mode, app.Limits(cfg), handler.NewUserHandler(svc, log.Named("web")))

	srv := server.BuildServer(
		server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port), r,
		cfg.App.HTTP.ReadTimeout(),
		cfg.App.HTTP.WriteTimeout(),
		cfg.App.HTTP.IdleTimeout(),
	)
	baseURL := server.BaseURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("user web",
		zap.String("open", baseURL+"/user/list"),
		zap.String("health", baseURL+"/health"),
	)

	err = multierr.Combine(
		server.Run(srv, log, "user web", 10*time.Second),
		closeCache(),
		database.Close(db),
	)
	if err != nil {
		log.Error("user web exited with error", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}
