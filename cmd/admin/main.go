package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-user-crud/internal/app"
	"go-gin-user-crud/internal/core/auth"
	"go-gin-user-crud/internal/core/config"
	"go-gin-user-crud/internal/core/database"
	"go-gin-user-crud/internal/core/logger"
	"go-gin-user-crud/internal/core/server"
	"go-gin-user-crud/internal/transport/http/handler"
	"go-gin-user-crud/internal/transport/http/router"
	"go-gin-user-crud/pkg/utils"
)

const usage = `usage:
  admin                         start the admin API
  admin hash-password <plain>   print a bcrypt hash for admin.passwordHash`

func main() {
	if len(os.Args) > 1 {
		os.Exit(runCommand(os.Args[1:]))
	}

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := app.Logger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log.Named("gin"), zapcore.ErrorLevel)

	if !cfg.App.Admin.Enable {
		log.Warn("admin api disabled by app.admin.enable")
		return
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is required for the admin api")
	}
	if cfg.Admin.Username == "" || cfg.Admin.PasswordHash == "" {
		log.Warn("admin credentials not configured, login disabled")
	}

	db, err := app.OpenDB(cfg, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	svc, closeCache, err := app.UserService(context.Background(), cfg, db, log)
	if err != nil {
		_ = database.Close(db)
		log.Fatal("user service", zap.Error(err))
	}

	jwter := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	adminH := handler.NewAdminHandler(svc, jwter, handler.AdminCredentials{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
	})

	// 路由（后台端）
	r := router.NewAdminEngine(log, cfg.App.Mode, app.Limits(cfg), adminH)

	srv := server.BuildServer(
		server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port), r,
		cfg.App.HTTP.ReadTimeout(),
		cfg.App.HTTP.WriteTimeout(),
		cfg.App.HTTP.IdleTimeout(),
	)
	baseURL := server.BaseURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("admin api",
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	err = multierr.Combine(
		server.Run(srv, log, "admin api", 10*time.Second),
		closeCache(),
		database.Close(db),
	)
	if err != nil {
		log.Error("admin api exited with error", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func runCommand(args []string) int {
	switch args[0] {
	case "hash-password":
		if len(args) != 2 || args[1] == "" {
			fmt.Fprintln(os.Stderr, usage)
			return 2
		}
		hash, err := utils.HashPassword(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash password:", err)
			return 1
		}
		fmt.Println(hash)
		return 0
	default:
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
}
