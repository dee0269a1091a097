// Package app 把配置装配成 web / admin 两个进程共用的依赖
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-user-crud/internal/core/cache"
	"go-gin-user-crud/internal/core/config"
	"go-gin-user-crud/internal/core/database"
	"go-gin-user-crud/internal/core/logger"
	"go-gin-user-crud/internal/repo"
	"go-gin-user-crud/internal/service"
	"go-gin-user-crud/internal/transport/http/router"
)

const redisPingTimeout = 2 * time.Second

func Logger(cfg *config.Config) (*zap.Logger, func()) {
	l, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	return l.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env)), cleanup
}

func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		Logger:             l.Named("gorm"),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	return db, nil
}

// UserService 按配置迁移、首次建表时播种并挂上可选的 redis 缓存；返回的 closer 关闭缓存连接
func UserService(ctx context.Context, cfg *config.Config, db *gorm.DB, l *zap.Logger) (*service.UserService, func() error, error) {
	users := repo.NewUserRepo(db)
	// 只在本次迁移新建 users 表时播种，已删除的示例用户重启后不会回来
	fresh := false
	if cfg.DB.AutoMigrate {
		fresh = !users.HasTable()
		if err := users.AutoMigrate(); err != nil {
			return nil, nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	closer := func() error { return nil }
	opts := []service.Option{service.WithLogger(l.Named("user"))}
	if c := openCache(ctx, cfg.Redis, l); c != nil {
		opts = append(opts, service.WithCache(c, cfg.Redis.TTL()))
		closer = c.Close
	}
	svc := service.NewUserService(users, opts...)

	if cfg.DB.Seed && fresh {
		n, err := svc.SeedIfEmpty(ctx, service.DefaultSeed())
		if err != nil {
			_ = closer()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		if n > 0 {
			l.Info("seeded users", zap.Int("count", n))
		}
	}
	return svc, closer, nil
}

// openCache 未配置或连不上时返回 nil，服务退化为直连数据库
func openCache(ctx context.Context, rc config.Redis, l *zap.Logger) *cache.Cache {
	if rc.Addr == "" || rc.TTLSec <= 0 {
		return nil
	}
	c := cache.New(rc.Addr, rc.Password, rc.DB, rc.Prefix)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		l.Warn("redis unavailable, user list cache disabled", zap.String("addr", rc.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	l.Info("redis connected", zap.String("addr", rc.Addr))
	return c
}

func Limits(cfg *config.Config) router.Limits {
	return router.Limits{
		RPS:           cfg.Limits.RPS,
		Burst:         cfg.Limits.Burst,
		PerIPRPS:      cfg.Limits.PerIPRPS,
		PerIPBurst:    cfg.Limits.PerIPBurst,
		MaxConcurrent: cfg.Limits.MaxConcurrent,
		MaxBodyBytes:  cfg.Limits.MaxBodyBytes,
		Timeout:       cfg.Limits.Timeout(),
	}
}
