package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	mdw "go-gin-user-crud/internal/transport/http/middleware"
)

// Limits 两个 engine 共用的保护参数，零值表示不启用该项
type Limits struct {
	RPS           float64
	Burst         int
	PerIPRPS      float64
	PerIPBurst    int
	MaxConcurrent int64
	MaxBodyBytes  int64
	Timeout       time.Duration
}

func (l Limits) middlewares(engine string) []gin.HandlerFunc {
	var hs []gin.HandlerFunc
	if l.RPS > 0 {
		hs = append(hs, mdw.RateLimit(rate.Limit(l.RPS), l.Burst))
	}
	if l.PerIPRPS > 0 {
		hs = append(hs, mdw.RateLimitPerIP(rate.Limit(l.PerIPRPS), l.PerIPBurst))
	}
	if l.MaxConcurrent > 0 {
		hs = append(hs, mdw.ConcurrencyLimit(l.MaxConcurrent))
	}
	if l.MaxBodyBytes > 0 {
		hs = append(hs, mdw.MaxBodyBytes(l.MaxBodyBytes))
	}
	if l.Timeout > 0 {
		hs = append(hs, mdw.Timeout(l.Timeout))
	}
	return append(hs, mdw.Metrics(engine))
}
