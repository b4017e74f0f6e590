package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-api-demo/internal/core/server"
	mdw "user-api-demo/internal/transport/http/middleware"
	resp "user-api-demo/internal/transport/http/response"
)

// Limits 公开端口的保护参数，零值项不启用
type Limits struct {
	RPS          float64
	Burst        int
	PerIPRPS     float64
	PerIPBurst   int
	MaxInFlight  int64
	MaxBodyBytes int64
	Timeout      time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		RPS: 200, Burst: 400,
		MaxInFlight:  300,
		MaxBodyBytes: 1 << 20,
		Timeout:      10 * time.Second,
	}
}

// NewAPIEngine 公开端口：/health + 各业务模块（挂在 basePath 下）
func NewAPIEngine(l *zap.Logger, lim Limits, basePath string, mods ...APIModule) *gin.Engine {
	r := server.NewRouter()

	// 中间件
	chain := []gin.HandlerFunc{mdw.RequestID()}
	if lim.RPS > 0 {
		chain = append(chain, mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
	}
	if lim.PerIPRPS > 0 {
		chain = append(chain, mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst))
	}
	// Timeout 必须在 ConcurrencyLimit 之前，排队等待受请求超时约束
	if lim.Timeout > 0 {
		chain = append(chain, mdw.Timeout(lim.Timeout))
	}
	if lim.MaxInFlight > 0 {
		chain = append(chain, mdw.ConcurrencyLimit(lim.MaxInFlight))
	}
	if lim.MaxBodyBytes > 0 {
		chain = append(chain, mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	chain = append(chain, mdw.Metrics(), mdw.AccessLog(l), mdw.Recovery(l))
	r.Use(chain...)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	MountAll(r.Group(basePath), mods...)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, ""))
	})
	return r
}
