package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"user-api-demo/internal/core/server"
	mdw "user-api-demo/internal/transport/http/middleware"
	resp "user-api-demo/internal/transport/http/response"
)

// Counter 提供存活用户数
type Counter interface{ Count() int }

// NewOpsEngine 运维端口：健康检查、Prometheus 指标、用户统计；不对外暴露
func NewOpsEngine(l *zap.Logger, users Counter) *gin.Engine {
	r := server.NewRouter()
	r.Use(mdw.RequestID(), mdw.AccessLog(l), mdw.Recovery(l))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ops := r.Group("/ops/v1")
	ops.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"users": users.Count()})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, ""))
	})
	return r
}
