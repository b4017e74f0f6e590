package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"user-api-demo/internal/core/logger"
)

// NewRouter 基础引擎：只带 CORS，其余中间件由各端口自行组装
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(cors.Default())
	return r
}

// RouteDebugPrinter 路由注册信息写入 zap；gin 全局只设置一次
func RouteDebugPrinter(l *zap.Logger) func(method, path, handler string, n int) {
	return func(method, path, handler string, n int) {
		l.Debug("route", zap.String("method", method), zap.String("path", path), zap.Int("handlers", n))
	}
}

type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

func BuildServer(addr string, handler http.Handler, t Timeouts, l *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    t.Read,
		WriteTimeout:   t.Write,
		IdleTimeout:    t.Idle,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	if l != nil {
		if el, err := logger.ToStdLogger(l, zapcore.ErrorLevel); err == nil {
			srv.ErrorLog = el
		}
	}
	return srv
}

// StartHTTP 阻塞直到服务关闭；正常 Shutdown 不视为错误
func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 依次优雅关闭多个 server
func Shutdown(ctx context.Context, l *zap.Logger, servers ...*http.Server) {
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			l.Warn("http shutdown", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
