package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"user-api-demo/internal/core/config"
	"user-api-demo/internal/core/logger"
	"user-api-demo/internal/core/server"
	"user-api-demo/internal/domain"
	"user-api-demo/internal/repo"
	"user-api-demo/internal/service"
	"user-api-demo/internal/transport/http/handler"
	"user-api-demo/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate:      logger.FileRotate(cfg.Log.Rotate),
	})
	defer cleanup()
	defer logger.RedirectStdLog(l, zapcore.InfoLevel)()

	gin.SetMode(cfg.App.Mode)
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)
	gin.DebugPrintRouteFunc = server.RouteDebugPrinter(l.Named("gin"))

	// 用户仓储（内存，按配置预置）
	userRepo := mustSeedRepo(cfg, l)
	userSvc := service.NewUserService(userRepo, l.Named("user"))
	userH := handler.NewUserHandler(userSvc, l.Named("http"))

	// 路由（公开端口）
	r := router.NewAPIEngine(l, limitsFrom(cfg), cfg.App.BasePath, userH)
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(addr, r, server.Timeouts{
		Read:  time.Duration(cfg.App.HTTP.ReadTimeoutSec) * time.Second,
		Write: time.Duration(cfg.App.HTTP.WriteTimeoutSec) * time.Second,
		Idle:  time.Duration(cfg.App.HTTP.IdleTimeoutSec) * time.Second,
	}, l)

	// 运维端口（可选）
	var opsSrv *http.Server
	if cfg.App.Ops.Port > 0 {
		opsAddr := server.Addr(cfg.App.Ops.Host, cfg.App.Ops.Port)
		opsSrv = server.BuildServer(opsAddr, router.NewOpsEngine(l, userSvc),
			server.Timeouts{Read: 5 * time.Second, Write: 10 * time.Second, Idle: 60 * time.Second}, l)
	}

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	l.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.Int("seed_users", userSvc.Count()),
	)

	// 异步启动
	errc := make(chan error, 2)
	go func() { errc <- server.StartHTTP(srv, l) }()
	if opsSrv != nil {
		go func() { errc <- server.StartHTTP(opsSrv, l) }()
	}

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errc:
		if err != nil {
			l.Error("http server FAILED", zap.Error(err))
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.Shutdown(ctx, l, srv, opsSrv)
	l.Info("user api stopped gracefully")
}

func mustSeedRepo(cfg *config.Config, l *zap.Logger) *repo.UserRepo {
	seed := make([]domain.User, 0, len(cfg.Store.Seed))
	for _, s := range cfg.Store.Seed {
		seed = append(seed, domain.User{ID: s.ID, Name: s.Name, Role: s.Role})
	}
	r, err := repo.NewUserRepo(seed...)
	if err != nil {
		l.Fatal("seed users", zap.Error(err))
	}
	return r
}

func limitsFrom(cfg *config.Config) router.Limits {
	return router.Limits{
		RPS:          cfg.Limits.RPS,
		Burst:        cfg.Limits.Burst,
		PerIPRPS:     cfg.Limits.PerIPRPS,
		PerIPBurst:   cfg.Limits.PerIPBurst,
		MaxInFlight:  cfg.Limits.MaxInFlight,
		MaxBodyBytes: cfg.Limits.MaxBodyBytes,
		Timeout:      time.Duration(cfg.Limits.TimeoutSec) * time.Second,
	}
}
