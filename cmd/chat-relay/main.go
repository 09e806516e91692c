// Package main 聊天转发代理入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogsmith-ai-api/internal/config"
	"blogsmith-ai-api/internal/interfaces/http/middleware"
	"blogsmith-ai-api/internal/relay"
	"blogsmith-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting chat-relay",
		"env", cfg.App.Env,
		"backend", cfg.Relay.BackendBaseURL,
	)

	// 转发服务很薄，不走 Wire，手工组装即可。
	client := relay.NewClient(&cfg.Relay)
	h := relay.NewHandler(client)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())

	engine.GET("/health", h.Health)
	engine.POST("/message", h.Message)

	addr := fmt.Sprintf("%s:%d", cfg.Relay.Host, cfg.Relay.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
		// 写超时要盖过后端生成的等待窗口，否则长文生成会被本端掐断。
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Relay.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 启动服务器
	go func() {
		log.Info("relay server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("relay server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down relay...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("relay forced to shutdown", "error", err)
	}

	log.Info("relay exited")
}
