package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rflgf/mahjong-cli/api"
	"github.com/rflgf/mahjong-cli/common/config"
	"github.com/rflgf/mahjong-cli/common/http"
	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/service"
)

// maxBodyBytes 足够容纳 service.MaxBatchSize 手牌的批量请求
const maxBodyBytes = 1 << 20

// NewServer 组装 HTTP 服务器和路由，不启动监听；monitor 可以为 nil
func NewServer(cfg *config.AppConfiguration, scorer *service.Scorer, monitor *service.Monitor) *http.HttpServer {
	mode := gin.ReleaseMode
	if cfg.LogConf.Level == "debug" {
		mode = gin.DebugMode
	}
	server := http.NewHttpServer(
		http.WithPort(cfg.HttpPort),
		http.WithMode(mode),
		http.WithBodyLimit(maxBodyBytes),
	)

	server.Use(
		http.RequestIDMiddleware(),
		http.LoggerMiddleware(),
		http.CorsMiddleware(),
	)

	var v1 []http.MiddlewareFunc
	if cfg.Auth.JwtSecret != "" {
		v1 = append(v1, http.AuthMiddleware(cfg.Auth.JwtSecret))
	}
	api.RegisterRoutes(server, scorer, monitor, v1...)
	return server
}

// Run 启动 HTTP 服务和负载监控，直到 ctx 结束或收到退出信号；monitor 可以为 nil
func Run(ctx context.Context, cfg *config.AppConfiguration, scorer *service.Scorer, monitor *service.Monitor) error {
	if monitor != nil {
		go monitor.Start(ctx)
		defer monitor.Stop()
	}
	server := NewServer(cfg, scorer, monitor)

	errCh := make(chan error, 1)
	go func() {
		log.Info("启动 HTTP 服务器，端口: %d", server.Port())
		if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP 服务器关闭失败: %v", err)
		} else {
			log.Info("HTTP 服务器已优雅关闭")
		}
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(c)
	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case err := <-errCh:
			return fmt.Errorf("HTTP 服务器启动失败: %w", err)
		case s := <-c:
			switch s {
			case syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT:
				stop()
				log.Info("中断信号，服务停止")
				return nil
			case syscall.SIGHUP:
				stop()
				log.Info("挂起信号，服务停止")
				return nil
			default:
				return nil
			}
		}
	}
}
