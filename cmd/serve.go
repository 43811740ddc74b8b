package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rflgf/mahjong-cli/api"
	"github.com/rflgf/mahjong-cli/app"
	"github.com/rflgf/mahjong-cli/common/config"
	"github.com/rflgf/mahjong-cli/common/discovery"
	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/common/metrics"
	"github.com/rflgf/mahjong-cli/service"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 计算服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			scorer, err := opts.scorer()
			if err != nil {
				return err
			}
			defer scorer.Close()

			if opts.configFile != "" {
				// 重新加载并监听，之后的修改会热更新日志级别和计算规则
				_, err := config.InitConfig(opts.configFile, func(next *config.AppConfiguration) {
					log.SetLevel(opts.effectiveLevel(next))
					if err := scorer.Apply(next); err != nil {
						log.Warn("应用新配置失败: %v", err)
					}
				})
				if err != nil {
					return err
				}
			}
			cfg := opts.cfg
			log.Info("配置: %+v", *cfg)

			if port := cfg.MetricPort; port > 0 {
				go func() {
					log.Info("启动监控..., URL: http://localhost:%d%s", port, metrics.Path)
					if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", port)); err != nil {
						log.Error("监控服务退出: %v", err)
					}
				}()
			}

			var monitor *service.Monitor
			if cfg.Monitor.IntervalSeconds > 0 {
				monitor = service.NewMonitor(scorer, time.Duration(cfg.Monitor.IntervalSeconds)*time.Second)
			}

			if len(cfg.Etcd.Addrs) > 0 {
				etcdConf := cfg.Etcd
				if etcdConf.Register.Addr == "" {
					etcdConf.Register.Addr = fmt.Sprintf(":%d", cfg.HttpPort)
				}
				registry := discovery.NewRegistry()
				if err := registry.Register(etcdConf, uuid.NewString()); err != nil {
					return fmt.Errorf("etcd 注册失败: %w", err)
				}
				defer registry.Close()
				if monitor != nil {
					monitor.SetReporter(registry)
				}
			}

			if nc := cfg.Nats; nc.URL != "" {
				worker := api.NewNatsWorker(scorer, nc.Subject, nc.Queue)
				if err := worker.Run(nc.URL); err != nil {
					return err
				}
				defer worker.Close()
			}

			return app.Run(context.Background(), cfg, scorer, monitor)
		},
	}
}
