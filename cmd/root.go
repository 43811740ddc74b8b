package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rflgf/mahjong-cli/common/config"
	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/service"
)

// options 所有子命令共享的全局参数
type options struct {
	configFile string
	logLevel   string
	cfg        *config.AppConfiguration
}

// NewRootCmd 每次调用都返回一棵新的命令树，测试之间互不影响
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "mahjong",
		Short:         "立直麻将和牌拆解与役种判定",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			log.InitLog(cfg.AppName, opts.effectiveLevel(cfg))
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "configFile", "", "config file (yaml/json/toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "logLevel", "", "log level override: debug|info|warn|error")

	root.AddCommand(
		newEvaluateCmd(opts),
		newDecomposeCmd(opts),
		newSuccessorCmd(),
		newRandomCmd(opts),
		newCatalogCmd(),
		newServeCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

// effectiveLevel --logLevel 优先于配置文件，热更新时同样如此；会同步写回 cfg
func (o *options) effectiveLevel(cfg *config.AppConfiguration) string {
	if o.logLevel != "" {
		cfg.LogConf.Level = o.logLevel
	}
	return cfg.LogConf.Level
}

func (o *options) scorer() (*service.Scorer, error) {
	return service.NewScorer(o.cfg)
}

func Execute() error {
	return NewRootCmd().Execute()
}
