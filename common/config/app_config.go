package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
)

// EnvPrefix 环境变量前缀，例如 MAHJONG_LOG_LEVEL、MAHJONG_CACHE_ENABLED
const EnvPrefix = "MAHJONG"

type AppConfiguration struct {
	AppName    string      `mapstructure:"appName"`
	HttpPort   int         `mapstructure:"httpPort"`
	MetricPort int         `mapstructure:"metricPort"`
	LogConf    LogConf     `mapstructure:"log"`
	Table      TableConf   `mapstructure:"table"`
	Rules      RulesConf   `mapstructure:"rules"`
	Cache      CacheConf   `mapstructure:"cache"`
	Batch      BatchConf   `mapstructure:"batch"`
	Redis      RedisConf   `mapstructure:"redis"`
	Monitor    MonitorConf `mapstructure:"monitor"`
	Nats       NatsConf    `mapstructure:"nats"`
	Auth       AuthConf    `mapstructure:"auth"`
	Etcd       EtcdConf    `mapstructure:"etcd"`
	Mongo      MongoConf   `mapstructure:"mongo"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

type TableConf struct {
	PrevalentWind string `mapstructure:"prevalentWind"`
}

type RulesConf struct {
	SevenPairs string `mapstructure:"sevenPairs"` // frequency | adjacent
}

type CacheConf struct {
	Enabled    bool  `mapstructure:"enabled"`
	MaxCost    int64 `mapstructure:"maxCost"`
	TTLSeconds int   `mapstructure:"ttlSeconds"`
}

type BatchConf struct {
	Workers int `mapstructure:"workers"` // 0 表示 CPU 核数
}

// RedisConf 二级拆牌缓存，addr 和 clusterAddrs 都为空时不启用
type RedisConf struct {
	Addr         string   `mapstructure:"addr"`
	ClusterAddrs []string `mapstructure:"clusterAddrs"`
	Password     string   `mapstructure:"password"`
	PoolSize     int      `mapstructure:"poolSize"`
	MinIdleConns int      `mapstructure:"minIdleConns"`
	KeyPrefix    string   `mapstructure:"keyPrefix"`
	TTLSeconds   int      `mapstructure:"ttlSeconds"`
}

func (r RedisConf) Enabled() bool {
	return r.Addr != "" || len(r.ClusterAddrs) > 0
}

// MongoConf 判定记录，url 为空时不记录
type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Collection  string `mapstructure:"collection"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

// NatsConf url 为空时 serve 不订阅
type NatsConf struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
	Queue   string `mapstructure:"queue"`
}

// AuthConf jwtSecret 为空时 /api/v1 不需要认证
type AuthConf struct {
	JwtSecret       string `mapstructure:"jwtSecret"`
	TokenTTLMinutes int    `mapstructure:"tokenTTLMinutes"`
}

// EtcdConf addrs 为空时 serve 不注册
type EtcdConf struct {
	Addrs       []string     `mapstructure:"addrs"`
	DialTimeout int          `mapstructure:"dialTimeout"`
	Register    RegisterConf `mapstructure:"register"`
}

type RegisterConf struct {
	Name    string `mapstructure:"name"`
	Addr    string `mapstructure:"addr"` // 为空时使用 :httpPort
	Version string `mapstructure:"version"`
	Ttl     int    `mapstructure:"ttl"`
}

type MonitorConf struct {
	IntervalSeconds int `mapstructure:"intervalSeconds"` // 0 表示不采集
}

var current atomic.Pointer[AppConfiguration]

// Get 当前生效的配置，未加载时返回默认值
func Get() *AppConfiguration {
	if cfg := current.Load(); cfg != nil {
		return cfg
	}
	cfg, _ := decode(newViper())
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("appName", "mahjong")
	v.SetDefault("httpPort", 8080)
	v.SetDefault("metricPort", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("table.prevalentWind", "east")
	v.SetDefault("rules.sevenPairs", "frequency")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.maxCost", 1<<16)
	v.SetDefault("cache.ttlSeconds", 600)
	v.SetDefault("batch.workers", 0)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("redis.keyPrefix", "mahjong:decompose:")
	v.SetDefault("redis.ttlSeconds", 3600)
	v.SetDefault("monitor.intervalSeconds", 10)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "mahjong.evaluate")
	v.SetDefault("nats.queue", "scorer")
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.tokenTTLMinutes", 24*60)
	v.SetDefault("mongo.url", "")
	v.SetDefault("mongo.db", "mahjong")
	v.SetDefault("mongo.collection", "evaluations")
	v.SetDefault("mongo.maxPoolSize", 20)
	v.SetDefault("etcd.dialTimeout", 3)
	v.SetDefault("etcd.register.name", "mahjong-scorer")
	v.SetDefault("etcd.register.addr", "")
	v.SetDefault("etcd.register.version", "v1")
	v.SetDefault("etcd.register.ttl", 10)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*AppConfiguration, error) {
	var cfg AppConfiguration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load 读取配置文件（可为空，仅用默认值和环境变量），校验后设为当前配置
func Load(configFile string) (*AppConfiguration, error) {
	_, cfg, err := load(configFile)
	return cfg, err
}

func load(configFile string) (*viper.Viper, *AppConfiguration, error) {
	v := newViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	current.Store(cfg)
	return v, cfg, nil
}

// InitConfig 加载配置并监听文件变化。新配置校验失败时保留旧配置
func InitConfig(configFile string, onChange func(*AppConfiguration)) (*AppConfiguration, error) {
	v, cfg, err := load(configFile)
	if err != nil {
		return nil, err
	}
	if configFile == "" {
		return cfg, nil
	}

	v.OnConfigChange(func(in fsnotify.Event) {
		log.Info("配置文件被修改: %s", in.Name)
		next, err := decode(v)
		if err != nil {
			log.Warn("重新解析配置文件失败: %v", err)
			return
		}
		if err := next.Validate(); err != nil {
			log.Warn("新配置校验失败，继续使用旧配置: %v", err)
			return
		}
		current.Store(next)
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
	return cfg, nil
}

func (cfg *AppConfiguration) Validate() error {
	if cfg.HttpPort < 0 || cfg.HttpPort > 65535 {
		return fmt.Errorf("httpPort out of range: %d", cfg.HttpPort)
	}
	if cfg.MetricPort < 0 || cfg.MetricPort > 65535 {
		return fmt.Errorf("metricPort out of range: %d", cfg.MetricPort)
	}
	if _, err := cfg.PrevalentWind(); err != nil {
		return fmt.Errorf("table.prevalentWind: %w", err)
	}
	if _, err := cfg.MahjongRules(); err != nil {
		return fmt.Errorf("rules.sevenPairs: %w", err)
	}
	if cfg.Cache.Enabled && cfg.Cache.MaxCost <= 0 {
		return fmt.Errorf("cache.maxCost must be positive when cache is enabled")
	}
	if cfg.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttlSeconds must not be negative")
	}
	if cfg.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative")
	}
	if cfg.Redis.TTLSeconds < 0 {
		return fmt.Errorf("redis.ttlSeconds must not be negative")
	}
	if cfg.Nats.URL != "" && cfg.Nats.Subject == "" {
		return fmt.Errorf("nats.subject must be set when nats.url is set")
	}
	if cfg.Auth.TokenTTLMinutes < 0 {
		return fmt.Errorf("auth.tokenTTLMinutes must not be negative")
	}
	if len(cfg.Etcd.Addrs) > 0 && cfg.Etcd.Register.Ttl <= 0 {
		return fmt.Errorf("etcd.register.ttl must be positive")
	}
	if cfg.Mongo.Url != "" && (cfg.Mongo.Db == "" || cfg.Mongo.Collection == "") {
		return fmt.Errorf("mongo.db and mongo.collection must be set when mongo.url is set")
	}
	if cfg.Monitor.IntervalSeconds < 0 {
		return fmt.Errorf("monitor.intervalSeconds must not be negative")
	}
	return nil
}

func (cfg *AppConfiguration) PrevalentWind() (mahjong.Wind, error) {
	return mahjong.ParseWind(cfg.Table.PrevalentWind)
}

func (cfg *AppConfiguration) MahjongRules() (mahjong.Rules, error) {
	mode, err := mahjong.ParseSevenPairsMode(cfg.Rules.SevenPairs)
	if err != nil {
		return mahjong.Rules{}, err
	}
	return mahjong.Rules{SevenPairs: mode}, nil
}
