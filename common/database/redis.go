package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rflgf/mahjong-cli/common/config"
	"github.com/rflgf/mahjong-cli/common/log"
)

// RedisManager 单机和集群共用一个 UniversalClient
type RedisManager struct {
	Cli redis.UniversalClient
}

func NewRedis(redisConf config.RedisConf) (*RedisManager, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cli redis.UniversalClient
	switch {
	case len(redisConf.ClusterAddrs) > 0:
		cli = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        redisConf.ClusterAddrs,
			Password:     redisConf.Password,
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
	case redisConf.Addr != "":
		cli = redis.NewClient(&redis.Options{
			Addr:         redisConf.Addr,
			Password:     redisConf.Password,
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
	default:
		return nil, fmt.Errorf("redis 配置出错: addr 和 clusterAddrs 均为空")
	}

	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis 连接错误: %w", err)
	}
	return &RedisManager{Cli: cli}, nil
}

// Get key 不存在时 ok 为 false，err 为 nil
func (r *RedisManager) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.Cli.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisManager) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.Cli.Set(ctx, key, value, expiration).Err()
}

func (r *RedisManager) Del(ctx context.Context, keys ...string) error {
	return r.Cli.Del(ctx, keys...).Err()
}

func (r *RedisManager) Close() error {
	if r.Cli == nil {
		return nil
	}
	if err := r.Cli.Close(); err != nil {
		log.Error("redis 关闭出错: %v", err)
		return err
	}
	return nil
}
