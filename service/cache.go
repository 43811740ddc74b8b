package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rflgf/mahjong-cli/common/cache"
	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
)

// remoteTimeout 二级缓存单次读写的超时，超时按未命中处理
const remoteTimeout = 200 * time.Millisecond

// remoteStore 二级缓存，由 database.RedisManager 实现
type remoteStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
}

// decompositionCache 本地 ristretto 在前，redis 在后；任意一层都可以为空
type decompositionCache struct {
	local  *cache.GeneralCache
	remote remoteStore
	prefix string
	ttl    time.Duration
}

func (d decompositionCache) Get(key string) ([]mahjong.HandConfiguration, bool) {
	if d.local != nil {
		if v, ok := d.local.Get(key); ok {
			if configs, ok := v.([]mahjong.HandConfiguration); ok {
				return configs, true
			}
		}
	}
	if d.remote == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	b, ok, err := d.remote.Get(ctx, d.prefix+key)
	if err != nil {
		log.Warn("读取 redis 拆牌缓存失败 key=%s err=%v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var configs []mahjong.HandConfiguration
	if err := json.Unmarshal(b, &configs); err != nil {
		log.Warn("redis 拆牌缓存数据损坏 key=%s err=%v", key, err)
		return nil, false
	}
	if configs == nil {
		configs = []mahjong.HandConfiguration{}
	}
	if d.local != nil {
		d.local.Set(key, configs)
	}
	return configs, true
}

func (d decompositionCache) Set(key string, configs []mahjong.HandConfiguration) {
	if d.local != nil {
		d.local.Set(key, configs)
	}
	if d.remote == nil {
		return
	}

	b, err := json.Marshal(configs)
	if err != nil {
		log.Warn("序列化拆牌结果失败 key=%s err=%v", key, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	if err := d.remote.Set(ctx, d.prefix+key, b, d.ttl); err != nil {
		log.Warn("写入 redis 拆牌缓存失败 key=%s err=%v", key, err)
	}
}
