package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// GeneralCache 进程内缓存，支持 TTL，并发安全
type GeneralCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewGeneralCache maxCost 按条目计（每条 cost 为 1）；ttl 为 0 表示不过期
func NewGeneralCache(maxCost int64, ttl time.Duration) (*GeneralCache, error) {
	if maxCost <= 0 {
		return nil, fmt.Errorf("cache maxCost must be positive, got %d", maxCost)
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}

	return &GeneralCache{
		cache: cache,
		ttl:   ttl,
	}, nil
}

// Set 使用默认 TTL。写入是异步的，可能被准入策略丢弃
func (c *GeneralCache) Set(key string, value any) bool {
	return c.SetWithTTL(key, value, c.ttl)
}

func (c *GeneralCache) SetWithTTL(key string, value any, ttl time.Duration) bool {
	return c.cache.SetWithTTL(key, value, 1, ttl)
}

func (c *GeneralCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

func (c *GeneralCache) Delete(key string) {
	c.cache.Del(key)
}

// Wait 等待缓冲中的写入生效
func (c *GeneralCache) Wait() {
	c.cache.Wait()
}

// HitRatio 命中率，用于 /health 输出
func (c *GeneralCache) HitRatio() float64 {
	return c.cache.Metrics.Ratio()
}

func (c *GeneralCache) Close() {
	c.cache.Close()
}
