package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rflgf/mahjong-cli/common/cache"
	"github.com/rflgf/mahjong-cli/common/config"
	"github.com/rflgf/mahjong-cli/common/database"
	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
)

// MaxBatchSize 单次批量计算的手牌上限
const MaxBatchSize = 1000

// settings 可热更新的部分，整体替换
type settings struct {
	evaluator *mahjong.Evaluator
	prevalent mahjong.Wind
	workers   int
}

// Scorer CLI 和 HTTP 共用的计算入口
type Scorer struct {
	decomposer  *mahjong.Decomposer
	cache       *cache.GeneralCache
	redis       *database.RedisManager
	mongo       *database.MongoManager
	history     HistoryStore
	writer      *historyWriter
	current     atomic.Pointer[settings]
	evaluations atomic.Int64
}

// NewScorer 按配置组装本地缓存和 redis 二级缓存，redis 连不上时直接返回错误
func NewScorer(cfg *config.AppConfiguration) (*Scorer, error) {
	s := &Scorer{}
	dc := decompositionCache{}
	if cfg.Cache.Enabled {
		c, err := cache.NewGeneralCache(cfg.Cache.MaxCost, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		if err != nil {
			return nil, err
		}
		s.cache = c
		dc.local = c
	}
	if cfg.Redis.Enabled() {
		r, err := database.NewRedis(cfg.Redis)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.redis = r
		dc.remote = r
		dc.prefix = cfg.Redis.KeyPrefix
		dc.ttl = time.Duration(cfg.Redis.TTLSeconds) * time.Second
		log.Info("已启用 redis 拆牌缓存 prefix=%s", dc.prefix)
	}
	if cfg.Mongo.Url != "" {
		m, err := database.NewMongo(cfg.Mongo)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.mongo = m
		s.UseHistory(newMongoHistory(m.Db.Collection(cfg.Mongo.Collection)))
		log.Info("已启用判定记录 db=%s collection=%s", cfg.Mongo.Db, cfg.Mongo.Collection)
	}
	if dc.local != nil || dc.remote != nil {
		s.decomposer = mahjong.NewDecomposer(dc)
	} else {
		s.decomposer = mahjong.NewDecomposer(nil)
	}
	if err := s.Apply(cfg); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Apply 应用新配置里的规则、场风和并发数；缓存配置只在创建时生效
func (s *Scorer) Apply(cfg *config.AppConfiguration) error {
	rules, err := cfg.MahjongRules()
	if err != nil {
		return err
	}
	prevalent, err := cfg.PrevalentWind()
	if err != nil {
		return err
	}
	s.current.Store(&settings{
		evaluator: mahjong.NewEvaluator(mahjong.WithRules(rules), mahjong.WithDecomposer(s.decomposer)),
		prevalent: prevalent,
		workers:   cfg.Batch.Workers,
	})
	log.Info("计算规则已更新 sevenPairs=%s prevalent=%s workers=%d", rules.SevenPairs, prevalent, cfg.Batch.Workers)
	return nil
}

// DefaultPrevalent 请求未指定场风时使用
func (s *Scorer) DefaultPrevalent() mahjong.Wind {
	return s.current.Load().prevalent
}

func (s *Scorer) Rules() mahjong.Rules {
	return s.current.Load().evaluator.Rules()
}

// UseHistory 设置判定记录存储，之后每次成功的判定都会异步保存；只能在处理请求前调用
func (s *Scorer) UseHistory(store HistoryStore) {
	s.history = store
	s.writer = newHistoryWriter(store)
}

func (s *Scorer) Evaluate(p mahjong.Player, prevalent mahjong.Wind) (mahjong.Result, error) {
	s.evaluations.Add(1)
	res, err := s.current.Load().evaluator.Evaluate(p, prevalent)
	if err == nil && s.writer != nil {
		s.writer.record(newHistoryRecord(p, prevalent, res))
	}
	return res, err
}

// History 最近的判定记录，按时间倒序；limit 超出范围时取 [1, MaxHistoryLimit]
func (s *Scorer) History(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	limit = max(1, min(limit, MaxHistoryLimit))
	return s.history.Recent(ctx, limit)
}

// Evaluations 启动以来判定过的手牌数，批量计算按手牌数累加
func (s *Scorer) Evaluations() int64 {
	return s.evaluations.Load()
}

func (s *Scorer) Decompose(tiles []mahjong.Tile) ([]mahjong.HandConfiguration, error) {
	return s.decomposer.Decompose(tiles)
}

// EvaluateBatch 返回本批次 id，便于日志关联
func (s *Scorer) EvaluateBatch(ctx context.Context, items []mahjong.BatchItem) (string, []mahjong.BatchResult, error) {
	if len(items) > MaxBatchSize {
		return "", nil, fmt.Errorf("batch of %d hands exceeds limit %d", len(items), MaxBatchSize)
	}
	st := s.current.Load()
	batchID := uuid.NewString()
	start := time.Now()
	results, err := mahjong.EvaluateBatch(ctx, st.evaluator, items, st.workers)
	s.evaluations.Add(int64(len(items)))
	if s.writer != nil {
		for i, r := range results {
			if r.Err == nil {
				s.writer.record(newHistoryRecord(items[i].Player, items[i].Prevalent, r.Result))
			}
		}
	}
	log.Info("批量计算完成 batch=%s hands=%d cost=%v", batchID, len(items), time.Since(start))
	return batchID, results, err
}

// CacheHitRatio 未启用缓存时 ok 为 false
func (s *Scorer) CacheHitRatio() (ratio float64, ok bool) {
	if s.cache == nil {
		return 0, false
	}
	return s.cache.HitRatio(), true
}

func (s *Scorer) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.writer != nil {
		s.writer.close()
	}
	if s.mongo != nil {
		if err := s.mongo.Close(); err != nil {
			log.Error("mongodb 关闭出错: %v", err)
		}
	}
}
