package api

import (
	"errors"
	"time"

	"github.com/rflgf/mahjong-cli/common/http"
	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
	"github.com/rflgf/mahjong-cli/service"
)

type Handler struct {
	scorer  *service.Scorer
	monitor *service.Monitor
	streams streamRegistry
}

// PingHandler ping 检查
func PingHandler(c *http.Context) error {
	c.Success(map[string]any{
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"service":   "mahjong",
	})
	return nil
}

// HealthHandler 健康检查
func (h *Handler) HealthHandler(c *http.Context) error {
	status := map[string]any{
		"healthy":    true,
		"sevenPairs": h.scorer.Rules().SevenPairs.String(),
		"prevalent":  h.scorer.DefaultPrevalent().String(),
		"timestamp":  time.Now().Unix(),
	}
	if ratio, ok := h.scorer.CacheHitRatio(); ok {
		status["cacheHitRatio"] = ratio
	}
	if h.monitor != nil {
		if info := h.monitor.Latest(); info != nil {
			status["load"] = info
		}
	}
	c.Success(status)
	return nil
}

// writeEngineError 手牌数据问题按 400 返回，其它错误交给 wrapHandler 按 500 处理
func writeEngineError(c *http.Context, err error) error {
	if errors.Is(err, mahjong.ErrInvalidHandSize) || errors.Is(err, mahjong.ErrInvalidTile) {
		log.Debug("请求手牌无效 request_id=%s err=%v", c.GetString(http.ContextRequestID), err)
		c.BadRequest(err.Error())
		return nil
	}
	return err
}
