package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rflgf/mahjong-cli/common/http"
	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
	"github.com/rflgf/mahjong-cli/service"
)

type decomposeRequest struct {
	Tiles []mahjong.Tile `json:"tiles"`
}

var errSeatRequired = errors.New("seat is required")

// evaluateRequest 牌用两字符牌码，风用 east/south/west/north；seat 必填，prevalent 为空时使用配置的场风
type evaluateRequest struct {
	Seat      *mahjong.Wind  `json:"seat"`
	Prevalent *mahjong.Wind  `json:"prevalent"`
	Hand      []mahjong.Tile `json:"hand"`
	Exposed   []mahjong.Tile `json:"exposed"`
	Discarded []mahjong.Tile `json:"discarded"`
	Kan       []mahjong.Tile `json:"kan"`
	Riichi    bool           `json:"riichi"`
}

func (r *evaluateRequest) validate() error {
	if r.Seat == nil {
		return errSeatRequired
	}
	return nil
}

// player 调用前需先 validate
func (r *evaluateRequest) player() mahjong.Player {
	return mahjong.Player{
		Seat:      *r.Seat,
		Hand:      r.Hand,
		DealtIn:   r.Exposed,
		Discarded: r.Discarded,
		Kan:       r.Kan,
		Riichi:    r.Riichi,
	}
}

func (h *Handler) prevalent(r *evaluateRequest) mahjong.Wind {
	if r.Prevalent != nil {
		return *r.Prevalent
	}
	return h.scorer.DefaultPrevalent()
}

type evaluateResponse struct {
	Concealed      bool                        `json:"concealed"`
	Prevalent      mahjong.Wind                `json:"prevalent"`
	Yakus          []yakuView                  `json:"yakus"`
	Configurations []mahjong.HandConfiguration `json:"configurations"`
}

func newEvaluateResponse(res mahjong.Result, prevalent mahjong.Wind) evaluateResponse {
	return evaluateResponse{
		Concealed:      res.Concealed,
		Prevalent:      prevalent,
		Yakus:          yakuViews(res.Yakus),
		Configurations: res.Configurations,
	}
}

type batchRequest struct {
	Hands []evaluateRequest `json:"hands"`
}

type batchEntry struct {
	Index  int               `json:"index"`
	Result *evaluateResponse `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type batchResponse struct {
	BatchID string       `json:"batchId"`
	Results []batchEntry `json:"results"`
}

// DecomposeHandler 只拆牌不判役
func (h *Handler) DecomposeHandler(c *http.Context) error {
	var req decomposeRequest
	if !c.BindRequest(&req) {
		return nil
	}
	configs, err := h.scorer.Decompose(req.Tiles)
	if err != nil {
		return writeEngineError(c, err)
	}
	c.Success(map[string]any{"configurations": configs})
	return nil
}

func (h *Handler) EvaluateHandler(c *http.Context) error {
	var req evaluateRequest
	if !c.BindRequest(&req) {
		return nil
	}
	if err := req.validate(); err != nil {
		c.BadRequest(err.Error())
		return nil
	}
	prevalent := h.prevalent(&req)
	res, err := h.scorer.Evaluate(req.player(), prevalent)
	if err != nil {
		return writeEngineError(c, err)
	}
	c.Success(newEvaluateResponse(res, prevalent))
	return nil
}

// EvaluateBatchHandler 单手牌的错误写在对应条目里，不影响其它手牌
func (h *Handler) EvaluateBatchHandler(c *http.Context) error {
	var req batchRequest
	if !c.BindRequest(&req) {
		return nil
	}

	for i := range req.Hands {
		if err := req.Hands[i].validate(); err != nil {
			c.BadRequest(fmt.Sprintf("hands[%d]: %v", i, err))
			return nil
		}
	}
	items := make([]mahjong.BatchItem, len(req.Hands))
	for i := range req.Hands {
		items[i] = mahjong.BatchItem{Player: req.Hands[i].player(), Prevalent: h.prevalent(&req.Hands[i])}
	}

	batchID, results, err := h.scorer.EvaluateBatch(c.Ctx(), items)
	if results == nil && err != nil {
		c.BadRequest(err.Error())
		return nil
	}
	if err != nil {
		log.Warn("批量计算被取消 batch=%s err=%v", batchID, err)
		return err
	}

	resp := batchResponse{BatchID: batchID, Results: make([]batchEntry, len(results))}
	for i, r := range results {
		entry := batchEntry{Index: r.Index}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		} else {
			view := newEvaluateResponse(r.Result, items[i].Prevalent)
			entry.Result = &view
		}
		resp.Results[i] = entry
	}
	c.Success(resp)
	return nil
}

// HistoryHandler 最近的判定记录，未配置 mongo 时返回 404
func (h *Handler) HistoryHandler(c *http.Context) error {
	limit := 20
	if q := c.GetQuery("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			c.BadRequest("limit must be an integer")
			return nil
		}
		limit = n
	}
	records, err := h.scorer.History(c.Ctx(), limit)
	if errors.Is(err, service.ErrHistoryDisabled) {
		c.NotFound(err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	c.Success(map[string]any{"records": records})
	return nil
}
