package api

import (
	"encoding/json"
	"errors"
	nethttp "net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rflgf/mahjong-cli/common/http"
	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
)

var (
	pongWait             = 60 * time.Second
	writeWait            = 10 * time.Second
	pingInterval         = (pongWait * 9) / 10
	maxMessageSize int64 = 4096
	sendBuffer           = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *nethttp.Request) bool { return true },
}

// streamMessage 每条请求对应一条回复，id 原样带回
type streamMessage struct {
	ID      string            `json:"id,omitempty"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    *evaluateResponse `json:"data,omitempty"`
}

type streamRequest struct {
	ID string `json:"id"`
	evaluateRequest
}

// streamConn 一个 websocket 连接：读协程判定手牌，写协程负责回复和心跳
type streamConn struct {
	id        string
	conn      *websocket.Conn
	h         *Handler
	writeChan chan []byte
	closeChan chan struct{}
	closeOnce sync.Once
}

// streamRegistry 记录打开的计算流，关闭服务时统一断开并等待读协程退出
type streamRegistry struct {
	mu     sync.Mutex
	conns  map[*streamConn]struct{}
	wg     sync.WaitGroup
	closed bool
}

func (r *streamRegistry) add(sc *streamConn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	if r.conns == nil {
		r.conns = make(map[*streamConn]struct{})
	}
	r.conns[sc] = struct{}{}
	r.wg.Add(1)
	return true
}

func (r *streamRegistry) remove(sc *streamConn) {
	r.mu.Lock()
	delete(r.conns, sc)
	r.mu.Unlock()
	r.wg.Done()
}

func (r *streamRegistry) closeAll() int {
	r.mu.Lock()
	r.closed = true
	conns := make([]*streamConn, 0, len(r.conns))
	for sc := range r.conns {
		conns = append(conns, sc)
	}
	r.mu.Unlock()

	for _, sc := range conns {
		sc.Close()
	}
	r.wg.Wait()
	return len(conns)
}

// CloseStreams 断开所有计算流，返回时不再有流在调用 scorer；之后新建的流会被直接关闭
func (h *Handler) CloseStreams() {
	if n := h.streams.closeAll(); n > 0 {
		log.Info("已关闭 %d 个计算流", n)
	}
}

// StreamHandler 长连接逐条判定，适合客户端连续提交手牌
func (h *Handler) StreamHandler(c *http.Context) error {
	conn, err := upgrader.Upgrade(c.Writer(), c.Request(), nil)
	if err != nil {
		// Upgrade 已经写出了错误响应
		log.Warn("websocket 升级失败: %v", err)
		return nil
	}
	sc := &streamConn{
		id:        c.GetString(http.ContextRequestID),
		conn:      conn,
		h:         h,
		writeChan: make(chan []byte, sendBuffer),
		closeChan: make(chan struct{}),
	}
	if !h.streams.add(sc) {
		log.Warn("服务正在关闭，拒绝计算流 客户端[%s]", sc.id)
		_ = conn.Close()
		return nil
	}
	log.Info("客户端[%s] 建立计算流", sc.id)
	go sc.writeMessage()
	go func() {
		defer h.streams.remove(sc)
		sc.readMessage()
	}()
	return nil
}

func (sc *streamConn) readMessage() {
	defer sc.Close()
	sc.conn.SetReadLimit(maxMessageSize)
	_ = sc.conn.SetReadDeadline(time.Now().Add(pongWait))
	sc.conn.SetPongHandler(func(string) error {
		return sc.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := sc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("客户端[%s] 异常错误: %v", sc.id, err)
			}
			return
		}
		reply, err := json.Marshal(sc.h.handleMessage(message))
		if err != nil {
			log.Error("客户端[%s] 序列化回复失败: %v", sc.id, err)
			return
		}
		select {
		case sc.writeChan <- reply:
		case <-sc.closeChan:
			return
		}
	}
}

// handleMessage 解析一条 JSON 请求并判定，websocket 和 nats 共用
func (h *Handler) handleMessage(message []byte) streamMessage {
	var req streamRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return streamMessage{Code: http.CodeInvalidParam, Message: err.Error()}
	}
	if err := req.validate(); err != nil {
		return streamMessage{ID: req.ID, Code: http.CodeInvalidParam, Message: err.Error()}
	}
	prevalent := h.prevalent(&req.evaluateRequest)
	res, err := h.scorer.Evaluate(req.player(), prevalent)
	if err != nil {
		code := http.CodeServerError
		if errors.Is(err, mahjong.ErrInvalidHandSize) || errors.Is(err, mahjong.ErrInvalidTile) {
			code = http.CodeInvalidParam
		}
		return streamMessage{ID: req.ID, Code: code, Message: err.Error()}
	}
	view := newEvaluateResponse(res, prevalent)
	return streamMessage{ID: req.ID, Code: http.CodeSuccess, Message: http.MsgSuccess, Data: &view}
}

func (sc *streamConn) writeMessage() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message := <-sc.writeChan:
			_ = sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sc.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("客户端[%s] write stream err :%+v", sc.id, err)
				sc.Close()
				return
			}
		case <-ticker.C:
			_ = sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error("客户端[%s] ping err :%+v", sc.id, err)
				sc.Close()
				return
			}
		case <-sc.closeChan:
			return
		}
	}
}

func (sc *streamConn) Close() {
	sc.closeOnce.Do(func() {
		close(sc.closeChan)
		_ = sc.conn.Close()
		log.Info("客户端[%s] 计算流关闭", sc.id)
	})
}
