package api

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/service"
)

// NatsWorker 以 request-reply 方式在 nats 上提供判定，同一 queue 的多个实例分摊请求
type NatsWorker struct {
	subject string
	queue   string
	h       *Handler
	conn    *nats.Conn
	sub     *nats.Subscription
	closed  chan struct{}
}

// natsDrainTimeout 关闭时等待处理中消息的上限
const natsDrainTimeout = 5 * time.Second

func NewNatsWorker(scorer *service.Scorer, subject, queue string) *NatsWorker {
	return &NatsWorker{
		subject: subject,
		queue:   queue,
		h:       &Handler{scorer: scorer},
		closed:  make(chan struct{}),
	}
}

func (w *NatsWorker) IsConnected() bool {
	return w.conn != nil && w.conn.IsConnected()
}

func (w *NatsWorker) Run(url string) error {
	log.Info("nats 服务正在启动, url:%s", url)
	var err error
	w.conn, err = nats.Connect(url,
		nats.Name("mahjong-scorer"),
		nats.DrainTimeout(natsDrainTimeout),
		nats.ClosedHandler(func(*nats.Conn) { close(w.closed) }),
	)
	if err != nil {
		log.Error("nats 连接错误,err:%v", err)
		return err
	}
	w.sub, err = w.conn.QueueSubscribe(w.subject, w.queue, w.onMessage)
	if err != nil {
		log.Error("nats sub err:%v", err)
		w.conn.Close()
		return err
	}
	log.Info("nats 服务启动成功, subject:%s queue:%s", w.subject, w.queue)
	return nil
}

func (w *NatsWorker) onMessage(msg *nats.Msg) {
	if msg.Reply == "" {
		log.Warn("nats 消息没有 reply subject，忽略 subject:%s", msg.Subject)
		return
	}
	reply, err := json.Marshal(w.h.handleMessage(msg.Data))
	if err != nil {
		log.Error("nats 序列化回复失败: %v", err)
		return
	}
	if err := msg.Respond(reply); err != nil {
		log.Error("nats 回复失败: %v", err)
	}
}

// Close 先 Drain：停止接收新消息并等处理中的回调结束，返回后不再调用 scorer
func (w *NatsWorker) Close() error {
	if w.conn == nil {
		return nil
	}
	if w.conn.IsClosed() {
		return nil
	}
	if err := w.conn.Drain(); err != nil {
		log.Warn("nats drain 失败，直接关闭: %v", err)
		w.conn.Close()
	}
	select {
	case <-w.closed:
	case <-time.After(natsDrainTimeout + time.Second):
		log.Warn("等待 nats 连接关闭超时")
	}
	log.Info("NATS 连接已关闭")
	return nil
}
