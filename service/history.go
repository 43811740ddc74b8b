package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rflgf/mahjong-cli/common/log"
	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
)

const (
	historyBuffer       = 1024
	historyWriteTimeout = 2 * time.Second
	MaxHistoryLimit     = 200
)

var ErrHistoryDisabled = errors.New("history is disabled")

// HistoryRecord 一次判定的记录，牌和役都存字符串形式
type HistoryRecord struct {
	ID        string    `bson:"_id" json:"id"`
	Seat      string    `bson:"seat" json:"seat"`
	Prevalent string    `bson:"prevalent" json:"prevalent"`
	Hand      []string  `bson:"hand" json:"hand"`
	Exposed   []string  `bson:"exposed,omitempty" json:"exposed,omitempty"`
	Kan       []string  `bson:"kan,omitempty" json:"kan,omitempty"`
	Riichi    bool      `bson:"riichi" json:"riichi"`
	Concealed bool      `bson:"concealed" json:"concealed"`
	Yakus     []string  `bson:"yakus" json:"yakus"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func newHistoryRecord(p mahjong.Player, prevalent mahjong.Wind, res mahjong.Result) HistoryRecord {
	yakus := make([]string, len(res.Yakus))
	for i, y := range res.Yakus {
		yakus[i] = y.Key()
	}
	return HistoryRecord{
		ID:        uuid.NewString(),
		Seat:      p.Seat.String(),
		Prevalent: prevalent.String(),
		Hand:      tileCodes(mahjong.SortedCopy(p.Hand)),
		Exposed:   tileCodes(p.DealtIn),
		Kan:       tileCodes(p.Kan),
		Riichi:    p.Riichi,
		Concealed: res.Concealed,
		Yakus:     yakus,
		CreatedAt: time.Now(),
	}
}

func tileCodes(ts []mahjong.Tile) []string {
	if len(ts) == 0 {
		return nil
	}
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

// HistoryStore 判定记录的存储，mongo 实现见 mongoHistory
type HistoryStore interface {
	Save(ctx context.Context, rec HistoryRecord) error
	Recent(ctx context.Context, limit int) ([]HistoryRecord, error)
}

type mongoHistory struct {
	coll *mongo.Collection
}

func newMongoHistory(coll *mongo.Collection) *mongoHistory {
	return &mongoHistory{coll: coll}
}

func (m *mongoHistory) Save(ctx context.Context, rec HistoryRecord) error {
	_, err := m.coll.InsertOne(ctx, rec)
	return err
}

func (m *mongoHistory) Recent(ctx context.Context, limit int) ([]HistoryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	records := make([]HistoryRecord, 0, limit)
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// historyWriter 异步写入，缓冲满或已关闭时丢弃，不阻塞判定
type historyWriter struct {
	store  HistoryStore
	ch     chan HistoryRecord
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func newHistoryWriter(store HistoryStore) *historyWriter {
	w := &historyWriter{store: store, ch: make(chan HistoryRecord, historyBuffer)}
	w.wg.Add(1)
	go w.loop()
	return w
}

func (w *historyWriter) loop() {
	defer w.wg.Done()
	for rec := range w.ch {
		ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
		if err := w.store.Save(ctx, rec); err != nil {
			log.Warn("保存判定记录失败 id=%s err=%v", rec.ID, err)
		}
		cancel()
	}
}

func (w *historyWriter) record(rec HistoryRecord) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		log.Debug("判定记录已停止写入，丢弃 id=%s", rec.ID)
		return
	}
	select {
	case w.ch <- rec:
	default:
		log.Warn("判定记录缓冲已满，丢弃 id=%s", rec.ID)
	}
}

// close 写完缓冲里的记录后返回，之后的 record 直接丢弃
func (w *historyWriter) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.ch)
	w.mu.Unlock()
	w.wg.Wait()
}
