package mahjong

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rflgf/mahjong-cli/common/log"
)

// SevenPairsMode 七对子判定方式
type SevenPairsMode int

const (
	// SevenPairsFrequency 七种不同的牌各两张，与顺序无关
	SevenPairsFrequency SevenPairsMode = iota
	// SevenPairsAdjacent 按输入顺序每两张一组，每组是对子且与上一组不同
	SevenPairsAdjacent
)

func (m SevenPairsMode) String() string {
	switch m {
	case SevenPairsFrequency:
		return "frequency"
	case SevenPairsAdjacent:
		return "adjacent"
	default:
		return "unknown"
	}
}

func ParseSevenPairsMode(s string) (SevenPairsMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "frequency":
		return SevenPairsFrequency, nil
	case "adjacent":
		return SevenPairsAdjacent, nil
	}
	return 0, fmt.Errorf("unknown seven pairs mode %q", s)
}

type Rules struct {
	SevenPairs SevenPairsMode
}

func DefaultRules() Rules {
	return Rules{SevenPairs: SevenPairsFrequency}
}

// Result 一次计算的完整结果
type Result struct {
	Yakus          []Yaku              `json:"yakus"`
	Configurations []HandConfiguration `json:"configurations"`
	Concealed      bool                `json:"concealed"`
}

type Evaluator struct {
	rules      Rules
	decomposer *Decomposer
	checkers   []YakuChecker
}

type Option func(*Evaluator)

func WithRules(r Rules) Option {
	return func(e *Evaluator) {
		e.rules = r
	}
}

func WithDecomposer(d *Decomposer) Option {
	return func(e *Evaluator) {
		if d != nil {
			e.decomposer = d
		}
	}
}

// WithCheckers 替换役种检查表，按给定顺序执行
func WithCheckers(checkers ...YakuChecker) Option {
	return func(e *Evaluator) {
		e.checkers = checkers
	}
}

func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		rules:      DefaultRules(),
		decomposer: defaultDecomposer,
		checkers:   YakuRegistry,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var (
	defaultEvaluator     *Evaluator
	defaultEvaluatorOnce sync.Once
)

func DefaultEvaluator() *Evaluator {
	defaultEvaluatorOnce.Do(func() {
		defaultEvaluator = NewEvaluator()
	})
	return defaultEvaluator
}

func (e *Evaluator) Rules() Rules {
	return e.rules
}

// Evaluate 拆牌并执行全部役种检查。只读 p 的副本
func (e *Evaluator) Evaluate(p Player, prevalent Wind) (Result, error) {
	p = p.Clone()
	if err := p.validate(); err != nil {
		return Result{}, fmt.Errorf("evaluate: %w", err)
	}
	if !prevalent.Valid() {
		return Result{}, fmt.Errorf("evaluate: prevalent wind %d: %w", int(prevalent), ErrInvalidTile)
	}

	configs, err := e.decomposer.Decompose(p.shapeTiles())
	if err != nil {
		return Result{}, fmt.Errorf("evaluate: %w", err)
	}

	ctx := &YakuContext{
		Player:         &p,
		Prevalent:      prevalent,
		Rules:          e.rules,
		Sorted:         SortedCopy(p.Hand),
		Counts:         CountTiles(p.Hand),
		Configurations: configs,
		Found:          make([]Yaku, 0, 4),
	}
	for _, checker := range e.checkers {
		ctx.Found = append(ctx.Found, checker.Check(ctx)...)
	}

	log.Debug("役种判定 seat=%s prevalent=%s yakus=%d configs=%d", p.Seat, prevalent, len(ctx.Found), len(configs))
	return Result{
		Yakus:          ctx.Found,
		Configurations: configs,
		Concealed:      p.IsConcealed(),
	}, nil
}
