package mahjong

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rflgf/mahjong-cli/common/log"
)

// Group 面子：刻子或顺子
type Group [3]Tile

// IsTriplet 三张相同
func (g Group) IsTriplet() bool {
	return g[0].Valid() && g[0] == g[1] && g[1] == g[2]
}

// IsRun 同花色数牌 n, n+1, n+2；字牌不能成顺
func (g Group) IsRun() bool {
	if g[0].Kind() != KindSimple || g[1].Kind() != KindSimple || g[2].Kind() != KindSimple {
		return false
	}
	if g[0].Suit() != g[1].Suit() || g[1].Suit() != g[2].Suit() {
		return false
	}
	return g[1].Rank() == g[0].Rank()+1 && g[2].Rank() == g[1].Rank()+1
}

func (g Group) Valid() bool {
	return g.IsTriplet() || g.IsRun()
}

func (g Group) String() string {
	return FormatTiles(g[:])
}

// Pair 雀头
type Pair [2]Tile

func (p Pair) Valid() bool {
	return p[0].Valid() && p[0] == p[1]
}

func (p Pair) String() string {
	return FormatTiles(p[:])
}

// HandConfiguration 四面子一雀头的一种拆法
type HandConfiguration struct {
	Groups [4]Group `json:"groups"`
	Pair   Pair     `json:"pair"`
}

// Tiles 展开为 14 张牌：先四个面子，后雀头
func (c HandConfiguration) Tiles() []Tile {
	out := make([]Tile, 0, StandardHandSize)
	for _, g := range c.Groups {
		out = append(out, g[:]...)
	}
	return append(out, c.Pair[:]...)
}

func (c HandConfiguration) String() string {
	parts := make([]string, 0, 5)
	for _, g := range c.Groups {
		parts = append(parts, "["+g.String()+"]")
	}
	parts = append(parts, "("+c.Pair.String()+")")
	return strings.Join(parts, " ")
}

// DecompositionCache 拆牌结果缓存，key 为排序后的牌码串
type DecompositionCache interface {
	Get(key string) ([]HandConfiguration, bool)
	Set(key string, configs []HandConfiguration)
}

// Decomposer 拆牌器。cache 为空时不缓存
type Decomposer struct {
	cache DecompositionCache
}

func NewDecomposer(cache DecompositionCache) *Decomposer {
	return &Decomposer{cache: cache}
}

var defaultDecomposer = NewDecomposer(nil)

// Decompose 使用不带缓存的默认拆牌器
func Decompose(tiles []Tile) ([]HandConfiguration, error) {
	return defaultDecomposer.Decompose(tiles)
}

// Decompose 枚举所有相邻对子作雀头的拆法，剩余 12 张按排序顺序每 3 张切成一个面子。
// 每个通过检查的下标产出一个结果，不去重。入参不会被修改。
func (d *Decomposer) Decompose(tiles []Tile) ([]HandConfiguration, error) {
	if len(tiles) != StandardHandSize {
		return nil, fmt.Errorf("decompose %d tiles: %w", len(tiles), ErrInvalidHandSize.WithContext("count", len(tiles)))
	}
	if err := validateTiles(tiles); err != nil {
		return nil, fmt.Errorf("decompose: %w", err)
	}

	sorted := SortedCopy(tiles)
	var key string
	if d != nil && d.cache != nil {
		key = handKey(sorted)
		if v, ok := d.cache.Get(key); ok {
			log.Debug("拆牌缓存命中 key=%s configs=%d", key, len(v))
			return slices.Clone(v), nil
		}
	}

	out := decompose(sorted)
	log.Debug("拆牌完成 hand=%s configs=%d", FormatTiles(sorted), len(out))

	if key != "" {
		d.cache.Set(key, slices.Clone(out))
	}
	return out, nil
}

// decompose sorted 必须已排序且长度为 14
func decompose(sorted []Tile) []HandConfiguration {
	out := make([]HandConfiguration, 0, 4)
	rest := make([]Tile, 0, len(sorted)-2)
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i] != sorted[i+1] {
			continue
		}

		rest = rest[:0]
		rest = append(rest, sorted[:i]...)
		rest = append(rest, sorted[i+2:]...)

		var cfg HandConfiguration
		cfg.Pair = Pair{sorted[i], sorted[i+1]}
		ok := true
		for g := range cfg.Groups {
			copy(cfg.Groups[g][:], rest[g*3:g*3+3])
			if !cfg.Groups[g].Valid() {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, cfg)
		}
	}
	return out
}
