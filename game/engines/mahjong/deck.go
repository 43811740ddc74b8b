package mahjong

import (
	"fmt"
	"math/rand"
	"time"
)

// TileLimit 一副牌 34 种各 4 张
const TileLimit = TileTypes * 4

// Deck 不含红宝牌的 136 张牌山
type Deck struct {
	tiles []Tile
	index int
	rng   *rand.Rand
}

// NewDeck seed 为 0 时使用当前时间
func NewDeck(seed int64) *Deck {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := &Deck{
		tiles: make([]Tile, 0, TileLimit),
		rng:   rand.New(rand.NewSource(seed)),
	}
	d.Reset()
	return d
}

// Reset 重新生成并洗牌
func (d *Deck) Reset() {
	d.tiles = d.tiles[:0]
	d.index = 0
	for t := GreenDragon; t < NoTile; t++ {
		for i := 0; i < 4; i++ {
			d.tiles = append(d.tiles, t)
		}
	}
	d.rng.Shuffle(len(d.tiles), func(i, j int) {
		d.tiles[i], d.tiles[j] = d.tiles[j], d.tiles[i]
	})
}

func (d *Deck) Remaining() int {
	return len(d.tiles) - d.index
}

func (d *Deck) Draw() (Tile, bool) {
	if d.index >= len(d.tiles) {
		return NoTile, false
	}
	t := d.tiles[d.index]
	d.index++
	return t, true
}

// Deal 摸 n 张，牌不够时不摸并返回错误
func (d *Deck) Deal(n int) ([]Tile, error) {
	if n < 0 || n > d.Remaining() {
		return nil, fmt.Errorf("deal %d tiles with %d remaining", n, d.Remaining())
	}
	out := make([]Tile, n)
	copy(out, d.tiles[d.index:d.index+n])
	d.index += n
	return out, nil
}

// RandomPlayer 随机发 14 张门内手牌
func RandomPlayer(d *Deck, seat Wind, riichi bool) (Player, error) {
	hand, err := d.Deal(StandardHandSize)
	if err != nil {
		return Player{}, err
	}
	return Player{Seat: seat, Hand: hand, Riichi: riichi}, nil
}
