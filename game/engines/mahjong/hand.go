package mahjong

import (
	"slices"
	"strings"
)

// StandardHandSize 四面子一雀头
const StandardHandSize = 14

// Hand34 每种牌的张数
type Hand34 [TileTypes]uint8

func CountTiles(tiles []Tile) Hand34 {
	var h Hand34
	for _, t := range tiles {
		if t.Valid() {
			h[t]++
		}
	}
	return h
}

func SortTiles(tiles []Tile) {
	slices.Sort(tiles)
}

func CloneTiles(tiles []Tile) []Tile {
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	return out
}

// SortedCopy 不修改入参
func SortedCopy(tiles []Tile) []Tile {
	out := CloneTiles(tiles)
	SortTiles(out)
	return out
}

func validateTiles(tiles []Tile) error {
	for i, t := range tiles {
		if !t.Valid() {
			return ErrInvalidTile.WithContext("index", i).WithContext("value", int(t))
		}
	}
	return nil
}

// handKey 已排序牌序列的缓存 key
func handKey(sorted []Tile) string {
	var b strings.Builder
	b.Grow(len(sorted) * 2)
	for _, t := range sorted {
		b.WriteString(t.String())
	}
	return b.String()
}
