package mahjong

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestGroupShapes(t *testing.T) {
	cases := []struct {
		group Group
		valid bool
	}{
		{Group{Man1, Man2, Man3}, true},
		{Group{Sou7, Sou8, Sou9}, true},
		{Group{East, East, East}, true},
		{Group{RedDragon, RedDragon, RedDragon}, true},
		{Group{Man8, Man9, Pin1}, false},
		{Group{Man1, Pin2, Sou3}, false},
		{Group{East, South, West}, false},
		{Group{GreenDragon, RedDragon, WhiteDragon}, false},
		{Group{Man1, Man1, Man2}, false},
		{Group{NoTile, NoTile, NoTile}, false},
	}
	for _, c := range cases {
		if c.group.Valid() != c.valid {
			t.Fatalf("group %s expected valid=%v", c.group, c.valid)
		}
	}
}

func TestDecomposeSingleConfiguration(t *testing.T) {
	hand := mustTiles(t, "M1 M2 M3 P4 P5 P6 S7 S8 S9 M5 M5 WD WD WD")
	configs, err := Decompose(hand)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("expected 1 configuration, got %d: %v", len(configs), configs)
	}
	want := HandConfiguration{
		Groups: [4]Group{
			{WhiteDragon, WhiteDragon, WhiteDragon},
			{Man1, Man2, Man3},
			{Pin4, Pin5, Pin6},
			{Sou7, Sou8, Sou9},
		},
		Pair: Pair{Man5, Man5},
	}
	if configs[0] != want {
		t.Fatalf("expected %s, got %s", want, configs[0])
	}
}

func TestDecomposeKeepsDuplicates(t *testing.T) {
	// 两个相邻下标得到同一种拆法，不去重
	hand := mustTiles(t, "M1 M1 M1 M2 M3 P1 P2 P3 S1 S2 S3 S7 S8 S9")
	configs, err := Decompose(hand)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("expected 2 configurations, got %d", len(configs))
	}
	if configs[0] != configs[1] {
		t.Fatalf("expected identical configurations, got %s and %s", configs[0], configs[1])
	}
}

func TestDecomposeLastIndexPair(t *testing.T) {
	// 雀头在排序后的最后两张
	hand := mustTiles(t, "GD GD GD M1 M2 M3 P4 P5 P6 S7 S8 S9 NW NW")
	configs, err := Decompose(hand)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(configs) != 1 || configs[0].Pair != (Pair{North, North}) {
		t.Fatalf("expected one configuration with NW pair, got %v", configs)
	}
}

func TestDecomposeNoConfiguration(t *testing.T) {
	hand := mustTiles(t, "M1 M3 M5 M7 M9 P1 P3 P5 P7 P9 S1 S3 S5 S7")
	configs, err := Decompose(hand)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if configs == nil || len(configs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", configs)
	}

	// 有对子但拆不成面子
	hand = mustTiles(t, "M1 M1 M3 M5 M7 M9 P1 P3 P5 P7 P9 S1 S3 S5")
	configs, err = Decompose(hand)
	if err != nil || len(configs) != 0 {
		t.Fatalf("expected no configuration, got %v (%v)", configs, err)
	}
}

func TestDecomposeInvalidSize(t *testing.T) {
	for _, n := range []int{0, 13, 15} {
		hand := make([]Tile, n)
		for i := range hand {
			hand[i] = Man1 + Tile(i%27)
		}
		if _, err := Decompose(hand); !errors.Is(err, ErrInvalidHandSize) {
			t.Fatalf("%d tiles expected ErrInvalidHandSize, got %v", n, err)
		}
	}
}

func TestDecomposeInvalidTile(t *testing.T) {
	hand := mustTiles(t, "M1 M2 M3 P4 P5 P6 S7 S8 S9 M5 M5 WD WD WD")
	hand[3] = NoTile
	if _, err := Decompose(hand); !errors.Is(err, ErrInvalidTile) {
		t.Fatalf("expected ErrInvalidTile, got %v", err)
	}
}

func TestDecomposeDoesNotMutateInput(t *testing.T) {
	hand := mustTiles(t, "S9 S8 S7 WD M5 P6 P5 P4 M3 M2 M1 M5 WD WD")
	before := CloneTiles(hand)
	if _, err := Decompose(hand); err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if !slices.Equal(hand, before) {
		t.Fatalf("input mutated: %v -> %v", before, hand)
	}
}

// 同一输入结果稳定；每种拆法展开排序后与输入多重集一致
func TestDecomposeDeterministicAndPreservesTiles(t *testing.T) {
	hands := [][]Tile{
		mustTiles(t, "M1 M2 M3 P4 P5 P6 S7 S8 S9 M5 M5 WD WD WD"),
		mustTiles(t, "M1 M1 M1 M2 M3 P1 P2 P3 S1 S2 S3 S7 S8 S9"),
		mustTiles(t, "M1 M1 M1 M2 M2 M2 M3 M3 M3 M4 M4 M4 M5 M5"),
		mustTiles(t, "EW EW EW SW SW SW WW WW WW NW NW NW RD RD"),
	}
	deck := NewDeck(42)
	for i := 0; i < 9; i++ {
		h, err := deck.Deal(StandardHandSize)
		if err != nil {
			t.Fatalf("deal: %v", err)
		}
		hands = append(hands, h)
	}

	for _, hand := range hands {
		first, err := Decompose(hand)
		if err != nil {
			t.Fatalf("decompose %s: %v", FormatTiles(hand), err)
		}
		second, _ := Decompose(hand)
		if !slices.Equal(first, second) {
			t.Fatalf("decompose %s not deterministic: %v vs %v", FormatTiles(hand), first, second)
		}

		sorted := SortedCopy(hand)
		for _, cfg := range first {
			flat := SortedCopy(cfg.Tiles())
			if !slices.Equal(flat, sorted) {
				t.Fatalf("configuration %s expected tiles %s, got %s", cfg, FormatTiles(sorted), FormatTiles(flat))
			}
		}
	}
}

type mapCache struct {
	mu   sync.Mutex
	m    map[string][]HandConfiguration
	hits int
}

func (c *mapCache) Get(key string) ([]HandConfiguration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *mapCache) Set(key string, configs []HandConfiguration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = configs
}

func TestDecomposerCache(t *testing.T) {
	cache := &mapCache{m: make(map[string][]HandConfiguration)}
	d := NewDecomposer(cache)

	hand := mustTiles(t, "M1 M2 M3 P4 P5 P6 S7 S8 S9 M5 M5 WD WD WD")
	first, err := d.Decompose(hand)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if cache.hits != 0 || len(cache.m) != 1 {
		t.Fatalf("expected one cache entry and no hit, got %d entries %d hits", len(cache.m), cache.hits)
	}

	// 顺序不同的同一手牌命中同一个 key
	reordered := mustTiles(t, "WD WD WD M5 M5 S9 S8 S7 P6 P5 P4 M3 M2 M1")
	second, err := d.Decompose(reordered)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected 1 cache hit, got %d", cache.hits)
	}
	if !slices.Equal(first, second) {
		t.Fatalf("cached result differs: %v vs %v", first, second)
	}

	second[0].Pair = Pair{East, East}
	third, _ := d.Decompose(hand)
	if third[0].Pair != (Pair{Man5, Man5}) {
		t.Fatalf("cached entry mutated through returned slice: %s", third[0])
	}
}

func BenchmarkDecompose_NoCache(b *testing.B) {
	hand := mustTiles(b, "M1 M1 M1 M2 M3 P1 P2 P3 S1 S2 S3 S7 S8 S9")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decompose(hand)
	}
}

func BenchmarkDecompose_Cache(b *testing.B) {
	d := NewDecomposer(&mapCache{m: make(map[string][]HandConfiguration)})
	hand := mustTiles(b, "M1 M1 M1 M2 M3 P1 P2 P3 S1 S2 S3 S7 S8 S9")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = d.Decompose(hand)
	}
}
