package mahjong

// YakuContext 检查器共享的只读输入，Found 为之前的检查器已确认的役
type YakuContext struct {
	Player         *Player
	Prevalent      Wind
	Rules          Rules
	Sorted         []Tile // 排序后的门内手牌
	Counts         Hand34 // 门内手牌计数
	Configurations []HandConfiguration
	Found          []Yaku
}

type YakuChecker interface {
	Name() string
	Check(ctx *YakuContext) []Yaku
}

type yakuCheckerFunc struct {
	name  string
	check func(ctx *YakuContext) []Yaku
}

func (f yakuCheckerFunc) Name() string { return f.name }

func (f yakuCheckerFunc) Check(ctx *YakuContext) []Yaku { return f.check(ctx) }

// YakuRegistry 默认检查顺序：风、三元、七对子，立直最后
var YakuRegistry = []YakuChecker{
	yakuCheckerFunc{name: "winds", check: checkWinds},
	yakuCheckerFunc{name: "dragons", check: checkDragons},
	yakuCheckerFunc{name: "seven_pairs", check: func(ctx *YakuContext) []Yaku {
		if checkSevenPairs(ctx) {
			return []Yaku{Of(YakuSevenPairs)}
		}
		return nil
	}},
	yakuCheckerFunc{name: "riichi", check: func(ctx *YakuContext) []Yaku {
		// 立直不能单独成役
		if ctx.Player.Riichi && len(ctx.Found) > 0 {
			return []Yaku{Of(YakuRiichi)}
		}
		return nil
	}},
}

// checkWinds 门内风牌刻子。同时是场风和自风时只记场风
func checkWinds(ctx *YakuContext) []Yaku {
	total := 0
	for _, w := range allWinds {
		total += int(ctx.Counts[WindTile(w)])
	}
	if total < 3 {
		return nil
	}

	var out []Yaku
	for _, w := range allWinds {
		if ctx.Counts[WindTile(w)] < 3 {
			continue
		}
		switch w {
		case ctx.Prevalent:
			out = append(out, PrevalentWind(w))
		case ctx.Player.Seat:
			out = append(out, SeatWind(w))
		}
	}
	return out
}

// checkDragons 门内三元牌刻子
func checkDragons(ctx *YakuContext) []Yaku {
	total := 0
	for _, d := range allDragons {
		total += int(ctx.Counts[DragonTile(d)])
	}
	if total < 3 {
		return nil
	}

	var out []Yaku
	for _, d := range allDragons {
		if ctx.Counts[DragonTile(d)] >= 3 {
			out = append(out, Dragons(d))
		}
	}
	return out
}

// checkSevenPairs 门清、无杠、门内 14 张
func checkSevenPairs(ctx *YakuContext) bool {
	p := ctx.Player
	if !p.IsConcealed() || len(p.Kan) != 0 || len(p.Hand) != StandardHandSize {
		return false
	}
	if ctx.Rules.SevenPairs == SevenPairsAdjacent {
		return isSevenPairsAdjacent(p.Hand)
	}
	return isSevenPairs(ctx.Counts)
}

func isSevenPairs(h Hand34) bool {
	pairs := 0
	for _, c := range h {
		switch c {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

// isSevenPairsAdjacent 按输入顺序两两分组，同一种牌出现在两组里也不算
func isSevenPairsAdjacent(hand []Tile) bool {
	if len(hand)%2 != 0 {
		return false
	}
	var seen [TileTypes]bool
	for i := 0; i+1 < len(hand); i += 2 {
		t := hand[i]
		if t != hand[i+1] || !t.Valid() || seen[t] {
			return false
		}
		seen[t] = true
	}
	return true
}
