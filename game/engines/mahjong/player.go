package mahjong

// Player 一家的手牌状态
type Player struct {
	Seat      Wind   `json:"seat"`
	Hand      []Tile `json:"hand"`      // 门内手牌
	DealtIn   []Tile `json:"dealtIn"`   // 副露进来的牌，非空即非门清
	Discarded []Tile `json:"discarded"` // 牌河，仅作上下文
	Kan       []Tile `json:"kan"`       // 每个杠记一张，不在 Hand 中
	Riichi    bool   `json:"riichi"`
}

// IsConcealed 门前清
func (p *Player) IsConcealed() bool {
	return len(p.DealtIn) == 0
}

// TileCount 门内 + 副露 + 每个杠按 3 张计
func (p *Player) TileCount() int {
	return len(p.Hand) + len(p.DealtIn) + 3*len(p.Kan)
}

// Clone 深拷贝所有切片
func (p Player) Clone() Player {
	p.Hand = CloneTiles(p.Hand)
	p.DealtIn = CloneTiles(p.DealtIn)
	p.Discarded = CloneTiles(p.Discarded)
	p.Kan = CloneTiles(p.Kan)
	return p
}

// shapeTiles 拆牌用的 14 张：门内 + 副露 + 每个杠的 3 张
func (p *Player) shapeTiles() []Tile {
	out := make([]Tile, 0, p.TileCount())
	out = append(out, p.Hand...)
	out = append(out, p.DealtIn...)
	for _, k := range p.Kan {
		out = append(out, k, k, k)
	}
	return out
}

func (p *Player) validate() error {
	if n := p.TileCount(); n != StandardHandSize {
		return ErrInvalidHandSize.
			WithContext("hand", len(p.Hand)).
			WithContext("dealtIn", len(p.DealtIn)).
			WithContext("kan", len(p.Kan)).
			WithContext("count", n)
	}
	for _, part := range [][]Tile{p.Hand, p.DealtIn, p.Kan} {
		if err := validateTiles(part); err != nil {
			return err
		}
	}
	if !p.Seat.Valid() {
		return ErrInvalidTile.WithContext("seat", int(p.Seat))
	}
	return nil
}

// EvaluateYakus 按默认规则计算成立的役。值接收者，调用方的手牌不会被修改
func (p Player) EvaluateYakus(prevalent Wind) ([]Yaku, error) {
	res, err := DefaultEvaluator().Evaluate(p, prevalent)
	if err != nil {
		return nil, err
	}
	return res.Yakus, nil
}
