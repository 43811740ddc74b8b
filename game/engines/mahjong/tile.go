package mahjong

import (
	"fmt"
	"strings"
)

// Wind 风（座风/场风）
type Wind int

const (
	WindEast  Wind = iota // 东风
	WindSouth             // 南风
	WindWest              // 西风
	WindNorth             // 北风
)

var allWinds = [4]Wind{WindEast, WindSouth, WindWest, WindNorth}

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "East"
	case WindSouth:
		return "South"
	case WindWest:
		return "West"
	case WindNorth:
		return "North"
	default:
		return "Unknown"
	}
}

func (w Wind) Next() Wind {
	return (w + 1) % 4
}

func (w Wind) Valid() bool {
	return w >= WindEast && w <= WindNorth
}

func (w Wind) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("marshal wind %d: %w", int(w), ErrInvalidTile)
	}
	return []byte(strings.ToLower(w.String())), nil
}

func (w *Wind) UnmarshalText(b []byte) error {
	parsed, err := ParseWind(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// ParseWind 接受 "east"/"e"/"EW" 等写法
func ParseWind(s string) (Wind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "east", "e", "ew":
		return WindEast, nil
	case "south", "s", "sw":
		return WindSouth, nil
	case "west", "w", "ww":
		return WindWest, nil
	case "north", "n", "nw":
		return WindNorth, nil
	}
	return 0, fmt.Errorf("unknown wind %q: %w", s, ErrInvalidTile)
}

// Dragon 三元牌
type Dragon int

const (
	DragonGreen Dragon = iota // 发
	DragonRed                 // 中
	DragonWhite               // 白
)

var allDragons = [3]Dragon{DragonGreen, DragonRed, DragonWhite}

func (d Dragon) String() string {
	switch d {
	case DragonGreen:
		return "Green"
	case DragonRed:
		return "Red"
	case DragonWhite:
		return "White"
	default:
		return "Unknown"
	}
}

// Suit 数牌花色
type Suit int

const (
	SuitMan Suit = iota // 万
	SuitPin             // 筒
	SuitSou             // 索
)

func (s Suit) String() string {
	switch s {
	case SuitMan:
		return "Man"
	case SuitPin:
		return "Pin"
	case SuitSou:
		return "Sou"
	default:
		return "Unknown"
	}
}

// TileKind 牌的大类，顺序即排序顺序
type TileKind int

const (
	KindDragon TileKind = iota
	KindSimple
	KindWind
	KindNone
)

// Tile 牌值。枚举的数值顺序就是全序：三元牌 < 数牌(万<筒<索) < 风牌 < NoTile
type Tile int

const (
	GreenDragon Tile = iota
	RedDragon
	WhiteDragon

	Man1
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	Sou1
	Sou2
	Sou3
	Sou4
	Sou5
	Sou6
	Sou7
	Sou8
	Sou9

	East
	South
	West
	North

	// NoTile 仅作内部“未设置”标记，不会出现在真实手牌里
	NoTile
)

// TileTypes 牌种数量（不含 NoTile）
const TileTypes = int(NoTile)

func DragonTile(d Dragon) Tile {
	if d < DragonGreen || d > DragonWhite {
		return NoTile
	}
	return GreenDragon + Tile(d)
}

// SimpleTile rank 超出 1-9 时返回 NoTile
func SimpleTile(s Suit, rank int) Tile {
	if s < SuitMan || s > SuitSou || rank < 1 || rank > 9 {
		return NoTile
	}
	return Man1 + Tile(int(s)*9+rank-1)
}

func WindTile(w Wind) Tile {
	if !w.Valid() {
		return NoTile
	}
	return East + Tile(w)
}

func (t Tile) Kind() TileKind {
	switch {
	case t >= GreenDragon && t <= WhiteDragon:
		return KindDragon
	case t >= Man1 && t <= Sou9:
		return KindSimple
	case t >= East && t <= North:
		return KindWind
	default:
		return KindNone
	}
}

// Valid 是否为可出现在手牌中的牌
func (t Tile) Valid() bool {
	return t.Kind() != KindNone
}

func (t Tile) IsHonor() bool {
	k := t.Kind()
	return k == KindDragon || k == KindWind
}

// Suit 仅对数牌有意义，其它返回 -1
func (t Tile) Suit() Suit {
	if t.Kind() != KindSimple {
		return -1
	}
	return Suit((t - Man1) / 9)
}

// Rank 数牌点数 1-9，其它返回 0
func (t Tile) Rank() int {
	if t.Kind() != KindSimple {
		return 0
	}
	return int((t-Man1)%9) + 1
}

func (t Tile) Dragon() (Dragon, bool) {
	if t.Kind() != KindDragon {
		return 0, false
	}
	return Dragon(t - GreenDragon), true
}

func (t Tile) Wind() (Wind, bool) {
	if t.Kind() != KindWind {
		return 0, false
	}
	return Wind(t - East), true
}

// Successor 宝牌指示牌的下一张：三元 发→中→白→发，数牌 9→1，风 东→南→西→北→东
func (t Tile) Successor() Tile {
	switch t.Kind() {
	case KindDragon:
		d, _ := t.Dragon()
		return DragonTile((d + 1) % 3)
	case KindSimple:
		return SimpleTile(t.Suit(), t.Rank()%9+1)
	case KindWind:
		w, _ := t.Wind()
		return WindTile(w.Next())
	default:
		return NoTile
	}
}

func Successor(t Tile) Tile {
	return t.Successor()
}

var suitCodes = [3]byte{'M', 'P', 'S'}

// String 两字符牌码，例如 GD、M1、EW
func (t Tile) String() string {
	switch t.Kind() {
	case KindDragon:
		return [3]string{"GD", "RD", "WD"}[t-GreenDragon]
	case KindSimple:
		return string([]byte{suitCodes[t.Suit()], byte('0' + t.Rank())})
	case KindWind:
		return [4]string{"EW", "SW", "WW", "NW"}[t-East]
	default:
		return "!!"
	}
}

func (t Tile) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("marshal tile %d: %w", int(t), ErrInvalidTile)
	}
	return []byte(t.String()), nil
}

func (t *Tile) UnmarshalText(b []byte) error {
	parsed, err := ParseTile(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTile 解析两字符牌码（大小写不敏感）。"!!" 不是合法输入
func ParseTile(code string) (Tile, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 2 {
		return NoTile, fmt.Errorf("tile code %q: %w", code, ErrInvalidTile)
	}
	switch c {
	case "GD":
		return GreenDragon, nil
	case "RD":
		return RedDragon, nil
	case "WD":
		return WhiteDragon, nil
	case "EW":
		return East, nil
	case "SW":
		return South, nil
	case "WW":
		return West, nil
	case "NW":
		return North, nil
	}
	rank := int(c[1] - '0')
	for s, sc := range suitCodes {
		if c[0] == sc && rank >= 1 && rank <= 9 {
			return SimpleTile(Suit(s), rank), nil
		}
	}
	return NoTile, fmt.Errorf("tile code %q: %w", code, ErrInvalidTile)
}

// ParseTiles 解析以空格或逗号分隔的牌码序列，保持输入顺序
func ParseTiles(s string) ([]Tile, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	out := make([]Tile, 0, len(fields))
	for _, f := range fields {
		t, err := ParseTile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// FormatTiles 牌码以空格连接
func FormatTiles(tiles []Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
