package mahjong

import (
	"cmp"
	"fmt"
	"strings"
)

// YakuID 役种标识，只定义身份与显示名，不带番数
type YakuID int

const (
	// 1 番
	YakuRiichi YakuID = iota
	YakuAllSimples
	YakuFullyConcealedHand
	YakuSeatWind      // 自风，带 Wind
	YakuPrevalentWind // 场风，带 Wind
	YakuDragons       // 三元牌，带 Dragon
	YakuPinfu
	YakuPureDoubleSequence
	YakuRobbingAKan
	YakuAfterAKan
	YakuUnderTheSea
	YakuUnderTheRiver
	YakuIppatsu
	YakuTsubameGaeshi
	YakuKanburi
	YakuShiiatutaotai

	// 2 番
	YakuDoubleRiichi
	YakuTripleTriplets
	YakuThreeQuads
	YakuAllTriplets
	YakuThreeConcealedTriplets
	YakuLittleThreeDragons
	YakuAllTerminalsAndHonors
	YakuSevenPairs
	YakuHalfOutsideHand
	YakuPureStraight
	YakuMixedTripleSequence
	YakuUumensai
	YakuThreeChainedTriplets

	// 3 番
	YakuTwicePureDoubleSequence
	YakuFullyOutsideHand
	YakuHalfFlush
	YakuPureTripleChow

	// 6 番
	YakuFullFlush

	// 满贯
	YakuManganAtDraw
	YakuIipinmoyue
	YakuChuupinraoyui

	// 役满
	YakuBlessingOfHeaven
	YakuBlessingOfEarth
	YakuBigThreeDragons
	YakuFourConcealedTriplets
	YakuAllHonors
	YakuAllGreen
	YakuAllTerminals
	YakuThirteenOrphans
	YakuFourLittleWinds
	YakuFourQuads
	YakuNineGates
	YakuHandOfMan
	YakuBigWheels
	YakuBambooForest
	YakuNumerousNeighbours
	YakuIshinouenimosannen

	// 双倍役满
	YakuSingleWaitFourConcealedTriplets
	YakuThirteenWaitThirteenOrphans
	YakuTrueNineGates
	YakuFourBigWinds
	YakuBigSevenStars

	yakuCount
)

var yakuMeta = [yakuCount]struct {
	key   string
	label string
}{
	YakuRiichi:                          {"riichi", "Riichi"},
	YakuAllSimples:                      {"all_simples", "All simples"},
	YakuFullyConcealedHand:              {"fully_concealed_hand", "Fully concealed hand"},
	YakuSeatWind:                        {"seat_wind", "Seat wind"},
	YakuPrevalentWind:                   {"prevalent_wind", "Prevalent wind"},
	YakuDragons:                         {"dragons", "Dragons"},
	YakuPinfu:                           {"pinfu", "Pinfu"},
	YakuPureDoubleSequence:              {"pure_double_sequence", "Pure double sequence"},
	YakuRobbingAKan:                     {"robbing_a_kan", "Robbing a Kan"},
	YakuAfterAKan:                       {"after_a_kan", "After a Kan"},
	YakuUnderTheSea:                     {"under_the_sea", "Under the sea"},
	YakuUnderTheRiver:                   {"under_the_river", "Under the river"},
	YakuIppatsu:                         {"ippatsu", "Ippatsu"},
	YakuTsubameGaeshi:                   {"tsubame_gaeshi", "Tsubame Gaeshi"},
	YakuKanburi:                         {"kanburi", "Kanburi"},
	YakuShiiatutaotai:                   {"shiiatutaotai", "Shiiatutaotai"},
	YakuDoubleRiichi:                    {"double_riichi", "Doube Riichi"},
	YakuTripleTriplets:                  {"triple_triplets", "Triple triplets"},
	YakuThreeQuads:                      {"three_quads", "Three Quads"},
	YakuAllTriplets:                     {"all_triplets", "All triplets"},
	YakuThreeConcealedTriplets:          {"three_concealed_triplets", "Three concealed triplets"},
	YakuLittleThreeDragons:              {"little_three_dragons", "Little three dragons"},
	YakuAllTerminalsAndHonors:           {"all_terminals_and_honors", "All terminals and honors"},
	YakuSevenPairs:                      {"seven_pairs", "Seven pairs"},
	YakuHalfOutsideHand:                 {"half_outside_hand", "Half outside hand"},
	YakuPureStraight:                    {"pure_straight", "Pure straight"},
	YakuMixedTripleSequence:             {"mixed_triple_sequence", "Mixed triple sequence"},
	YakuUumensai:                        {"uumensai", "Uumensai"},
	YakuThreeChainedTriplets:            {"three_chained_triplets", "Three chained triplets"},
	YakuTwicePureDoubleSequence:         {"twice_pure_double_sequence", "Twice pure double sequence"},
	YakuFullyOutsideHand:                {"fully_outside_hand", "Fully outside hand"},
	YakuHalfFlush:                       {"half_flush", "Half flush"},
	YakuPureTripleChow:                  {"pure_triple_chow", "Pure triple Chow"},
	YakuFullFlush:                       {"full_flush", "Full flush"},
	YakuManganAtDraw:                    {"mangan_at_draw", "Mangan at draw"},
	YakuIipinmoyue:                      {"iipinmoyue", "Iipinmoyue"},
	YakuChuupinraoyui:                   {"chuupinraoyui", "Chuupinraoyui"},
	YakuBlessingOfHeaven:                {"blessing_of_heaven", "Blessing of heaven"},
	YakuBlessingOfEarth:                 {"blessing_of_earth", "Blessing of earth"},
	YakuBigThreeDragons:                 {"big_three_dragons", "Big three dragons"},
	YakuFourConcealedTriplets:           {"four_concealed_triplets", "Four concealed triplets"},
	YakuAllHonors:                       {"all_honors", "All honors"},
	YakuAllGreen:                        {"all_green", "All green"},
	YakuAllTerminals:                    {"all_terminals", "All terminals"},
	YakuThirteenOrphans:                 {"thirteen_orphans", "Thirteen orphans"},
	YakuFourLittleWinds:                 {"four_little_winds", "Four little winds"},
	YakuFourQuads:                       {"four_quads", "Four quads"},
	YakuNineGates:                       {"nine_gates", "Nine gates"},
	YakuHandOfMan:                       {"hand_of_man", "Hand of Man"},
	YakuBigWheels:                       {"big_wheels", "Big wheels"},
	YakuBambooForest:                    {"bamboo_forest", "Bamboo forest"},
	YakuNumerousNeighbours:              {"numerous_neighbours", "Numerous neighbours"},
	YakuIshinouenimosannen:              {"ishinouenimosannen", "Ishinouenimosannen"},
	YakuSingleWaitFourConcealedTriplets: {"single_wait_four_concealed_triplets", "Single wait four concealed triplets"},
	YakuThirteenWaitThirteenOrphans:     {"thirteen_wait_thirteen_orphans", "Thirteen wait thirteen orphans"},
	YakuTrueNineGates:                   {"true_nine_gates", "True nine gates"},
	YakuFourBigWinds:                    {"four_big_winds", "Four big winds"},
	YakuBigSevenStars:                   {"big_seven_stars", "Big seven stars"},
}

func (id YakuID) Valid() bool {
	return id >= YakuRiichi && id < yakuCount
}

func (id YakuID) Key() string {
	if !id.Valid() {
		return "unknown"
	}
	return yakuMeta[id].key
}

func (id YakuID) String() string {
	if !id.Valid() {
		return "Unknown"
	}
	return yakuMeta[id].label
}

// Parameterized 自风/场风/三元牌三种役带牌属性
func (id YakuID) Parameterized() bool {
	return id == YakuSeatWind || id == YakuPrevalentWind || id == YakuDragons
}

// Yaku 可比较的值类型：只有 Parameterized 的役种使用 Wind/Dragon 字段，其余保持零值
type Yaku struct {
	ID     YakuID
	Wind   Wind
	Dragon Dragon
}

// Of 构造不带参数的役；带参数的役请用 SeatWind/PrevalentWind/Dragons
func Of(id YakuID) Yaku {
	return Yaku{ID: id}
}

func SeatWind(w Wind) Yaku {
	return Yaku{ID: YakuSeatWind, Wind: w}
}

func PrevalentWind(w Wind) Yaku {
	return Yaku{ID: YakuPrevalentWind, Wind: w}
}

func Dragons(d Dragon) Yaku {
	return Yaku{ID: YakuDragons, Dragon: d}
}

// Key 稳定标识，例如 riichi、seat_wind:west、dragons:red
func (y Yaku) Key() string {
	switch y.ID {
	case YakuSeatWind, YakuPrevalentWind:
		return y.ID.Key() + ":" + strings.ToLower(y.Wind.String())
	case YakuDragons:
		return y.ID.Key() + ":" + strings.ToLower(y.Dragon.String())
	default:
		return y.ID.Key()
	}
}

func (y Yaku) String() string {
	switch y.ID {
	case YakuSeatWind, YakuPrevalentWind:
		return fmt.Sprintf("%s: %s Wind", y.ID, y.Wind)
	case YakuDragons:
		return fmt.Sprintf("%s: %s Dragon", y.ID, y.Dragon)
	default:
		return y.ID.String()
	}
}

// Compare 按 ID、Wind、Dragon 排序
func (y Yaku) Compare(o Yaku) int {
	if c := cmp.Compare(y.ID, o.ID); c != 0 {
		return c
	}
	if c := cmp.Compare(y.Wind, o.Wind); c != 0 {
		return c
	}
	return cmp.Compare(y.Dragon, o.Dragon)
}

func (y Yaku) MarshalText() ([]byte, error) {
	return []byte(y.Key()), nil
}

// ParseYaku Key 的逆运算
func ParseYaku(key string) (Yaku, error) {
	name, param, _ := strings.Cut(strings.ToLower(strings.TrimSpace(key)), ":")
	for id := YakuRiichi; id < yakuCount; id++ {
		if yakuMeta[id].key != name {
			continue
		}
		switch id {
		case YakuSeatWind, YakuPrevalentWind:
			w, err := ParseWind(param)
			if err != nil {
				return Yaku{}, fmt.Errorf("yaku %q: %w", key, err)
			}
			return Yaku{ID: id, Wind: w}, nil
		case YakuDragons:
			for _, d := range allDragons {
				if strings.ToLower(d.String()) == param {
					return Dragons(d), nil
				}
			}
			return Yaku{}, fmt.Errorf("yaku %q: unknown dragon", key)
		default:
			if param != "" {
				return Yaku{}, fmt.Errorf("yaku %q takes no parameter", key)
			}
			return Of(id), nil
		}
	}
	return Yaku{}, fmt.Errorf("unknown yaku %q", key)
}

// Catalog 所有役种，带参数的役按每个取值展开
func Catalog() []Yaku {
	out := make([]Yaku, 0, int(yakuCount)+8)
	for id := YakuRiichi; id < yakuCount; id++ {
		switch id {
		case YakuSeatWind:
			for _, w := range allWinds {
				out = append(out, SeatWind(w))
			}
		case YakuPrevalentWind:
			for _, w := range allWinds {
				out = append(out, PrevalentWind(w))
			}
		case YakuDragons:
			for _, d := range allDragons {
				out = append(out, Dragons(d))
			}
		default:
			out = append(out, Of(id))
		}
	}
	return out
}

func ContainsYaku(list []Yaku, y Yaku) bool {
	for _, v := range list {
		if v == y {
			return true
		}
	}
	return false
}
