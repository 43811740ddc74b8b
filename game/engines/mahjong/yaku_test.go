package mahjong

import (
	"slices"
	"testing"
)

func TestYakuLabels(t *testing.T) {
	cases := map[Yaku]string{
		Of(YakuRiichi):                "Riichi",
		Of(YakuSevenPairs):            "Seven pairs",
		Of(YakuDoubleRiichi):          "Doube Riichi",
		SeatWind(WindWest):            "Seat wind: West Wind",
		PrevalentWind(WindEast):       "Prevalent wind: East Wind",
		Dragons(DragonGreen):          "Dragons: Green Dragon",
		Of(YakuBigSevenStars):         "Big seven stars",
		Of(YakuHandOfMan):             "Hand of Man",
		Of(YakuPureTripleChow):        "Pure triple Chow",
		Of(YakuShiiatutaotai):         "Shiiatutaotai",
		Of(YakuThirteenOrphans):       "Thirteen orphans",
		Of(YakuFourConcealedTriplets): "Four concealed triplets",
	}
	for y, want := range cases {
		if y.String() != want {
			t.Fatalf("label expected %q, got %q", want, y.String())
		}
	}
	if YakuID(-1).String() != "Unknown" || yakuCount.Valid() {
		t.Fatalf("out of range yaku id must be invalid")
	}
}

func TestCatalogUnique(t *testing.T) {
	cat := Catalog()
	if len(cat) != int(yakuCount)+8 {
		t.Fatalf("catalog expected %d entries, got %d", int(yakuCount)+8, len(cat))
	}
	keys := make(map[string]bool, len(cat))
	labels := make(map[string]bool, len(cat))
	for _, y := range cat {
		if keys[y.Key()] {
			t.Fatalf("duplicate key %s", y.Key())
		}
		if labels[y.String()] {
			t.Fatalf("duplicate label %s", y.String())
		}
		keys[y.Key()] = true
		labels[y.String()] = true

		parsed, err := ParseYaku(y.Key())
		if err != nil || parsed != y {
			t.Fatalf("parse %s expected %v, got %v (%v)", y.Key(), y, parsed, err)
		}
	}
	if !slices.IsSortedFunc(cat, Yaku.Compare) {
		t.Fatalf("catalog expected to be sorted")
	}
}

func TestYakuKeys(t *testing.T) {
	if k := SeatWind(WindWest).Key(); k != "seat_wind:west" {
		t.Fatalf("key expected seat_wind:west, got %s", k)
	}
	if k := Dragons(DragonRed).Key(); k != "dragons:red" {
		t.Fatalf("key expected dragons:red, got %s", k)
	}
	for _, bad := range []string{"", "riichi:east", "seat_wind:up", "dragons:blue", "nope"} {
		if _, err := ParseYaku(bad); err == nil {
			t.Fatalf("parse %q expected error", bad)
		}
	}
	if SeatWind(WindEast) == PrevalentWind(WindEast) {
		t.Fatalf("seat and prevalent wind must differ")
	}
}
