package mahjong

import (
	"context"
	"errors"
	"testing"
)

func TestEvaluateBatchOrder(t *testing.T) {
	items := []BatchItem{
		{Player: Player{Seat: WindSouth, Hand: mustTiles(t, "WD WD WD M1 M2 M3 P4 P5 P6 S7 S8 S9 M5 M5")}, Prevalent: WindEast},
		{Player: Player{Seat: WindSouth, Hand: mustTiles(t, "M1 M2 M3")}, Prevalent: WindEast},
		{Player: Player{Seat: WindWest, Hand: mustTiles(t, "WW WW WW M1 M2 M3 P4 P5 P6 S7 S8 S9 M5 M5")}, Prevalent: WindEast},
	}
	for i := 0; i < 20; i++ {
		items = append(items, BatchItem{
			Player:    Player{Seat: WindEast, Hand: mustTiles(t, "EW EW RD RD GD GD M1 M1 P1 P1 P2 P2 P3 P3"), Riichi: true},
			Prevalent: WindSouth,
		})
	}

	results, err := EvaluateBatch(context.Background(), nil, items, 4)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("result %d has index %d", i, r.Index)
		}
	}
	if !ContainsYaku(results[0].Result.Yakus, Dragons(DragonWhite)) {
		t.Fatalf("first hand expected Dragons(White), got %v", results[0].Result.Yakus)
	}
	if !errors.Is(results[1].Err, ErrInvalidHandSize) {
		t.Fatalf("second hand expected ErrInvalidHandSize, got %v", results[1].Err)
	}
	if !ContainsYaku(results[2].Result.Yakus, SeatWind(WindWest)) {
		t.Fatalf("third hand expected SeatWind(West), got %v", results[2].Result.Yakus)
	}
	for _, r := range results[3:] {
		if r.Err != nil || len(r.Result.Yakus) != 2 {
			t.Fatalf("seven pairs hand expected [SevenPairs Riichi], got %v (%v)", r.Result.Yakus, r.Err)
		}
	}
}

func TestEvaluateBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]BatchItem, 5)
	for i := range items {
		items[i] = BatchItem{Player: Player{Seat: WindEast, Hand: mustTiles(t, "M1 M2 M3 P4 P5 P6 S7 S8 S9 M5 M5 M7 M8 M9")}}
	}
	results, err := EvaluateBatch(ctx, NewEvaluator(), items, 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Fatalf("result %d expected context.Canceled, got %v", i, r.Err)
		}
	}
}

func TestEvaluateBatchEmpty(t *testing.T) {
	results, err := EvaluateBatch(context.Background(), nil, nil, 0)
	if err != nil || len(results) != 0 {
		t.Fatalf("empty batch expected no results, got %v (%v)", results, err)
	}
}
