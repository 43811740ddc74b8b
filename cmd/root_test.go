package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rflgf/mahjong-cli/common/config"
	"github.com/rflgf/mahjong-cli/common/jwts"
	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--logLevel", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestEvaluateCommand(t *testing.T) {
	out, err := run(t, "evaluate",
		"--hand", "WW WW WW M1 M2 M3 P4 P5 P6 S7 S8 S9 M5 M5",
		"--seat", "west", "--prevalent", "east", "--riichi")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	for _, want := range []string{"Seat wind: West Wind", "Riichi", "concealed: true", "[WW WW WW]", "(M5 M5)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEvaluateCommandWithKan(t *testing.T) {
	out, err := run(t, "evaluate", "--hand", "WD WD WD M1 M2 M3 P4 P5 P6 M5 M5", "--kan", "RD")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !strings.Contains(out, "Dragons: White Dragon") || strings.Contains(out, "Dragons: Red Dragon") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestEvaluateCommandInvalidHand(t *testing.T) {
	_, err := run(t, "evaluate", "--hand", "M1 M2 M3")
	if !errors.Is(err, mahjong.ErrInvalidHandSize) {
		t.Fatalf("expected ErrInvalidHandSize, got %v", err)
	}
	if _, err := run(t, "evaluate", "--hand", "M1 XX"); !errors.Is(err, mahjong.ErrInvalidTile) {
		t.Fatalf("expected ErrInvalidTile, got %v", err)
	}
}

func TestDecomposeCommand(t *testing.T) {
	out, err := run(t, "decompose", "--tiles", "M1 M1 M1 M2 M3 P1 P2 P3 S1 S2 S3 S7 S8 S9")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if strings.Count(out, "(M1 M1)") != 2 {
		t.Fatalf("expected two configurations with M1 pair:\n%s", out)
	}
}

func TestSuccessorCommand(t *testing.T) {
	out, err := run(t, "successor", "M9", "NW", "WD")
	if err != nil {
		t.Fatalf("successor: %v", err)
	}
	for _, want := range []string{"M9 -> M1", "NW -> EW", "WD -> GD"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := run(t, "successor", "!!"); err == nil {
		t.Fatalf("expected error for !!")
	}
}

func TestRandomCommandSeeded(t *testing.T) {
	first, err := run(t, "random", "--seed", "2024")
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	second, _ := run(t, "random", "--seed", "2024")
	if first != second {
		t.Fatalf("same seed expected same output:\n%s\n%s", first, second)
	}
	if !strings.Contains(first, "seed: 2024") {
		t.Fatalf("output missing seed:\n%s", first)
	}
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if got := strings.Count(out, "\n"); got != len(mahjong.Catalog()) {
		t.Fatalf("expected %d lines, got %d", len(mahjong.Catalog()), got)
	}
	if !strings.Contains(out, "Doube Riichi") {
		t.Fatalf("catalog missing Doube Riichi")
	}
}

func TestTokenCommand(t *testing.T) {
	if _, err := run(t, "token", "--client", "cli"); err == nil {
		t.Fatalf("expected error without auth.jwtSecret")
	}

	t.Setenv("MAHJONG_AUTH_JWTSECRET", "secret")
	out, err := run(t, "token", "--client", "cli")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	id, err := jwts.ParseToken(strings.TrimSpace(out), "secret")
	if err != nil || id != "cli" {
		t.Fatalf("expected token for cli, got %q (%v)", id, err)
	}
}

func TestLogLevelFlagWinsOverReload(t *testing.T) {
	tests := []struct {
		name string
		flag string
		file string
		want string
	}{
		{"flag set", "error", "debug", "error"},
		{"flag unset", "", "debug", "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &options{logLevel: tt.flag}
			next := &config.AppConfiguration{}
			next.LogConf.Level = tt.file
			if got := opts.effectiveLevel(next); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
			if next.LogConf.Level != tt.want {
				t.Fatalf("config level expected %s, got %s", tt.want, next.LogConf.Level)
			}
		})
	}
}
