package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HttpPort != 8080 || cfg.LogConf.Level != "info" || !cfg.Cache.Enabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	w, err := cfg.PrevalentWind()
	if err != nil || w != mahjong.WindEast {
		t.Fatalf("default prevalent wind expected East, got %s (%v)", w, err)
	}
	if Get() != cfg {
		t.Fatalf("Get expected the loaded configuration")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
appName: scorer
httpPort: 9090
log:
  level: debug
table:
  prevalentWind: south
rules:
  sevenPairs: adjacent
cache:
  enabled: false
batch:
  workers: 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppName != "scorer" || cfg.HttpPort != 9090 || cfg.LogConf.Level != "debug" || cfg.Batch.Workers != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Cache.Enabled {
		t.Fatalf("cache expected disabled")
	}
	rules, err := cfg.MahjongRules()
	if err != nil || rules.SevenPairs != mahjong.SevenPairsAdjacent {
		t.Fatalf("rules expected adjacent, got %v (%v)", rules.SevenPairs, err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MAHJONG_HTTPPORT", "7070")
	t.Setenv("MAHJONG_TABLE_PREVALENTWIND", "west")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HttpPort != 7070 {
		t.Fatalf("httpPort expected 7070, got %d", cfg.HttpPort)
	}
	if w, _ := cfg.PrevalentWind(); w != mahjong.WindWest {
		t.Fatalf("prevalent wind expected West, got %s", w)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := []string{
		"table:\n  prevalentWind: up\n",
		"rules:\n  sevenPairs: sometimes\n",
		"httpPort: 70000\n",
		"cache:\n  enabled: true\n  maxCost: 0\n",
	}
	for _, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("expected error for config %q", body)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRedisAndMonitor(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis expected disabled by default")
	}
	if cfg.Monitor.IntervalSeconds != 10 {
		t.Fatalf("monitor interval expected 10, got %d", cfg.Monitor.IntervalSeconds)
	}

	t.Setenv("MAHJONG_REDIS_ADDR", "127.0.0.1:6379")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.KeyPrefix != "mahjong:decompose:" {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}

	path := writeConfig(t, `
redis:
  ttlSeconds: -1
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for negative redis ttl")
	}
}
