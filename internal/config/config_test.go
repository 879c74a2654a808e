package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadOverridesDefaults(t *testing.T) {
	body := `
[simulation]
tick_rate = "100ms"
seed = 42

[wave]
interval = "20s"
max_level = 7

[map]
width = 800
height = 600

[[spawner]]
name = "only"
kind = "enemy"
position = "corner"
interval_scale = 2

[logging]
level = "debug"
`
	path := filepath.Join(t.TempDir(), "horde.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.TickRate.Duration != 100*time.Millisecond {
		t.Errorf("tick_rate = %s", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.Seed != 42 {
		t.Errorf("seed = %d", cfg.Simulation.Seed)
	}
	if cfg.Wave.Interval.Duration != 20*time.Second || cfg.Wave.MaxLevel != 7 {
		t.Errorf("wave = %+v", cfg.Wave)
	}
	if cfg.Map.Width != 800 || cfg.Map.SpawnMargin != 16 {
		t.Errorf("map = %+v", cfg.Map)
	}
	if len(cfg.Spawners) != 1 || cfg.Spawners[0].Name != "only" {
		t.Errorf("spawners = %+v", cfg.Spawners)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestParseKeepsDefaultSpawners(t *testing.T) {
	cfg, err := Parse([]byte(`[pool]
auto_expand = false
`), "inline")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Spawners) != 3 {
		t.Fatalf("default spawners = %d, want 3", len(cfg.Spawners))
	}
	if cfg.Pool.AutoExpand {
		t.Error("auto_expand not overridden")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad duration", "[wave]\ninterval = \"soon\"\n", "duration"},
		{"zero level", "[wave]\nmax_level = 0\n", "max_level"},
		{"speed cap", "[scaling]\nspeed_cap = 0.5\n", "speed_cap"},
		{"margin", "[map]\nwidth = 20\nspawn_margin = 16\n", "spawn_margin"},
		{"spawner kind", "[[spawner]]\nname = \"x\"\nkind = \"boss\"\nposition = \"boundary\"\ninterval_scale = 1\n", "unknown kind"},
		{"spawner position", "[[spawner]]\nname = \"x\"\nkind = \"enemy\"\nposition = \"sky\"\ninterval_scale = 1\n", "unknown position"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body), tt.name)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
