package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testEntities = `
entities:
  - variant: grunt
    kind: enemy
    hp: 10
    speed: 60
    value: 5
    radius: 8
    movement: linear
    lifetime: 30
    pool_size: 4
  - variant: dart
    kind: bullet
    hp: 1
    speed: 200
    movement: fixed
    pool_size: 8
  - variant: gem
    kind: item
    scale: 0.5
    movement: none
    lifetime: 10
`

const testTables = `
tables:
  - name: basic
    kind: enemy
    entries:
      - {variant: grunt, weight: 10}
  - name: hazards
    kind: bullet
    entries:
      - {variant: dart, weight: 1, min_wave: 2}
`

const testWaves = `
waves:
  - {level: 3, spawn_interval: 0.5, tables: [basic, hazards]}
  - {level: 1, spawn_interval: 2, tables: [basic]}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func loadAll(t *testing.T) (*EntityTable, *SpawnTableSet, *WaveTable) {
	t.Helper()
	dir := t.TempDir()
	ents, err := LoadEntityTable(writeFile(t, dir, "entities.yaml", testEntities))
	if err != nil {
		t.Fatalf("LoadEntityTable: %v", err)
	}
	tables, err := LoadSpawnTables(writeFile(t, dir, "tables.yaml", testTables), ents)
	if err != nil {
		t.Fatalf("LoadSpawnTables: %v", err)
	}
	waves, err := LoadWaveTable(writeFile(t, dir, "waves.yaml", testWaves), tables)
	if err != nil {
		t.Fatalf("LoadWaveTable: %v", err)
	}
	return ents, tables, waves
}

func TestLoadTables(t *testing.T) {
	ents, tables, waves := loadAll(t)

	if ents.Count() != 3 {
		t.Fatalf("entity count = %d, want 3", ents.Count())
	}
	grunt := ents.Get("grunt")
	if grunt == nil || grunt.Kind != KindEnemy || grunt.Movement != MoveLinear {
		t.Fatalf("grunt = %+v", grunt)
	}
	if grunt.Scale != 1 {
		t.Errorf("default scale = %v, want 1", grunt.Scale)
	}
	if gem := ents.Get("gem"); gem.Scale != 0.5 {
		t.Errorf("gem scale = %v, want 0.5", gem.Scale)
	}
	if got := ents.All(); got[0].Variant != "dart" || got[2].Variant != "grunt" {
		t.Errorf("All() not sorted: %s, %s", got[0].Variant, got[2].Variant)
	}

	if names := tables.Names(); len(names) != 2 || names[0] != "basic" {
		t.Errorf("table names = %v", names)
	}
	if waves.Count() != 2 || waves.MaxDefined() != 3 {
		t.Errorf("waves count=%d max=%d", waves.Count(), waves.MaxDefined())
	}
}

func TestWaveTableFor(t *testing.T) {
	_, _, waves := loadAll(t)
	tests := []struct {
		level    int
		want     int
		interval float64
	}{
		{0, 1, 2},
		{1, 1, 2},
		{2, 1, 2},
		{3, 3, 0.5},
		{9, 3, 0.5},
	}
	for _, tt := range tests {
		got := waves.For(tt.level)
		if got.Level != tt.want || got.SpawnInterval != tt.interval {
			t.Errorf("For(%d) = level %d interval %v, want %d %v", tt.level, got.Level, got.SpawnInterval, tt.want, tt.interval)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	ents, _, _ := loadAll(t)
	tests := []struct {
		name string
		run  func() error
		want string
	}{
		{"unknown movement", func() error {
			_, err := NewEntityTable([]EntityTemplate{{Variant: "x", Kind: KindEnemy, Movement: "teleport"}})
			return err
		}, "unknown movement"},
		{"duplicate variant", func() error {
			_, err := NewEntityTable([]EntityTemplate{
				{Variant: "x", Kind: KindItem, Movement: MoveNone},
				{Variant: "x", Kind: KindItem, Movement: MoveNone},
			})
			return err
		}, "duplicate variant"},
		{"negative weight", func() error {
			_, err := NewSpawnTableSet([]SpawnTableDef{{Name: "t", Kind: KindEnemy, Entries: []SpawnWeight{{Variant: "grunt", Weight: -1}}}}, ents)
			return err
		}, "negative weight"},
		{"kind mismatch", func() error {
			_, err := NewSpawnTableSet([]SpawnTableDef{{Name: "t", Kind: KindItem, Entries: []SpawnWeight{{Variant: "grunt", Weight: 1}}}}, ents)
			return err
		}, "table is item"},
		{"unknown variant", func() error {
			_, err := NewSpawnTableSet([]SpawnTableDef{{Name: "t", Kind: KindEnemy, Entries: []SpawnWeight{{Variant: "ghost", Weight: 1}}}}, ents)
			return err
		}, "unknown variant"},
		{"missing level 1", func() error {
			_, err := NewWaveTable([]WaveConfig{{Level: 2, SpawnInterval: 1}}, nil)
			return err
		}, "level 1"},
		{"zero interval", func() error {
			_, err := NewWaveTable([]WaveConfig{{Level: 1}}, nil)
			return err
		}, "spawn_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestZeroWeightTableIsLegal(t *testing.T) {
	ents, _, _ := loadAll(t)
	set, err := NewSpawnTableSet([]SpawnTableDef{{Name: "empty", Kind: KindEnemy, Entries: []SpawnWeight{{Variant: "grunt", Weight: 0}}}}, ents)
	if err != nil {
		t.Fatalf("zero-weight table rejected: %v", err)
	}
	if set.Get("empty") == nil {
		t.Fatal("table not indexed")
	}
}
