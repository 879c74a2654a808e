package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// WaveConfig is the spawn configuration in force from Level upward until the
// next defined level.
type WaveConfig struct {
	Level         int      `yaml:"level"`
	SpawnInterval float64  `yaml:"spawn_interval"` // seconds between spawns
	Tables        []string `yaml:"tables"`         // eligible spawn tables, any kind
}

type waveListFile struct {
	Waves []WaveConfig `yaml:"waves"`
}

// WaveTable holds wave configurations sorted by level.
type WaveTable struct {
	waves []WaveConfig
}

// LoadWaveTable loads the wave table from a YAML file.
func LoadWaveTable(path string, tables *SpawnTableSet) (*WaveTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wave_list: %w", err)
	}
	var f waveListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse wave_list %s: %w", path, err)
	}
	w, err := NewWaveTable(f.Waves, tables)
	if err != nil {
		return nil, fmt.Errorf("invalid wave_list %s: %w", path, err)
	}
	return w, nil
}

// NewWaveTable sorts and validates wave configurations. Level 1 must be
// defined so every level resolves to some configuration.
func NewWaveTable(waves []WaveConfig, tables *SpawnTableSet) (*WaveTable, error) {
	sorted := append([]WaveConfig(nil), waves...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })
	for i, w := range sorted {
		if w.Level < 1 {
			return nil, fmt.Errorf("wave level must be >= 1, got %d", w.Level)
		}
		if i > 0 && sorted[i-1].Level == w.Level {
			return nil, fmt.Errorf("duplicate wave level %d", w.Level)
		}
		if w.SpawnInterval <= 0 {
			return nil, fmt.Errorf("wave %d: spawn_interval must be > 0", w.Level)
		}
		if tables == nil {
			continue
		}
		for _, name := range w.Tables {
			if tables.Get(name) == nil {
				return nil, fmt.Errorf("wave %d: unknown table %q", w.Level, name)
			}
		}
	}
	if len(sorted) == 0 || sorted[0].Level != 1 {
		return nil, fmt.Errorf("wave level 1 must be defined")
	}
	return &WaveTable{waves: sorted}, nil
}

// For returns the configuration for level: the entry with the greatest
// defined level not above it.
func (t *WaveTable) For(level int) WaveConfig {
	i := sort.Search(len(t.waves), func(i int) bool { return t.waves[i].Level > level })
	if i == 0 {
		return t.waves[0]
	}
	return t.waves[i-1]
}

// Count returns the number of defined wave entries.
func (t *WaveTable) Count() int {
	return len(t.waves)
}

// MaxDefined returns the highest explicitly configured level.
func (t *WaveTable) MaxDefined() int {
	return t.waves[len(t.waves)-1].Level
}
