// tablereport loads the YAML game tables, validates them, and writes the exact
// spawn odds per wave level and entity kind.
//
// Produces:
//   - data/yaml/odds_report.yaml   per level: active tables, interval, odds
//
// Usage:
//
//	go run ./cmd/tablereport [-config config/horde.toml] [-out path]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/emberline/horde/internal/config"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/spawn"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// YAML structures
// ---------------------------------------------------------------------------

type reportFile struct {
	MaxLevel int           `yaml:"max_level"`
	Levels   []levelReport `yaml:"levels"`
}

type levelReport struct {
	Level         int                     `yaml:"level"`
	SpawnInterval float64                 `yaml:"spawn_interval"`
	Tables        []string                `yaml:"tables"`
	Odds          map[string][]variantOdd `yaml:"odds"` // by kind
	Warnings      []string                `yaml:"warnings,omitempty"`
}

type variantOdd struct {
	Variant string  `yaml:"variant"`
	Chance  float64 `yaml:"chance"`
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	cfgPath := flag.String("config", "config/horde.toml", "simulation config (for data paths and max level)")
	out := flag.String("out", "data/yaml/odds_report.yaml", "output path")
	flag.Parse()

	if err := run(*cfgPath, *out); err != nil {
		fmt.Fprintf(os.Stderr, "tablereport: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, out string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	entities, err := data.LoadEntityTable(cfg.Data.Entities)
	if err != nil {
		return err
	}
	tables, err := data.LoadSpawnTables(cfg.Data.SpawnTables, entities)
	if err != nil {
		return err
	}
	waves, err := data.LoadWaveTable(cfg.Data.Waves, tables)
	if err != nil {
		return err
	}

	report := buildReport(tables, waves, cfg.Wave.MaxLevel)

	raw, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	header := []byte("# Generated by cmd/tablereport. Do not edit.\n")
	if err := os.WriteFile(out, append(header, raw...), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	warnings := 0
	for _, l := range report.Levels {
		warnings += len(l.Warnings)
	}
	fmt.Printf("Wrote %d levels to %s (%d warnings)\n", len(report.Levels), out, warnings)
	return nil
}

// buildReport evaluates every level from 1 to maxLevel with the same table
// activation the simulation applies on a wave change.
func buildReport(tables *data.SpawnTableSet, waves *data.WaveTable, maxLevel int) reportFile {
	managers := spawn.NewManagers(tables)
	kinds := []data.EntityKind{data.KindEnemy, data.KindBullet, data.KindItem}

	rep := reportFile{MaxLevel: maxLevel}
	for level := 1; level <= maxLevel; level++ {
		wc := waves.For(level)
		lr := levelReport{
			Level:         level,
			SpawnInterval: wc.SpawnInterval,
			Tables:        wc.Tables,
			Odds:          make(map[string][]variantOdd, len(kinds)),
		}
		for _, kind := range kinds {
			m := managers[kind]
			var own []string
			for _, n := range wc.Tables {
				if m.Has(n) {
					own = append(own, n)
				}
			}
			if len(own) == 0 {
				m.SetActive(nil)
			} else {
				m.SetActive(own)
			}

			odds := m.Odds(level)
			if len(odds) == 0 {
				lr.Warnings = append(lr.Warnings, fmt.Sprintf("%s: nothing eligible", kind))
				continue
			}
			list := make([]variantOdd, 0, len(odds))
			for v, p := range odds {
				list = append(list, variantOdd{Variant: v, Chance: p})
			}
			sort.Slice(list, func(i, j int) bool {
				if list[i].Chance != list[j].Chance {
					return list[i].Chance > list[j].Chance
				}
				return list[i].Variant < list[j].Variant
			})
			lr.Odds[string(kind)] = list
		}
		rep.Levels = append(rep.Levels, lr)
	}
	return rep
}
