package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpawnWeight is one row of a spawn weight table. MinWave/MaxWave bound the
// wave levels where the row may be drawn; 0 means unbounded.
type SpawnWeight struct {
	Variant string  `yaml:"variant"`
	Weight  float64 `yaml:"weight"`
	MinWave int     `yaml:"min_wave"`
	MaxWave int     `yaml:"max_wave"`
}

// SpawnTableDef is a named content pack of weighted variants for one kind.
type SpawnTableDef struct {
	Name    string        `yaml:"name"`
	Kind    EntityKind    `yaml:"kind"`
	Entries []SpawnWeight `yaml:"entries"`
}

type spawnTableFile struct {
	Tables []SpawnTableDef `yaml:"tables"`
}

// SpawnTableSet holds spawn weight tables indexed by name, in file order.
type SpawnTableSet struct {
	tables map[string]*SpawnTableDef
	order  []string
}

// LoadSpawnTables loads spawn weight tables from a YAML file and checks every
// row against the entity table.
func LoadSpawnTables(path string, entities *EntityTable) (*SpawnTableSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn_tables: %w", err)
	}
	var f spawnTableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawn_tables %s: %w", path, err)
	}
	s, err := NewSpawnTableSet(f.Tables, entities)
	if err != nil {
		return nil, fmt.Errorf("invalid spawn_tables %s: %w", path, err)
	}
	return s, nil
}

// NewSpawnTableSet indexes tables. Weights are not required to sum to
// anything; a table whose weights are all zero is legal and simply never
// yields a selection.
func NewSpawnTableSet(defs []SpawnTableDef, entities *EntityTable) (*SpawnTableSet, error) {
	s := &SpawnTableSet{tables: make(map[string]*SpawnTableDef, len(defs))}
	for i := range defs {
		d := defs[i]
		if d.Name == "" {
			return nil, fmt.Errorf("table name cannot be empty")
		}
		if _, dup := s.tables[d.Name]; dup {
			return nil, fmt.Errorf("duplicate table %q", d.Name)
		}
		if !d.Kind.Valid() {
			return nil, fmt.Errorf("table %q: unknown kind %q", d.Name, d.Kind)
		}
		for _, e := range d.Entries {
			if e.Weight < 0 {
				return nil, fmt.Errorf("table %q: variant %q has negative weight %v", d.Name, e.Variant, e.Weight)
			}
			if e.MaxWave != 0 && e.MaxWave < e.MinWave {
				return nil, fmt.Errorf("table %q: variant %q max_wave %d < min_wave %d", d.Name, e.Variant, e.MaxWave, e.MinWave)
			}
			if entities == nil {
				continue
			}
			tmpl := entities.Get(e.Variant)
			if tmpl == nil {
				return nil, fmt.Errorf("table %q: unknown variant %q", d.Name, e.Variant)
			}
			if tmpl.Kind != d.Kind {
				return nil, fmt.Errorf("table %q: variant %q is %s, table is %s", d.Name, e.Variant, tmpl.Kind, d.Kind)
			}
		}
		s.tables[d.Name] = &d
		s.order = append(s.order, d.Name)
	}
	return s, nil
}

// Get returns a table by name, or nil if not found.
func (s *SpawnTableSet) Get(name string) *SpawnTableDef {
	return s.tables[name]
}

// Names returns table names in file order.
func (s *SpawnTableSet) Names() []string {
	return s.order
}

// Count returns the number of loaded tables.
func (s *SpawnTableSet) Count() int {
	return len(s.tables)
}
