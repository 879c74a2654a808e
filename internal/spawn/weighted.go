package spawn

import (
	"errors"

	"github.com/emberline/horde/internal/data"
)

// ErrNoSelection means no entry was eligible with positive weight. Callers
// skip the spawn attempt.
var ErrNoSelection = errors.New("spawn: no eligible entry")

// Entry is one weighted variant with an optional wave window.
type Entry struct {
	Variant string
	Weight  float64
	MinWave int // 0 = no lower bound
	MaxWave int // 0 = no upper bound
}

// Eligible reports whether the entry may be drawn at level. Zero and
// negative weights are never eligible.
func (e Entry) Eligible(level int) bool {
	if e.Weight <= 0 {
		return false
	}
	if e.MinWave > 0 && level < e.MinWave {
		return false
	}
	if e.MaxWave > 0 && level > e.MaxWave {
		return false
	}
	return true
}

// Table is a named set of weighted entries for one entity kind.
type Table struct {
	Name    string
	Kind    data.EntityKind
	Entries []Entry
}

// NewTable converts a loaded table definition.
func NewTable(def *data.SpawnTableDef) *Table {
	t := &Table{Name: def.Name, Kind: def.Kind, Entries: make([]Entry, 0, len(def.Entries))}
	for _, w := range def.Entries {
		t.Entries = append(t.Entries, Entry{
			Variant: w.Variant,
			Weight:  w.Weight,
			MinWave: w.MinWave,
			MaxWave: w.MaxWave,
		})
	}
	return t
}

// TotalWeight sums the weights of entries eligible at level.
func (t *Table) TotalWeight(level int) float64 {
	total := 0.0
	for _, e := range t.Entries {
		if e.Eligible(level) {
			total += e.Weight
		}
	}
	return total
}

// HasEligible reports whether Pick can succeed at level.
func (t *Table) HasEligible(level int) bool {
	return t.TotalWeight(level) > 0
}

// Pick draws r in [0, total) and returns the first eligible entry whose
// cumulative weight exceeds r. If float accumulation leaves r at or past the
// final sum, the last eligible entry is returned, so Pick never fails while
// the total is positive.
func (t *Table) Pick(rng RandomSource, level int) (Entry, error) {
	total := t.TotalWeight(level)
	if total <= 0 {
		return Entry{}, ErrNoSelection
	}
	r := rng.Float64() * total
	cumulative := 0.0
	var last Entry
	for _, e := range t.Entries {
		if !e.Eligible(level) {
			continue
		}
		cumulative += e.Weight
		if r < cumulative {
			return e, nil
		}
		last = e
	}
	return last, nil
}

// Odds returns the exact probability of each variant being drawn at level.
// Variants listed more than once are summed. Empty when nothing is eligible.
func (t *Table) Odds(level int) map[string]float64 {
	out := make(map[string]float64)
	total := t.TotalWeight(level)
	if total <= 0 {
		return out
	}
	for _, e := range t.Entries {
		if e.Eligible(level) {
			out[e.Variant] += e.Weight / total
		}
	}
	return out
}
