package spawn

import (
	"fmt"

	"github.com/emberline/horde/internal/data"
)

// Manager holds every weight table of one entity kind and the subset the
// current wave allows. Selection is two-level: a table uniformly among the
// active tables that can yield something, then a weighted draw inside it.
// Tables are content packs, so a pack with many entries does not crowd out a
// pack with few.
type Manager struct {
	kind   data.EntityKind
	tables map[string]*Table
	order  []string
	active []*Table
	buf    []*Table
}

func NewManager(kind data.EntityKind) *Manager {
	return &Manager{kind: kind, tables: make(map[string]*Table)}
}

// NewManagers builds one manager per kind from a loaded table set, with every
// table of the kind active.
func NewManagers(set *data.SpawnTableSet) map[data.EntityKind]*Manager {
	out := map[data.EntityKind]*Manager{
		data.KindEnemy:  NewManager(data.KindEnemy),
		data.KindBullet: NewManager(data.KindBullet),
		data.KindItem:   NewManager(data.KindItem),
	}
	for _, name := range set.Names() {
		def := set.Get(name)
		// Kinds were validated at load; AddTable cannot fail here.
		_ = out[def.Kind].AddTable(NewTable(def))
	}
	for _, m := range out {
		m.SetActive(nil)
	}
	return out
}

func (m *Manager) Kind() data.EntityKind { return m.kind }

// AddTable registers t. Tables of another kind are rejected.
func (m *Manager) AddTable(t *Table) error {
	if t.Kind != m.kind {
		return fmt.Errorf("table %q is %s, manager is %s", t.Name, t.Kind, m.kind)
	}
	if _, dup := m.tables[t.Name]; dup {
		return fmt.Errorf("duplicate table %q", t.Name)
	}
	m.tables[t.Name] = t
	m.order = append(m.order, t.Name)
	return nil
}

// SetActive restricts selection to the named tables. Names belonging to
// other kinds or unknown names are ignored, so a wave can list tables of all
// kinds at once. A nil slice activates every table.
func (m *Manager) SetActive(names []string) {
	m.active = m.active[:0]
	if names == nil {
		for _, n := range m.order {
			m.active = append(m.active, m.tables[n])
		}
		return
	}
	for _, n := range names {
		if t, ok := m.tables[n]; ok {
			m.active = append(m.active, t)
		}
	}
}

// Active returns the names of the active tables.
func (m *Manager) Active() []string {
	out := make([]string, len(m.active))
	for i, t := range m.active {
		out[i] = t.Name
	}
	return out
}

// Pick selects an entry for level or returns ErrNoSelection.
func (m *Manager) Pick(rng RandomSource, level int) (Entry, error) {
	m.buf = m.buf[:0]
	for _, t := range m.active {
		if t.HasEligible(level) {
			m.buf = append(m.buf, t)
		}
	}
	if len(m.buf) == 0 {
		return Entry{}, ErrNoSelection
	}
	return m.buf[rng.IntN(len(m.buf))].Pick(rng, level)
}

// Has reports whether the manager owns a table called name.
func (m *Manager) Has(name string) bool {
	_, ok := m.tables[name]
	return ok
}

// Odds returns the exact per-variant probability of Pick at level.
func (m *Manager) Odds(level int) map[string]float64 {
	out := make(map[string]float64)
	var eligible []*Table
	for _, t := range m.active {
		if t.HasEligible(level) {
			eligible = append(eligible, t)
		}
	}
	for _, t := range eligible {
		for v, p := range t.Odds(level) {
			out[v] += p / float64(len(eligible))
		}
	}
	return out
}
