package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// EntityKind groups templates by what spawns and consumes them.
type EntityKind string

const (
	KindEnemy  EntityKind = "enemy"
	KindBullet EntityKind = "bullet"
	KindItem   EntityKind = "item"
)

func (k EntityKind) Valid() bool {
	switch k {
	case KindEnemy, KindBullet, KindItem:
		return true
	}
	return false
}

// MovementType selects how an entity moves each tick.
type MovementType string

const (
	MoveLinear     MovementType = "linear"     // chase, direction recomputed every tick
	MoveInertia    MovementType = "inertia"    // chase with capped turn rate
	MovePredictive MovementType = "predictive" // chase the target's extrapolated position
	MoveArc        MovementType = "arc"        // orbit the target
	MoveFixed      MovementType = "fixed"      // straight line to an opposite-edge exit
	MoveNone       MovementType = "none"       // stationary (pickups)
)

func (m MovementType) Valid() bool {
	switch m {
	case MoveLinear, MoveInertia, MovePredictive, MoveArc, MoveFixed, MoveNone:
		return true
	}
	return false
}

// Chases reports whether the movement type is driven by a strategy object.
func (m MovementType) Chases() bool {
	switch m {
	case MoveLinear, MoveInertia, MovePredictive, MoveArc:
		return true
	}
	return false
}

// EntityTemplate holds static data for one entity variant loaded from YAML.
type EntityTemplate struct {
	Variant   string       `yaml:"variant"`
	Kind      EntityKind   `yaml:"kind"`
	HP        int          `yaml:"hp"`
	Speed     float64      `yaml:"speed"`    // world units per second
	Damage    int          `yaml:"damage"`   // contact damage dealt to the player
	Value     int          `yaml:"value"`    // score awarded on kill / pickup
	Radius    float64      `yaml:"radius"`   // collision + area-affected radius
	Scale     float64      `yaml:"scale"`    // unscaled visual size (0 = 1.0)
	Lifetime  float64      `yaml:"lifetime"` // seconds, 0 = no timeout
	Movement  MovementType `yaml:"movement"`
	PoolSize  int          `yaml:"pool_size"` // idle instances pre-warmed at startup
	BoundsPad float64      `yaml:"bounds_pad"`
}

type entityListFile struct {
	Entities []EntityTemplate `yaml:"entities"`
}

// EntityTable holds all entity templates indexed by variant name.
type EntityTable struct {
	templates map[string]*EntityTemplate
}

// LoadEntityTable loads entity templates from a YAML file.
func LoadEntityTable(path string) (*EntityTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entity_list: %w", err)
	}
	t, err := ParseEntityTable(raw)
	if err != nil {
		return nil, fmt.Errorf("parse entity_list %s: %w", path, err)
	}
	return t, nil
}

// ParseEntityTable decodes and validates entity templates from YAML bytes.
func ParseEntityTable(raw []byte) (*EntityTable, error) {
	var f entityListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return NewEntityTable(f.Entities)
}

// NewEntityTable indexes and validates already-decoded templates.
func NewEntityTable(list []EntityTemplate) (*EntityTable, error) {
	t := &EntityTable{templates: make(map[string]*EntityTemplate, len(list))}
	for i := range list {
		tmpl := list[i]
		if err := validateTemplate(&tmpl); err != nil {
			return nil, err
		}
		if _, dup := t.templates[tmpl.Variant]; dup {
			return nil, fmt.Errorf("duplicate variant %q", tmpl.Variant)
		}
		if tmpl.Scale == 0 {
			tmpl.Scale = 1
		}
		t.templates[tmpl.Variant] = &tmpl
	}
	return t, nil
}

func validateTemplate(t *EntityTemplate) error {
	if t.Variant == "" {
		return fmt.Errorf("entity variant cannot be empty")
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("variant %q: unknown kind %q", t.Variant, t.Kind)
	}
	if !t.Movement.Valid() {
		return fmt.Errorf("variant %q: unknown movement %q", t.Variant, t.Movement)
	}
	if t.HP < 0 || t.Speed < 0 || t.Lifetime < 0 || t.PoolSize < 0 || t.Scale < 0 {
		return fmt.Errorf("variant %q: negative stat", t.Variant)
	}
	return nil
}

// Get returns a template by variant, or nil if not found.
func (t *EntityTable) Get(variant string) *EntityTemplate {
	return t.templates[variant]
}

// Count returns the number of loaded templates.
func (t *EntityTable) Count() int {
	return len(t.templates)
}

// All returns every template sorted by variant name.
func (t *EntityTable) All() []*EntityTemplate {
	out := make([]*EntityTemplate, 0, len(t.templates))
	for _, tmpl := range t.templates {
		out = append(out, tmpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Variant < out[j].Variant })
	return out
}
