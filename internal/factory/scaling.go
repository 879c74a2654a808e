package factory

import "math"

// Scaling turns a wave level into stat multipliers. Level 1 is always the
// template's base stats.
type Scaling struct {
	HealthPerLevel float64
	SpeedPerLevel  float64
	SpeedCap       float64 // speed multiplier ceiling, >= 1
	ScalePerLevel  float64
}

func steps(level int) float64 {
	if level < 1 {
		return 0
	}
	return float64(level - 1)
}

// HealthMultiplier grows linearly with level.
func (s Scaling) HealthMultiplier(level int) float64 {
	return atLeastOne(1 + steps(level)*s.HealthPerLevel)
}

// SpeedMultiplier grows linearly with level up to SpeedCap.
func (s Scaling) SpeedMultiplier(level int) float64 {
	return s.clampSpeed(1 + steps(level)*s.SpeedPerLevel)
}

// ScaleMultiplier is applied to the template's cached base scale.
func (s Scaling) ScaleMultiplier(level int) float64 {
	return atLeastOne(1 + steps(level)*s.ScalePerLevel)
}

func (s Scaling) clampSpeed(m float64) float64 {
	m = atLeastOne(m)
	if s.SpeedCap >= 1 {
		m = math.Min(m, s.SpeedCap)
	}
	return m
}

func atLeastOne(m float64) float64 {
	if math.IsNaN(m) || m < 1 {
		return 1
	}
	return m
}

// ScaledHealth applies the health multiplier to a base value. A positive base
// never scales below 1.
func ScaledHealth(base int, mul float64) int {
	if base <= 0 {
		return 0
	}
	hp := int(math.Round(float64(base) * mul))
	if hp < 1 {
		hp = 1
	}
	return hp
}
