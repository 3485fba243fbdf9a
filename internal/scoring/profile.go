package scoring

import (
	"fmt"
	"math"
)

// weightSumTolerance allows for decimal rounding in hand-written config.
const weightSumTolerance = 1e-3

// Dimension describes the target range and weight for one feature axis.
// Scale controls how quickly closeness decays outside [Min, Max]; when zero
// it defaults to the range width, or 1 for a point target.
type Dimension struct {
	Weight float64 `toml:"weight"`
	Min    float64 `toml:"min"`
	Max    float64 `toml:"max"`
	Scale  float64 `toml:"scale,omitempty"`
}

// Profile is the static per-mood scoring configuration. Weights must sum to
// 1 so scores stay comparable across moods.
type Profile struct {
	Energy       Dimension `toml:"energy"`
	Tempo        Dimension `toml:"tempo"`
	Brightness   Dimension `toml:"brightness"`
	DynamicRange Dimension `toml:"dynamic_range"`
	Harmonicity  Dimension `toml:"harmonicity"`
}

// Validate checks profile invariants: non-negative weights summing to 1,
// and a well-formed target range on every dimension.
func (p Profile) Validate() error {
	var sum float64
	for name, dim := range p.dimensions() {
		if dim.Weight < 0 {
			return fmt.Errorf("profile dimension %s: negative weight %v", name, dim.Weight)
		}
		if dim.Max < dim.Min {
			return fmt.Errorf("profile dimension %s: max %v below min %v", name, dim.Max, dim.Min)
		}
		if dim.Scale < 0 {
			return fmt.Errorf("profile dimension %s: negative scale %v", name, dim.Scale)
		}
		sum += dim.Weight
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("profile weights sum to %v, want 1", sum)
	}
	return nil
}

func (p Profile) dimensions() map[string]Dimension {
	return map[string]Dimension{
		"energy":        p.Energy,
		"tempo":         p.Tempo,
		"brightness":    p.Brightness,
		"dynamic_range": p.DynamicRange,
		"harmonicity":   p.Harmonicity,
	}
}
