package scoring

import (
	"foley/internal/analysis"
)

// Score converts features into a scalar in [0, 1] given a profile. It is
// deterministic and side-effect free.
func Score(features analysis.Features, profile Profile) float64 {
	return profile.Energy.closeness(features.RMS)*profile.Energy.Weight +
		profile.Tempo.closeness(features.TempoBPM)*profile.Tempo.Weight +
		profile.Brightness.closeness(features.SpectralCentroid)*profile.Brightness.Weight +
		profile.DynamicRange.closeness(features.DynamicRangeDB)*profile.DynamicRange.Weight +
		profile.Harmonicity.closeness(features.HarmonicRatio)*profile.Harmonicity.Weight
}

// closeness maps a value to [0, 1]: 1 inside the target range, decaying
// hyperbolically with distance outside it. Strictly decreasing in distance,
// which gives Score its monotonicity guarantee.
func (d Dimension) closeness(value float64) float64 {
	var dist float64
	switch {
	case value < d.Min:
		dist = d.Min - value
	case value > d.Max:
		dist = value - d.Max
	default:
		return 1
	}
	scale := d.Scale
	if scale == 0 {
		scale = d.Max - d.Min
	}
	if scale == 0 {
		scale = 1
	}
	return scale / (scale + dist)
}
