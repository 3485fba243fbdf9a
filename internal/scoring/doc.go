// Package scoring ranks candidate audio against a mood profile.
//
// A profile assigns each feature dimension a target range and a weight; the
// score is the weighted sum of per-dimension closeness. Closeness is 1
// inside the target range and decays monotonically with distance outside
// it, so moving a feature strictly closer to its target never lowers the
// score. Profile numbers are configuration data; this package never invents
// per-mood targets.
package scoring
