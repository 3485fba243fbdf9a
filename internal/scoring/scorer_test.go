package scoring

import (
	"testing"

	"foley/internal/analysis"
)

func evenProfile() Profile {
	return Profile{
		Energy:       Dimension{Weight: 0.2, Min: 0.1, Max: 0.3},
		Tempo:        Dimension{Weight: 0.2, Min: 60, Max: 80},
		Brightness:   Dimension{Weight: 0.2, Min: 500, Max: 1500},
		DynamicRange: Dimension{Weight: 0.2, Min: 6, Max: 12},
		Harmonicity:  Dimension{Weight: 0.2, Min: 0.6, Max: 1.0},
	}
}

func TestScoreInsideAllRangesIsOne(t *testing.T) {
	features := analysis.Features{RMS: 0.2, TempoBPM: 70, SpectralCentroid: 1000, DynamicRangeDB: 9, HarmonicRatio: 0.8}
	if got := Score(features, evenProfile()); got != 1 {
		t.Fatalf("Score = %v, want 1 when every dimension hits its target", got)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	profile := evenProfile()
	worse := analysis.Features{RMS: 0.9, TempoBPM: 160, SpectralCentroid: 4000, DynamicRangeDB: 30, HarmonicRatio: 0.1}
	better := analysis.Features{RMS: 0.5, TempoBPM: 120, SpectralCentroid: 2500, DynamicRangeDB: 20, HarmonicRatio: 0.4}

	if Score(better, profile) <= Score(worse, profile) {
		t.Fatalf("closer candidate scored %v, farther scored %v", Score(better, profile), Score(worse, profile))
	}

	// Moving a single dimension closer must never decrease the score.
	nudged := worse
	nudged.TempoBPM = 100
	if Score(nudged, profile) < Score(worse, profile) {
		t.Fatal("single-dimension improvement decreased the score")
	}
}

func TestScoreRanksSilenceLast(t *testing.T) {
	profile := evenProfile()
	silent := analysis.Features{}
	quiet := analysis.Features{RMS: 0.05, TempoBPM: 50, SpectralCentroid: 400, DynamicRangeDB: 4, HarmonicRatio: 0.5}
	if Score(silent, profile) >= Score(quiet, profile) {
		t.Fatal("silent candidate should rank below any audible one")
	}
}

func TestScoreDeterministic(t *testing.T) {
	features := analysis.Features{RMS: 0.4, TempoBPM: 95, SpectralCentroid: 1800, DynamicRangeDB: 14, HarmonicRatio: 0.55}
	profile := evenProfile()
	if Score(features, profile) != Score(features, profile) {
		t.Fatal("score is not deterministic")
	}
}

func TestProfileValidate(t *testing.T) {
	if err := evenProfile().Validate(); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}

	bad := evenProfile()
	bad.Energy.Weight = 0.5
	if err := bad.Validate(); err == nil {
		t.Fatal("expected weight-sum violation")
	}

	inverted := evenProfile()
	inverted.Tempo.Min, inverted.Tempo.Max = 80, 60
	if err := inverted.Validate(); err == nil {
		t.Fatal("expected inverted-range violation")
	}

	negative := evenProfile()
	negative.Brightness.Weight = -0.2
	negative.Energy.Weight = 0.6
	if err := negative.Validate(); err == nil {
		t.Fatal("expected negative-weight violation")
	}
}

func TestClosenessPointTarget(t *testing.T) {
	dim := Dimension{Weight: 1, Min: 100, Max: 100}
	at := dim.closeness(100)
	near := dim.closeness(101)
	far := dim.closeness(150)
	if at != 1 {
		t.Fatalf("closeness at point target = %v, want 1", at)
	}
	if !(near > far) {
		t.Fatalf("closeness not decreasing: near=%v far=%v", near, far)
	}
}
