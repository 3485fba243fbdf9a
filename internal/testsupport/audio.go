package testsupport

import (
	"math"

	"foley/internal/asset"
)

// Sine builds a mono sine fixture.
func Sine(freq, amp, seconds float64, rate int) *asset.Buffer {
	n := int(seconds * float64(rate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return &asset.Buffer{Samples: samples, SampleRate: rate, Channels: 1}
}

// Silence builds a silent mono fixture.
func Silence(seconds float64, rate int) *asset.Buffer {
	return &asset.Buffer{
		Samples:    make([]float64, int(seconds*float64(rate))),
		SampleRate: rate,
		Channels:   1,
	}
}

// SeededTone derives a distinct but deterministic tone from a seed, so fake
// generators can hand the curator distinguishable candidates.
func SeededTone(seed int64, seconds float64, rate int) *asset.Buffer {
	freq := 200 + float64(seed%32)*55
	amp := 0.2 + float64(seed%5)*0.1
	return Sine(freq, amp, seconds, rate)
}
