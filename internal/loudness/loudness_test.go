package loudness

import (
	"math"
	"testing"

	"foley/internal/asset"
)

func sine(freq, amp float64, seconds float64, rate int) *asset.Buffer {
	n := int(seconds * float64(rate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return &asset.Buffer{Samples: samples, SampleRate: rate, Channels: 1}
}

// amp1kAtLUFS returns the sine amplitude that measures at the given LUFS
// for a ~1 kHz tone, where K-weighting is approximately unity gain.
func amp1kAtLUFS(lufs float64) float64 {
	return math.Sqrt(2 * math.Pow(10, (lufs+0.691)/10))
}

func TestMeasureSineNearReferenceLevel(t *testing.T) {
	buf := sine(997, amp1kAtLUFS(-20), 3, 48000)
	got, err := Measure(buf)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if math.Abs(got-(-20)) > 0.5 {
		t.Fatalf("Measure = %v LUFS, want ~-20", got)
	}
}

func TestNormalizeHitsTarget(t *testing.T) {
	buf := sine(997, amp1kAtLUFS(-20), 3, 48000)

	normalized, measured, err := Normalize(buf, -14)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if math.Abs(measured-(-20)) > 0.5 {
		t.Fatalf("reported input loudness %v, want ~-20", measured)
	}

	got, err := Measure(normalized)
	if err != nil {
		t.Fatalf("Measure normalized: %v", err)
	}
	if math.Abs(got-(-14)) > 0.2 {
		t.Fatalf("normalized loudness = %v LUFS, want -14 +/- 0.2", got)
	}
	for i, s := range normalized.Samples {
		if math.Abs(s) > 1 {
			t.Fatalf("sample %d exceeds full scale: %v", i, s)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	buf := sine(997, 0.2, 1, 48000)
	before := buf.Samples[100]
	if _, _, err := Normalize(buf, -10); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if buf.Samples[100] != before {
		t.Fatal("Normalize mutated its input buffer")
	}
}

func TestNormalizeHardLimitsPeaks(t *testing.T) {
	buf := sine(997, 0.9, 1, 48000)
	normalized, _, err := Normalize(buf, -1)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	peak := 0.0
	for _, s := range normalized.Samples {
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}
	if peak > 1 {
		t.Fatalf("peak %v exceeds full scale", peak)
	}
	if peak < 0.999 {
		t.Fatalf("expected limited peaks at full scale, got %v", peak)
	}
}

func TestMeasureSilenceUnmeasurable(t *testing.T) {
	silent := &asset.Buffer{Samples: make([]float64, 48000), SampleRate: 48000, Channels: 1}
	if _, err := Measure(silent); err == nil {
		t.Fatal("expected ErrUnmeasurable for silence")
	}
}
