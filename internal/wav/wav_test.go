package wav

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"foley/internal/asset"
)

func sine(freq float64, seconds float64, rate int) *asset.Buffer {
	n := int(seconds * float64(rate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return &asset.Buffer{Samples: samples, SampleRate: rate, Channels: 1}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := sine(440, 0.1, 8000)

	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.SampleRate != src.SampleRate || got.Channels != src.Channels {
		t.Fatalf("format mismatch: %d/%d", got.SampleRate, got.Channels)
	}
	if len(got.Samples) != len(src.Samples) {
		t.Fatalf("sample count mismatch: %d vs %d", len(got.Samples), len(src.Samples))
	}
	for i := range got.Samples {
		if math.Abs(got.Samples[i]-src.Samples[i]) > 1.0/32000 {
			t.Fatalf("sample %d differs beyond quantization: %v vs %v", i, got.Samples[i], src.Samples[i])
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	src := sine(220, 0.05, 8000)
	var a, b bytes.Buffer
	if err := Encode(&a, src); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := Encode(&b, src); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("identical buffers produced different encodings")
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tone.wav")
	src := sine(330, 0.05, 8000)
	if err := WriteFile(path, src); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.SampleRate != 8000 {
		t.Fatalf("unexpected sample rate %d", got.SampleRate)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("definitely not audio"))); err == nil {
		t.Fatal("expected error for non-WAV input")
	}
}

func TestEncodeClampsOverrange(t *testing.T) {
	src := &asset.Buffer{Samples: []float64{1.5, -1.5}, SampleRate: 8000, Channels: 1}
	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Samples[0] > 1.0 || got.Samples[1] < -1.0 {
		t.Fatalf("overrange samples not clamped: %v", got.Samples)
	}
}
