// Package loudness measures integrated program loudness (LUFS) and applies
// single-gain normalization with a hard peak limiter.
//
// Measurement follows the BS.1770 shape: K-weighting pre-filter, 400 ms
// blocks with 75% overlap, -70 LUFS absolute gate and -10 LU relative gate.
// A single uniform gain keeps the normalization transparent; peaks are
// clamped to full scale afterwards so output never clips.
package loudness

import (
	"errors"
	"math"

	"foley/internal/asset"
)

const (
	blockSeconds   = 0.400
	blockOverlap   = 0.75
	absoluteGate   = -70.0
	relativeGateLU = -10.0
	loudnessOffset = -0.691
)

// ErrUnmeasurable is returned when no block passes the absolute gate, e.g.
// for silence.
var ErrUnmeasurable = errors.New("loudness: signal below measurement gate")

// Measure returns the integrated loudness of the buffer in LUFS.
func Measure(buf *asset.Buffer) (float64, error) {
	if buf == nil || len(buf.Samples) == 0 || buf.SampleRate <= 0 {
		return 0, ErrUnmeasurable
	}

	// K-weight each channel independently, then sum channel energies.
	frames := len(buf.Samples) / buf.Channels
	weighted := make([][]float64, buf.Channels)
	for ch := 0; ch < buf.Channels; ch++ {
		channel := make([]float64, frames)
		for i := 0; i < frames; i++ {
			channel[i] = buf.Samples[i*buf.Channels+ch]
		}
		weighted[ch] = kWeight(channel, buf.SampleRate)
	}

	blockSize := int(blockSeconds * float64(buf.SampleRate))
	hop := int(float64(blockSize) * (1 - blockOverlap))
	if blockSize <= 0 || hop <= 0 || frames < blockSize {
		// Clip shorter than one block: measure it as a single block.
		blockSize = frames
		hop = frames
	}

	var blocks []float64
	for start := 0; start+blockSize <= frames; start += hop {
		var ms float64
		for ch := range weighted {
			for i := start; i < start+blockSize; i++ {
				ms += weighted[ch][i] * weighted[ch][i]
			}
		}
		ms /= float64(blockSize)
		blocks = append(blocks, ms)
	}
	if len(blocks) == 0 {
		return 0, ErrUnmeasurable
	}

	// Absolute gate.
	passing := blocks[:0]
	for _, ms := range blocks {
		if blockLoudness(ms) > absoluteGate {
			passing = append(passing, ms)
		}
	}
	if len(passing) == 0 {
		return 0, ErrUnmeasurable
	}

	// Relative gate at mean-of-passing minus 10 LU.
	threshold := blockLoudness(mean(passing)) + relativeGateLU
	var gated []float64
	for _, ms := range passing {
		if blockLoudness(ms) > threshold {
			gated = append(gated, ms)
		}
	}
	if len(gated) == 0 {
		gated = passing
	}

	return blockLoudness(mean(gated)), nil
}

// Normalize returns a copy of the buffer gained to the target integrated
// loudness, with peaks hard-limited to full scale. The measured input
// loudness is returned alongside the normalized buffer.
func Normalize(buf *asset.Buffer, targetLUFS float64) (*asset.Buffer, float64, error) {
	measured, err := Measure(buf)
	if err != nil {
		return nil, 0, err
	}

	gain := math.Pow(10, (targetLUFS-measured)/20)
	out := buf.Clone()
	for i, s := range out.Samples {
		v := s * gain
		// Hard limit; never clip past full scale.
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out.Samples[i] = v
	}
	return out, measured, nil
}

func blockLoudness(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return math.Inf(-1)
	}
	return loudnessOffset + 10*math.Log10(meanSquare)
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// kWeight applies the two-stage K-weighting pre-filter: a high shelf
// modelling head diffraction followed by a high-pass. Coefficients are
// designed for the buffer's sample rate from the reference filter
// parameters (shelf f0 1681.97 Hz, +4 dB, Q 0.7072; high-pass f0 38.14 Hz,
// Q 0.5003).
func kWeight(samples []float64, rate int) []float64 {
	shelf := designHighShelf(1681.9744509555319, 3.999843853973347, 0.7071752369554196, float64(rate))
	highpass := designHighPass(38.13547087602444, 0.5003270373238773, float64(rate))
	return highpass.apply(shelf.apply(samples))
}

type biquad struct {
	b0, b1, b2, a1, a2 float64
}

func (f biquad) apply(in []float64) []float64 {
	out := make([]float64, len(in))
	var x1, x2, y1, y2 float64
	for i, x := range in {
		y := f.b0*x + f.b1*x1 + f.b2*x2 - f.a1*y1 - f.a2*y2
		x2, x1 = x1, x
		y2, y1 = y1, y
		out[i] = y
	}
	return out
}

func designHighShelf(f0, gainDB, q, rate float64) biquad {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * f0 / rate
	alpha := math.Sin(w0) / (2 * q)
	cosW0 := math.Cos(w0)

	b0 := a * ((a + 1) + (a-1)*cosW0 + 2*math.Sqrt(a)*alpha)
	b1 := -2 * a * ((a - 1) + (a+1)*cosW0)
	b2 := a * ((a + 1) + (a-1)*cosW0 - 2*math.Sqrt(a)*alpha)
	a0 := (a + 1) - (a-1)*cosW0 + 2*math.Sqrt(a)*alpha
	a1 := 2 * ((a - 1) - (a+1)*cosW0)
	a2 := (a + 1) - (a-1)*cosW0 - 2*math.Sqrt(a)*alpha

	return biquad{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

func designHighPass(f0, q, rate float64) biquad {
	w0 := 2 * math.Pi * f0 / rate
	alpha := math.Sin(w0) / (2 * q)
	cosW0 := math.Cos(w0)

	b0 := (1 + cosW0) / 2
	b1 := -(1 + cosW0)
	b2 := (1 + cosW0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosW0
	a2 := 1 - alpha

	return biquad{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}
