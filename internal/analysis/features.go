package analysis

import (
	"math"

	"foley/internal/asset"
)

// Features is an immutable descriptor record derived one-to-one from a
// candidate buffer.
type Features struct {
	// RMS is the root-mean-square energy of the clip, 0..1.
	RMS float64
	// TempoBPM is the estimated tempo in beats per minute, 0 when no
	// rhythmic onsets are detectable.
	TempoBPM float64
	// SpectralCentroid is the brightness measure in Hz.
	SpectralCentroid float64
	// DynamicRangeDB is the peak-to-RMS ratio in decibels.
	DynamicRangeDB float64
	// HarmonicRatio estimates harmonic-to-noise content, 0..1.
	HarmonicRatio float64
}

const (
	// silenceFloor is the RMS below which a clip counts as silent.
	silenceFloor = 1e-4
	// maxAnalysisSeconds bounds the analysis window; long loops are judged
	// by their opening material.
	maxAnalysisSeconds = 10

	fftSize   = 2048
	onsetHop  = 256
	onsetWin  = 512
	minTempo  = 40.0
	maxTempo  = 200.0
	minPitch  = 50.0
	maxPitch  = 1000.0
	hnrWindow = 4096
)

// Extract computes features for the candidate. It depends only on the sample
// data; no external state is consulted.
func Extract(buf *asset.Buffer) Features {
	mono := buf.Mono()
	if buf == nil || len(mono) == 0 || buf.SampleRate <= 0 {
		return Features{}
	}

	if limit := maxAnalysisSeconds * buf.SampleRate; len(mono) > limit {
		mono = mono[:limit]
	}

	rms := rootMeanSquare(mono)
	if rms < silenceFloor {
		return Features{}
	}

	peak := 0.0
	for _, s := range mono {
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}

	return Features{
		RMS:              rms,
		TempoBPM:         estimateTempo(mono, buf.SampleRate),
		SpectralCentroid: spectralCentroid(mono, buf.SampleRate),
		DynamicRangeDB:   20 * math.Log10(peak/rms),
		HarmonicRatio:    harmonicRatio(mono, buf.SampleRate),
	}
}

func rootMeanSquare(samples []float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// spectralCentroid averages the per-frame magnitude-weighted frequency over
// Hann-windowed frames.
func spectralCentroid(samples []float64, rate int) float64 {
	window := hann(fftSize)
	binHz := float64(rate) / fftSize

	var centroidSum float64
	var frames int
	for start := 0; start+fftSize <= len(samples); start += fftSize {
		re := make([]float64, fftSize)
		im := make([]float64, fftSize)
		for i := 0; i < fftSize; i++ {
			re[i] = samples[start+i] * window[i]
		}
		fft(re, im)

		var weighted, total float64
		for k := 1; k < fftSize/2; k++ {
			mag := math.Hypot(re[k], im[k])
			weighted += float64(k) * binHz * mag
			total += mag
		}
		if total > 0 {
			centroidSum += weighted / total
			frames++
		}
	}
	if frames == 0 {
		return 0
	}
	return centroidSum / float64(frames)
}

// estimateTempo autocorrelates the onset-strength envelope and reports the
// strongest periodicity in the 40..200 BPM range.
func estimateTempo(samples []float64, rate int) float64 {
	var energies []float64
	for start := 0; start+onsetWin <= len(samples); start += onsetHop {
		var sum float64
		for i := start; i < start+onsetWin; i++ {
			sum += samples[i] * samples[i]
		}
		energies = append(energies, sum/float64(onsetWin))
	}
	if len(energies) < 4 {
		return 0
	}

	onsets := make([]float64, len(energies))
	var total float64
	for i := 1; i < len(energies); i++ {
		if d := energies[i] - energies[i-1]; d > 0 {
			onsets[i] = d
			total += d
		}
	}
	if total == 0 {
		return 0
	}

	envelopeRate := float64(rate) / onsetHop
	minLag := int(envelopeRate * 60 / maxTempo)
	maxLag := int(envelopeRate * 60 / minTempo)
	if maxLag >= len(onsets) {
		maxLag = len(onsets) - 1
	}
	if minLag < 1 || minLag > maxLag {
		return 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(onsets); i++ {
			corr += onsets[i] * onsets[i+lag]
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}
	if bestLag == 0 {
		return 0
	}
	return 60 * envelopeRate / float64(bestLag)
}

// harmonicRatio takes the peak of the normalized autocorrelation within the
// pitch range as a harmonic-to-noise proxy.
func harmonicRatio(samples []float64, rate int) float64 {
	n := len(samples)
	if n > hnrWindow {
		samples = samples[:hnrWindow]
		n = hnrWindow
	}

	minLag := rate / int(maxPitch)
	maxLag := rate / int(minPitch)
	if maxLag >= n {
		maxLag = n - 1
	}
	if minLag < 1 || minLag > maxLag {
		return 0
	}

	var energy float64
	for _, s := range samples {
		energy += s * s
	}
	if energy == 0 {
		return 0
	}

	best := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr, e1, e2 float64
		for i := 0; i+lag < n; i++ {
			corr += samples[i] * samples[i+lag]
			e1 += samples[i] * samples[i]
			e2 += samples[i+lag] * samples[i+lag]
		}
		if e1 == 0 || e2 == 0 {
			continue
		}
		if r := corr / math.Sqrt(e1*e2); r > best {
			best = r
		}
	}
	if best < 0 {
		return 0
	}
	if best > 1 {
		return 1
	}
	return best
}

func hann(size int) []float64 {
	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return window
}

// fft computes an in-place radix-2 Cooley-Tukey transform. len(re) must be a
// power of two.
func fft(re, im []float64) {
	n := len(re)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		angle := -2 * math.Pi / float64(length)
		wRe, wIm := math.Cos(angle), math.Sin(angle)
		for start := 0; start < n; start += length {
			curRe, curIm := 1.0, 0.0
			for k := 0; k < length/2; k++ {
				evenRe, evenIm := re[start+k], im[start+k]
				oddRe := re[start+k+length/2]*curRe - im[start+k+length/2]*curIm
				oddIm := re[start+k+length/2]*curIm + im[start+k+length/2]*curRe
				re[start+k], im[start+k] = evenRe+oddRe, evenIm+oddIm
				re[start+k+length/2], im[start+k+length/2] = evenRe-oddRe, evenIm-oddIm
				curRe, curIm = curRe*wRe-curIm*wIm, curRe*wIm+curIm*wRe
			}
		}
	}
}
