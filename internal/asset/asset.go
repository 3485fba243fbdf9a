package asset

import (
	"fmt"
	"math"
	"strings"
)

// Category partitions the library. The on-disk directory layout follows the
// category, so the set here must stay in sync with paths.go.
type Category string

const (
	CategoryBGM         Category = "bgm"
	CategorySFX         Category = "sfx"
	CategoryAmbience    Category = "ambience"
	CategoryStinger     Category = "stinger"
	CategoryAttack      Category = "attack"
	CategoryPersonality Category = "personality"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryBGM,
		CategorySFX,
		CategoryAmbience,
		CategoryStinger,
		CategoryAttack,
		CategoryPersonality,
	}
}

// ParseCategory validates a category string from CLI or config input.
func ParseCategory(value string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown asset category %q", value)
}

// CharacterScoped reports whether entries of this category live under a
// character directory rather than a flat category directory.
func (c Category) CharacterScoped() bool {
	return c == CategoryAttack || c == CategoryPersonality
}

// GenericFallback returns the category consulted by the generic resolution
// tier. A missing named attack degrades to a generic impact sound; every
// other category falls back to itself.
func (c Category) GenericFallback() Category {
	if c == CategoryAttack {
		return CategorySFX
	}
	return c
}

// Buffer is an in-memory rendered audio clip. Samples are interleaved
// float64 in [-1, 1]. Buffers are transient: the curator owns them during
// scoring and drops them once a winner is committed.
type Buffer struct {
	Samples    []float64
	SampleRate int
	Channels   int
}

// Duration returns the clip length in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 || b.Channels <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate*b.Channels)
}

// Mono returns a single-channel view of the buffer, averaging interleaved
// channels. Feature extraction operates on mono.
func (b *Buffer) Mono() []float64 {
	if b == nil || len(b.Samples) == 0 {
		return nil
	}
	if b.Channels <= 1 {
		return b.Samples
	}
	frames := len(b.Samples) / b.Channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < b.Channels; ch++ {
			sum += b.Samples[i*b.Channels+ch]
		}
		mono[i] = sum / float64(b.Channels)
	}
	return mono
}

// Peak returns the largest absolute sample value.
func (b *Buffer) Peak() float64 {
	var peak float64
	for _, s := range b.Samples {
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}
	return peak
}

// Clone returns a deep copy so gain adjustments never mutate a candidate
// that scoring may still reference.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	samples := make([]float64, len(b.Samples))
	copy(samples, b.Samples)
	return &Buffer{Samples: samples, SampleRate: b.SampleRate, Channels: b.Channels}
}

// LibraryEntry is a persisted artifact. At most one entry exists per
// (category, symbolic key, character); the curator never overwrites an
// existing entry.
type LibraryEntry struct {
	Category    Category
	Key         string
	Character   string
	Path        string
	LoudnessLUF float64
}

// ResolutionRequest asks the resolver for a library path. Character is
// optional; when set, character-specific entries win over generic ones.
type ResolutionRequest struct {
	Category  Category
	Key       string
	Character string
}
