package asset

import (
	"path/filepath"
	"testing"
)

func TestCanonicalPathLayout(t *testing.T) {
	cases := []struct {
		category  Category
		key       string
		character string
		want      string
	}{
		{CategoryBGM, "calm", "", filepath.Join("bgm", "calm_loop.wav")},
		{CategorySFX, "punch", "", filepath.Join("sfx", "punch.wav")},
		{CategoryAmbience, "wind", "", filepath.Join("ambience", "wind.wav")},
		{CategoryStinger, "intro", "", filepath.Join("stingers", "intro.wav")},
		{CategoryAttack, "rasengan", "Naruto", filepath.Join("characters", "naruto", "attacks", "rasengan.wav")},
		{CategoryPersonality, "laugh", "dio", filepath.Join("characters", "dio", "personality", "laugh.wav")},
	}
	for _, tc := range cases {
		if got := CanonicalPath(tc.category, tc.key, tc.character); got != tc.want {
			t.Errorf("CanonicalPath(%s, %s, %s) = %q, want %q", tc.category, tc.key, tc.character, got, tc.want)
		}
	}
}

func TestKeyFromFilenameRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		category Category
		name     string
		want     string
	}{
		{CategoryBGM, "calm_loop.wav", "calm"},
		{CategorySFX, "punch.wav", "punch"},
		{CategoryAttack, "serious_punch.mp3", "serious_punch"},
	} {
		if got := KeyFromFilename(tc.category, tc.name); got != tc.want {
			t.Errorf("KeyFromFilename(%s, %s) = %q, want %q", tc.category, tc.name, got, tc.want)
		}
	}
}

func TestSanitizeKey(t *testing.T) {
	if got := SanitizeKey("  Serious Punch! "); got != "serious_punch!" {
		t.Errorf("unexpected sanitized key %q", got)
	}
	if got := SanitizeKey("a/b:c"); got != "a-b-c" {
		t.Errorf("unexpected sanitized key %q", got)
	}
	if got := SanitizeKey("   "); got != "" {
		t.Errorf("blank input should sanitize to empty, got %q", got)
	}
}

func TestGenericFallback(t *testing.T) {
	if got := CategoryAttack.GenericFallback(); got != CategorySFX {
		t.Fatalf("attack should fall back to sfx, got %s", got)
	}
	if got := CategoryBGM.GenericFallback(); got != CategoryBGM {
		t.Fatalf("bgm should fall back to itself, got %s", got)
	}
}

func TestBufferMonoAndDuration(t *testing.T) {
	b := &Buffer{
		Samples:    []float64{1, -1, 0.5, 0.5},
		SampleRate: 2,
		Channels:   2,
	}
	if got := b.Duration(); got != 1.0 {
		t.Fatalf("Duration = %v, want 1.0", got)
	}
	mono := b.Mono()
	if len(mono) != 2 || mono[0] != 0 || mono[1] != 0.5 {
		t.Fatalf("unexpected mono downmix %v", mono)
	}
}

func TestBufferCloneIsIndependent(t *testing.T) {
	b := &Buffer{Samples: []float64{0.25}, SampleRate: 1, Channels: 1}
	clone := b.Clone()
	clone.Samples[0] = 0.75
	if b.Samples[0] != 0.25 {
		t.Fatal("clone mutated the original buffer")
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := ParseCategory("BGM"); err != nil {
		t.Fatalf("ParseCategory should accept case-insensitive input: %v", err)
	}
	if _, err := ParseCategory("drums"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
