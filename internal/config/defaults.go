package config

import "foley/internal/scoring"

const (
	// defaultLoudnessLUF is the streaming-safe loudness target used when a
	// category has no explicit entry.
	defaultLoudnessLUF = -14.0
	// defaultProfileName is the neutral scoring profile applied when a plan
	// entry names no mood.
	defaultProfileName = "default"
)

// Default returns the built-in configuration values applied before any file
// is read.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: "~/.local/share/foley/library",
			CacheDir:   "~/.cache/foley/enhanced",
			LogDir:     "~/.local/share/foley/logs",
			LedgerPath: "~/.local/share/foley/ledger.db",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
		Curation: Curation{
			VariationCount:          5,
			Seed:                    1,
			Parallelism:             2,
			GeneratorBinary:         "musicgen",
			GeneratorTimeoutSeconds: 300,
			Loudness: map[string]float64{
				"bgm":         -14,
				"stinger":     -14,
				"sfx":         -16,
				"attack":      -16,
				"personality": -16,
				"ambience":    -18,
			},
		},
		Enhancement: Enhancement{
			Enabled:        true,
			Binary:         "realcugan-ncnn-vulkan",
			Scale:          2,
			Denoise:        0,
			TimeoutSeconds: 120,
		},
		Interpolation: Interpolation{
			Enabled:         true,
			Binary:          "rife-ncnn-vulkan",
			MinSceneSeconds: 1.2,
			TargetFPS:       48,
			TimeoutSeconds:  120,
		},
		Profiles: map[string]scoring.Profile{
			// The neutral profile accepts anything audible; mood-specific
			// profiles come from the config file.
			defaultProfileName: {
				Energy:       scoring.Dimension{Weight: 0.2, Min: 0.01, Max: 1},
				Tempo:        scoring.Dimension{Weight: 0.2, Min: 0, Max: 300},
				Brightness:   scoring.Dimension{Weight: 0.2, Min: 0, Max: 20000},
				DynamicRange: scoring.Dimension{Weight: 0.2, Min: 0, Max: 60},
				Harmonicity:  scoring.Dimension{Weight: 0.2, Min: 0, Max: 1},
			},
		},
	}
}
