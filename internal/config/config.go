package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"foley/internal/asset"
	"foley/internal/scoring"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	CacheDir   string `toml:"cache_dir"`
	LogDir     string `toml:"log_dir"`
	LedgerPath string `toml:"ledger_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// PlanEntry names one library key the batch curator should produce.
type PlanEntry struct {
	Category        string  `toml:"category"`
	Key             string  `toml:"key"`
	Character       string  `toml:"character,omitempty"`
	Prompt          string  `toml:"prompt"`
	Profile         string  `toml:"profile,omitempty"`
	DurationSeconds float64 `toml:"duration_seconds"`
}

// AssetCategory returns the entry's category as a typed value. Validation
// guarantees the category parses, so unknown values only occur on
// hand-constructed entries.
func (e PlanEntry) AssetCategory() asset.Category {
	category, _ := asset.ParseCategory(e.Category)
	return category
}

// Curation contains configuration for the offline asset curator.
type Curation struct {
	VariationCount  int    `toml:"variation_count"`
	Seed            int64  `toml:"seed"`
	Parallelism     int    `toml:"parallelism"`
	GeneratorBinary string `toml:"generator_binary"`
	// GeneratorTimeoutSeconds bounds a single generation call.
	GeneratorTimeoutSeconds int `toml:"generator_timeout_seconds"`
	// Loudness maps category name to the LUFS target assets are normalized to.
	Loudness map[string]float64 `toml:"loudness"`
	Plan     []PlanEntry        `toml:"plan"`
}

// Enhancement contains configuration for the visual enhancement cache.
type Enhancement struct {
	Enabled        bool   `toml:"enabled"`
	Binary         string `toml:"binary"`
	Scale          int    `toml:"scale"`
	Denoise        int    `toml:"denoise"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Interpolation contains configuration for the frame interpolation gate.
type Interpolation struct {
	Enabled         bool    `toml:"enabled"`
	Binary          string  `toml:"binary"`
	MinSceneSeconds float64 `toml:"min_scene_seconds"`
	TargetFPS       int     `toml:"target_fps"`
	TimeoutSeconds  int     `toml:"timeout_seconds"`
}

// Config encapsulates all configuration values for foley.
//
// Sections by subsystem:
//   - Paths: library, cache, log, and ledger locations
//   - Logging: log format and level
//   - Curation: batch plan, variation counts, seeds, loudness targets
//   - Enhancement: upscaler binary and cache settings
//   - Interpolation: gate thresholds and interpolator binary
//   - Profiles: mood scoring targets and weights (data, never code)
type Config struct {
	Paths         Paths                      `toml:"paths"`
	Logging       Logging                    `toml:"logging"`
	Curation      Curation                   `toml:"curation"`
	Enhancement   Enhancement                `toml:"enhancement"`
	Interpolation Interpolation              `toml:"interpolation"`
	Profiles      map[string]scoring.Profile `toml:"profiles"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/foley/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("foley.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the engine writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LibraryDir, c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if path := strings.TrimSpace(c.Paths.LedgerPath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}
	return nil
}

// LoudnessTarget returns the LUFS target for a category, falling back to the
// music default when the category has no explicit entry.
func (c *Config) LoudnessTarget(category asset.Category) float64 {
	if target, ok := c.Curation.Loudness[string(category)]; ok {
		return target
	}
	return defaultLoudnessLUF
}

// Profile resolves a named scoring profile.
func (c *Config) Profile(name string) (scoring.Profile, bool) {
	profile, ok := c.Profiles[strings.TrimSpace(name)]
	return profile, ok
}

// PlanProfile resolves the profile a plan entry scores against: its explicit
// profile, the profile named after its key, or the neutral default.
func (c *Config) PlanProfile(entry PlanEntry) (scoring.Profile, string) {
	if entry.Profile != "" {
		if profile, ok := c.Profile(entry.Profile); ok {
			return profile, entry.Profile
		}
	}
	if profile, ok := c.Profile(entry.Key); ok {
		return profile, entry.Key
	}
	profile, _ := c.Profile(defaultProfileName)
	return profile, defaultProfileName
}

// GeneratorTimeout returns the per-variation generation deadline.
func (c *Config) GeneratorTimeout() time.Duration {
	return time.Duration(c.Curation.GeneratorTimeoutSeconds) * time.Second
}

// InterpolationTimeout returns the per-scene interpolation deadline.
func (c *Config) InterpolationTimeout() time.Duration {
	return time.Duration(c.Interpolation.TimeoutSeconds) * time.Second
}

// EnhancementTimeout returns the per-panel enhancement deadline.
func (c *Config) EnhancementTimeout() time.Duration {
	return time.Duration(c.Enhancement.TimeoutSeconds) * time.Second
}

// CreateSample writes a sample configuration file to the given location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
