package config

import (
	"fmt"
	"strings"

	"foley/internal/asset"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return fmt.Errorf("paths: library_dir is required")
	}

	if c.Curation.VariationCount < 1 {
		return fmt.Errorf("curation: variation_count must be at least 1, got %d", c.Curation.VariationCount)
	}
	if c.Curation.Parallelism < 1 {
		return fmt.Errorf("curation: parallelism must be at least 1, got %d", c.Curation.Parallelism)
	}
	if c.Curation.GeneratorTimeoutSeconds <= 0 {
		return fmt.Errorf("curation: generator_timeout_seconds must be positive, got %d", c.Curation.GeneratorTimeoutSeconds)
	}

	for name := range c.Curation.Loudness {
		if _, err := asset.ParseCategory(name); err != nil {
			return fmt.Errorf("curation loudness: %w", err)
		}
	}

	for name, profile := range c.Profiles {
		if err := profile.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}
	if _, ok := c.Profiles[defaultProfileName]; !ok {
		return fmt.Errorf("profiles: %q profile is required", defaultProfileName)
	}

	for i, entry := range c.Curation.Plan {
		category, err := asset.ParseCategory(entry.Category)
		if err != nil {
			return fmt.Errorf("curation plan entry %d: %w", i, err)
		}
		if entry.Key == "" {
			return fmt.Errorf("curation plan entry %d: key is required", i)
		}
		if category.CharacterScoped() && entry.Character == "" {
			return fmt.Errorf("curation plan entry %d: category %s requires a character", i, category)
		}
		if entry.Prompt == "" {
			return fmt.Errorf("curation plan entry %d (%s/%s): prompt is required", i, entry.Category, entry.Key)
		}
		if entry.DurationSeconds <= 0 {
			return fmt.Errorf("curation plan entry %d (%s/%s): duration_seconds must be positive", i, entry.Category, entry.Key)
		}
		if entry.Profile != "" {
			if _, ok := c.Profiles[entry.Profile]; !ok {
				return fmt.Errorf("curation plan entry %d (%s/%s): unknown profile %q", i, entry.Category, entry.Key, entry.Profile)
			}
		}
	}

	if c.Enhancement.Enabled {
		if c.Enhancement.Scale < 1 {
			return fmt.Errorf("enhancement: scale must be at least 1, got %d", c.Enhancement.Scale)
		}
		if c.Enhancement.TimeoutSeconds <= 0 {
			return fmt.Errorf("enhancement: timeout_seconds must be positive, got %d", c.Enhancement.TimeoutSeconds)
		}
	}

	if c.Interpolation.Enabled {
		if c.Interpolation.MinSceneSeconds <= 0 {
			return fmt.Errorf("interpolation: min_scene_seconds must be positive, got %v", c.Interpolation.MinSceneSeconds)
		}
		if c.Interpolation.TargetFPS < 1 {
			return fmt.Errorf("interpolation: target_fps must be at least 1, got %d", c.Interpolation.TargetFPS)
		}
		if c.Interpolation.TimeoutSeconds <= 0 {
			return fmt.Errorf("interpolation: timeout_seconds must be positive, got %d", c.Interpolation.TimeoutSeconds)
		}
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging: unsupported format %q", c.Logging.Format)
	}

	return nil
}
