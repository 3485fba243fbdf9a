package config

import (
	"strings"

	"foley/internal/asset"
)

// normalize expands path fields and canonicalizes plan keys so downstream
// code never sees unexpanded or unsanitized values.
func (c *Config) normalize() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return err
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return err
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Curation.GeneratorBinary = strings.TrimSpace(c.Curation.GeneratorBinary)
	c.Enhancement.Binary = strings.TrimSpace(c.Enhancement.Binary)
	c.Interpolation.Binary = strings.TrimSpace(c.Interpolation.Binary)

	for i := range c.Curation.Plan {
		entry := &c.Curation.Plan[i]
		entry.Category = strings.ToLower(strings.TrimSpace(entry.Category))
		entry.Key = asset.SanitizeKey(entry.Key)
		entry.Character = asset.SanitizeKey(entry.Character)
		entry.Profile = strings.TrimSpace(entry.Profile)
		entry.Prompt = strings.TrimSpace(entry.Prompt)
	}
	return nil
}
