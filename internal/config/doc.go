// Package config loads, validates, and normalizes foley's TOML
// configuration.
//
// Configuration carries everything the curation and resolution engine treats
// as data rather than code: directory layout, the curation plan (which keys
// to curate, with which prompts and durations), per-category loudness
// targets, mood scoring profiles, and gating thresholds for visual
// enhancement and interpolation. Mood profile numbers deliberately live here
// and nowhere else.
package config
