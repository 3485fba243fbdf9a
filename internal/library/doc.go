// Package library indexes the curated asset directory and resolves symbolic
// keys to concrete files. Resolution walks a fixed fallback chain:
// character-specific entry, then the generic category tier, then absent.
// Absence is an ordinary outcome, never an error; callers decide whether to
// proceed without the asset.
//
// The index is built by scanning the library once and can be reloaded after
// a curation pass. Lookups are safe for concurrent use.
package library
