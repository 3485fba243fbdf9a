// Package asset defines the shared data model for the audio library: asset
// categories, in-memory sample buffers, persisted library entries, and the
// canonical path layout that makes a file's location its identity.
package asset
