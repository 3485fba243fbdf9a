// Package interpolate gates frame interpolation per scene. Short scenes and
// static scenes are skipped outright, and an interpolator failure falls back
// to the original clip rather than failing the scene. A gate decision is
// always produced; the caller never has to handle an interpolation error.
package interpolate
