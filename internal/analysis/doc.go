// Package analysis extracts objective signal descriptors from rendered audio
// candidates: RMS energy, tempo, spectral centroid, dynamic range, and
// harmonic content.
//
// Extraction is a pure function of the sample data, which is what keeps
// curation reproducible for a fixed generation seed. Silent candidates
// produce zeroed features instead of an error so the scorer naturally ranks
// them last.
package analysis
