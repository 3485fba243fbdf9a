// Package enhancecache caches expensive visual enhancement output keyed by
// source content and enhancement configuration. The key is a pair of hashes:
// the SHA-256 of the source bytes and the SHA-256 of the canonical
// enhancement settings, so editing a panel or changing the upscale factor
// each invalidate independently.
//
// Concurrent requests for the same key collapse into a single computation;
// losers block until the winner's artifact lands. Artifacts are written
// atomically, and a corrupt (empty) artifact is treated as a miss.
package enhancecache
