// Package curator runs the offline asset curation pass: generate several
// candidate variations for a symbolic key, score them with objective signal
// metrics, loudness-normalize the winner, and commit exactly one file into
// the library.
//
// Curation is commit-once: an existing entry is never overwritten, which is
// what lets manually placed override files stick. The filesystem is the sole
// source of truth for what has been curated; the sqlite ledger only records
// run history for auditing.
package curator
