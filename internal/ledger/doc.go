// Package ledger persists curation run history in SQLite. The library
// filesystem remains the source of truth for curated assets; the ledger is
// an audit trail of which variations were generated, how they scored, and
// which one won.
package ledger
