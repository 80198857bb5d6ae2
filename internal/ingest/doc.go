// Package ingest folds freshly tagged batches into the library: each tagged
// video is hashed, moved into the content-addressed store, and recorded in
// the ledger, with tag sets merged when the same content shows up twice.
//
// A run is crash-tolerant by rewrite rather than by transaction log: files
// already moved are recognized on the next run through their canonical
// names, and the ledger is always persisted wholesale after all batches were
// attempted, even when some entries failed.
package ingest
