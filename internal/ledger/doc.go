// Package ledger implements the flat-text catalog mapping canonical video
// names to their tags.
//
// The on-disk format is a sequence of blocks: a `[name]` header line followed
// by one tag per line, with blank lines separating blocks. The same codec is
// shared by the authoritative all_tags.txt catalog and the per-batch tags.txt
// files that await manual tagging.
package ledger
