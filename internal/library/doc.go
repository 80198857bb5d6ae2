// Package library assembles the render-ready view of the catalog: each
// ledger entry joined with its extracted date, its thumbnail, and either a
// public name or the password-gated access grants produced by the matching
// restriction rules.
package library
