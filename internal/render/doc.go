// Package render produces the static library page: a single index.html plus
// its stylesheet and decryption script, generated from the assembled
// library. Restricted videos are rendered as encrypted grants only; their
// canonical names never appear in the page source.
package render
