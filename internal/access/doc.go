// Package access derives per-rule keys from passwords and encrypts canonical
// video names into the tokens embedded in rendered pages.
//
// A restricted video's name never appears in plaintext anywhere reachable
// without the rule's password; the browser-side client derives the same key
// (PBKDF2-HMAC-SHA256, AES-256-GCM) to recover the name before building a
// fetch URL.
package access
