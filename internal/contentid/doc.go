// Package contentid computes the content fingerprints that name videos in
// the store. A video's canonical name is its SHA-256 hex digest plus the
// original file extension, so identical bytes always land on the same name
// no matter where they came from.
package contentid
