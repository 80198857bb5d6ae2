// Package pipeline chains the build stages: ingest tagged batches, mirror
// the store into the build tree, refresh thumbnails, assemble the library,
// and render the page. Each stage only depends on the ones before it, and a
// failing stage aborts the run.
package pipeline
