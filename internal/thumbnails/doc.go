// Package thumbnails drives ffprobe and ffmpeg to extract a preview frame
// for every stored video, and maps canonical video names to thumbnail names
// for the library assembler.
package thumbnails
