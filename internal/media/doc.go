// Package media wraps ffprobe invocations: container duration for thumbnail
// placement and full stream characteristics for the re-encode report.
package media
