package media

import "fmt"

// Targets are the thresholds above which a stored video is flagged as a
// re-encode candidate.
type Targets struct {
	MaxLines        int
	MaxFPS          float64
	MaxMiBPerSecond float64
}

// ExceedsTargets returns a human-readable reason per exceeded threshold, or
// nil when the video is within all targets.
func (i Info) ExceedsTargets(targets Targets) []string {
	var reasons []string

	lines := i.Width
	if i.Height < lines {
		lines = i.Height
	}
	if lines > targets.MaxLines {
		reasons = append(reasons, fmt.Sprintf("%d lines on the smallest dimension (max %d)", lines, targets.MaxLines))
	}
	if i.FPS > targets.MaxFPS {
		reasons = append(reasons, fmt.Sprintf("%.2f fps (max %.2f)", i.FPS, targets.MaxFPS))
	}
	if i.DurationSeconds > 0 {
		mibPerSecond := float64(i.SizeBytes) / i.DurationSeconds / (1024 * 1024)
		if mibPerSecond > targets.MaxMiBPerSecond {
			reasons = append(reasons, fmt.Sprintf("%.2f MiB/s (max %.2f)", mibPerSecond, targets.MaxMiBPerSecond))
		}
	}
	return reasons
}
