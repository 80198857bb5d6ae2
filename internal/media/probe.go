package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Info describes the probed characteristics of a stored video.
type Info struct {
	Width           int
	Height          int
	FPS             float64
	AudioSampleRate float64
	SizeBytes       int64
	DurationSeconds float64
}

// Probe runs ffprobe against path and decodes the stream and format fields
// the re-encode report needs.
func Probe(ctx context.Context, ffprobeBinary, path string) (Info, error) {
	args := []string{
		"-of", "json",
		"-show_entries", "stream=width,height,avg_frame_rate,sample_rate,codec_type:format=duration,size",
		path,
	}
	cmd := exec.CommandContext(ctx, ffprobeBinary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	info, err := parseProbeOutput(output)
	if err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}
	return info, nil
}

// DurationSeconds runs ffprobe against path and returns the container
// duration.
func DurationSeconds(ctx context.Context, ffprobeBinary, path string) (float64, error) {
	args := []string{
		"-of", "json",
		"-show_entries", "format=duration",
		path,
	}
	cmd := exec.CommandContext(ctx, ffprobeBinary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var doc struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &doc); err != nil {
		return 0, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(doc.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration for %s: %w", path, err)
	}
	return duration, nil
}

type probeDocument struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	SampleRate   string `json:"sample_rate"`
}

type probeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
}

func parseProbeOutput(output []byte) (Info, error) {
	var doc probeDocument
	if err := json.Unmarshal(output, &doc); err != nil {
		return Info{}, err
	}

	var info Info
	var sawVideo, sawAudio bool
	for _, stream := range doc.Streams {
		switch stream.CodecType {
		case "video":
			if sawVideo {
				continue
			}
			sawVideo = true
			info.Width = stream.Width
			info.Height = stream.Height
			fps, err := parseFrameRate(stream.AvgFrameRate)
			if err != nil {
				return Info{}, err
			}
			info.FPS = fps
		case "audio":
			if sawAudio {
				continue
			}
			sawAudio = true
			rate, err := strconv.ParseFloat(stream.SampleRate, 64)
			if err != nil {
				return Info{}, fmt.Errorf("invalid sample_rate %q", stream.SampleRate)
			}
			info.AudioSampleRate = rate
		}
	}
	if !sawVideo {
		return Info{}, errors.New("no video stream")
	}

	size, err := strconv.ParseInt(doc.Format.Size, 10, 64)
	if err != nil {
		return Info{}, fmt.Errorf("invalid size %q", doc.Format.Size)
	}
	info.SizeBytes = size

	duration, err := strconv.ParseFloat(doc.Format.Duration, 64)
	if err != nil {
		return Info{}, fmt.Errorf("invalid duration %q", doc.Format.Duration)
	}
	info.DurationSeconds = duration

	return info, nil
}

func parseFrameRate(value string) (float64, error) {
	numerator, denominator, ok := strings.Cut(value, "/")
	if !ok {
		return 0, fmt.Errorf("invalid avg_frame_rate %q", value)
	}
	n, err := strconv.ParseFloat(numerator, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid avg_frame_rate %q", value)
	}
	d, err := strconv.ParseFloat(denominator, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid avg_frame_rate %q", value)
	}
	return n / d, nil
}
