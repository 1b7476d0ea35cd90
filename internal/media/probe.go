package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

var ErrNoProber = errors.New("neither ffprobe nor ffmpeg found in PATH")

// DurationProber reports the playable length of a video file in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

type FFProbe struct {
	ffprobePath string
	ffmpegPath  string
}

// NewFFProbe locates ffprobe and ffmpeg. An explicit ffprobePath wins over
// PATH lookup. Either tool alone is enough.
func NewFFProbe(ffprobePath string) (*FFProbe, error) {
	p := &FFProbe{ffprobePath: ffprobePath}
	if p.ffprobePath == "" {
		if path, err := exec.LookPath("ffprobe"); err == nil {
			p.ffprobePath = path
		}
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		p.ffmpegPath = path
	}
	if p.ffprobePath == "" && p.ffmpegPath == "" {
		return nil, ErrNoProber
	}
	log.Printf("[PROBE] ffprobe=%q ffmpeg=%q", p.ffprobePath, p.ffmpegPath)
	return p, nil
}

func (p *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("video file not accessible: %w", err)
	}

	if p.ffprobePath != "" {
		cmd := exec.CommandContext(ctx, p.ffprobePath,
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			path)

		var stdout bytes.Buffer
		cmd.Stdout = &stdout

		if err := cmd.Run(); err == nil {
			if duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64); err == nil && duration > 0 {
				return duration, nil
			}
		} else if ctx.Err() != nil {
			return 0, ctx.Err()
		}
	}

	if p.ffmpegPath == "" {
		return 0, fmt.Errorf("ffprobe could not read duration of %s", path)
	}

	cmd := exec.CommandContext(ctx, p.ffmpegPath, "-i", path, "-f", "null", "-")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	_ = cmd.Run()
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	return ParseFFmpegDuration(stderr.String())
}

// ParseFFmpegDuration extracts "Duration: HH:MM:SS.xx" from ffmpeg's banner.
func ParseFFmpegDuration(output string) (float64, error) {
	const prefix = "Duration: "
	start := strings.Index(output, prefix)
	if start == -1 {
		return 0, fmt.Errorf("duration not found in ffmpeg output")
	}
	start += len(prefix)

	end := strings.Index(output[start:], ",")
	if end == -1 {
		return 0, fmt.Errorf("invalid duration format")
	}

	value := output[start : start+end]
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s", value)
	}

	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", value)
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", value)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", value)
	}

	total := hours*3600 + minutes*60 + seconds
	if total <= 0 {
		return 0, fmt.Errorf("invalid duration: %s", value)
	}
	return total, nil
}
