// Package annotation holds the state of one labeling session: playback
// position, the interval draft, committed intervals and the viewport.
//
// A Session is not safe for concurrent use. Callers serialize access.
package annotation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultFrameRate     = 30.0
	DefaultFrameInterval = 100 * time.Millisecond

	MinFrameRate     = 1.0
	MinFrameInterval = 10 * time.Millisecond
)

type Direction int

const (
	Backward Direction = -1
	Still    Direction = 0
	Forward  Direction = 1
)

type Options struct {
	FrameRate     float64
	FrameInterval time.Duration
	// AutoMarkEndOnRelease marks the draft end when a held arrow key is
	// released while a start mark is pending.
	AutoMarkEndOnRelease bool
}

func DefaultOptions() Options {
	return Options{
		FrameRate:            DefaultFrameRate,
		FrameInterval:        DefaultFrameInterval,
		AutoMarkEndOnRelease: true,
	}
}

// VideoInfo describes the loaded video file.
type VideoInfo struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// BaseName is the file name without its extension.
func (v VideoInfo) BaseName() string {
	name := v.Filename
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

type Session struct {
	opts Options

	video    *VideoInfo
	duration float64

	frameRate          float64
	frameRateInput     string
	frameInterval      time.Duration
	frameIntervalInput string

	currentFrame int
	currentTime  float64
	held         Direction

	draft    Draft
	store    Store
	viewport Viewport

	notice string
}

func NewSession(opts Options) *Session {
	if opts.FrameRate < MinFrameRate {
		opts.FrameRate = DefaultFrameRate
	}
	if opts.FrameInterval < MinFrameInterval {
		opts.FrameInterval = DefaultFrameInterval
	}
	s := &Session{opts: opts}
	s.frameRate = opts.FrameRate
	s.frameRateInput = formatFloat(opts.FrameRate)
	s.frameInterval = opts.FrameInterval
	s.frameIntervalInput = strconv.FormatInt(opts.FrameInterval.Milliseconds(), 10)
	s.draft = newDraft()
	s.viewport = NewViewport()
	return s
}

// LoadVideo starts a new labeling pass over v. Frame position, intervals,
// draft and viewport are reset. The duration is unknown until SetDuration.
func (s *Session) LoadVideo(v VideoInfo) error {
	if !strings.HasPrefix(v.ContentType, "video/") {
		return fmt.Errorf("%w: %s", ErrNotVideo, v.ContentType)
	}
	s.video = &v
	s.duration = 0
	s.currentFrame = 0
	s.currentTime = 0
	s.held = Still
	s.draft = newDraft()
	s.store.Reset()
	s.viewport = NewViewport()
	s.notice = ""
	return nil
}

func (s *Session) Video() (VideoInfo, bool) {
	if s.video == nil {
		return VideoInfo{}, false
	}
	return *s.video, true
}

func (s *Session) SetDuration(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return fmt.Errorf("invalid duration %v", seconds)
	}
	s.duration = seconds
	return nil
}

func (s *Session) Duration() float64 { return s.duration }

// DecodeFailed records a playback failure reported by the player. Session
// state is otherwise left alone.
func (s *Session) DecodeFailed(reason string) {
	s.notice = "Video playback failed"
	if reason != "" {
		s.notice += ": " + reason
	}
}

func (s *Session) Notice() string { return s.notice }

// MaxFrame is the last addressable frame of the loaded video.
func (s *Session) MaxFrame() int {
	return MaxFrame(s.duration, s.frameRate)
}

// MaxFrame is floor(duration * frameRate). The epsilon keeps exact products
// such as 10s at 30fps from flooring one frame short.
func MaxFrame(duration, frameRate float64) int {
	return int(math.Floor(duration*frameRate + 1e-9))
}

func (s *Session) FrameRate() float64 { return s.frameRate }

func (s *Session) FrameInterval() time.Duration { return s.frameInterval }

// SetFrameRateInput takes the frame rate field text as typed. A valid value
// applies immediately; anything else waits for BlurFrameRate.
func (s *Session) SetFrameRateInput(raw string) {
	s.frameRateInput = raw
	if fps, ok := parseFrameRate(raw); ok {
		s.applyFrameRate(fps)
	}
}

// BlurFrameRate settles the frame rate field, falling back to the last valid
// frame rate when the text is not a number >= 1.
func (s *Session) BlurFrameRate() {
	fps, ok := parseFrameRate(s.frameRateInput)
	if !ok {
		fps = s.frameRate
	}
	s.applyFrameRate(fps)
	s.frameRateInput = formatFloat(fps)
}

func (s *Session) applyFrameRate(fps float64) {
	if fps == s.frameRate {
		return
	}
	s.frameRate = fps
	s.currentFrame = int(math.Round(s.currentTime * fps))
	if last := s.MaxFrame(); s.currentFrame > last && s.duration > 0 {
		s.currentFrame = last
	}
	s.currentTime = float64(s.currentFrame) / fps
}

func parseFrameRate(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < MinFrameRate {
		return 0, false
	}
	return v, true
}

func (s *Session) SetFrameIntervalInput(raw string) {
	s.frameIntervalInput = raw
	if d, ok := parseFrameInterval(raw); ok {
		s.frameInterval = d
	}
}

func (s *Session) BlurFrameInterval() {
	d, ok := parseFrameInterval(s.frameIntervalInput)
	if !ok {
		d = s.frameInterval
	}
	s.frameInterval = d
	s.frameIntervalInput = strconv.FormatInt(d.Milliseconds(), 10)
}

func parseFrameInterval(raw string) (time.Duration, bool) {
	ms, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	d := time.Duration(ms) * time.Millisecond
	if d < MinFrameInterval {
		return 0, false
	}
	return d, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
