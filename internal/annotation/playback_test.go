package annotation

import (
	"errors"
	"testing"
	"time"
)

func TestLoadVideoRejectsNonVideo(t *testing.T) {
	s := newLoadedSession(t, 10)
	s.SeekToFrame(42)

	err := s.LoadVideo(VideoInfo{Filename: "notes.txt", ContentType: "text/plain"})
	if !errors.Is(err, ErrNotVideo) {
		t.Fatalf("Expected ErrNotVideo, got %v", err)
	}
	if v, _ := s.Video(); v.Filename != "mouse.mp4" || s.CurrentFrame() != 42 {
		t.Errorf("Expected state unchanged, got video %q frame %d", v.Filename, s.CurrentFrame())
	}
}

func TestLoadVideoResetsSession(t *testing.T) {
	s := newLoadedSession(t, 10)
	s.SeekToFrame(3)
	s.MarkStart()
	s.SeekToFrame(9)
	_ = s.MarkEnd()
	if _, err := s.Commit(Jumping); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	s.MarkStart()
	s.ZoomIn()
	s.BeginDrag(Point{X: 10, Y: 10})
	s.DragTo(Point{X: 30, Y: 40})
	s.HoldDirection(Forward)
	s.DecodeFailed("boom")

	if err := s.LoadVideo(VideoInfo{Filename: "b.webm", ContentType: "video/webm"}); err != nil {
		t.Fatalf("LoadVideo() error = %v", err)
	}

	snap := s.Snapshot()
	if snap.CurrentFrame != 0 || snap.CurrentTime != 0 || snap.Duration != 0 {
		t.Errorf("Expected playback reset, got %+v", snap)
	}
	if snap.Intervals.Total != 0 || snap.Draft.State != Idle || snap.Held != Still {
		t.Errorf("Expected editor reset, got %+v", snap)
	}
	if snap.Viewport.Zoom != 1 || snap.Viewport.PanX != 0 || snap.Viewport.PanY != 0 || snap.Viewport.Dragging {
		t.Errorf("Expected viewport reset, got %+v", snap.Viewport)
	}
	if snap.Notice != "" {
		t.Errorf("Expected notice cleared, got %q", snap.Notice)
	}
	if snap.Video.BaseName() != "b" {
		t.Errorf("Expected base name b, got %q", snap.Video.BaseName())
	}
}

func TestStepFrameBounds(t *testing.T) {
	s := newLoadedSession(t, 1)

	if s.StepFrame(Backward) {
		t.Error("Expected step before frame 0 to be ignored")
	}
	s.SeekToFrame(30)
	if s.StepFrame(Forward) {
		t.Error("Expected step past the last frame to be ignored")
	}
	if s.CurrentFrame() != 30 {
		t.Errorf("Expected frame 30, got %d", s.CurrentFrame())
	}
	if !s.StepFrame(Backward) || s.CurrentFrame() != 29 {
		t.Errorf("Expected frame 29, got %d", s.CurrentFrame())
	}
	if want := 29.0 / 30.0; s.CurrentTime() != want {
		t.Errorf("Expected time %v, got %v", want, s.CurrentTime())
	}
}

func TestSeekAndSyncTime(t *testing.T) {
	s := newLoadedSession(t, 2)

	s.SeekToFrame(500)
	if s.CurrentFrame() != 60 {
		t.Errorf("Expected seek clamped to 60, got %d", s.CurrentFrame())
	}
	s.SeekToFrame(-4)
	if s.CurrentFrame() != 0 {
		t.Errorf("Expected seek clamped to 0, got %d", s.CurrentFrame())
	}

	s.SyncTime(1.01)
	if s.CurrentFrame() != 30 {
		t.Errorf("Expected frame 30 for 1.01s, got %d", s.CurrentFrame())
	}
	s.SyncTime(1.02)
	if s.CurrentFrame() != 31 {
		t.Errorf("Expected frame 31 for 1.02s, got %d", s.CurrentFrame())
	}
}

func TestSyncTimeStopsAtLastFrame(t *testing.T) {
	s := newLoadedSession(t, 10.02)
	if s.MaxFrame() != 300 {
		t.Fatalf("Expected max frame 300, got %d", s.MaxFrame())
	}

	s.SeekToFrame(100)
	s.MarkStart()
	s.SyncTime(10.02)
	if s.CurrentFrame() != 300 {
		t.Fatalf("Expected frame clamped to 300, got %d", s.CurrentFrame())
	}
	if err := s.MarkEnd(); err != nil {
		t.Fatalf("MarkEnd() error = %v", err)
	}
	iv, err := s.Commit(Behaviors[0])
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if iv.Start != 100 || iv.End != 300 {
		t.Errorf("Expected interval 100-300, got %+v", iv)
	}
}

func TestReleaseMarksEnd(t *testing.T) {
	s := newLoadedSession(t, 10)
	s.SeekToFrame(10)
	s.MarkStart()

	s.HoldDirection(Forward)
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	s.Release()

	d := s.Draft()
	if d.Start != "10" || d.End != "15" {
		t.Errorf("Expected draft 10-15, got %+v", d)
	}
	if s.Held() != Still {
		t.Errorf("Expected scrub released, got %d", s.Held())
	}
}

func TestReleaseWithoutAutoMark(t *testing.T) {
	opts := DefaultOptions()
	opts.AutoMarkEndOnRelease = false
	s := NewSession(opts)
	_ = s.LoadVideo(VideoInfo{Filename: "a.mp4", ContentType: "video/mp4"})
	_ = s.SetDuration(5)

	s.MarkStart()
	s.HoldDirection(Forward)
	s.Tick()
	s.Release()

	if s.Draft().End != "" {
		t.Errorf("Expected no end mark, got %q", s.Draft().End)
	}
}

func TestFrameRateEditing(t *testing.T) {
	s := newLoadedSession(t, 10)
	s.SeekToFrame(60)

	s.SetFrameRateInput("abc")
	if s.FrameRate() != 30 {
		t.Fatalf("Expected frame rate unchanged while typing, got %v", s.FrameRate())
	}
	s.BlurFrameRate()
	if snap := s.Snapshot(); snap.FrameRate != 30 || snap.FrameRateInput != "30" {
		t.Errorf("Expected input coerced to 30, got %v %q", snap.FrameRate, snap.FrameRateInput)
	}

	s.SetFrameRateInput("25")
	s.BlurFrameRate()
	if s.FrameRate() != 25 || s.CurrentFrame() != 50 {
		t.Errorf("Expected 25 fps at frame 50, got %v fps frame %d", s.FrameRate(), s.CurrentFrame())
	}

	s.SetFrameRateInput("0.5")
	s.BlurFrameRate()
	if s.FrameRate() != 25 {
		t.Errorf("Expected last valid 25, got %v", s.FrameRate())
	}
}

func TestFrameIntervalEditing(t *testing.T) {
	s := NewSession(DefaultOptions())

	s.SetFrameIntervalInput("5")
	s.BlurFrameInterval()
	if s.FrameInterval() != 100*time.Millisecond {
		t.Errorf("Expected 100ms, got %v", s.FrameInterval())
	}

	s.SetFrameIntervalInput("40")
	s.BlurFrameInterval()
	if s.FrameInterval() != 40*time.Millisecond {
		t.Errorf("Expected 40ms, got %v", s.FrameInterval())
	}

	s.SetFrameIntervalInput("")
	s.BlurFrameInterval()
	if snap := s.Snapshot(); snap.FrameIntervalMS != 40 || snap.FrameIntervalInput != "40" {
		t.Errorf("Expected 40ms kept, got %d %q", snap.FrameIntervalMS, snap.FrameIntervalInput)
	}
}

func TestSetDurationRejectsNonPositive(t *testing.T) {
	s := NewSession(DefaultOptions())
	if err := s.SetDuration(0); err == nil {
		t.Error("Expected error for zero duration")
	}
	if s.MaxFrame() != 0 {
		t.Errorf("Expected max frame 0 without duration, got %d", s.MaxFrame())
	}
}

func TestMaxFrame(t *testing.T) {
	tests := []struct {
		duration float64
		fps      float64
		want     int
	}{
		{10, 30, 300},
		{0, 30, 0},
		{1.0 / 3, 30, 10},
		{2.5, 29.97, 74},
		{0.1, 30, 3},
	}

	for _, tt := range tests {
		if got := MaxFrame(tt.duration, tt.fps); got != tt.want {
			t.Errorf("MaxFrame(%v, %v) = %d, want %d", tt.duration, tt.fps, got, tt.want)
		}
	}
}
