package annotation

import "math"

func (s *Session) CurrentFrame() int { return s.currentFrame }

func (s *Session) CurrentTime() float64 { return s.currentTime }

func (s *Session) setFrame(frame int) {
	s.currentFrame = frame
	s.currentTime = float64(frame) / s.frameRate
}

// StepFrame moves one frame in dir. Steps that would leave
// [0, MaxFrame] are ignored; it reports whether the frame changed.
func (s *Session) StepFrame(dir Direction) bool {
	if dir == Still {
		return false
	}
	next := s.currentFrame + int(dir)
	if next < 0 || next > s.MaxFrame() {
		return false
	}
	s.setFrame(next)
	return true
}

func (s *Session) SeekToFrame(frame int) {
	if frame < 0 {
		frame = 0
	}
	if last := s.MaxFrame(); frame > last {
		frame = last
	}
	s.setFrame(frame)
}

// SyncTime follows the player's own clock, snapping to the nearest frame.
// Once the duration is known the frame never passes MaxFrame.
func (s *Session) SyncTime(seconds float64) {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	frame := int(math.Round(seconds * s.frameRate))
	if last := s.MaxFrame(); s.duration > 0 && frame > last {
		frame = last
	}
	s.setFrame(frame)
}

func (s *Session) Held() Direction { return s.held }

// HoldDirection starts a continuous scrub. The caller drives it by calling
// Tick every FrameInterval until Release. It reports whether the held
// direction changed.
func (s *Session) HoldDirection(dir Direction) bool {
	if s.held == dir {
		return false
	}
	s.held = dir
	return true
}

// Tick advances one frame in the held direction.
func (s *Session) Tick() bool {
	return s.StepFrame(s.held)
}

// Release ends a continuous scrub. With a start mark pending the current
// frame becomes the draft end.
func (s *Session) Release() {
	s.held = Still
	if s.opts.AutoMarkEndOnRelease && s.draft.hasStart() {
		s.draft.End = itoa(s.currentFrame)
	}
}
