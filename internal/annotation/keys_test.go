package annotation

import (
	"errors"
	"testing"
)

func press(t *testing.T, s *Session, code string) error {
	t.Helper()
	return s.HandleKey(KeyEvent{Code: code, Type: KeyDown})
}

func TestKeyboardLabelingFlow(t *testing.T) {
	s := newLoadedSession(t, 10)
	s.SeekToFrame(20)

	if err := press(t, s, "KeyS"); err != nil {
		t.Fatalf("KeyS: %v", err)
	}
	s.SeekToFrame(35)
	if err := press(t, s, "KeyE"); err != nil {
		t.Fatalf("KeyE: %v", err)
	}
	if err := press(t, s, "Digit6"); err != nil {
		t.Fatalf("Digit6: %v", err)
	}

	got := s.Intervals()
	if len(got) != 1 || got[0].Behavior != Freezing || got[0].Start != 20 || got[0].End != 35 {
		t.Errorf("Unexpected intervals %+v", got)
	}
}

func TestKeyEWithoutStartWarns(t *testing.T) {
	s := newLoadedSession(t, 10)
	if err := press(t, s, "KeyE"); !errors.Is(err, ErrNoStartMark) {
		t.Errorf("Expected ErrNoStartMark, got %v", err)
	}
}

func TestKeysIgnoredInTextInput(t *testing.T) {
	s := newLoadedSession(t, 10)

	_ = s.HandleKey(KeyEvent{Code: "KeyS", Type: KeyDown, InInput: true})
	_ = s.HandleKey(KeyEvent{Code: "Equal", Type: KeyDown, InInput: true})

	if s.Draft().State() != Idle || s.Viewport().Zoom != 1 {
		t.Errorf("Expected shortcuts ignored inside inputs, got %+v", s.Snapshot())
	}
}

func TestArrowHoldAndRelease(t *testing.T) {
	s := newLoadedSession(t, 10)
	s.SeekToFrame(4)
	_ = press(t, s, "KeyS")

	_ = press(t, s, "ArrowLeft")
	if s.Held() != Backward {
		t.Fatalf("Expected backward hold, got %d", s.Held())
	}
	s.Tick()
	s.Tick()

	if err := s.HandleKey(KeyEvent{Code: "ArrowLeft", Type: KeyUp}); err != nil {
		t.Fatalf("release: %v", err)
	}
	if s.Held() != Still {
		t.Errorf("Expected hold released")
	}
	if s.Draft().End != "2" {
		t.Errorf("Expected end auto-marked at 2, got %q", s.Draft().End)
	}

	// The release mark is an ordinary end mark: committing 4 -> 2 is inverted.
	if err := press(t, s, "Digit1"); !errors.Is(err, ErrInverted) {
		t.Errorf("Expected ErrInverted, got %v", err)
	}
}

func TestZoomKeys(t *testing.T) {
	s := newLoadedSession(t, 10)

	_ = press(t, s, "Equal")
	if s.Viewport().Zoom != 1.5 {
		t.Errorf("Expected 1.5, got %v", s.Viewport().Zoom)
	}
	_ = press(t, s, "NumpadSubtract")
	_ = press(t, s, "Minus")
	if z := s.Viewport().Zoom; z < 0.66 || z > 0.67 {
		t.Errorf("Expected ~0.667, got %v", z)
	}
	_ = press(t, s, "Digit0")
	if s.Viewport().Zoom != 1 {
		t.Errorf("Expected reset to 1, got %v", s.Viewport().Zoom)
	}
}
