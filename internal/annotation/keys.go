package annotation

import "strings"

type KeyEventType string

const (
	KeyDown KeyEventType = "down"
	KeyUp   KeyEventType = "up"
)

// KeyEvent is a keyboard event forwarded by the player page. Code follows
// KeyboardEvent.code naming ("KeyS", "Digit1", "ArrowRight"...).
type KeyEvent struct {
	Code    string       `json:"code"`
	Type    KeyEventType `json:"type"`
	InInput bool         `json:"inInput"`
}

// HandleKey applies a shortcut. Keys typed into a text field are not
// shortcuts and are ignored. The returned error is a user-facing warning.
func (s *Session) HandleKey(ev KeyEvent) error {
	if ev.InInput {
		return nil
	}
	if ev.Type == KeyUp {
		if arrowDirection(ev.Code) != Still {
			s.Release()
		}
		return nil
	}

	switch code := ev.Code; {
	case code == "KeyS":
		s.MarkStart()
	case code == "KeyE":
		return s.MarkEnd()
	case code == "Digit0" || code == "Numpad0":
		s.ResetZoom()
	case strings.HasPrefix(code, "Digit") && len(code) == len("Digit1"):
		digit := int(code[len(code)-1] - '0')
		_, _, err := s.CommitDigit(digit)
		return err
	case arrowDirection(code) != Still:
		s.HoldDirection(arrowDirection(code))
	case code == "Equal" || code == "NumpadAdd":
		s.ZoomIn()
	case code == "Minus" || code == "NumpadSubtract":
		s.ZoomOut()
	}
	return nil
}

func arrowDirection(code string) Direction {
	switch code {
	case "ArrowRight":
		return Forward
	case "ArrowLeft":
		return Backward
	}
	return Still
}
