package annotation

import (
	"fmt"
	"strconv"
	"strings"
)

type DraftState string

const (
	Idle    DraftState = "idle"
	Started DraftState = "started"
	Ready   DraftState = "ready"
)

// Draft is the interval under construction. Start and End hold form text:
// either a marked frame number or whatever the user typed.
type Draft struct {
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Behavior Behavior `json:"behavior"`
}

func newDraft() Draft {
	return Draft{Behavior: Behaviors[0]}
}

func (d Draft) hasStart() bool { return d.Start != "" }

func (d Draft) State() DraftState {
	switch {
	case d.Start == "":
		return Idle
	case d.End == "":
		return Started
	default:
		return Ready
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

func (s *Session) Draft() Draft { return s.draft }

func (s *Session) MarkStart() {
	s.draft.Start = itoa(s.currentFrame)
	s.draft.End = ""
}

func (s *Session) MarkEnd() error {
	if !s.draft.hasStart() {
		return ErrNoStartMark
	}
	s.draft.End = itoa(s.currentFrame)
	return nil
}

// SetDraftStart edits the start field directly. Clearing it drops the
// pending start and the end with it.
func (s *Session) SetDraftStart(raw string) {
	_ = s.EditDraft(&raw, nil, nil)
}

func (s *Session) SetDraftEnd(raw string) error {
	return s.EditDraft(nil, &raw, nil)
}

// EditDraft applies form edits in field order: start, end, behavior. The
// draft changes only if every edit is accepted.
func (s *Session) EditDraft(start, end *string, b *Behavior) error {
	d := s.draft
	if start != nil {
		d.Start = strings.TrimSpace(*start)
		if d.Start == "" {
			d.End = ""
		}
	}
	if end != nil {
		if !d.hasStart() {
			return ErrNoStartMark
		}
		d.End = strings.TrimSpace(*end)
	}
	if b != nil {
		if _, err := ParseBehavior(string(*b)); err != nil {
			return err
		}
		d.Behavior = *b
	}
	s.draft = d
	return nil
}

// Commit validates the draft and appends it as an interval labeled b. On
// failure the draft and the interval list are left untouched.
func (s *Session) Commit(b Behavior) (Interval, error) {
	if _, err := ParseBehavior(string(b)); err != nil {
		return Interval{}, err
	}
	if s.draft.State() == Started {
		return Interval{}, fmt.Errorf("%w: end frame not marked", ErrNotNumeric)
	}
	start, errStart := strconv.Atoi(s.draft.Start)
	end, errEnd := strconv.Atoi(s.draft.End)
	if errStart != nil || errEnd != nil {
		return Interval{}, ErrNotNumeric
	}
	maxFrame := s.MaxFrame()
	if start < 0 || end > maxFrame {
		return Interval{}, fmt.Errorf("%w: frames must be between 0 and %d", ErrOutOfRange, maxFrame)
	}
	if start >= end {
		return Interval{}, ErrInverted
	}

	iv := Interval{
		Start:     start,
		End:       end,
		StartTime: float64(start) / s.frameRate,
		EndTime:   float64(end) / s.frameRate,
		Behavior:  b,
		Auto:      false,
	}
	s.store.Append(iv)
	s.draft = newDraft()
	s.store.SetPage(0)
	return iv, nil
}

// CommitDigit is the 1-6 shortcut: it selects the behavior and commits in one
// step. Without a start and an end mark the key does nothing.
func (s *Session) CommitDigit(digit int) (Interval, bool, error) {
	b, ok := BehaviorForDigit(digit)
	if !ok || s.draft.State() != Ready {
		return Interval{}, false, nil
	}
	s.draft.Behavior = b
	iv, err := s.Commit(b)
	if err != nil {
		return Interval{}, false, err
	}
	return iv, true, nil
}

func (s *Session) UpdateBehavior(index int, b Behavior) error {
	if _, err := ParseBehavior(string(b)); err != nil {
		return err
	}
	return s.store.UpdateBehavior(index, b)
}

func (s *Session) RemoveInterval(index int) error {
	return s.store.Remove(index)
}

func (s *Session) Intervals() []Interval { return s.store.All() }

func (s *Session) Page() PageView { return s.store.View() }

func (s *Session) NextPage() { s.store.NextPage() }

func (s *Session) PrevPage() { s.store.PrevPage() }

// RestoreIntervals replaces the interval list, typically from an imported
// export. Every interval is checked against the current frame bounds; on any
// failure nothing is replaced.
func (s *Session) RestoreIntervals(ivs []Interval) error {
	maxFrame := s.MaxFrame()
	for i, iv := range ivs {
		if _, err := ParseBehavior(string(iv.Behavior)); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		if iv.Start < 0 || iv.End > maxFrame {
			return fmt.Errorf("row %d: %w: frames must be between 0 and %d", i+1, ErrOutOfRange, maxFrame)
		}
		if iv.Start >= iv.End {
			return fmt.Errorf("row %d: %w", i+1, ErrInverted)
		}
	}
	s.store.Reset()
	for _, iv := range ivs {
		iv.StartTime = float64(iv.Start) / s.frameRate
		iv.EndTime = float64(iv.End) / s.frameRate
		s.store.Append(iv)
	}
	return nil
}
