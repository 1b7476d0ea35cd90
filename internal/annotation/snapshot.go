package annotation

type DraftView struct {
	Draft
	State DraftState `json:"state"`
}

// Snapshot is the full render state of a session.
type Snapshot struct {
	Video              *VideoInfo `json:"video"`
	Duration           float64    `json:"duration"`
	FrameRate          float64    `json:"frameRate"`
	FrameRateInput     string     `json:"frameRateInput"`
	FrameIntervalMS    int64      `json:"frameIntervalMs"`
	FrameIntervalInput string     `json:"frameIntervalInput"`
	MaxFrame           int        `json:"maxFrame"`
	CurrentFrame       int        `json:"currentFrame"`
	CurrentTime        float64    `json:"currentTime"`
	Held               Direction  `json:"held"`
	Draft              DraftView  `json:"draft"`
	Intervals          PageView   `json:"intervals"`
	Viewport           Viewport   `json:"viewport"`
	Notice             string     `json:"notice,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Duration:           s.duration,
		FrameRate:          s.frameRate,
		FrameRateInput:     s.frameRateInput,
		FrameIntervalMS:    s.frameInterval.Milliseconds(),
		FrameIntervalInput: s.frameIntervalInput,
		MaxFrame:           s.MaxFrame(),
		CurrentFrame:       s.currentFrame,
		CurrentTime:        s.currentTime,
		Held:               s.held,
		Draft:              DraftView{Draft: s.draft, State: s.draft.State()},
		Intervals:          s.store.View(),
		Viewport:           s.viewport,
		Notice:             s.notice,
	}
	if s.video != nil {
		v := *s.video
		snap.Video = &v
	}
	return snap
}
