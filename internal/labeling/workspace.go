package labeling

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kdimtricp/vlabel/internal/annotation"
)

const subscriberBuffer = 16

// Workspace owns one annotation session. Every mutation goes through Do, so
// HTTP handlers, the scrub task and the duration probe never interleave.
type Workspace struct {
	ID        string
	CreatedAt time.Time

	ctx     context.Context
	mu      sync.Mutex
	session *annotation.Session

	scrubCancel context.CancelFunc
	done        bool

	subsMu sync.Mutex
	subs   map[chan annotation.Snapshot]struct{}
	closed bool
}

func newWorkspace(ctx context.Context, id string, opts annotation.Options) *Workspace {
	return &Workspace{
		ID:        id,
		CreatedAt: time.Now(),
		ctx:       ctx,
		session:   annotation.NewSession(opts),
		subs:      make(map[chan annotation.Snapshot]struct{}),
	}
}

// Do runs fn against the session, starts or stops the scrub task to match
// the held direction, and broadcasts the resulting snapshot. A closed
// workspace runs nothing.
func (w *Workspace) Do(fn func(s *annotation.Session) error) (annotation.Snapshot, error) {
	w.mu.Lock()
	if w.done {
		snap := w.session.Snapshot()
		w.mu.Unlock()
		return snap, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, w.ID)
	}
	err := fn(w.session)
	w.syncScrubLocked()
	snap := w.session.Snapshot()
	w.mu.Unlock()

	w.publish(snap)
	return snap, err
}

// View runs a read-only fn against the session.
func (w *Workspace) View(fn func(s *annotation.Session)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.session)
}

func (w *Workspace) Snapshot() annotation.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Snapshot()
}

func (w *Workspace) syncScrubLocked() {
	held := w.session.Held()
	switch {
	case held != annotation.Still && w.scrubCancel == nil:
		ctx, cancel := context.WithCancel(w.ctx)
		w.scrubCancel = cancel
		go w.runScrub(ctx)
	case held == annotation.Still && w.scrubCancel != nil:
		w.scrubCancel()
		w.scrubCancel = nil
	}
}

// runScrub steps one frame per frame interval until its context is
// cancelled. The interval is re-read on every tick so edits apply mid-hold.
func (w *Workspace) runScrub(ctx context.Context) {
	log.Printf("[SCRUB] Workspace %s: scrub started", w.ID)
	defer log.Printf("[SCRUB] Workspace %s: scrub stopped", w.ID)

	for {
		w.mu.Lock()
		interval := w.session.FrameInterval()
		w.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		w.mu.Lock()
		if ctx.Err() != nil {
			w.mu.Unlock()
			return
		}
		moved := w.session.Tick()
		snap := w.session.Snapshot()
		w.mu.Unlock()

		if moved {
			w.publish(snap)
		}
	}
}

// Subscribe returns a channel of snapshots published after the call. Slow
// subscribers miss intermediate snapshots rather than blocking the session,
// but the newest one is always delivered.
func (w *Workspace) Subscribe() (<-chan annotation.Snapshot, func()) {
	ch := make(chan annotation.Snapshot, subscriberBuffer)

	w.subsMu.Lock()
	if w.closed {
		close(ch)
	} else {
		w.subs[ch] = struct{}{}
	}
	w.subsMu.Unlock()

	cancel := func() {
		w.subsMu.Lock()
		defer w.subsMu.Unlock()
		if _, ok := w.subs[ch]; ok {
			delete(w.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (w *Workspace) publish(snap annotation.Snapshot) {
	w.subsMu.Lock()
	defer w.subsMu.Unlock()

	for ch := range w.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Full: drop the oldest to make room.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close stops the scrub task and ends every subscription.
func (w *Workspace) Close() {
	w.mu.Lock()
	w.done = true
	if w.scrubCancel != nil {
		w.scrubCancel()
		w.scrubCancel = nil
	}
	w.mu.Unlock()

	w.subsMu.Lock()
	defer w.subsMu.Unlock()
	w.closed = true
	for ch := range w.subs {
		delete(w.subs, ch)
		close(ch)
	}
}
