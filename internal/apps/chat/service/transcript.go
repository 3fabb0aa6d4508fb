package service

import (
	"sync"
	"time"

	"mediconnect-backend/internal/apps/chat/models"
	"mediconnect-backend/internal/common/clock"

	"github.com/google/uuid"
)

// Reveal cadences, one rune per interval
const (
	AssistantRevealInterval = 30 * time.Millisecond
	WelcomeRevealInterval   = 50 * time.Millisecond
)

// Transcript is the ordered list of turns for one session. At most one turn
// is revealing at any time; starting a new reveal finalizes the previous one.
type Transcript struct {
	mu         sync.Mutex
	clock      clock.Clock
	sessionID  uuid.UUID
	turns      []*models.ChatTurn
	active     *RevealHandle
	onFinalize func(models.ChatTurn)
	subs       map[int]chan struct{}
	nextSub    int
	closed     bool
}

// RevealHandle controls one in-progress reveal.
type RevealHandle struct {
	transcript *Transcript
	turn       *models.ChatTurn
	job        clock.Job
	done       bool
}

// NewTranscript creates an empty transcript. onFinalize, if set, receives a
// copy of every turn once it stops revealing.
func NewTranscript(clk clock.Clock, sessionID uuid.UUID, onFinalize func(models.ChatTurn)) *Transcript {
	return &Transcript{
		clock:      clk,
		sessionID:  sessionID,
		onFinalize: onFinalize,
		subs:       make(map[int]chan struct{}),
	}
}

// Append adds a fully revealed turn, finalizing any active reveal first.
func (t *Transcript) Append(role models.Role, text string) models.ChatTurn {
	t.mu.Lock()
	var finalized []models.ChatTurn
	if t.active != nil {
		finalized = append(finalized, t.finishLocked(t.active))
	}
	turn := t.newTurnLocked(role, text)
	turn.RevealedLength = turn.Length()
	finalized = append(finalized, *turn)
	t.notifyLocked()
	t.mu.Unlock()

	t.emit(finalized)
	return *turn
}

// BeginReveal appends a turn for text and reveals it one rune per interval.
// An active reveal is jumped to its full text before this one starts.
func (t *Transcript) BeginReveal(role models.Role, text string, interval time.Duration) *RevealHandle {
	t.mu.Lock()
	var finalized []models.ChatTurn
	if t.active != nil {
		finalized = append(finalized, t.finishLocked(t.active))
	}

	turn := t.newTurnLocked(role, text)
	h := &RevealHandle{transcript: t, turn: turn}

	switch {
	case t.closed:
		h.done = true
	case turn.Length() == 0:
		finalized = append(finalized, t.finishLocked(h))
	default:
		turn.IsRevealing = true
		t.active = h
		h.job = t.clock.Every(interval, h.tick)
	}
	t.notifyLocked()
	t.mu.Unlock()

	t.emit(finalized)
	return h
}

func (t *Transcript) newTurnLocked(role models.Role, text string) *models.ChatTurn {
	turn := &models.ChatTurn{
		ID:        uuid.New(),
		SessionID: t.sessionID,
		Seq:       len(t.turns),
		Role:      role,
		FullText:  text,
		CreatedAt: t.clock.Now(),
	}
	t.turns = append(t.turns, turn)
	return turn
}

// finishLocked completes h and returns a copy of its final turn.
func (t *Transcript) finishLocked(h *RevealHandle) models.ChatTurn {
	h.done = true
	if h.job != nil {
		h.job.Stop()
	}
	h.turn.RevealedLength = h.turn.Length()
	h.turn.IsRevealing = false
	if t.active == h {
		t.active = nil
	}
	return *h.turn
}

func (h *RevealHandle) tick() {
	t := h.transcript
	t.mu.Lock()
	if h.done {
		t.mu.Unlock()
		return
	}

	h.turn.RevealedLength++
	var finalized []models.ChatTurn
	if h.turn.RevealedLength >= h.turn.Length() {
		finalized = append(finalized, t.finishLocked(h))
	}
	t.notifyLocked()
	t.mu.Unlock()

	t.emit(finalized)
}

// Skip shows the full text at once and cancels the pending ticks.
// It is a no-op once the reveal has finished.
func (t *Transcript) Skip(h *RevealHandle) {
	if h == nil {
		return
	}
	t.mu.Lock()
	if h.done {
		t.mu.Unlock()
		return
	}
	final := t.finishLocked(h)
	t.notifyLocked()
	t.mu.Unlock()

	t.emit([]models.ChatTurn{final})
}

// SkipActive skips the current reveal, reporting whether one was running.
func (t *Transcript) SkipActive() bool {
	t.mu.Lock()
	h := t.active
	t.mu.Unlock()
	if h == nil {
		return false
	}
	t.Skip(h)
	return true
}

// Active returns the in-progress reveal, or nil.
func (t *Transcript) Active() *RevealHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Turns returns a snapshot of every turn.
func (t *Transcript) Turns() []models.ChatTurn {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.ChatTurn, len(t.turns))
	for i, turn := range t.turns {
		out[i] = *turn
	}
	return out
}

// Subscribe returns a channel signalled after every change. Signals are
// coalesced, so readers should take a fresh snapshot on each receive.
// The channel is closed when the transcript is closed.
func (t *Transcript) Subscribe() (<-chan struct{}, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan struct{}, 1)
	if t.closed {
		close(ch)
		return ch, func() {}
	}
	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if c, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(c)
		}
	}
}

func (t *Transcript) notifyLocked() {
	for _, ch := range t.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (t *Transcript) emit(turns []models.ChatTurn) {
	if t.onFinalize == nil {
		return
	}
	for _, turn := range turns {
		t.onFinalize(turn)
	}
}

// Close stops any pending reveal and releases subscribers. The interrupted
// turn is left as it was and is not reported as finalized.
func (t *Transcript) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	if h := t.active; h != nil {
		h.done = true
		if h.job != nil {
			h.job.Stop()
		}
		h.turn.IsRevealing = false
		t.active = nil
	}
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
}

// Turn returns a snapshot of the turn being revealed.
func (h *RevealHandle) Turn() models.ChatTurn {
	h.transcript.mu.Lock()
	defer h.transcript.mu.Unlock()
	return *h.turn
}

// Done reports whether the reveal has finished or been skipped.
func (h *RevealHandle) Done() bool {
	h.transcript.mu.Lock()
	defer h.transcript.mu.Unlock()
	return h.done
}

// CanSkip reports whether skip should be offered: the reveal is running and
// more than SkipThreshold runes are visible.
func (h *RevealHandle) CanSkip() bool {
	h.transcript.mu.Lock()
	defer h.transcript.mu.Unlock()
	return !h.done && h.turn.RevealedLength > models.SkipThreshold
}
