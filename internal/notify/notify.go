// Package notify implements the shared notification region: one notice at a
// time, auto-dismissed after a fixed window. A new notice preempts the
// previous dismiss timer; there is no queue.
package notify

import (
	"sync"
	"time"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Board is the single shared notice slot.
type Board struct {
	mu     sync.Mutex
	window time.Duration

	notice *Notice
	timer  *time.Timer
	busy   bool
}

func NewBoard(window time.Duration) *Board {
	return &Board{window: window}
}

// Post replaces the current notice and restarts the dismiss window.
// Last write wins.
func (b *Board) Post(kind Kind, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}

	b.notice = &Notice{Kind: kind, Message: message}
	b.timer = time.AfterFunc(b.window, b.dismiss)
}

func (b *Board) dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = nil
	b.timer = nil
}

// Current returns the visible notice, or nil after dismissal.
func (b *Board) Current() *Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.notice
}

// BeginBusy marks a submission in flight (submit control disabled).
func (b *Board) BeginBusy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = true
}

// EndBusy reverts the loading state. Callers defer this so the state is
// cleared on every exit path.
func (b *Board) EndBusy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = false
}

func (b *Board) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}
