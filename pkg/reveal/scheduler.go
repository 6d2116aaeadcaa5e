// Package reveal implements progressive, cancellable character-by-character
// display of a line of text.
//
// The Scheduler is an explicit resumable state object advanced by the host's
// frame tick. It never blocks or spawns goroutines, so driving N ticks in a
// test reproduces N frames exactly.
package reveal

import "time"

// DefaultDelay is the time between two revealed characters.
const DefaultDelay = 20 * time.Millisecond

// Scheduler reveals one line at a time.
// Not safe for concurrent use: it belongs to the frame loop.
type Scheduler struct {
	delay   time.Duration
	target  []rune
	shown   int
	active  bool
	elapsed time.Duration
}

// New creates a scheduler emitting one character per delay.
// A non-positive delay selects DefaultDelay.
func New(delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{delay: delay}
}

// Delay returns the per-character interval.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Start begins revealing line from an empty display.
// It is a no-op when line is already being revealed or already fully shown;
// a reveal of a different line is abandoned first.
// Returns true if a new reveal started.
func (s *Scheduler) Start(line string) bool {
	if string(s.target) == line && (s.active || s.shown == len(s.target)) {
		return false
	}

	s.target = []rune(line)
	s.shown = 0
	s.elapsed = 0
	s.active = len(s.target) > 0
	return s.active
}

// Tick advances the reveal by elapsed time. Returns true while still revealing.
func (s *Scheduler) Tick(elapsed time.Duration) bool {
	if !s.active {
		return false
	}

	s.elapsed += elapsed
	for s.elapsed >= s.delay && s.shown < len(s.target) {
		s.shown++
		s.elapsed -= s.delay
	}

	if s.shown >= len(s.target) {
		s.finish()
	}
	return s.active
}

// Skip stops the reveal and snaps the display to the full line in the same step.
// Returns false if nothing was being revealed.
func (s *Scheduler) Skip() bool {
	if !s.active {
		return false
	}
	s.finish()
	return true
}

// Reset clears the display and any reveal in progress.
func (s *Scheduler) Reset() {
	s.target = nil
	s.shown = 0
	s.elapsed = 0
	s.active = false
}

// Active reports whether a reveal is in progress.
func (s *Scheduler) Active() bool {
	return s.active
}

// Shown returns the text currently displayed.
func (s *Scheduler) Shown() string {
	return string(s.target[:s.shown])
}

// Target returns the full line being revealed (or last revealed).
func (s *Scheduler) Target() string {
	return string(s.target)
}

func (s *Scheduler) finish() {
	s.shown = len(s.target)
	s.elapsed = 0
	s.active = false
}
