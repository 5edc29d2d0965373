// Package progress implements the cosmetic test-progress readout. The
// percentage is a function of elapsed wall-clock time through an easing
// curve, not a measurement of real completion; its one honest input is
// the "real operation finished" signal that moves the animator into the
// finishing phase.
package progress

import (
	"math"
	"sync"
	"time"
)

// Phase is the animator's state. Transitions: idle → running (Start),
// running → finishing (Finish), finishing → done (finish window elapsed),
// any → idle (Reset).
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseFinishing Phase = "finishing"
	PhaseDone      Phase = "done"
)

const (
	// DefaultMinVisible backdates the animation so fast connections still
	// see a test that feels like it did something.
	DefaultMinVisible = 8 * time.Second
	// DefaultFinishWindow is the 99→100 reveal animation length.
	DefaultFinishWindow = time.Second
)

// Animator maps elapsed time to a display percentage in [0,100]. It never
// reports more than 99 before Finish is called, and reaches exactly 100
// within the finish window afterwards. Safe for concurrent use; time is
// injected so tests run without sleeping.
type Animator struct {
	mu           sync.Mutex
	minVisible   time.Duration
	finishWindow time.Duration
	phase        Phase
	startedAt    time.Time
	finishedAt   time.Time
}

// New builds an idle animator.
func New(minVisible, finishWindow time.Duration) *Animator {
	if minVisible <= 0 {
		minVisible = DefaultMinVisible
	}
	if finishWindow <= 0 {
		finishWindow = DefaultFinishWindow
	}
	return &Animator{minVisible: minVisible, finishWindow: finishWindow, phase: PhaseIdle}
}

// Start begins a run. Starting a non-idle animator restarts it.
func (a *Animator) Start(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.phase = PhaseRunning
	a.startedAt = now
}

// Finish signals that the real operation completed. The display then
// animates 99→100 over the finish window.
func (a *Animator) Finish(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseRunning {
		return
	}
	a.phase = PhaseFinishing
	a.finishedAt = now
}

// Reset returns the animator to idle. Used on error paths so an aborted
// test never leaves a stuck readout.
func (a *Animator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.phase = PhaseIdle
}

// Observe returns the current phase and display percentage, advancing
// finishing→done when the finish window has elapsed.
func (a *Animator) Observe(now time.Time) (Phase, int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.phase {
	case PhaseIdle:
		return PhaseIdle, 0
	case PhaseRunning:
		t := now.Sub(a.startedAt).Seconds() / a.minVisible.Seconds()
		if t > 1 {
			t = 1
		}
		if t < 0 {
			t = 0
		}
		pct := int(99 * easeOutCubic(t))
		if pct > 99 {
			pct = 99
		}
		return PhaseRunning, pct
	case PhaseFinishing:
		t := now.Sub(a.finishedAt).Seconds() / a.finishWindow.Seconds()
		if t >= 1 {
			a.phase = PhaseDone
			return PhaseDone, 100
		}
		return PhaseFinishing, 99
	default:
		return PhaseDone, 100
	}
}

// easeOutCubic decelerates toward the cap so the readout crawls as it
// approaches 99 instead of slamming into it.
func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}
