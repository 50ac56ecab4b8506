package charify

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// MinFrameDelay is the playback floor: no frame displays for less than
// this, even if the source declares a shorter or zero delay.
const MinFrameDelay = 20 * time.Millisecond

// RenderedFrame pairs one frame's character art with its display delay.
type RenderedFrame struct {
	Text  string
	Delay time.Duration
}

type PlayerOption func(p *Player)

// WithLooping repeats playback indefinitely instead of a single pass.
func WithLooping() PlayerOption {
	return func(p *Player) {
		p.loop = true
	}
}

// WithMinDelay replaces the per-frame delay floor.
func WithMinDelay(d time.Duration) PlayerOption {
	return func(p *Player) {
		p.minDelay = d
	}
}

// WithTerminal replaces the cursor-control implementation.
func WithTerminal(term Terminal) PlayerOption {
	return func(p *Player) {
		p.term = term
	}
}

// WithSleepFunc replaces the real clock. For tests.
func WithSleepFunc(sleep func(time.Duration)) PlayerOption {
	return func(p *Player) {
		p.sleep = sleep
	}
}

// Player draws rendered frames to a terminal. Playback is single-threaded
// and blocking: the only suspension point is the timed sleep between frames.
type Player struct {
	w        io.Writer
	term     Terminal
	minDelay time.Duration
	loop     bool
	sleep    func(time.Duration)
}

func NewPlayer(w io.Writer, opts ...PlayerOption) *Player {
	p := Player{
		w:        w,
		minDelay: MinFrameDelay,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.term == nil {
		p.term = &Xterm{Writer: w}
	}
	return &p
}

type flusher interface {
	Flush() error
}

// Show prints a still frame once, with no cursor control.
func (p *Player) Show(frame RenderedFrame) error {
	if _, err := io.WriteString(p.w, frame.Text); err != nil {
		return err
	}
	return p.flush()
}

// Play clears the screen once, then draws each frame in place: home the
// cursor (no clear, to avoid flicker), print, flush, and sleep for the
// frame's effective delay. One full pass unless looping is enabled, in
// which case passes repeat until the process is interrupted.
func (p *Player) Play(frames []RenderedFrame) error {
	p.term.ShowCursor(false)
	defer p.term.ShowCursor(true)
	go p.handleInterrupt()

	p.term.Clear()
	for {
		if err := p.playPass(frames); err != nil {
			return err
		}
		if !p.loop {
			return nil
		}
	}
}

func (p *Player) playPass(frames []RenderedFrame) error {
	for _, frame := range frames {
		p.term.Home()
		if _, err := io.WriteString(p.w, frame.Text); err != nil {
			return err
		}
		if err := p.flush(); err != nil {
			return err
		}
		p.sleep(p.effectiveDelay(frame.Delay))
	}
	return nil
}

// effectiveDelay applies the minimum-delay floor.
func (p *Player) effectiveDelay(d time.Duration) time.Duration {
	if d < p.minDelay {
		return p.minDelay
	}
	return d
}

func (p *Player) flush() error {
	if f, ok := p.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// handleInterrupt restores the cursor before the process dies on SIGINT or
// SIGTERM, then re-raises the signal.
func (p *Player) handleInterrupt() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	s := <-signals
	p.term.ShowCursor(true)
	p.flush()
	signal.Stop(signals)
	if signum, ok := s.(syscall.Signal); ok {
		syscall.Kill(syscall.Getpid(), signum)
	} else {
		panic(fmt.Sprintf("unexpected signal: %v", s))
	}
}
