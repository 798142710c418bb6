// Package clock drives the interpreter at a fixed number of instructions per
// frame and ticks the delay and sound timers at 60 Hz, independent of the
// instruction throughput and the frame rate.
package clock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// TimerFrequency is the rate at which the delay and sound timers count down.
const TimerFrequency = 60

// TimerPeriod is the duration between two timer ticks.
const TimerPeriod = time.Second / TimerFrequency

// ErrQuit is returned by Frame when the host requested to stop.
var ErrQuit = errors.New("quit requested")

// BreakpointError is returned when execution reaches a breakpoint address.
type BreakpointError struct {
	Address uint16
}

func (e *BreakpointError) Error() string {
	return fmt.Sprintf("breakpoint reached at $%03X", e.Address)
}

// Host renders frames, plays sound and provides the keypad input.
type Host interface {
	Render(frame framebuffer.Frame) error
	Sound(on bool)
	PollInput() (held keypad.State, quit bool, err error)
}

// Speaker receives the sound signal once per frame.
type Speaker interface {
	Sound(on bool)
}

// Stepper executes a single instruction.
type Stepper interface {
	Step() error
}

// Display provides the framebuffer content.
type Display interface {
	Snapshot() framebuffer.Frame
}

// Keypad receives the held keys once per frame.
type Keypad interface {
	Refresh(held keypad.State) error
}

// Config contains the cadence settings of the driver.
type Config struct {
	StepsPerFrame int
	FrameRate     int
	Breakpoints   set.Set[uint16]
	Speakers      []Speaker // additional receivers of the sound signal
}

// Driver runs the frame loop.
type Driver struct {
	logger  *log.Logger
	state   *machine.State
	cpu     Stepper
	display Display
	keypad  Keypad
	host    Host
	cfg     Config

	timerElapsed time.Duration // elapsed time not yet consumed by timer ticks
	frames       int
}

// New returns a new driver.
func New(logger *log.Logger, state *machine.State, cpu Stepper, display Display,
	keypad Keypad, host Host, cfg Config) *Driver {

	return &Driver{
		logger:  logger,
		state:   state,
		cpu:     cpu,
		display: display,
		keypad:  keypad,
		host:    host,
		cfg:     cfg,
	}
}

// Run executes frames paced by a limiter until the context is cancelled, the
// host requests to quit, a breakpoint is reached or an error occurs.
// Cancellation and quit requests end the run without an error.
func (d *Driver) Run(ctx context.Context) error {
	limiter := NewLimiter(d.cfg.FrameRate)
	defer limiter.Stop()

	last := time.Now()
	for {
		if ctx.Err() != nil {
			return nil
		}

		now := time.Now()
		err := d.Frame(now.Sub(last))
		last = now
		switch {
		case errors.Is(err, ErrQuit):
			d.logger.Debug("Quit requested", log.Int("frames", d.frames))
			return nil
		case err != nil:
			return err
		}

		if err := limiter.Wait(ctx); err != nil {
			return nil //nolint:nilerr // cancellation is a regular stop
		}
	}
}

// RunFrames executes count frames without pacing, each frame advancing the
// timers by exactly one tick.
func (d *Driver) RunFrames(count int) error {
	for range count {
		if err := d.Frame(TimerPeriod); err != nil {
			return err
		}
	}
	return nil
}

// Frame executes a single frame. The elapsed time since the previous frame
// determines how many timer ticks are applied.
func (d *Driver) Frame(elapsed time.Duration) error {
	held, quit, err := d.host.PollInput()
	if err != nil {
		return fmt.Errorf("polling input: %w", err)
	}
	if quit {
		return ErrQuit
	}
	if err := d.keypad.Refresh(held); err != nil {
		return fmt.Errorf("refreshing keypad: %w", err)
	}

	for range d.cfg.StepsPerFrame {
		if err := d.checkBreakpoint(); err != nil {
			return err
		}
		if err := d.cpu.Step(); err != nil {
			return fmt.Errorf("frame %d: %w", d.frames, err)
		}
	}

	d.tickTimers(elapsed)

	if err := d.host.Render(d.display.Snapshot()); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	sound := d.state.SoundTimer() > 0
	d.host.Sound(sound)
	for _, speaker := range d.cfg.Speakers {
		speaker.Sound(sound)
	}

	d.frames++
	return nil
}

// Frames returns the number of completed frames.
func (d *Driver) Frames() int {
	return d.frames
}

func (d *Driver) checkBreakpoint() error {
	pc := d.state.PC()
	if _, ok := d.cfg.Breakpoints[pc]; !ok {
		return nil
	}

	d.logger.Info("Breakpoint reached",
		log.Hex("address", pc),
		log.Hex("index", d.state.Index()),
		log.Int("frame", d.frames))
	return &BreakpointError{Address: pc}
}

func (d *Driver) tickTimers(elapsed time.Duration) {
	d.timerElapsed += elapsed
	for d.timerElapsed >= TimerPeriod {
		d.timerElapsed -= TimerPeriod
		d.state.DecrementDelayTimer()
		d.state.DecrementSoundTimer()
	}
}
