// Package pipeline orchestrates the interpreter workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/clock"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/host/headless"
	"github.com/retroenv/retrochip8/internal/host/sdl"
	"github.com/retroenv/retrochip8/internal/host/terminal"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/wavrec"
	"github.com/retroenv/retrogolib/log"
)

// sdlScale is the size of a display pixel in window pixels.
const sdlScale = 10

// Host is a clock host that holds resources until closed.
type Host interface {
	clock.Host
	Close() error
}

// Pipeline orchestrates the complete interpreter workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new interpreter pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the ROM referenced by the options on the host selected by the
// options. Output receives the listing in list mode and the final display of
// the headless host. The machine state is returned after the run ended, it is
// nil in list mode.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, output io.Writer) (*machine.State, error) {
	system, err := p.detector.Detect(opts)
	if err != nil {
		return nil, fmt.Errorf("detecting system: %w", err)
	}

	if opts.List {
		return nil, p.list(opts, output)
	}

	state := machine.New()
	if err := p.loader.Load(opts, state); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	host, err := p.createHost(opts, output)
	if err != nil {
		return nil, fmt.Errorf("creating %s host: %w", opts.Host, err)
	}

	if !opts.Quiet {
		p.logger.Info("Running CHIP-8 ROM",
			log.String("file", opts.Input),
			log.String("system", string(system)),
			log.String("host", opts.Host))
	}

	err = p.ExecuteWithHost(ctx, opts, state, host)
	if closeErr := host.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("closing host: %w", closeErr)
	}
	return state, err
}

// ExecuteWithHost runs a loaded machine state on the given host.
// This is useful for testing and programmatic usage where the program is
// already in memory. The host is not closed.
func (p *Pipeline) ExecuteWithHost(ctx context.Context, opts options.Program, state *machine.State, host clock.Host) error {
	if opts.StepsPerFrame <= 0 {
		return fmt.Errorf("invalid steps per frame %d, must be positive", opts.StepsPerFrame)
	}
	if opts.FrameRate <= 0 {
		return fmt.Errorf("invalid frame rate %d, must be positive", opts.FrameRate)
	}

	breakpoints, err := clock.ParseBreakpoints(opts.Breakpoints)
	if err != nil {
		return fmt.Errorf("parsing breakpoints: %w", err)
	}

	fb := framebuffer.New()
	keys := keypad.New(p.logger, state)
	interpreter := cpu.New(p.logger, state, fb, keys, newRandom(opts.Seed), cpu.Options{
		Quirks: opts.Quirks,
		Trace:  opts.Debug,
	})

	cfg := clock.Config{
		StepsPerFrame: opts.StepsPerFrame,
		FrameRate:     opts.FrameRate,
		Breakpoints:   breakpoints,
	}

	var recorder *wavrec.Recorder
	if opts.Wav != "" {
		recorder, err = wavrec.New(p.logger, opts.Wav, opts.FrameRate)
		if err != nil {
			return fmt.Errorf("creating sound recorder: %w", err)
		}
		cfg.Speakers = append(cfg.Speakers, recorder)
	}

	driver := clock.New(p.logger, state, interpreter, fb, keys, host, cfg)
	err = p.run(ctx, driver)

	if recorder != nil {
		if closeErr := recorder.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing sound recorder: %w", closeErr)
		}
	}

	if opts.DumpState != "" {
		if dumpErr := dumpState(opts.DumpState, state, fb.Snapshot()); dumpErr != nil && err == nil {
			err = fmt.Errorf("dumping machine state: %w", dumpErr)
		}
	}

	return err
}

// run runs the driver, a reached breakpoint ends the run without an error.
func (p *Pipeline) run(ctx context.Context, driver *clock.Driver) error {
	err := driver.Run(ctx)

	var breakErr *clock.BreakpointError
	switch {
	case err == nil:
		p.logger.Debug("Run ended", log.Int("frames", driver.Frames()))
		return nil

	case errors.As(err, &breakErr):
		p.logger.Debug("Run stopped at breakpoint", log.Int("frames", driver.Frames()))
		return nil

	default:
		return fmt.Errorf("running program: %w", err)
	}
}

// list writes a disassembly listing of the program.
func (p *Pipeline) list(opts options.Program, output io.Writer) error {
	code, err := p.loader.ReadProgram(opts.Input)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	if err := chip8.WriteListing(output, code, machine.ProgramStart); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// createHost creates the host selected by the options.
func (p *Pipeline) createHost(opts options.Program, output io.Writer) (Host, error) {
	switch opts.Host {
	case options.HostHeadless:
		return headless.New(p.logger, output, opts.Frames), nil

	case options.HostTerminal:
		host, err := terminal.New(p.logger, os.Stdin, os.Stdout, keypad.DefaultLayout)
		if err != nil {
			return nil, err
		}
		return host, nil

	case options.HostSDL:
		host, err := sdl.New(p.logger, sdlScale, opts.FrameRate, keypad.DefaultLayout)
		if err != nil {
			return nil, err
		}
		return host, nil

	default:
		return nil, fmt.Errorf("unsupported host '%s'", opts.Host)
	}
}

// newRandom returns the random source of Cxnn, seeded with the current time
// if no seed is set.
func newRandom(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // not used for security
}
