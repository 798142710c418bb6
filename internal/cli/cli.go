// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

var validHosts = []string{options.HostTerminal, options.HostHeadless, options.HostSDL}

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.Usage = func() {} // printed by UsageError.ShowUsage
	var opts options.Program
	readOptionFlags(flags, &opts)
	readQuirkFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	opts.Input = args[0]
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Println(e.msg)
		fmt.Println()
	}
	fmt.Printf("usage: retrochip8 [options] <rom.ch8>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		return &UsageError{
			msg: fmt.Sprintf("Unexpected argument %s, only one ROM file can be run", args[1]),
		}
	}
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Host = strings.ToLower(strings.TrimSpace(opts.Host))
	opts.System = strings.ToLower(strings.TrimSpace(opts.System))

	if opts.StepsPerFrame <= 0 {
		return fmt.Errorf("invalid steps per frame %d, must be positive", opts.StepsPerFrame)
	}
	if opts.FrameRate <= 0 {
		return fmt.Errorf("invalid frame rate %d, must be positive", opts.FrameRate)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("invalid frame count %d, must not be negative", opts.Frames)
	}

	for _, valid := range validHosts {
		if opts.Host == valid {
			return nil
		}
	}
	return fmt.Errorf("unsupported host: %s. Valid options: %s",
		opts.Host, strings.Join(validHosts, ", "))
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.System, "s", "", "system of the ROM (chip8) - if not auto-detected from file extension")
	flags.StringVar(&opts.Host, "host", options.HostTerminal, "host to run on (terminal/headless/sdl)")
	flags.IntVar(&opts.StepsPerFrame, "steps", options.DefaultStepsPerFrame, "instructions executed per frame")
	flags.IntVar(&opts.FrameRate, "fps", options.DefaultFrameRate, "frames per second")
	flags.IntVar(&opts.Frames, "frames", 0, "stop the headless host after this many frames, 0 runs until interrupted")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 uses the current time")
	flags.StringVar(&opts.Font, "font", "", "name of an 80 byte font file to use instead of the built-in font")
	flags.StringVar(&opts.Wav, "wav", "", "name of a .wav file to record the sound output to")
	flags.StringVar(&opts.Breakpoints, "break", "", "comma separated list of addresses to stop at, for example $200,$2A4")
	flags.StringVar(&opts.DumpState, "dump-state", "", "name of a graphviz .dot file to write the final machine state to")
	flags.BoolVar(&opts.List, "list", false, "print a disassembly listing of the ROM and exit")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging and instruction tracing")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readQuirkFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.BoolVar(&opts.Quirks.LegacyShift, "legacy-shift", false, "8xy6/8xyE copy Vy into Vx before shifting")
	flags.BoolVar(&opts.Quirks.LegacyJumpOffset, "legacy-jump", false, "Bnnn adds Vx to the jump target, x being the high nibble of nnn")
}
