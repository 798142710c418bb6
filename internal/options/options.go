// Package options contains the program options.
package options

import (
	"github.com/retroenv/retrochip8/internal/config"
)

// Host names selectable with the -host flag.
const (
	HostTerminal = "terminal"
	HostHeadless = "headless"
	HostSDL      = "sdl"
)

// Defaults of the cadence options.
const (
	DefaultStepsPerFrame = 15
	DefaultFrameRate     = 60
)

// Parameters contains file path options.
type Parameters struct {
	Input     string // ROM file to run
	Font      string // optional 80 byte font file, built-in font if empty
	Wav       string // optional WAV recording of the sound signal
	DumpState string // optional graphviz file of the final machine state
}

// Flags contains behavior options.
type Flags struct {
	System        string // target system, auto-detected from the file extension if empty
	Host          string // terminal, headless or sdl
	StepsPerFrame int    // instructions executed per frame
	FrameRate     int    // frames per second
	Frames        int    // headless host: stop after this many frames, 0 runs until cancelled
	Seed          int64  // random seed for Cxnn, 0 is time based
	Breakpoints   string // comma separated hex addresses
	List          bool   // print a disassembly listing of the ROM and exit
	Debug         bool
	Quiet         bool
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags

	Quirks config.Quirks
}
