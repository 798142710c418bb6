// Package loader handles ROM and font file loading operations.
package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
)

const (
	// FontSize is the size of a complete font of 16 glyphs.
	FontSize = 16 * machine.GlyphSize

	// MaxProgramSize is the maximum size of a program that fits into memory.
	MaxProgramSize = machine.MemorySize - machine.ProgramStart
)

var (
	errEmptyProgram    = errors.New("program is empty")
	errProgramTooLarge = fmt.Errorf("program exceeds %d bytes", MaxProgramSize)
	errInvalidFont     = fmt.Errorf("font must be exactly %d bytes", FontSize)
)

// DefaultFont contains the glyphs of the hexadecimal digits 0-F.
var DefaultFont = [FontSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Loader handles loading program and font files from disk.
type Loader struct{}

// New creates a new loader.
func New() *Loader {
	return &Loader{}
}

// Load writes the font and the program referenced by the options into the
// machine memory. The built-in font is used if no font file is set.
func (l *Loader) Load(opts options.Program, state *machine.State) error {
	font := DefaultFont[:]
	if opts.Font != "" {
		data, err := os.ReadFile(opts.Font)
		if err != nil {
			return fmt.Errorf("reading font file %s: %w", opts.Font, err)
		}
		font = data
	}
	if err := l.LoadFont(state, font); err != nil {
		return err
	}

	program, err := l.ReadProgram(opts.Input)
	if err != nil {
		return err
	}
	return l.LoadProgram(state, program)
}

// ReadProgram reads a program file and validates its size.
func (l *Loader) ReadProgram(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program file %s: %w", path, err)
	}
	if err := validateProgram(data); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return data, nil
}

// LoadFont writes the font glyphs to the font area of the memory.
func (l *Loader) LoadFont(state *machine.State, font []byte) error {
	if len(font) != FontSize {
		return fmt.Errorf("loading font of %d bytes: %w", len(font), errInvalidFont)
	}
	if err := state.SetMemory(machine.FontStart, font); err != nil {
		return fmt.Errorf("writing font: %w", err)
	}
	return nil
}

// LoadProgram writes the program to the program area of the memory.
func (l *Loader) LoadProgram(state *machine.State, program []byte) error {
	if err := validateProgram(program); err != nil {
		return err
	}
	if err := state.SetMemory(machine.ProgramStart, program); err != nil {
		return fmt.Errorf("writing program: %w", err)
	}
	return nil
}

func validateProgram(program []byte) error {
	switch {
	case len(program) == 0:
		return errEmptyProgram
	case len(program) > MaxProgramSize:
		return fmt.Errorf("program of %d bytes: %w", len(program), errProgramTooLarge)
	default:
		return nil
	}
}
