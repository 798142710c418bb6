package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/wav"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/host/headless"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// countingProgram sets V0 to 8 and loops at $204.
var countingProgram = []byte{
	0x60, 0x05, // ld v0, 5
	0x70, 0x03, // add v0, 3
	0x12, 0x04, // jp $204
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func headlessOptions(input string) options.Program {
	return options.Program{
		Parameters: options.Parameters{Input: input},
		Flags: options.Flags{
			Host:          options.HostHeadless,
			StepsPerFrame: options.DefaultStepsPerFrame,
			FrameRate:     1000,
			Frames:        2,
			Seed:          1,
			Quiet:         true,
		},
	}
}

func TestNew(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.detector)
	assert.NotNil(t, p.loader)
}

func TestExecute_Headless(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := headlessOptions(createTempFile(t, countingProgram))

	var out bytes.Buffer
	state, err := p.Execute(context.Background(), opts, &out)
	assert.NoError(t, err)
	assert.NotNil(t, state)

	v0, err := state.Register(0)
	assert.NoError(t, err)
	assert.Equal(t, byte(8), v0)
	assert.Equal(t, uint16(0x204), state.PC())

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Len(t, lines, framebuffer.Height)
	assert.Equal(t, strings.Repeat(".", framebuffer.Width), lines[0])
}

func TestExecute_Draw(t *testing.T) {
	program := []byte{
		0x00, 0xE0, // cls
		0x60, 0x00, // ld v0, 0
		0xF0, 0x29, // ld f, v0
		0xD0, 0x05, // drw v0, v0, 5
		0x12, 0x08, // jp $208
	}
	p := New(log.NewTestLogger(t))
	opts := headlessOptions(createTempFile(t, program))

	var out bytes.Buffer
	state, err := p.Execute(context.Background(), opts, &out)
	assert.NoError(t, err)
	assert.Equal(t, uint16(machine.FontStart), state.Index())

	lines := strings.Split(out.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "####."))
	assert.True(t, strings.HasPrefix(lines[1], "#..#."))
	assert.True(t, strings.HasPrefix(lines[4], "####."))
	assert.Equal(t, strings.Repeat(".", framebuffer.Width), lines[5])
}

func TestExecute_Breakpoint(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := headlessOptions(createTempFile(t, countingProgram))
	opts.Breakpoints = "$202"

	state, err := p.Execute(context.Background(), opts, &bytes.Buffer{})
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), state.PC())

	v0, err := state.Register(0)
	assert.NoError(t, err)
	assert.Equal(t, byte(5), v0)
}

func TestExecute_List(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := headlessOptions(createTempFile(t, countingProgram))
	opts.List = true

	var out bytes.Buffer
	state, err := p.Execute(context.Background(), opts, &out)
	assert.NoError(t, err)
	assert.True(t, state == nil)
	assert.Contains(t, out.String(), "_label_0204:\n")
	assert.Contains(t, out.String(), "; $200")
}

func TestExecute_Outputs(t *testing.T) {
	program := []byte{
		0x60, 0x10, // ld v0, $10
		0xF0, 0x18, // ld st, v0
		0x12, 0x04, // jp $204
	}
	dir := t.TempDir()
	p := New(log.NewTestLogger(t))
	opts := headlessOptions(createTempFile(t, program))
	opts.Wav = filepath.Join(dir, "sound.wav")
	opts.DumpState = filepath.Join(dir, "state.dot")

	_, err := p.Execute(context.Background(), opts, &bytes.Buffer{})
	assert.NoError(t, err)

	file, err := os.Open(opts.Wav)
	assert.NoError(t, err)
	defer file.Close() //nolint:errcheck // test cleanup
	assert.True(t, wav.NewDecoder(file).IsValidFile())

	dump, err := os.ReadFile(opts.DumpState)
	assert.NoError(t, err)
	assert.Contains(t, string(dump), "digraph")
	assert.Contains(t, string(dump), "$204")
}

//nolint:funlen // test functions can be long
func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name       string
		program    []byte
		modify     func(opts *options.Program)
		errContain string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "unsupported system",
			program:    countingProgram,
			modify:     func(opts *options.Program) { opts.System = "nes" },
			errContain: "unsupported system",
		},
		{
			name:       "missing file",
			program:    countingProgram,
			modify:     func(opts *options.Program) { opts.Input += ".missing" },
			errContain: "loading program",
		},
		{
			name:       "empty program",
			program:    []byte{},
			errContain: "program is empty",
		},
		{
			name:       "invalid breakpoint",
			program:    countingProgram,
			modify:     func(opts *options.Program) { opts.Breakpoints = "$ZZZ" },
			errContain: "parsing breakpoint",
		},
		{
			name:       "unsupported host",
			program:    countingProgram,
			modify:     func(opts *options.Program) { opts.Host = "tv" },
			errContain: "unsupported host",
		},
		{
			name:       "zero steps per frame",
			program:    countingProgram,
			modify:     func(opts *options.Program) { opts.StepsPerFrame = 0 },
			errContain: "invalid steps per frame 0",
		},
		{
			name:       "negative frame rate",
			program:    countingProgram,
			modify:     func(opts *options.Program) { opts.FrameRate = -60 },
			errContain: "invalid frame rate -60",
		},
		{
			name:       "unknown opcode",
			program:    []byte{0x60, 0x01, 0x00, 0x00},
			errContain: "running program",
			check: func(t *testing.T, err error) {
				t.Helper()
				var decodeErr *cpu.DecodeError
				assert.True(t, errors.As(err, &decodeErr))
				assert.Equal(t, uint16(0x202), decodeErr.Address)
			},
		},
		{
			name:       "stack underflow",
			program:    []byte{0x00, 0xEE},
			errContain: "running program",
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, errors.Is(err, machine.ErrStackUnderflow))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(log.NewTestLogger(t))
			opts := headlessOptions(createTempFile(t, tt.program))
			if tt.modify != nil {
				tt.modify(&opts)
			}

			_, err := p.Execute(context.Background(), opts, &bytes.Buffer{})
			assert.ErrorContains(t, err, tt.errContain)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestExecuteWithHost_InvalidTiming(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := headlessOptions("")
	opts.FrameRate = 0

	var out bytes.Buffer
	host := headless.New(log.NewTestLogger(t), &out, 1)
	err := p.ExecuteWithHost(context.Background(), opts, machine.New(), host)
	assert.ErrorContains(t, err, "invalid frame rate 0")
	assert.Equal(t, "", out.String())
}

func TestExecute_Cancelled(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := headlessOptions(createTempFile(t, countingProgram))
	opts.Frames = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := p.Execute(ctx, opts, &bytes.Buffer{})
	assert.NoError(t, err)
	assert.Equal(t, uint16(machine.ProgramStart), state.PC())
}

func TestNewRandom(t *testing.T) {
	first := newRandom(42)
	second := newRandom(42)
	for range 10 {
		assert.Equal(t, first.Intn(256), second.Intn(256))
	}
}

func TestNewStateView(t *testing.T) {
	state := machine.New()
	assert.NoError(t, state.SetRegister(0xA, 0x3C))
	assert.NoError(t, state.Push(0x2F0))
	state.SetIndex(0x123)

	fb := framebuffer.New()
	fb.Blit(1, 0, []byte{0x80})

	view := newStateView(state, fb.Snapshot())
	assert.Equal(t, "$200", view.PC)
	assert.Equal(t, "$123", view.Index)
	assert.Equal(t, "$3C", view.Registers[0xA])
	assert.Equal(t, []string{"$2F0"}, view.Stack)
	assert.Len(t, view.Display.Rows, framebuffer.Height)
	assert.True(t, strings.HasPrefix(view.Display.Rows[0], ".#."))
}
