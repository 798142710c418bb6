// Package terminal implements a host that renders the display into an ANSI
// terminal, reads the keypad from the keyboard in raw mode and rings the
// terminal bell as a beeper.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pkg/term/termios"
	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sys/unix"
)

const inputBufferSize = 64

// Host is the terminal host.
type Host struct {
	logger *log.Logger
	keyMap keypad.KeyMap
	read   func(p []byte) (int, error)
	output io.Writer

	restore func() error // restores the terminal mode, nil if unchanged

	keys     keyDecay
	buf      []byte
	last     framebuffer.Frame
	drawn    bool
	sounding bool
}

// New puts the input terminal into raw mode and returns a host reading from
// input and drawing to output. Close must be called to restore the terminal.
func New(logger *log.Logger, input, output *os.File, keyMap keypad.KeyMap) (*Host, error) {
	restore, err := enterRawMode(input)
	if err != nil {
		return nil, err
	}
	warnOnSmallTerminal(logger, output)

	h := newHost(logger, func(p []byte) (int, error) {
		return unix.Read(int(input.Fd()), p)
	}, output, keyMap)
	h.restore = restore

	if _, err := io.WriteString(output, hideCursor+clearScreen); err != nil {
		_ = restore()
		return nil, fmt.Errorf("preparing terminal: %w", err)
	}
	return h, nil
}

func newHost(logger *log.Logger, read func(p []byte) (int, error), output io.Writer,
	keyMap keypad.KeyMap) *Host {

	return &Host{
		logger: logger,
		keyMap: keyMap,
		read:   read,
		output: output,
		buf:    make([]byte, inputBufferSize),
	}
}

// Render draws the frame if it changed since the last call.
func (h *Host) Render(frame framebuffer.Frame) error {
	if h.drawn && frame == h.last {
		return nil
	}
	h.last = frame
	h.drawn = true

	if _, err := io.WriteString(h.output, renderFrame(frame)); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Sound rings the bell when the sound starts. A terminal can not play a
// continuous tone.
func (h *Host) Sound(on bool) {
	if on && !h.sounding {
		if _, err := io.WriteString(h.output, bell); err != nil {
			h.logger.Warn("Ringing terminal bell failed", log.Err(err))
		}
	}
	h.sounding = on
}

// PollInput reads all pending key presses without blocking.
func (h *Host) PollInput() (keypad.State, bool, error) {
	for {
		n, err := h.read(h.buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				break
			}
			return keypad.State{}, false, fmt.Errorf("reading terminal input: %w", err)
		}
		if n == 0 {
			break
		}

		keys, quit := parseInput(h.buf[:n], h.keyMap)
		if quit {
			return keypad.State{}, true, nil
		}
		for _, key := range keys {
			h.keys.press(key)
		}
		if n < len(h.buf) {
			break
		}
	}

	return h.keys.frame(), false, nil
}

// Close restores the terminal mode and shows the cursor again.
func (h *Host) Close() error {
	if _, err := io.WriteString(h.output, showCursor+"\r\n"); err != nil {
		h.logger.Warn("Restoring cursor failed", log.Err(err))
	}
	if h.restore == nil {
		return nil
	}
	return h.restore()
}

// enterRawMode switches the terminal into raw mode with reads that return
// immediately, and returns a function that restores the previous mode.
func enterRawMode(input *os.File) (func() error, error) {
	fd := input.Fd()
	previous, err := termios.Tcgetattr(fd)
	if err != nil {
		return nil, fmt.Errorf("getting terminal attributes: %w", err)
	}

	raw := *previous
	termios.Cfmakeraw(&raw)
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0
	if err := termios.Tcsetattr(fd, termios.TCSANOW, &raw); err != nil {
		return nil, fmt.Errorf("setting terminal raw mode: %w", err)
	}

	return func() error {
		if err := termios.Tcsetattr(fd, termios.TCSANOW, previous); err != nil {
			return fmt.Errorf("restoring terminal mode: %w", err)
		}
		return nil
	}, nil
}

func warnOnSmallTerminal(logger *log.Logger, output *os.File) {
	size, err := unix.IoctlGetWinsize(int(output.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return
	}
	if int(size.Col) < framebuffer.Width || int(size.Row) < framebuffer.Height/2 {
		logger.Warn("Terminal is smaller than the display",
			log.Int("columns", int(size.Col)),
			log.Int("rows", int(size.Row)))
	}
}
