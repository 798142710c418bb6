//go:build !sdl

package sdl

import (
	"errors"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/log"
)

var errNotSupported = errors.New("SDL host not available, rebuild with -tags sdl")

// Host is a placeholder for builds without SDL support.
type Host struct{}

// New returns an error as SDL support is not included in this build.
func New(_ *log.Logger, _, _ int, _ keypad.KeyMap) (*Host, error) {
	return nil, errNotSupported
}

// Render is not supported.
func (h *Host) Render(framebuffer.Frame) error { return errNotSupported }

// Sound is not supported.
func (h *Host) Sound(bool) {}

// PollInput is not supported.
func (h *Host) PollInput() (keypad.State, bool, error) {
	return keypad.State{}, false, errNotSupported
}

// Close is not supported.
func (h *Host) Close() error { return nil }
