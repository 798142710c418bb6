// Package headless implements a host without any display or input device.
// It runs for a fixed number of frames and writes the final display content
// as text when closed.
package headless

import (
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/log"
)

// Host is the headless host.
type Host struct {
	logger     *log.Logger
	output     io.Writer
	frameLimit int

	polls    int
	last     framebuffer.Frame
	sounding bool
	beeps    int
}

// New returns a headless host that requests to quit after frameLimit frames.
// A frame limit of 0 runs until the run is cancelled.
func New(logger *log.Logger, output io.Writer, frameLimit int) *Host {
	return &Host{
		logger:     logger,
		output:     output,
		frameLimit: frameLimit,
	}
}

// Render stores the frame as the last displayed frame.
func (h *Host) Render(frame framebuffer.Frame) error {
	h.last = frame
	return nil
}

// Sound counts the started beeps.
func (h *Host) Sound(on bool) {
	if on && !h.sounding {
		h.beeps++
		h.logger.Debug("Beep started", log.Int("frame", h.polls))
	}
	h.sounding = on
}

// PollInput reports no held keys and requests to quit once the frame limit
// is reached.
func (h *Host) PollInput() (keypad.State, bool, error) {
	if h.frameLimit > 0 && h.polls >= h.frameLimit {
		return keypad.State{}, true, nil
	}
	h.polls++
	return keypad.State{}, false, nil
}

// Frame returns the last rendered frame.
func (h *Host) Frame() framebuffer.Frame {
	return h.last
}

// Beeps returns the number of started beeps.
func (h *Host) Beeps() int {
	return h.beeps
}

// Close writes the last rendered frame to the output.
func (h *Host) Close() error {
	if _, err := io.WriteString(h.output, h.last.String()); err != nil {
		return fmt.Errorf("writing final frame: %w", err)
	}
	return nil
}
