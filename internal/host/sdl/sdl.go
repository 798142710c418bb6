//go:build sdl

// Package sdl implements a host that renders the display into an SDL window,
// reads the keypad from the keyboard and plays a square wave tone.
package sdl

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/tone"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	windowTitle = "retrochip8"
	pixelDepth  = 4

	toneHigh = 0xC0
)

// Host is the SDL window host.
type Host struct {
	logger    *log.Logger
	keyMap    keypad.KeyMap
	frameRate int

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte

	audio   sdl.AudioDeviceID
	silence uint8
	tone    *tone.Generator
	samples []uint8

	held keypad.State
}

// New opens a window scaled by the given factor and an audio device.
func New(logger *log.Logger, scale, frameRate int, keyMap keypad.KeyMap) (*Host, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	h := &Host{
		logger:    logger,
		keyMap:    keyMap,
		frameRate: frameRate,
		pixels:    make([]byte, framebuffer.Width*framebuffer.Height*pixelDepth),
	}

	var err error
	h.window, err = sdl.CreateWindow(windowTitle,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		int32(framebuffer.Width*scale), int32(framebuffer.Height*scale),
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	h.renderer, err = sdl.CreateRenderer(h.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	h.texture, err = h.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING), framebuffer.Width, framebuffer.Height)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("creating texture: %w", err)
	}

	if err := h.openAudio(); err != nil {
		// the emulation works without sound
		logger.Warn("Opening audio device failed", log.Err(err))
	}
	return h, nil
}

func (h *Host) openAudio() error {
	h.tone = tone.New(tone.SampleRate, tone.Frequency)
	h.samples = make([]uint8, h.tone.SamplesPerFrame(h.frameRate))

	spec := &sdl.AudioSpec{
		Freq:     tone.SampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  uint16(len(h.samples)),
	}
	var actualSpec sdl.AudioSpec

	var err error
	h.audio, err = sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		return err
	}
	h.silence = actualSpec.Silence
	sdl.PauseAudioDevice(h.audio, false)
	return nil
}

// Render draws the frame into the window.
func (h *Host) Render(frame framebuffer.Frame) error {
	for y := range framebuffer.Height {
		for x := range framebuffer.Width {
			var value byte
			if frame.Pixel(x, y) {
				value = 0xFF
			}
			offset := (y*framebuffer.Width + x) * pixelDepth
			h.pixels[offset] = value
			h.pixels[offset+1] = value
			h.pixels[offset+2] = value
			h.pixels[offset+3] = 0xFF
		}
	}

	if err := h.texture.Update(nil, h.pixels, framebuffer.Width*pixelDepth); err != nil {
		return fmt.Errorf("updating texture: %w", err)
	}
	if err := h.renderer.Copy(h.texture, nil, nil); err != nil {
		return fmt.Errorf("copying texture: %w", err)
	}
	h.renderer.Present()
	return nil
}

// Sound queues a frame of the tone while the sound is on.
func (h *Host) Sound(on bool) {
	if h.audio == 0 {
		return
	}
	if !on {
		sdl.ClearQueuedAudio(h.audio)
		h.tone.Reset()
		return
	}

	tone.Fill(h.tone, h.samples, h.silence+toneHigh/2, h.silence-toneHigh/2)
	if err := sdl.QueueAudio(h.audio, h.samples); err != nil {
		h.logger.Warn("Queueing audio failed", log.Err(err))
	}
}

// PollInput processes all pending window events.
func (h *Host) PollInput() (keypad.State, bool, error) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			return keypad.State{}, true, nil

		case *sdl.KeyboardEvent:
			if ev.Keysym.Sym == sdl.K_ESCAPE {
				return keypad.State{}, true, nil
			}
			if ev.Repeat != 0 {
				continue
			}
			name := sdl.GetKeyName(ev.Keysym.Sym)
			if len(name) != 1 {
				continue
			}
			key, ok := h.keyMap.Lookup(rune(name[0]))
			if !ok {
				continue
			}
			h.held[key] = ev.Type == sdl.KEYDOWN
		}
	}
	return h.held, false, nil
}

// Close releases all SDL resources.
func (h *Host) Close() error {
	if h.audio != 0 {
		sdl.CloseAudioDevice(h.audio)
	}
	if h.texture != nil {
		_ = h.texture.Destroy()
	}
	if h.renderer != nil {
		_ = h.renderer.Destroy()
	}
	if h.window != nil {
		_ = h.window.Destroy()
	}
	sdl.Quit()
	return nil
}
