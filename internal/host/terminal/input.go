package terminal

import (
	"unicode/utf8"

	"github.com/retroenv/retrochip8/internal/keypad"
)

// ASCII codes of control keys.
const (
	keyInterrupt = 3 // ctrl-c, raw mode disables the signal
	keyEsc       = 27
	escCursor    = '['
)

// holdFrames is the number of frames a key stays held after its last press.
// Terminals only report key presses and auto repeats, a key counts as
// released once no repeat arrived within this window.
const holdFrames = 8

// keyDecay derives a held key state from a stream of key presses.
type keyDecay struct {
	remaining [keypad.KeyCount]int
}

// press marks the key as held for the next holdFrames frames.
func (d *keyDecay) press(key byte) {
	d.remaining[key&0x0F] = holdFrames
}

// frame returns the held state for the current frame and ages all keys.
func (d *keyDecay) frame() keypad.State {
	var held keypad.State
	for key, remaining := range d.remaining {
		if remaining > 0 {
			held[key] = true
			d.remaining[key]--
		}
	}
	return held
}

// parseInput extracts the mapped keys from raw terminal input and reports
// whether a quit key was pressed. Escape sequences such as cursor keys are
// skipped, a lone escape quits.
func parseInput(data []byte, keyMap keypad.KeyMap) (keys []byte, quit bool) {
	for len(data) > 0 {
		switch data[0] {
		case keyInterrupt:
			return keys, true

		case keyEsc:
			if len(data) == 1 || data[1] != escCursor {
				return keys, true
			}
			data = skipEscapeSequence(data)
			continue
		}

		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if key, ok := keyMap.Lookup(r); ok {
			keys = append(keys, key)
		}
	}
	return keys, false
}

// skipEscapeSequence removes a CSI sequence from the start of data. The
// sequence ends with the first byte in the range 0x40-0x7E after the
// introducer.
func skipEscapeSequence(data []byte) []byte {
	for i := 2; i < len(data); i++ {
		if data[i] >= 0x40 && data[i] <= 0x7E {
			return data[i+1:]
		}
	}
	return nil
}
