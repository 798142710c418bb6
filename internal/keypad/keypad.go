// Package keypad implements the logical 16 key keypad. The host refreshes the
// held state once per frame; the interpreter queries held keys and key
// releases through it.
package keypad

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// KeyCount is the number of logical keys.
const KeyCount = 16

// State is a snapshot of all held keys, indexed by logical key code.
type State [KeyCount]bool

// snapshot stores the per frame key state, implemented by machine.State.
type snapshot interface {
	SetKeyState(key int, held bool) error
	KeyState(key int) (bool, error)
}

// Keypad tracks the held state of the keys and detects releases between
// two refreshes.
type Keypad struct {
	logger   *log.Logger
	keys     snapshot
	previous State
	released State
}

// New returns a new keypad that stores the held state in the given snapshot.
func New(logger *log.Logger, keys snapshot) *Keypad {
	return &Keypad{
		logger: logger,
		keys:   keys,
	}
}

// Refresh updates the held state. It must be called once per frame before
// any instruction is executed. Keys that were held during the previous
// refresh and are not held anymore are recorded as released, releases of
// older frames that were not polled are discarded.
func (k *Keypad) Refresh(held State) error {
	k.released = State{}
	for key := range KeyCount {
		if err := k.keys.SetKeyState(key, held[key]); err != nil {
			return fmt.Errorf("setting key state: %w", err)
		}
		if k.previous[key] && !held[key] {
			k.released[key] = true
			k.logger.Debug("Key released", log.Int("key", key))
		}
	}
	k.previous = held
	return nil
}

// IsHeld returns whether the key is currently held. Only the low nibble of
// the key code is used.
func (k *Keypad) IsHeld(key byte) bool {
	held, err := k.keys.KeyState(int(key & 0x0F))
	return err == nil && held
}

// PollReleased returns the lowest key that was released during the last
// refresh. A successful poll consumes all releases of that frame.
func (k *Keypad) PollReleased() (byte, bool) {
	for key := range KeyCount {
		if k.released[key] {
			k.released = State{}
			return byte(key), true
		}
	}
	return 0, false
}
