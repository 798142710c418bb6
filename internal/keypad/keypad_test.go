package keypad

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestRefreshAndIsHeld(t *testing.T) {
	state := machine.New()
	k := New(log.NewTestLogger(t), state)

	var held State
	held[0x5] = true
	assert.NoError(t, k.Refresh(held))

	assert.True(t, k.IsHeld(0x5))
	assert.True(t, k.IsHeld(0xF5), "only the low nibble is used")
	assert.False(t, k.IsHeld(0x6))

	stored, err := state.KeyState(0x5)
	assert.NoError(t, err)
	assert.True(t, stored)
}

func TestPollReleased(t *testing.T) {
	k := New(log.NewTestLogger(t), machine.New())

	_, ok := k.PollReleased()
	assert.False(t, ok)

	var held State
	held[0x0] = true
	held[0xB] = true
	assert.NoError(t, k.Refresh(held))
	_, ok = k.PollReleased()
	assert.False(t, ok, "holding is not a release")

	assert.NoError(t, k.Refresh(State{}))
	key, ok := k.PollReleased()
	assert.True(t, ok)
	assert.Equal(t, byte(0x0), key)

	_, ok = k.PollReleased()
	assert.False(t, ok, "release is consumed by the poll")
}

func TestReleaseExpiresWithNextRefresh(t *testing.T) {
	k := New(log.NewTestLogger(t), machine.New())

	var held State
	held[0x3] = true
	assert.NoError(t, k.Refresh(held))
	assert.NoError(t, k.Refresh(State{}))
	assert.NoError(t, k.Refresh(State{}))

	_, ok := k.PollReleased()
	assert.False(t, ok)
}

func TestKeyMapLookup(t *testing.T) {
	tests := []struct {
		name  string
		input rune
		key   byte
		found bool
	}{
		{"digit", '1', 0x1, true},
		{"letter", 'v', 0xF, true},
		{"upper case letter", 'Z', 0xA, true},
		{"x is zero", 'x', 0x0, true},
		{"unmapped", 'p', 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := DefaultLayout.Lookup(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}
