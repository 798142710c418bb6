package terminal

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sys/unix"
)

// scriptedInput returns one chunk of input per read, then EAGAIN.
type scriptedInput struct {
	chunks [][]byte
}

func (s *scriptedInput) read(p []byte) (int, error) {
	if len(s.chunks) == 0 {
		return 0, unix.EAGAIN
	}
	n := copy(p, s.chunks[0])
	s.chunks = s.chunks[1:]
	return n, nil
}

func newTestHost(t *testing.T, input *scriptedInput) (*Host, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return newHost(log.NewTestLogger(t), input.read, &out, keypad.DefaultLayout), &out
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKeys []byte
		wantQuit bool
	}{
		{"mapped keys", "1qV", []byte{0x1, 0x4, 0xF}, false},
		{"unmapped keys", "yu8", nil, false},
		{"cursor keys skipped", "\033[A" + "x" + "\033[1;5C", []byte{0x0}, false},
		{"lone escape quits", "w\033", []byte{0x5}, true},
		{"interrupt quits", "\x03z", nil, true},
		{"unicode skipped", "ü4", []byte{0xC}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, quit := parseInput([]byte(tt.input), keypad.DefaultLayout)
			assert.Equal(t, tt.wantKeys, keys)
			assert.Equal(t, tt.wantQuit, quit)
		})
	}
}

func TestKeyDecay(t *testing.T) {
	var decay keyDecay
	decay.press(0x7)

	for range holdFrames {
		held := decay.frame()
		assert.True(t, held[0x7])
	}
	assert.False(t, decay.frame()[0x7])

	// a repeat refreshes the hold time
	decay.press(0x7)
	decay.frame()
	decay.press(0x7)
	for range holdFrames {
		assert.True(t, decay.frame()[0x7])
	}
	assert.Equal(t, keypad.State{}, decay.frame())
}

func TestPollInput(t *testing.T) {
	t.Run("keys", func(t *testing.T) {
		host, _ := newTestHost(t, &scriptedInput{chunks: [][]byte{[]byte("w")}})

		held, quit, err := host.PollInput()
		assert.NoError(t, err)
		assert.False(t, quit)
		assert.True(t, held[0x5])
		assert.False(t, held[0x4])

		held, _, err = host.PollInput()
		assert.NoError(t, err)
		assert.True(t, held[0x5])
	})

	t.Run("quit", func(t *testing.T) {
		host, _ := newTestHost(t, &scriptedInput{chunks: [][]byte{{keyEsc}}})

		_, quit, err := host.PollInput()
		assert.NoError(t, err)
		assert.True(t, quit)
	})

	t.Run("read error", func(t *testing.T) {
		var out bytes.Buffer
		host := newHost(log.NewTestLogger(t), func([]byte) (int, error) {
			return 0, errors.New("device gone")
		}, &out, keypad.DefaultLayout)

		_, _, err := host.PollInput()
		assert.ErrorContains(t, err, "device gone")
	})
}

func TestRender(t *testing.T) {
	host, out := newTestHost(t, &scriptedInput{})

	fb := framebuffer.New()
	fb.Blit(0, 0, []byte{0xC0, 0x80})
	assert.NoError(t, host.Render(fb.Snapshot()))

	lines := strings.Split(strings.TrimPrefix(out.String(), cursorHome), "\r\n")
	assert.Len(t, lines, framebuffer.Height/2+1)
	assert.True(t, strings.HasPrefix(lines[0], "█▀ "))

	out.Reset()
	assert.NoError(t, host.Render(fb.Snapshot()))
	assert.Equal(t, 0, out.Len(), "unchanged frame is not redrawn")
}

func TestSound(t *testing.T) {
	host, out := newTestHost(t, &scriptedInput{})

	host.Sound(true)
	host.Sound(true)
	host.Sound(false)
	host.Sound(true)
	assert.Equal(t, bell+bell, out.String())
}

func TestClose(t *testing.T) {
	host, out := newTestHost(t, &scriptedInput{})
	assert.NoError(t, host.Close())
	assert.Contains(t, out.String(), showCursor)
}
