//go:build !sdl

package sdl

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestNewWithoutSDL(t *testing.T) {
	host, err := New(log.NewTestLogger(t), 10, 60, keypad.DefaultLayout)
	assert.ErrorContains(t, err, "rebuild with -tags sdl")
	assert.True(t, host == nil)
}
