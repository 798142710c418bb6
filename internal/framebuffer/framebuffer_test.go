package framebuffer

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestBlitDraws(t *testing.T) {
	fb := New()

	collision := fb.Blit(0, 0, []byte{0xF0})
	assert.False(t, collision)
	for x := range 4 {
		assert.True(t, fb.Pixel(x, 0))
	}
	assert.False(t, fb.Pixel(4, 0))
	assert.False(t, fb.Pixel(0, 1))
}

func TestBlitIdempotence(t *testing.T) {
	fb := New()
	fb.Blit(3, 7, []byte{0xFF, 0x81}) // pre-existing pixels
	before := fb.Snapshot()

	sprite := []byte{0x3C, 0x42, 0x81, 0xFF}
	fb.Blit(1, 6, sprite)
	assert.True(t, fb.Snapshot() != before)

	fb.Blit(1, 6, sprite)
	assert.Equal(t, before, fb.Snapshot())
}

func TestBlitCollision(t *testing.T) {
	fb := New()

	assert.False(t, fb.Blit(10, 10, []byte{0x80}))
	assert.True(t, fb.Blit(10, 10, []byte{0x80}))
	assert.False(t, fb.Pixel(10, 10))
}

func TestBlitCollisionIsLastRow(t *testing.T) {
	fb := New()
	fb.Blit(0, 0, []byte{0x80})

	// first row collides, second row does not: flag follows the last row
	assert.False(t, fb.Blit(0, 0, []byte{0x80, 0x80}))

	fb.Clear()
	fb.Blit(0, 1, []byte{0x80})
	assert.True(t, fb.Blit(0, 0, []byte{0x80, 0x80}))
}

func TestBlitClipping(t *testing.T) {
	t.Run("right edge", func(t *testing.T) {
		fb := New()
		fb.Blit(60, 0, []byte{0xFF})

		for x := 60; x < Width; x++ {
			assert.True(t, fb.Pixel(x, 0))
		}
		for x := range 4 {
			assert.False(t, fb.Pixel(x, 0), "no wraparound to column 0")
		}
		assert.False(t, fb.Pixel(0, 1))
	})

	t.Run("bottom edge", func(t *testing.T) {
		fb := New()
		fb.Blit(0, 30, []byte{0x80, 0x80, 0x80, 0x80})

		assert.True(t, fb.Pixel(0, 30))
		assert.True(t, fb.Pixel(0, 31))
		assert.False(t, fb.Pixel(0, 0))
		assert.False(t, fb.Pixel(0, 1))
	})

	t.Run("start outside", func(t *testing.T) {
		fb := New()
		assert.False(t, fb.Blit(64, 0, []byte{0xFF}))
		assert.False(t, fb.Blit(0, 32, []byte{0xFF}))
		assert.Equal(t, Frame{}, fb.Snapshot())
	})
}

func TestClear(t *testing.T) {
	fb := New()
	fb.Blit(0, 0, []byte{0xFF, 0xFF})
	fb.Clear()
	assert.Equal(t, Frame{}, fb.Snapshot())
}

func TestFrameString(t *testing.T) {
	fb := New()
	fb.Blit(0, 0, []byte{0xA0})

	lines := strings.Split(fb.Snapshot().String(), "\n")
	assert.Len(t, lines, Height+1)
	assert.True(t, strings.HasPrefix(lines[0], "#.#."))
	assert.Equal(t, strings.Repeat(".", Width), lines[1])
}
