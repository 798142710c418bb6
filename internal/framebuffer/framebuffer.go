// Package framebuffer implements the 64x32 monochrome display memory of the
// virtual machine and the XOR based sprite blit with collision detection.
package framebuffer

import "strings"

const (
	// Width is the number of pixel columns.
	Width = 64
	// Height is the number of pixel rows.
	Height = 32

	spriteWidth = 8
)

// Frame is an immutable snapshot of the framebuffer. Each row is stored as a
// 64 bit value with column 0 in the most significant bit.
type Frame [Height]uint64

// Pixel returns whether the pixel at the given coordinates is set.
// Coordinates outside of the frame are reported as not set.
func (f Frame) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f[y]&(1<<(Width-1-x)) != 0
}

// String renders the frame as text, one line per row, using '#' for set
// pixels and '.' for cleared ones.
func (f Frame) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for y := range Height {
		for x := range Width {
			if f.Pixel(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Framebuffer is the mutable pixel grid. It is only changed by Clear and Blit.
type Framebuffer struct {
	rows Frame
}

// New returns a new cleared framebuffer.
func New() *Framebuffer {
	return &Framebuffer{}
}

// Clear resets all pixels.
func (fb *Framebuffer) Clear() {
	fb.rows = Frame{}
}

// Pixel returns whether the pixel at the given coordinates is set.
func (fb *Framebuffer) Pixel(x, y int) bool {
	return fb.rows.Pixel(x, y)
}

// Snapshot returns a copy of the current pixel grid.
func (fb *Framebuffer) Snapshot() Frame {
	return fb.rows
}

// Blit XORs the sprite rows onto the framebuffer starting at x, y.
// Drawing is clipped at the right and bottom edges, the start coordinates are
// not wrapped. The returned collision flag is the flag of the last row that
// was processed: a row sets it when one of its pixels flipped from set to
// cleared, a row without such a flip resets it.
func (fb *Framebuffer) Blit(x, y int, sprite []byte) bool {
	collision := false
	for _, row := range sprite {
		if y >= Height {
			break
		}
		collision = fb.blitRow(x, y, row)
		y++
	}
	return collision
}

func (fb *Framebuffer) blitRow(x, y int, row byte) bool {
	collision := false
	for bit := spriteWidth - 1; bit >= 0; bit-- {
		if x >= Width {
			break
		}
		if row&(1<<bit) != 0 {
			mask := uint64(1) << (Width - 1 - x)
			if fb.rows[y]&mask != 0 {
				collision = true
			}
			fb.rows[y] ^= mask
		}
		x++
	}
	return collision
}
