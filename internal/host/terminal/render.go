package terminal

import (
	"strings"

	"github.com/retroenv/retrochip8/internal/framebuffer"
)

// ANSI control sequences.
const (
	cursorHome  = "\033[H"
	clearScreen = "\033[2J"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	bell        = "\a"
)

// renderFrame draws the frame using half block characters, each character
// cell covers two pixel rows. Lines end with CR LF as output post processing
// is disabled in raw mode.
func renderFrame(frame framebuffer.Frame) string {
	var sb strings.Builder
	sb.Grow(len(cursorHome) + framebuffer.Height/2*(framebuffer.Width*3+2))
	sb.WriteString(cursorHome)

	for y := 0; y < framebuffer.Height; y += 2 {
		for x := range framebuffer.Width {
			upper := frame.Pixel(x, y)
			lower := frame.Pixel(x, y+1)
			switch {
			case upper && lower:
				sb.WriteRune('█')
			case upper:
				sb.WriteRune('▀')
			case lower:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
