package keypad

import "unicode"

// DefaultLayout maps the 4x4 block of keys starting at '1' on a QWERTY
// keyboard to the hexadecimal keypad:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  <-  q w e r
//	7 8 9 E      a s d f
//	A 0 B F      z x c v
var DefaultLayout = KeyMap{
	'x': 0x0, '1': 0x1, '2': 0x2, '3': 0x3,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'a': 0x7,
	's': 0x8, 'd': 0x9, 'z': 0xA, 'c': 0xB,
	'4': 0xC, 'r': 0xD, 'f': 0xE, 'v': 0xF,
}

// KeyMap maps host characters to logical key codes.
type KeyMap map[rune]byte

// Lookup returns the logical key for a host character. Letters are matched
// case insensitively.
func (m KeyMap) Lookup(r rune) (byte, bool) {
	key, ok := m[unicode.ToLower(r)]
	return key, ok
}
