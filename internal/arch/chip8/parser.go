package chip8

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// lookupOpcode identifies the opcode table entry matching the instruction word.
// The first nibble selects the group of candidate opcodes, the first entry
// whose mask and value match is returned.
func lookupOpcode(w uint16) (Opcode, bool) {
	firstNibble := (w & 0xF000) >> 12
	opcodes := chip8.Opcodes[int(firstNibble)]
	key := matchKey(w)
	for _, op := range opcodes {
		if op.Info.Mask&key == op.Info.Value {
			return Opcode{op: op}, true
		}
	}
	return Opcode{}, false
}

// matchKey clears the nibbles that the interpreter ignores: the x nibble of
// 0x00nn system calls and the n nibble of 5xyn and 9xyn.
func matchKey(w uint16) uint16 {
	switch w & 0xF000 {
	case 0x0000:
		return w & 0xF0FF
	case 0x5000, 0x9000:
		return w & 0xFFF0
	default:
		return w
	}
}

// decodeOpcode extracts the 16-bit opcode from instruction bytes.
func decodeOpcode(data []byte) (uint16, bool) {
	if len(data) < opcodeSize {
		return 0, false
	}
	return uint16(data[0])<<8 | uint16(data[1]), true
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
