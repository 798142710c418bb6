// Package chip8 provides the CHIP-8 disassembler used for instruction tracing
// and ROM listings.
//
// # Instruction Set
//
// CHIP-8 has a simple instruction set with 35 opcodes:
//   - All instructions are 2 bytes (16 bits), stored big endian
//   - Instructions use direct addressing with 12-bit addresses
//   - 16 general-purpose 8-bit registers (V0-VF)
//   - Special-purpose registers: I, PC, delay and sound timer
//
// Opcodes are identified by matching them against the mask and value pairs of
// the retrogolib CHIP-8 opcode table, grouped by the first nibble.
//
// # Usage Example
//
//	text, ok := chip8.Disassemble(0xA050)
//	// text holds the load mnemonic followed by "I, $050"
//
//	// Write a listing of a ROM loaded at the program start address
//	err := chip8.WriteListing(os.Stdout, rom, chip8.ProgramStart)
package chip8
