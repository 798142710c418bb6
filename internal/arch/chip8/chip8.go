package chip8

import (
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// ProgramStart is the memory address where CHIP-8 programs begin execution.
const ProgramStart = 0x200

// Disassemble returns the assembly text of an instruction word, the
// mnemonic followed by its parameters. The second return value is false for
// words that are not a known instruction.
func Disassemble(opcode uint16) (string, bool) {
	op, ok := lookupOpcode(opcode)
	if !ok {
		return "", false
	}

	name := op.Instruction().Name()
	if params := formatInstruction(name, opcode); params != "" {
		return fmt.Sprintf("%s %s", name, params), true
	}
	return name, true
}

// WriteListing writes a linear disassembly of code, which is located in
// memory at the given base address. Targets of jumps and calls get a code
// label, targets of index loads get a data label. Instructions that are
// executed conditionally after a skip are indented, words that are not
// instructions are written as data.
func WriteListing(w io.Writer, code []byte, base uint16) error {
	labels := collectLabels(code, base)
	conditional := false

	for offset := 0; offset < len(code); offset += opcodeSize {
		address := base + uint16(offset)
		if name, ok := labels[address]; ok {
			if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		opcode, ok := decodeOpcode(code[offset:])
		if !ok {
			if _, err := fmt.Fprintf(w, "  .byte $%02X ; $%03X\n", code[offset], address); err != nil {
				return fmt.Errorf("writing data byte: %w", err)
			}
			continue
		}

		skip, err := writeListingLine(w, address, opcode, labels, conditional)
		if err != nil {
			return err
		}
		conditional = skip
	}
	return nil
}

// writeListingLine writes a single instruction and returns whether it is a
// skip instruction.
func writeListingLine(w io.Writer, address, opcode uint16, labels map[uint16]string, conditional bool) (bool, error) {
	text, ok := Disassemble(opcode)
	if !ok {
		_, err := fmt.Fprintf(w, "  .word $%04X ; $%03X\n", opcode, address)
		if err != nil {
			return false, fmt.Errorf("writing data word: %w", err)
		}
		return false, nil
	}

	op, _ := lookupOpcode(opcode)
	ins := op.Instruction()
	target := opcode & 0x0FFF
	if name, isLabel := labels[target]; isLabel && referencesAddress(ins, opcode) {
		if ins.IsDataReference(opcode) {
			text = fmt.Sprintf("%s I, %s", ins.Name(), name)
		} else {
			text = fmt.Sprintf("%s %s", ins.Name(), name)
		}
	}

	indent := "  "
	if conditional {
		indent = "    "
	}
	if _, err := fmt.Fprintf(w, "%s%-20s ; $%03X %04X\n", indent, text, address, opcode); err != nil {
		return false, fmt.Errorf("writing instruction: %w", err)
	}
	if !conditional && (ins.IsReturn() || isAbsoluteJump(ins, opcode)) {
		if _, err := fmt.Fprintln(w); err != nil {
			return false, fmt.Errorf("writing separator: %w", err)
		}
	}
	return ins.IsSkip(), nil
}

// collectLabels returns the label names of all addresses inside of the code
// that are the target of an absolute jump, a call or an index load.
func collectLabels(code []byte, base uint16) map[uint16]string {
	labels := make(map[uint16]string)
	end := int(base) + len(code)

	for offset := 0; offset+opcodeSize <= len(code); offset += opcodeSize {
		opcode, _ := decodeOpcode(code[offset:])
		op, ok := lookupOpcode(opcode)
		if !ok {
			continue
		}
		ins := op.Instruction()
		if !referencesAddress(ins, opcode) {
			continue
		}

		target := opcode & 0x0FFF
		if int(target) < int(base) || int(target) >= end {
			continue
		}
		if ins.IsDataReference(opcode) {
			if _, ok := labels[target]; !ok {
				labels[target] = fmt.Sprintf("_data_%04x", target)
			}
			continue
		}
		labels[target] = fmt.Sprintf("_label_%04x", target) // code labels take precedence
	}
	return labels
}

// referencesAddress returns whether the instruction has an absolute address
// operand that can be replaced by a label.
func referencesAddress(ins Instruction, opcode uint16) bool {
	return ins.IsCall() || isAbsoluteJump(ins, opcode) || ins.IsDataReference(opcode)
}

// isAbsoluteJump returns whether the instruction is a jump without register
// offset.
func isAbsoluteJump(ins Instruction, opcode uint16) bool {
	return ins.IsJump() && opcode&0xF000 == 0x1000
}

// formatInstruction formats a CHIP-8 instruction with its parameters.
// Returns the formatted parameter string for the given instruction.
func formatInstruction(name string, opcode uint16) string {
	switch name {
	case chip8.ClsName, chip8.RetName:
		return "" // No parameters
	case chip8.JpName:
		return formatJumpInstruction(opcode)
	case chip8.CallName:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.SeName, chip8.SneName:
		return formatCompareInstruction(opcode)
	case chip8.LdName:
		return formatLoadInstruction(opcode)
	case chip8.AddName:
		return formatAddInstruction(opcode)
	case chip8.OrName, chip8.AndName, chip8.XorName, chip8.SubName, chip8.SubnName:
		return formatBinaryInstruction(opcode)
	case chip8.ShrName, chip8.ShlName:
		return formatShiftInstruction(opcode)
	case chip8.RndName:
		return formatRandomInstruction(opcode)
	case chip8.DrwName:
		return formatDrawInstruction(opcode)
	case chip8.SkpName, chip8.SknpName:
		return formatSkipInstruction(opcode)
	}
	return ""
}

// formatJumpInstruction formats jump instructions (JP addr, JP V0+addr).
func formatJumpInstruction(opcode uint16) string {
	if opcode&0xF000 == 0x1000 {
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	}
	if opcode&0xF000 == 0xB000 {
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	}
	return ""
}

// formatCompareInstruction formats comparison instructions (SE, SNE).
func formatCompareInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x9000:
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	}
	return ""
}

// formatLoadInstruction formats the load instruction variants.
func formatLoadInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	case 0xF000:
		return formatLoadSpecialInstruction(x, opcode&0x00FF)
	}
	return ""
}

// formatLoadSpecialInstruction formats the Fx load instructions that move
// values between registers, timers, the keypad and memory.
func formatLoadSpecialInstruction(x, selector uint16) string {
	switch selector {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// formatAddInstruction formats add instructions (ADD Vx, byte/Vy, ADD I, Vx).
func formatAddInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xF000:
		return fmt.Sprintf("I, V%X", x)
	}
	return ""
}

// formatBinaryInstruction formats binary operation instructions (OR, AND, XOR, SUB, SUBN).
func formatBinaryInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	return fmt.Sprintf("V%X, V%X", x, y)
}

// formatShiftInstruction formats shift instructions (SHR, SHL).
func formatShiftInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	return fmt.Sprintf("V%X", x)
}

// formatRandomInstruction formats random number instructions (RND).
func formatRandomInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
}

// formatDrawInstruction formats draw instructions (DRW).
func formatDrawInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	n := opcode & 0x000F
	return fmt.Sprintf("V%X, V%X, $%X", x, y, n)
}

// formatSkipInstruction formats skip instructions (SKP, SKNP).
func formatSkipInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	return fmt.Sprintf("V%X", x)
}
