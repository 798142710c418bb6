package cpu

import "fmt"

// Op enumerates the instructions of the CHIP-8 instruction set.
type Op int

// Instruction operations, named after their effect.
const (
	OpInvalid    Op = iota
	OpCls           // 00E0
	OpRet           // 00EE
	OpJump          // 1nnn
	OpCall          // 2nnn
	OpSkipEqImm     // 3xnn
	OpSkipNeImm     // 4xnn
	OpSkipEqReg     // 5xyn
	OpLoadImm       // 6xnn
	OpAddImm        // 7xnn
	OpMove          // 8xy0
	OpOr            // 8xy1
	OpAnd           // 8xy2
	OpXor           // 8xy3
	OpAdd           // 8xy4
	OpSub           // 8xy5
	OpShr           // 8xy6
	OpSubN          // 8xy7
	OpShl           // 8xyE
	OpSkipNeReg     // 9xyn
	OpLoadIndex     // Annn
	OpJumpOffset    // Bnnn
	OpRandom        // Cxnn
	OpDraw          // Dxyn
	OpSkipKey       // Ex9E
	OpSkipNoKey     // ExA1
	OpLoadDelay     // Fx07
	OpWaitKey       // Fx0A
	OpSetDelay      // Fx15
	OpSetSound      // Fx18
	OpAddIndex      // Fx1E
	OpFont          // Fx29
	OpBCD           // Fx33
	OpStore         // Fx55
	OpLoad          // Fx65
)

// Instruction is a decoded instruction word.
type Instruction struct {
	Op     Op
	Opcode uint16

	X   uint8  // second nibble, register index
	Y   uint8  // third nibble, register index
	N   uint8  // fourth nibble
	NN  uint8  // low byte
	NNN uint16 // low 12 bits, address
}

// DecodeError is returned for instruction words that do not match any
// known opcode pattern.
type DecodeError struct {
	Opcode  uint16
	Address uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04X at $%03X", e.Opcode, e.Address)
}

// Decode splits an instruction word into its fields and identifies the
// operation. The first nibble selects the instruction family, families 0x0,
// 0x8, 0xE and 0xF are further selected by the low byte or the last nibble.
// The x nibble of family 0x0 and the n nibble of 5xyn and 9xyn are ignored.
func Decode(opcode uint16) (Instruction, error) {
	ins := Instruction{
		Opcode: opcode,
		X:      uint8(opcode>>8) & 0x0F,
		Y:      uint8(opcode>>4) & 0x0F,
		N:      uint8(opcode) & 0x0F,
		NN:     uint8(opcode),
		NNN:    opcode & 0x0FFF,
	}

	switch opcode >> 12 {
	case 0x0:
		ins.Op = decodeSystem(ins.NN)
	case 0x1:
		ins.Op = OpJump
	case 0x2:
		ins.Op = OpCall
	case 0x3:
		ins.Op = OpSkipEqImm
	case 0x4:
		ins.Op = OpSkipNeImm
	case 0x5:
		ins.Op = OpSkipEqReg
	case 0x6:
		ins.Op = OpLoadImm
	case 0x7:
		ins.Op = OpAddImm
	case 0x8:
		ins.Op = decodeALU(ins.N)
	case 0x9:
		ins.Op = OpSkipNeReg
	case 0xA:
		ins.Op = OpLoadIndex
	case 0xB:
		ins.Op = OpJumpOffset
	case 0xC:
		ins.Op = OpRandom
	case 0xD:
		ins.Op = OpDraw
	case 0xE:
		ins.Op = decodeKey(ins.NN)
	case 0xF:
		ins.Op = decodeMisc(ins.NN)
	}

	if ins.Op == OpInvalid {
		return ins, &DecodeError{Opcode: opcode}
	}
	return ins, nil
}

func decodeSystem(nn uint8) Op {
	switch nn {
	case 0xE0:
		return OpCls
	case 0xEE:
		return OpRet
	}
	return OpInvalid
}

func decodeALU(n uint8) Op {
	switch n {
	case 0x0:
		return OpMove
	case 0x1:
		return OpOr
	case 0x2:
		return OpAnd
	case 0x3:
		return OpXor
	case 0x4:
		return OpAdd
	case 0x5:
		return OpSub
	case 0x6:
		return OpShr
	case 0x7:
		return OpSubN
	case 0xE:
		return OpShl
	}
	return OpInvalid
}

func decodeKey(nn uint8) Op {
	switch nn {
	case 0x9E:
		return OpSkipKey
	case 0xA1:
		return OpSkipNoKey
	}
	return OpInvalid
}

func decodeMisc(nn uint8) Op {
	switch nn {
	case 0x07:
		return OpLoadDelay
	case 0x0A:
		return OpWaitKey
	case 0x15:
		return OpSetDelay
	case 0x18:
		return OpSetSound
	case 0x1E:
		return OpAddIndex
	case 0x29:
		return OpFont
	case 0x33:
		return OpBCD
	case 0x55:
		return OpStore
	case 0x65:
		return OpLoad
	}
	return OpInvalid
}
