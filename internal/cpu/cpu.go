// Package cpu implements the CHIP-8 instruction interpreter. Each Step
// fetches one instruction from the machine state, decodes it and executes it
// against the machine state, the framebuffer and the keypad.
package cpu

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

const instructionSize = 2

// Display is the framebuffer the interpreter draws into.
type Display interface {
	Clear()
	Blit(x, y int, sprite []byte) bool
}

// Keypad is the key state the interpreter queries.
type Keypad interface {
	IsHeld(key byte) bool
	PollReleased() (byte, bool)
}

// Random is the random number source of the Cxnn instruction.
// *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

// Options configures an interpreter.
type Options struct {
	Quirks config.Quirks
	// Trace logs every executed instruction at debug level.
	Trace bool
}

// CPU is the instruction interpreter.
type CPU struct {
	logger  *log.Logger
	state   *machine.State
	display Display
	keypad  Keypad
	random  Random
	opts    Options
}

// New returns a new interpreter operating on the given components.
func New(logger *log.Logger, state *machine.State, display Display, keypad Keypad,
	random Random, opts Options) *CPU {

	return &CPU{
		logger:  logger,
		state:   state,
		display: display,
		keypad:  keypad,
		random:  random,
		opts:    opts,
	}
}

// Step executes exactly one fetch, decode and execute cycle.
// The program counter is advanced past the instruction before it executes.
func (c *CPU) Step() error {
	address := c.state.PC()
	opcode, err := c.state.Opcode()
	if err != nil {
		return fmt.Errorf("fetching instruction at $%03X: %w", address, err)
	}
	c.state.AdvancePC(instructionSize)

	ins, err := Decode(opcode)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Address = address
		}
		return err
	}

	if c.opts.Trace {
		c.trace(address, opcode)
	}

	if err := c.execute(ins); err != nil {
		return fmt.Errorf("executing %04X at $%03X: %w", opcode, address, err)
	}
	return nil
}

func (c *CPU) trace(address, opcode uint16) {
	text, _ := chip8.Disassemble(opcode)
	c.logger.Debug("Executing instruction",
		log.Hex("address", address),
		log.Hex("opcode", opcode),
		log.String("instruction", text))
}

// execute dispatches the decoded instruction.
//
//nolint:cyclop,funlen // one case per instruction
func (c *CPU) execute(ins Instruction) error {
	switch ins.Op {
	case OpCls:
		c.display.Clear()
		return nil
	case OpRet:
		address, err := c.state.Pop()
		if err != nil {
			return err
		}
		return c.state.SetPC(int(address))
	case OpJump:
		return c.state.SetPC(int(ins.NNN))
	case OpCall:
		if err := c.state.Push(c.state.PC()); err != nil {
			return err
		}
		return c.state.SetPC(int(ins.NNN))
	case OpJumpOffset:
		return c.jumpOffset(ins)

	case OpSkipEqImm, OpSkipNeImm, OpSkipEqReg, OpSkipNeReg, OpSkipKey, OpSkipNoKey:
		return c.skip(ins)

	case OpLoadImm:
		return c.state.SetRegister(int(ins.X), ins.NN)
	case OpAddImm:
		vx, err := c.state.Register(int(ins.X))
		if err != nil {
			return err
		}
		return c.state.SetRegister(int(ins.X), vx+ins.NN)
	case OpMove, OpOr, OpAnd, OpXor, OpAdd, OpSub, OpSubN, OpShr, OpShl:
		return c.alu(ins)

	case OpLoadIndex:
		c.state.SetIndex(int(ins.NNN))
		return nil
	case OpRandom:
		value := byte(c.random.Intn(256))
		return c.state.SetRegister(int(ins.X), value&ins.NN)
	case OpDraw:
		return c.draw(ins)

	case OpLoadDelay:
		return c.state.SetRegister(int(ins.X), c.state.DelayTimer())
	case OpWaitKey:
		return c.waitKey(ins)
	case OpSetDelay, OpSetSound, OpAddIndex, OpFont:
		return c.fromRegister(ins)
	case OpBCD, OpStore, OpLoad:
		return c.memory(ins)
	}

	return &DecodeError{Opcode: ins.Opcode, Address: (c.state.PC() - instructionSize) & machine.AddressMask}
}

func (c *CPU) jumpOffset(ins Instruction) error {
	target := int(ins.NNN)
	if c.opts.Quirks.LegacyJumpOffset {
		vx, err := c.state.Register(int(ins.X))
		if err != nil {
			return err
		}
		target += int(vx)
	}
	return c.state.SetPC(target)
}

func (c *CPU) skip(ins Instruction) error {
	vx, vy, err := c.operands(ins)
	if err != nil {
		return err
	}

	var condition bool
	switch ins.Op {
	case OpSkipEqImm:
		condition = vx == ins.NN
	case OpSkipNeImm:
		condition = vx != ins.NN
	case OpSkipEqReg:
		condition = vx == vy
	case OpSkipNeReg:
		condition = vx != vy
	case OpSkipKey:
		condition = c.keypad.IsHeld(vx)
	case OpSkipNoKey:
		condition = !c.keypad.IsHeld(vx)
	}

	if condition {
		c.state.AdvancePC(instructionSize)
	}
	return nil
}

func (c *CPU) draw(ins Instruction) error {
	x, y, err := c.operands(ins)
	if err != nil {
		return err
	}
	sprite, err := c.state.Memory(int(c.state.Index()), int(ins.N))
	if err != nil {
		return err
	}

	collision := c.display.Blit(int(x), int(y), sprite)
	return c.setFlag(collision)
}

// waitKey stores the code of a released key. Without a released key the
// program counter is moved back to this instruction so that the next step
// executes it again, the interpreter never blocks.
func (c *CPU) waitKey(ins Instruction) error {
	key, ok := c.keypad.PollReleased()
	if !ok {
		c.state.RewindPC(instructionSize)
		return nil
	}
	return c.state.SetRegister(int(ins.X), key)
}

func (c *CPU) fromRegister(ins Instruction) error {
	vx, err := c.state.Register(int(ins.X))
	if err != nil {
		return err
	}

	switch ins.Op {
	case OpSetDelay:
		c.state.SetDelayTimer(vx)
	case OpSetSound:
		c.state.SetSoundTimer(vx)
	case OpAddIndex:
		if c.state.AddIndex(int(vx)) {
			return c.setFlag(true)
		}
	case OpFont:
		c.state.SetIndex(int(vx)*machine.GlyphSize + machine.FontStart)
	}
	return nil
}

func (c *CPU) memory(ins Instruction) error {
	index := int(c.state.Index())

	switch ins.Op {
	case OpBCD:
		vx, err := c.state.Register(int(ins.X))
		if err != nil {
			return err
		}
		return c.state.SetMemory(index, []byte{vx / 100, vx / 10 % 10, vx % 10})

	case OpStore:
		registers := c.state.Registers()
		return c.state.SetMemory(index, registers[:ins.X+1])

	case OpLoad:
		data, err := c.state.Memory(index, int(ins.X)+1)
		if err != nil {
			return err
		}
		for i, value := range data {
			if err := c.state.SetRegister(i, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// operands returns the values of the Vx and Vy registers of an instruction.
func (c *CPU) operands(ins Instruction) (byte, byte, error) {
	vx, err := c.state.Register(int(ins.X))
	if err != nil {
		return 0, 0, err
	}
	vy, err := c.state.Register(int(ins.Y))
	if err != nil {
		return 0, 0, err
	}
	return vx, vy, nil
}

// setFlag writes the VF flag register.
func (c *CPU) setFlag(set bool) error {
	var value byte
	if set {
		value = 1
	}
	return c.state.SetRegister(machine.FlagRegister, value)
}
