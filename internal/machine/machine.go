// Package machine contains the mutable state of the CHIP-8 virtual machine:
// registers, memory, program counter, index register, call stack, timers and
// the key press snapshot.
package machine

// CHIP-8 memory layout constants.
//
//	0x000-0x1FF: Interpreter area, font glyphs start at FontStart
//	0x200-0xFFF: User program space
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// AddressMask masks a value to the 12 bit address space.
	AddressMask = MemorySize - 1

	// ProgramStart is the address where programs are loaded and execution begins.
	ProgramStart = 0x200

	// FontStart is the address of the first font glyph.
	FontStart = 0x50

	// GlyphSize is the number of bytes of a single font glyph.
	GlyphSize = 5

	// RegisterCount is the number of general purpose registers V0..VF.
	RegisterCount = 16

	// FlagRegister is the index of VF, used for carry, borrow and collision flags.
	FlagRegister = 0xF

	// KeyCount is the number of keys on the keypad.
	KeyCount = 16

	// StackDepth is the maximum number of nested subroutine calls.
	StackDepth = 16

	// opcodeSize is the size of an instruction in bytes.
	opcodeSize = 2
)

// State is the complete mutable state of the virtual machine.
// It is owned by a single interpreter and is not safe for concurrent use.
type State struct {
	memory    [MemorySize]byte
	registers [RegisterCount]byte
	pc        uint16
	index     uint16
	stack     []uint16

	delayTimer byte
	soundTimer byte

	keys [KeyCount]bool
}

// New returns a new machine state with the program counter set to the
// program start address and everything else zeroed.
func New() *State {
	return &State{
		pc:    ProgramStart,
		stack: make([]uint16, 0, StackDepth),
	}
}

// Register returns the value of register Vi.
func (s *State) Register(i int) (byte, error) {
	if i < 0 || i >= RegisterCount {
		return 0, &RegisterRangeError{Index: i}
	}
	return s.registers[i], nil
}

// SetRegister sets register Vi to the given value.
func (s *State) SetRegister(i int, value byte) error {
	if i < 0 || i >= RegisterCount {
		return &RegisterRangeError{Index: i}
	}
	s.registers[i] = value
	return nil
}

// Registers returns a copy of all registers.
func (s *State) Registers() [RegisterCount]byte {
	return s.registers
}

// Memory returns a copy of length bytes of memory starting at address.
func (s *State) Memory(address, length int) ([]byte, error) {
	if address < 0 || length < 0 || address+length > MemorySize {
		return nil, &MemoryRangeError{Address: address, Length: length}
	}
	data := make([]byte, length)
	copy(data, s.memory[address:address+length])
	return data, nil
}

// SetMemory writes data into memory starting at address.
func (s *State) SetMemory(address int, data []byte) error {
	if address < 0 || address+len(data) > MemorySize {
		return &MemoryRangeError{Address: address, Length: len(data)}
	}
	copy(s.memory[address:], data)
	return nil
}

// Opcode returns the big endian instruction word at the program counter.
func (s *State) Opcode() (uint16, error) {
	data, err := s.Memory(int(s.pc), opcodeSize)
	if err != nil {
		return 0, err
	}
	return uint16(data[0])<<8 | uint16(data[1]), nil
}

// PC returns the program counter.
func (s *State) PC() uint16 {
	return s.pc
}

// SetPC sets the program counter. Addresses beyond the address space are rejected.
func (s *State) SetPC(address int) error {
	if address < 0 || address > AddressMask {
		return &PCRangeError{Address: address}
	}
	s.pc = uint16(address)
	return nil
}

// AdvancePC moves the program counter forward, wrapping at the end of memory.
func (s *State) AdvancePC(by uint16) {
	s.pc = (s.pc + by) & AddressMask
}

// RewindPC moves the program counter backwards, wrapping at the start of memory.
func (s *State) RewindPC(by uint16) {
	s.pc = (s.pc - by) & AddressMask
}

// Index returns the index register I.
func (s *State) Index() uint16 {
	return s.index
}

// SetIndex sets the index register, wrapping the value into the address space.
func (s *State) SetIndex(value int) {
	s.index = uint16(value) & AddressMask
}

// AddIndex adds value to the index register and reports whether the
// result overflowed the address space before it was wrapped.
func (s *State) AddIndex(value int) bool {
	result := int(s.index) + value
	s.SetIndex(result)
	return result > AddressMask
}

// Push pushes a return address onto the call stack.
func (s *State) Push(address uint16) error {
	if len(s.stack) >= StackDepth {
		return ErrStackOverflow
	}
	s.stack = append(s.stack, address)
	return nil
}

// Pop removes and returns the most recently pushed return address.
func (s *State) Pop() (uint16, error) {
	if len(s.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	address := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return address, nil
}

// StackSize returns the number of return addresses on the call stack.
func (s *State) StackSize() int {
	return len(s.stack)
}

// Stack returns a copy of the call stack, the most recent entry last.
func (s *State) Stack() []uint16 {
	stack := make([]uint16, len(s.stack))
	copy(stack, s.stack)
	return stack
}

// DelayTimer returns the delay timer value.
func (s *State) DelayTimer() byte {
	return s.delayTimer
}

// SetDelayTimer sets the delay timer.
func (s *State) SetDelayTimer(value byte) {
	s.delayTimer = value
}

// SoundTimer returns the sound timer value.
func (s *State) SoundTimer() byte {
	return s.soundTimer
}

// SetSoundTimer sets the sound timer.
func (s *State) SetSoundTimer(value byte) {
	s.soundTimer = value
}

// DecrementDelayTimer decrements the delay timer without going below zero
// and returns the resulting value.
func (s *State) DecrementDelayTimer() byte {
	if s.delayTimer > 0 {
		s.delayTimer--
	}
	return s.delayTimer
}

// DecrementSoundTimer decrements the sound timer without going below zero
// and returns the resulting value. A non zero result means a tone should play.
func (s *State) DecrementSoundTimer() byte {
	if s.soundTimer > 0 {
		s.soundTimer--
	}
	return s.soundTimer
}

// SetKeyState records whether a key is currently held.
func (s *State) SetKeyState(key int, held bool) error {
	if key < 0 || key >= KeyCount {
		return &KeyRangeError{Key: key}
	}
	s.keys[key] = held
	return nil
}

// KeyState returns whether a key is currently held.
func (s *State) KeyState(key int) (bool, error) {
	if key < 0 || key >= KeyCount {
		return false, &KeyRangeError{Key: key}
	}
	return s.keys[key], nil
}

// ClearKeyState releases all keys.
func (s *State) ClearKeyState() {
	s.keys = [KeyCount]bool{}
}
