package machine

import (
	"errors"
	"fmt"
)

var (
	// ErrStackUnderflow is returned when popping from an empty call stack.
	ErrStackUnderflow = errors.New("call stack underflow")
	// ErrStackOverflow is returned when pushing onto a full call stack.
	ErrStackOverflow = errors.New("call stack overflow")
)

// RegisterRangeError is returned when a register index outside of V0..VF is accessed.
type RegisterRangeError struct {
	Index int
}

func (e *RegisterRangeError) Error() string {
	return fmt.Sprintf("register index %d out of range", e.Index)
}

// MemoryRangeError is returned when a memory access exceeds the address space.
type MemoryRangeError struct {
	Address int
	Length  int
}

func (e *MemoryRangeError) Error() string {
	return fmt.Sprintf("memory access at $%03X with length %d exceeds address space", e.Address, e.Length)
}

// PCRangeError is returned when the program counter is set beyond addressable memory.
type PCRangeError struct {
	Address int
}

func (e *PCRangeError) Error() string {
	return fmt.Sprintf("program counter $%X out of range", e.Address)
}

// KeyRangeError is returned when a key outside of 0..F is accessed.
type KeyRangeError struct {
	Key int
}

func (e *KeyRangeError) Error() string {
	return fmt.Sprintf("key %d out of range", e.Key)
}
