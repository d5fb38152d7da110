package cpu

import (
	"errors"
)

// Stack is a full descending stack in memory.
// Sp points at the most recently pushed value.
type Stack struct {
	Memory *Memory
	Sp     *uint8
}

// Push decrements the stack pointer, then writes the value.
func (s Stack) Push(value uint8) (err error) {
	return s.PushFrom(&value)
}

// PushFrom decrements the stack pointer, then writes the value held by src.
// src is read after the decrement, so pushing the stack pointer register
// stores the decremented address.
func (s Stack) PushFrom(src *uint8) (err error) {
	if s.Full() {
		err = errors.Join(ErrOutOfBounds, ErrStackOverflow)
		return
	}

	*s.Sp--
	s.Memory[*s.Sp] = *src
	return
}

// Pop reads the value at the stack pointer, then increments it.
func (s Stack) Pop() (value uint8, err error) {
	if *s.Sp == MEMORY_SIZE-1 {
		err = errors.Join(ErrOutOfBounds, ErrStackUnderflow)
		return
	}

	value = s.Memory[*s.Sp]
	*s.Sp++
	return
}

// Empty returns true if nothing is pushed below the initial stack pointer.
func (s Stack) Empty() bool {
	return *s.Sp >= SP_INIT
}

// Full returns true if the stack has reached address 0.
func (s Stack) Full() bool {
	return *s.Sp == 0
}

// Depth returns the number of values pushed below the initial stack pointer.
func (s Stack) Depth() int {
	if s.Empty() {
		return 0
	}
	return SP_INIT - int(*s.Sp)
}

// Peek returns the most recently pushed value.
func (s Stack) Peek() (value uint8, ok bool) {
	if s.Empty() {
		return
	}

	return s.Memory[*s.Sp], true
}

// Reset restores the stack pointer to its initial value.
func (s Stack) Reset() {
	*s.Sp = SP_INIT
}
