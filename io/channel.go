// Package io provides the output channels for the LS-8 emulator.
// The cpu sends every Print-Register value to a Channel; Tape writes
// the values as decimal text lines and Temporary keeps them in memory.
package io

// Channel defines the interface for all output channels of the LS-8 cpu.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send writes a single register value to the channel.
	Send(value uint8) error
}
