package io

import (
	"iter"
)

// Temporary keeps printed values in memory, up to Capacity values.
type Temporary struct {
	Capacity int // Capacity in values.

	Data []uint8
}

var _ Channel = (*Temporary)(nil)

// Rewind discards all stored values.
func (temp *Temporary) Rewind() {
	temp.Data = temp.Data[:0]
}

// Receive returns an iterator over the stored values, oldest first.
func (temp *Temporary) Receive() iter.Seq[uint8] {
	return func(yield func(value uint8) bool) {
		for _, value := range temp.Data {
			if !yield(value) {
				return
			}
		}
	}
}

// Send stores a value.
// Returns ErrChannelFull if the buffer has reached capacity.
func (temp *Temporary) Send(value uint8) (err error) {
	if len(temp.Data) >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	temp.Data = append(temp.Data, value)

	return
}
