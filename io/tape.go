package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"strconv"
)

// Tape provides sequential text output.
// Each value sent is written to Output as a decimal number on its own line.
type Tape struct {
	Output io.Writer
	Limit  int // Maximum lines per rewind, 0 for no limit.

	Lines int // Number of lines written since the last rewind.
}

var _ Channel = (*Tape)(nil)

// Defines returns an iter of defines for the channel.
func (tc *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"TAPE_LIMIT": fmt.Sprintf("%v", tc.Limit),
	})
}

// Rewind is not possible on a tape, only the line counter is reset.
func (tc *Tape) Rewind() {
	tc.Lines = 0
}

// Send writes the decimal value followed by a newline.
func (tc *Tape) Send(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrChannelMissing
		return
	}

	if tc.Limit > 0 && tc.Lines >= tc.Limit {
		err = ErrChannelFull
		return
	}

	line := strconv.AppendUint(nil, uint64(value), 10)
	line = append(line, '\n')

	_, err = tc.Output.Write(line)
	if err != nil {
		return
	}

	tc.Lines++

	return
}
