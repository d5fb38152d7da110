package io

import (
	"bytes"
	"errors"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape_Send(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	tape := &Tape{Output: out}

	assert.NoError(tape.Send(8))
	assert.NoError(tape.Send(0))
	assert.NoError(tape.Send(255))

	assert.Equal("8\n0\n255\n", out.String())
	assert.Equal(3, tape.Lines)

	tape.Rewind()
	assert.Equal(0, tape.Lines)
	assert.Equal("8\n0\n255\n", out.String())
}

func TestTape_Send_NoOutput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	err := tape.Send(1)
	assert.ErrorIs(err, ErrChannelMissing)
	assert.Equal(0, tape.Lines)
}

type failWriter struct{}

var errWrite = errors.New("write failed")

func (failWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}

func TestTape_Send_WriteError(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Output: failWriter{}}
	err := tape.Send(1)
	assert.ErrorIs(err, errWrite)
	assert.Equal(0, tape.Lines)
}

func TestTape_Defines(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Limit: 16}
	defines := maps.Collect(tape.Defines())
	assert.Equal(map[string]string{"TAPE_LIMIT": "16"}, defines)

	tape = &Tape{}
	defines = maps.Collect(tape.Defines())
	assert.Equal("0", defines["TAPE_LIMIT"])
}

func TestTape_Send_Limit(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	tape := &Tape{Output: out, Limit: 2}

	assert.NoError(tape.Send(1))
	assert.NoError(tape.Send(2))
	assert.ErrorIs(tape.Send(3), ErrChannelFull)
	assert.Equal("1\n2\n", out.String())
	assert.Equal(2, tape.Lines)

	tape.Rewind()
	assert.NoError(tape.Send(4))
	assert.Equal("1\n2\n4\n", out.String())
}

func TestTemporary_Send(t *testing.T) {
	assert := assert.New(t)

	temp := &Temporary{Capacity: 2}

	assert.NoError(temp.Send(1))
	assert.NoError(temp.Send(2))
	assert.ErrorIs(temp.Send(3), ErrChannelFull)

	var values []uint8
	for value := range temp.Receive() {
		values = append(values, value)
	}
	assert.Equal([]uint8{1, 2}, values)

	temp.Rewind()
	assert.Empty(temp.Data)
	assert.NoError(temp.Send(3))
	assert.Equal([]uint8{3}, temp.Data)
}

func TestTemporary_Receive_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	temp := &Temporary{Capacity: 4, Data: []uint8{4, 5, 6}}

	var values []uint8
	for value := range temp.Receive() {
		values = append(values, value)
		if len(values) == 2 {
			break
		}
	}
	assert.Equal([]uint8{4, 5}, values)
}
