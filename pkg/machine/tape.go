// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lassandro/intcode/pkg/encoding"
)

// New parses an Intcode program and an initial input sequence, both given as
// comma separated integers, and returns a machine ready to run.
func New(program, input string, opts ...Option) (*Machine, error) {
	code, err := encoding.DecodeList(program)

	if err != nil {
		return nil, errors.Wrap(err, "program")
	}

	values, err := encoding.DecodeList(input)

	if err != nil {
		return nil, errors.Wrap(err, "input")
	}

	return NewFromCells(code, values, opts...), nil
}

// NewFromCells is New for already parsed cells. Neither slice is retained.
func NewFromCells(program, input []int64, opts ...Option) *Machine {
	mc := &Machine{
		ID:       uuid.New(),
		program:  append([]int64(nil), program...),
		initial:  append([]int64(nil), input...),
		tapeSize: DefaultTapeSize,
	}

	for _, opt := range opts {
		opt(mc)
	}

	mc.Reset()

	return mc
}

// Reset reloads the program and initial input, discarding all state.
func (mc *Machine) Reset() {
	size := mc.tapeSize
	if len(mc.program) > size {
		size = len(mc.program)
	}

	// Reuse the tape when possible, it is the bulk of the machine
	if cap(mc.State.Tape) >= size {
		mc.State.Tape = mc.State.Tape[:size]
		for i := range mc.State.Tape {
			mc.State.Tape[i] = 0
		}
	} else {
		mc.State.Tape = make([]int64, size)
	}

	copy(mc.State.Tape, mc.program)

	mc.State.Program = 0
	mc.State.Base = mc.base
	mc.State.Exec = Running
	mc.State.Fault = nil
	mc.State.input = append(mc.State.input[:0], mc.initial...)
	mc.State.output = 0
	mc.State.hasOutput = false
}

func (mc *Machine) inRange(addr int64) bool {
	return addr >= 0 && addr < int64(len(mc.State.Tape))
}

// Peek returns the tape cell at addr without notifying the tracer.
func (mc *Machine) Peek(addr int) (int64, error) {
	if !mc.inRange(int64(addr)) {
		return 0, errors.Wrapf(AddressOutOfRange, "peek %d", addr)
	}

	return mc.State.Tape[addr], nil
}

// Poke patches the tape cell at addr without notifying the tracer.
func (mc *Machine) Poke(addr int, value int64) error {
	if !mc.inRange(int64(addr)) {
		return errors.Wrapf(AddressOutOfRange, "poke %d", addr)
	}

	mc.State.Tape[addr] = value
	return nil
}
