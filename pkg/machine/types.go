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
)

// ExecState is the position of a machine in its suspend/resume lifecycle.
type ExecState uint8

const (
	Running ExecState = iota
	SuspendedOnOutput
	SuspendedOnInput
	Halted
	Faulted
)

func (s ExecState) String() string {
	switch s {
	case Running:
		return "running"
	case SuspendedOnOutput:
		return "suspended on output"
	case SuspendedOnInput:
		return "suspended on input"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further stepping is possible.
func (s ExecState) Terminal() bool {
	return s == Halted || s == Faulted
}

type MachineState struct {
	Tape    []int64
	Program int   // instruction pointer
	Base    int64 // relative base
	Exec    ExecState
	Fault   *Fault

	input     []int64
	output    int64
	hasOutput bool
}

type MachineTracer interface {
	Step(mc *Machine)
	Read(addr int, mc *Machine)
	Write(addr int, mc *Machine)
}

type Machine struct {
	ID     uuid.UUID
	State  MachineState
	Tracer MachineTracer

	program  []int64
	initial  []int64
	tapeSize int
	base     int64
}

type Option func(*Machine)

// TapeSize sets the number of zero-filled cells the tape is padded to. A
// program longer than size keeps its full length.
func TapeSize(size int) Option {
	return func(mc *Machine) { mc.tapeSize = size }
}

// RelativeBase presets the relative base register.
func RelativeBase(base int64) Option {
	return func(mc *Machine) { mc.base = base }
}

// Tracer attaches a tracer before execution starts.
func Tracer(tracer MachineTracer) Option {
	return func(mc *Machine) { mc.Tracer = tracer }
}

// ID overrides the randomly generated machine identity.
func ID(id uuid.UUID) Option {
	return func(mc *Machine) { mc.ID = id }
}
