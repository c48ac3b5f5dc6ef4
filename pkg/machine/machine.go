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

// PushInput appends values to the back of the input queue.
func (mc *Machine) PushInput(values ...int64) {
	mc.State.input = append(mc.State.input, values...)
}

// Pending returns the number of queued input values.
func (mc *Machine) Pending() int {
	return len(mc.State.input)
}

// Output returns and clears the pending output value.
func (mc *Machine) Output() (int64, error) {
	if !mc.State.hasOutput {
		return 0, ErrOutputNotReady
	}

	value := mc.State.output
	mc.State.output = 0
	mc.State.hasOutput = false

	if mc.State.Exec == SuspendedOnOutput {
		mc.State.Exec = Running
	}

	return value, nil
}

func (mc *Machine) HasOutput() bool {
	return mc.State.hasOutput
}

func (mc *Machine) Exec() ExecState {
	return mc.State.Exec
}

func (mc *Machine) Halted() bool {
	return mc.State.Exec == Halted
}

func (mc *Machine) Faulted() bool {
	return mc.State.Exec == Faulted
}

// Err returns the fault that stopped the machine, if any.
func (mc *Machine) Err() error {
	if mc.State.Fault == nil {
		return nil
	}

	return mc.State.Fault
}

// Run steps the machine until it suspends, halts or faults.
func (mc *Machine) Run() (ExecState, error) {
	for {
		state, err := mc.Step()

		if state != Running || err != nil {
			return state, err
		}
	}
}

// Collect runs the machine until it halts, faults or starves for input and
// returns every value it wrote in between.
func (mc *Machine) Collect() ([]int64, ExecState, error) {
	var outputs []int64

	for {
		state, err := mc.Run()

		if state == SuspendedOnOutput && err == nil {
			value, _ := mc.Output()
			outputs = append(outputs, value)
			continue
		}

		return outputs, state, err
	}
}

func (mc *Machine) fault(errno Errno, param int, value int64) {
	f := &Fault{
		Errno: errno,
		PC:    mc.State.Program,
		Param: param,
		Value: value,
	}

	if mc.inRange(int64(mc.State.Program)) {
		f.Instr = mc.State.Tape[mc.State.Program]
	}

	panic(f)
}

func (mc *Machine) read(addr int64) int64 {
	if !mc.inRange(addr) {
		mc.fault(AddressOutOfRange, 0, addr)
	}

	if mc.Tracer != nil {
		mc.Tracer.Read(int(addr), mc)
	}

	return mc.State.Tape[addr]
}

func (mc *Machine) write(addr int64, value int64) {
	if !mc.inRange(addr) {
		mc.fault(AddressOutOfRange, 0, addr)
	}

	mc.State.Tape[addr] = value

	if mc.Tracer != nil {
		mc.Tracer.Write(int(addr), mc)
	}
}

// Raw parameter cell of the current instruction
func (mc *Machine) param(param int) int64 {
	addr := int64(mc.State.Program + param)

	if !mc.inRange(addr) {
		mc.fault(AddressOutOfRange, param, addr)
	}

	return mc.State.Tape[addr]
}

func (mc *Machine) mode(param int) int64 {
	mode := Mode(mc.State.Tape[mc.State.Program], param)

	if mode != MODE_POSITION && mode != MODE_IMMEDIATE && mode != MODE_RELATIVE {
		mc.fault(InvalidParameterMode, param, mode)
	}

	return mode
}

// Effective address of a position or relative mode parameter
func (mc *Machine) addr(param int) int64 {
	switch mc.mode(param) {
	case MODE_RELATIVE:
		return mc.State.Base + mc.param(param)
	case MODE_IMMEDIATE:
		mc.fault(ImmediateWriteTarget, param, mc.param(param))
	}

	return mc.param(param)
}

func (mc *Machine) load(param int) int64 {
	if mc.mode(param) == MODE_IMMEDIATE {
		return mc.param(param)
	}

	return mc.read(mc.addr(param))
}

func (mc *Machine) store(param int, value int64) {
	mc.write(mc.addr(param), value)
}

func bool2cell(b bool) int64 {
	if b {
		return 1
	}

	return 0
}

// Step executes a single instruction. An unread output, a halt or a fault
// prevent any execution and are reported as is.
func (mc *Machine) Step() (state ExecState, err error) {
	switch {
	case mc.State.Exec == Halted:
		return Halted, ErrHalted
	case mc.State.Exec == Faulted:
		return Faulted, mc.State.Fault
	case mc.State.hasOutput:
		return SuspendedOnOutput, ErrOutputPending
	}

	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*Fault)
			if !ok {
				panic(r)
			}

			mc.State.Exec = Faulted
			mc.State.Fault = f
			state, err = Faulted, f
		}
	}()

	mc.State.Exec = Running

	if mc.Tracer != nil {
		mc.Tracer.Step(mc)
	}

	if !mc.inRange(int64(mc.State.Program)) {
		mc.fault(AddressOutOfRange, 0, int64(mc.State.Program))
	}

	instruction := mc.State.Tape[mc.State.Program]

	switch Opcode(instruction) {
	// add  a, b, dest      | mem[dest] = a + b
	case OP_ADD:
		mc.store(3, mc.load(1)+mc.load(2))
		mc.State.Program += 4

	// mul  a, b, dest      | mem[dest] = a * b
	case OP_MUL:
		mc.store(3, mc.load(1)*mc.load(2))
		mc.State.Program += 4

	// in   dest            | mem[dest] = input, suspends when none is queued
	case OP_IN:
		if len(mc.State.input) == 0 {
			mc.State.Exec = SuspendedOnInput
			return mc.State.Exec, nil
		}

		mc.store(1, mc.State.input[0])
		mc.State.input = mc.State.input[1:]
		mc.State.Program += 2

	// out  a               | output = a, always suspends
	case OP_OUT:
		mc.State.output = mc.load(1)
		mc.State.hasOutput = true
		mc.State.Program += 2
		mc.State.Exec = SuspendedOnOutput

	// jt   a, target       | jump when a != 0
	case OP_JT:
		if mc.load(1) != 0 {
			mc.State.Program = int(mc.load(2))
		} else {
			mc.State.Program += 3
		}

	// jf   a, target       | jump when a == 0
	case OP_JF:
		if mc.load(1) == 0 {
			mc.State.Program = int(mc.load(2))
		} else {
			mc.State.Program += 3
		}

	// lt   a, b, dest      | mem[dest] = a < b
	case OP_LT:
		mc.store(3, bool2cell(mc.load(1) < mc.load(2)))
		mc.State.Program += 4

	// eq   a, b, dest      | mem[dest] = a == b
	case OP_EQ:
		mc.store(3, bool2cell(mc.load(1) == mc.load(2)))
		mc.State.Program += 4

	// arb  a               | base += a
	case OP_ARB:
		mc.State.Base += mc.load(1)
		mc.State.Program += 2

	case OP_HALT:
		mc.State.Exec = Halted

	default:
		mc.fault(InvalidOpcode, 0, Opcode(instruction))
	}

	return mc.State.Exec, nil
}
