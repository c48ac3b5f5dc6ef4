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

// Package circuit wires Intcode machines into amplifier chains.
//
// Each amplifier runs its own copy of a program and receives a phase setting
// as its first input. In a series circuit the signal flows once from the
// first amplifier to the last. In a feedback circuit the last amplifier's
// output loops back to the first until every amplifier halts.
package circuit

import (
	"github.com/pkg/errors"

	"github.com/lassandro/intcode/pkg/machine"
)

var (
	ErrDeadlock = errors.New("circuit deadlocked")
	ErrNoSignal = errors.New("circuit produced no signal")
)

type Circuit struct {
	Amps     []*machine.Machine
	Feedback bool
}

func New(program, phases []int64, feedback bool, opts ...machine.Option) *Circuit {
	c := &Circuit{
		Amps:     make([]*machine.Machine, len(phases)),
		Feedback: feedback,
	}

	for i, phase := range phases {
		c.Amps[i] = machine.NewFromCells(program, []int64{phase}, opts...)
	}

	return c
}

// Run feeds signal to the first amplifier and resumes the amplifiers in
// round-robin order, forwarding every output to the next amplifier, until all
// of them halted. It returns the last value the final amplifier emitted.
func (c *Circuit) Run(signal int64) (int64, error) {
	if len(c.Amps) == 0 {
		return 0, ErrNoSignal
	}

	var result int64
	var emitted bool

	last := len(c.Amps) - 1
	c.Amps[0].PushInput(signal)

	for {
		progress := false
		alive := 0

		for i, amp := range c.Amps {
			if amp.Halted() {
				continue
			}

			pc, pending, exec := amp.State.Program, amp.Pending(), amp.Exec()

			for {
				state, err := amp.Run()

				if err != nil {
					return 0, errors.Wrapf(err, "amplifier %d", i)
				}

				if state != machine.SuspendedOnOutput {
					break
				}

				value, _ := amp.Output()
				progress = true

				if i == last {
					result, emitted = value, true

					if c.Feedback {
						c.Amps[0].PushInput(value)
					}
				} else {
					c.Amps[i+1].PushInput(value)
				}
			}

			if amp.State.Program != pc || amp.Pending() != pending || amp.Exec() != exec {
				progress = true
			}

			if !amp.Halted() {
				alive++
			}
		}

		if alive == 0 {
			break
		}

		if !progress {
			return 0, ErrDeadlock
		}
	}

	if !emitted {
		return 0, ErrNoSignal
	}

	return result, nil
}

// Permutations returns every ordering of values, using Heap's algorithm.
func Permutations(values []int64) [][]int64 {
	scratch := append([]int64(nil), values...)
	result := [][]int64{append([]int64(nil), scratch...)}

	counters := make([]int, len(scratch))

	for i := 1; i < len(scratch); {
		if counters[i] < i {
			if i%2 == 0 {
				scratch[0], scratch[i] = scratch[i], scratch[0]
			} else {
				scratch[counters[i]], scratch[i] = scratch[i], scratch[counters[i]]
			}

			result = append(result, append([]int64(nil), scratch...))
			counters[i]++
			i = 1
		} else {
			counters[i] = 0
			i++
		}
	}

	return result
}

type Result struct {
	Signal int64
	Phases []int64
}

// MaxSignal tries every ordering of settings and returns the one producing
// the strongest signal.
func MaxSignal(
	program, settings []int64, feedback bool, signal int64, opts ...machine.Option,
) (Result, error) {
	var best Result
	found := false

	for _, phases := range Permutations(settings) {
		value, err := New(program, phases, feedback, opts...).Run(signal)

		if err != nil {
			return Result{}, errors.Wrapf(err, "phases %v", phases)
		}

		if !found || value > best.Signal {
			best = Result{Signal: value, Phases: phases}
			found = true
		}
	}

	return best, nil
}
