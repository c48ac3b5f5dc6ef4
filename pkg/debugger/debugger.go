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

package debugger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lassandro/intcode/pkg/disasm"
	"github.com/lassandro/intcode/pkg/machine"
)

func (dbg *Debugger) out() io.Writer {
	if dbg.Out == nil {
		return os.Stdout
	}

	return dbg.Out
}

func (dbg *Debugger) bold(s string) string {
	if !dbg.Color {
		return s
	}

	return "\033[1m" + s + "\033[0m"
}

func (dbg *Debugger) dim(s string) string {
	if !dbg.Color {
		return s
	}

	return "\033[1;30m" + s + "\033[0m"
}

// Step is invoked before the instruction at mc.State.Program executes.
func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Trace != nil {
		dbg.trace(mc)
	}

	if dbg.HandleBreak == nil {
		return
	}

	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr int, mc *machine.Machine) {
	if dbg.HandleRead == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr int, mc *machine.Machine) {
	if dbg.HandleWrite == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// AddBreakpoint returns false when a breakpoint already exists at addr.
func (dbg *Debugger) AddBreakpoint(addr int) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{addr})
	return true
}

// AddWatchpoint returns false when an identical watchpoint exists.
func (dbg *Debugger) AddWatchpoint(addr int, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{addr, wtype})
	return true
}

func (dbg *Debugger) trace(mc *machine.Machine) {
	id := mc.ID.String()[:8]

	ins, err := disasm.Decode(mc.State.Tape, mc.State.Program)
	if err != nil {
		dbg.Trace.Printf("%s %04d: %v", id, mc.State.Program, err)
		return
	}

	var values []string
	for i, param := range ins.Params {
		if ins.Modes[i] == machine.MODE_IMMEDIATE {
			continue
		}

		addr := param
		if ins.Modes[i] == machine.MODE_RELATIVE {
			addr += mc.State.Base
		}

		if addr >= 0 && addr < int64(len(mc.State.Tape)) {
			values = append(values, fmt.Sprintf("[%d]=%d", addr, mc.State.Tape[addr]))
		}
	}

	line := fmt.Sprintf("%s %04d: %-28s rb=%d", id, ins.Addr, ins, mc.State.Base)
	if len(values) > 0 {
		line += " " + strings.Join(values, " ")
	}

	dbg.Trace.Print(line)
}

// PrintSource writes a disassembly of count instructions starting at addr,
// marking the instruction pointer. Labels from the symbol table are printed
// above the instructions they name.
func (dbg *Debugger) PrintSource(mc *machine.MachineState, addr int, count int) {
	w := dbg.out()

	for i := 0; i < count && addr >= 0 && addr < len(mc.Tape); i++ {
		marker := "  "
		if addr == mc.Program {
			marker = "=>"
		}

		if dbg.SymTable != nil {
			if label, exists := dbg.SymTable.Labels[addr]; exists {
				fmt.Fprintf(w, "%s\n", dbg.dim(label+":"))
			}
		}

		ins, err := disasm.Decode(mc.Tape, addr)

		if err != nil {
			fmt.Fprintf(w, "%s %s %s%s\n", marker, dbg.bold(fmt.Sprintf("[%04d]", addr)),
				dbg.dim(fmt.Sprintf(".data %d", mc.Tape[addr])), dbg.line(addr))
			addr++
			continue
		}

		fmt.Fprintf(w, "%s %s %s%s\n", marker, dbg.bold(fmt.Sprintf("[%04d]", addr)), ins, dbg.line(addr))
		addr += ins.Size()
	}
}

// Source line suffix for an assembled address
func (dbg *Debugger) line(addr int) string {
	if dbg.SymTable == nil {
		return ""
	}

	if line, exists := dbg.SymTable.Lines[addr]; exists {
		return dbg.dim(fmt.Sprintf(" ; line %d", line))
	}

	return ""
}

// Resolve returns the address of a label in the symbol table.
func (dbg *Debugger) Resolve(label string) (int, bool) {
	if dbg.SymTable == nil {
		return 0, false
	}

	return dbg.SymTable.Lookup(label)
}

func (dbg *Debugger) PrintLabels() {
	if dbg.SymTable == nil {
		return
	}

	keys := make([]int, 0, len(dbg.SymTable.Labels))
	for addr := range dbg.SymTable.Labels {
		keys = append(keys, addr)
	}

	sort.Ints(keys)

	for _, addr := range keys {
		fmt.Fprintf(
			dbg.out(), "%s %s\n",
			dbg.bold(fmt.Sprintf("[%04d]", addr)),
			dbg.SymTable.Labels[addr],
		)
	}
}

func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count int) {
	w := dbg.out()

	for i := addr; i < addr+count; i++ {
		if i < 0 || i >= len(mc.Tape) {
			fmt.Fprintf(w, "\nAddress %d out of range", i)
			break
		}

		if i == addr {
			fmt.Fprintf(w, "%s ", dbg.bold(fmt.Sprintf("[%04d]", i)))
		} else if (i-addr)%4 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%s ", dbg.bold(fmt.Sprintf("[%04d]", i)))
		}

		result := mc.Tape[i]

		if result == 0 {
			fmt.Fprintf(w, "%s ", dbg.dim(fmt.Sprintf("%d", result)))
		} else {
			fmt.Fprintf(w, "%d ", result)
		}
	}

	fmt.Fprintln(w)
}

func (dbg *Debugger) PrintRegisters(mc *machine.MachineState) {
	fmt.Fprintf(
		dbg.out(),
		"%s %d\t%s %d\t%s %s\n",
		dbg.bold("PC:"),
		mc.Program,
		dbg.bold("RB:"),
		mc.Base,
		dbg.bold("ST:"),
		mc.Exec,
	)
}

func (dbg *Debugger) Prompt() string {
	return dbg.dim("(dbg)") + " "
}
