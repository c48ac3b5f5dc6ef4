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

package main

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/lassandro/intcode/pkg/debugger"
	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
)

var lastcmd []string

// Decodes a numeric address or a label from the loaded symbol table
func decodeAddr(dbg *debugger.Debugger, s string) (int, error) {
	if addr, ok := dbg.Resolve(s); ok {
		return addr, nil
	}

	value, err := encoding.DecodeValue(s)

	if err != nil {
		return 0, err
	}

	if value < 0 || value > math.MaxInt32 {
		return 0, fmt.Errorf("Invalid address %d", value)
	}

	return int(value), nil
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [#|label]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := decodeAddr(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if dbg.AddBreakpoint(addr) {
			fmt.Printf("Breakpoint added [%04d]\n", addr)
		}

	case "l", "ls", "list":
		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Breakpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%04d\n", int64(digits)+1)
		}

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = make([]debugger.Breakpoint, 0)
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|rm|clear]"

	if len(args) == 0 {
		log.Println(usage)
		return
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [#|label] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := decodeAddr(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "rwrite", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		if dbg.AddWatchpoint(addr, wtype) {
			fmt.Printf("Watchpoint added [%04d] (%s)\n", addr, watchName(wtype))
		}

	case "l", "ls", "list":
		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Watchpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%04d %%s\n", int64(digits)+1)
		}

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchName(watchpoint.Type))
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = make([]debugger.Watchpoint, 0)
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

func watchName(wtype debugger.WatchpointType) string {
	switch wtype {
	case debugger.ReadWatch:
		return "read"
	case debugger.WriteWatch:
		return "write"
	default:
		return "readwrite"
	}
}

func debugReg(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "register [PC|RB] [#]"

	if len(args) == 0 {
		dbg.PrintRegisters(mc)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	value, err := encoding.DecodeValue(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	switch strings.ToUpper(args[0]) {
	case "PC":
		mc.Program = int(value)
	case "RB":
		mc.Base = value
	default:
		log.Println("Invalid register")
		return
	}

	dbg.PrintRegisters(mc)
}

func debugSource(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "source [#|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	addr := mc.Program
	size := 8

	if len(args) > 0 {
		value, err := decodeAddr(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		addr = value
	}

	if len(args) > 1 {
		value, err := strconv.Atoi(args[1])

		if err != nil {
			log.Println(err)
			return
		}

		size = value
	}

	dbg.PrintSource(mc, addr, size)
}

func debugLabels(dbg *debugger.Debugger, args []string) {
	const usage = "labels"

	if len(args) > 0 {
		fmt.Println(usage)
		return
	}

	if dbg.SymTable == nil {
		fmt.Println("No symbol table loaded")
		return
	}

	dbg.PrintLabels()
}

func debugJump(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "jump [#|label]"

	if len(args) != 1 {
		fmt.Println(usage)
		return
	}

	addr, err := decodeAddr(dbg, args[0])

	if err != nil {
		log.Println(err)
		return
	}

	mc.Program = addr
	dbg.PrintRegisters(mc)
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "memory [#|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	size := 1
	addr := mc.Program

	if len(args) > 0 {
		value, err := decodeAddr(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		addr = value
	}

	if len(args) > 1 {
		value, err := strconv.Atoi(args[1])

		if err != nil {
			log.Println(err)
			return
		}

		size = value
	}

	dbg.PrintMem(mc, addr, size)
}

func debugSet(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "set [#|label] [#]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := decodeAddr(dbg, args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeValue(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	if err := mc.Poke(addr, value); err != nil {
		log.Println(err)
		return
	}

	dbg.PrintMem(&mc.State, addr, 1)
}

func debugInput(mc *machine.Machine, args []string) {
	const usage = "input [#,#...]"

	if len(args) == 0 {
		fmt.Printf("%d values queued\n", mc.Pending())
		return
	}

	values, err := encoding.DecodeList(strings.Join(args, ","))

	if err != nil {
		log.Println(err)
		log.Println(usage)
		return
	}

	mc.PushInput(values...)
	fmt.Printf("%d values queued\n", mc.Pending())
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	for {
		fmt.Print(dbg.Prompt())

		line, err := stdin.ReadString('\n')

		if err != nil && line == "" {
			fmt.Println()
			shouldexit = true
			dbg.Break = false
			return
		}

		args := strings.Fields(line)

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, &mc.State, args)

		case "s", "src", "source", "l", "list":
			debugSource(dbg, &mc.State, args)

		case "labels":
			debugLabels(dbg, args)

		case "j", "jmp", "jump":
			debugJump(dbg, &mc.State, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "set":
			debugSet(dbg, mc, args)

		case "i", "in", "input":
			debugInput(mc, args)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit = true
			dbg.Break = false
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			mc.Reset()
			dbg.PrintRegisters(&mc.State)

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
	}

	dbg.PrintSource(&mc.State, mc.State.Program, 1)
	debugREPL(dbg, mc)
}

func handleRead(addr int, dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr int, dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}
