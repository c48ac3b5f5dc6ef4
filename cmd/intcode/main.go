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
	"bufio"
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/lassandro/intcode/pkg/assembler"
	"github.com/lassandro/intcode/pkg/circuit"
	"github.com/lassandro/intcode/pkg/config"
	"github.com/lassandro/intcode/pkg/debugger"
	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
)

var helpvar bool
var debugvar bool
var tracevar bool
var asciivar bool
var inputvar string
var peekvar string
var tapevar int
var configvar string
var shouldexit bool
var stdin *bufio.Reader

// Extension of symbol tables written by intcode-asm -debug
const symbolExt = ".icdb"

const usage = "intcode [-debug] [-trace] [-ascii] [-input 1,2] [-peek 0] " +
	"[-tape #] [-config profile.yaml] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(
		&tracevar, "trace", false,
		"Logs every executed instruction to stderr",
	)
	flag.BoolVar(
		&asciivar, "ascii", false,
		"Exchanges input and output as ASCII characters instead of integers",
	)
	flag.StringVar(
		&inputvar, "input", "",
		"Comma separated values queued as input before the program starts",
	)
	flag.StringVar(
		&peekvar, "peek", "",
		"Comma separated addresses whose values are printed after halting",
	)
	flag.IntVar(
		&tapevar, "tape", machine.DefaultTapeSize,
		"Number of memory cells the program is loaded into",
	)
	flag.StringVar(
		&configvar, "config", "",
		"Loads program, input and circuit settings from a YAML profile",
	)
	flag.Parse()
}

func loadProfile(args []string) (*config.Profile, error) {
	if configvar != "" {
		if len(args) != 0 {
			return nil, errors.New(usage)
		}

		return config.Load(configvar)
	}

	if len(args) != 1 {
		return nil, errors.New(usage)
	}

	input, err := encoding.DecodeList(inputvar)

	if err != nil {
		return nil, errors.Wrap(err, "input")
	}

	peek, err := encoding.DecodeList(peekvar)

	if err != nil {
		return nil, errors.Wrap(err, "peek")
	}

	profile := &config.Profile{
		ProgramFile: args[0],
		Input:       input,
		TapeSize:    tapevar,
	}

	for _, addr := range peek {
		profile.Peek = append(profile.Peek, int(addr))
	}

	return profile, profile.Validate()
}

// Assembly sources are assembled with a fresh table, otherwise the table
// written next to the program by intcode-asm -debug is used if present
func loadSymbols(profile *config.Profile) *assembler.SymTable {
	path := profile.ProgramPath()

	if path == "" {
		return nil
	}

	ext := filepath.Ext(path)

	if ext == config.AssemblyExt {
		return assembler.NewSymTable()
	}

	file, err := os.Open(strings.TrimSuffix(path, ext) + symbolExt)

	if err != nil {
		return nil
	}

	defer file.Close()

	var symtable assembler.SymTable

	if err := gob.NewDecoder(file).Decode(&symtable); err != nil {
		log.Println(errors.Wrap(err, "symbol table"))
		return nil
	}

	return &symtable
}

func runCircuit(profile *config.Profile, program []int64) int {
	c := profile.Circuit
	opts := profile.MachineOptions()

	if len(c.Search) > 0 {
		result, err := circuit.MaxSignal(program, c.Search, c.Feedback, c.Signal, opts...)

		if err != nil {
			log.Println(err)
			return 1
		}

		fmt.Printf("%d %s\n", result.Signal, encoding.EncodeList(result.Phases))
		return 0
	}

	signal, err := circuit.New(program, c.Phases, c.Feedback, opts...).Run(c.Signal)

	if err != nil {
		log.Println(err)
		return 1
	}

	fmt.Println(signal)
	return 0
}

func writeOutput(w io.Writer, value int64) {
	if asciivar && value >= 0 && value < 128 {
		fmt.Fprintf(w, "%c", rune(value))
	} else {
		fmt.Fprintln(w, value)
	}
}

// Reads enough from stdin to satisfy a starved input instruction
func readInput(reader *bufio.Reader, mc *machine.Machine) error {
	if asciivar {
		b, err := reader.ReadByte()

		if err != nil {
			return err
		}

		if b == '\r' {
			b = '\n'
		}

		mc.PushInput(int64(b))
		return nil
	}

	for mc.Pending() == 0 {
		line, err := reader.ReadString('\n')

		values, decodeErr := encoding.DecodeList(strings.Join(strings.Fields(line), ","))

		if decodeErr != nil {
			return decodeErr
		}

		mc.PushInput(values...)

		if err != nil {
			if mc.Pending() > 0 {
				return nil
			}
			return err
		}
	}

	return nil
}

func intcode() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	profile, err := loadProfile(flag.Args())

	if err != nil {
		log.Println(err)
		return 1
	}

	var symtable *assembler.SymTable

	if debugvar {
		symtable = loadSymbols(profile)
	}

	program, err := profile.LoadProgram(symtable)

	if err != nil {
		log.Println(err)
		return 1
	}

	if profile.Circuit != nil {
		return runCircuit(profile, program)
	}

	mc := machine.NewFromCells(program, profile.Input, profile.MachineOptions()...)

	if debugvar || tracevar {
		var dbg debugger.Debugger
		dbg.Color = isatty.IsTerminal(os.Stdout.Fd())

		if tracevar {
			dbg.Trace = log.New(os.Stderr, "", 0)
		}

		if debugvar {
			dbg.Break = true
			dbg.SymTable = symtable
			dbg.HandleBreak = handleBreak
			dbg.HandleRead = handleRead
			dbg.HandleWrite = handleWrite

			c := make(chan os.Signal, 1)
			defer close(c)

			signal.Notify(c, os.Interrupt)
			defer signal.Stop(c)
			go func() {
				for range c {
					fmt.Println()
					dbg.Break = true
				}
			}()
		}

		mc.Tracer = &dbg
	}

	if asciivar && !debugvar && isatty.IsTerminal(os.Stdin.Fd()) {
		if err := enterRawTerm(); err != nil {
			log.Println(err)
			return 1
		}

		defer exitRawTerm()
	}

	stdin = bufio.NewReader(os.Stdin)
	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	for !shouldexit {
		var state machine.ExecState

		if debugvar {
			state, err = mc.Step()
		} else {
			state, err = mc.Run()
		}

		switch state {
		case machine.SuspendedOnOutput:
			value, _ := mc.Output()
			writeOutput(stdout, value)

			if asciivar || debugvar {
				stdout.Flush()
			}

		case machine.SuspendedOnInput:
			stdout.Flush()

			if err := readInput(stdin, mc); err != nil {
				log.Println(errors.Wrap(err, "input"))
				return 1
			}

		case machine.Halted:
			for _, addr := range profile.Peek {
				value, err := mc.Peek(addr)

				if err != nil {
					log.Println(err)
					return 1
				}

				fmt.Fprintf(stdout, "[%d] %d\n", addr, value)
			}

			return 0

		case machine.Faulted:
			stdout.Flush()
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(intcode())
}
