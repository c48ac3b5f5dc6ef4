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
	"bytes"
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/lassandro/intcode/pkg/assembler"
	"github.com/lassandro/intcode/pkg/disasm"
	"github.com/lassandro/intcode/pkg/encoding"
)

var helpvar bool
var debugvar bool
var disasmvar bool
var outvar string
var fromvar int
var countvar int

const usage = "intcode-asm [-d [-from #] [-count #]] [-debug] [-out outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.icdb'",
	)
	flag.BoolVar(
		&disasmvar, "d", false,
		"Disassembles an Intcode program into a listing instead of assembling",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.IntVar(&fromvar, "from", 0, "Address the listing starts at")
	flag.IntVar(
		&countvar, "count", 0,
		"Maximum number of lines to list, 0 lists the whole program",
	)
	flag.Parse()
}

func bold(s string) string {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return s
	}

	return "\033[1m" + s + "\033[0m"
}

func red(s string) string {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return s
	}

	return "\033[31m" + s + "\033[0m"
}

func disassemble(data []byte) int {
	tape, err := encoding.DecodeList(string(data))

	if err != nil {
		log.Println(err)
		return 1
	}

	count := countvar
	if count <= 0 {
		count = len(tape)
	}

	var output io.Writer = os.Stdout

	if outvar != "" {
		file, err := os.Create(outvar)

		if err != nil {
			log.Println("Error creating output file")
			log.Println(err)
			return 1
		}

		defer file.Close()
		output = file
	}

	writer := bufio.NewWriter(output)

	if err := disasm.Listing(writer, tape, fromvar, count); err != nil {
		log.Println("Error writing listing")
		log.Println(err)
		return 1
	}

	if err := writer.Flush(); err != nil {
		log.Println("Error writing listing")
		log.Println(err)
		return 1
	}

	return 0
}

func assemble(data []byte, infile string) int {
	var symtarget *assembler.SymTable = nil

	if debugvar {
		symtarget = assembler.NewSymTable()

		if infile != "" {
			var err error
			if symtarget.Source, err = filepath.Abs(infile); err != nil {
				log.Println(err)
				symtarget.Source = ""
			}
		}
	}

	result, errs := assembler.Assemble(bytes.NewReader(data), symtarget)

	if len(errs) > 0 {
		lines := strings.Split(string(data), "\n")

		for _, err := range errs {
			tokenErr, ok := err.(assembler.TokenError)

			if !ok {
				log.Println(err)
				continue
			}

			cursor := tokenErr.GetPosition()

			if cursor.Line < 1 || cursor.Line > len(lines) || cursor.Column < 1 {
				log.Println(err)
				continue
			}

			line := strings.TrimRight(lines[cursor.Line-1], "\r")

			log.Printf(
				"%s\n%s\n%s",
				err,
				line,
				red(fmt.Sprintf("%*s", cursor.Column, "^")),
			)
		}

		return 1
	}

	output := []byte(encoding.EncodeList(result) + "\n")

	if err := os.WriteFile(outvar, output, 0666); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if debugvar {
		filename := filepath.Join(
			filepath.Dir(outvar),
			strings.TrimSuffix(filepath.Base(outvar), filepath.Ext(outvar))+".icdb",
		)

		file, err := os.Create(filename)

		if err != nil {
			log.Println("Error creating symbol table")
			log.Println(err)
			return 1
		}

		defer file.Close()

		if err := gob.NewEncoder(file).Encode(symtarget); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func intcode_asm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	var infile string
	var input io.Reader

	if stat, _ := os.Stdin.Stat(); stat.Mode()&os.ModeCharDevice == 0 {
		input = os.Stdin
		log.SetPrefix(bold("<stdin>:") + " ")

		if outvar == "" && !disasmvar {
			outvar = "out.ic"
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else if stat.IsDir() {
			log.Printf("%s is not a valid Intcode file", filename)
			return 1
		}

		input = file
		infile = file.Name()
		log.SetPrefix(bold(filename+":") + " ")

		if outvar == "" && !disasmvar {
			outvar = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".ic"

			if outvar == filename {
				log.Println("Output would overwrite the input, specify -out")
				return 1
			}
		}
	}

	data, err := io.ReadAll(input)

	if err != nil {
		log.Println(err)
		return 1
	}

	if disasmvar {
		return disassemble(data)
	}

	return assemble(data, infile)
}

func main() {
	os.Exit(intcode_asm())
}
