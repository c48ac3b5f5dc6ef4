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

// Package config loads YAML run profiles for the intcode command.
//
// A profile names a program (inline or as a file next to the profile), its
// initial input and optionally an amplifier circuit to build from it. Program
// files ending in .ica are assembled before loading.
//
//	program_file: amp.ic
//	circuit:
//	  search: [5, 6, 7, 8, 9]
//	  feedback: true
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lassandro/intcode/pkg/assembler"
	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
)

// Extension of program files holding assembly rather than program text
const AssemblyExt = ".ica"

type Circuit struct {
	// Fixed phase ordering, one amplifier per entry
	Phases []int64 `yaml:"phases,omitempty"`
	// Phase settings to permute when searching for the strongest signal
	Search   []int64 `yaml:"search,omitempty"`
	Feedback bool    `yaml:"feedback,omitempty"`
	Signal   int64   `yaml:"signal,omitempty"`
}

type Profile struct {
	Program      string   `yaml:"program,omitempty"`
	ProgramFile  string   `yaml:"program_file,omitempty"`
	Input        []int64  `yaml:"input,omitempty"`
	TapeSize     int      `yaml:"tape_size,omitempty"`
	RelativeBase int64    `yaml:"relative_base,omitempty"`
	Peek         []int    `yaml:"peek,omitempty"`
	Circuit      *Circuit `yaml:"circuit,omitempty"`

	// Directory program_file is resolved against
	dir string
}

// Load reads and validates the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}

	profile, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "Load %s", path)
	}

	return profile, nil
}

// Parse decodes a profile. Relative program files are resolved against dir.
func Parse(data []byte, dir string) (*Profile, error) {
	var profile Profile

	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, errors.Wrap(err, "yaml")
	}

	profile.dir = dir

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (p *Profile) Validate() error {
	switch {
	case p.Program == "" && p.ProgramFile == "":
		return errors.New("one of program or program_file is required")
	case p.Program != "" && p.ProgramFile != "":
		return errors.New("program and program_file are mutually exclusive")
	case p.TapeSize < 0:
		return errors.Errorf("tape_size %d is negative", p.TapeSize)
	}

	for _, addr := range p.Peek {
		if addr < 0 {
			return errors.Errorf("peek address %d is negative", addr)
		}
	}

	if c := p.Circuit; c != nil {
		switch {
		case len(c.Phases) == 0 && len(c.Search) == 0:
			return errors.New("circuit needs phases or search")
		case len(c.Phases) > 0 && len(c.Search) > 0:
			return errors.New("circuit phases and search are mutually exclusive")
		}
	}

	return nil
}

// ProgramPath returns program_file resolved against the profile directory.
func (p *Profile) ProgramPath() string {
	if p.ProgramFile == "" || filepath.IsAbs(p.ProgramFile) {
		return p.ProgramFile
	}

	return filepath.Join(p.dir, p.ProgramFile)
}

// ProgramText returns the program source, reading program_file when needed.
func (p *Profile) ProgramText() (string, error) {
	if p.ProgramFile == "" {
		return p.Program, nil
	}

	data, err := os.ReadFile(p.ProgramPath())
	if err != nil {
		return "", errors.Wrap(err, "program_file")
	}

	return strings.TrimSpace(string(data)), nil
}

func (p *Profile) ProgramCells() ([]int64, error) {
	return p.LoadProgram(nil)
}

// LoadProgram decodes or assembles the program. Labels and source lines are
// recorded in symtable when it is not nil and the program is assembly.
func (p *Profile) LoadProgram(symtable *assembler.SymTable) ([]int64, error) {
	text, err := p.ProgramText()
	if err != nil {
		return nil, err
	}

	if filepath.Ext(p.ProgramFile) == AssemblyExt {
		if symtable != nil {
			symtable.Source = p.ProgramPath()
		}

		cells, errs := assembler.Assemble(bytes.NewBufferString(text), symtable)
		if len(errs) > 0 {
			return nil, errors.Wrapf(errs[0], "%s: %d errors", p.ProgramFile, len(errs))
		}

		return cells, nil
	}

	cells, err := encoding.DecodeList(text)
	if err != nil {
		return nil, errors.Wrap(err, "program")
	}

	return cells, nil
}

func (p *Profile) MachineOptions() []machine.Option {
	var opts []machine.Option

	if p.TapeSize > 0 {
		opts = append(opts, machine.TapeSize(p.TapeSize))
	}

	if p.RelativeBase != 0 {
		opts = append(opts, machine.RelativeBase(p.RelativeBase))
	}

	return opts
}
