/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
)

const (
	CommandHelp      = "HELP"
	CommandExit      = "EXIT"
	CommandApp       = "APP"
	CommandOutput    = "OUTPUT"
	CommandLoad      = "LOAD"
	CommandTranslate = "TRANSLATE"
)

var OutputFormats = []string{"text", "csv", "json", "dump"}

// Command is a single parsed line of REPL input.
type Command struct {
	Name string
	// Arg is the argument of APP, OUTPUT and LOAD.
	Arg string
	// Document is the query document of TRANSLATE.
	Document []byte
}

// ParseREPLCommand parses input from the command line. A line starting with
// '{' is shorthand for TRANSLATE.
//
// This function assumes there is no '\n'
func ParseREPLCommand(b []byte) (Command, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return Command{}, errors.New("empty command")
	}
	if b[0] == '{' {
		return Command{Name: CommandTranslate, Document: b}, nil
	}

	// all commands have a space after them, if not then they are command only
	// like EXIT
	cmd, data := b, []byte{}
	if ind := bytes.IndexByte(b, ' '); ind != -1 {
		cmd = b[0:ind]
		data = bytes.TrimSpace(b[ind+1:])
	}

	name := strings.ToUpper(string(cmd))
	switch name {
	case CommandHelp, CommandExit:
		return Command{Name: name}, nil
	case CommandOutput:
		format := strings.ToLower(string(data))
		for _, f := range OutputFormats {
			if f == format {
				return Command{Name: name, Arg: format}, nil
			}
		}
		return Command{}, errors.Errorf("unsupported output format %q, want one of %s", data, strings.Join(OutputFormats, ", "))
	case CommandApp:
		if len(data) == 0 || bytes.ContainsAny(data, " \t") {
			return Command{}, errors.New("app requires a single app id")
		}
		return Command{Name: name, Arg: string(data)}, nil
	case CommandLoad:
		if len(data) == 0 {
			return Command{}, errors.New("load requires a file name")
		}
		return Command{Name: name, Arg: string(data)}, nil
	case CommandTranslate:
		if len(data) == 0 {
			return Command{}, errors.New("translate requires a query document")
		}
		return Command{Name: name, Document: data}, nil
	}

	return Command{}, errors.Errorf("unknown command %q", cmd)
}
