/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"bytes"
	"testing"
)

func TestParseREPLCommand(t *testing.T) {
	t.Run("exit", func(t *testing.T) {
		cmd, err := ParseREPLCommand([]byte("exit"))
		if err != nil {
			t.Fail()
		}
		if cmd.Name != CommandExit {
			t.Fail()
		}
	})
	t.Run("help mixed case", func(t *testing.T) {
		cmd, err := ParseREPLCommand([]byte("  HeLp "))
		if err != nil {
			t.Fail()
		}
		if cmd.Name != CommandHelp {
			t.Fail()
		}
	})
	t.Run("output", func(t *testing.T) {
		cmd, err := ParseREPLCommand([]byte("output CSV"))
		if err != nil {
			t.Fail()
		}
		if cmd.Name != CommandOutput || cmd.Arg != "csv" {
			t.Errorf("unexpected command %+v", cmd)
		}
	})
	t.Run("output unknown format", func(t *testing.T) {
		_, err := ParseREPLCommand([]byte("output yaml"))
		if err == nil {
			t.Fail()
		}
	})
	t.Run("app", func(t *testing.T) {
		cmd, err := ParseREPLCommand([]byte("app guestbook"))
		if err != nil {
			t.Fail()
		}
		if cmd.Name != CommandApp || cmd.Arg != "guestbook" {
			t.Errorf("unexpected command %+v", cmd)
		}
	})
	t.Run("app two ids", func(t *testing.T) {
		_, err := ParseREPLCommand([]byte("app a b"))
		if err == nil {
			t.Fail()
		}
	})
	t.Run("load", func(t *testing.T) {
		cmd, err := ParseREPLCommand([]byte("load ./queries/greetings.jsonc"))
		if err != nil {
			t.Fail()
		}
		if cmd.Name != CommandLoad || cmd.Arg != "./queries/greetings.jsonc" {
			t.Errorf("unexpected command %+v", cmd)
		}
	})
	t.Run("load no file", func(t *testing.T) {
		_, err := ParseREPLCommand([]byte("load"))
		if err == nil {
			t.Fail()
		}
	})
	t.Run("translate", func(t *testing.T) {
		cmd, err := ParseREPLCommand([]byte(`translate {"kind": "Greeting"}`))
		if err != nil {
			t.Fail()
		}
		if cmd.Name != CommandTranslate {
			t.Fail()
		}
		if !bytes.Equal(cmd.Document, []byte(`{"kind": "Greeting"}`)) {
			t.Errorf("unexpected document %s", cmd.Document)
		}
	})
	t.Run("bare document", func(t *testing.T) {
		cmd, err := ParseREPLCommand([]byte(`{"kind": "Greeting"}`))
		if err != nil {
			t.Fail()
		}
		if cmd.Name != CommandTranslate {
			t.Fail()
		}
		if !bytes.Equal(cmd.Document, []byte(`{"kind": "Greeting"}`)) {
			t.Errorf("unexpected document %s", cmd.Document)
		}
	})
	t.Run("translate no document", func(t *testing.T) {
		_, err := ParseREPLCommand([]byte("translate"))
		if err == nil {
			t.Fail()
		}
	})
	t.Run("unknown", func(t *testing.T) {
		_, err := ParseREPLCommand([]byte("append / a"))
		if err == nil {
			t.Fail()
		}
	})
	t.Run("empty", func(t *testing.T) {
		_, err := ParseREPLCommand([]byte("   "))
		if err == nil {
			t.Fail()
		}
	})
}
