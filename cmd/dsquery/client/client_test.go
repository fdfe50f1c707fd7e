/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package client

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dburkart/dsquery/pkg/repl"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, out *bytes.Buffer) *session {
	t.Helper()
	s := &session{log: zerolog.Nop(), host: "local", output: "csv", stdout: out}
	require.NoError(t, s.connect())
	return s
}

func TestSessionAppSwitch(t *testing.T) {
	var out bytes.Buffer
	s := newSession(t, &out)

	s.translate([]byte(`{"kind": "Greeting"}`))
	assert.Contains(t, out.String(), "invalid_document")

	exit, err := s.execute(repl.Command{Name: repl.CommandApp, Arg: "guestbook"})
	require.NoError(t, err)
	assert.False(t, exit)

	out.Reset()
	s.translate([]byte(`{"kind": "Greeting"}`))
	assert.Equal(t, "clause,property,operator,value\nkind,,,Greeting\n\n", out.String())
}

func TestSessionLoad(t *testing.T) {
	var out bytes.Buffer
	s := newSession(t, &out)

	path := filepath.Join(t.TempDir(), "q.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"app": "a", "kind": "K", "options": {"limit": 5}}`), 0o644))

	_, err := s.execute(repl.Command{Name: repl.CommandLoad, Arg: path})
	require.NoError(t, err)
	assert.Equal(t, "clause,property,operator,value\nkind,,,K\nlimit,,,5\n\n", out.String())

	_, err = s.execute(repl.Command{Name: repl.CommandLoad, Arg: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestSessionExit(t *testing.T) {
	var out bytes.Buffer
	exit, err := newSession(t, &out).execute(repl.Command{Name: repl.CommandExit})
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestFilterStringSlice(t *testing.T) {
	assert.Equal(t, []string{"csv"}, filterStringSlice(repl.OutputFormats, "csv"))
	assert.Equal(t, []string{}, filterStringSlice(repl.OutputFormats, "yaml"))
}
