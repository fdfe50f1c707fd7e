/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package client

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	dsquery "github.com/dburkart/dsquery/api"
	"github.com/dburkart/dsquery/pkg/querydoc"
	"github.com/dburkart/dsquery/pkg/repl"
	"github.com/dburkart/dsquery/pkg/server"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "repl",
	Short: "Interactive terminal for translating query documents",

	Run: func(cmd *cobra.Command, args []string) {
		log := viper.Get("logger").(zerolog.Logger)
		output := viper.GetString("dsquery.output")
		if len(filterStringSlice(repl.OutputFormats, output)) != 1 {
			log.Fatal().Msg("unsupported output format")
		}

		s := &session{
			log:    log,
			host:   viper.GetString("dsquery.host"),
			output: output,
			defaults: querydoc.Defaults{
				App:       viper.GetString("dsquery.app"),
				Namespace: viper.GetString("dsquery.namespace"),
			},
			stdout: os.Stdout,
		}
		if err := s.connect(); err != nil {
			log.Fatal().Err(err).Str("host", s.host).Msg("unable to create client")
		}
		defer s.client.Close()

		readlinePrompt(s)
	},
}

func init() {
	// Flags for this command
	Command.Flags().StringP("host", "H", "local", "Where to translate: local, or http://<host:port> of a dsquery server")
	Command.Flags().StringP("output", "o", "text", "Output format of results [text, csv, json, dump]")

	// Bind flags to viper
	viper.BindPFlag("dsquery.host", Command.Flags().Lookup("host"))
	viper.BindPFlag("dsquery.output", Command.Flags().Lookup("output"))
}

type session struct {
	log      zerolog.Logger
	host     string
	output   string
	defaults querydoc.Defaults
	client   dsquery.Client
	stdout   io.Writer
}

func (s *session) connect() error {
	client, err := dsquery.NewClient(s.host, dsquery.Options{Log: s.log, Defaults: s.defaults})
	if err != nil {
		return err
	}
	if s.client != nil {
		s.client.Close()
	}
	s.client = client
	return nil
}

// execute runs one parsed command. It reports whether the REPL should exit.
func (s *session) execute(cmd repl.Command) (bool, error) {
	switch cmd.Name {
	case repl.CommandExit:
		return true, nil
	case repl.CommandApp:
		s.defaults.App = cmd.Arg
		if err := s.connect(); err != nil {
			return false, err
		}
		fmt.Fprintf(s.stdout, "default app is now %s\n", cmd.Arg)
	case repl.CommandOutput:
		s.output = cmd.Arg
	case repl.CommandLoad:
		data, err := os.ReadFile(filepath.Clean(cmd.Arg))
		if err != nil {
			return false, err
		}
		s.translate(data)
	case repl.CommandTranslate:
		s.translate(cmd.Document)
	}
	return false, nil
}

func (s *session) translate(doc []byte) {
	writer := repl.NewOutputWriter(s.stdout, s.output)

	q, err := s.client.Translate(doc)
	var syntax *querydoc.SyntaxError
	if errors.As(err, &syntax) {
		fmt.Fprint(s.stdout, syntax.FormatError(doc))
		return
	}

	var out repl.Printable = repl.QueryTable{Query: q}
	if err != nil {
		out = repl.ErrorTable{Kind: server.ErrorKind(err), Err: err.Error()}
		var remote *dsquery.RemoteError
		if errors.As(err, &remote) {
			out = repl.ErrorTable{Kind: remote.Kind, Err: remote.Message}
		}
	}

	if err := writer.Write(out); err != nil {
		s.log.Error().Err(err).Msg("unable to write result")
	}
	fmt.Fprintln(s.stdout)
}

func filterStringSlice(s []string, prefix string) []string {
	retList := []string{}
	for i := range s {
		if strings.HasPrefix(s[i], prefix) {
			retList = append(retList, s[i])
		}
	}
	return retList
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func listFiles(line string) []string {
	pattern := strings.TrimSpace(strings.TrimPrefix(line, "load")) + "*"
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return []string{}
	}
	return matches
}

func readlinePrompt(s *session) {
	outputItems := []readline.PrefixCompleterInterface{}
	for _, f := range repl.OutputFormats {
		outputItems = append(outputItems, readline.PcItem(f))
	}

	// Configure the completer
	completer := readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("app"),
		readline.PcItem("output", outputItems...),
		readline.PcItem("load", readline.PcItemDynamic(listFiles)),
		readline.PcItem("translate"),
		readline.PcItem("exit"),
	)

	// Setup the readline executor
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31m>\033[0m ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	// Handle input
	for {
		ln := rl.Line()
		if ln.CanContinue() {
			continue
		} else if ln.CanBreak() {
			break
		}
		line := strings.TrimSpace(ln.Line)
		if line == "" {
			continue
		}

		cmd, err := repl.ParseREPLCommand([]byte(line))
		if err != nil {
			s.log.Error().Err(err).Send()
			continue
		}

		if cmd.Name == repl.CommandHelp {
			fmt.Fprintln(s.stdout, "usage:")
			fmt.Fprintln(s.stdout, completer.Tree("    "))
			fmt.Fprintln(s.stdout, "a line starting with '{' is translated as a query document")
			continue
		}

		exit, err := s.execute(cmd)
		if err != nil {
			s.log.Error().Err(err).Send()
			continue
		}
		if exit {
			break
		}
	}
	rl.Clean()
}
