/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dburkart/dsquery/pkg/batch"
	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/dburkart/dsquery/pkg/querydoc"
	"github.com/dburkart/dsquery/pkg/server"
	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ErrFailedDocuments = errors.New("some documents failed to translate")

var Command = &cobra.Command{
	Use:   "translate [files...]",
	Short: "Translate query documents into wire queries",
	Args:  cobra.MinimumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		log := viper.Get("logger").(zerolog.Logger)

		format := viper.GetString("dsquery.format")
		if format != "json" && format != "text" {
			return errors.Errorf("unsupported format %q", format)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		svc := server.NewService(log, server.NewMetricsStore(), querydoc.Defaults{
			App:       viper.GetString("dsquery.app"),
			Namespace: viper.GetString("dsquery.namespace"),
		})
		runner := batch.NewRunner(log, svc, viper.GetInt("dsquery.workers"))

		return run(ctx, log, runner, args, viper.GetString("dsquery.out"), format, cmd.OutOrStdout())
	},
}

func init() {
	// Flags for this command
	Command.Flags().IntP("workers", "w", 4, "Number of documents translated concurrently")
	Command.Flags().StringP("out", "o", "", "Directory for <name>.wire.json files (default stdout)")
	Command.Flags().StringP("format", "f", "json", "Output format [json, text]")

	// Bind flags to viper
	viper.BindPFlag("dsquery.workers", Command.Flags().Lookup("workers"))
	viper.BindPFlag("dsquery.out", Command.Flags().Lookup("out"))
	viper.BindPFlag("dsquery.format", Command.Flags().Lookup("format"))
}

func run(ctx context.Context, log zerolog.Logger, runner *batch.Runner, paths []string, out, format string, stdout io.Writer) error {
	start := time.Now()
	results, err := runner.Run(ctx, paths)
	if err != nil {
		return errors.Wrap(err, "batch interrupted")
	}

	var failed int
	var written uint64
	for _, res := range results {
		if res.Err != nil {
			failed++
			log.Error().Err(res.Err).Str("document", res.Path).Str("kind", server.ErrorKind(res.Err)).Msg("translation failed")
			continue
		}

		data, err := render(res.Query, format)
		if err != nil {
			return err
		}
		written += uint64(len(data))

		if out == "" {
			if format == "text" {
				fmt.Fprintf(stdout, "-- %s\n", res.Name)
			}
			if _, err := stdout.Write(data); err != nil {
				return errors.Wrap(err, "unable to write output")
			}
			continue
		}

		if err := writeFile(out, res.Name, format, data); err != nil {
			return err
		}
		log.Debug().Str("document", res.Name).Dur("elapsed", res.Elapsed).Msg("wrote wire query")
	}

	log.Info().
		Str("documents", humanize.Comma(int64(len(results)))).
		Str("failed", humanize.Comma(int64(failed))).
		Str("output", humanize.IBytes(written)).
		Dur("elapsed", time.Since(start)).
		Msg("translation finished")

	if failed > 0 {
		return errors.Wrapf(ErrFailedDocuments, "%d of %d", failed, len(results))
	}
	return nil
}

func render(q *proto.Query, format string) ([]byte, error) {
	if format == "text" {
		return []byte(proto.Dump(q)), nil
	}
	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal wire query")
	}
	return append(data, '\n'), nil
}

// writeFile replaces <dir>/<name>.wire.<ext> atomically, so readers never see
// a half written query.
func writeFile(dir, name, format string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "unable to create output directory")
	}

	ext := ".wire.json"
	if format == "text" {
		ext = ".wire.txt"
	}
	path := filepath.Join(dir, name+ext)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}
	return nil
}
