/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package batch translates many query documents concurrently.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/dburkart/dsquery/pkg/server"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var ErrAborted = errors.New("translation aborted")

type Result struct {
	Name    string
	Path    string
	Query   *proto.Query
	Err     error
	Elapsed time.Duration
}

type Runner struct {
	log     zerolog.Logger
	service *server.Service
	workers int
}

func NewRunner(log zerolog.Logger, service *server.Service, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{log: log, service: service, workers: workers}
}

// Run translates the documents at paths on a pool of workers. Results come
// back in the order of paths. A translation error is reported on its result
// and does not stop the batch; cancelling ctx does, and documents not yet
// started are left with ctx's error.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	pool, err := ants.NewPool(r.workers, ants.WithPanicHandler(func(v any) {
		r.log.Error().Interface("panic", v).Msg("translation worker panicked")
	}))
	if err != nil {
		return nil, errors.Wrap(err, "unable to start worker pool")
	}
	defer pool.Release()

	results := make([]Result, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		results[i] = Result{
			Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Path: path,
			Err:  ErrAborted,
		}
		if ctx.Err() != nil {
			results[i].Err = ctx.Err()
			continue
		}

		i := i
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				results[i].Err = ctx.Err()
				return
			}
			r.translate(&results[i])
		})
		if err != nil {
			wg.Done()
			results[i].Err = errors.Wrap(err, "unable to schedule translation")
		}
	}

	wg.Wait()
	return results, ctx.Err()
}

func (r *Runner) translate(res *Result) {
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	data, err := os.ReadFile(res.Path)
	if err != nil {
		res.Err = errors.Wrap(err, "unable to read query document")
		return
	}

	res.Query, res.Err = r.service.TranslateDocument("batch", data)
	r.log.Trace().Str("document", res.Name).Err(res.Err).Msg("batch translation done")
}
