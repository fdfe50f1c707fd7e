/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dsquery

import (
	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/dburkart/dsquery/pkg/querydoc"
	"github.com/rs/zerolog"
)

type Client interface {
	Open(Target) error
	Close() error
	// Translate translates a query document into a wire query.
	Translate(doc []byte) (*proto.Query, error)
}

type Options struct {
	Log      zerolog.Logger
	Defaults querydoc.Defaults
}

// NewClient creates a Client for target. A local target translates in
// process; an http(s) target sends documents to a dsquery server.
func NewClient(target string, opts Options) (Client, error) {
	var client Client

	t, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}

	if t.Local {
		client = &LocalClient{log: opts.Log, defaults: opts.Defaults}
	} else {
		client = &RemoteClient{log: opts.Log}
	}

	err = client.Open(t)
	if err != nil {
		return nil, err
	}

	return client, nil
}
