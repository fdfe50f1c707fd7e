/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dsquery

import (
	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/dburkart/dsquery/pkg/querydoc"
	"github.com/dburkart/dsquery/pkg/server"
	"github.com/rs/zerolog"
)

type LocalClient struct {
	target   Target
	log      zerolog.Logger
	defaults querydoc.Defaults
	service  *server.Service
}

func (client *LocalClient) Open(target Target) error {
	client.target = target
	client.service = server.NewService(client.log, server.NewMetricsStore(), client.defaults)
	return nil
}

func (client *LocalClient) Close() error {
	return nil
}

func (client *LocalClient) Translate(doc []byte) (*proto.Query, error) {
	return client.service.TranslateDocument("local", doc)
}
