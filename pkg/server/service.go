/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"time"

	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/dburkart/dsquery/pkg/query"
	"github.com/dburkart/dsquery/pkg/querydoc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Service parses query documents and translates them, recording metrics for
// every attempt. It holds no per-request state and is safe for concurrent use.
type Service struct {
	log      zerolog.Logger
	metrics  MetricsStore
	defaults querydoc.Defaults
}

func NewService(log zerolog.Logger, metrics MetricsStore, defaults querydoc.Defaults) *Service {
	metrics.RegisterCollector(NewCodecCollector(defaults))
	return &Service{
		log:      log,
		metrics:  metrics,
		defaults: defaults,
	}
}

func (s *Service) Metrics() MetricsStore {
	return s.metrics
}

// TranslateDocument parses data as a query document and translates it. source
// names the caller for the request metrics.
func (s *Service) TranslateDocument(source string, data []byte) (*proto.Query, error) {
	s.metrics.IncRequests(source)

	doc, err := querydoc.Parse(data, s.defaults)
	if err != nil {
		s.metrics.ObserveTranslation(ErrorKind(err), 0)
		s.log.Debug().Err(err).Str("source", source).Msg("rejected query document")
		return nil, err
	}

	return s.Translate(doc)
}

// Translate translates an already parsed document.
func (s *Service) Translate(doc *querydoc.Document) (*proto.Query, error) {
	start := time.Now()
	pb, err := query.Translate(doc.Query, doc.Options)
	elapsed := time.Since(start).Nanoseconds()

	kind := ErrorKind(err)
	s.metrics.ObserveTranslation(kind, elapsed)
	if err != nil {
		s.log.Debug().
			Err(err).
			Str("document", doc.Name).
			Str("kind", kind).
			Msg("translation failed")
		return nil, err
	}

	s.metrics.ObserveWireFilters(len(pb.Filters))
	s.log.Trace().
		Str("document", doc.Name).
		Str("app", pb.App).
		Int("filters", len(pb.Filters)).
		Int("orders", len(pb.Orders)).
		Int64("ns", elapsed).
		Msg("translated query")

	return pb, nil
}

// ErrorKind classifies err for metrics and API responses; see query.Kind.
func ErrorKind(err error) string {
	if errors.Is(err, querydoc.ErrInvalidDocument) {
		return "invalid_document"
	}
	return query.Kind(err)
}
