/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/dburkart/dsquery/pkg/querydoc"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	RequestIDHeader = "X-Request-Id"
	TranslatePath   = "/translate"

	maxDocumentBytes = 1 << 20
)

type Server struct {
	log     zerolog.Logger
	service *Service

	port        int
	metricsPort int
}

func New(log zerolog.Logger, defaults querydoc.Defaults, port, metricsPort int) Server {
	return Server{
		log,
		NewService(log, NewMetricsStore(), defaults),
		port,
		metricsPort,
	}
}

// Handler serves POST /translate. The body is a query document; the response
// is the wire query as JSON, or as a text dump with ?format=text.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(TranslatePath, s.handleTranslate)
	return mux
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, requestID)
	log := s.log.With().Str("request", requestID).Logger()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		log.Warn().Err(err).Msg("unable to read request body")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "unable to read request body", http.StatusBadRequest)
		return
	}

	q, err := s.service.TranslateDocument("http", data)
	if err != nil {
		log.Debug().Err(err).Msg("translation rejected")
		if werr := writeError(w, err); werr != nil {
			log.Error().Err(werr).Msg("unable to write response")
		}
		return
	}

	if err := writeQuery(w, q, r.URL.Query().Get("format")); err != nil {
		log.Error().Err(err).Msg("unable to write response")
		return
	}
	log.Trace().Int("filters", len(q.Filters)).Msg("wrote response")
}

func (s *Server) ServeTranslations() error {
	s.log.Info().Int("port", s.port).Msg("listening for translation requests")
	err := http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.Handler())
	return errors.Wrap(err, "translation server")
}

func (s *Server) ServeMetrics() error {
	s.log.Info().Int("port", s.metricsPort).Msg("/metrics endpoint started")
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.service.Metrics().Handler())
	err := http.ListenAndServe(fmt.Sprintf(":%d", s.metricsPort), mux)
	return errors.Wrap(err, "metrics server")
}
