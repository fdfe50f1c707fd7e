/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsStore interface {
	Registry() *prometheus.Registry
	RegisterCollector(c prometheus.Collector)
	Handler() http.Handler

	// Collection
	IncRequests(source string)
	ObserveTranslation(kind string, ns int64)
	ObserveWireFilters(n int)
}

type metricsStore struct {
	registry      *prometheus.Registry
	Requests      *prometheus.CounterVec
	Translations  *prometheus.CounterVec
	TranslationNS *prometheus.HistogramVec
	WireFilters   prometheus.Histogram
}

var (
	SourceLabel = "source"
	KindLabel   = "kind"
)

func NewMetricsStore() MetricsStore {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
		),
	)

	// Translation is cheap; bucket in steps of 25µs up to half a millisecond
	buckets := []float64{}
	for i := 1; i < 20; i++ {
		buckets = append(buckets, float64(25*i*int(time.Microsecond)))
	}

	factory := promauto.With(reg)
	return &metricsStore{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dsquery_requests",
			Help: "Translation requests by where they came from",
		}, []string{SourceLabel}),
		Translations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dsquery_translations",
			Help: "Translations by outcome, ok or the kind of error",
		}, []string{KindLabel}),
		TranslationNS: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dsquery_translation_ns",
			Help:    "Time spent translating a query document",
			Buckets: buckets,
		}, []string{KindLabel}),
		WireFilters: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dsquery_wire_filters",
			Help:    "Number of flat filters in translated queries",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		}),
	}
}

func (ms *metricsStore) Registry() *prometheus.Registry {
	return ms.registry
}

func (ms *metricsStore) RegisterCollector(c prometheus.Collector) {
	ms.registry.MustRegister(c)
}

func (ms *metricsStore) Handler() http.Handler {
	return promhttp.HandlerFor(ms.Registry(), promhttp.HandlerOpts{Registry: ms.Registry()})
}

func (ms *metricsStore) IncRequests(source string) {
	ms.Requests.With(prometheus.Labels{SourceLabel: source}).Inc()
}

func (ms *metricsStore) ObserveTranslation(kind string, ns int64) {
	ms.Translations.With(prometheus.Labels{KindLabel: kind}).Inc()
	ms.TranslationNS.
		With(prometheus.Labels{KindLabel: kind}).
		Observe(float64(ns))
}

func (ms *metricsStore) ObserveWireFilters(n int) {
	ms.WireFilters.Observe(float64(n))
}
