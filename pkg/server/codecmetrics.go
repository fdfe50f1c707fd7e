/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"github.com/dburkart/dsquery/pkg/codec"
	"github.com/dburkart/dsquery/pkg/querydoc"
	"github.com/prometheus/client_golang/prometheus"
)

type codecCollector struct {
	valueTypes *prometheus.Desc
	defaults   *prometheus.Desc

	defaultApp       string
	defaultNamespace string
}

// NewCodecCollector exports what this process can translate: one series per Go
// value type the codec accepts, and the identity defaults applied to
// documents.
func NewCodecCollector(defaults querydoc.Defaults) prometheus.Collector {
	return &codecCollector{
		valueTypes: prometheus.NewDesc(
			"dsquery_codec_value_type",
			"Go types accepted as property values, always 1.",
			[]string{"type"}, nil,
		),
		defaults: prometheus.NewDesc(
			"dsquery_document_defaults",
			"App and namespace used by documents that do not name their own, always 1.",
			[]string{"app", "namespace"}, nil,
		),
		defaultApp:       defaults.App,
		defaultNamespace: defaults.Namespace,
	}
}

// Describe implements Collector.
func (c *codecCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.valueTypes
	ch <- c.defaults
}

// Collect implements Collector.
func (c *codecCollector) Collect(ch chan<- prometheus.Metric) {
	for _, t := range codec.RegisteredTypes() {
		ch <- prometheus.MustNewConstMetric(c.valueTypes, prometheus.GaugeValue, 1, t)
	}
	ch <- prometheus.MustNewConstMetric(c.defaults, prometheus.GaugeValue, 1, c.defaultApp, c.defaultNamespace)
}
