/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/dburkart/dsquery/pkg/querydoc"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	srv := New(zerolog.Nop(), querydoc.Defaults{App: "guestbook"}, 0, 0)
	return &srv
}

func post(t *testing.T, srv *Server, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleTranslate(t *testing.T) {
	srv := newTestServer()
	rec := post(t, srv, TranslatePath, `{"kind": "Greeting", "filters": [{"property": "rating", "op": ">", "value": 3}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var q proto.Query
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "guestbook", q.App)
	require.Len(t, q.Filters, 1)
	assert.Equal(t, proto.OperatorGreaterThan, q.Filters[0].Op)
}

func TestHandleTranslateText(t *testing.T) {
	srv := newTestServer()
	rec := post(t, srv, TranslatePath+"?format=text", `{"kind": "Greeting"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Query[app=\"guestbook\" kind=Greeting]\n", rec.Body.String())
}

func TestHandleTranslateErrors(t *testing.T) {
	tt := []struct {
		test string
		body string
		kind string
	}{
		{"Test invalid document", `{"kind": `, "invalid_document"},
		{"Test distinct without projection", `{"kind": "K", "distinct": true}`, "invalid_distinct_projection"},
		{"Test bad cursor", `{"kind": "K", "options": {"startCursor": "AQ"}}`, "invalid_cursor"},
		{
			"Test geo or",
			`{"filter": {"or": [{"contains": {"property": "l", "circle": {"center": [0, 0], "radius": 1}}}, {"property": "a", "op": "=", "value": 1}]}}`,
			"invalid_geo_composition",
		},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			rec := post(t, newTestServer(), TranslatePath, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleTranslateMethod(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, TranslatePath, nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
}

func TestHandleTranslateTooLarge(t *testing.T) {
	body := `{"kind": "` + strings.Repeat("x", maxDocumentBytes) + `"}`
	rec := post(t, newTestServer(), TranslatePath, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleTranslateBrokenBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, TranslatePath, iotest.ErrReader(errors.New("connection reset")))
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusForKind("ok"))
	assert.Equal(t, http.StatusInternalServerError, StatusForKind("internal"))
	assert.Equal(t, http.StatusBadRequest, StatusForKind("invalid_cursor"))
}

func TestServiceMetrics(t *testing.T) {
	svc := NewService(zerolog.Nop(), NewMetricsStore(), querydoc.Defaults{App: "guestbook"})

	_, err := svc.TranslateDocument("test", []byte(`{"kind": "K", "filters": [{"property": "a", "op": "=", "value": 1}]}`))
	require.NoError(t, err)
	_, err = svc.TranslateDocument("test", []byte(`{"kind": "K", "distinct": true}`))
	require.Error(t, err)
	_, err = svc.TranslateDocument("test", []byte(`not json`))
	require.Error(t, err)

	ms := svc.Metrics().(*metricsStore)
	assert.Equal(t, 3.0, testutil.ToFloat64(ms.Requests.WithLabelValues("test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ms.Translations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ms.Translations.WithLabelValues("invalid_distinct_projection")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ms.Translations.WithLabelValues("invalid_document")))
	assert.Equal(t, 1, testutil.CollectAndCount(ms.WireFilters))
}

func TestMetricsHandler(t *testing.T) {
	svc := NewService(zerolog.Nop(), NewMetricsStore(), querydoc.Defaults{App: "guestbook", Namespace: "prod"})
	_, err := svc.TranslateDocument("test", []byte(`{"kind": "K"}`))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	svc.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	for _, s := range []string{
		`dsquery_requests{source="test"} 1`,
		`dsquery_translations{kind="ok"} 1`,
		`dsquery_codec_value_type{type="string"} 1`,
		`dsquery_document_defaults{app="guestbook",namespace="prod"} 1`,
	} {
		assert.Contains(t, string(body), s)
	}
}
