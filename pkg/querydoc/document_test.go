/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package querydoc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dburkart/dsquery/pkg/datastore"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullDocument(t *testing.T) {
	data := []byte(`{
		// the guestbook of the default book
		"app": "guestbook",
		"namespace": "prod",
		"kind": "Greeting",
		"ancestor": [{"kind": "Book", "name": "default"}],
		"keysOnly": true,
		"filters": [
			{"property": "rating", "op": ">=", "value": 3},
			{"property": "tag", "op": "IN", "value": ["go", 1.5]},
		],
		"orders": ["-rating", {"property": "date"}],
		"projections": ["rating"],
		"options": {"limit": 20, "offset": 5, "prefetchSize": 7, "compile": false},
	}`)

	doc, err := Parse(data, Defaults{App: "ignored"})
	require.NoError(t, err)

	q := doc.Query
	assert.Equal(t, "guestbook", q.AppID())
	assert.Equal(t, "prod", q.Namespace())
	assert.Equal(t, "Greeting", q.Kind())
	assert.True(t, q.IsKeysOnly())
	assert.Equal(t, `Book:"default"`, q.GetAncestor().String())
	assert.Equal(t, "guestbook", q.GetAncestor().AppID)

	preds := q.Filters().(datastore.Predicates)
	require.Len(t, preds, 2)
	assert.Equal(t, datastore.FilterPredicate{Property: "rating", Operator: datastore.GreaterThanOrEqual, Value: int64(3)}, preds[0])
	assert.Equal(t, []any{"go", 1.5}, preds[1].Value)

	assert.Equal(t, []datastore.SortPredicate{
		{Property: "rating", Direction: datastore.Descending},
		{Property: "date", Direction: datastore.Ascending},
	}, q.Sorts())
	assert.Equal(t, []datastore.Projection{{Property: "rating"}}, q.Projections())

	assert.Equal(t, int32(20), *doc.Options.Limit)
	assert.Equal(t, int32(5), *doc.Options.Offset)
	assert.Equal(t, int32(7), *doc.Options.PrefetchSize)
	assert.Nil(t, doc.Options.ChunkSize)
	assert.False(t, *doc.Options.Compile)
}

func TestParseDefaults(t *testing.T) {
	doc, err := Parse([]byte(`{"kind": "K"}`), Defaults{App: "app", Namespace: "ns"})
	require.NoError(t, err)
	assert.Equal(t, "app", doc.Query.AppID())
	assert.Equal(t, "ns", doc.Query.Namespace())

	doc, err = Parse([]byte(`{"kind": "K", "namespace": ""}`), Defaults{App: "app", Namespace: "ns"})
	require.NoError(t, err)
	assert.Equal(t, "", doc.Query.Namespace())

	_, err = Parse([]byte(`{"kind": "K"}`), Defaults{})
	assert.True(t, errors.Is(err, ErrInvalidDocument))
}

func TestParseFilterTree(t *testing.T) {
	data := []byte(`{
		"app": "shops",
		"filter": {"and": [
			{"contains": {"property": "loc", "circle": {"center": [13.02, 0], "radius": 500}}},
			{"property": "status", "op": "=", "value": "open"},
		]},
	}`)

	doc, err := Parse(data, Defaults{})
	require.NoError(t, err)

	geo, ok := doc.Query.Filters().(datastore.GeoFilter)
	require.True(t, ok)
	root := geo.Root.(*datastore.CompositeFilter)
	assert.Equal(t, datastore.And, root.Operator)
	require.Len(t, root.Filters, 2)
	assert.Equal(t, &datastore.StContainsFilter{
		Property: "loc",
		Region:   datastore.Circle{Center: datastore.GeoPt{Latitude: 13.02}, Radius: 500},
	}, root.Filters[0])
}

func TestParseTypedValues(t *testing.T) {
	b := builder{app: "a", namespace: "ns"}

	tt := []struct {
		test  string
		input string
		want  any
	}{
		{"Test null", `null`, nil},
		{"Test integer", `42`, int64(42)},
		{"Test float", `4.5`, 4.5},
		{"Test exponent", `1e3`, float64(1000)},
		{"Test time", `{"$time": "2023-01-02T15:04:05Z"}`, time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"Test bytes", `{"$bytes": "aGVsbG8="}`, []byte("hello")},
		{"Test geo", `{"$geo": [37.4, -122.1]}`, datastore.GeoPt{Latitude: 37.4, Longitude: -122.1}},
		{"Test key", `{"$key": [{"kind": "User", "id": 7}]}`, datastore.NewKey("a", "ns", "User", "", 7, nil)},
		{"Test list", `[1, "x", {"$geo": [1, 2]}]`, []any{int64(1), "x", datastore.GeoPt{Latitude: 1, Longitude: 2}}},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			got, err := b.value([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseAncestorApp(t *testing.T) {
	doc, err := Parse([]byte(`{
		"app": "guestbook",
		"kind": "Greeting",
		"ancestor": [{"kind": "Shelf", "id": 1}, {"app": "library", "kind": "Book", "name": "default"}],
	}`), Defaults{})
	require.NoError(t, err)

	ancestor := doc.Query.GetAncestor()
	assert.Equal(t, "library", ancestor.AppID)
	assert.Equal(t, "library", ancestor.Parent.AppID)
	assert.Equal(t, "guestbook", doc.Query.AppID())
}

func TestParseErrors(t *testing.T) {
	tt := []struct {
		test string
		doc  string
	}{
		{"Test not json", `{"app": "a",,}`},
		{"Test unknown field", `{"app": "a", "limit": 3}`},
		{"Test filters and filter", `{"app": "a", "filters": [{"property": "x", "op": "=", "value": 1}], "filter": {"property": "x", "op": "=", "value": 1}}`},
		{"Test tree in filters", `{"app": "a", "filters": [{"and": []}]}`},
		{"Test empty filter", `{"app": "a", "filter": {}}`},
		{"Test ambiguous filter", `{"app": "a", "filter": {"and": [], "property": "x", "op": "="}}`},
		{"Test unknown operator", `{"app": "a", "filters": [{"property": "x", "op": "!=", "value": 1}]}`},
		{"Test predicate without property", `{"app": "a", "filter": {"and": [{"op": "=", "value": 1}]}}`},
		{"Test contains without shape", `{"app": "a", "filter": {"contains": {"property": "loc"}}}`},
		{"Test contains with two shapes", `{"app": "a", "filter": {"contains": {"property": "loc", "circle": {"center": [0, 0], "radius": 1}, "rectangle": {"southwest": [0, 0], "northeast": [1, 1]}}}}`},
		{"Test or without geo", `{"app": "a", "filter": {"or": [{"property": "x", "op": "=", "value": 1}]}}`},
		{"Test bad direction", `{"app": "a", "orders": [{"property": "x", "direction": "sideways"}]}`},
		{"Test ancestor without kind", `{"app": "a", "ancestor": [{"name": "x"}]}`},
		{"Test ancestor id and name", `{"app": "a", "ancestor": [{"kind": "K", "id": 1, "name": "x"}]}`},
		{"Test ancestor with two apps", `{"app": "a", "ancestor": [{"app": "b", "kind": "K", "id": 1}, {"app": "c", "kind": "K", "id": 2}]}`},
		{"Test bad cursor", `{"app": "a", "options": {"startCursor": "!!"}}`},
		{"Test nested list", `{"app": "a", "filters": [{"property": "x", "op": "IN", "value": [[1]]}]}`},
		{"Test unknown typed value", `{"app": "a", "filters": [{"property": "x", "op": "=", "value": {"$uuid": "x"}}]}`},
		{"Test two typed keys", `{"app": "a", "filters": [{"property": "x", "op": "=", "value": {"$time": "x", "$bytes": "y"}}]}`},
		{"Test bad time", `{"app": "a", "filters": [{"property": "x", "op": "=", "value": {"$time": "yesterday"}}]}`},
		{"Test bad geo", `{"app": "a", "filters": [{"property": "x", "op": "=", "value": {"$geo": ["n", 1]}}]}`},
		{"Test empty key", `{"app": "a", "filters": [{"property": "x", "op": "=", "value": {"$key": []}}]}`},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc), Defaults{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument), "got %v", err)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent-greetings.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"kind": "Greeting"}`), 0o644))

	doc, err := ParseFile(path, Defaults{App: "guestbook"})
	require.NoError(t, err)
	assert.Equal(t, "recent-greetings", doc.Name)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.jsonc"), Defaults{App: "guestbook"})
	assert.Error(t, err)
}
