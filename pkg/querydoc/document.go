/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package querydoc reads query documents: JSON (comments and trailing commas
// allowed) descriptions of a logical query and its fetch options.
//
//	{
//	    "app": "guestbook",
//	    "kind": "Greeting",
//	    "ancestor": [{"kind": "Book", "name": "default"}],
//	    "filters": [{"property": "rating", "op": ">=", "value": 3}],
//	    "orders": ["-rating", "date"],
//	    "options": {"limit": 20},
//	}
package querydoc

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dburkart/dsquery/pkg/datastore"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

var ErrInvalidDocument = errors.New("invalid query document")

// Defaults fill in identity fields a document leaves out.
type Defaults struct {
	App       string
	Namespace string
}

type Document struct {
	Name    string
	Query   *datastore.Query
	Options datastore.FetchOptions
}

type (
	rawDocument struct {
		App         string        `json:"app"`
		Namespace   *string       `json:"namespace"`
		Kind        string        `json:"kind"`
		Ancestor    []rawPathElem `json:"ancestor"`
		KeysOnly    bool          `json:"keysOnly"`
		Distinct    bool          `json:"distinct"`
		Filters     []rawFilter   `json:"filters"`
		Filter      *rawFilter    `json:"filter"`
		Orders      []rawOrder    `json:"orders"`
		Projections []string      `json:"projections"`
		Options     rawOptions    `json:"options"`
	}

	rawPathElem struct {
		App  string `json:"app"`
		Kind string `json:"kind"`
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	rawFilter struct {
		And      []rawFilter     `json:"and"`
		Or       []rawFilter     `json:"or"`
		Contains *rawContains    `json:"contains"`
		Property string          `json:"property"`
		Op       string          `json:"op"`
		Value    json.RawMessage `json:"value"`
	}

	rawContains struct {
		Property  string        `json:"property"`
		Circle    *rawCircle    `json:"circle"`
		Rectangle *rawRectangle `json:"rectangle"`
	}

	rawCircle struct {
		Center [2]float64 `json:"center"`
		Radius float64    `json:"radius"`
	}

	rawRectangle struct {
		Southwest [2]float64 `json:"southwest"`
		Northeast [2]float64 `json:"northeast"`
	}

	rawOrder struct {
		Property  string `json:"property"`
		Direction string `json:"direction"`
	}

	rawOptions struct {
		Offset       *int32 `json:"offset"`
		Limit        *int32 `json:"limit"`
		PrefetchSize *int32 `json:"prefetchSize"`
		ChunkSize    *int32 `json:"chunkSize"`
		StartCursor  string `json:"startCursor"`
		EndCursor    string `json:"endCursor"`
		Compile      *bool  `json:"compile"`
	}
)

// UnmarshalJSON accepts either {"property": ..., "direction": ...} or the
// short form "prop" / "-prop".
func (o *rawOrder) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		o.Direction = "asc"
		if strings.HasPrefix(s, "-") {
			o.Direction = "desc"
			s = s[1:]
		}
		o.Property = s
		return nil
	}

	type plain rawOrder
	return json.Unmarshal(b, (*plain)(o))
}

// ParseFile reads and parses the document at path. The document is named
// after the file.
func ParseFile(path string, defaults Defaults) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read query document")
	}

	doc, err := Parse(data, defaults)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return doc, nil
}

// Parse builds the logical query and fetch options described by data.
func Parse(data []byte, defaults Defaults) (*Document, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDocument, "invalid JSONC: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	var raw rawDocument
	if err := dec.Decode(&raw); err != nil {
		return nil, syntaxError(err)
	}

	app := raw.App
	if app == "" {
		app = defaults.App
	}
	if app == "" {
		return nil, errors.Wrap(ErrInvalidDocument, "no app given and no default app configured")
	}
	ns := defaults.Namespace
	if raw.Namespace != nil {
		ns = *raw.Namespace
	}

	b := builder{app: app, namespace: ns}
	q, err := b.query(&raw)
	if err != nil {
		return nil, err
	}

	opts, err := options(raw.Options)
	if err != nil {
		return nil, err
	}

	return &Document{Query: q, Options: opts}, nil
}

type builder struct {
	app       string
	namespace string
}

func (b builder) query(raw *rawDocument) (*datastore.Query, error) {
	q := datastore.NewQuery(b.app, b.namespace, raw.Kind)

	if len(raw.Ancestor) > 0 {
		k, err := b.key(raw.Ancestor)
		if err != nil {
			return nil, errors.Wrap(err, "ancestor")
		}
		q = q.Ancestor(k)
	}
	if raw.KeysOnly {
		q = q.KeysOnly()
	}
	if raw.Distinct {
		q = q.Distinct()
	}

	if len(raw.Filters) > 0 && raw.Filter != nil {
		return nil, errors.Wrap(ErrInvalidDocument, `"filters" and "filter" are mutually exclusive`)
	}
	for i := range raw.Filters {
		if f := raw.Filters[i]; f.And != nil || f.Or != nil || f.Contains != nil {
			return nil, errors.Wrapf(ErrInvalidDocument, `filters[%d]: only predicates are allowed here, use "filter" for trees`, i)
		}
		pred, err := b.predicate(&raw.Filters[i])
		if err != nil {
			return nil, errors.Wrapf(err, "filters[%d]", i)
		}
		q = q.Filter(pred)
	}
	if raw.Filter != nil {
		root, err := b.filter(raw.Filter)
		if err != nil {
			return nil, errors.Wrap(err, "filter")
		}
		q, err = q.SetFilter(root)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidDocument, "filter: %v", err)
		}
	}

	for i, o := range raw.Orders {
		dir, err := direction(o.Direction)
		if err != nil {
			return nil, errors.Wrapf(err, "orders[%d]", i)
		}
		q = q.Order(o.Property, dir)
	}

	return q.Project(raw.Projections...), nil
}

// key builds a key in the document's app and namespace. A path element may
// name another app, which then applies to the whole key; elements naming
// different apps are rejected.
func (b builder) key(path []rawPathElem) (*datastore.Key, error) {
	app, named := b.app, false
	for _, e := range path {
		if e.App == "" {
			continue
		}
		if named && e.App != app {
			return nil, errors.Wrapf(ErrInvalidDocument, "key path names apps %s and %s", app, e.App)
		}
		app, named = e.App, true
	}

	var k *datastore.Key
	for _, e := range path {
		if e.Kind == "" {
			return nil, errors.Wrap(ErrInvalidDocument, "key path element without a kind")
		}
		if e.ID != 0 && e.Name != "" {
			return nil, errors.Wrapf(ErrInvalidDocument, "key path element %s has both an id and a name", e.Kind)
		}
		k = datastore.NewKey(app, b.namespace, e.Kind, e.Name, e.ID, k)
	}
	return k, nil
}

func (b builder) filter(raw *rawFilter) (datastore.Filter, error) {
	set := 0
	for _, present := range []bool{raw.And != nil, raw.Or != nil, raw.Contains != nil, raw.Property != ""} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, errors.Wrap(ErrInvalidDocument, `a filter must be exactly one of "and", "or", "contains" or a predicate`)
	}

	switch {
	case raw.And != nil, raw.Or != nil:
		op, subs := datastore.And, raw.And
		if raw.Or != nil {
			op, subs = datastore.Or, raw.Or
		}
		composite := datastore.NewCompositeFilter(op)
		for i := range subs {
			f, err := b.filter(&subs[i])
			if err != nil {
				return nil, errors.Wrapf(err, "%s[%d]", strings.ToLower(op.String()), i)
			}
			composite.Filters = append(composite.Filters, f)
		}
		return composite, nil
	case raw.Contains != nil:
		return contains(raw.Contains)
	}

	return b.predicate(raw)
}

func (b builder) predicate(raw *rawFilter) (*datastore.FilterPredicate, error) {
	if raw.Property == "" {
		return nil, errors.Wrap(ErrInvalidDocument, "predicate without a property")
	}
	op, err := datastore.ParseFilterOperator(raw.Op)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDocument, "%v", err)
	}
	v, err := b.value(raw.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "value of %q", raw.Property)
	}
	return datastore.NewFilterPredicate(raw.Property, op, v), nil
}

func contains(raw *rawContains) (*datastore.StContainsFilter, error) {
	if raw.Property == "" {
		return nil, errors.Wrap(ErrInvalidDocument, "contains filter without a property")
	}

	var region datastore.GeoRegion
	switch {
	case raw.Circle != nil && raw.Rectangle == nil:
		region = datastore.Circle{Center: geoPt(raw.Circle.Center), Radius: raw.Circle.Radius}
	case raw.Rectangle != nil && raw.Circle == nil:
		region = datastore.Rectangle{
			Southwest: geoPt(raw.Rectangle.Southwest),
			Northeast: geoPt(raw.Rectangle.Northeast),
		}
	default:
		return nil, errors.Wrap(ErrInvalidDocument, `contains filter needs exactly one of "circle" or "rectangle"`)
	}

	return datastore.NewStContainsFilter(raw.Property, region), nil
}

func geoPt(p [2]float64) datastore.GeoPt {
	return datastore.GeoPt{Latitude: p[0], Longitude: p[1]}
}

func direction(s string) (datastore.SortDirection, error) {
	switch strings.ToLower(s) {
	case "", "asc", "ascending":
		return datastore.Ascending, nil
	case "desc", "descending":
		return datastore.Descending, nil
	}
	return 0, errors.Wrapf(ErrInvalidDocument, "unknown sort direction %q", s)
}

func options(raw rawOptions) (datastore.FetchOptions, error) {
	opts := datastore.FetchOptions{
		Offset:       raw.Offset,
		Limit:        raw.Limit,
		PrefetchSize: raw.PrefetchSize,
		ChunkSize:    raw.ChunkSize,
		Compile:      raw.Compile,
	}

	if raw.StartCursor != "" {
		c, err := datastore.ParseCursor(raw.StartCursor)
		if err != nil {
			return opts, errors.Wrapf(ErrInvalidDocument, "startCursor: %v", err)
		}
		opts.StartCursor = c
	}
	if raw.EndCursor != "" {
		c, err := datastore.ParseCursor(raw.EndCursor)
		if err != nil {
			return opts, errors.Wrapf(ErrInvalidDocument, "endCursor: %v", err)
		}
		opts.EndCursor = c
	}

	return opts, nil
}
