/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package querydoc

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/dburkart/dsquery/pkg/datastore"
	"github.com/pkg/errors"
)

// value decodes a predicate operand. Plain JSON scalars map to string, bool,
// int64 (integral numbers), float64 and nil; arrays become []any operand lists.
// Other types are written as single-key objects:
//
//	{"$time": "2023-01-02T15:04:05Z"}
//	{"$bytes": "aGVsbG8="}
//	{"$key": [{"kind": "Book", "id": 7}]}
//	{"$geo": [37.4, -122.1]}
func (b builder) value(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrapf(ErrInvalidDocument, "%v", err)
	}

	return b.convert(v, true)
}

func (b builder) convert(v any, top bool) (any, error) {
	switch x := v.(type) {
	case nil, string, bool:
		return x, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidDocument, "bad number %s", x)
		}
		return f, nil
	case []any:
		if !top {
			return nil, errors.Wrap(ErrInvalidDocument, "nested lists are not values")
		}
		values := make([]any, 0, len(x))
		for _, e := range x {
			ev, err := b.convert(e, false)
			if err != nil {
				return nil, err
			}
			values = append(values, ev)
		}
		return values, nil
	case map[string]any:
		return b.typed(x)
	}

	return nil, errors.Wrapf(ErrInvalidDocument, "unexpected value %v", v)
}

func (b builder) typed(m map[string]any) (any, error) {
	if len(m) != 1 {
		return nil, errors.Wrap(ErrInvalidDocument, "typed values have exactly one $-prefixed key")
	}

	for tag, v := range m {
		switch tag {
		case "$time":
			s, _ := v.(string)
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidDocument, "$time: %v", err)
			}
			return t, nil
		case "$bytes":
			s, _ := v.(string)
			data, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidDocument, "$bytes: %v", err)
			}
			return data, nil
		case "$geo":
			pair, ok := v.([]any)
			if !ok || len(pair) != 2 {
				return nil, errors.Wrap(ErrInvalidDocument, "$geo takes [latitude, longitude]")
			}
			latNum, latOk := pair[0].(json.Number)
			lngNum, lngOk := pair[1].(json.Number)
			if !latOk || !lngOk {
				return nil, errors.Wrap(ErrInvalidDocument, "$geo takes [latitude, longitude]")
			}
			lat, latErr := latNum.Float64()
			lng, lngErr := lngNum.Float64()
			if latErr != nil || lngErr != nil {
				return nil, errors.Wrap(ErrInvalidDocument, "$geo takes [latitude, longitude]")
			}
			return datastore.GeoPt{Latitude: lat, Longitude: lng}, nil
		case "$key":
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidDocument, "$key: %v", err)
			}
			var path []rawPathElem
			if err := json.Unmarshal(encoded, &path); err != nil || len(path) == 0 {
				return nil, errors.Wrap(ErrInvalidDocument, "$key takes a non-empty path")
			}
			return b.key(path)
		default:
			return nil, errors.Wrapf(ErrInvalidDocument, "unknown typed value %q", tag)
		}
	}

	panic("unreachable")
}
