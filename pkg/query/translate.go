/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"github.com/dburkart/dsquery/pkg/codec"
	"github.com/dburkart/dsquery/pkg/datastore"
	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/pkg/errors"
)

// Translate converts a logical query and its fetch options into the wire query
// understood by the datastore. It validates what the logical model cannot
// enforce on its own and fails on the first problem found; no partially built
// query is ever returned.
//
// Translate does not modify its arguments and is safe for concurrent use.
func Translate(q *datastore.Query, opts datastore.FetchOptions) (*proto.Query, error) {
	if q == nil {
		return nil, errors.New("query is nil")
	}

	pb := &proto.Query{App: q.AppID()}
	if ns := q.Namespace(); ns != "" {
		pb.NameSpace = proto.String(ns)
	}
	if kind := q.Kind(); kind != "" {
		pb.Kind = proto.String(kind)
	}

	if err := copyFetchOptions(opts, pb); err != nil {
		return nil, err
	}

	if ancestor := q.GetAncestor(); ancestor != nil {
		ref, err := codec.EncodeKey(ancestor)
		if err != nil {
			return nil, errors.Wrap(err, "ancestor")
		}
		if ref.App != pb.App {
			return nil, errors.Wrapf(ErrIdentityMismatch, "query app %q, ancestor app %q", pb.App, ref.App)
		}
		pb.Ancestor = ref
	}

	if q.IsDistinct() {
		if len(q.Projections()) == 0 {
			return nil, ErrInvalidDistinctProjection
		}
		for _, p := range q.Projections() {
			pb.GroupByPropertyNames = append(pb.GroupByPropertyNames, p.Property)
		}
	}

	pb.KeysOnly = q.IsKeysOnly()

	switch filters := q.Filters().(type) {
	case nil:
	case datastore.Predicates:
		for i := range filters {
			f, err := convertFilterPredicate(&filters[i])
			if err != nil {
				return nil, errors.Wrapf(err, "filter %d (%q)", i, filters[i].Property)
			}
			pb.Filters = append(pb.Filters, f)
		}
	case datastore.GeoFilter:
		if err := copyGeoFilter(filters.Root, pb); err != nil {
			return nil, err
		}
	default:
		panic(errors.Errorf("unexpected filter set %T", filters))
	}

	for i, s := range q.Sorts() {
		order, err := convertSortPredicate(s)
		if err != nil {
			return nil, errors.Wrapf(err, "sort %d (%q)", i, s.Property)
		}
		pb.Orders = append(pb.Orders, order)
	}

	for _, p := range q.Projections() {
		pb.PropertyNames = append(pb.PropertyNames, p.Property)
	}

	return pb, nil
}

func copyFetchOptions(opts datastore.FetchOptions, pb *proto.Query) error {
	if opts.Offset != nil {
		pb.Offset = proto.Int32(*opts.Offset)
	}
	if opts.Limit != nil {
		pb.Limit = proto.Int32(*opts.Limit)
	}

	if opts.PrefetchSize != nil {
		pb.Count = proto.Int32(*opts.PrefetchSize)
	} else if opts.ChunkSize != nil {
		pb.Count = proto.Int32(*opts.ChunkSize)
	}

	if opts.StartCursor != nil {
		c, err := parseCursor(opts.StartCursor)
		if err != nil {
			return errors.Wrap(err, "start cursor")
		}
		pb.CompiledCursor = c
	}
	if opts.EndCursor != nil {
		c, err := parseCursor(opts.EndCursor)
		if err != nil {
			return errors.Wrap(err, "end cursor")
		}
		pb.EndCompiledCursor = c
	}

	if opts.Compile != nil {
		pb.Compile = proto.Bool(*opts.Compile)
	}

	return nil
}

func parseCursor(c datastore.Cursor) (*proto.CompiledCursor, error) {
	compiled := &proto.CompiledCursor{}
	if err := compiled.Unmarshal(c); err != nil {
		return nil, errors.Wrapf(ErrInvalidCursor, "%v", err)
	}
	return compiled, nil
}
