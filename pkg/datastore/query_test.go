/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package datastore

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBuildersDoNotModify(t *testing.T) {
	base := NewQuery("a", "ns", "K").Filter(NewFilterPredicate("x", Equal, 1)).Order("x", Ascending)

	more := base.Filter(NewFilterPredicate("y", Equal, 2)).Order("y", Descending).Project("x").KeysOnly().Distinct()

	assert.Len(t, base.Filters().(Predicates), 1)
	assert.Len(t, base.Sorts(), 1)
	assert.Empty(t, base.Projections())
	assert.False(t, base.IsKeysOnly())
	assert.False(t, base.IsDistinct())

	assert.Len(t, more.Filters().(Predicates), 2)
	assert.Len(t, more.Sorts(), 2)
	assert.Equal(t, []Projection{{Property: "x"}}, more.Projections())
	assert.True(t, more.IsKeysOnly())
	assert.True(t, more.IsDistinct())
}

func TestQuerySiblingsDoNotShare(t *testing.T) {
	base := NewQuery("a", "", "K").Filter(NewFilterPredicate("x", Equal, 1))
	left := base.Filter(NewFilterPredicate("left", Equal, 1))
	right := base.Filter(NewFilterPredicate("right", Equal, 1))

	assert.Equal(t, "left", left.Filters().(Predicates)[1].Property)
	assert.Equal(t, "right", right.Filters().(Predicates)[1].Property)
}

func TestSetFilter(t *testing.T) {
	q := NewQuery("a", "", "K")
	eq := func(p string) *FilterPredicate { return NewFilterPredicate(p, Equal, 1) }

	t.Run("conjunction flattens", func(t *testing.T) {
		got, err := q.SetFilter(AllOf(eq("a"), AllOf(eq("b"), eq("c"))))
		require.NoError(t, err)
		preds, ok := got.Filters().(Predicates)
		require.True(t, ok)
		var names []string
		for _, p := range preds {
			names = append(names, p.Property)
		}
		assert.Equal(t, []string{"a", "b", "c"}, names)
	})

	t.Run("single predicate", func(t *testing.T) {
		got, err := q.SetFilter(eq("a"))
		require.NoError(t, err)
		assert.Len(t, got.Filters().(Predicates), 1)
	})

	t.Run("disjunction rejected", func(t *testing.T) {
		_, err := q.SetFilter(AllOf(eq("a"), AnyOf(eq("b"), eq("c"))))
		assert.True(t, errors.Is(err, ErrUnsupportedDisjunction))
	})

	t.Run("geo kept whole", func(t *testing.T) {
		root := AnyOf(NewStContainsFilter("loc", Circle{Radius: 1}), eq("b"))
		got, err := q.SetFilter(root)
		require.NoError(t, err)
		assert.Equal(t, GeoFilter{Root: root}, got.Filters())
	})

	t.Run("nil clears", func(t *testing.T) {
		got, err := q.Filter(eq("a")).SetFilter(nil)
		require.NoError(t, err)
		assert.Nil(t, got.Filters())
	})

	t.Run("typed nil clears", func(t *testing.T) {
		got, err := q.Filter(eq("a")).SetFilter((*CompositeFilter)(nil))
		require.NoError(t, err)
		assert.Nil(t, got.Filters())
	})

	t.Run("nil node rejected", func(t *testing.T) {
		_, err := q.SetFilter(AllOf(eq("a"), nil))
		assert.True(t, errors.Is(err, ErrNilFilter))

		_, err = q.SetFilter(AllOf(eq("a"), (*FilterPredicate)(nil)))
		assert.True(t, errors.Is(err, ErrNilFilter))
	})
}

func TestFilterSkipsNilPredicates(t *testing.T) {
	q := NewQuery("a", "", "K").Filter(nil, NewFilterPredicate("x", Equal, 1), nil)
	require.Len(t, q.Filters().(Predicates), 1)
	assert.Equal(t, "x", q.Filters().(Predicates)[0].Property)
}

func TestIsNilFilter(t *testing.T) {
	assert.True(t, IsNilFilter(nil))
	assert.True(t, IsNilFilter((*FilterPredicate)(nil)))
	assert.True(t, IsNilFilter((*CompositeFilter)(nil)))
	assert.True(t, IsNilFilter((*StContainsFilter)(nil)))
	assert.False(t, IsNilFilter(AllOf()))

	assert.False(t, ContainsGeo((*CompositeFilter)(nil)))
	assert.True(t, ContainsGeo(AllOf(nil, NewStContainsFilter("loc", Circle{Radius: 1}))))
}

func TestFilterReplacesGeo(t *testing.T) {
	q := NewQuery("a", "", "K").GeoFilter(NewStContainsFilter("loc", Circle{Radius: 1}))
	q = q.Filter(NewFilterPredicate("x", Equal, 1))
	assert.Len(t, q.Filters().(Predicates), 1)
}

func TestParseFilterOperator(t *testing.T) {
	tt := []struct {
		input string
		op    FilterOperator
	}{
		{"<", LessThan},
		{"<=", LessThanOrEqual},
		{">", GreaterThan},
		{">=", GreaterThanOrEqual},
		{"=", Equal},
		{"==", Equal},
		{"IN", In},
		{" in ", In},
	}

	for _, tc := range tt {
		op, err := ParseFilterOperator(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.op, op, tc.input)
	}

	_, err := ParseFilterOperator("!=")
	assert.Error(t, err)
}

func TestKeyPath(t *testing.T) {
	root := NewKey("a", "", "Book", "default", 0, nil)
	leaf := NewKey("a", "", "Page", "", 3, root)

	assert.Equal(t, []*Key{root, leaf}, leaf.Path())
	assert.Equal(t, `Book:"default"/Page:3`, leaf.String())
	assert.False(t, leaf.Incomplete())
	assert.True(t, NewKey("a", "", "Page", "", 0, root).Incomplete())
}

func TestCursorWebSafe(t *testing.T) {
	c := Cursor{0xfb, 0xff, 0x01}
	back, err := ParseCursor(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, back)

	unpadded, err := ParseCursor("AQ")
	require.NoError(t, err)
	assert.Equal(t, Cursor{0x01}, unpadded)

	_, err = ParseCursor("!!")
	assert.Error(t, err)
}

func TestFetchOptionsSetters(t *testing.T) {
	base := WithLimit(10)
	opts := base.SetOffset(5).SetChunkSize(3).SetPrefetchSize(7).SetCompile(true)

	assert.Nil(t, base.Offset)
	assert.Equal(t, int32(10), *opts.Limit)
	assert.Equal(t, int32(5), *opts.Offset)
	assert.Equal(t, int32(3), *opts.ChunkSize)
	assert.Equal(t, int32(7), *opts.PrefetchSize)
	assert.True(t, *opts.Compile)
}
