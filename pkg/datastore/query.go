/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package datastore

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrUnsupportedDisjunction = errors.New("OR filters without a geo-spatial term must be planned as multiple queries")

type SortDirection int

const (
	Ascending SortDirection = iota + 1
	Descending
)

func (d SortDirection) String() string {
	switch d {
	case Ascending:
		return "ASCENDING"
	case Descending:
		return "DESCENDING"
	}
	return fmt.Sprintf("SortDirection(%d)", int(d))
}

type SortPredicate struct {
	Property  string
	Direction SortDirection
}

type Projection struct {
	Property string
}

// FilterSet holds the filters of a query: either a list of simple predicates
// (Predicates) or a single expression tree that carries a geo-spatial term
// (GeoFilter). A nil FilterSet means the query is unfiltered.
type FilterSet interface {
	filterSet()
}

type (
	Predicates []FilterPredicate

	GeoFilter struct {
		Root Filter
	}
)

func (Predicates) filterSet() {}
func (GeoFilter) filterSet()  {}

// Query is a logical datastore query. A Query is never modified once built:
// every builder method returns a new Query.
type Query struct {
	appID       string
	namespace   string
	kind        string
	ancestor    *Key
	keysOnly    bool
	distinct    bool
	filters     FilterSet
	sorts       []SortPredicate
	projections []Projection
}

// NewQuery creates a query over entities of kind; an empty kind matches all
// kinds.
func NewQuery(appID, namespace, kind string) *Query {
	return &Query{appID: appID, namespace: namespace, kind: kind}
}

func (q *Query) clone() *Query {
	c := *q
	c.sorts = append([]SortPredicate(nil), q.sorts...)
	c.projections = append([]Projection(nil), q.projections...)
	if preds, ok := q.filters.(Predicates); ok {
		c.filters = append(Predicates(nil), preds...)
	}
	return &c
}

func (q *Query) AppID() string             { return q.appID }
func (q *Query) Namespace() string         { return q.namespace }
func (q *Query) Kind() string              { return q.kind }
func (q *Query) GetAncestor() *Key         { return q.ancestor }
func (q *Query) IsKeysOnly() bool          { return q.keysOnly }
func (q *Query) IsDistinct() bool          { return q.distinct }
func (q *Query) Filters() FilterSet        { return q.filters }
func (q *Query) Sorts() []SortPredicate    { return q.sorts }
func (q *Query) Projections() []Projection { return q.projections }

func (q *Query) Ancestor(k *Key) *Query {
	c := q.clone()
	c.ancestor = k
	return c
}

func (q *Query) KeysOnly() *Query {
	c := q.clone()
	c.keysOnly = true
	return c
}

func (q *Query) Distinct() *Query {
	c := q.clone()
	c.distinct = true
	return c
}

// Filter appends simple predicates, skipping nil ones. Any geo filter
// previously set is dropped.
func (q *Query) Filter(preds ...*FilterPredicate) *Query {
	c := q.clone()
	existing, _ := c.filters.(Predicates)
	for _, p := range preds {
		if p == nil {
			continue
		}
		existing = append(existing, *p)
	}
	c.filters = existing
	return c
}

// GeoFilter replaces the filters of the query with an expression tree that
// holds a geo-spatial term.
func (q *Query) GeoFilter(root Filter) *Query {
	c := q.clone()
	c.filters = GeoFilter{Root: root}
	return c
}

// SetFilter replaces the filters of the query with root. A tree holding an
// StContainsFilter is kept whole; any other tree must be a conjunction of
// predicates and is flattened into simple predicates.
func (q *Query) SetFilter(root Filter) (*Query, error) {
	if IsNilFilter(root) {
		c := q.clone()
		c.filters = nil
		return c, nil
	}

	if ContainsGeo(root) {
		return q.GeoFilter(root), nil
	}

	var preds Predicates
	var collect func(Filter) error
	collect = func(f Filter) error {
		if IsNilFilter(f) {
			return ErrNilFilter
		}

		switch n := f.(type) {
		case *FilterPredicate:
			preds = append(preds, *n)
		case *CompositeFilter:
			if n.Operator != And {
				return ErrUnsupportedDisjunction
			}
			for _, sub := range n.Filters {
				if err := collect(sub); err != nil {
					return err
				}
			}
		default:
			return errors.Errorf("unexpected filter %T", f)
		}
		return nil
	}
	if err := collect(root); err != nil {
		return nil, err
	}

	c := q.clone()
	c.filters = preds
	return c, nil
}

func (q *Query) Order(property string, direction SortDirection) *Query {
	c := q.clone()
	c.sorts = append(c.sorts, SortPredicate{Property: property, Direction: direction})
	return c
}

func (q *Query) Project(properties ...string) *Query {
	c := q.clone()
	for _, p := range properties {
		c.projections = append(c.projections, Projection{Property: p})
	}
	return c
}
