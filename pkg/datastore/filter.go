/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package datastore

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrNilFilter is returned for a filter tree that holds a nil node.
var ErrNilFilter = errors.New("filter tree holds a nil filter")

type FilterOperator int

const (
	LessThan FilterOperator = iota + 1
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	Equal
	In
)

var filterOperatorNames = map[FilterOperator]string{
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	Equal:              "=",
	In:                 "IN",
}

func (op FilterOperator) String() string {
	if s, ok := filterOperatorNames[op]; ok {
		return s
	}
	return fmt.Sprintf("FilterOperator(%d)", int(op))
}

// ParseFilterOperator accepts the symbolic form of an operator ("<", "IN", ...)
// as well as "==" and the lowercase "in".
func ParseFilterOperator(s string) (FilterOperator, error) {
	s = strings.TrimSpace(s)
	if s == "==" {
		return Equal, nil
	}
	for op, name := range filterOperatorNames {
		if strings.EqualFold(name, s) {
			return op, nil
		}
	}
	return 0, errors.Errorf("unknown filter operator %q", s)
}

type CompositeOperator int

const (
	And CompositeOperator = iota + 1
	Or
)

func (op CompositeOperator) String() string {
	switch op {
	case And:
		return "AND"
	case Or:
		return "OR"
	}
	return fmt.Sprintf("CompositeOperator(%d)", int(op))
}

// Filter is a node of a filter expression tree. Implementations are
// *FilterPredicate, *CompositeFilter and *StContainsFilter.
type Filter interface {
	filter()
}

type (
	// FilterPredicate compares a property against a value. Only the In
	// operator may carry a multi-valued ([]any) operand.
	FilterPredicate struct {
		Property string
		Operator FilterOperator
		Value    any
	}

	CompositeFilter struct {
		Operator CompositeOperator
		Filters  []Filter
	}

	// StContainsFilter restricts results to entities whose geo point property
	// lies within Region.
	StContainsFilter struct {
		Property string
		Region   GeoRegion
	}
)

func (*FilterPredicate) filter()  {}
func (*CompositeFilter) filter()  {}
func (*StContainsFilter) filter() {}

func NewFilterPredicate(property string, op FilterOperator, value any) *FilterPredicate {
	return &FilterPredicate{Property: property, Operator: op, Value: value}
}

// InFilter is shorthand for an In predicate over the given operands.
func InFilter(property string, values ...any) *FilterPredicate {
	return &FilterPredicate{Property: property, Operator: In, Value: values}
}

func NewStContainsFilter(property string, region GeoRegion) *StContainsFilter {
	return &StContainsFilter{Property: property, Region: region}
}

func NewCompositeFilter(op CompositeOperator, filters ...Filter) *CompositeFilter {
	return &CompositeFilter{Operator: op, Filters: filters}
}

// AllOf is the conjunction of filters.
func AllOf(filters ...Filter) *CompositeFilter {
	return NewCompositeFilter(And, filters...)
}

// AnyOf is the disjunction of filters.
func AnyOf(filters ...Filter) *CompositeFilter {
	return NewCompositeFilter(Or, filters...)
}

// IsNilFilter reports whether f is nil, including a typed nil node.
func IsNilFilter(f Filter) bool {
	switch n := f.(type) {
	case nil:
		return true
	case *FilterPredicate:
		return n == nil
	case *CompositeFilter:
		return n == nil
	case *StContainsFilter:
		return n == nil
	}
	return false
}

// ContainsGeo reports whether an StContainsFilter is reachable from f.
func ContainsGeo(f Filter) bool {
	if IsNilFilter(f) {
		return false
	}

	switch n := f.(type) {
	case *StContainsFilter:
		return true
	case *CompositeFilter:
		for _, sub := range n.Filters {
			if ContainsGeo(sub) {
				return true
			}
		}
	}
	return false
}
