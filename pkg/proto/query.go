/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package proto

import (
	"fmt"
	"strings"
)

type Operator int32

const (
	OperatorLessThan           Operator = 1
	OperatorLessThanOrEqual    Operator = 2
	OperatorGreaterThan        Operator = 3
	OperatorGreaterThanOrEqual Operator = 4
	OperatorEqual              Operator = 5
	OperatorIn                 Operator = 6
	OperatorExists             Operator = 7
	OperatorContainedInRegion  Operator = 8
)

var operatorNames = map[Operator]string{
	OperatorLessThan:           "LESS_THAN",
	OperatorLessThanOrEqual:    "LESS_THAN_OR_EQUAL",
	OperatorGreaterThan:        "GREATER_THAN",
	OperatorGreaterThanOrEqual: "GREATER_THAN_OR_EQUAL",
	OperatorEqual:              "EQUAL",
	OperatorIn:                 "IN",
	OperatorExists:             "EXISTS",
	OperatorContainedInRegion:  "CONTAINED_IN_REGION",
}

func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int32(op))
}

func (op Operator) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

func (op *Operator) UnmarshalText(b []byte) error {
	for k, v := range operatorNames {
		if v == strings.ToUpper(string(b)) {
			*op = k
			return nil
		}
	}
	return fmt.Errorf("unknown operator %q", b)
}

type Direction int32

const (
	DirectionAscending  Direction = 1
	DirectionDescending Direction = 2
)

func (d Direction) String() string {
	switch d {
	case DirectionAscending:
		return "ASCENDING"
	case DirectionDescending:
		return "DESCENDING"
	}
	return fmt.Sprintf("Direction(%d)", int32(d))
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	switch strings.ToUpper(string(b)) {
	case "ASCENDING":
		*d = DirectionAscending
	case "DESCENDING":
		*d = DirectionDescending
	default:
		return fmt.Errorf("unknown direction %q", b)
	}
	return nil
}

// Query is the wire form of a datastore query.
type Query struct {
	App                  string          `json:"app"`
	NameSpace            *string         `json:"name_space,omitempty"`
	Kind                 *string         `json:"kind,omitempty"`
	Ancestor             *Reference      `json:"ancestor,omitempty"`
	Filters              []Filter        `json:"filter,omitempty"`
	Orders               []Order         `json:"order,omitempty"`
	Offset               *int32          `json:"offset,omitempty"`
	Limit                *int32          `json:"limit,omitempty"`
	Count                *int32          `json:"count,omitempty"`
	CompiledCursor       *CompiledCursor `json:"compiled_cursor,omitempty"`
	EndCompiledCursor    *CompiledCursor `json:"end_compiled_cursor,omitempty"`
	Compile              *bool           `json:"compile,omitempty"`
	KeysOnly             bool            `json:"keys_only"`
	PropertyNames        []string        `json:"property_name,omitempty"`
	GroupByPropertyNames []string        `json:"group_by_property_name,omitempty"`
}

// AddFilter appends an empty filter and returns it for population.
func (q *Query) AddFilter() *Filter {
	q.Filters = append(q.Filters, Filter{})
	return &q.Filters[len(q.Filters)-1]
}

type Filter struct {
	Op         Operator   `json:"op"`
	Properties []Property `json:"property"`
	GeoRegion  *GeoRegion `json:"geo_region,omitempty"`
}

// AddProperty appends a property to the filter and returns it for population.
func (f *Filter) AddProperty(name string) *Property {
	f.Properties = append(f.Properties, Property{Name: name})
	return &f.Properties[len(f.Properties)-1]
}

type Property struct {
	Name     string        `json:"name"`
	Multiple bool          `json:"multiple"`
	Value    PropertyValue `json:"value"`
}

type Order struct {
	Property  string    `json:"property"`
	Direction Direction `json:"direction"`
}

type Reference struct {
	App       string        `json:"app"`
	NameSpace *string       `json:"name_space,omitempty"`
	Path      []PathElement `json:"path"`
}

type PathElement struct {
	Type string  `json:"type"`
	ID   *int64  `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

type GeoRegion struct {
	Circle    *CircleRegion    `json:"circle,omitempty"`
	Rectangle *RectangleRegion `json:"rectangle,omitempty"`
}

type CircleRegion struct {
	Center       RegionPoint `json:"center"`
	RadiusMeters float64     `json:"radius_meters"`
}

type RectangleRegion struct {
	Southwest RegionPoint `json:"southwest"`
	Northeast RegionPoint `json:"northeast"`
}

type RegionPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func String(s string) *string    { return &s }
func Int32(i int32) *int32       { return &i }
func Int64(i int64) *int64       { return &i }
func Bool(b bool) *bool          { return &b }
func Float64(f float64) *float64 { return &f }
