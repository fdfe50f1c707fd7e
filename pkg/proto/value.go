/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package proto

import (
	"fmt"
	"strconv"
	"strings"
)

// PropertyValue holds at most one typed payload. A value with no payload is
// valid on the wire: it encodes null, and it is the value carried by a
// CONTAINED_IN_REGION filter, whose comparand is the region itself.
type PropertyValue struct {
	Int64Value     *int64          `json:"int64_value,omitempty"`
	BooleanValue   *bool           `json:"boolean_value,omitempty"`
	StringValue    *string         `json:"string_value,omitempty"`
	DoubleValue    *float64        `json:"double_value,omitempty"`
	PointValue     *PointValue     `json:"point_value,omitempty"`
	ReferenceValue *ReferenceValue `json:"reference_value,omitempty"`
}

// PointValue is a geo point; X is the latitude and Y the longitude.
type PointValue struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ReferenceValue struct {
	App       string        `json:"app"`
	NameSpace *string       `json:"name_space,omitempty"`
	Path      []PathElement `json:"path_element"`
}

// IsEmpty reports whether the value carries no payload.
func (v PropertyValue) IsEmpty() bool {
	return v.Int64Value == nil &&
		v.BooleanValue == nil &&
		v.StringValue == nil &&
		v.DoubleValue == nil &&
		v.PointValue == nil &&
		v.ReferenceValue == nil
}

func (v PropertyValue) String() string {
	switch {
	case v.Int64Value != nil:
		return strconv.FormatInt(*v.Int64Value, 10)
	case v.BooleanValue != nil:
		return strconv.FormatBool(*v.BooleanValue)
	case v.StringValue != nil:
		return strconv.Quote(*v.StringValue)
	case v.DoubleValue != nil:
		return strconv.FormatFloat(*v.DoubleValue, 'g', -1, 64)
	case v.PointValue != nil:
		return fmt.Sprintf("point(%g, %g)", v.PointValue.X, v.PointValue.Y)
	case v.ReferenceValue != nil:
		return "key(" + pathString(v.ReferenceValue.Path) + ")"
	}
	return "<empty>"
}

func pathString(path []PathElement) string {
	elems := make([]string, 0, len(path))
	for _, e := range path {
		switch {
		case e.Name != nil:
			elems = append(elems, fmt.Sprintf("%s:%q", e.Type, *e.Name))
		case e.ID != nil:
			elems = append(elems, e.Type+":"+strconv.FormatInt(*e.ID, 10))
		default:
			elems = append(elems, e.Type+":?")
		}
	}
	return strings.Join(elems, "/")
}
