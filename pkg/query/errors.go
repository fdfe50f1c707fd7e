/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"github.com/dburkart/dsquery/pkg/codec"
	"github.com/dburkart/dsquery/pkg/datastore"
	"github.com/pkg/errors"
)

// Translation errors. All of them describe a problem with the caller's input;
// none is worth retrying.
var (
	ErrIdentityMismatch          = errors.New("query and ancestor appid/namespace mismatch")
	ErrInvalidDistinctProjection = errors.New("projected properties must be set to allow for distinct projections")
	ErrInvalidGeoComposition     = errors.New("geo-spatial filters may only be composed with AND")
	ErrInvalidGeoComparison      = errors.New("geo-spatial filters may only be combined with equality comparisons")
	ErrInvalidCursor             = errors.New("invalid cursor")
	ErrInvalidOperator           = errors.New("invalid filter operator")
	ErrInvalidDirection          = errors.New("invalid sort direction")

	ErrUnsupportedGeoRegion = codec.ErrUnsupportedGeoRegion
	ErrUnsupportedValueType = codec.ErrUnsupportedValueType
	ErrNilFilter            = datastore.ErrNilFilter
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrIdentityMismatch, "identity_mismatch"},
	{ErrInvalidDistinctProjection, "invalid_distinct_projection"},
	{ErrInvalidGeoComposition, "invalid_geo_composition"},
	{ErrInvalidGeoComparison, "invalid_geo_comparison"},
	{ErrUnsupportedGeoRegion, "unsupported_geo_region"},
	{ErrInvalidCursor, "invalid_cursor"},
	{ErrUnsupportedValueType, "unsupported_value_type"},
	{ErrInvalidOperator, "invalid_operator"},
	{ErrInvalidDirection, "invalid_direction"},
	{ErrNilFilter, "nil_filter"},
}

// Kind names the class of a translation error, for metrics labels and API
// responses. Errors outside the translation taxonomy are "internal"; a nil
// error is "ok".
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}
