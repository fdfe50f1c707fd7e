/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"fmt"
	"reflect"

	"github.com/dburkart/dsquery/pkg/codec"
	"github.com/dburkart/dsquery/pkg/datastore"
	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/pkg/errors"
)

var filterOps = map[datastore.FilterOperator]proto.Operator{
	datastore.LessThan:           proto.OperatorLessThan,
	datastore.LessThanOrEqual:    proto.OperatorLessThanOrEqual,
	datastore.GreaterThan:        proto.OperatorGreaterThan,
	datastore.GreaterThanOrEqual: proto.OperatorGreaterThanOrEqual,
	datastore.Equal:              proto.OperatorEqual,
	datastore.In:                 proto.OperatorIn,
}

func filterOp(op datastore.FilterOperator) (proto.Operator, error) {
	pbOp, ok := filterOps[op]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidOperator, "operator %s", op)
	}
	return pbOp, nil
}

// convertFilterPredicate builds the wire filter for a single predicate. An In
// predicate over a list yields one property per operand, all with the same
// name.
func convertFilterPredicate(pred *datastore.FilterPredicate) (proto.Filter, error) {
	op, err := filterOp(pred.Operator)
	if err != nil {
		return proto.Filter{}, err
	}
	f := proto.Filter{Op: op}

	if values, ok := operands(pred.Value); ok {
		if pred.Operator != datastore.In {
			return proto.Filter{}, errors.Wrapf(ErrInvalidOperator,
				"only the IN operator supports multiple values, got %s", pred.Operator)
		}
		for i, v := range values {
			pv, err := codec.EncodeValue(v)
			if err != nil {
				return proto.Filter{}, errors.Wrapf(err, "operand %d", i)
			}
			f.AddProperty(pred.Property).Value = pv
		}
		return f, nil
	}

	pv, err := codec.EncodeValue(pred.Value)
	if err != nil {
		return proto.Filter{}, err
	}
	f.AddProperty(pred.Property).Value = pv
	return f, nil
}

// operands splits a multi-valued predicate value into its elements. Any slice
// or array counts, except byte sequences, which are a single value.
func operands(v any) ([]any, bool) {
	if values, ok := v.([]any); ok {
		return values, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}

	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, true
}

// copyGeoFilter flattens a filter tree holding a geo-spatial term into pb,
// emitting filters in pre-order. The tree has only been checked for shape by
// the time it gets here, so the geo composition rules are enforced as it is
// walked.
func copyGeoFilter(filter datastore.Filter, pb *proto.Query) error {
	if datastore.IsNilFilter(filter) {
		return errors.Wrap(ErrNilFilter, "geo filter")
	}

	switch f := filter.(type) {
	case *datastore.CompositeFilter:
		if f.Operator != datastore.And {
			return errors.Wrapf(ErrInvalidGeoComposition, "found %s", f.Operator)
		}
		for _, sub := range f.Filters {
			if err := copyGeoFilter(sub, pb); err != nil {
				return err
			}
		}

	case *datastore.StContainsFilter:
		region, err := codec.EncodeGeoRegion(f.Region)
		if err != nil {
			return errors.Wrapf(err, "contains filter on %q", f.Property)
		}
		pbf := pb.AddFilter()
		pbf.Op = proto.OperatorContainedInRegion
		pbf.GeoRegion = region
		// The region is the comparand, so the property carries an empty value.
		prop := pbf.AddProperty(f.Property)
		prop.Multiple = false
		prop.Value = proto.PropertyValue{}

	case *datastore.FilterPredicate:
		if f.Operator != datastore.Equal {
			return errors.Wrapf(ErrInvalidGeoComparison, "%q %s", f.Property, f.Operator)
		}
		pbf, err := convertFilterPredicate(f)
		if err != nil {
			return errors.Wrapf(err, "filter on %q", f.Property)
		}
		pb.Filters = append(pb.Filters, pbf)

	default:
		panic(fmt.Sprintf("unexpected filter %T", filter))
	}

	return nil
}
