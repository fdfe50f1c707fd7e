/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package codec

import (
	"reflect"
	"sort"
	"time"

	"github.com/dburkart/dsquery/pkg/datastore"
	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/pkg/errors"
)

var ErrUnsupportedValueType = errors.New("cannot convert value")

type encodeFunc func(v any) (proto.PropertyValue, error)

// valueEncoders is the closed set of Go types a property value may have. A new
// scalar type is supported by adding it here.
var valueEncoders = map[reflect.Type]encodeFunc{
	reflect.TypeOf(""):                    encodeString,
	reflect.TypeOf([]byte(nil)):           encodeBytes,
	reflect.TypeOf(false):                 encodeBool,
	reflect.TypeOf(int(0)):                encodeInt,
	reflect.TypeOf(int8(0)):               encodeInt,
	reflect.TypeOf(int16(0)):              encodeInt,
	reflect.TypeOf(int32(0)):              encodeInt,
	reflect.TypeOf(int64(0)):              encodeInt,
	reflect.TypeOf(uint8(0)):              encodeUint,
	reflect.TypeOf(uint16(0)):             encodeUint,
	reflect.TypeOf(uint32(0)):             encodeUint,
	reflect.TypeOf(float32(0)):            encodeFloat,
	reflect.TypeOf(float64(0)):            encodeFloat,
	reflect.TypeOf(time.Time{}):           encodeTime,
	reflect.TypeOf((*datastore.Key)(nil)): encodeKey,
	reflect.TypeOf(datastore.GeoPt{}):     encodeGeoPt,
}

// EncodeValue converts a single property value to its wire form. An untyped
// nil encodes as the empty value.
func EncodeValue(v any) (proto.PropertyValue, error) {
	if v == nil {
		return proto.PropertyValue{}, nil
	}

	enc, ok := valueEncoders[reflect.TypeOf(v)]
	if !ok {
		return proto.PropertyValue{}, errors.Wrapf(ErrUnsupportedValueType, "type %T", v)
	}
	return enc(v)
}

// RegisteredTypes lists the Go types EncodeValue accepts, sorted by name.
func RegisteredTypes() []string {
	names := make([]string, 0, len(valueEncoders))
	for t := range valueEncoders {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return names
}

func encodeString(v any) (proto.PropertyValue, error) {
	return proto.PropertyValue{StringValue: proto.String(v.(string))}, nil
}

func encodeBytes(v any) (proto.PropertyValue, error) {
	return proto.PropertyValue{StringValue: proto.String(string(v.([]byte)))}, nil
}

func encodeBool(v any) (proto.PropertyValue, error) {
	return proto.PropertyValue{BooleanValue: proto.Bool(v.(bool))}, nil
}

func encodeInt(v any) (proto.PropertyValue, error) {
	return proto.PropertyValue{Int64Value: proto.Int64(reflect.ValueOf(v).Int())}, nil
}

func encodeUint(v any) (proto.PropertyValue, error) {
	return proto.PropertyValue{Int64Value: proto.Int64(int64(reflect.ValueOf(v).Uint()))}, nil
}

func encodeFloat(v any) (proto.PropertyValue, error) {
	return proto.PropertyValue{DoubleValue: proto.Float64(reflect.ValueOf(v).Float())}, nil
}

// Timestamps are microseconds since the Unix epoch.
func encodeTime(v any) (proto.PropertyValue, error) {
	return proto.PropertyValue{Int64Value: proto.Int64(v.(time.Time).UnixMicro())}, nil
}

func encodeKey(v any) (proto.PropertyValue, error) {
	ref, err := EncodeKey(v.(*datastore.Key))
	if err != nil {
		return proto.PropertyValue{}, err
	}
	return proto.PropertyValue{ReferenceValue: &proto.ReferenceValue{
		App:       ref.App,
		NameSpace: ref.NameSpace,
		Path:      ref.Path,
	}}, nil
}

func encodeGeoPt(v any) (proto.PropertyValue, error) {
	pt := v.(datastore.GeoPt)
	return proto.PropertyValue{PointValue: &proto.PointValue{X: pt.Latitude, Y: pt.Longitude}}, nil
}
