/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package codec

import (
	"github.com/dburkart/dsquery/pkg/datastore"
	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/pkg/errors"
)

var ErrUnsupportedGeoRegion = errors.New("missing or unknown region type")

func EncodeGeoRegion(r datastore.GeoRegion) (*proto.GeoRegion, error) {
	switch region := r.(type) {
	case datastore.Circle:
		return &proto.GeoRegion{Circle: &proto.CircleRegion{
			Center:       EncodeGeoPt(region.Center),
			RadiusMeters: region.Radius,
		}}, nil
	case *datastore.Circle:
		if region != nil {
			return EncodeGeoRegion(*region)
		}
	case datastore.Rectangle:
		return &proto.GeoRegion{Rectangle: &proto.RectangleRegion{
			Southwest: EncodeGeoPt(region.Southwest),
			Northeast: EncodeGeoPt(region.Northeast),
		}}, nil
	case *datastore.Rectangle:
		if region != nil {
			return EncodeGeoRegion(*region)
		}
	}

	return nil, errors.Wrapf(ErrUnsupportedGeoRegion, "%T", r)
}

// EncodeGeoPt copies the point as is; range checking belongs to whoever built
// the region.
func EncodeGeoPt(p datastore.GeoPt) proto.RegionPoint {
	return proto.RegionPoint{Latitude: p.Latitude, Longitude: p.Longitude}
}

// DecodeGeoRegion is the inverse of EncodeGeoRegion. Exactly one shape must be
// set on the wire region.
func DecodeGeoRegion(r *proto.GeoRegion) (datastore.GeoRegion, error) {
	if r == nil {
		return nil, errors.Wrap(ErrUnsupportedGeoRegion, "nil region")
	}

	switch {
	case r.Circle != nil && r.Rectangle == nil:
		return datastore.Circle{
			Center: DecodeGeoPt(r.Circle.Center),
			Radius: r.Circle.RadiusMeters,
		}, nil
	case r.Rectangle != nil && r.Circle == nil:
		return datastore.Rectangle{
			Southwest: DecodeGeoPt(r.Rectangle.Southwest),
			Northeast: DecodeGeoPt(r.Rectangle.Northeast),
		}, nil
	}

	return nil, errors.Wrap(ErrUnsupportedGeoRegion, "region must hold exactly one shape")
}

func DecodeGeoPt(p proto.RegionPoint) datastore.GeoPt {
	return datastore.GeoPt{Latitude: p.Latitude, Longitude: p.Longitude}
}
