/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package datastore

import "fmt"

// GeoPt is a point on the globe in degrees. No range checking is done here.
type GeoPt struct {
	Latitude  float64
	Longitude float64
}

func (p GeoPt) String() string {
	return fmt.Sprintf("(%g, %g)", p.Latitude, p.Longitude)
}

// GeoRegion is the region operand of an StContainsFilter. The set of regions is
// closed: Circle and Rectangle.
type GeoRegion interface {
	geoRegion()
}

type (
	// Circle is the set of points within Radius meters of Center.
	Circle struct {
		Center GeoPt
		Radius float64
	}

	// Rectangle is bounded by its south-west and north-east corners.
	Rectangle struct {
		Southwest GeoPt
		Northeast GeoPt
	}
)

func (Circle) geoRegion()    {}
func (Rectangle) geoRegion() {}

func (c Circle) String() string {
	return fmt.Sprintf("circle(%s, %gm)", c.Center, c.Radius)
}

func (r Rectangle) String() string {
	return fmt.Sprintf("rectangle(%s, %s)", r.Southwest, r.Northeast)
}
