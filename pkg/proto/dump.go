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

// Dumper renders a wire query as an indented tree, one node per line.
type Dumper struct {
	Output string
	indent int
}

func (d *Dumper) line(name, value string) {
	d.Output += strings.Repeat("    ", d.indent) + name + "[" + value + "]\n"
}

func (d *Dumper) Dump(q *Query) string {
	header := "app=" + strconv.Quote(q.App)
	if q.NameSpace != nil {
		header += " namespace=" + strconv.Quote(*q.NameSpace)
	}
	if q.Kind != nil {
		header += " kind=" + *q.Kind
	}
	if q.KeysOnly {
		header += " keys_only"
	}
	d.line("Query", header)
	d.indent++

	if q.Ancestor != nil {
		d.line("Ancestor", q.Ancestor.String())
	}

	for _, f := range q.Filters {
		d.line("Filter", f.Op.String())
		d.indent++
		for _, p := range f.Properties {
			d.line("Property", p.Name+" = "+p.Value.String())
		}
		if f.GeoRegion != nil {
			d.line("Region", f.GeoRegion.String())
		}
		d.indent--
	}

	for _, o := range q.Orders {
		d.line("Order", o.Property+" "+o.Direction.String())
	}
	for _, p := range q.PropertyNames {
		d.line("Projection", p)
	}
	for _, p := range q.GroupByPropertyNames {
		d.line("GroupBy", p)
	}

	paging := []string{}
	for _, f := range []struct {
		name  string
		value *int32
	}{{"offset", q.Offset}, {"limit", q.Limit}, {"count", q.Count}} {
		if f.value != nil {
			paging = append(paging, fmt.Sprintf("%s=%d", f.name, *f.value))
		}
	}
	if q.Compile != nil {
		paging = append(paging, "compile="+strconv.FormatBool(*q.Compile))
	}
	if len(paging) > 0 {
		d.line("Paging", strings.Join(paging, " "))
	}

	if q.CompiledCursor != nil {
		d.line("StartCursor", q.CompiledCursor.String())
	}
	if q.EndCompiledCursor != nil {
		d.line("EndCursor", q.EndCompiledCursor.String())
	}

	d.indent--
	return d.Output
}

// Dump is shorthand for rendering q with a fresh Dumper.
func Dump(q *Query) string {
	var d Dumper
	return d.Dump(q)
}

func (r GeoRegion) String() string {
	switch {
	case r.Circle != nil:
		return fmt.Sprintf("circle(%s, %gm)", r.Circle.Center, r.Circle.RadiusMeters)
	case r.Rectangle != nil:
		return fmt.Sprintf("rectangle(%s, %s)", r.Rectangle.Southwest, r.Rectangle.Northeast)
	}
	return "<none>"
}

func (p RegionPoint) String() string {
	return fmt.Sprintf("(%g, %g)", p.Latitude, p.Longitude)
}

func (c CompiledCursor) String() string {
	if c.Position == nil {
		return "<start>"
	}
	s := fmt.Sprintf("start_key=%q", c.Position.StartKey)
	if c.Position.StartInclusive != nil {
		s += " inclusive=" + strconv.FormatBool(*c.Position.StartInclusive)
	}
	if c.Position.BeforeAscending != nil {
		s += " before_ascending=" + strconv.FormatBool(*c.Position.BeforeAscending)
	}
	return s
}

func referenceString(app string, ns *string, path []PathElement) string {
	s := app
	if ns != nil {
		s += "/" + *ns
	}
	return s + " " + pathString(path)
}

func (r Reference) String() string {
	return referenceString(r.App, r.NameSpace, r.Path)
}
