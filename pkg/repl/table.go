/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/dustin/go-humanize"
)

// QueryTable lays a wire query out as one row per clause.
type QueryTable struct {
	Query *proto.Query
}

func (t QueryTable) Headers() []string {
	return []string{"clause", "property", "operator", "value"}
}

func (t QueryTable) Values() [][]string {
	q := t.Query
	rows := [][]string{}
	add := func(row ...string) {
		rows = append(rows, row)
	}

	if q.Kind != nil {
		add("kind", "", "", *q.Kind)
	}
	if q.Ancestor != nil {
		add("ancestor", "", "", q.Ancestor.String())
	}
	if q.KeysOnly {
		add("keys_only", "", "", "true")
	}

	for _, f := range q.Filters {
		for _, p := range f.Properties {
			value := p.Value.String()
			if f.GeoRegion != nil {
				value = f.GeoRegion.String()
			}
			add("filter", p.Name, f.Op.String(), value)
		}
	}
	for _, o := range q.Orders {
		add("order", o.Property, o.Direction.String(), "")
	}
	if len(q.PropertyNames) > 0 {
		add("projection", strings.Join(q.PropertyNames, ", "), "", "")
	}
	if len(q.GroupByPropertyNames) > 0 {
		add("group_by", strings.Join(q.GroupByPropertyNames, ", "), "", "")
	}

	for _, f := range []struct {
		name  string
		value *int32
	}{{"offset", q.Offset}, {"limit", q.Limit}, {"count", q.Count}} {
		if f.value != nil {
			add(f.name, "", "", strconv.Itoa(int(*f.value)))
		}
	}

	if q.CompiledCursor != nil {
		add("start_cursor", "", "", cursorSize(q.CompiledCursor))
	}
	if q.EndCompiledCursor != nil {
		add("end_cursor", "", "", cursorSize(q.EndCompiledCursor))
	}

	return rows
}

func (t QueryTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Query)
}

func cursorSize(c *proto.CompiledCursor) string {
	b, err := c.Marshal()
	if err != nil {
		return "invalid"
	}
	return humanize.IBytes(uint64(len(b)))
}

// ErrorTable reports a failed translation.
type ErrorTable struct {
	Kind string `json:"kind"`
	Err  string `json:"error"`
}

func (t ErrorTable) Headers() []string {
	return []string{"kind", "error"}
}

func (t ErrorTable) Values() [][]string {
	return [][]string{{t.Kind, t.Err}}
}
