/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"github.com/dburkart/dsquery/pkg/datastore"
	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/pkg/errors"
)

func convertSortPredicate(s datastore.SortPredicate) (proto.Order, error) {
	dir, err := sortOp(s.Direction)
	if err != nil {
		return proto.Order{}, err
	}
	return proto.Order{Property: s.Property, Direction: dir}, nil
}

func sortOp(d datastore.SortDirection) (proto.Direction, error) {
	switch d {
	case datastore.Ascending:
		return proto.DirectionAscending, nil
	case datastore.Descending:
		return proto.DirectionDescending, nil
	}
	return 0, errors.Wrapf(ErrInvalidDirection, "direction %s", d)
}
