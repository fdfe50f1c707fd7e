/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package datastore

import (
	"fmt"
	"strconv"
	"strings"
)

// A Key identifies an entity. Keys form a hierarchy through Parent; the root
// key of a path carries no parent.
type Key struct {
	AppID     string
	Namespace string
	Kind      string
	ID        int64
	Name      string
	Parent    *Key
}

// NewKey creates a key for the given kind. At most one of name and id should be
// set; a key with neither is incomplete.
func NewKey(appID, namespace, kind, name string, id int64, parent *Key) *Key {
	return &Key{
		AppID:     appID,
		Namespace: namespace,
		Kind:      kind,
		ID:        id,
		Name:      name,
		Parent:    parent,
	}
}

// Incomplete reports whether the key has neither a numeric id nor a name.
func (k *Key) Incomplete() bool {
	return k.ID == 0 && k.Name == ""
}

// Path returns the keys from the root of the hierarchy down to k.
func (k *Key) Path() []*Key {
	depth := 0
	for cur := k; cur != nil; cur = cur.Parent {
		depth++
	}

	path := make([]*Key, depth)
	for cur := k; cur != nil; cur = cur.Parent {
		depth--
		path[depth] = cur
	}
	return path
}

func (k *Key) String() string {
	if k == nil {
		return "<nil>"
	}

	elems := []string{}
	for _, p := range k.Path() {
		switch {
		case p.Name != "":
			elems = append(elems, fmt.Sprintf("%s:%q", p.Kind, p.Name))
		case p.ID != 0:
			elems = append(elems, p.Kind+":"+strconv.FormatInt(p.ID, 10))
		default:
			elems = append(elems, p.Kind+":?")
		}
	}
	return strings.Join(elems, "/")
}
