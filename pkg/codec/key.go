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

var ErrNilKey = errors.New("key is nil")

// EncodeKey converts k into a wire reference. The application and namespace
// come from k itself; the path runs from the root ancestor down to k.
func EncodeKey(k *datastore.Key) (*proto.Reference, error) {
	if k == nil {
		return nil, ErrNilKey
	}

	ref := &proto.Reference{App: k.AppID}
	if k.Namespace != "" {
		ref.NameSpace = proto.String(k.Namespace)
	}

	for _, p := range k.Path() {
		if p.Kind == "" {
			return nil, errors.Errorf("key %s has an element without a kind", k)
		}
		elem := proto.PathElement{Type: p.Kind}
		switch {
		case p.Name != "":
			elem.Name = proto.String(p.Name)
		case p.ID != 0:
			elem.ID = proto.Int64(p.ID)
		}
		ref.Path = append(ref.Path, elem)
	}

	return ref, nil
}

// DecodeKey is the inverse of EncodeKey.
func DecodeKey(ref *proto.Reference) (*datastore.Key, error) {
	if ref == nil || len(ref.Path) == 0 {
		return nil, ErrNilKey
	}

	var ns string
	if ref.NameSpace != nil {
		ns = *ref.NameSpace
	}

	var k *datastore.Key
	for _, e := range ref.Path {
		var (
			id   int64
			name string
		)
		if e.ID != nil {
			id = *e.ID
		}
		if e.Name != nil {
			name = *e.Name
		}
		k = datastore.NewKey(ref.App, ns, e.Type, name, id, k)
	}

	return k, nil
}
