/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package datastore

import (
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

// Cursor is an opaque position previously issued by the datastore. A nil
// Cursor is absent.
type Cursor []byte

// ParseCursor decodes the web-safe form of a cursor produced by Cursor.String.
func ParseCursor(s string) (Cursor, error) {
	b, err := base64.URLEncoding.DecodeString(padBase64(strings.TrimSpace(s)))
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode cursor")
	}
	return Cursor(b), nil
}

func padBase64(s string) string {
	if n := len(s) % 4; n != 0 {
		s += strings.Repeat("=", 4-n)
	}
	return s
}

func (c Cursor) String() string {
	return base64.URLEncoding.EncodeToString(c)
}

// FetchOptions controls paging of a query. Unset fields are nil.
type FetchOptions struct {
	Offset       *int32
	Limit        *int32
	PrefetchSize *int32
	ChunkSize    *int32
	StartCursor  Cursor
	EndCursor    Cursor
	Compile      *bool
}

func int32Ptr(i int32) *int32 { return &i }

func WithLimit(limit int32) FetchOptions {
	return FetchOptions{Limit: int32Ptr(limit)}
}

func WithOffset(offset int32) FetchOptions {
	return FetchOptions{Offset: int32Ptr(offset)}
}

func WithPrefetchSize(size int32) FetchOptions {
	return FetchOptions{PrefetchSize: int32Ptr(size)}
}

func WithChunkSize(size int32) FetchOptions {
	return FetchOptions{ChunkSize: int32Ptr(size)}
}

func WithStartCursor(c Cursor) FetchOptions {
	return FetchOptions{StartCursor: c}
}

func WithEndCursor(c Cursor) FetchOptions {
	return FetchOptions{EndCursor: c}
}

func (o FetchOptions) SetLimit(limit int32) FetchOptions {
	o.Limit = int32Ptr(limit)
	return o
}

func (o FetchOptions) SetOffset(offset int32) FetchOptions {
	o.Offset = int32Ptr(offset)
	return o
}

func (o FetchOptions) SetPrefetchSize(size int32) FetchOptions {
	o.PrefetchSize = int32Ptr(size)
	return o
}

func (o FetchOptions) SetChunkSize(size int32) FetchOptions {
	o.ChunkSize = int32Ptr(size)
	return o
}

func (o FetchOptions) SetStartCursor(c Cursor) FetchOptions {
	o.StartCursor = c
	return o
}

func (o FetchOptions) SetEndCursor(c Cursor) FetchOptions {
	o.EndCursor = c
	return o
}

func (o FetchOptions) SetCompile(compile bool) FetchOptions {
	o.Compile = &compile
	return o
}
