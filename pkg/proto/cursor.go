/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package proto

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the compiled cursor message. The position is a group.
const (
	cursorPositionField protowire.Number = 2

	positionStartKeyField        protowire.Number = 27
	positionStartInclusiveField  protowire.Number = 28
	positionBeforeAscendingField protowire.Number = 33
)

// CompiledCursor is the parsed form of an opaque query cursor.
type CompiledCursor struct {
	Position *CursorPosition `json:"position,omitempty"`
}

type CursorPosition struct {
	StartKey        []byte `json:"start_key,omitempty"`
	StartInclusive  *bool  `json:"start_inclusive,omitempty"`
	BeforeAscending *bool  `json:"before_ascending,omitempty"`
}

// Marshal encodes the cursor in protobuf wire format.
func (c CompiledCursor) Marshal() ([]byte, error) {
	var b []byte
	if c.Position != nil {
		b = protowire.AppendTag(b, cursorPositionField, protowire.StartGroupType)
		b = c.Position.appendTo(b)
		b = protowire.AppendTag(b, cursorPositionField, protowire.EndGroupType)
	}
	return b, nil
}

// Unmarshal parses b into the cursor. Unknown fields are skipped; anything that
// is not well formed protobuf, or a known field with the wrong wire type, is an
// error.
func (c *CompiledCursor) Unmarshal(b []byte) error {
	*c = CompiledCursor{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "cursor")
		}
		b = b[n:]

		if num != cursorPositionField {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errors.Wrapf(protowire.ParseError(n), "cursor field %d", num)
			}
			b = b[n:]
			continue
		}

		if typ != protowire.StartGroupType {
			return errors.Errorf("cursor position has wire type %d, expected a group", typ)
		}
		v, n := protowire.ConsumeGroup(num, b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "cursor position")
		}
		b = b[n:]

		pos := &CursorPosition{}
		if err := pos.unmarshal(v); err != nil {
			return err
		}
		c.Position = pos
	}

	return nil
}

func (p *CursorPosition) appendTo(b []byte) []byte {
	if p.StartKey != nil {
		b = protowire.AppendTag(b, positionStartKeyField, protowire.BytesType)
		b = protowire.AppendBytes(b, p.StartKey)
	}
	if p.StartInclusive != nil {
		b = protowire.AppendTag(b, positionStartInclusiveField, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(*p.StartInclusive))
	}
	if p.BeforeAscending != nil {
		b = protowire.AppendTag(b, positionBeforeAscendingField, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(*p.BeforeAscending))
	}
	return b
}

func (p *CursorPosition) unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "cursor position")
		}
		b = b[n:]

		switch num {
		case positionStartKeyField:
			if typ != protowire.BytesType {
				return errors.Errorf("cursor start_key has wire type %d", typ)
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return errors.Wrap(protowire.ParseError(n), "cursor start_key")
			}
			p.StartKey = append([]byte{}, v...)
			b = b[n:]
		case positionStartInclusiveField, positionBeforeAscendingField:
			if typ != protowire.VarintType {
				return errors.Errorf("cursor field %d has wire type %d", num, typ)
			}
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return errors.Wrapf(protowire.ParseError(n), "cursor field %d", num)
			}
			flag := protowire.DecodeBool(v)
			if num == positionStartInclusiveField {
				p.StartInclusive = &flag
			} else {
				p.BeforeAscending = &flag
			}
			b = b[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errors.Wrapf(protowire.ParseError(n), "cursor position field %d", num)
			}
			b = b[n:]
		}
	}

	return nil
}
