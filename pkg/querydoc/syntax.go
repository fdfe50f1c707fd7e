/*
 * Copyright (c) 2022, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package querydoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// SyntaxError is a document that could not be decoded, with the byte offset
// where decoding stopped. It matches ErrInvalidDocument.
type SyntaxError struct {
	Offset  int64
	Message string
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s: offset %d: %s", ErrInvalidDocument, s.Offset, s.Message)
}

func (s *SyntaxError) Unwrap() error {
	return ErrInvalidDocument
}

// FormatError points at the offending spot of input, which must be the
// document the error came from.
func (s *SyntaxError) FormatError(input []byte) string {
	offset := int(s.Offset)
	if offset > len(input) {
		offset = len(input)
	}

	start := bytes.LastIndexByte(input[:offset], '\n') + 1
	end := bytes.IndexByte(input[offset:], '\n')
	if end < 0 {
		end = len(input)
	} else {
		end += offset
	}
	line := bytes.Count(input[:start], []byte{'\n'}) + 1

	// The decoder reports the offset just past the bad token.
	column := offset - start - 1
	if column < 0 {
		column = 0
	}

	errorString := fmt.Sprintf("Syntax error found in query document, line %d:\n", line)
	errorString += string(input[start:end])
	errorString += fmt.Sprintf("\n%s^ ", strings.Repeat(" ", column))
	errorString += fmt.Sprintf("%s\n", s.Message)
	return errorString
}

// syntaxError converts a decoder error into a SyntaxError when it carries a
// position, and into a plain ErrInvalidDocument otherwise.
func syntaxError(err error) error {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return &SyntaxError{Offset: syntax.Offset, Message: syntax.Error()}
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return &SyntaxError{Offset: typ.Offset, Message: typ.Error()}
	}
	return errors.Wrapf(ErrInvalidDocument, "%v", err)
}
