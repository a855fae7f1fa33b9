// mautrix-imessage - A Matrix-iMessage puppeting bridge.
// Copyright (C) 2024 Ludvig Rhodin
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package typedstream decodes Apple's NSArchiver "typedstream" binary format
// into a tree of resolved properties.
package typedstream

import "fmt"

// InvalidHeaderError is returned when the buffer does not begin with the
// expected typedstream magic and version word.
type InvalidHeaderError struct {
	Got []byte
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("typedstream: invalid header, got %x", e.Got)
}

// OutOfBoundsError is returned when a read would exceed the input buffer.
type OutOfBoundsError struct {
	Index, Len int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("typedstream: read at index %d exceeds buffer of length %d", e.Index, e.Len)
}

// InvalidArrayError is returned when an array descriptor's declared length
// and element type cannot be satisfied by the following bytes.
type InvalidArrayError struct {
	Length int
	Type   byte
}

func (e *InvalidArrayError) Error() string {
	return fmt.Sprintf("typedstream: invalid array of %d elements with type %q", e.Length, e.Type)
}

// StringParseError is returned when a length-prefixed string is not valid UTF-8.
type StringParseError struct {
	Cause error
}

func (e *StringParseError) Error() string {
	return fmt.Sprintf("typedstream: string is not valid utf-8: %v", e.Cause)
}

func (e *StringParseError) Unwrap() error { return e.Cause }

// InvalidPointerError is returned when a back-reference tag does not resolve
// to a previously emitted class or object table entry.
type InvalidPointerError struct {
	Tag byte
}

func (e *InvalidPointerError) Error() string {
	return fmt.Sprintf("typedstream: invalid back-reference pointer byte 0x%02x", e.Tag)
}

// SliceError is returned when a fixed-width primitive could not be read
// because too few bytes remained in a length-delimited region.
type SliceError struct {
	Want, Got int
}

func (e *SliceError) Error() string {
	return fmt.Sprintf("typedstream: expected %d bytes, found %d", e.Want, e.Got)
}
