// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package object

import (
	"fmt"
)

// DecodeError is returned when a record's bytes cannot be decoded as its
// declared type, for example because an embedded length runs past the end of
// the payload.
//
// A DecodeError affects a single record. The stream attaches it to that
// record (which is delivered as Raw) and continues.
type DecodeError struct {
	// Type is the declared object type, if known.
	Type Type
	// Offset is the byte offset within the record (or payload) where decoding
	// failed.
	Offset int
	// Reason describes what was being decoded.
	Reason string
	// Value is the offending field value, if any.
	Value uint64
	// Err is the underlying error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decoding %s at offset %d: %s", e.Type, e.Offset, e.Reason)
	if e.Value != 0 {
		msg = fmt.Sprintf("%s (value %d)", msg, e.Value)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }

// FieldValidationWarning reports a record whose fields disagree with each
// other or with the record's declared size. The record is still decoded.
type FieldValidationWarning struct {
	Type  Type
	Field string

	// Declared is the value stored in the record; Expected is the value
	// derived from the other fields.
	Declared int64
	Expected int64
}

func (w *FieldValidationWarning) Error() string {
	return fmt.Sprintf("%s: field %s is %d, expected %d", w.Type, w.Field, w.Declared, w.Expected)
}
