// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"fmt"

	"github.com/danjacques/goblf/blf/object"
)

// FormatError is returned when a file does not begin with a valid BLF file
// header. It is the only error that prevents a file from being read at all.
type FormatError struct {
	Reason string
	Value  uint64
	Err    error
}

func (e *FormatError) Error() string {
	msg := "invalid BLF file header: " + e.Reason
	if e.Value != 0 {
		msg = fmt.Sprintf("%s (%d)", msg, e.Value)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error { return e.Err }

// TruncatedFileError is a warning recorded when the file ends inside a
// top-level object header.
type TruncatedFileError struct {
	// Offset is the file offset of the incomplete header.
	Offset int64
	// Available is the number of header bytes that were present.
	Available int
}

func (e *TruncatedFileError) Error() string {
	return fmt.Sprintf("file ends inside an object header at offset %d (%d of %d bytes)",
		e.Offset, e.Available, object.BaseSize)
}

// TruncatedContainerError is a warning recorded when the file ends inside a
// container, or when a record is left incomplete at the end of the stream.
// The bytes that were available have already been decoded.
type TruncatedContainerError struct {
	// Offset is the file offset of the container, or -1 for an incomplete
	// record at the end of the stream.
	Offset int64
	// Declared is the size the container or record declared.
	Declared int64
	// Available is the number of bytes that were present.
	Available int64
}

func (e *TruncatedContainerError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("stream ends inside a record (%d of %d bytes)", e.Available, e.Declared)
	}
	return fmt.Sprintf("file ends inside the container at offset %d (%d of %d bytes)",
		e.Offset, e.Available, e.Declared)
}

// DecompressionError is a warning recorded when a container's payload cannot
// be fully decompressed.
type DecompressionError struct {
	// Offset is the file offset of the container.
	Offset int64
	Method uint16
	Err    error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("decompressing container at offset %d (method %d): %s", e.Offset, e.Method, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecompressionError) Unwrap() error { return e.Err }

// CorruptStreamError is a warning recorded when the stream cannot be
// followed any further, for example because an object signature is missing.
// Everything decoded before it is kept.
type CorruptStreamError struct {
	// Offset is the file offset of the offending object, or -1 if it lies
	// within a container.
	Offset int64
	Reason string
	Err    error
}

func (e *CorruptStreamError) Error() string {
	msg := e.Reason
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	msg = "corrupt stream: " + msg
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CorruptStreamError) Unwrap() error { return e.Err }

// UnexpectedObjectError is a warning recorded when a top-level object is not
// a container. The object is skipped.
type UnexpectedObjectError struct {
	Offset int64
	Type   object.Type
}

func (e *UnexpectedObjectError) Error() string {
	return fmt.Sprintf("skipped top-level %s object at offset %d", e.Type, e.Offset)
}

// warningKind returns a short label for err, used for metrics.
func warningKind(err error) string {
	switch err.(type) {
	case *TruncatedFileError:
		return "truncated_file"
	case *TruncatedContainerError:
		return "truncated_container"
	case *DecompressionError:
		return "decompression"
	case *CorruptStreamError:
		return "corrupt_stream"
	case *UnexpectedObjectError:
		return "unexpected_object"
	case *object.DecodeError:
		return "decode"
	case *object.FieldValidationWarning:
		return "field_validation"
	default:
		return "other"
	}
}
