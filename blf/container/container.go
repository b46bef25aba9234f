// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package container reads and writes LOG_CONTAINER records, the compressed
// blocks that carry every other record in a BLF file.
package container

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/danjacques/goblf/blf/object"
	"github.com/danjacques/goblf/support/bufferpool"
	"github.com/danjacques/goblf/support/byteslicereader"

	"github.com/klauspost/compress/zlib"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Compression methods.
const (
	MethodNone uint16 = 0
	MethodZlib uint16 = 2
)

// FieldsSize is the size of the container fields following the object header.
const FieldsSize = 16

// Fields is the container-specific layout following the object header.
type Fields struct {
	Method           uint16 `struc:",little"`
	Reserved1        uint16 `struc:",little"`
	Reserved2        uint32 `struc:",little"`
	UncompressedSize uint32 `struc:",little"`
	Reserved3        uint32 `struc:",little"`
}

// Container is a LOG_CONTAINER record. Data holds the (possibly compressed)
// payload exactly as stored.
type Container struct {
	object.Header
	Fields

	Data []byte
}

// Parse decodes the container record at the start of b. b must hold the full
// record as declared by its header, or Truncated is set and Data holds only
// the bytes that are present.
//
// Data references b.
func Parse(b []byte) (*Container, error) {
	h, err := object.DecodeHeader(b)
	if err != nil {
		return nil, err
	}
	if h.ObjectType != object.TypeLogContainer {
		return nil, errors.Errorf("object type %s is not a container", h.ObjectType)
	}

	end := int(h.ObjectSize)
	if end > len(b) {
		end = len(b)
	}
	r := byteslicereader.R{Buffer: b[h.HeaderSize:end]}
	c := Container{Header: h}
	if err := struc.Unpack(&r, &c.Fields); err != nil {
		return nil, &object.DecodeError{
			Type:   h.ObjectType,
			Offset: int(h.HeaderSize) + r.Pos(),
			Reason: "container fields",
			Err:    err,
		}
	}
	c.Data = r.Peek(r.Remaining())
	return &c, nil
}

// Truncated returns true if Data holds fewer bytes than the header declares.
func (c *Container) Truncated() bool {
	return int(c.HeaderSize)+FieldsSize+len(c.Data) < int(c.ObjectSize)
}

// Append appends the encoded container record, including padding, to b. The
// header's size and type fields are recomputed.
func (c *Container) Append(b []byte) ([]byte, error) {
	h := &c.Header
	if h.HeaderVersion == 0 {
		h.HeaderVersion = object.HeaderVersion1
	}
	hs := h.EncodedSize()
	size := hs + FieldsSize + len(c.Data)
	if uint64(size) > math.MaxUint32 || hs > math.MaxUint16 {
		return b, errors.Errorf("container of %d bytes is too large", size)
	}
	h.Signature = object.Signature
	h.HeaderSize = uint16(hs)
	h.ObjectSize = uint32(size)
	h.ObjectType = object.TypeLogContainer

	b = h.Append(b)
	buf := bytes.NewBuffer(b)
	if err := struc.Pack(buf, &c.Fields); err != nil {
		return b, errors.Wrap(err, "packing container fields")
	}
	b = append(buf.Bytes(), c.Data...)
	for i := uint64(size); i < object.PaddedSize(uint32(size)); i++ {
		b = append(b, 0)
	}
	return b, nil
}

// New returns a container holding data, compressed with method at level.
func New(method uint16, level int, data []byte) (*Container, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, errors.Errorf("container payload of %d bytes is too large", len(data))
	}
	compressed, err := Compress(method, level, data)
	if err != nil {
		return nil, err
	}
	return &Container{
		Header: object.Header{
			Base: object.Base{HeaderVersion: object.HeaderVersion1},
		},
		Fields: Fields{
			Method:           method,
			UncompressedSize: uint32(len(data)),
		},
		Data: compressed,
	}, nil
}

// PartialError is returned by Decompress alongside the bytes that could be
// recovered when a container's payload inflates to fewer bytes than declared.
type PartialError struct {
	Declared int
	Actual   int
	Err      error
}

func (e *PartialError) Error() string {
	msg := fmt.Sprintf("container inflated to %d of %d bytes", e.Actual, e.Declared)
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying inflate error, if any.
func (e *PartialError) Unwrap() error { return e.Err }

// UnsupportedMethodError is returned for a compression method that is not
// understood.
type UnsupportedMethodError struct {
	Method uint16
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported compression method %d", e.Method)
}

// SizeLimitError is returned for a container whose declared uncompressed size
// exceeds the reader's limit.
type SizeLimitError struct {
	Declared uint32
	Limit    uint32
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("declared uncompressed size %d exceeds limit %d", e.Declared, e.Limit)
}

var defaultPool bufferpool.Pool

// Decompress returns the uncompressed payload of c in a buffer taken from
// pool. If pool is nil, a package pool is used.
//
// When the payload yields fewer bytes than UncompressedSize, the returned
// buffer holds what was recovered and the error is a *PartialError. Any other
// error is returned with a nil buffer. The caller must Release the buffer.
func Decompress(c *Container, pool *bufferpool.Pool) (*bufferpool.Buffer, error) {
	if pool == nil {
		pool = &defaultPool
	}

	switch c.Method {
	case MethodNone:
		n := len(c.Data)
		buf := pool.Get(n)
		copy(buf.Bytes(), c.Data)
		return buf, nil

	case MethodZlib:
		buf := pool.Get(int(c.UncompressedSize))
		n, err := inflate(buf.Bytes(), c.Data)
		if n < buf.Len() {
			buf.Truncate(n)
			return buf, &PartialError{Declared: int(c.UncompressedSize), Actual: n, Err: err}
		}
		return buf, nil

	default:
		return nil, &UnsupportedMethodError{Method: c.Method}
	}
}

// inflate fills dst from the zlib stream in src, returning the number of bytes
// produced. Output beyond len(dst) is ignored.
func inflate(dst, src []byte) (int, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, errors.Wrap(err, "opening zlib stream")
	}
	defer zr.Close()

	return io.ReadFull(zr, dst)
}

// Compress returns data compressed with method. level is a zlib compression
// level; zero selects the default.
func Compress(method uint16, level int, data []byte) ([]byte, error) {
	switch method {
	case MethodNone:
		return append([]byte(nil), data...), nil

	case MethodZlib:
		if level == 0 {
			level = zlib.DefaultCompression
		}
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, level)
		if err != nil {
			return nil, errors.Wrap(err, "creating zlib writer")
		}
		if _, err := zw.Write(data); err != nil {
			return nil, errors.Wrap(err, "compressing")
		}
		if err := zw.Close(); err != nil {
			return nil, errors.Wrap(err, "compressing")
		}
		return buf.Bytes(), nil

	default:
		return nil, &UnsupportedMethodError{Method: method}
	}
}
