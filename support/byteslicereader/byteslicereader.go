// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package byteslicereader offers R, a slice-backed reader with zero-copy and
// bounds-checked little-endian accessors.
//
// Standard io.Reader methods require that data be copied into a target
// buffer. The zero-copy options, Peek and Next, return slices of R's
// underlying Buffer instead.
//
// The typed accessors (Uint8, Uint16, Uint32, Uint64, Float64, Bytes, Fill)
// never read past the end of Buffer. If fewer bytes remain than the accessor
// requires, it returns io.ErrUnexpectedEOF and leaves the position unchanged,
// so a decoder can report exactly where a record ran short.
//
// R allows for APIs that may want to be zero-copy conditionally by exposing
// an AlwaysCopy flag. If set, R's zero-copy operations will return copies of
// the underlying Buffer, decoupling them from their base state.
package byteslicereader

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// R reads from a byte slice.
//
// Caution must be taken to ensure that references to the underlying Buffer
// returned by non-copying calls do not persist when/if the buffer is
// reallocated for other purposes (for example, when a pooled container
// buffer is released).
//
// R can be copied, creating a snapshot of its current state.
type R struct {
	// Buffer is the backing buffer for this reader.
	Buffer []byte

	// AlwaysCopy, if true, causes zero-copy methods to return copies of their
	// backing data instead of direct references.
	AlwaysCopy bool

	// pos is the R's position within Buffer.
	pos int64
}

var _ interface {
	io.Reader
	io.ByteReader
	io.Seeker
} = (*R)(nil)

func (r *R) remainingSlice() []byte {
	if r.pos >= int64(len(r.Buffer)) {
		return nil
	}
	return r.Buffer[r.pos:]
}

// Remaining returns the number of bytes remaining in the reader, from the
// current position.
func (r *R) Remaining() int { return len(r.remainingSlice()) }

// Pos returns the current offset within Buffer.
func (r *R) Pos() int { return int(r.pos) }

// Read implements io.Reader.
//
// Note that using Read cause data to be copied.
func (r *R) Read(b []byte) (amt int, err error) {
	remaining := r.remainingSlice()
	amt = copy(b, remaining)

	r.pos += int64(amt)
	if r.pos >= int64(len(r.Buffer)) {
		err = io.EOF
	}
	return
}

// ReadByte implements io.ByteReader.
func (r *R) ReadByte() (b byte, err error) {
	if r.pos >= int64(len(r.Buffer)) {
		return 0, io.EOF
	}

	b, r.pos = r.Buffer[r.pos], r.pos+1
	return
}

// Seek implements io.Seeker.
//
// Seeking to the end of Buffer is legal; seeking beyond it is not.
func (r *R) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekEnd:
		newPos = int64(len(r.Buffer)) + offset
	case io.SeekCurrent:
		newPos = r.pos + offset
	default:
		return r.pos, errors.Errorf("invalid whence %d", whence)
	}

	if newPos < 0 || newPos > int64(len(r.Buffer)) {
		return r.pos, errors.New("seek outside of bounds")
	}

	r.pos = newPos
	return r.pos, nil
}

// Peek returns the next n bytes in r without advancing it.
//
// Peek is a zero-copy method, and returns a slice of the underlying Buffer
// unless AlwaysCopy is true.
//
// If there are fewer than n bytes in r, Peek will return as many as possible.
func (r *R) Peek(n int) []byte {
	v := r.remainingSlice()
	if n < len(v) {
		v = v[:n]
	}

	if r.AlwaysCopy {
		v = append([]byte(nil), v...)
	}

	return v
}

// Next returns the next n bytes in r, advancing r.
//
// Next is a zero-copy equivalent to Read, and returns a slice of the underlying
// Buffer unless AlwaysCopy is true.
//
// If there are fewer than n bytes in r, Next will return as many bytes as it
// can and io.EOF as an error. Next will never return an error if all requested
// bytes are returned.
func (r *R) Next(n int) (v []byte, err error) {
	v = r.remainingSlice()
	if n <= len(v) {
		v = v[:n]
	} else {
		err = io.EOF
	}

	if r.AlwaysCopy {
		v = append([]byte(nil), v...)
	}

	r.pos += int64(len(v))
	return
}

// take returns the next n bytes as a direct slice of Buffer, or
// io.ErrUnexpectedEOF without advancing if fewer than n remain.
func (r *R) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Errorf("negative length %d", n)
	}
	v := r.remainingSlice()
	if len(v) < n {
		return nil, io.ErrUnexpectedEOF
	}
	r.pos += int64(n)
	return v[:n], nil
}

// Bytes returns exactly n bytes, advancing r. Like Next, it honors
// AlwaysCopy. Unlike Next, a short buffer is an error and nothing is
// consumed.
func (r *R) Bytes(n int) ([]byte, error) {
	v, err := r.take(n)
	if err != nil {
		return nil, err
	}
	if r.AlwaysCopy {
		v = append([]byte(nil), v...)
	}
	return v, nil
}

// Fill copies exactly len(dst) bytes into dst.
func (r *R) Fill(dst []byte) error {
	v, err := r.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, v)
	return nil
}

// Skip advances r by n bytes.
func (r *R) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// Uint8 reads a single byte.
func (r *R) Uint8() (uint8, error) {
	v, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// Uint16 reads a little-endian uint16.
func (r *R) Uint16() (uint16, error) {
	v, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(v), nil
}

// Uint32 reads a little-endian uint32.
func (r *R) Uint32() (uint32, error) {
	v, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(v), nil
}

// Uint64 reads a little-endian uint64.
func (r *R) Uint64() (uint64, error) {
	v, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(v), nil
}

// Float64 reads a little-endian IEEE 754 double.
func (r *R) Float64() (float64, error) {
	v, err := r.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}
