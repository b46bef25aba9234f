// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"github.com/danjacques/goblf/blf/object"
	"github.com/danjacques/goblf/support/bufferpool"
)

// record is a decoded object and the warnings attached to it.
type record struct {
	obj      object.Object
	warnings []error
}

// objectStream splits the concatenated payloads of successive containers into
// records.
//
// Records may straddle containers. The bytes of an incomplete record are
// copied into carry and completed from the next container; padding that runs
// past the end of a container is remembered in skip.
type objectStream struct {
	reg           *object.Registry
	maxObjectSize uint32

	buf  *bufferpool.Buffer
	data []byte

	carry []byte
	skip  int

	corrupt error
}

// feed hands the stream the next container payload. Ownership of buf passes
// to the stream, which releases it once its bytes have been consumed.
func (s *objectStream) feed(buf *bufferpool.Buffer) {
	s.releaseBuffer()
	s.buf = buf
	s.data = buf.Bytes()
}

func (s *objectStream) releaseBuffer() {
	if s.buf != nil {
		s.buf.Release()
		s.buf, s.data = nil, nil
	}
}

// next returns the next record. It returns nil when more data is needed; the
// current buffer has been released at that point. A non-nil error means the
// stream is corrupt and cannot continue.
func (s *objectStream) next() (*record, error) {
	if s.corrupt != nil {
		return nil, s.corrupt
	}

	if s.skip > 0 {
		n := s.skip
		if n > len(s.data) {
			n = len(s.data)
		}
		s.data, s.skip = s.data[n:], s.skip-n
	}

	var rec []byte
	switch {
	case len(s.carry) > 0:
		// Complete the base, then the rest of the record.
		if !s.fill(object.BaseSize) {
			return s.needMore()
		}
		size, err := s.recordSize(s.carry)
		if err != nil {
			return nil, err
		}
		if !s.fill(size) {
			return s.needMore()
		}
		rec = s.carry

	case len(s.data) < object.BaseSize:
		s.carry = append(s.carry[:0], s.data...)
		s.data = nil
		return s.needMore()

	default:
		size, err := s.recordSize(s.data)
		if err != nil {
			return nil, err
		}
		if len(s.data) < size {
			s.carry = append(s.carry[:0], s.data...)
			s.data = nil
			return s.needMore()
		}
		rec, s.data = s.data[:size], s.data[size:]
	}

	r := s.decode(rec)
	s.skip = int(object.PaddedSize(uint32(len(rec)))) - len(rec)
	s.carry = s.carry[:0]
	return r, nil
}

// fill moves bytes from data into carry until carry holds n bytes.
func (s *objectStream) fill(n int) bool {
	if need := n - len(s.carry); need > 0 {
		if need > len(s.data) {
			need = len(s.data)
		}
		s.carry = append(s.carry, s.data[:need]...)
		s.data = s.data[need:]
	}
	return len(s.carry) >= n
}

func (s *objectStream) needMore() (*record, error) {
	s.releaseBuffer()
	return nil, nil
}

// recordSize validates the base header at the start of b and returns the
// record's object size.
func (s *objectStream) recordSize(b []byte) (int, error) {
	base, err := object.DecodeBase(b)
	if err == nil {
		err = base.Validate()
	}
	if err == nil && s.maxObjectSize > 0 && base.ObjectSize > s.maxObjectSize {
		err = &object.DecodeError{Type: base.ObjectType, Offset: 8, Reason: "object size exceeds limit", Value: uint64(base.ObjectSize)}
	}
	if err != nil {
		s.corrupt = &CorruptStreamError{Offset: -1, Reason: "invalid object header", Err: err}
		s.releaseBuffer()
		return 0, s.corrupt
	}
	return int(base.ObjectSize), nil
}

// decode decodes one complete record. Headers that validated as a base but
// cannot be decoded in full are delivered as Raw.
func (s *objectStream) decode(rec []byte) *record {
	o, warnings, err := object.Decode(s.reg, rec)
	if err != nil {
		base, _ := object.DecodeBase(rec)
		o = &object.Raw{
			Header:  object.Header{Base: base},
			Payload: append([]byte(nil), rec[object.BaseSize:]...),
		}
		warnings = []error{err}
	}
	return &record{obj: o, warnings: warnings}
}

// pending returns the number of bytes of an incomplete record held by the
// stream, and the size that record declared (0 if unknown).
func (s *objectStream) pending() (have, declared int) {
	if len(s.carry) == 0 {
		return 0, 0
	}
	if len(s.carry) >= object.BaseSize {
		if base, err := object.DecodeBase(s.carry); err == nil {
			declared = int(base.ObjectSize)
		}
	}
	return len(s.carry), declared
}

// discard drops any incomplete record and pending padding.
func (s *objectStream) discard() {
	s.carry = s.carry[:0]
	s.skip = 0
}

func (s *objectStream) close() {
	s.releaseBuffer()
	s.carry = nil
}
