// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package object

import (
	"encoding/binary"
	"time"

	"github.com/danjacques/goblf/support/byteslicereader"
)

// Signature is the magic value ("LOBJ") that begins every object header.
const Signature uint32 = 0x4A424F4C

// Header sizes, in bytes.
const (
	BaseSize     = 16
	HeaderV1Size = 32
	HeaderV2Size = 40
)

// Header versions.
const (
	HeaderVersion1 = 1
	HeaderVersion2 = 2
)

// Object flags selecting the unit of the object time stamp.
const (
	FlagTimeTenMics uint32 = 0x00000001
	FlagTimeOneNans uint32 = 0x00000002
)

// Base is the fixed 16-byte prefix of every object header.
type Base struct {
	Signature     uint32
	HeaderSize    uint16
	HeaderVersion uint16
	ObjectSize    uint32
	ObjectType    Type
}

// Header is a decoded object header.
//
// Base is embedded by value. The remaining fields are laid out according to
// HeaderVersion, which is chosen when the header is read and not changed
// afterwards: ClientIndex exists only in version 1 headers, while
// TimeStampStatus, HeaderReserved and OriginalTimeStamp exist only in version 2
// headers. Fields that do not belong to the version are zero.
type Header struct {
	Base

	ObjectFlags       uint32
	ClientIndex       uint16
	TimeStampStatus   uint8
	HeaderReserved    uint8
	ObjectVersion     uint16
	TimeStamp         uint64
	OriginalTimeStamp uint64

	// Extra holds header bytes beyond the fields defined for HeaderVersion, when
	// HeaderSize declares more than that.
	Extra []byte

	// Trailing holds payload bytes left over after the object's fields were
	// decoded.
	Trailing []byte
}

// ObjectHeader returns h. It is promoted to every object type embedding a
// Header.
func (h *Header) ObjectHeader() *Header { return h }

// Duration returns the object time stamp as a duration since the start of the
// measurement, honoring the time unit flags.
func (h *Header) Duration() time.Duration {
	if h.ObjectFlags&FlagTimeTenMics != 0 {
		return time.Duration(h.TimeStamp) * 10 * time.Microsecond
	}
	return time.Duration(h.TimeStamp)
}

// definedSize returns the size of the fields defined for a header version.
// Unknown versions define nothing past the base.
func definedSize(version uint16) int {
	switch version {
	case HeaderVersion1:
		return HeaderV1Size
	case HeaderVersion2:
		return HeaderV2Size
	default:
		return BaseSize
	}
}

// EncodedSize is the number of bytes h occupies when encoded.
func (h *Header) EncodedSize() int { return definedSize(h.HeaderVersion) + len(h.Extra) }

func readBase(r *byteslicereader.R) (b Base, err error) {
	if b.Signature, err = r.Uint32(); err != nil {
		return
	}
	if b.HeaderSize, err = r.Uint16(); err != nil {
		return
	}
	if b.HeaderVersion, err = r.Uint16(); err != nil {
		return
	}
	if b.ObjectSize, err = r.Uint32(); err != nil {
		return
	}
	var t uint32
	t, err = r.Uint32()
	b.ObjectType = Type(t)
	return
}

// DecodeBase decodes the 16-byte base header at the start of b. It does not
// validate any field.
func DecodeBase(b []byte) (Base, error) {
	r := byteslicereader.R{Buffer: b}
	base, err := readBase(&r)
	if err != nil {
		return base, &DecodeError{Offset: r.Pos(), Reason: "object header base", Err: err}
	}
	return base, nil
}

// Validate checks the structural invariants of the base header.
func (b *Base) Validate() error {
	switch {
	case b.Signature != Signature:
		return &DecodeError{Reason: "invalid object signature", Value: uint64(b.Signature)}
	case b.HeaderSize < BaseSize:
		return &DecodeError{Offset: 4, Reason: "header size smaller than header base", Value: uint64(b.HeaderSize)}
	case b.ObjectSize < uint32(b.HeaderSize):
		return &DecodeError{Offset: 8, Reason: "object size smaller than header size", Value: uint64(b.ObjectSize)}
	}
	return nil
}

func readV1(r *byteslicereader.R, h *Header) (err error) {
	if h.ObjectFlags, err = r.Uint32(); err != nil {
		return
	}
	if h.ClientIndex, err = r.Uint16(); err != nil {
		return
	}
	if h.ObjectVersion, err = r.Uint16(); err != nil {
		return
	}
	h.TimeStamp, err = r.Uint64()
	return
}

func readV2(r *byteslicereader.R, h *Header) (err error) {
	if h.ObjectFlags, err = r.Uint32(); err != nil {
		return
	}
	if h.TimeStampStatus, err = r.Uint8(); err != nil {
		return
	}
	if h.HeaderReserved, err = r.Uint8(); err != nil {
		return
	}
	if h.ObjectVersion, err = r.Uint16(); err != nil {
		return
	}
	if h.TimeStamp, err = r.Uint64(); err != nil {
		return
	}
	h.OriginalTimeStamp, err = r.Uint64()
	return
}

// DecodeHeader decodes a full object header from the start of b.
//
// b must hold at least HeaderSize bytes. A header version that is not
// understood is not an error here: only the base is decoded and the remaining
// header bytes are kept in Extra. Callers may check KnownVersion.
func DecodeHeader(b []byte) (Header, error) {
	var h Header
	base, err := DecodeBase(b)
	if err != nil {
		return h, err
	}
	if err := base.Validate(); err != nil {
		return h, err
	}
	h.Base = base

	if len(b) < int(h.HeaderSize) {
		return h, &DecodeError{Offset: len(b), Reason: "header extends past available bytes", Value: uint64(h.HeaderSize)}
	}
	defined := definedSize(h.HeaderVersion)
	if int(h.HeaderSize) < defined {
		return h, &DecodeError{Offset: 4, Reason: "header size too small for header version", Value: uint64(h.HeaderSize)}
	}

	r := byteslicereader.R{Buffer: b[:h.HeaderSize]}
	if err := r.Skip(BaseSize); err != nil {
		return h, &DecodeError{Offset: r.Pos(), Reason: "object header", Err: err}
	}
	switch h.HeaderVersion {
	case HeaderVersion1:
		err = readV1(&r, &h)
	case HeaderVersion2:
		err = readV2(&r, &h)
	}
	if err != nil {
		return h, &DecodeError{Offset: r.Pos(), Reason: "object header", Err: err}
	}
	if r.Remaining() > 0 {
		h.Extra = append([]byte(nil), r.Peek(r.Remaining())...)
	}
	return h, nil
}

// KnownVersion returns true if the header's version is one whose fields are
// understood.
func (h *Header) KnownVersion() bool {
	return h.HeaderVersion == HeaderVersion1 || h.HeaderVersion == HeaderVersion2
}

// Append appends the encoded header to b. The size and identity fields are
// written as they are; Encode finalizes them for objects.
func (h *Header) Append(b []byte) []byte {
	le := binary.LittleEndian
	b = le.AppendUint32(b, h.Signature)
	b = le.AppendUint16(b, h.HeaderSize)
	b = le.AppendUint16(b, h.HeaderVersion)
	b = le.AppendUint32(b, h.ObjectSize)
	b = le.AppendUint32(b, uint32(h.ObjectType))

	switch h.HeaderVersion {
	case HeaderVersion1:
		b = le.AppendUint32(b, h.ObjectFlags)
		b = le.AppendUint16(b, h.ClientIndex)
		b = le.AppendUint16(b, h.ObjectVersion)
		b = le.AppendUint64(b, h.TimeStamp)
	case HeaderVersion2:
		b = le.AppendUint32(b, h.ObjectFlags)
		b = append(b, h.TimeStampStatus, h.HeaderReserved)
		b = le.AppendUint16(b, h.ObjectVersion)
		b = le.AppendUint64(b, h.TimeStamp)
		b = le.AppendUint64(b, h.OriginalTimeStamp)
	}
	return append(b, h.Extra...)
}

// PaddedSize rounds an object size up to the 4-byte record alignment.
func PaddedSize(size uint32) uint64 { return (uint64(size) + 3) &^ 3 }
