// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package object defines the records ("objects") stored in a BLF log: their
// headers, the type code table, and a decoder and encoder for every record
// family this module understands.
//
// Every record decodes to exactly one Object. Types without a dedicated
// decoder, and records that fail to decode, are delivered as *Raw so that no
// bytes are lost.
package object

import (
	"bytes"
	"io"
	"math"
	"sort"

	"github.com/danjacques/goblf/support/byteslicereader"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Object is a decoded BLF record.
//
// The set of Object implementations is closed: only types in this package can
// satisfy it. Use a type switch to access family-specific fields.
type Object interface {
	// Type returns the object's type code.
	Type() Type
	// ObjectHeader returns the object's header. Modifying it modifies the
	// object.
	ObjectHeader() *Header

	decodeBody(r *byteslicereader.R) error
	appendBody(b []byte) ([]byte, error)
}

// validator is implemented by objects whose fields can be cross-checked after
// decoding.
type validator interface {
	validate() []error
}

// Raw is an object whose type is not understood, or whose payload could not
// be decoded. Payload holds the record's bytes following the header,
// untouched.
type Raw struct {
	Header

	Payload []byte
}

// Type implements Object.
func (o *Raw) Type() Type { return o.ObjectType }

func (o *Raw) decodeBody(r *byteslicereader.R) (err error) {
	o.Payload, err = r.Bytes(r.Remaining())
	return
}

func (o *Raw) appendBody(b []byte) ([]byte, error) { return append(b, o.Payload...), nil }

func newRaw(h Header, body []byte) *Raw {
	h.Trailing = nil
	return &Raw{
		Header:  h,
		Payload: append([]byte(nil), body...),
	}
}

// Registry maps object type codes to their decoders.
//
// A Registry is immutable once built. The package's registry is available
// through DefaultRegistry and is shared by reference.
type Registry struct {
	ctors map[Type]func() Object
}

type registryEntry struct {
	t    Type
	ctor func() Object
}

func newRegistry(families ...[]registryEntry) *Registry {
	reg := Registry{
		ctors: make(map[Type]func() Object),
	}
	for _, family := range families {
		for _, e := range family {
			if _, ok := reg.ctors[e.t]; ok {
				panic(errors.Errorf("duplicate registration for %s", e.t))
			}
			reg.ctors[e.t] = e.ctor
		}
	}
	return &reg
}

var defaultRegistry = newRegistry(
	canFamily,
	linFamily,
	flexRayFamily,
	mostFamily,
	ethernetFamily,
	eventFamily,
)

// DefaultRegistry returns the registry holding every object type this package
// can decode.
func DefaultRegistry() *Registry { return defaultRegistry }

// Known returns true if t has a dedicated decoder.
func (reg *Registry) Known(t Type) bool {
	_, ok := reg.ctors[t]
	return ok
}

// Types returns every registered type code, in ascending order.
func (reg *Registry) Types() []Type {
	types := make([]Type, 0, len(reg.ctors))
	for t := range reg.ctors {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// New returns a zero-valued object for t. Unregistered types produce a *Raw.
func (reg *Registry) New(t Type) Object {
	if ctor, ok := reg.ctors[t]; ok {
		return ctor()
	}
	return &Raw{}
}

// Decode decodes one record from b, which must begin with the record's header
// and hold at least ObjectSize bytes. Padding after ObjectSize is ignored.
//
// Problems confined to the record are returned as warnings alongside the
// decoded object: a *DecodeError (with the record delivered as *Raw) or a
// *FieldValidationWarning. An error is returned only when the header itself is
// unusable, in which case no object is produced.
//
// Decoded objects never reference b.
func Decode(reg *Registry, b []byte) (Object, []error, error) {
	if reg == nil {
		reg = defaultRegistry
	}

	h, err := DecodeHeader(b)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(b)) < uint64(h.ObjectSize) {
		return nil, nil, &DecodeError{
			Type:   h.ObjectType,
			Offset: len(b),
			Reason: "object extends past available bytes",
			Value:  uint64(h.ObjectSize),
		}
	}
	body := b[h.HeaderSize:h.ObjectSize]

	if !h.KnownVersion() {
		return newRaw(h, body), []error{&DecodeError{
			Type:   h.ObjectType,
			Offset: 6,
			Reason: "unsupported header version",
			Value:  uint64(h.HeaderVersion),
		}}, nil
	}

	o := reg.New(h.ObjectType)
	*o.ObjectHeader() = h

	r := byteslicereader.R{Buffer: body, AlwaysCopy: true}
	if err := o.decodeBody(&r); err != nil {
		return newRaw(h, body), []error{asDecodeError(&h, r.Pos(), err)}, nil
	}

	var warnings []error
	if n := r.Remaining(); n > 0 {
		oh := o.ObjectHeader()
		oh.Trailing = r.Peek(n)
		warnings = append(warnings, &FieldValidationWarning{
			Type:     h.ObjectType,
			Field:    "object_size",
			Declared: int64(h.ObjectSize),
			Expected: int64(h.ObjectSize) - int64(n),
		})
	}
	if v, ok := o.(validator); ok {
		warnings = append(warnings, v.validate()...)
	}
	return o, warnings, nil
}

func asDecodeError(h *Header, pos int, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		de.Type = h.ObjectType
		de.Offset += int(h.HeaderSize)
		return de
	}

	reason := "payload field"
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		reason = "payload shorter than its fields"
	}
	return &DecodeError{
		Type:   h.ObjectType,
		Offset: int(h.HeaderSize) + pos,
		Reason: reason,
		Err:    err,
	}
}

// Encode returns the encoded form of o, including its trailing padding.
//
// The header's Signature, HeaderSize, ObjectSize and ObjectType fields are
// recomputed and stored back into o. A zero HeaderVersion is encoded as
// version 1.
func Encode(o Object) ([]byte, error) { return AppendEncoded(nil, o) }

// AppendEncoded appends the encoded form of o to b. See Encode.
func AppendEncoded(b []byte, o Object) ([]byte, error) {
	h := o.ObjectHeader()
	if h.HeaderVersion == 0 {
		h.HeaderVersion = HeaderVersion1
	}

	start := len(b)
	hs := h.EncodedSize()
	if hs > math.MaxUint16 {
		return b, errors.Errorf("header size %d is too large", hs)
	}
	b = append(b, make([]byte, hs)...)

	b, err := o.appendBody(b)
	if err != nil {
		return b[:start], errors.Wrapf(err, "encoding %s", o.Type())
	}
	b = append(b, h.Trailing...)

	size := len(b) - start
	if uint64(size) > math.MaxUint32 {
		return b[:start], errors.Errorf("object size %d is too large", size)
	}
	h.Signature = Signature
	h.HeaderSize = uint16(hs)
	h.ObjectSize = uint32(size)
	h.ObjectType = o.Type()

	// Overwrite the placeholder in place.
	h.Append(b[start:start])

	for i := uint64(size); i < PaddedSize(uint32(size)); i++ {
		b = append(b, 0)
	}
	return b, nil
}

// unpackFields decodes a fixed little-endian layout into v.
func unpackFields(r *byteslicereader.R, v interface{}) error { return struc.Unpack(r, v) }

// packFields appends the fixed layout of v to b.
func packFields(b []byte, v interface{}) ([]byte, error) {
	buf := bytes.NewBuffer(b)
	if err := struc.Pack(buf, v); err != nil {
		return b, err
	}
	return buf.Bytes(), nil
}

// lengthError reports an embedded length field that runs past the payload.
func lengthError(r *byteslicereader.R, field string, n int) error {
	return &DecodeError{
		Offset: r.Pos(),
		Reason: field + " length exceeds payload",
		Value:  uint64(n),
	}
}
