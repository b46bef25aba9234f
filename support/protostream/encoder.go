// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package protostream reads and writes streams of varint-size-prefixed
// protobuf messages.
package protostream

import (
	"io"

	"github.com/golang/protobuf/proto"
)

// Encoder encodes a protobuf message stream to an io.Writer.
//
// An Encoder reuses its internal buffer between messages, and is not safe for
// concurrent use.
type Encoder struct {
	buf *proto.Buffer
}

// Write writes pb to w, prefixed by its encoded size. It returns the number
// of bytes written.
func (e *Encoder) Write(w io.Writer, pb proto.Message) (int, error) {
	if e.buf == nil {
		e.buf = proto.NewBuffer(nil)
	} else {
		e.buf.Reset()
	}

	// Encode the size prefix, as a varint.
	if err := e.buf.EncodeVarint(uint64(proto.Size(pb))); err != nil {
		return 0, err
	}

	// Encode the protobuf message.
	if err := e.buf.Marshal(pb); err != nil {
		return 0, err
	}

	return w.Write(e.buf.Bytes())
}
