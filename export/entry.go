// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package export

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/danjacques/goblf/blf"
	"github.com/danjacques/goblf/blf/frame"
	"github.com/danjacques/goblf/blf/object"
	"github.com/danjacques/goblf/support/fmtutil"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

// Entry is the exported form of a decoded record.
type Entry struct {
	Index         int64
	Type          string
	Code          uint32
	Timestamp     time.Duration
	HeaderVersion uint16
	Flags         uint32

	// Frame fields, set if the record carries a bus frame.
	Bus     string
	Channel uint16
	ID      uint32
	Tx      bool
	Payload []byte

	// Message is the message name the database defines for the frame.
	Message string

	// Text is the text of annotation records; Name is the variable name of
	// environment and system variables.
	Text string
	Name string

	Warnings []string
}

// MakeEntry builds the Entry for rec. If db is not nil, frames are annotated
// with their message names.
func MakeEntry(rec *blf.Record, db frame.Database) *Entry {
	o := rec.Object
	h := o.ObjectHeader()
	e := Entry{
		Index:         rec.Index,
		Type:          o.Type().String(),
		Code:          uint32(o.Type()),
		Timestamp:     h.Duration(),
		HeaderVersion: h.HeaderVersion,
		Flags:         h.ObjectFlags,
	}

	if fr, ok := frame.Of(o); ok {
		e.Bus = fr.Bus().String()
		e.Channel = fr.Channel()
		e.ID = fr.ID()
		e.Tx = fr.IsTx()
		e.Payload = fr.Payload()
		if db != nil {
			e.Message, _ = db.Lookup(fr.Channel(), fr.ID())
		}
	}

	switch t := o.(type) {
	case *object.AppText:
		e.Text = t.Text
	case *object.EventComment:
		e.Text = t.Text
	case *object.GlobalMarker:
		e.Text = t.MarkerName
	case *object.EnvVariable:
		e.Name = t.Name
	case *object.SystemVariable:
		e.Name = t.Name
	}

	for _, w := range rec.Warnings {
		e.Warnings = append(e.Warnings, w.Error())
	}
	return &e
}

// Struct returns e as a protobuf Struct. Empty fields are omitted.
func (e *Entry) Struct() (*structpb.Struct, error) {
	m := map[string]interface{}{
		"index":          e.Index,
		"type":           e.Type,
		"code":           e.Code,
		"timestamp_ns":   int64(e.Timestamp),
		"header_version": uint32(e.HeaderVersion),
		"flags":          e.Flags,
	}
	if e.Bus != "" {
		m["bus"] = e.Bus
		m["channel"] = uint32(e.Channel)
		m["id"] = e.ID
		m["tx"] = e.Tx
		m["payload"] = fmtutil.HexBytes(e.Payload).String()
	}
	for k, v := range map[string]string{"message": e.Message, "text": e.Text, "name": e.Name} {
		if v != "" {
			m[k] = v
		}
	}
	if len(e.Warnings) > 0 {
		ws := make([]interface{}, len(e.Warnings))
		for i, w := range e.Warnings {
			ws[i] = w
		}
		m["warnings"] = ws
	}

	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.Wrap(err, "building record struct")
	}
	return s, nil
}

// EntryFromStruct parses an Entry from its Struct form.
func EntryFromStruct(s *structpb.Struct) (*Entry, error) {
	f := s.GetFields()
	num := func(k string) float64 { return f[k].GetNumberValue() }
	str := func(k string) string { return f[k].GetStringValue() }

	if _, ok := f["type"]; !ok {
		return nil, errors.New("record has no type")
	}
	e := Entry{
		Index:         int64(num("index")),
		Type:          str("type"),
		Code:          uint32(num("code")),
		Timestamp:     time.Duration(num("timestamp_ns")),
		HeaderVersion: uint16(num("header_version")),
		Flags:         uint32(num("flags")),
		Bus:           str("bus"),
		Channel:       uint16(num("channel")),
		ID:            uint32(num("id")),
		Tx:            f["tx"].GetBoolValue(),
		Message:       str("message"),
		Text:          str("text"),
		Name:          str("name"),
	}

	if p := str("payload"); p != "" {
		b, err := hex.DecodeString(strings.ReplaceAll(p, " ", ""))
		if err != nil {
			return nil, errors.Wrap(err, "decoding payload")
		}
		e.Payload = b
	}
	for _, v := range f["warnings"].GetListValue().GetValues() {
		e.Warnings = append(e.Warnings, v.GetStringValue())
	}
	return &e, nil
}
