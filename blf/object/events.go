// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package object

import (
	"encoding/binary"
	"math"

	"github.com/danjacques/goblf/support/byteslicereader"

	"github.com/pkg/errors"
)

var eventFamily = []registryEntry{
	{TypeAppTrigger, func() Object { return &AppTrigger{} }},
	{TypeEnvInteger, func() Object { return &EnvVariable{Kind: TypeEnvInteger} }},
	{TypeEnvDouble, func() Object { return &EnvVariable{Kind: TypeEnvDouble} }},
	{TypeEnvString, func() Object { return &EnvVariable{Kind: TypeEnvString} }},
	{TypeEnvData, func() Object { return &EnvVariable{Kind: TypeEnvData} }},
	{TypeAppText, func() Object { return &AppText{} }},
	{TypeSysVariable, func() Object { return &SystemVariable{} }},
	{TypeEventComment, func() Object { return &EventComment{} }},
	{TypeGlobalMarker, func() Object { return &GlobalMarker{} }},
	{TypeDataLostBegin, func() Object { return &DataLostBegin{} }},
	{TypeDataLostEnd, func() Object { return &DataLostEnd{} }},
}

// readString reads an n-byte string declared by the length field named field.
func readString(r *byteslicereader.R, field string, n uint32) (string, error) {
	v, err := r.Bytes(int(n))
	if err != nil {
		return "", lengthError(r, field, int(n))
	}
	return string(v), nil
}

// readBlob is readString for binary values.
func readBlob(r *byteslicereader.R, field string, n uint32) ([]byte, error) {
	v, err := r.Bytes(int(n))
	if err != nil {
		return nil, lengthError(r, field, int(n))
	}
	return v, nil
}

func checkLength(field string, n int) (uint32, error) {
	if uint64(n) > math.MaxUint32 {
		return 0, errors.Errorf("%s of %d bytes is too large", field, n)
	}
	return uint32(n), nil
}

// AppTriggerFields is the layout of an APP_TRIGGER record.
type AppTriggerFields struct {
	PreTriggerTime  uint64 `struc:",little"`
	PostTriggerTime uint64 `struc:",little"`
	Channel         uint16 `struc:",little"`
	Flags           uint16 `struc:",little"`
	AppSpecific2    uint32 `struc:",little"`
}

// AppTrigger marks a logging trigger.
type AppTrigger struct {
	Header
	AppTriggerFields
}

// Type implements Object.
func (*AppTrigger) Type() Type { return TypeAppTrigger }

func (o *AppTrigger) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.AppTriggerFields)
}

func (o *AppTrigger) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.AppTriggerFields)
}

// EnvVariable is an environment variable change. Kind selects which of the
// four environment variable record types it is, and how Data is interpreted.
type EnvVariable struct {
	Header

	Kind     Type
	Reserved uint64
	Name     string
	Data     []byte
}

// Type implements Object.
func (o *EnvVariable) Type() Type { return o.Kind }

// Int returns the value of an integer variable.
func (o *EnvVariable) Int() (int32, bool) {
	if o.Kind != TypeEnvInteger || len(o.Data) < 4 {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(o.Data)), true
}

// Float returns the value of a double variable.
func (o *EnvVariable) Float() (float64, bool) {
	if o.Kind != TypeEnvDouble || len(o.Data) < 8 {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(o.Data)), true
}

func (o *EnvVariable) decodeBody(r *byteslicereader.R) (err error) {
	var nameLen, dataLen uint32
	if nameLen, err = r.Uint32(); err != nil {
		return
	}
	if dataLen, err = r.Uint32(); err != nil {
		return
	}
	if o.Reserved, err = r.Uint64(); err != nil {
		return
	}
	if o.Name, err = readString(r, "name", nameLen); err != nil {
		return
	}
	o.Data, err = readBlob(r, "data", dataLen)
	return
}

func (o *EnvVariable) appendBody(b []byte) ([]byte, error) {
	switch o.Kind {
	case TypeEnvInteger, TypeEnvDouble, TypeEnvString, TypeEnvData:
	default:
		return b, errors.Errorf("%s is not an environment variable type", o.Kind)
	}
	nameLen, err := checkLength("name", len(o.Name))
	if err != nil {
		return b, err
	}
	dataLen, err := checkLength("data", len(o.Data))
	if err != nil {
		return b, err
	}

	le := binary.LittleEndian
	b = le.AppendUint32(b, nameLen)
	b = le.AppendUint32(b, dataLen)
	b = le.AppendUint64(b, o.Reserved)
	b = append(b, o.Name...)
	return append(b, o.Data...), nil
}

// AppText is free text attached by the logging application: comments, channel
// metadata and database references.
type AppText struct {
	Header

	Source    uint32
	Reserved1 uint32
	Reserved2 uint32
	Text      string
}

// AppText sources.
const (
	AppTextSourceComment  uint32 = 0
	AppTextSourceDBChan   uint32 = 1
	AppTextSourceMetaData uint32 = 2
)

// Type implements Object.
func (*AppText) Type() Type { return TypeAppText }

func (o *AppText) decodeBody(r *byteslicereader.R) (err error) {
	if o.Source, err = r.Uint32(); err != nil {
		return
	}
	if o.Reserved1, err = r.Uint32(); err != nil {
		return
	}
	var n uint32
	if n, err = r.Uint32(); err != nil {
		return
	}
	if o.Reserved2, err = r.Uint32(); err != nil {
		return
	}
	o.Text, err = readString(r, "text", n)
	return
}

func (o *AppText) appendBody(b []byte) ([]byte, error) {
	n, err := checkLength("text", len(o.Text))
	if err != nil {
		return b, err
	}
	le := binary.LittleEndian
	b = le.AppendUint32(b, o.Source)
	b = le.AppendUint32(b, o.Reserved1)
	b = le.AppendUint32(b, n)
	b = le.AppendUint32(b, o.Reserved2)
	return append(b, o.Text...), nil
}

// System variable value types.
const (
	SysVarDouble      uint32 = 1
	SysVarLong        uint32 = 2
	SysVarString      uint32 = 3
	SysVarDoubleArray uint32 = 4
	SysVarLongArray   uint32 = 5
	SysVarLongLong    uint32 = 6
	SysVarByteArray   uint32 = 7
)

// SystemVariable is a system variable change (SYS_VARIABLE).
type SystemVariable struct {
	Header

	VarType        uint32
	Representation uint32
	Reserved1      uint64
	Reserved2      uint64
	Name           string
	Data           []byte
}

// Type implements Object.
func (*SystemVariable) Type() Type { return TypeSysVariable }

func (o *SystemVariable) decodeBody(r *byteslicereader.R) (err error) {
	if o.VarType, err = r.Uint32(); err != nil {
		return
	}
	if o.Representation, err = r.Uint32(); err != nil {
		return
	}
	if o.Reserved1, err = r.Uint64(); err != nil {
		return
	}
	var nameLen, dataLen uint32
	if nameLen, err = r.Uint32(); err != nil {
		return
	}
	if dataLen, err = r.Uint32(); err != nil {
		return
	}
	if o.Reserved2, err = r.Uint64(); err != nil {
		return
	}
	if o.Name, err = readString(r, "name", nameLen); err != nil {
		return
	}
	o.Data, err = readBlob(r, "data", dataLen)
	return
}

func (o *SystemVariable) appendBody(b []byte) ([]byte, error) {
	nameLen, err := checkLength("name", len(o.Name))
	if err != nil {
		return b, err
	}
	dataLen, err := checkLength("data", len(o.Data))
	if err != nil {
		return b, err
	}

	le := binary.LittleEndian
	b = le.AppendUint32(b, o.VarType)
	b = le.AppendUint32(b, o.Representation)
	b = le.AppendUint64(b, o.Reserved1)
	b = le.AppendUint32(b, nameLen)
	b = le.AppendUint32(b, dataLen)
	b = le.AppendUint64(b, o.Reserved2)
	b = append(b, o.Name...)
	return append(b, o.Data...), nil
}

// EventComment is a comment attached to an event of another type.
type EventComment struct {
	Header

	CommentedEventType Type
	Reserved           uint64
	Text               string
}

// Type implements Object.
func (*EventComment) Type() Type { return TypeEventComment }

func (o *EventComment) decodeBody(r *byteslicereader.R) (err error) {
	var t, n uint32
	if t, err = r.Uint32(); err != nil {
		return
	}
	o.CommentedEventType = Type(t)
	if n, err = r.Uint32(); err != nil {
		return
	}
	if o.Reserved, err = r.Uint64(); err != nil {
		return
	}
	o.Text, err = readString(r, "text", n)
	return
}

func (o *EventComment) appendBody(b []byte) ([]byte, error) {
	n, err := checkLength("text", len(o.Text))
	if err != nil {
		return b, err
	}
	le := binary.LittleEndian
	b = le.AppendUint32(b, uint32(o.CommentedEventType))
	b = le.AppendUint32(b, n)
	b = le.AppendUint64(b, o.Reserved)
	return append(b, o.Text...), nil
}

// GlobalMarker is a marker placed on the measurement timeline.
type GlobalMarker struct {
	Header

	CommentedEventType Type
	ForegroundColor    uint32
	BackgroundColor    uint32
	Relocatable        uint8
	Reserved1          uint8
	Reserved2          uint16
	Reserved3          uint32
	Reserved4          uint64
	GroupName          string
	MarkerName         string
	Description        string
}

// Type implements Object.
func (*GlobalMarker) Type() Type { return TypeGlobalMarker }

func (o *GlobalMarker) decodeBody(r *byteslicereader.R) (err error) {
	var t uint32
	if t, err = r.Uint32(); err != nil {
		return
	}
	o.CommentedEventType = Type(t)
	if o.ForegroundColor, err = r.Uint32(); err != nil {
		return
	}
	if o.BackgroundColor, err = r.Uint32(); err != nil {
		return
	}
	if o.Relocatable, err = r.Uint8(); err != nil {
		return
	}
	if o.Reserved1, err = r.Uint8(); err != nil {
		return
	}
	if o.Reserved2, err = r.Uint16(); err != nil {
		return
	}
	var groupLen, markerLen, descLen uint32
	for _, v := range []*uint32{&groupLen, &markerLen, &descLen, &o.Reserved3} {
		if *v, err = r.Uint32(); err != nil {
			return
		}
	}
	if o.Reserved4, err = r.Uint64(); err != nil {
		return
	}
	if o.GroupName, err = readString(r, "group_name", groupLen); err != nil {
		return
	}
	if o.MarkerName, err = readString(r, "marker_name", markerLen); err != nil {
		return
	}
	o.Description, err = readString(r, "description", descLen)
	return
}

func (o *GlobalMarker) appendBody(b []byte) ([]byte, error) {
	var lens [3]uint32
	for i, s := range []string{o.GroupName, o.MarkerName, o.Description} {
		n, err := checkLength("marker text", len(s))
		if err != nil {
			return b, err
		}
		lens[i] = n
	}

	le := binary.LittleEndian
	b = le.AppendUint32(b, uint32(o.CommentedEventType))
	b = le.AppendUint32(b, o.ForegroundColor)
	b = le.AppendUint32(b, o.BackgroundColor)
	b = append(b, o.Relocatable, o.Reserved1)
	b = le.AppendUint16(b, o.Reserved2)
	for _, n := range lens {
		b = le.AppendUint32(b, n)
	}
	b = le.AppendUint32(b, o.Reserved3)
	b = le.AppendUint64(b, o.Reserved4)
	b = append(b, o.GroupName...)
	b = append(b, o.MarkerName...)
	return append(b, o.Description...), nil
}

// DataLostBeginFields is the layout of a DATA_LOST_BEGIN record.
type DataLostBeginFields struct {
	QueueID uint32 `struc:",little"`
}

// DataLostBegin marks the point where the logger started dropping events.
type DataLostBegin struct {
	Header
	DataLostBeginFields
}

// Type implements Object.
func (*DataLostBegin) Type() Type { return TypeDataLostBegin }

func (o *DataLostBegin) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.DataLostBeginFields)
}

func (o *DataLostBegin) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.DataLostBeginFields)
}

// DataLostEndFields is the layout of a DATA_LOST_END record.
type DataLostEndFields struct {
	QueueID                  uint32 `struc:",little"`
	FirstObjectLostTimeStamp uint64 `struc:",little"`
	NumberOfLostEvents       uint32 `struc:",little"`
}

// DataLostEnd reports how many events were dropped since the matching
// DataLostBegin.
type DataLostEnd struct {
	Header
	DataLostEndFields
}

// Type implements Object.
func (*DataLostEnd) Type() Type { return TypeDataLostEnd }

func (o *DataLostEnd) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.DataLostEndFields)
}

func (o *DataLostEnd) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.DataLostEndFields)
}
