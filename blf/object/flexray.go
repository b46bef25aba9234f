// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package object

import (
	"math"

	"github.com/danjacques/goblf/support/byteslicereader"

	"github.com/pkg/errors"
)

var flexRayFamily = []registryEntry{
	{TypeFlexRayData, func() Object { return &FlexRayData{} }},
	{TypeFlexRaySync, func() Object { return &FlexRaySync{} }},
	{TypeFlexRayCycle, func() Object { return &FlexRayV6StartCycleEvent{} }},
	{TypeFlexRayMessage, func() Object { return &FlexRayV6Message{} }},
	{TypeFlexRayStatus, func() Object { return &FlexRayStatusEvent{} }},
	{TypeFRError, func() Object { return &FlexRayVFrError{} }},
	{TypeFRStatus, func() Object { return &FlexRayVFrStatus{} }},
	{TypeFRStartCycle, func() Object { return &FlexRayVFrStartCycle{} }},
	{TypeFRRcvMessage, func() Object { return &FlexRayVFrReceiveMsg{} }},
	{TypeFRRcvMessageEx, func() Object { return &FlexRayVFrReceiveMsgEx{} }},
}

// FlexRayDataFields is the layout of a FLEXRAY_DATA record.
type FlexRayDataFields struct {
	Channel   uint16 `struc:",little"`
	Mux       uint8
	Len       uint8
	MessageID uint16 `struc:",little"`
	CRC       uint16 `struc:",little"`
	Dir       uint8
	Reserved1 uint8
	Reserved2 uint16 `struc:",little"`
	Data      [12]byte
}

// FlexRayData is a legacy FlexRay data frame.
type FlexRayData struct {
	Header
	FlexRayDataFields
}

// Type implements Object.
func (*FlexRayData) Type() Type { return TypeFlexRayData }

// Payload returns the valid payload bytes.
func (o *FlexRayData) Payload() []byte {
	n := int(o.Len)
	if n > len(o.Data) {
		n = len(o.Data)
	}
	return o.Data[:n]
}

func (o *FlexRayData) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.FlexRayDataFields)
}

func (o *FlexRayData) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.FlexRayDataFields)
}

// FlexRaySyncFields is the layout of a FLEXRAY_SYNC record.
type FlexRaySyncFields struct {
	Channel   uint16 `struc:",little"`
	Mux       uint8
	Len       uint8
	MessageID uint16 `struc:",little"`
	CRC       uint16 `struc:",little"`
	Dir       uint8
	Reserved1 uint8
	Reserved2 uint16 `struc:",little"`
	Data      [11]byte
	Cycle     uint8
}

// FlexRaySync is a legacy FlexRay sync frame.
type FlexRaySync struct {
	Header
	FlexRaySyncFields
}

// Type implements Object.
func (*FlexRaySync) Type() Type { return TypeFlexRaySync }

func (o *FlexRaySync) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.FlexRaySyncFields)
}

func (o *FlexRaySync) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.FlexRaySyncFields)
}

// FlexRayV6StartCycleEventFields is the layout of a FLEXRAY_CYCLE record.
//
// ClientIdx is the FlexRay controller's client index, distinct from the
// object header's ClientIndex.
type FlexRayV6StartCycleEventFields struct {
	Channel          uint16 `struc:",little"`
	Dir              uint8
	LowTime          uint8
	FPGATick         uint32 `struc:",little"`
	FPGATickOverflow uint32 `struc:",little"`
	ClientIdx        uint32 `struc:",little"`
	ClusterTime      uint32 `struc:",little"`
	Data             [2]byte
	Reserved         uint16 `struc:",little"`
}

// FlexRayV6StartCycleEvent marks the start of a FlexRay cycle.
type FlexRayV6StartCycleEvent struct {
	Header
	FlexRayV6StartCycleEventFields
}

// Type implements Object.
func (*FlexRayV6StartCycleEvent) Type() Type { return TypeFlexRayCycle }

func (o *FlexRayV6StartCycleEvent) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.FlexRayV6StartCycleEventFields)
}

func (o *FlexRayV6StartCycleEvent) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.FlexRayV6StartCycleEventFields)
}

// FlexRayV6MessageFields is the layout of a FLEXRAY_MESSAGE record.
type FlexRayV6MessageFields struct {
	Channel          uint16 `struc:",little"`
	Dir              uint8
	LowTime          uint8
	FPGATick         uint32 `struc:",little"`
	FPGATickOverflow uint32 `struc:",little"`
	ClientIdx        uint32 `struc:",little"`
	ClusterTime      uint32 `struc:",little"`
	FrameID          uint16 `struc:",little"`
	HeaderCRC        uint16 `struc:",little"`
	FrameState       uint16 `struc:",little"`
	Length           uint8
	Cycle            uint8
	HeaderBitMask    uint8
	Reserved1        uint8
	Reserved2        uint16 `struc:",little"`
	Data             [64]byte
}

// FlexRayV6Message is a FlexRay frame logged by a V6 interface.
type FlexRayV6Message struct {
	Header
	FlexRayV6MessageFields
}

// Type implements Object.
func (*FlexRayV6Message) Type() Type { return TypeFlexRayMessage }

// Payload returns the valid payload bytes.
func (o *FlexRayV6Message) Payload() []byte {
	n := int(o.Length)
	if n > len(o.Data) {
		n = len(o.Data)
	}
	return o.Data[:n]
}

func (o *FlexRayV6Message) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.FlexRayV6MessageFields)
}

func (o *FlexRayV6Message) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.FlexRayV6MessageFields)
}

// FlexRayStatusEventFields is the layout of a FLEXRAY_STATUS record.
type FlexRayStatusEventFields struct {
	Channel    uint16     `struc:",little"`
	Version    uint16     `struc:",little"`
	StatusType uint16     `struc:",little"`
	InfoMask1  uint16     `struc:",little"`
	InfoMask2  uint16     `struc:",little"`
	InfoMask3  uint16     `struc:",little"`
	Reserved   [18]uint16 `struc:",little"`
}

// FlexRayStatusEvent reports a controller status change.
type FlexRayStatusEvent struct {
	Header
	FlexRayStatusEventFields
}

// Type implements Object.
func (*FlexRayStatusEvent) Type() Type { return TypeFlexRayStatus }

func (o *FlexRayStatusEvent) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.FlexRayStatusEventFields)
}

func (o *FlexRayStatusEvent) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.FlexRayStatusEventFields)
}

// FlexRayVFrErrorFields is the layout of a FR_ERROR record.
type FlexRayVFrErrorFields struct {
	Channel     uint16    `struc:",little"`
	Version     uint16    `struc:",little"`
	ChannelMask uint16    `struc:",little"`
	Cycle       uint8
	Reserved1   uint8
	ClientIdx   uint32    `struc:",little"`
	ClusterNo   uint32    `struc:",little"`
	Tag         uint32    `struc:",little"`
	Data        [4]uint32 `struc:",little"`
	Reserved2   uint32    `struc:",little"`
}

// FlexRayVFrError reports a FlexRay communication controller error.
type FlexRayVFrError struct {
	Header
	FlexRayVFrErrorFields
}

// Type implements Object.
func (*FlexRayVFrError) Type() Type { return TypeFRError }

func (o *FlexRayVFrError) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.FlexRayVFrErrorFields)
}

func (o *FlexRayVFrError) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.FlexRayVFrErrorFields)
}

// FlexRayVFrStatusFields is the layout of a FR_STATUS record.
type FlexRayVFrStatusFields struct {
	Channel     uint16     `struc:",little"`
	Version     uint16     `struc:",little"`
	ChannelMask uint16     `struc:",little"`
	Cycle       uint8
	Reserved1   uint8
	ClientIdx   uint32     `struc:",little"`
	ClusterNo   uint32     `struc:",little"`
	WUS         uint32     `struc:",little"`
	CCSyncState uint32     `struc:",little"`
	Tag         uint32     `struc:",little"`
	Data        [2]uint32  `struc:",little"`
	Reserved2   [18]uint16 `struc:",little"`
}

// FlexRayVFrStatus reports the controller's POC and sync state.
type FlexRayVFrStatus struct {
	Header
	FlexRayVFrStatusFields
}

// Type implements Object.
func (*FlexRayVFrStatus) Type() Type { return TypeFRStatus }

func (o *FlexRayVFrStatus) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.FlexRayVFrStatusFields)
}

func (o *FlexRayVFrStatus) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.FlexRayVFrStatusFields)
}

// FlexRayVFrStartCycleFields is the layout of a FR_STARTCYCLE record.
type FlexRayVFrStartCycleFields struct {
	Channel     uint16    `struc:",little"`
	Version     uint16    `struc:",little"`
	ChannelMask uint16    `struc:",little"`
	Dir         uint8
	Cycle       uint8
	ClientIdx   uint32    `struc:",little"`
	ClusterNo   uint32    `struc:",little"`
	NMSize      uint16    `struc:",little"`
	DataBytes   [12]byte
	Reserved1   uint16    `struc:",little"`
	Tag         uint32    `struc:",little"`
	Data        [5]uint32 `struc:",little"`
	Reserved2   uint64    `struc:",little"`
}

// FlexRayVFrStartCycle marks the start of a cycle, carrying the network
// management vector.
type FlexRayVFrStartCycle struct {
	Header
	FlexRayVFrStartCycleFields
}

// Type implements Object.
func (*FlexRayVFrStartCycle) Type() Type { return TypeFRStartCycle }

func (o *FlexRayVFrStartCycle) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.FlexRayVFrStartCycleFields)
}

func (o *FlexRayVFrStartCycle) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.FlexRayVFrStartCycleFields)
}

// FlexRayVFrReceiveMsgFields is the layout of a FR_RCVMESSAGE record.
type FlexRayVFrReceiveMsgFields struct {
	Channel      uint16 `struc:",little"`
	Version      uint16 `struc:",little"`
	ChannelMask  uint8
	Dir          uint8
	Reserved1    uint16 `struc:",little"`
	ClientIdx    uint32 `struc:",little"`
	ClusterNo    uint32 `struc:",little"`
	FrameID      uint16 `struc:",little"`
	HeaderCRC1   uint16 `struc:",little"`
	HeaderCRC2   uint16 `struc:",little"`
	ByteCount    uint16 `struc:",little"`
	DataCount    uint16 `struc:",little"`
	Cycle        uint8
	Reserved2    uint8
	Tag          uint32 `struc:",little"`
	Data         uint32 `struc:",little"`
	FrameFlags   uint32 `struc:",little"`
	AppParameter uint32 `struc:",little"`
	DataBytes    [254]byte
	Reserved3    uint16 `struc:",little"`
	Reserved4    uint32 `struc:",little"`
}

// FlexRayVFrReceiveMsg is a FlexRay frame received by a VN interface.
type FlexRayVFrReceiveMsg struct {
	Header
	FlexRayVFrReceiveMsgFields
}

// Type implements Object.
func (*FlexRayVFrReceiveMsg) Type() Type { return TypeFRRcvMessage }

// Payload returns the valid payload bytes.
func (o *FlexRayVFrReceiveMsg) Payload() []byte {
	n := int(o.ByteCount)
	if n > len(o.DataBytes) {
		n = len(o.DataBytes)
	}
	return o.DataBytes[:n]
}

func (o *FlexRayVFrReceiveMsg) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.FlexRayVFrReceiveMsgFields)
}

func (o *FlexRayVFrReceiveMsg) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.FlexRayVFrReceiveMsgFields)
}

// FlexRayVFrReceiveMsgExFields is the fixed layout of a FR_RCVMESSAGE_EX
// record. DataCount is the number of payload bytes that follow it.
type FlexRayVFrReceiveMsgExFields struct {
	Channel       uint16     `struc:",little"`
	Version       uint16     `struc:",little"`
	ChannelMask   uint16     `struc:",little"`
	Dir           uint16     `struc:",little"`
	ClientIdx     uint32     `struc:",little"`
	ClusterNo     uint32     `struc:",little"`
	FrameID       uint16     `struc:",little"`
	HeaderCRC1    uint16     `struc:",little"`
	HeaderCRC2    uint16     `struc:",little"`
	ByteCount     uint16     `struc:",little"`
	DataCount     uint16     `struc:",little"`
	Cycle         uint16     `struc:",little"`
	Tag           uint32     `struc:",little"`
	Data          uint32     `struc:",little"`
	FrameFlags    uint32     `struc:",little"`
	AppParameter  uint32     `struc:",little"`
	FrameCRC      uint32     `struc:",little"`
	FrameLengthNS uint32     `struc:",little"`
	FrameID1      uint16     `struc:",little"`
	PDUOffset     uint16     `struc:",little"`
	BLFLogMask    uint16     `struc:",little"`
	Reserved1     [13]uint16 `struc:",little"`
}

// FlexRayVFrReceiveMsgEx is a FlexRay frame or PDU with a variable-length
// payload (FR_RCVMESSAGE_EX).
//
// DataCount is derived from DataBytes when encoding. Reserved2 holds the
// block that pads the record after the payload.
type FlexRayVFrReceiveMsgEx struct {
	Header
	FlexRayVFrReceiveMsgExFields

	DataBytes []byte
	Reserved2 []byte
}

// Type implements Object.
func (*FlexRayVFrReceiveMsgEx) Type() Type { return TypeFRRcvMessageEx }

// Payload returns the valid payload bytes.
func (o *FlexRayVFrReceiveMsgEx) Payload() []byte {
	n := int(o.ByteCount)
	if n > len(o.DataBytes) {
		n = len(o.DataBytes)
	}
	return o.DataBytes[:n]
}

func (o *FlexRayVFrReceiveMsgEx) decodeBody(r *byteslicereader.R) (err error) {
	if err = unpackFields(r, &o.FlexRayVFrReceiveMsgExFields); err != nil {
		return
	}
	n := int(o.DataCount)
	if o.DataBytes, err = r.Bytes(n); err != nil {
		return lengthError(r, "data", n)
	}
	if r.Remaining() > 0 {
		o.Reserved2, err = r.Bytes(r.Remaining())
	}
	return
}

func (o *FlexRayVFrReceiveMsgEx) appendBody(b []byte) ([]byte, error) {
	if len(o.DataBytes) > math.MaxUint16 {
		return b, errors.Errorf("payload of %d bytes is too large", len(o.DataBytes))
	}

	fields := o.FlexRayVFrReceiveMsgExFields
	fields.DataCount = uint16(len(o.DataBytes))
	b, err := packFields(b, &fields)
	if err != nil {
		return b, err
	}
	b = append(b, o.DataBytes...)
	return append(b, o.Reserved2...), nil
}
