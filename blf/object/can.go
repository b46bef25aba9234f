// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package object

import (
	"encoding/binary"

	"github.com/danjacques/goblf/support/byteslicereader"
)

var canFamily = []registryEntry{
	{TypeCANMessage, func() Object { return &CANMessage{} }},
	{TypeCANMessage2, func() Object { return &CANMessage2{} }},
	{TypeCANError, func() Object { return &CANErrorFrame{} }},
	{TypeCANOverload, func() Object { return &CANOverloadFrame{} }},
	{TypeCANStatistic, func() Object { return &CANDriverStatistic{} }},
	{TypeCANDriverError, func() Object { return &CANDriverError{} }},
	{TypeCANFDMessage, func() Object { return &CANFDMessage{} }},
	{TypeCANFDMessage64, func() Object { return &CANFDMessage64{} }},
}

// Flags of the CAN and fixed-layout CAN FD message records.
const (
	CANFlagTx                uint8 = 0x01
	CANFlagNERR              uint8 = 0x20
	CANFlagWakeUp            uint8 = 0x40
	CANFlagRemoteFrame       uint8 = 0x80
	CANMaxClassicDataLength        = 8
	canExtendedIDFlag       uint32 = 0x80000000
)

// CANID is a CAN identifier as stored in BLF records: the most significant
// bit marks an extended (29-bit) identifier.
type CANID uint32

// Extended returns true if id is a 29-bit identifier.
func (id CANID) Extended() bool { return uint32(id)&canExtendedIDFlag != 0 }

// Value returns the identifier without the extended marker.
func (id CANID) Value() uint32 { return uint32(id) &^ canExtendedIDFlag }

// CANFrame is the classic CAN frame layout shared by CANMessage and
// CANMessage2.
type CANFrame struct {
	Channel uint16
	Flags   uint8
	DLC     uint8
	ID      CANID
	Data    [8]byte
}

// Len returns the number of payload bytes, which is the DLC capped at 8.
func (f *CANFrame) Len() int {
	if f.DLC > CANMaxClassicDataLength {
		return CANMaxClassicDataLength
	}
	return int(f.DLC)
}

// Payload returns the valid payload bytes.
func (f *CANFrame) Payload() []byte { return f.Data[:f.Len()] }

// IsTx returns true if the frame was transmitted by the logging node.
func (f *CANFrame) IsTx() bool { return f.Flags&CANFlagTx != 0 }

// IsRemote returns true for remote frames.
func (f *CANFrame) IsRemote() bool { return f.Flags&CANFlagRemoteFrame != 0 }

func (f *CANFrame) read(r *byteslicereader.R) (err error) {
	if f.Channel, err = r.Uint16(); err != nil {
		return
	}
	if f.Flags, err = r.Uint8(); err != nil {
		return
	}
	if f.DLC, err = r.Uint8(); err != nil {
		return
	}
	var id uint32
	if id, err = r.Uint32(); err != nil {
		return
	}
	f.ID = CANID(id)
	return r.Fill(f.Data[:])
}

func (f *CANFrame) append(b []byte) []byte {
	b = binary.LittleEndian.AppendUint16(b, f.Channel)
	b = append(b, f.Flags, f.DLC)
	b = binary.LittleEndian.AppendUint32(b, uint32(f.ID))
	return append(b, f.Data[:]...)
}

func (f *CANFrame) validate(t Type) []error {
	if f.DLC > CANMaxClassicDataLength {
		return []error{&FieldValidationWarning{Type: t, Field: "dlc", Declared: int64(f.DLC), Expected: CANMaxClassicDataLength}}
	}
	return nil
}

// CANMessage is a classic CAN frame (CAN_MESSAGE).
type CANMessage struct {
	Header
	CANFrame
}

// Type implements Object.
func (*CANMessage) Type() Type { return TypeCANMessage }

func (o *CANMessage) decodeBody(r *byteslicereader.R) error { return o.CANFrame.read(r) }
func (o *CANMessage) appendBody(b []byte) ([]byte, error) { return o.CANFrame.append(b), nil }
func (o *CANMessage) validate() []error                   { return o.CANFrame.validate(o.Type()) }

// CANMessage2 is a classic CAN frame with bit-level timing (CAN_MESSAGE2).
type CANMessage2 struct {
	Header
	CANFrame

	FrameLength uint32
	BitCount    uint8
	Reserved1   uint8
	Reserved2   uint16
}

// Type implements Object.
func (*CANMessage2) Type() Type { return TypeCANMessage2 }

func (o *CANMessage2) decodeBody(r *byteslicereader.R) (err error) {
	if err = o.CANFrame.read(r); err != nil {
		return
	}
	if o.FrameLength, err = r.Uint32(); err != nil {
		return
	}
	if o.BitCount, err = r.Uint8(); err != nil {
		return
	}
	if o.Reserved1, err = r.Uint8(); err != nil {
		return
	}
	o.Reserved2, err = r.Uint16()
	return
}

func (o *CANMessage2) appendBody(b []byte) ([]byte, error) {
	b = o.CANFrame.append(b)
	b = binary.LittleEndian.AppendUint32(b, o.FrameLength)
	b = append(b, o.BitCount, o.Reserved1)
	return binary.LittleEndian.AppendUint16(b, o.Reserved2), nil
}

func (o *CANMessage2) validate() []error { return o.CANFrame.validate(o.Type()) }

// CANErrorFrameFields is the layout of a CAN_ERROR record.
type CANErrorFrameFields struct {
	Channel  uint16 `struc:",little"`
	Length   uint16 `struc:",little"`
	Reserved uint32 `struc:",little"`
}

// CANErrorFrame reports an error frame seen on the bus.
type CANErrorFrame struct {
	Header
	CANErrorFrameFields
}

// Type implements Object.
func (*CANErrorFrame) Type() Type { return TypeCANError }

func (o *CANErrorFrame) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.CANErrorFrameFields)
}

func (o *CANErrorFrame) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.CANErrorFrameFields)
}

// CANOverloadFrameFields is the layout of a CAN_OVERLOAD record.
type CANOverloadFrameFields struct {
	Channel   uint16 `struc:",little"`
	Reserved1 uint16 `struc:",little"`
	Reserved2 uint32 `struc:",little"`
}

// CANOverloadFrame reports an overload frame seen on the bus.
type CANOverloadFrame struct {
	Header
	CANOverloadFrameFields
}

// Type implements Object.
func (*CANOverloadFrame) Type() Type { return TypeCANOverload }

func (o *CANOverloadFrame) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.CANOverloadFrameFields)
}

func (o *CANOverloadFrame) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.CANOverloadFrameFields)
}

// CANDriverStatisticFields is the layout of a CAN_STATISTIC record.
type CANDriverStatisticFields struct {
	Channel              uint16 `struc:",little"`
	BusLoad              uint16 `struc:",little"`
	StandardDataFrames   uint32 `struc:",little"`
	ExtendedDataFrames   uint32 `struc:",little"`
	StandardRemoteFrames uint32 `struc:",little"`
	ExtendedRemoteFrames uint32 `struc:",little"`
	ErrorFrames          uint32 `struc:",little"`
	OverloadFrames       uint32 `struc:",little"`
	Reserved             uint32 `struc:",little"`
}

// CANDriverStatistic holds periodic driver frame counters.
type CANDriverStatistic struct {
	Header
	CANDriverStatisticFields
}

// Type implements Object.
func (*CANDriverStatistic) Type() Type { return TypeCANStatistic }

func (o *CANDriverStatistic) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.CANDriverStatisticFields)
}

func (o *CANDriverStatistic) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.CANDriverStatisticFields)
}

// CANDriverErrorFields is the layout of a CAN_DRIVER_ERROR record.
type CANDriverErrorFields struct {
	Channel   uint16 `struc:",little"`
	TxErrors  uint8
	RxErrors  uint8
	ErrorCode uint32 `struc:",little"`
}

// CANDriverError reports the controller's error counters.
type CANDriverError struct {
	Header
	CANDriverErrorFields
}

// Type implements Object.
func (*CANDriverError) Type() Type { return TypeCANDriverError }

func (o *CANDriverError) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.CANDriverErrorFields)
}

func (o *CANDriverError) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.CANDriverErrorFields)
}
