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

var mostFamily = []registryEntry{
	{TypeMOSTSpy, func() Object { return &MOSTSpy{} }},
	{TypeMOSTCtrl, func() Object { return &MOSTCtrl{} }},
	{TypeMOSTLightLock, func() Object { return &MOSTLightLock{} }},
	{TypeMOSTStatistic, func() Object { return &MOSTStatistic{} }},
	{TypeMOSTHWMode, func() Object { return &MOSTHWMode{} }},
	{TypeMOSTGenReg, func() Object { return &MOSTGenReg{} }},
	{TypeMOSTNetState, func() Object { return &MOSTNetState{} }},
	{TypeMOSTPkt2, func() Object { return &MOSTPkt2{} }},
	{TypeMOSTReg, func() Object { return &MOSTReg{} }},
	{TypeMOSTDataLost, func() Object { return &MOSTDataLost{} }},
	{TypeMOSTTrigger, func() Object { return &MOSTTrigger{} }},
}

// MOSTControlFields is the control message layout shared by MOST_SPY and
// MOST_CTRL. MOST_SPY adds a trailing CRC.
type MOSTControlFields struct {
	Channel   uint16 `struc:",little"`
	Dir       uint8
	Reserved1 uint8
	SourceAdr uint32 `struc:",little"`
	DestAdr   uint32 `struc:",little"`
	Msg       [17]byte
	Reserved2 uint8
	RTyp      uint16 `struc:",little"`
	RTypAdr   uint8
	State     uint8
	Reserved3 uint8
	AckNack   uint8
}

// MOSTSpy is a control message observed in spy mode.
type MOSTSpy struct {
	Header
	MOSTControlFields

	CRC uint32
}

// Type implements Object.
func (*MOSTSpy) Type() Type { return TypeMOSTSpy }

func (o *MOSTSpy) decodeBody(r *byteslicereader.R) (err error) {
	if err = unpackFields(r, &o.MOSTControlFields); err != nil {
		return
	}
	o.CRC, err = r.Uint32()
	return
}

func (o *MOSTSpy) appendBody(b []byte) ([]byte, error) {
	b, err := packFields(b, &o.MOSTControlFields)
	if err != nil {
		return b, err
	}
	return binary.LittleEndian.AppendUint32(b, o.CRC), nil
}

// MOSTCtrl is a control message sent or received by the interface node.
type MOSTCtrl struct {
	Header
	MOSTControlFields
}

// Type implements Object.
func (*MOSTCtrl) Type() Type { return TypeMOSTCtrl }

func (o *MOSTCtrl) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.MOSTControlFields)
}

func (o *MOSTCtrl) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.MOSTControlFields)
}

// MOSTLightLockFields is the layout of a MOST_LIGHTLOCK record.
type MOSTLightLockFields struct {
	Channel  uint16 `struc:",little"`
	State    int16  `struc:",little"`
	Reserved uint32 `struc:",little"`
}

// MOSTLightLock reports a change of the optical signal state.
type MOSTLightLock struct {
	Header
	MOSTLightLockFields
}

// Type implements Object.
func (*MOSTLightLock) Type() Type { return TypeMOSTLightLock }

func (o *MOSTLightLock) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.MOSTLightLockFields)
}

func (o *MOSTLightLock) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.MOSTLightLockFields)
}

// MOSTStatisticFields is the layout of a MOST_STATISTIC record.
type MOSTStatisticFields struct {
	Channel     uint16 `struc:",little"`
	PktCnt      uint16 `struc:",little"`
	FrmCnt      int32  `struc:",little"`
	LightCnt    int32  `struc:",little"`
	BufferLevel int32  `struc:",little"`
}

// MOSTStatistic holds periodic bus counters.
type MOSTStatistic struct {
	Header
	MOSTStatisticFields
}

// Type implements Object.
func (*MOSTStatistic) Type() Type { return TypeMOSTStatistic }

func (o *MOSTStatistic) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.MOSTStatisticFields)
}

func (o *MOSTStatistic) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.MOSTStatisticFields)
}

// MOSTHWModeFields is the layout of a MOST_HWMODE record.
type MOSTHWModeFields struct {
	Channel    uint16 `struc:",little"`
	Reserved   uint16 `struc:",little"`
	HWMode     uint16 `struc:",little"`
	HWModeMask uint16 `struc:",little"`
}

// MOSTHWMode reports a change of the transceiver's hardware mode.
type MOSTHWMode struct {
	Header
	MOSTHWModeFields
}

// Type implements Object.
func (*MOSTHWMode) Type() Type { return TypeMOSTHWMode }

func (o *MOSTHWMode) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.MOSTHWModeFields)
}

func (o *MOSTHWMode) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.MOSTHWModeFields)
}

// MOSTGenRegFields is the layout of a MOST_GENREG record.
type MOSTGenRegFields struct {
	Channel   uint16 `struc:",little"`
	SubType   uint8
	Reserved1 uint8
	Handle    uint32 `struc:",little"`
	RegID     uint16 `struc:",little"`
	Reserved2 uint16 `struc:",little"`
	Reserved3 uint32 `struc:",little"`
	RegValue  uint64 `struc:",little"`
}

// MOSTGenReg reports a transceiver register access.
type MOSTGenReg struct {
	Header
	MOSTGenRegFields
}

// Type implements Object.
func (*MOSTGenReg) Type() Type { return TypeMOSTGenReg }

func (o *MOSTGenReg) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.MOSTGenRegFields)
}

func (o *MOSTGenReg) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.MOSTGenRegFields)
}

// MOSTNetStateFields is the layout of a MOST_NETSTATE record.
type MOSTNetStateFields struct {
	Channel  uint16 `struc:",little"`
	StateNew uint16 `struc:",little"`
	StateOld uint16 `struc:",little"`
	Reserved uint16 `struc:",little"`
}

// MOSTNetState reports a transition of the network state machine.
type MOSTNetState struct {
	Header
	MOSTNetStateFields
}

// Type implements Object.
func (*MOSTNetState) Type() Type { return TypeMOSTNetState }

func (o *MOSTNetState) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.MOSTNetStateFields)
}

func (o *MOSTNetState) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.MOSTNetStateFields)
}

// MOSTPkt2Fields is the fixed layout of a MOST_PKT2 record. PktDataLength is
// the number of packet bytes that follow it.
type MOSTPkt2Fields struct {
	Channel       uint16 `struc:",little"`
	Dir           uint8
	Reserved1     uint8
	SourceAdr     uint32 `struc:",little"`
	DestAdr       uint32 `struc:",little"`
	Arbitration   uint8
	TimeRes       uint8
	QuadsToFollow uint8
	Reserved2     uint8
	CRC           uint16 `struc:",little"`
	Priority      uint8
	TransferType  uint8
	State         uint8
	Reserved3     uint8
	Reserved4     uint16 `struc:",little"`
	PktDataLength uint32 `struc:",little"`
	Reserved5     uint32 `struc:",little"`
}

// MOSTPkt2 is a message on the asynchronous packet data channel.
//
// PktDataLength is derived from PktData when encoding.
type MOSTPkt2 struct {
	Header
	MOSTPkt2Fields

	PktData []byte
}

// Type implements Object.
func (*MOSTPkt2) Type() Type { return TypeMOSTPkt2 }

func (o *MOSTPkt2) decodeBody(r *byteslicereader.R) (err error) {
	if err = unpackFields(r, &o.MOSTPkt2Fields); err != nil {
		return
	}
	if uint64(o.PktDataLength) > uint64(r.Remaining()) {
		return lengthError(r, "packet data", int(o.PktDataLength))
	}
	o.PktData, err = r.Bytes(int(o.PktDataLength))
	return
}

func (o *MOSTPkt2) appendBody(b []byte) ([]byte, error) {
	if uint64(len(o.PktData)) > math.MaxUint32 {
		return b, errors.Errorf("packet data of %d bytes is too large", len(o.PktData))
	}

	fields := o.MOSTPkt2Fields
	fields.PktDataLength = uint32(len(o.PktData))
	b, err := packFields(b, &fields)
	if err != nil {
		return b, err
	}
	return append(b, o.PktData...), nil
}

// MOSTRegFields is the layout of a MOST_REG record.
type MOSTRegFields struct {
	Channel    uint16 `struc:",little"`
	SubType    uint8
	Reserved1  uint8
	Handle     uint32 `struc:",little"`
	Offset     uint32 `struc:",little"`
	Chip       uint16 `struc:",little"`
	RegDataLen uint16 `struc:",little"`
	RegData    [16]byte
}

// MOSTReg reports a register access on a MOST chip.
type MOSTReg struct {
	Header
	MOSTRegFields
}

// Type implements Object.
func (*MOSTReg) Type() Type { return TypeMOSTReg }

// Payload returns the valid register bytes. RegDataLen is capped at 16.
func (o *MOSTReg) Payload() []byte {
	n := int(o.RegDataLen)
	if n > len(o.RegData) {
		n = len(o.RegData)
	}
	return o.RegData[:n]
}

func (o *MOSTReg) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.MOSTRegFields)
}

func (o *MOSTReg) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.MOSTRegFields)
}

func (o *MOSTReg) validate() []error {
	if int(o.RegDataLen) > len(o.RegData) {
		return []error{&FieldValidationWarning{
			Type:     o.Type(),
			Field:    "reg_data_len",
			Declared: int64(o.RegDataLen),
			Expected: int64(len(o.RegData)),
		}}
	}
	return nil
}

// MOSTDataLostFields is the layout of a MOST_DATALOST record. The good time
// stamps are absolute, in nanoseconds.
type MOSTDataLostFields struct {
	Channel             uint16 `struc:",little"`
	Reserved1           uint16 `struc:",little"`
	Info                uint32 `struc:",little"`
	LostMsgsCtrl        uint32 `struc:",little"`
	LostMsgsAsync       uint32 `struc:",little"`
	LastGoodTimeStampNS uint64 `struc:",little"`
	NextGoodTimeStampNS uint64 `struc:",little"`
}

// MOSTDataLost reports messages the interface failed to log.
type MOSTDataLost struct {
	Header
	MOSTDataLostFields
}

// Type implements Object.
func (*MOSTDataLost) Type() Type { return TypeMOSTDataLost }

func (o *MOSTDataLost) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.MOSTDataLostFields)
}

func (o *MOSTDataLost) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.MOSTDataLostFields)
}

// MOSTTriggerFields is the layout of a MOST_TRIGGER record.
type MOSTTriggerFields struct {
	Channel              uint16 `struc:",little"`
	Reserved1            uint16 `struc:",little"`
	Mode                 uint16 `struc:",little"`
	HW                   uint16 `struc:",little"`
	PreviousTriggerValue uint32 `struc:",little"`
	CurrentTriggerValue  uint32 `struc:",little"`
}

// MOSTTrigger reports a change of the interface's trigger input.
type MOSTTrigger struct {
	Header
	MOSTTriggerFields
}

// Type implements Object.
func (*MOSTTrigger) Type() Type { return TypeMOSTTrigger }

func (o *MOSTTrigger) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.MOSTTriggerFields)
}

func (o *MOSTTrigger) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.MOSTTriggerFields)
}
