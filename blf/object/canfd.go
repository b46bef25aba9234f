// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package object

import (
	"bytes"
	"encoding/binary"

	"github.com/danjacques/goblf/support/byteslicereader"

	"github.com/pkg/errors"
)

// CANFDMaxDataLength is the largest CAN FD payload.
const CANFDMaxDataLength = 64

// fdDLCLengths maps a CAN FD DLC to its payload length.
var fdDLCLengths = [16]uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}

// DLCToLength returns the payload length encoded by dlc. Classic frames cap
// the length at 8; FD frames map DLC 9 to 15 through the FD length table.
func DLCToLength(dlc uint8, fd bool) int {
	if !fd {
		if dlc > CANMaxClassicDataLength {
			return CANMaxClassicDataLength
		}
		return int(dlc)
	}
	if dlc > 15 {
		return CANFDMaxDataLength
	}
	return int(fdDLCLengths[dlc])
}

// LengthToDLC returns the smallest FD DLC able to carry n bytes.
func LengthToDLC(n int) uint8 {
	for dlc, l := range fdDLCLengths {
		if n <= int(l) {
			return uint8(dlc)
		}
	}
	return 15
}

// Flags of the CANFDMessage FD flags byte.
const (
	CANFDFlagEDL uint8 = 0x01
	CANFDFlagBRS uint8 = 0x02
	CANFDFlagESI uint8 = 0x04
)

// CANFDMessage is a CAN FD frame in the fixed 64-byte layout
// (CAN_FD_MESSAGE).
type CANFDMessage struct {
	Header

	Channel        uint16
	Flags          uint8
	DLC            uint8
	ID             CANID
	FrameLength    uint32
	ArbBitCount    uint8
	FDFlags        uint8
	ValidDataBytes uint8
	Reserved1      uint8
	Reserved2      uint32
	Data           [CANFDMaxDataLength]byte
	Reserved3      uint32
}

// Type implements Object.
func (*CANFDMessage) Type() Type { return TypeCANFDMessage }

// IsFD returns true if the frame uses the FD format (EDL).
func (o *CANFDMessage) IsFD() bool { return o.FDFlags&CANFDFlagEDL != 0 }

// HasBRS returns true if the data phase used the switched bit rate.
func (o *CANFDMessage) HasBRS() bool { return o.FDFlags&CANFDFlagBRS != 0 }

// HasESI returns true if the transmitter was error passive.
func (o *CANFDMessage) HasESI() bool { return o.FDFlags&CANFDFlagESI != 0 }

// IsTx returns true if the frame was transmitted by the logging node.
func (o *CANFDMessage) IsTx() bool { return o.Flags&CANFlagTx != 0 }

// IsRemote returns true for remote frames.
func (o *CANFDMessage) IsRemote() bool { return o.Flags&CANFlagRemoteFrame != 0 }

// Payload returns the valid payload bytes.
func (o *CANFDMessage) Payload() []byte {
	n := int(o.ValidDataBytes)
	if n > CANFDMaxDataLength {
		n = CANFDMaxDataLength
	}
	return o.Data[:n]
}

func (o *CANFDMessage) decodeBody(r *byteslicereader.R) (err error) {
	if o.Channel, err = r.Uint16(); err != nil {
		return
	}
	if o.Flags, err = r.Uint8(); err != nil {
		return
	}
	if o.DLC, err = r.Uint8(); err != nil {
		return
	}
	var id uint32
	if id, err = r.Uint32(); err != nil {
		return
	}
	o.ID = CANID(id)
	if o.FrameLength, err = r.Uint32(); err != nil {
		return
	}
	if o.ArbBitCount, err = r.Uint8(); err != nil {
		return
	}
	if o.FDFlags, err = r.Uint8(); err != nil {
		return
	}
	if o.ValidDataBytes, err = r.Uint8(); err != nil {
		return
	}
	if o.Reserved1, err = r.Uint8(); err != nil {
		return
	}
	if o.Reserved2, err = r.Uint32(); err != nil {
		return
	}
	if err = r.Fill(o.Data[:]); err != nil {
		return
	}
	o.Reserved3, err = r.Uint32()
	return
}

func (o *CANFDMessage) appendBody(b []byte) ([]byte, error) {
	le := binary.LittleEndian
	b = le.AppendUint16(b, o.Channel)
	b = append(b, o.Flags, o.DLC)
	b = le.AppendUint32(b, uint32(o.ID))
	b = le.AppendUint32(b, o.FrameLength)
	b = append(b, o.ArbBitCount, o.FDFlags, o.ValidDataBytes, o.Reserved1)
	b = le.AppendUint32(b, o.Reserved2)
	b = append(b, o.Data[:]...)
	return le.AppendUint32(b, o.Reserved3), nil
}

func (o *CANFDMessage) validate() []error {
	if o.IsRemote() {
		return nil
	}
	if expected := DLCToLength(o.DLC, o.IsFD()); int(o.ValidDataBytes) != expected {
		return []error{&FieldValidationWarning{
			Type:     o.Type(),
			Field:    "valid_data_bytes",
			Declared: int64(o.ValidDataBytes),
			Expected: int64(expected),
		}}
	}
	return nil
}

// Flags of the CANFDMessage64 flags word. These bit positions are specific to
// this record and differ from the CANFDMessage FD flags byte.
const (
	CANFD64FlagNERR      uint32 = 0x00000004
	CANFD64FlagHVWakeUp  uint32 = 0x00000008
	CANFD64FlagRemote    uint32 = 0x00000010
	CANFD64FlagTxAck     uint32 = 0x00000040
	CANFD64FlagTxRequest uint32 = 0x00000080
	CANFD64FlagSRR       uint32 = 0x00000200
	CANFD64FlagR0        uint32 = 0x00000400
	CANFD64FlagR1        uint32 = 0x00000800
	CANFD64FlagEDL       uint32 = 0x00001000
	CANFD64FlagBRS       uint32 = 0x00002000
	CANFD64FlagESI       uint32 = 0x00004000
	CANFD64FlagBurst     uint32 = 0x00020000
)

// canFD64FixedSize is the size of the CANFDMessage64 fields before the data.
const canFD64FixedSize = 40

// CANFDExtFrameData is the optional extension block of a CANFDMessage64.
type CANFDExtFrameData struct {
	BTRExtArb  uint32
	BTRExtData uint32

	// Reserved holds the remaining bytes of the block.
	Reserved []byte

	// Gap holds the bytes between the frame data and the block, or nil if
	// they are all zero.
	Gap []byte
}

// CANFDMessage64 is a CAN FD frame in the variable-length layout
// (CAN_FD_MESSAGE_64).
//
// Data holds exactly ValidDataBytes bytes. Ext is present only when
// ExtDataOffset is non-zero and points inside the object.
type CANFDMessage64 struct {
	Header

	Channel            uint8
	DLC                uint8
	ValidDataBytes     uint8
	TxCount            uint8
	ID                 CANID
	FrameLength        uint32
	Flags              uint32
	BTRCfgArb          uint32
	BTRCfgData         uint32
	TimeOffsetBRSNs    uint32
	TimeOffsetCRCDelNs uint32
	BitCount           uint16
	Dir                uint8
	ExtDataOffset      uint8
	CRC                uint32
	Data               []byte

	Ext *CANFDExtFrameData
}

// Type implements Object.
func (*CANFDMessage64) Type() Type { return TypeCANFDMessage64 }

// IsFD returns true if the frame uses the FD format (EDL).
func (o *CANFDMessage64) IsFD() bool { return o.Flags&CANFD64FlagEDL != 0 }

// HasBRS returns true if the data phase used the switched bit rate.
func (o *CANFDMessage64) HasBRS() bool { return o.Flags&CANFD64FlagBRS != 0 }

// HasESI returns true if the transmitter was error passive.
func (o *CANFDMessage64) HasESI() bool { return o.Flags&CANFD64FlagESI != 0 }

// IsRemote returns true for remote frames.
func (o *CANFDMessage64) IsRemote() bool { return o.Flags&CANFD64FlagRemote != 0 }

// IsTx returns true if the frame was transmitted by the logging node.
func (o *CANFDMessage64) IsTx() bool { return o.Dir == 1 }

// Payload returns the valid payload bytes.
func (o *CANFDMessage64) Payload() []byte { return o.Data }

func (o *CANFDMessage64) decodeBody(r *byteslicereader.R) (err error) {
	if o.Channel, err = r.Uint8(); err != nil {
		return
	}
	if o.DLC, err = r.Uint8(); err != nil {
		return
	}
	if o.ValidDataBytes, err = r.Uint8(); err != nil {
		return
	}
	if o.TxCount, err = r.Uint8(); err != nil {
		return
	}
	var id uint32
	if id, err = r.Uint32(); err != nil {
		return
	}
	o.ID = CANID(id)
	for _, v := range []*uint32{
		&o.FrameLength, &o.Flags, &o.BTRCfgArb, &o.BTRCfgData,
		&o.TimeOffsetBRSNs, &o.TimeOffsetCRCDelNs,
	} {
		if *v, err = r.Uint32(); err != nil {
			return
		}
	}
	if o.BitCount, err = r.Uint16(); err != nil {
		return
	}
	if o.Dir, err = r.Uint8(); err != nil {
		return
	}
	if o.ExtDataOffset, err = r.Uint8(); err != nil {
		return
	}
	if o.CRC, err = r.Uint32(); err != nil {
		return
	}

	if o.Data, err = r.Bytes(int(o.ValidDataBytes)); err != nil {
		return lengthError(r, "valid_data_bytes", int(o.ValidDataBytes))
	}

	// The extension offset is measured from the start of the object.
	if o.ExtDataOffset == 0 {
		return nil
	}
	extStart := int(o.ExtDataOffset) - int(o.HeaderSize)
	if extStart < r.Pos() || extStart+8 > len(r.Buffer) {
		// Not within the object; whatever follows is left undecoded.
		return nil
	}
	var ext CANFDExtFrameData
	if ext.Gap, err = r.Bytes(extStart - r.Pos()); err != nil {
		return
	}
	if bytes.Count(ext.Gap, []byte{0}) == len(ext.Gap) {
		ext.Gap = nil
	}
	if ext.BTRExtArb, err = r.Uint32(); err != nil {
		return
	}
	if ext.BTRExtData, err = r.Uint32(); err != nil {
		return
	}
	if ext.Reserved, err = r.Bytes(r.Remaining()); err != nil {
		return
	}
	if len(ext.Reserved) == 0 {
		ext.Reserved = nil
	}
	o.Ext = &ext
	return nil
}

func (o *CANFDMessage64) appendBody(b []byte) ([]byte, error) {
	le := binary.LittleEndian
	bodyStart := len(b)

	b = append(b, o.Channel, o.DLC, o.ValidDataBytes, o.TxCount)
	b = le.AppendUint32(b, uint32(o.ID))
	b = le.AppendUint32(b, o.FrameLength)
	b = le.AppendUint32(b, o.Flags)
	b = le.AppendUint32(b, o.BTRCfgArb)
	b = le.AppendUint32(b, o.BTRCfgData)
	b = le.AppendUint32(b, o.TimeOffsetBRSNs)
	b = le.AppendUint32(b, o.TimeOffsetCRCDelNs)
	b = le.AppendUint16(b, o.BitCount)
	b = append(b, o.Dir, o.ExtDataOffset)
	b = le.AppendUint32(b, o.CRC)

	if len(o.Data) != int(o.ValidDataBytes) {
		return b, errors.Errorf("data length %d does not match valid_data_bytes %d", len(o.Data), o.ValidDataBytes)
	}
	b = append(b, o.Data...)

	if o.Ext == nil {
		return b, nil
	}
	extStart := int(o.ExtDataOffset) - o.EncodedSize()
	if o.ExtDataOffset == 0 || extStart < len(b)-bodyStart {
		return b, errors.Errorf("extension offset %d overlaps the frame data", o.ExtDataOffset)
	}
	gap := extStart - (len(b) - bodyStart)
	switch {
	case o.Ext.Gap == nil:
		b = append(b, make([]byte, gap)...)
	case len(o.Ext.Gap) == gap:
		b = append(b, o.Ext.Gap...)
	default:
		return b, errors.Errorf("extension gap of %d bytes does not fit the %d bytes before offset %d",
			len(o.Ext.Gap), gap, o.ExtDataOffset)
	}
	b = le.AppendUint32(b, o.Ext.BTRExtArb)
	b = le.AppendUint32(b, o.Ext.BTRExtData)
	return append(b, o.Ext.Reserved...), nil
}

func (o *CANFDMessage64) validate() []error {
	var warnings []error
	if o.ValidDataBytes > CANFDMaxDataLength {
		warnings = append(warnings, &FieldValidationWarning{
			Type:     o.Type(),
			Field:    "valid_data_bytes",
			Declared: int64(o.ValidDataBytes),
			Expected: CANFDMaxDataLength,
		})
	} else if expected := DLCToLength(o.DLC, o.IsFD()); !o.IsRemote() && int(o.ValidDataBytes) != expected {
		warnings = append(warnings, &FieldValidationWarning{
			Type:     o.Type(),
			Field:    "valid_data_bytes",
			Declared: int64(o.ValidDataBytes),
			Expected: int64(expected),
		})
	}
	return warnings
}
