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

var linFamily = []registryEntry{
	{TypeLINMessage, func() Object { return &LINMessage{} }},
	{TypeLINCRCError, func() Object { return &LINCRCError{} }},
	{TypeLINDLCInfo, func() Object { return &LINDLCInfo{} }},
	{TypeLINRcvError, func() Object { return &LINReceiveError{} }},
	{TypeLINSndError, func() Object { return &LINSendError{} }},
	{TypeLINSlvTimeout, func() Object { return &LINSlaveTimeout{} }},
	{TypeLINSchedModCh, func() Object { return &LINSchedulerModeChange{} }},
	{TypeLINSynError, func() Object { return &LINSyncError{} }},
	{TypeLINBaudrate, func() Object { return &LINBaudrateEvent{} }},
	{TypeLINSleep, func() Object { return &LINSleepModeEvent{} }},
	{TypeLINWakeup, func() Object { return &LINWakeupEvent{} }},
	{TypeLINMessage2, func() Object { return &LINMessage2{} }},
}

// LINFrameFields is the layout shared by LIN_MESSAGE and LIN_CRC_ERROR.
type LINFrameFields struct {
	Channel    uint16 `struc:",little"`
	ID         uint8
	DLC        uint8
	Data       [8]byte
	FSMID      uint8
	FSMState   uint8
	HeaderTime uint8
	FullTime   uint8
	CRC        uint16 `struc:",little"`
	Dir        uint8
	Reserved1  uint8
	Reserved2  uint32 `struc:",little"`
}

// Payload returns the valid payload bytes. The DLC is capped at 8.
func (f *LINFrameFields) Payload() []byte {
	n := int(f.DLC)
	if n > len(f.Data) {
		n = len(f.Data)
	}
	return f.Data[:n]
}

// LINMessage is a LIN frame (LIN_MESSAGE).
type LINMessage struct {
	Header
	LINFrameFields
}

// Type implements Object.
func (*LINMessage) Type() Type { return TypeLINMessage }

func (o *LINMessage) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINFrameFields)
}

func (o *LINMessage) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINFrameFields)
}

func (o *LINMessage) validate() []error {
	if o.DLC > 8 {
		return []error{&FieldValidationWarning{Type: o.Type(), Field: "dlc", Declared: int64(o.DLC), Expected: 8}}
	}
	return nil
}

// LINCRCError is a LIN frame received with a bad checksum.
type LINCRCError struct {
	Header
	LINFrameFields
}

// Type implements Object.
func (*LINCRCError) Type() Type { return TypeLINCRCError }

func (o *LINCRCError) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINFrameFields)
}

func (o *LINCRCError) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINFrameFields)
}

// LINDLCInfoFields is the layout of a LIN_DLC_INFO record.
type LINDLCInfoFields struct {
	Channel  uint16 `struc:",little"`
	ID       uint8
	DLC      uint8
	Reserved uint32 `struc:",little"`
}

// LINDLCInfo reports a DLC detected for a frame identifier.
type LINDLCInfo struct {
	Header
	LINDLCInfoFields
}

// Type implements Object.
func (*LINDLCInfo) Type() Type { return TypeLINDLCInfo }

func (o *LINDLCInfo) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINDLCInfoFields)
}

func (o *LINDLCInfo) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINDLCInfoFields)
}

// LINReceiveErrorFields is the layout of a LIN_RCV_ERROR record.
type LINReceiveErrorFields struct {
	Channel                   uint16 `struc:",little"`
	ID                        uint8
	DLC                       uint8
	FSMID                     uint8
	FSMState                  uint8
	HeaderTime                uint8
	FullTime                  uint8
	StateReason               uint8
	OffendingByte             uint8
	ShortError                uint8
	TimeoutDuringDLCDetection uint8
	Reserved                  uint32 `struc:",little"`
}

// LINReceiveError reports a malformed received frame.
type LINReceiveError struct {
	Header
	LINReceiveErrorFields
}

// Type implements Object.
func (*LINReceiveError) Type() Type { return TypeLINRcvError }

func (o *LINReceiveError) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINReceiveErrorFields)
}

func (o *LINReceiveError) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINReceiveErrorFields)
}

// LINSendErrorFields is the layout of a LIN_SND_ERROR record.
type LINSendErrorFields struct {
	Channel    uint16 `struc:",little"`
	ID         uint8
	DLC        uint8
	FSMID      uint8
	FSMState   uint8
	HeaderTime uint8
	FullTime   uint8
}

// LINSendError reports a header with no slave response.
type LINSendError struct {
	Header
	LINSendErrorFields
}

// Type implements Object.
func (*LINSendError) Type() Type { return TypeLINSndError }

func (o *LINSendError) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINSendErrorFields)
}

func (o *LINSendError) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINSendErrorFields)
}

// LINSlaveTimeoutFields is the layout of a LIN_SLV_TIMEOUT record.
type LINSlaveTimeoutFields struct {
	Channel       uint16 `struc:",little"`
	SlaveID       uint8
	StateID       uint8
	FollowStateID uint32 `struc:",little"`
}

// LINSlaveTimeout reports a slave state machine timeout.
type LINSlaveTimeout struct {
	Header
	LINSlaveTimeoutFields
}

// Type implements Object.
func (*LINSlaveTimeout) Type() Type { return TypeLINSlvTimeout }

func (o *LINSlaveTimeout) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINSlaveTimeoutFields)
}

func (o *LINSlaveTimeout) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINSlaveTimeoutFields)
}

// LINSchedulerModeChangeFields is the layout of a LIN_SCHED_MODCH record.
type LINSchedulerModeChangeFields struct {
	Channel  uint16 `struc:",little"`
	OldMode  uint8
	NewMode  uint8
	Reserved uint32 `struc:",little"`
}

// LINSchedulerModeChange reports a schedule table switch.
type LINSchedulerModeChange struct {
	Header
	LINSchedulerModeChangeFields
}

// Type implements Object.
func (*LINSchedulerModeChange) Type() Type { return TypeLINSchedModCh }

func (o *LINSchedulerModeChange) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINSchedulerModeChangeFields)
}

func (o *LINSchedulerModeChange) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINSchedulerModeChangeFields)
}

// LINSyncErrorFields is the layout of a LIN_SYN_ERROR record.
type LINSyncErrorFields struct {
	Channel   uint16    `struc:",little"`
	Reserved1 uint16    `struc:",little"`
	TimeDiff  [4]uint16 `struc:",little"`
	Reserved2 uint32    `struc:",little"`
}

// LINSyncError reports an invalid sync field.
type LINSyncError struct {
	Header
	LINSyncErrorFields
}

// Type implements Object.
func (*LINSyncError) Type() Type { return TypeLINSynError }

func (o *LINSyncError) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINSyncErrorFields)
}

func (o *LINSyncError) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINSyncErrorFields)
}

// LINBaudrateEventFields is the layout of a LIN_BAUDRATE record.
type LINBaudrateEventFields struct {
	Channel  uint16 `struc:",little"`
	Reserved uint16 `struc:",little"`
	Baudrate int32  `struc:",little"`
}

// LINBaudrateEvent reports a detected baud rate.
type LINBaudrateEvent struct {
	Header
	LINBaudrateEventFields
}

// Type implements Object.
func (*LINBaudrateEvent) Type() Type { return TypeLINBaudrate }

func (o *LINBaudrateEvent) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINBaudrateEventFields)
}

func (o *LINBaudrateEvent) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINBaudrateEventFields)
}

// LINSleepModeEventFields is the layout of a LIN_SLEEP record.
type LINSleepModeEventFields struct {
	Channel  uint16 `struc:",little"`
	Reason   uint8
	Flags    uint8
	Reserved uint32 `struc:",little"`
}

// LINSleepModeEvent reports the bus entering or leaving sleep mode.
type LINSleepModeEvent struct {
	Header
	LINSleepModeEventFields
}

// Type implements Object.
func (*LINSleepModeEvent) Type() Type { return TypeLINSleep }

func (o *LINSleepModeEvent) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINSleepModeEventFields)
}

func (o *LINSleepModeEvent) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINSleepModeEventFields)
}

// LINWakeupEventFields is the layout of a LIN_WAKEUP record.
type LINWakeupEventFields struct {
	Channel  uint16 `struc:",little"`
	Signal   uint8
	External uint8
	Reserved uint32 `struc:",little"`
}

// LINWakeupEvent reports a wake-up frame.
type LINWakeupEvent struct {
	Header
	LINWakeupEventFields
}

// Type implements Object.
func (*LINWakeupEvent) Type() Type { return TypeLINWakeup }

func (o *LINWakeupEvent) decodeBody(r *byteslicereader.R) error {
	return unpackFields(r, &o.LINWakeupEventFields)
}

func (o *LINWakeupEvent) appendBody(b []byte) ([]byte, error) {
	return packFields(b, &o.LINWakeupEventFields)
}

// LINMessage2Fields is the fixed layout of a LIN_MESSAGE2 record.
type LINMessage2Fields struct {
	Data          [8]byte
	CRC           uint16 `struc:",little"`
	Dir           uint8
	Simulated     uint8
	IsETF         uint8
	ETFAssocIndex uint8
	ETFAssocETFID uint8
	FSMID         uint8
	FSMState      uint8
	Reserved1     uint16 `struc:",little"`
	Reserved2     uint32 `struc:",little"`
}

// LINMessage2 is a LIN frame with extended state (LIN_MESSAGE2).
//
// Later record versions append the response baud rate and then the exact
// header baud rate. Each is nil when the record predates it.
type LINMessage2 struct {
	Header
	LINMessage2Fields

	RespBaudrate        *uint32
	ExactHeaderBaudrate *float64
}

// Type implements Object.
func (*LINMessage2) Type() Type { return TypeLINMessage2 }

func (o *LINMessage2) decodeBody(r *byteslicereader.R) error {
	if err := unpackFields(r, &o.LINMessage2Fields); err != nil {
		return err
	}

	if r.Remaining() >= 4 {
		v, err := r.Uint32()
		if err != nil {
			return err
		}
		o.RespBaudrate = &v
	}
	if o.RespBaudrate != nil && r.Remaining() >= 8 {
		v, err := r.Float64()
		if err != nil {
			return err
		}
		o.ExactHeaderBaudrate = &v
	}
	return nil
}

func (o *LINMessage2) appendBody(b []byte) ([]byte, error) {
	if o.ExactHeaderBaudrate != nil && o.RespBaudrate == nil {
		return b, errors.New("exact header baud rate requires a response baud rate")
	}

	b, err := packFields(b, &o.LINMessage2Fields)
	if err != nil {
		return b, err
	}
	if o.RespBaudrate != nil {
		b = binary.LittleEndian.AppendUint32(b, *o.RespBaudrate)
	}
	if o.ExactHeaderBaudrate != nil {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(*o.ExactHeaderBaudrate))
	}
	return b, nil
}
