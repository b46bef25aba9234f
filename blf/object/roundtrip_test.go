// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package object

import (
	"encoding/binary"
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func v1(ts uint64) Header {
	return Header{
		Base:          Base{HeaderVersion: HeaderVersion1},
		ObjectFlags:   FlagTimeOneNans,
		ClientIndex:   2,
		ObjectVersion: 1,
		TimeStamp:     ts,
	}
}

func v2(ts uint64) Header {
	return Header{
		Base:              Base{HeaderVersion: HeaderVersion2},
		ObjectFlags:       FlagTimeOneNans,
		TimeStampStatus:   1,
		TimeStamp:         ts,
		OriginalTimeStamp: ts - 10,
	}
}

func canData(dlc uint8) (d [8]byte) {
	copy(d[:], seq(DLCToLength(dlc, false), 0x10))
	return
}

func fdData(n int) (d [CANFDMaxDataLength]byte) {
	copy(d[:], seq(n, 0x40))
	return
}

func uint32Ptr(v uint32) *uint32    { return &v }
func float64Ptr(v float64) *float64 { return &v }

func float64Bytes(v float64) []byte {
	return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v))
}

// sampleObjects returns one or more populated instances of every registered
// type.
func sampleObjects() []Object {
	return []Object{
		// CAN
		&CANMessage{Header: v1(100), CANFrame: CANFrame{Channel: 1, DLC: 0, ID: 0x7FF}},
		&CANMessage{Header: v1(101), CANFrame: CANFrame{Channel: 1, DLC: 8, ID: 0x123, Data: canData(8)}},
		&CANMessage{Header: v1(102), CANFrame: CANFrame{Channel: 1, DLC: 9, ID: 0x80001234, Data: canData(9)}},
		&CANMessage{Header: v2(103), CANFrame: CANFrame{Channel: 2, Flags: CANFlagRemoteFrame, DLC: 15, ID: 1, Data: canData(15)}},
		&CANMessage2{
			Header:      v1(110),
			CANFrame:    CANFrame{Channel: 3, Flags: CANFlagTx, DLC: 4, ID: 0x55, Data: canData(4)},
			FrameLength: 111000,
			BitCount:    78,
			Reserved1:   1,
			Reserved2:   2,
		},
		&CANErrorFrame{Header: v1(120), CANErrorFrameFields: CANErrorFrameFields{Channel: 1, Length: 6}},
		&CANOverloadFrame{Header: v1(121), CANOverloadFrameFields: CANOverloadFrameFields{Channel: 1}},
		&CANDriverStatistic{Header: v1(122), CANDriverStatisticFields: CANDriverStatisticFields{
			Channel: 1, BusLoad: 2500, StandardDataFrames: 10, ExtendedDataFrames: 20,
			StandardRemoteFrames: 1, ExtendedRemoteFrames: 2, ErrorFrames: 3, OverloadFrames: 4,
		}},
		&CANDriverError{Header: v1(123), CANDriverErrorFields: CANDriverErrorFields{Channel: 1, TxErrors: 8, RxErrors: 9, ErrorCode: 0x10}},
		&CANFDMessage{
			Header: v1(130), Channel: 1, DLC: 15, ID: 0x100, FrameLength: 1000,
			ArbBitCount: 30, FDFlags: CANFDFlagEDL | CANFDFlagBRS, ValidDataBytes: 64, Data: fdData(64),
		},
		&CANFDMessage{
			Header: v2(131), Channel: 2, DLC: 9, ID: 0x101, FDFlags: CANFDFlagEDL,
			ValidDataBytes: 12, Data: fdData(12),
		},
		&CANFDMessage64{
			Header: v2(140), Channel: 1, DLC: 15, ValidDataBytes: 64, ID: 0x456,
			Flags: CANFD64FlagEDL | CANFD64FlagBRS, BitCount: 600, Dir: 1, CRC: 0xABCDEF,
			Data: seq(64, 0),
		},
		&CANFDMessage64{
			Header: v1(141), Channel: 1, DLC: 8, ValidDataBytes: 8, ID: 0x457,
			ExtDataOffset: HeaderV1Size + canFD64FixedSize + 8,
			Data:          seq(8, 0x20),
			Ext:           &CANFDExtFrameData{BTRExtArb: 0x11, BTRExtData: 0x22},
		},
		&CANFDMessage64{
			Header: v1(142), Channel: 1, DLC: 2, ValidDataBytes: 2, ID: 0x458,
			ExtDataOffset: HeaderV1Size + canFD64FixedSize + 2 + 6,
			Data:          []byte{1, 2},
			Ext: &CANFDExtFrameData{
				BTRExtArb: 0x33, BTRExtData: 0x44, Reserved: []byte{9, 9, 9, 9},
				Gap: []byte{5, 0, 5, 0, 5, 0},
			},
		},

		// LIN
		&LINMessage{Header: v1(200), LINFrameFields: LINFrameFields{
			Channel: 1, ID: 0x21, DLC: 8, Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, FSMID: 1, FSMState: 2,
			HeaderTime: 34, FullTime: 100, CRC: 0x55, Dir: 1,
		}},
		&LINCRCError{Header: v1(201), LINFrameFields: LINFrameFields{Channel: 1, ID: 0x22, DLC: 2, CRC: 0xAA}},
		&LINDLCInfo{Header: v1(202), LINDLCInfoFields: LINDLCInfoFields{Channel: 1, ID: 3, DLC: 4}},
		&LINReceiveError{Header: v1(203), LINReceiveErrorFields: LINReceiveErrorFields{Channel: 1, ID: 4, StateReason: 2, OffendingByte: 0xFF}},
		&LINSendError{Header: v1(204), LINSendErrorFields: LINSendErrorFields{Channel: 1, ID: 5, DLC: 8}},
		&LINSlaveTimeout{Header: v1(205), LINSlaveTimeoutFields: LINSlaveTimeoutFields{Channel: 1, SlaveID: 6, StateID: 1, FollowStateID: 2}},
		&LINSchedulerModeChange{Header: v1(206), LINSchedulerModeChangeFields: LINSchedulerModeChangeFields{Channel: 1, OldMode: 1, NewMode: 2}},
		&LINSyncError{Header: v1(207), LINSyncErrorFields: LINSyncErrorFields{Channel: 1, TimeDiff: [4]uint16{1, 2, 3, 4}}},
		&LINBaudrateEvent{Header: v1(208), LINBaudrateEventFields: LINBaudrateEventFields{Channel: 1, Baudrate: 19200}},
		&LINSleepModeEvent{Header: v1(209), LINSleepModeEventFields: LINSleepModeEventFields{Channel: 1, Reason: 3, Flags: 1}},
		&LINWakeupEvent{Header: v1(210), LINWakeupEventFields: LINWakeupEventFields{Channel: 1, Signal: 0x80, External: 1}},
		&LINMessage2{Header: v1(211), LINMessage2Fields: LINMessage2Fields{Data: [8]byte{1, 2, 3}, CRC: 0x55, Dir: 1}},
		&LINMessage2{
			Header:            v1(212),
			LINMessage2Fields: LINMessage2Fields{Data: [8]byte{4}, Simulated: 1, FSMID: 2, FSMState: 3},
			RespBaudrate:      uint32Ptr(19200),
		},
		&LINMessage2{
			Header:              v2(213),
			LINMessage2Fields:   LINMessage2Fields{Data: [8]byte{5}, IsETF: 1, ETFAssocIndex: 2, ETFAssocETFID: 0x3A},
			RespBaudrate:        uint32Ptr(19200),
			ExactHeaderBaudrate: float64Ptr(19230.75),
		},

		// FlexRay
		&FlexRayData{Header: v1(300), FlexRayDataFields: FlexRayDataFields{Channel: 1, Len: 12, MessageID: 7, Data: [12]byte{1, 2, 3}}},
		&FlexRaySync{Header: v1(301), FlexRaySyncFields: FlexRaySyncFields{Channel: 1, Len: 11, MessageID: 8, Cycle: 63}},
		&FlexRayV6StartCycleEvent{Header: v1(302), FlexRayV6StartCycleEventFields: FlexRayV6StartCycleEventFields{
			Channel: 1, FPGATick: 1000, ClientIdx: 2, ClusterTime: 3, Data: [2]byte{4, 5},
		}},
		&FlexRayV6Message{Header: v1(303), FlexRayV6MessageFields: FlexRayV6MessageFields{
			Channel: 1, FrameID: 12, HeaderCRC: 0x3FF, Length: 4, Cycle: 5, Data: [64]byte{9, 8, 7, 6},
		}},
		&FlexRayStatusEvent{Header: v1(304), FlexRayStatusEventFields: FlexRayStatusEventFields{
			Channel: 1, Version: 2, StatusType: 3, InfoMask1: 4, Reserved: [18]uint16{17: 5},
		}},
		&FlexRayVFrError{Header: v1(305), FlexRayVFrErrorFields: FlexRayVFrErrorFields{
			Channel: 1, Version: 1, ChannelMask: 3, Cycle: 2, Tag: 4, Data: [4]uint32{1, 2, 3, 4},
		}},
		&FlexRayVFrStatus{Header: v1(306), FlexRayVFrStatusFields: FlexRayVFrStatusFields{
			Channel: 1, WUS: 2, CCSyncState: 3, Data: [2]uint32{4, 5},
		}},
		&FlexRayVFrStartCycle{Header: v1(307), FlexRayVFrStartCycleFields: FlexRayVFrStartCycleFields{
			Channel: 1, Cycle: 9, NMSize: 2, DataBytes: [12]byte{0xF0, 0x0F}, Data: [5]uint32{1, 2, 3, 4, 5},
		}},
		&FlexRayVFrReceiveMsg{Header: v2(308), FlexRayVFrReceiveMsgFields: FlexRayVFrReceiveMsgFields{
			Channel: 1, ChannelMask: 1, FrameID: 42, ByteCount: 3, DataCount: 3, Cycle: 7,
			FrameFlags: 0x10, DataBytes: [254]byte{0xA, 0xB, 0xC},
		}},
		&FlexRayVFrReceiveMsgEx{
			Header: v1(309),
			FlexRayVFrReceiveMsgExFields: FlexRayVFrReceiveMsgExFields{
				Channel: 1, ChannelMask: 1, Dir: 1, FrameID: 43, ByteCount: 5, DataCount: 5, Cycle: 8,
				FrameCRC: 0xABCDEF, FrameLengthNS: 5000, FrameID1: 43, BLFLogMask: 1,
			},
			DataBytes: seq(5, 0x20),
		},
		&FlexRayVFrReceiveMsgEx{
			Header: v2(310),
			FlexRayVFrReceiveMsgExFields: FlexRayVFrReceiveMsgExFields{
				Channel: 2, FrameID: 44, ByteCount: 2, DataCount: 2, PDUOffset: 4, Reserved1: [13]uint16{12: 7},
			},
			DataBytes: []byte{0xC0, 0xDE},
			Reserved2: seq(12, 1),
		},

		// MOST
		&MOSTSpy{Header: v1(400), MOSTControlFields: MOSTControlFields{Channel: 1, SourceAdr: 0x100, DestAdr: 0x200, Msg: [17]byte{1, 2}}, CRC: 0x1234},
		&MOSTCtrl{Header: v1(401), MOSTControlFields: MOSTControlFields{Channel: 1, Dir: 1, RTyp: 2, State: 3, AckNack: 1}},
		&MOSTLightLock{Header: v1(402), MOSTLightLockFields: MOSTLightLockFields{Channel: 1, State: -1}},
		&MOSTStatistic{Header: v1(403), MOSTStatisticFields: MOSTStatisticFields{Channel: 1, PktCnt: 2, FrmCnt: 3, LightCnt: -4, BufferLevel: 5}},
		&MOSTHWMode{Header: v1(404), MOSTHWModeFields: MOSTHWModeFields{Channel: 1, HWMode: 2, HWModeMask: 3}},
		&MOSTGenReg{Header: v1(405), MOSTGenRegFields: MOSTGenRegFields{Channel: 1, SubType: 1, Handle: 2, RegID: 3, RegValue: 1 << 40}},
		&MOSTNetState{Header: v1(406), MOSTNetStateFields: MOSTNetStateFields{Channel: 1, StateNew: 2, StateOld: 1}},
		&MOSTPkt2{Header: v1(407), MOSTPkt2Fields: MOSTPkt2Fields{Channel: 1, SourceAdr: 0x101, DestAdr: 0x202}},
		&MOSTPkt2{
			Header: v2(408),
			MOSTPkt2Fields: MOSTPkt2Fields{
				Channel: 1, Dir: 1, Arbitration: 2, QuadsToFollow: 3, CRC: 0xBEEF, Priority: 1,
				TransferType: 1, State: 2, PktDataLength: 13,
			},
			PktData: seq(13, 0x30),
		},
		&MOSTReg{Header: v1(409), MOSTRegFields: MOSTRegFields{
			Channel: 1, SubType: 2, Handle: 3, Offset: 0x400, Chip: 1, RegDataLen: 4, RegData: [16]byte{1, 2, 3, 4},
		}},
		&MOSTDataLost{Header: v2(410), MOSTDataLostFields: MOSTDataLostFields{
			Channel: 1, Info: 3, LostMsgsCtrl: 4, LostMsgsAsync: 5, LastGoodTimeStampNS: 1000, NextGoodTimeStampNS: 5000,
		}},
		&MOSTTrigger{Header: v1(411), MOSTTriggerFields: MOSTTriggerFields{
			Channel: 1, Mode: 2, HW: 3, PreviousTriggerValue: 0, CurrentTriggerValue: 1,
		}},

		// Ethernet
		&EthernetFrame{
			Header:             v1(500),
			SourceAddress:      [6]byte{0x02, 0, 0, 0, 0, 1},
			Channel:            1,
			DestinationAddress: [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			Dir:                EthernetDirTx,
			EtherType:          0x0800,
			TPID:               0x8100,
			TCI:                0x0005,
			Payload:            seq(61, 0),
		},

		// Events
		&AppTrigger{Header: v1(600), AppTriggerFields: AppTriggerFields{PreTriggerTime: 1, PostTriggerTime: 2, Channel: 3, Flags: 4}},
		&EnvVariable{Header: v1(601), Kind: TypeEnvInteger, Name: "speed", Data: []byte{0x2A, 0, 0, 0}},
		&EnvVariable{Header: v1(602), Kind: TypeEnvDouble, Name: "temp", Data: float64Bytes(21.5)},
		&EnvVariable{Header: v1(603), Kind: TypeEnvString, Name: "mode", Data: []byte("sport")},
		&EnvVariable{Header: v1(604), Kind: TypeEnvData, Name: "blob", Data: []byte{0, 1, 2}},
		&AppText{Header: v1(605), Source: AppTextSourceMetaData, Text: "<channels/>"},
		&SystemVariable{Header: v1(606), VarType: SysVarLong, Name: "ns::var", Data: []byte{1, 0, 0, 0}},
		&EventComment{Header: v1(607), CommentedEventType: TypeCANMessage, Text: "look here"},
		&GlobalMarker{
			Header: v1(608), CommentedEventType: TypeCANMessage, ForegroundColor: 0xFF0000,
			BackgroundColor: 0x00FF00, Relocatable: 1, GroupName: "group", MarkerName: "m1",
			Description: "first marker",
		},
		&DataLostBegin{Header: v1(609), DataLostBeginFields: DataLostBeginFields{QueueID: 1}},
		&DataLostEnd{Header: v1(610), DataLostEndFields: DataLostEndFields{QueueID: 1, FirstObjectLostTimeStamp: 600, NumberOfLostEvents: 12}},

		// Unregistered
		&Raw{Header: Header{Base: Base{HeaderVersion: HeaderVersion1, ObjectType: TypeMOSTPkt}}, Payload: seq(13, 0)},
	}
}

var _ = Describe("Encoding", func() {
	It("has a sample for every registered type", func() {
		seen := make(map[Type]bool)
		for _, o := range sampleObjects() {
			seen[o.Type()] = true
		}
		for _, t := range DefaultRegistry().Types() {
			Expect(seen).To(HaveKey(t), "missing sample for %s", t)
		}
	})

	It("round trips every sample", func() {
		for _, o := range sampleObjects() {
			b, err := Encode(o)
			Expect(err).ToNot(HaveOccurred(), "encoding %s", o.Type())
			Expect(len(b) % 4).To(Equal(0))
			Expect(uint64(len(b))).To(Equal(PaddedSize(o.ObjectHeader().ObjectSize)))

			d, _, err := Decode(nil, b)
			Expect(err).ToNot(HaveOccurred())
			Expect(d).To(Equal(o), "round trip of %s", o.Type())

			again, err := Encode(d)
			Expect(err).ToNot(HaveOccurred())
			Expect(again).To(Equal(b))
		}
	})

	It("appends to an existing buffer", func() {
		objs := sampleObjects()[:3]
		var b []byte
		var offsets []int
		for _, o := range objs {
			offsets = append(offsets, len(b))
			var err error
			b, err = AppendEncoded(b, o)
			Expect(err).ToNot(HaveOccurred())
		}

		for i, o := range objs {
			d, _, err := Decode(nil, b[offsets[i]:])
			Expect(err).ToNot(HaveOccurred())
			Expect(d).To(Equal(o))
		}
	})

	It("defaults to a version 1 header", func() {
		o := &CANMessage{CANFrame: CANFrame{DLC: 1}}
		b, err := Encode(o)
		Expect(err).ToNot(HaveOccurred())
		Expect(o.HeaderVersion).To(Equal(uint16(HeaderVersion1)))
		Expect(o.HeaderSize).To(Equal(uint16(HeaderV1Size)))
		Expect(o.ObjectSize).To(Equal(uint32(48)))
		Expect(b).To(HaveLen(48))
	})

	It("refuses inconsistent variable-length fields", func() {
		_, err := Encode(&CANFDMessage64{ValidDataBytes: 4, Data: []byte{1}})
		Expect(err).To(HaveOccurred())

		_, err = Encode(&CANFDMessage64{ExtDataOffset: 10, Ext: &CANFDExtFrameData{}})
		Expect(err).To(HaveOccurred())

		_, err = Encode(&EnvVariable{Name: "no kind"})
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("classic CAN DLC validation",
		func(dlc uint8, length int, warn bool) {
			o := &CANMessage{CANFrame: CANFrame{DLC: dlc, Data: canData(dlc)}}
			b, err := Encode(o)
			Expect(err).ToNot(HaveOccurred())

			d, warnings, err := Decode(nil, b)
			Expect(err).ToNot(HaveOccurred())
			Expect(d.(*CANMessage).Payload()).To(HaveLen(length))
			if warn {
				Expect(warnings).To(ConsistOf(&FieldValidationWarning{
					Type: TypeCANMessage, Field: "dlc", Declared: int64(dlc), Expected: 8,
				}))
			} else {
				Expect(warnings).To(BeEmpty())
			}
		},
		Entry("DLC 0", uint8(0), 0, false),
		Entry("DLC 8", uint8(8), 8, false),
		Entry("DLC 9", uint8(9), 8, true),
		Entry("DLC 15", uint8(15), 8, true),
	)
})

var _ = Describe("Environment variables", func() {
	It("interprets integer and double values", func() {
		i := &EnvVariable{Kind: TypeEnvInteger, Data: []byte{0xFE, 0xFF, 0xFF, 0xFF}}
		iv, ok := i.Int()
		Expect(ok).To(BeTrue())
		Expect(iv).To(Equal(int32(-2)))
		_, ok = i.Float()
		Expect(ok).To(BeFalse())

		f := &EnvVariable{Kind: TypeEnvDouble, Data: float64Bytes(3.25)}
		fv, ok := f.Float()
		Expect(ok).To(BeTrue())
		Expect(fv).To(Equal(3.25))
	})
})

var _ = Describe("Ethernet frames", func() {
	It("extracts the VLAN identifier", func() {
		o := &EthernetFrame{TPID: 0x8100, TCI: 0xA00C}
		Expect(o.VLANID()).To(Equal(uint16(0x00C)))
	})

	It("rejects payload lengths past the record", func() {
		o := &EthernetFrame{Payload: seq(8, 0)}
		b, err := Encode(o)
		Expect(err).ToNot(HaveOccurred())
		binary.LittleEndian.PutUint16(b[HeaderV1Size+22:], 200)

		d, warnings, err := Decode(nil, b)
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&Raw{}))
		Expect(warnings).To(HaveLen(1))
	})
})

var _ = Describe("LIN_MESSAGE2 records", func() {
	fixed := func() []byte {
		b, err := packFields(nil, &LINMessage2Fields{Data: [8]byte{1}, CRC: 2})
		Expect(err).ToNot(HaveOccurred())
		Expect(b).To(HaveLen(23))
		return b
	}

	It("reads a response baud rate without an exact header baud rate", func() {
		body := binary.LittleEndian.AppendUint32(fixed(), 9600)
		o, warnings, err := Decode(nil, record(TypeLINMessage2, HeaderVersion1, body))
		Expect(err).ToNot(HaveOccurred())
		Expect(warnings).To(BeEmpty())

		m := o.(*LINMessage2)
		Expect(m.RespBaudrate).To(Equal(uint32Ptr(9600)))
		Expect(m.ExactHeaderBaudrate).To(BeNil())
	})

	It("keeps a partial extension as trailing bytes", func() {
		body := append(binary.LittleEndian.AppendUint32(fixed(), 9600), 0xAA, 0xBB)
		o, warnings, err := Decode(nil, record(TypeLINMessage2, HeaderVersion1, body))
		Expect(err).ToNot(HaveOccurred())
		Expect(o.(*LINMessage2).ExactHeaderBaudrate).To(BeNil())
		Expect(o.ObjectHeader().Trailing).To(Equal([]byte{0xAA, 0xBB}))
		Expect(warnings).To(ConsistOf(&FieldValidationWarning{
			Type: TypeLINMessage2, Field: "object_size", Declared: int64(HeaderV1Size + 29), Expected: int64(HeaderV1Size + 27),
		}))
	})

	It("refuses an exact header baud rate without a response baud rate", func() {
		_, err := Encode(&LINMessage2{ExactHeaderBaudrate: float64Ptr(19200)})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("FR_RCVMESSAGE_EX records", func() {
	It("rejects a data count past the record", func() {
		b, err := Encode(&FlexRayVFrReceiveMsgEx{DataBytes: seq(4, 0)})
		Expect(err).ToNot(HaveOccurred())
		binary.LittleEndian.PutUint16(b[HeaderV1Size+24:], 1000)

		d, warnings, err := Decode(nil, b)
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&Raw{}))
		Expect(warnings).To(HaveLen(1))
	})

	It("derives the data count from the payload", func() {
		o := &FlexRayVFrReceiveMsgEx{
			FlexRayVFrReceiveMsgExFields: FlexRayVFrReceiveMsgExFields{DataCount: 99},
			DataBytes:                    seq(3, 0),
		}
		b, err := Encode(o)
		Expect(err).ToNot(HaveOccurred())

		d, _, err := Decode(nil, b)
		Expect(err).ToNot(HaveOccurred())
		Expect(d.(*FlexRayVFrReceiveMsgEx).DataCount).To(Equal(uint16(3)))
	})
})

var _ = Describe("MOST records", func() {
	It("rejects a packet length past the record", func() {
		b, err := Encode(&MOSTPkt2{PktData: seq(8, 0)})
		Expect(err).ToNot(HaveOccurred())
		binary.LittleEndian.PutUint32(b[HeaderV1Size+24:], math.MaxUint32)

		d, warnings, err := Decode(nil, b)
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&Raw{}))
		Expect(warnings).To(HaveLen(1))
		Expect(warnings[0]).To(BeAssignableToTypeOf(&DecodeError{}))
	})

	It("warns about a register length past the register data", func() {
		b, err := Encode(&MOSTReg{MOSTRegFields: MOSTRegFields{RegDataLen: 20, RegData: [16]byte{1}}})
		Expect(err).ToNot(HaveOccurred())

		d, warnings, err := Decode(nil, b)
		Expect(err).ToNot(HaveOccurred())
		Expect(d.(*MOSTReg).Payload()).To(HaveLen(16))
		Expect(warnings).To(ConsistOf(&FieldValidationWarning{
			Type: TypeMOSTReg, Field: "reg_data_len", Declared: 20, Expected: 16,
		}))
	})
})
