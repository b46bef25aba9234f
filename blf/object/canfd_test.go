// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package object

import (
	"bytes"
	"encoding/binary"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("CAN FD", func() {
	DescribeTable("DLC to length",
		func(dlc uint8, fd bool, length int) {
			Expect(DLCToLength(dlc, fd)).To(Equal(length))
		},
		Entry("classic 8", uint8(8), false, 8),
		Entry("classic 9 is capped", uint8(9), false, 8),
		Entry("FD 8", uint8(8), true, 8),
		Entry("FD 9", uint8(9), true, 12),
		Entry("FD 12", uint8(12), true, 24),
		Entry("FD 13", uint8(13), true, 32),
		Entry("FD 15", uint8(15), true, 64),
	)

	It("finds the smallest DLC for a length", func() {
		Expect(LengthToDLC(0)).To(Equal(uint8(0)))
		Expect(LengthToDLC(8)).To(Equal(uint8(8)))
		Expect(LengthToDLC(9)).To(Equal(uint8(9)))
		Expect(LengthToDLC(33)).To(Equal(uint8(14)))
		Expect(LengthToDLC(64)).To(Equal(uint8(15)))
	})

	Context("CANFDMessage64", func() {
		It("decodes a 64-byte frame with EDL and BRS set", func() {
			body := make([]byte, canFD64FixedSize, canFD64FixedSize+64)
			body[0] = 1  // Channel
			body[1] = 15 // DLC
			body[2] = 64 // ValidDataBytes
			le := binary.LittleEndian
			le.PutUint32(body[4:], 0x456)
			le.PutUint32(body[12:], CANFD64FlagEDL|CANFD64FlagBRS)
			body = append(body, seq(64, 0)...)
			b := record(TypeCANFDMessage64, HeaderVersion2, body)

			o, warnings, err := Decode(nil, b)
			Expect(err).ToNot(HaveOccurred())
			Expect(warnings).To(BeEmpty())

			m := o.(*CANFDMessage64)
			Expect(m.IsFD()).To(BeTrue())
			Expect(m.HasBRS()).To(BeTrue())
			Expect(m.HasESI()).To(BeFalse())
			Expect(m.ID).To(Equal(CANID(0x456)))
			Expect(m.Payload()).To(Equal(seq(64, 0)))
			Expect(m.Ext).To(BeNil())

			enc, err := Encode(o)
			Expect(err).ToNot(HaveOccurred())
			Expect(enc).To(Equal(b))
		})

		It("ignores an extension offset outside the record", func() {
			o := &CANFDMessage64{DLC: 1, ValidDataBytes: 1, Data: []byte{7}, ExtDataOffset: 200}
			b, err := Encode(o)
			Expect(err).ToNot(HaveOccurred())

			d, _, err := Decode(nil, b)
			Expect(err).ToNot(HaveOccurred())
			Expect(d.(*CANFDMessage64).Ext).To(BeNil())
			Expect(d.(*CANFDMessage64).ExtDataOffset).To(Equal(uint8(200)))
		})

		It("keeps the bytes between the data and the extension block", func() {
			o := &CANFDMessage64{
				DLC: 8, ValidDataBytes: 8, Data: seq(8, 0x20),
				ExtDataOffset: HeaderV1Size + canFD64FixedSize + 16,
				Ext:           &CANFDExtFrameData{BTRExtArb: 0x11, BTRExtData: 0x22},
			}
			b, err := Encode(o)
			Expect(err).ToNot(HaveOccurred())
			gapStart := HeaderV1Size + canFD64FixedSize + 8
			Expect(b[gapStart : gapStart+8]).To(Equal(make([]byte, 8)))
			for i := gapStart; i < gapStart+8; i++ {
				b[i] = 0xEE
			}

			d, warnings, err := Decode(nil, b)
			Expect(err).ToNot(HaveOccurred())
			Expect(warnings).To(BeEmpty())
			m := d.(*CANFDMessage64)
			Expect(m.Ext.Gap).To(Equal(bytes.Repeat([]byte{0xEE}, 8)))
			Expect(m.Ext.BTRExtArb).To(Equal(uint32(0x11)))

			again, err := Encode(m)
			Expect(err).ToNot(HaveOccurred())
			Expect(again).To(Equal(b))
		})

		It("rejects an extension gap that does not fit", func() {
			_, err := Encode(&CANFDMessage64{
				ExtDataOffset: HeaderV1Size + canFD64FixedSize + 4,
				Ext:           &CANFDExtFrameData{Gap: []byte{1, 2}},
			})
			Expect(err).To(HaveOccurred())
		})

		It("warns when valid_data_bytes disagrees with the DLC", func() {
			o := &CANFDMessage64{DLC: 9, Flags: CANFD64FlagEDL, ValidDataBytes: 8, Data: seq(8, 0)}
			b, err := Encode(o)
			Expect(err).ToNot(HaveOccurred())

			_, warnings, err := Decode(nil, b)
			Expect(err).ToNot(HaveOccurred())
			Expect(warnings).To(ConsistOf(&FieldValidationWarning{
				Type: TypeCANFDMessage64, Field: "valid_data_bytes", Declared: 8, Expected: 12,
			}))
		})

		It("rejects valid_data_bytes past the record", func() {
			o := &CANFDMessage64{DLC: 8, ValidDataBytes: 8, Data: seq(8, 0)}
			b, err := Encode(o)
			Expect(err).ToNot(HaveOccurred())
			b[HeaderV1Size+2] = 64

			d, warnings, err := Decode(nil, b)
			Expect(err).ToNot(HaveOccurred())
			Expect(d).To(BeAssignableToTypeOf(&Raw{}))
			Expect(warnings).To(HaveLen(1))
		})
	})

	Context("CANFDMessage", func() {
		It("uses its own flag bits", func() {
			o := &CANFDMessage{FDFlags: CANFDFlagEDL | CANFDFlagESI}
			Expect(o.IsFD()).To(BeTrue())
			Expect(o.HasBRS()).To(BeFalse())
			Expect(o.HasESI()).To(BeTrue())
		})

		It("encodes the fixed layout", func() {
			o := &CANFDMessage{DLC: 9, FDFlags: CANFDFlagEDL, ValidDataBytes: 12}
			b, err := Encode(o)
			Expect(err).ToNot(HaveOccurred())
			Expect(b).To(HaveLen(HeaderV1Size + 88))
			Expect(b[HeaderV1Size+13]).To(Equal(CANFDFlagEDL))
			Expect(b[HeaderV1Size+14]).To(Equal(uint8(12)))
		})

		It("warns when valid_data_bytes disagrees with the DLC", func() {
			o := &CANFDMessage{DLC: 15, FDFlags: CANFDFlagEDL, ValidDataBytes: 48}
			b, err := Encode(o)
			Expect(err).ToNot(HaveOccurred())

			d, warnings, err := Decode(nil, b)
			Expect(err).ToNot(HaveOccurred())
			Expect(d.(*CANFDMessage).Payload()).To(HaveLen(48))
			Expect(warnings).To(ConsistOf(&FieldValidationWarning{
				Type: TypeCANFDMessage, Field: "valid_data_bytes", Declared: 48, Expected: 64,
			}))
		})
	})
})
