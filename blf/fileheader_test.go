// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"bytes"
	"time"

	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("FileHeader", func() {
	It("encodes to exactly FileHeaderSize bytes", func() {
		h := newFileHeader()
		h.ObjectCount = 12
		b, err := appendFileHeader(nil, &h)
		Expect(err).ToNot(HaveOccurred())
		Expect(b).To(HaveLen(FileHeaderSize))
		Expect(b[:4]).To(Equal([]byte("LOGG")))
		Expect(b[32:36]).To(Equal([]byte{12, 0, 0, 0}))
	})

	It("round-trips through readFileHeader", func() {
		h := newFileHeader()
		h.ApplicationID = 5
		h.ApplicationMajor, h.ApplicationMinor = 2, 3
		h.FileSize = 1 << 40
		h.MeasurementStartTime = MakeSystemTime(time.Date(2021, 3, 4, 5, 6, 7, 8e6, time.UTC))

		b, err := appendFileHeader(nil, &h)
		Expect(err).ToNot(HaveOccurred())
		got, err := readFileHeader(bytes.NewReader(b))
		Expect(err).ToNot(HaveOccurred())
		Expect(*got).To(Equal(h))
	})

	It("skips statistics bytes beyond the defined header", func() {
		h := newFileHeader()
		h.StatisticsSize = FileHeaderSize + 16
		b, err := appendFileHeader(nil, &h)
		Expect(err).ToNot(HaveOccurred())
		b = append(b, bytes.Repeat([]byte{0xAA}, 16)...)
		b = append(b, 'X')

		r := bytes.NewReader(b)
		_, err = readFileHeader(r)
		Expect(err).ToNot(HaveOccurred())
		Expect(r.Len()).To(Equal(1))
	})

	Context("rejects", func() {
		expectFormatError := func(b []byte, reason string) {
			_, err := readFileHeader(bytes.NewReader(b))
			var fe *FormatError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Reason).To(Equal(reason))
		}

		It("a bad signature", func() {
			h := newFileHeader()
			h.Signature = 0x12345678
			expectFormatError(buildFile(h), "bad signature")
		})

		It("a statistics size below the header size", func() {
			h := newFileHeader()
			h.StatisticsSize = 100
			expectFormatError(buildFile(h), "statistics size out of range")
		})

		It("a statistics size above the limit", func() {
			h := newFileHeader()
			h.StatisticsSize = MaxFileHeaderSize + 1
			expectFormatError(buildFile(h), "statistics size out of range")
		})

		It("a short header", func() {
			expectFormatError(buildFile(newFileHeader())[:100], "short file header")
		})

		It("missing statistics bytes", func() {
			h := newFileHeader()
			h.StatisticsSize = FileHeaderSize + 8
			expectFormatError(buildFile(h), "short file header")
		})
	})
})

var _ = Describe("SystemTime", func() {
	It("converts to and from time.Time", func() {
		t := time.Date(2019, 12, 31, 23, 59, 58, 999e6, time.UTC)
		st := MakeSystemTime(t)
		Expect(st).To(Equal(SystemTime{
			Year: 2019, Month: 12, DayOfWeek: 2, Day: 31,
			Hour: 23, Minute: 59, Second: 58, Milliseconds: 999,
		}))
		Expect(st.Time()).To(Equal(t))
	})

	It("truncates to the millisecond and normalizes to UTC", func() {
		loc := time.FixedZone("test", 2*60*60)
		t := time.Date(2020, 6, 1, 2, 0, 0, 1234567, loc)
		Expect(MakeSystemTime(t).Time()).To(Equal(time.Date(2020, 6, 1, 0, 0, 0, 1e6, time.UTC)))
	})

	It("maps the zero value to an unset time", func() {
		Expect(MakeSystemTime(time.Time{}).IsZero()).To(BeTrue())
		Expect(SystemTime{}.Time().IsZero()).To(BeTrue())
	})
})
