// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"bytes"
	"io"
	"time"

	"github.com/danjacques/goblf/support/dataio"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// FileSignature is the magic value ("LOGG") that begins every BLF file.
const FileSignature uint32 = 0x47474F4C

// Bounds of the file header's statistics_size field.
const (
	FileHeaderSize    = 144
	MaxFileHeaderSize = 65536
)

// APINumber is the API number written to new files.
const APINumber = 4070100

// SystemTime is a Windows SYSTEMTIME value.
type SystemTime struct {
	Year         uint16 `struc:",little"`
	Month        uint16 `struc:",little"`
	DayOfWeek    uint16 `struc:",little"`
	Day          uint16 `struc:",little"`
	Hour         uint16 `struc:",little"`
	Minute       uint16 `struc:",little"`
	Second       uint16 `struc:",little"`
	Milliseconds uint16 `struc:",little"`
}

// IsZero returns true if st is unset.
func (st SystemTime) IsZero() bool { return st.Year == 0 }

// Time returns st as a UTC time. An unset SystemTime returns the zero Time.
func (st SystemTime) Time() time.Time {
	if st.IsZero() {
		return time.Time{}
	}
	return time.Date(int(st.Year), time.Month(st.Month), int(st.Day),
		int(st.Hour), int(st.Minute), int(st.Second), int(st.Milliseconds)*int(time.Millisecond), time.UTC)
}

// MakeSystemTime converts t to a SystemTime in UTC, truncated to the
// millisecond. The zero Time converts to an unset SystemTime.
func MakeSystemTime(t time.Time) SystemTime {
	if t.IsZero() {
		return SystemTime{}
	}
	t = t.UTC()
	return SystemTime{
		Year:         uint16(t.Year()),
		Month:        uint16(t.Month()),
		DayOfWeek:    uint16(t.Weekday()),
		Day:          uint16(t.Day()),
		Hour:         uint16(t.Hour()),
		Minute:       uint16(t.Minute()),
		Second:       uint16(t.Second()),
		Milliseconds: uint16(t.Nanosecond() / int(time.Millisecond)),
	}
}

// FileHeader is the statistics block at the start of a BLF file.
type FileHeader struct {
	Signature            uint32 `struc:",little"`
	StatisticsSize       uint32 `struc:",little"`
	APINumber            uint32 `struc:",little"`
	ApplicationID        uint8
	CompressionLevel     uint8
	ApplicationMajor     uint8
	ApplicationMinor     uint8
	FileSize             uint64 `struc:",little"`
	UncompressedFileSize uint64 `struc:",little"`
	ObjectCount          uint32 `struc:",little"`
	ApplicationBuild     uint32 `struc:",little"`
	MeasurementStartTime SystemTime
	LastObjectTime       SystemTime
	RestorePointsOffset  uint64     `struc:",little"`
	Reserved             [16]uint32 `struc:",little"`
}

// Validate checks the header's signature and size.
func (h *FileHeader) Validate() error {
	if h.Signature != FileSignature {
		return &FormatError{Reason: "bad signature", Value: uint64(h.Signature)}
	}
	if h.StatisticsSize < FileHeaderSize || h.StatisticsSize > MaxFileHeaderSize {
		return &FormatError{Reason: "statistics size out of range", Value: uint64(h.StatisticsSize)}
	}
	return nil
}

// readFileHeader reads and validates a file header from r, consuming exactly
// StatisticsSize bytes.
func readFileHeader(r io.Reader) (*FileHeader, error) {
	var buf [FileHeaderSize]byte
	if _, err := dataio.ReadFull(r, buf[:]); err != nil {
		return nil, &FormatError{Reason: "short file header", Err: err}
	}

	var h FileHeader
	if err := struc.Unpack(bytes.NewReader(buf[:]), &h); err != nil {
		return nil, &FormatError{Reason: "unpacking file header", Err: err}
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	if extra := int64(h.StatisticsSize) - FileHeaderSize; extra > 0 {
		switch n, err := io.CopyN(io.Discard, r, extra); {
		case n < extra:
			return nil, &FormatError{Reason: "short file header", Value: uint64(h.StatisticsSize), Err: err}
		case err != nil:
			return nil, errors.Wrap(err, "skipping file header")
		}
	}
	return &h, nil
}

// appendFileHeader appends the FileHeaderSize-byte encoding of h to b.
func appendFileHeader(b []byte, h *FileHeader) ([]byte, error) {
	buf := bytes.NewBuffer(b)
	if err := struc.Pack(buf, h); err != nil {
		return b, errors.Wrap(err, "packing file header")
	}
	return buf.Bytes(), nil
}
