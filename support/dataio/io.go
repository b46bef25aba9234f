// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package dataio holds small I/O helpers shared by the BLF and export
// readers and writers.
package dataio

import (
	"io"
)

// Reader reads both byte runs and single bytes.
type Reader interface {
	io.Reader
	io.ByteReader
}

// Writer writes both byte runs and single bytes.
type Writer interface {
	io.Writer
	io.ByteWriter
}

// MakeReader returns r as a Reader, adding ReadByte if r lacks it.
func MakeReader(r io.Reader) Reader {
	if dr, ok := r.(Reader); ok {
		return dr
	}
	return byteReader{r}
}

// MakeWriter returns w as a Writer, adding WriteByte if w lacks it.
func MakeWriter(w io.Writer) Writer {
	if dw, ok := w.(Writer); ok {
		return dw
	}
	return byteWriter{w}
}

type byteReader struct{ io.Reader }

func (r byteReader) ReadByte() (byte, error) {
	var d [1]byte
	if _, err := io.ReadFull(r.Reader, d[:]); err != nil {
		return 0, err
	}
	return d[0], nil
}

type byteWriter struct{ io.Writer }

func (w byteWriter) WriteByte(c byte) error {
	amt, err := w.Write([]byte{c})
	if err == nil && amt != 1 {
		err = io.ErrShortWrite
	}
	return err
}

// ReadFull reads from r until buf is full, or until an error is encountered.
//
// It returns the number of bytes that were read. If the source ended before
// buf was filled, the error is io.EOF when nothing was read and
// io.ErrUnexpectedEOF otherwise, so callers can tell a clean boundary from a
// truncated one.
func ReadFull(r io.Reader, buf []byte) (int, error) {
	count := 0
	for remaining := buf; len(remaining) > 0; {
		amt, err := r.Read(remaining)
		remaining = remaining[amt:]
		count += amt
		if err != nil {
			switch {
			case len(remaining) == 0:
				// Finished read, possibly returning EOF alongside the last bytes.
				return count, nil
			case err == io.EOF && count > 0:
				return count, io.ErrUnexpectedEOF
			default:
				return count, err
			}
		}
	}
	return count, nil
}
