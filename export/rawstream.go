// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package export

import (
	"bufio"
	"io"

	"github.com/danjacques/goblf/support/dataio"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// rawStreamBufferSize is the buffer size used for reading and writing.
const rawStreamBufferSize = 1024 * 1024

type rawStreamReader struct {
	// Currently connected to the source reader.
	dataio.Reader

	br      *bufio.Reader
	snappyR *snappy.Reader
	gzipR   *gzip.Reader
}

func newRawStreamReader(base io.Reader) *rawStreamReader {
	r := rawStreamReader{
		br: bufio.NewReaderSize(base, rawStreamBufferSize),
	}
	r.Reader = r.br
	return &r
}

// beginDecompression switches r to reading the rest of its stream with comp.
func (r *rawStreamReader) beginDecompression(comp Compression) error {
	switch comp {
	case CompressionSnappy:
		r.snappyR = snappy.NewReader(r.br)
		r.Reader = dataio.MakeReader(r.snappyR)

	case CompressionGzip:
		gz, err := gzip.NewReader(r.br)
		if err != nil {
			return errors.Wrap(err, "creating gzip reader")
		}
		r.gzipR = gz
		r.Reader = dataio.MakeReader(r.gzipR)

	case CompressionNone:
		r.Reader = r.br

	default:
		return errors.Errorf("unknown compression: %s", comp)
	}
	return nil
}

type rawStreamWriter struct {
	dataio.Writer

	closer  io.Closer
	bw      *bufio.Writer
	snappyW *snappy.Writer
	gzipW   *gzip.Writer
}

// newRawStreamWriter returns a writer to base. If closer is not nil, it is
// closed when the writer is closed.
func newRawStreamWriter(base io.Writer, closer io.Closer) *rawStreamWriter {
	w := rawStreamWriter{
		bw:     bufio.NewWriterSize(base, rawStreamBufferSize),
		closer: closer,
	}
	w.Writer = w.bw
	return &w
}

// beginCompression compresses everything written to w from now on.
func (w *rawStreamWriter) beginCompression(comp Compression, level int) error {
	switch comp {
	case CompressionSnappy:
		w.snappyW = snappy.NewBufferedWriter(w.bw)
		w.Writer = dataio.MakeWriter(w.snappyW)

	case CompressionGzip:
		if level <= 0 {
			level = gzip.DefaultCompression
		}

		gw, err := gzip.NewWriterLevel(w.bw, level)
		if err != nil {
			return errors.Wrap(err, "creating gzip writer")
		}
		w.gzipW = gw
		w.Writer = dataio.MakeWriter(w.gzipW)

	case CompressionNone:
		w.Writer = w.bw

	default:
		return errors.Errorf("unknown compression: %s", comp)
	}
	return nil
}

func (w *rawStreamWriter) Close() (err error) {
	// Always close our underlying base, if we have one.
	if w.closer != nil {
		defer func() {
			closeErr := w.closer.Close()
			if err == nil {
				err = closeErr
			}
		}()
	}

	if w.snappyW != nil {
		if err = w.snappyW.Close(); err != nil {
			return
		}
	}
	if w.gzipW != nil {
		if err = w.gzipW.Close(); err != nil {
			return
		}
	}

	err = w.bw.Flush()
	return
}
