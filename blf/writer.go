// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"io"
	"math"
	"time"

	"github.com/danjacques/goblf/blf/container"
	"github.com/danjacques/goblf/blf/object"
	"github.com/danjacques/goblf/support/logging"
	"github.com/danjacques/goblf/support/stagingdir"

	"github.com/pkg/errors"
)

// Writer writes objects to a BLF file, packing them into containers.
//
// Objects are encoded as they are written and may straddle containers. The
// file header is completed when the Writer is closed.
type Writer struct {
	cfg    *WriterConfig
	logger logging.L

	w      io.WriteSeeker
	staged *stagingdir.File

	header FileHeader
	start  time.Time
	last   time.Duration

	// pending holds encoded objects not yet written in a container.
	pending []byte
	// scratch holds the encoded container being written.
	scratch []byte

	fileSize     uint64
	uncompressed uint64
	containers   int

	err    error
	closed bool
}

// Header returns the file header as it currently stands.
func (w *Writer) Header() *FileHeader { return &w.header }

// Write encodes o and queues it for the next container. The header fields of
// o are finalized by encoding.
func (w *Writer) Write(o object.Object) error {
	if err := w.usable(); err != nil {
		return err
	}
	if w.header.ObjectCount == math.MaxUint32 {
		return errors.New("too many objects")
	}

	pending, err := object.AppendEncoded(w.pending, o)
	if err != nil {
		return err
	}
	w.pending = pending
	w.header.ObjectCount++
	objectsWritten.Inc()

	if d := o.ObjectHeader().Duration(); d > w.last {
		w.last = d
	}

	size := w.cfg.containerSize()
	if len(w.pending) < size {
		return nil
	}
	off := 0
	for ; len(w.pending)-off >= size; off += size {
		if err := w.writeContainer(w.pending[off : off+size]); err != nil {
			return err
		}
	}
	w.pending = w.pending[:copy(w.pending, w.pending[off:])]
	return nil
}

// Flush writes any queued objects in a final, possibly short, container.
func (w *Writer) Flush() error {
	if err := w.usable(); err != nil {
		return err
	}
	if len(w.pending) == 0 {
		return nil
	}
	if err := w.writeContainer(w.pending); err != nil {
		return err
	}
	w.pending = w.pending[:0]
	return nil
}

// Close flushes queued objects, rewrites the file header and, if the Writer
// created its file, moves it into place.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	err := w.Flush()
	if err == nil {
		err = w.finish()
	}
	w.closed = true

	if w.staged != nil {
		if err != nil {
			_ = w.staged.Abort()
			return err
		}
		return w.staged.Commit()
	}
	return err
}

func (w *Writer) usable() error {
	switch {
	case w.closed:
		return errors.New("writer is closed")
	case w.err != nil:
		return w.err
	default:
		return nil
	}
}

func (w *Writer) finish() error {
	w.header.FileSize = w.fileSize
	w.header.UncompressedFileSize = w.uncompressed
	if w.header.ObjectCount > 0 {
		w.header.MeasurementStartTime = MakeSystemTime(w.start)
		w.header.LastObjectTime = MakeSystemTime(w.start.Add(w.last))
	}

	if _, err := w.w.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "seeking to file header")
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.logger.Debugf("Wrote %d object(s) in %d container(s), %d bytes.", w.header.ObjectCount, w.containers, w.fileSize)
	return nil
}

func (w *Writer) writeHeader() error {
	b, err := appendFileHeader(w.scratch[:0], &w.header)
	if err != nil {
		return err
	}
	w.scratch = b
	if _, err := w.w.Write(b); err != nil {
		return errors.Wrap(err, "writing file header")
	}
	if w.fileSize == 0 {
		w.fileSize = uint64(len(b))
		w.uncompressed = uint64(len(b))
	}
	return nil
}

func (w *Writer) writeContainer(data []byte) error {
	c, err := container.New(w.cfg.CompressionMethod, w.cfg.CompressionLevel, data)
	if err != nil {
		w.err = err
		return err
	}
	b, err := c.Append(w.scratch[:0])
	if err != nil {
		w.err = err
		return err
	}
	w.scratch = b

	if _, err := w.w.Write(b); err != nil {
		w.err = errors.Wrap(err, "writing container")
		return w.err
	}

	w.containers++
	w.fileSize += uint64(len(b))
	w.uncompressed += object.PaddedSize(uint32(object.HeaderV1Size + container.FieldsSize + len(data)))
	containersWritten.Inc()
	w.logger.Debugf("Wrote container #%d (%d bytes, %d uncompressed).", w.containers, len(b), len(data))
	return nil
}
