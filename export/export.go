// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package export writes decoded BLF records to a compact record stream, and
// reads them back.
//
// An export file is a sequence of varint-length-prefixed protobuf Struct
// messages. The first describes the file and is never compressed; the
// records that follow are compressed as it declares.
package export

import (
	"fmt"
	"os"
	"time"

	"github.com/danjacques/goblf/blf"
	"github.com/danjacques/goblf/blf/frame"
	"github.com/danjacques/goblf/support/protostream"
	"github.com/danjacques/goblf/support/stagingdir"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

// FormatName identifies export files.
const FormatName = "goblf-export"

// FormatVersion is the version of the export format written by this package.
const FormatVersion = 1

// Metadata describes an export file.
type Metadata struct {
	Compression Compression
	Created     time.Time

	// Source file details, if known.
	Application      string
	ObjectCount      uint32
	MeasurementStart time.Time
}

func (md *Metadata) toStruct() (*structpb.Struct, error) {
	m := map[string]interface{}{
		"format":      FormatName,
		"version":     FormatVersion,
		"compression": md.Compression.String(),
		"created":     md.Created.UTC().Format(time.RFC3339Nano),
	}
	if md.Application != "" {
		m["application"] = md.Application
	}
	if md.ObjectCount > 0 {
		m["object_count"] = md.ObjectCount
	}
	if !md.MeasurementStart.IsZero() {
		m["measurement_start"] = md.MeasurementStart.UTC().Format(time.RFC3339Nano)
	}
	return structpb.NewStruct(m)
}

func metadataFromStruct(s *structpb.Struct) (*Metadata, error) {
	f := s.GetFields()
	if name := f["format"].GetStringValue(); name != FormatName {
		return nil, errors.Errorf("not an export file (format %q)", name)
	}
	if v := f["version"].GetNumberValue(); v != FormatVersion {
		return nil, errors.Errorf("unsupported export version %v", v)
	}

	var md Metadata
	var err error
	if md.Compression, err = ParseCompression(f["compression"].GetStringValue()); err != nil {
		return nil, err
	}
	if md.Created, err = time.Parse(time.RFC3339Nano, f["created"].GetStringValue()); err != nil {
		return nil, errors.Wrap(err, "parsing creation time")
	}
	md.Application = f["application"].GetStringValue()
	md.ObjectCount = uint32(f["object_count"].GetNumberValue())
	if v := f["measurement_start"].GetStringValue(); v != "" {
		if md.MeasurementStart, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, errors.Wrap(err, "parsing measurement start")
		}
	}
	return &md, nil
}

// WriterConfig configures an export Writer.
type WriterConfig struct {
	// Compression is the compression to use when writing a file.
	Compression Compression
	// CompressionLevel is the compression level to apply to Compression, if
	// applicable.
	CompressionLevel int

	// Database, if not nil, annotates exported frames with message names.
	Database frame.Database

	// NowFunc, if not nil, is the function to use to get the current time. If
	// nil, time.Now will be used.
	NowFunc func() time.Time
}

func (cfg *WriterConfig) now() time.Time {
	if cfg.NowFunc != nil {
		return cfg.NowFunc()
	}
	return time.Now()
}

// Writer writes records to an export file.
type Writer struct {
	*WriterConfig

	path string
	f    *stagingdir.File
	raw  *rawStreamWriter
	enc  protostream.Encoder

	numRecords int64
	numBytes   int64
}

// Create begins an export file at path. src, if not nil, is the header of the
// BLF file being exported. The file is moved into place on Close.
func (cfg *WriterConfig) Create(path string, src *blf.FileHeader) (*Writer, error) {
	f, err := stagingdir.Create(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if f != nil {
			_ = f.Abort()
		}
	}()

	md := Metadata{
		Compression: cfg.Compression,
		Created:     cfg.now(),
	}
	if src != nil {
		md.Application = applicationString(src)
		md.ObjectCount = src.ObjectCount
		md.MeasurementStart = src.MeasurementStartTime.Time()
	}
	mds, err := md.toStruct()
	if err != nil {
		return nil, errors.Wrap(err, "building metadata")
	}

	raw := newRawStreamWriter(f, nil)
	w := Writer{
		WriterConfig: cfg,
		path:         path,
		f:            f,
		raw:          raw,
	}
	if _, err := w.enc.Write(raw, mds); err != nil {
		return nil, errors.Wrap(err, "writing metadata")
	}
	if err := raw.beginCompression(cfg.Compression, cfg.CompressionLevel); err != nil {
		return nil, err
	}

	f = nil // Owned by w.
	return &w, nil
}

func applicationString(h *blf.FileHeader) string {
	return fmt.Sprintf("%d v%d.%d.%d", h.ApplicationID, h.ApplicationMajor, h.ApplicationMinor, h.ApplicationBuild)
}

// Path returns the destination path of the export file.
func (w *Writer) Path() string { return w.path }

// NumRecords is the number of records written so far.
func (w *Writer) NumRecords() int64 { return w.numRecords }

// NumBytes is the number of uncompressed record bytes written so far.
func (w *Writer) NumBytes() int64 { return w.numBytes }

// Write writes rec to the file.
func (w *Writer) Write(rec *blf.Record) error {
	return w.WriteEntry(MakeEntry(rec, w.Database))
}

// WriteEntry writes e to the file.
func (w *Writer) WriteEntry(e *Entry) error {
	s, err := e.Struct()
	if err != nil {
		return err
	}
	amt, err := w.enc.Write(w.raw, s)
	if err != nil {
		return errors.Wrap(err, "writing record")
	}
	w.numRecords++
	w.numBytes += int64(amt)
	return nil
}

// Close finalizes the file and moves it into place.
func (w *Writer) Close() error {
	if err := w.raw.Close(); err != nil {
		_ = w.f.Abort()
		return errors.Wrap(err, "flushing export stream")
	}
	return w.f.Commit()
}

// Abort discards the file.
func (w *Writer) Abort() error { return w.f.Abort() }

// Reader reads records from an export file.
type Reader struct {
	fd  *os.File
	raw *rawStreamReader
	dec protostream.Decoder

	md *Metadata
}

// Open opens the export file at path.
func Open(path string) (*Reader, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening export file")
	}
	r := Reader{
		fd:  fd,
		raw: newRawStreamReader(fd),
	}
	defer func() {
		if r.md == nil {
			_ = fd.Close()
		}
	}()

	var mds structpb.Struct
	if _, err := r.dec.Read(r.raw, &mds); err != nil {
		return nil, errors.Wrap(err, "reading metadata")
	}
	md, err := metadataFromStruct(&mds)
	if err != nil {
		return nil, err
	}
	if err := r.raw.beginDecompression(md.Compression); err != nil {
		return nil, err
	}
	r.md = md
	return &r, nil
}

// Metadata returns the file's metadata.
func (r *Reader) Metadata() *Metadata { return r.md }

// Next returns the next entry, or io.EOF at the end of the file.
func (r *Reader) Next() (*Entry, error) {
	var s structpb.Struct
	if _, err := r.dec.Read(r.raw, &s); err != nil {
		return nil, err
	}
	return EntryFromStruct(&s)
}

// Close closes the file.
func (r *Reader) Close() error { return r.fd.Close() }
