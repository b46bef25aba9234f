// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"io"

	"github.com/danjacques/goblf/blf/object"
	"github.com/danjacques/goblf/support/logging"

	"github.com/pkg/errors"
)

// Record is a single decoded object.
type Record struct {
	// Index is the record's position in the file, starting at 0.
	Index int64
	// Object is the decoded object. Objects that could not be decoded are
	// *object.Raw.
	Object object.Object
	// Warnings are the problems found while decoding Object.
	Warnings []error
}

// Reader reads records from a BLF file in order.
//
// Malformed input never causes Next to fail outright. Problems that affect a
// single record are attached to it; problems that end the stream early are
// collected and available from Warnings.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	cfg    *ReaderConfig
	logger logging.L

	header *FileHeader
	closer io.Closer

	src    chunkSource
	stream objectStream

	// fed is true while the stream holds a container payload that may yield
	// more records.
	fed bool
	// partial is true if the fed payload is incomplete.
	partial bool
	// last is true if the source has nothing after the fed payload.
	last bool

	index    int64
	warnings []error

	done   bool
	err    error
	closed bool
}

// Header returns the file header.
func (r *Reader) Header() *FileHeader { return r.header }

// Warnings returns the stream-level warnings encountered so far.
func (r *Reader) Warnings() []error { return r.warnings }

// Next returns the next record. At the end of the stream it returns io.EOF,
// or the first stream-level warning if the Reader is strict.
func (r *Reader) Next() (*Record, error) {
	if r.closed {
		return nil, errors.New("reader is closed")
	}

	for !r.done {
		if count := r.header.ObjectCount; count > 0 && r.index >= int64(count) {
			r.logger.Debugf("Read all %d declared object(s).", count)
			r.done = true
			break
		}

		if r.fed {
			rec, err := r.stream.next()
			switch {
			case err != nil:
				r.addWarning(err)
				r.done = true
			case rec != nil:
				return r.emit(rec), nil
			default:
				r.fed = false
				r.endPayload()
			}
			continue
		}

		c, err := r.src.next()
		switch err {
		case nil:
		case io.EOF:
			r.finishPending()
			r.done = true
			continue
		default:
			r.done = true
			r.err = errors.Wrap(err, "reading container")
			return nil, r.err
		}

		for _, w := range c.warnings {
			r.addWarning(w)
		}
		r.partial, r.last = c.partial, c.last
		if c.buf != nil {
			r.stream.feed(c.buf)
			r.fed = true
		} else {
			r.endPayload()
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	if r.cfg.Strict && len(r.warnings) > 0 {
		return nil, r.warnings[0]
	}
	return nil, io.EOF
}

// endPayload is called once the fed payload has been consumed.
func (r *Reader) endPayload() {
	if r.partial || r.last {
		// Nothing that follows can complete a pending record.
		r.finishPending()
	}
	if r.last {
		r.done = true
	}
}

func (r *Reader) finishPending() {
	if have, declared := r.stream.pending(); have > 0 {
		r.addWarning(&TruncatedContainerError{
			Offset:    -1,
			Declared:  int64(declared),
			Available: int64(have),
		})
	}
	r.stream.discard()
}

func (r *Reader) emit(rec *record) *Record {
	res := Record{
		Index:    r.index,
		Object:   rec.obj,
		Warnings: rec.warnings,
	}
	r.index++

	objectsDecoded.WithLabelValues(rec.obj.Type().String()).Inc()
	if _, ok := rec.obj.(*object.Raw); ok {
		rawObjects.Inc()
	}
	for _, w := range rec.warnings {
		readerWarnings.WithLabelValues(warningKind(w)).Inc()
		r.logger.Debugf("Record #%d (%s): %s", res.Index, rec.obj.Type(), w)
	}
	return &res
}

func (r *Reader) addWarning(err error) {
	r.warnings = append(r.warnings, err)
	readerWarnings.WithLabelValues(warningKind(err)).Inc()
	r.logger.Warnf("%s", err)
}

// Close stops reading and releases the Reader's resources. If the Reader
// opened its file, the file is closed.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed, r.done = true, true

	r.src.close()
	r.stream.close()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// ReadAll reads every remaining record from r.
func ReadAll(r *Reader) ([]*Record, error) {
	var recs []*Record
	for {
		rec, err := r.Next()
		switch err {
		case nil:
			recs = append(recs, rec)
		case io.EOF:
			return recs, nil
		default:
			return recs, err
		}
	}
}
