// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"context"
	"io"

	"github.com/danjacques/goblf/blf/container"
	"github.com/danjacques/goblf/blf/object"
	"github.com/danjacques/goblf/support/bufferpool"
	"github.com/danjacques/goblf/support/dataio"
	"github.com/danjacques/goblf/support/logging"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// chunk is the decompressed payload of one container.
type chunk struct {
	// buf is the payload, or nil if the container yielded nothing.
	buf *bufferpool.Buffer
	// warnings were encountered reading this container or the objects
	// skipped before it.
	warnings []error
	// partial is true if buf holds only a prefix of the container's payload.
	partial bool
	// last is true if nothing can be read after this chunk.
	last bool
}

func (c *chunk) release() {
	if c != nil && c.buf != nil {
		c.buf.Release()
		c.buf = nil
	}
}

// chunkSource yields container payloads in file order. next returns io.EOF
// when the file is exhausted.
type chunkSource interface {
	next() (*chunk, error)
	close()
}

// containerReader reads top-level containers from the file body.
type containerReader struct {
	r                io.Reader
	pool             *bufferpool.Pool
	maxObjectSize    uint32
	maxContainerSize uint32
	logger           logging.L

	// offset is the file offset of the next top-level object.
	offset int64
	// scratch holds the current top-level record.
	scratch []byte

	count int
	done  bool
}

func (cr *containerReader) next() (*chunk, error) {
	var warnings []error
	for !cr.done {
		c, err := cr.readOne()
		if err != nil {
			cr.done = true
			return nil, err
		}
		if c == nil {
			continue
		}
		c.warnings = append(warnings, c.warnings...)
		if c.buf == nil && !c.last {
			// A skipped object; report it with the next container.
			warnings = c.warnings
			continue
		}
		return c, nil
	}

	if len(warnings) > 0 {
		return &chunk{warnings: warnings, last: true}, nil
	}
	return nil, io.EOF
}

// readOne reads a single top-level object. A skipped object yields a chunk
// with warnings and no payload. At a clean end of file it returns nil with
// done set.
func (cr *containerReader) readOne() (*chunk, error) {
	offset := cr.offset
	if cap(cr.scratch) < object.BaseSize {
		cr.scratch = make([]byte, object.BaseSize, 64*1024)
	}
	hdr := cr.scratch[:object.BaseSize]

	n, err := dataio.ReadFull(cr.r, hdr)
	switch err {
	case nil:
	case io.EOF:
		cr.done = true
		return nil, nil
	case io.ErrUnexpectedEOF:
		cr.done = true
		return &chunk{warnings: []error{&TruncatedFileError{Offset: offset, Available: n}}, last: true}, nil
	default:
		return nil, errors.Wrapf(err, "reading object header at offset %d", offset)
	}

	base, _ := object.DecodeBase(hdr)
	if err := base.Validate(); err != nil {
		cr.done = true
		return &chunk{warnings: []error{&CorruptStreamError{Offset: offset, Reason: "invalid object header", Err: err}}, last: true}, nil
	}
	if cr.maxObjectSize > 0 && base.ObjectSize > cr.maxObjectSize {
		cr.done = true
		return &chunk{warnings: []error{&CorruptStreamError{Offset: offset, Reason: "object size exceeds limit"}}, last: true}, nil
	}

	size := int(base.ObjectSize)
	if cap(cr.scratch) < size {
		grown := make([]byte, size)
		copy(grown, hdr)
		cr.scratch = grown
	}
	rec := cr.scratch[:size]
	n, err = dataio.ReadFull(cr.r, rec[object.BaseSize:])
	truncated := false
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		truncated = true
		rec = rec[:object.BaseSize+n]
	default:
		return nil, errors.Wrapf(err, "reading object at offset %d", offset)
	}
	cr.offset += int64(len(rec))

	if truncated {
		cr.done = true
	} else if pad := int64(object.PaddedSize(base.ObjectSize)) - int64(size); pad > 0 {
		// Padding may be missing after the final object.
		var padBuf [4]byte
		n, err := dataio.ReadFull(cr.r, padBuf[:pad])
		cr.offset += int64(n)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(err, "reading padding at offset %d", cr.offset)
		}
	}

	if base.ObjectType != object.TypeLogContainer {
		cr.logger.Debugf("Skipping top-level %s object at offset %d.", base.ObjectType, offset)
		return &chunk{warnings: []error{&UnexpectedObjectError{Offset: offset, Type: base.ObjectType}}}, nil
	}

	c := chunk{last: truncated}
	if truncated {
		c.warnings = append(c.warnings, &TruncatedContainerError{
			Offset:    offset,
			Declared:  int64(size),
			Available: int64(len(rec)),
		})
	}

	cont, err := container.Parse(rec)
	if err != nil {
		if !truncated {
			cr.done = true
			c.warnings = append(c.warnings, &CorruptStreamError{Offset: offset, Reason: "invalid container", Err: err})
			c.last = true
		}
		return &c, nil
	}

	if cont.Method != container.MethodNone && cont.UncompressedSize > cr.maxContainerSize {
		cr.done = true
		c.warnings = append(c.warnings, &DecompressionError{
			Offset: offset,
			Method: cont.Method,
			Err:    &container.SizeLimitError{Declared: cont.UncompressedSize, Limit: cr.maxContainerSize},
		})
		c.last = true
		return &c, nil
	}

	buf, err := container.Decompress(cont, cr.pool)
	switch err.(type) {
	case nil:
	case *container.PartialError:
		c.partial = true
		if !truncated {
			// A truncated payload is expected to inflate partially.
			c.warnings = append(c.warnings, &DecompressionError{Offset: offset, Method: cont.Method, Err: err})
		}
	default:
		cr.done = true
		c.warnings = append(c.warnings, &DecompressionError{Offset: offset, Method: cont.Method, Err: err})
		c.last = true
		return &c, nil
	}
	c.buf = buf

	cr.count++
	containersRead.Inc()
	containerBytes.Add(float64(buf.Len()))
	cr.logger.Debugf("Read container #%d at offset %d (method %d, %d bytes).", cr.count, offset, cont.Method, buf.Len())
	return &c, nil
}

func (cr *containerReader) close() {}

// prefetchResult carries one containerReader result across the channel.
type prefetchResult struct {
	c   *chunk
	err error
}

// prefetcher runs a containerReader on a producer goroutine, keeping up to
// depth decompressed containers queued ahead of the consumer.
type prefetcher struct {
	ch     chan prefetchResult
	cancel context.CancelFunc
	eg     *errgroup.Group
}

func startPrefetch(ctx context.Context, src chunkSource, depth int) *prefetcher {
	ctx, cancel := context.WithCancel(ctx)
	eg, ctx := errgroup.WithContext(ctx)
	p := prefetcher{
		ch:     make(chan prefetchResult, depth),
		cancel: cancel,
		eg:     eg,
	}

	eg.Go(func() error {
		defer close(p.ch)
		for {
			c, err := src.next()
			select {
			case p.ch <- prefetchResult{c, err}:
			case <-ctx.Done():
				c.release()
				return ctx.Err()
			}
			if err != nil || (c != nil && c.last) {
				return nil
			}
		}
	})
	return &p
}

func (p *prefetcher) next() (*chunk, error) {
	res, ok := <-p.ch
	if !ok {
		return nil, io.EOF
	}
	return res.c, res.err
}

func (p *prefetcher) close() {
	p.cancel()
	for res := range p.ch {
		res.c.release()
	}
	_ = p.eg.Wait()
}
