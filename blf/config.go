// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"bufio"
	"context"
	"io"
	"math"
	"os"
	"time"

	"github.com/danjacques/goblf/blf/container"
	"github.com/danjacques/goblf/blf/object"
	"github.com/danjacques/goblf/support/bufferpool"
	"github.com/danjacques/goblf/support/logging"
	"github.com/danjacques/goblf/support/stagingdir"

	"github.com/pkg/errors"
)

// DefaultMaxObjectSize is the largest object accepted when
// ReaderConfig.MaxObjectSize is zero.
const DefaultMaxObjectSize = 64 * 1024 * 1024

// DefaultMaxContainerSize is the largest declared uncompressed container size
// accepted when ReaderConfig.MaxContainerSize is zero.
const DefaultMaxContainerSize = 64 * 1024 * 1024

// DefaultContainerSize is the uncompressed container payload size used when
// WriterConfig.ContainerSize is zero.
const DefaultContainerSize = 128 * 1024

// ReaderConfig configures a Reader. The zero value is a valid configuration.
type ReaderConfig struct {
	// Registry is the object registry used to decode records. If nil, the
	// default registry is used.
	Registry *object.Registry

	// Logger, if not nil, receives debug and warning logs.
	Logger logging.L

	// Prefetch, if >0, is the number of containers to read and decompress
	// ahead of the consumer on a separate goroutine.
	Prefetch int

	// Strict causes Next to return the first stream-level warning as an error
	// instead of io.EOF.
	Strict bool

	// MaxObjectSize is the largest object size accepted before the stream is
	// considered corrupt. If zero, DefaultMaxObjectSize is used.
	MaxObjectSize int

	// MaxContainerSize is the largest uncompressed container size accepted
	// before the stream is considered corrupt. If zero,
	// DefaultMaxContainerSize is used.
	MaxContainerSize int

	// BufferPool, if not nil, supplies buffers for decompressed containers.
	BufferPool *bufferpool.Pool
}

func (cfg *ReaderConfig) registry() *object.Registry {
	if cfg.Registry != nil {
		return cfg.Registry
	}
	return object.DefaultRegistry()
}

func (cfg *ReaderConfig) maxObjectSize() uint32 {
	return sizeLimit(cfg.MaxObjectSize, DefaultMaxObjectSize)
}

func (cfg *ReaderConfig) maxContainerSize() uint32 {
	return sizeLimit(cfg.MaxContainerSize, DefaultMaxContainerSize)
}

// sizeLimit returns v as a 32-bit size limit, or def if v is not positive.
func sizeLimit(v int, def uint32) uint32 {
	switch {
	case v <= 0:
		return def
	case uint64(v) > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}

// Open opens the BLF file at path using the default configuration.
func Open(path string) (*Reader, error) {
	var cfg ReaderConfig
	return cfg.Open(path)
}

// Open opens the BLF file at path. The returned Reader owns the file and
// closes it on Close.
func (cfg *ReaderConfig) Open(path string) (*Reader, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}

	r, err := cfg.NewReader(fd)
	if err != nil {
		_ = fd.Close()
		return nil, err
	}
	r.closer = fd
	return r, nil
}

// NewReader reads the file header from r and returns a Reader positioned at
// the first record. The only error it returns for malformed input is a
// *FormatError.
func (cfg *ReaderConfig) NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	header, err := readFileHeader(br)
	if err != nil {
		return nil, err
	}

	logger := logging.Must(cfg.Logger)
	logger.Debugf("Opened BLF file: API %d, application %d v%d.%d, %d object(s).",
		header.APINumber, header.ApplicationID, header.ApplicationMajor, header.ApplicationMinor, header.ObjectCount)

	var src chunkSource = &containerReader{
		r:                br,
		pool:             cfg.BufferPool,
		maxObjectSize:    cfg.maxObjectSize(),
		maxContainerSize: cfg.maxContainerSize(),
		logger:           logger,
		offset:           int64(header.StatisticsSize),
	}
	if cfg.Prefetch > 0 {
		src = startPrefetch(context.Background(), src, cfg.Prefetch)
	}

	return &Reader{
		cfg:    cfg,
		logger: logger,
		header: header,
		src:    src,
		stream: objectStream{
			reg:           cfg.registry(),
			maxObjectSize: cfg.maxObjectSize(),
		},
	}, nil
}

// WriterConfig configures a Writer. The zero value writes uncompressed
// containers.
type WriterConfig struct {
	// CompressionMethod is the container compression method, one of the
	// container.Method constants.
	CompressionMethod uint16
	// CompressionLevel is the zlib level applied to CompressionMethod. Zero
	// selects the default level.
	CompressionLevel int

	// ContainerSize is the uncompressed payload size of each container. If
	// zero, DefaultContainerSize is used.
	ContainerSize int

	// Application identity recorded in the file header.
	ApplicationID    uint8
	ApplicationMajor uint8
	ApplicationMinor uint8
	ApplicationBuild uint32

	// Logger, if not nil, receives debug logs.
	Logger logging.L

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

func (cfg *WriterConfig) containerSize() int {
	if cfg.ContainerSize > 0 {
		return cfg.ContainerSize
	}
	return DefaultContainerSize
}

// Create creates a BLF file at path. The file is written in a staging
// directory next to path and moved into place when the Writer is closed.
func (cfg *WriterConfig) Create(path string) (*Writer, error) {
	f, err := stagingdir.Create(path)
	if err != nil {
		return nil, err
	}

	w, err := cfg.NewWriter(f)
	if err != nil {
		_ = f.Abort()
		return nil, err
	}
	w.staged = f
	return w, nil
}

// NewWriter writes a placeholder file header to w and returns a Writer. The
// header is rewritten when the Writer is closed, so w must support seeking
// back to its start.
func (cfg *WriterConfig) NewWriter(w io.WriteSeeker) (*Writer, error) {
	switch cfg.CompressionMethod {
	case container.MethodNone, container.MethodZlib:
	default:
		return nil, &container.UnsupportedMethodError{Method: cfg.CompressionMethod}
	}

	bw := Writer{
		cfg:    cfg,
		logger: logging.Must(cfg.Logger),
		w:      w,
		header: FileHeader{
			Signature:        FileSignature,
			StatisticsSize:   FileHeaderSize,
			APINumber:        APINumber,
			ApplicationID:    cfg.ApplicationID,
			CompressionLevel: uint8(cfg.CompressionLevel),
			ApplicationMajor: cfg.ApplicationMajor,
			ApplicationMinor: cfg.ApplicationMinor,
			ApplicationBuild: cfg.ApplicationBuild,
		},
		start: cfg.now(),
	}
	if err := bw.writeHeader(); err != nil {
		return nil, err
	}
	return &bw, nil
}
