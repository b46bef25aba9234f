// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package bufferpool offers reference-counted byte buffers backed by a
// sync.Pool.
package bufferpool

import (
	"sync"
	"sync/atomic"
)

// Pool maintains a pool of buffers. It offers a new buffer when one is
// unavailable.
type Pool struct {
	// Size is the minimum capacity of buffers allocated by this pool. Requests
	// larger than Size allocate exactly what they need.
	Size int

	// MaxRetained, if >0, is the largest capacity that will be returned to the
	// pool on Release. Larger buffers are left for the garbage collector.
	MaxRetained int

	base sync.Pool
}

// Get returns a buffer holding exactly size bytes, allocating one if a large
// enough buffer is not available. The returned buffer's contents are
// undefined, and it is returned with a reference count of 1.
//
// The caller should return the buffer to the pool by calling its Release method
// when done with it.
func (bp *Pool) Get(size int) *Buffer {
	b, ok := bp.base.Get().(*Buffer)
	if !ok || cap(b.bytes) < size {
		// A pooled buffer that is too small is simply dropped.
		capacity := bp.Size
		if capacity < size {
			capacity = size
		}
		b = &Buffer{
			bytes: make([]byte, capacity),
		}
	}

	// Attune the allocated buffer.
	b.bytes = b.bytes[:cap(b.bytes)]
	b.pool = bp
	b.size = size
	b.refcount = 1
	return b
}

func (bp *Pool) releaseNode(b *Buffer) {
	if bp.MaxRetained > 0 && cap(b.bytes) > bp.MaxRetained {
		return
	}
	bp.base.Put(b)
}

// Buffer contains a byte buffer that can be released into a Pool for reuse.
//
// Buffer is reference counted, and can be retained and released appropriately.
// Failure to release Buffer will not cause a memory leak, but will prevent the
// reuse of the Buffer.
type Buffer struct {
	refcount int64

	bytes []byte
	size  int

	pool *Pool
}

// Bytes returns this buffer's byte slice.
func (b *Buffer) Bytes() []byte { return b.bytes[:b.size] }

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int { return b.size }

// Truncate caps the number of bytes returned by Bytes. It cannot grow the
// buffer.
func (b *Buffer) Truncate(size int) {
	if size < b.size {
		b.size = size
	}
}

// Release returns the buffer to its buffer pool.
//
// Release is safe for concurrent use.
//
// A Buffer must only be released once per reference.
func (b *Buffer) Release() {
	if atomic.AddInt64(&b.refcount, -1) != 0 {
		return
	}

	var pool *Pool
	pool, b.pool = b.pool, nil
	if pool != nil {
		pool.releaseNode(b)
	}
}

// Retain increases the Buffer's reference count. It should be accompanied by
// a Release call to reuse the buffer when it's finished.
func (b *Buffer) Retain() { atomic.AddInt64(&b.refcount, 1) }
