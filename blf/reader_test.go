// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/danjacques/goblf/blf/container"
	"github.com/danjacques/goblf/blf/object"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reader", func() {
	Context("with a zlib container holding two objects", func() {
		var (
			msg     *object.CANMessage
			fd      *object.CANFDMessage64
			payload []byte
			file    []byte
		)

		BeforeEach(func() {
			msg = &object.CANMessage{
				Header: object.Header{
					Base:        object.Base{HeaderVersion: object.HeaderVersion1},
					ObjectFlags: object.FlagTimeOneNans,
					TimeStamp:   1000,
				},
				CANFrame: object.CANFrame{
					Channel: 1,
					DLC:     8,
					ID:      0x123,
					Data:    [8]byte{0, 1, 2, 3, 4, 5, 6, 7},
				},
			}
			fd = &object.CANFDMessage64{
				Header: object.Header{
					Base:              object.Base{HeaderVersion: object.HeaderVersion2},
					ObjectFlags:       object.FlagTimeOneNans,
					TimeStamp:         2000,
					OriginalTimeStamp: 1990,
				},
				Channel:        1,
				DLC:            10,
				ValidDataBytes: 16,
				ID:             0x456,
				Flags:          object.CANFD64FlagEDL,
				Data:           bytes.Repeat([]byte{0xA5}, 16),
			}
			payload = encodeAll(msg, fd)
			file = buildFile(newFileHeader(), containerRecord(container.MethodZlib, payload))
		})

		It("decodes both objects in order without warnings", func() {
			recs, warnings, err := readBytes(ReaderConfig{}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(warnings).To(BeEmpty())
			Expect(recs).To(HaveLen(2))

			Expect(recs[0].Index).To(Equal(int64(0)))
			Expect(recs[0].Warnings).To(BeEmpty())
			Expect(recs[0].Object).To(Equal(msg))

			Expect(recs[1].Index).To(Equal(int64(1)))
			Expect(recs[1].Warnings).To(BeEmpty())
			Expect(recs[1].Object).To(Equal(fd))
			Expect(recs[1].Object.ObjectHeader().HeaderSize).To(Equal(uint16(object.HeaderV2Size)))
		})

		It("declares an uncompressed size equal to the sum of padded record sizes", func() {
			c, err := container.Parse(file[FileHeaderSize:])
			Expect(err).ToNot(HaveOccurred())

			sum := object.PaddedSize(msg.ObjectSize) + object.PaddedSize(fd.ObjectSize)
			Expect(uint64(c.UncompressedSize)).To(Equal(sum))
			Expect(c.UncompressedSize).To(Equal(uint32(len(payload))))
		})

		It("stops after the declared object count", func() {
			h := newFileHeader()
			h.ObjectCount = 1
			recs, warnings, err := readBytes(ReaderConfig{}, buildFile(h, containerRecord(container.MethodZlib, payload)))
			Expect(err).ToNot(HaveOccurred())
			Expect(warnings).To(BeEmpty())
			Expect(objectsOf(recs)).To(Equal([]object.Object{msg}))
		})

		It("counts what it reads", func() {
			containers := testutil.ToFloat64(containersRead)
			decoded := testutil.ToFloat64(objectsDecoded.WithLabelValues(object.TypeCANMessage.String()))

			_, _, err := readBytes(ReaderConfig{}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(testutil.ToFloat64(containersRead)).To(Equal(containers + 1))
			Expect(testutil.ToFloat64(objectsDecoded.WithLabelValues(object.TypeCANMessage.String()))).To(Equal(decoded + 1))
		})
	})

	It("reads an empty file", func() {
		recs, warnings, err := readBytes(ReaderConfig{}, buildFile(newFileHeader()))
		Expect(err).ToNot(HaveOccurred())
		Expect(recs).To(BeEmpty())
		Expect(warnings).To(BeEmpty())
	})

	It("returns a FormatError for a file that is not BLF", func() {
		_, err := (&ReaderConfig{}).NewReader(bytes.NewReader([]byte("definitely not a BLF file")))
		var fe *FormatError
		Expect(errors.As(err, &fe)).To(BeTrue())
	})

	It("decodes records that straddle containers identically", func() {
		objs := testObjects(30)
		whole := writeObjects(WriterConfig{CompressionMethod: container.MethodZlib}, objs)
		split := writeObjects(WriterConfig{ContainerSize: 7}, objs)

		wholeRecs, warnings, err := readBytes(ReaderConfig{}, whole)
		Expect(err).ToNot(HaveOccurred())
		Expect(warnings).To(BeEmpty())

		splitRecs, warnings, err := readBytes(ReaderConfig{}, split)
		Expect(err).ToNot(HaveOccurred())
		Expect(warnings).To(BeEmpty())

		Expect(objectsOf(wholeRecs)).To(Equal(objs))
		Expect(objectsOf(splitRecs)).To(Equal(objs))
		for _, rec := range splitRecs {
			Expect(rec.Warnings).To(BeEmpty())
		}
	})

	Context("with prefetch", func() {
		var file []byte

		BeforeEach(func() {
			file = writeObjects(WriterConfig{CompressionMethod: container.MethodZlib, ContainerSize: 64}, testObjects(40))
		})

		It("yields the same sequence as a synchronous read", func() {
			syncRecs, _, err := readBytes(ReaderConfig{}, file)
			Expect(err).ToNot(HaveOccurred())

			for _, depth := range []int{1, 2, 8} {
				recs, warnings, err := readBytes(ReaderConfig{Prefetch: depth}, file)
				Expect(err).ToNot(HaveOccurred())
				Expect(warnings).To(BeEmpty())
				Expect(recs).To(Equal(syncRecs))
			}
		})

		It("can be closed before the end of the stream", func() {
			r, err := (&ReaderConfig{Prefetch: 2}).NewReader(bytes.NewReader(file))
			Expect(err).ToNot(HaveOccurred())

			for i := 0; i < 3; i++ {
				_, err := r.Next()
				Expect(err).ToNot(HaveOccurred())
			}
			Expect(r.Close()).To(Succeed())

			_, err = r.Next()
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with a truncated file", func() {
		var (
			full     []byte
			fullRecs []*Record
		)

		BeforeEach(func() {
			full = writeObjects(WriterConfig{CompressionMethod: container.MethodZlib, ContainerSize: 100}, testObjects(12))

			var err error
			fullRecs, _, err = readBytes(ReaderConfig{}, full)
			Expect(err).ToNot(HaveOccurred())
			Expect(fullRecs).To(HaveLen(12))
		})

		It("yields a prefix of the full result at every cut", func() {
			for cut := FileHeaderSize; cut < len(full); cut++ {
				recs, _, err := readBytes(ReaderConfig{}, full[:cut])
				Expect(err).ToNot(HaveOccurred(), "cut at %d", cut)
				Expect(len(recs)).To(BeNumerically("<=", len(fullRecs)), "cut at %d", cut)
				Expect(recs).To(Equal(fullRecs[:len(recs)]), "cut at %d", cut)
			}
		})

		It("records a warning when the file ends inside a container", func() {
			file := writeObjects(WriterConfig{}, testObjects(6))
			recs, warnings, err := readBytes(ReaderConfig{}, file[:len(file)-10])
			Expect(err).ToNot(HaveOccurred())
			Expect(len(recs)).To(BeNumerically("<", 6))

			var tce *TruncatedContainerError
			Expect(warnings).ToNot(BeEmpty())
			Expect(errors.As(warnings[0], &tce)).To(BeTrue())
			Expect(tce.Offset).To(BeNumerically(">=", FileHeaderSize))
		})

		It("records a warning when the file ends inside an object header", func() {
			file := buildFile(newFileHeader(), containerRecord(container.MethodNone, encodeAll(testObjects(3)...)))
			file = append(file, 'L', 'O', 'B', 'J')
			_, warnings, err := readBytes(ReaderConfig{}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(warnings).To(ConsistOf(&TruncatedFileError{Offset: int64(len(file) - 4), Available: 4}))
		})

		It("returns the first warning when strict", func() {
			file := writeObjects(WriterConfig{}, testObjects(6))
			_, _, err := readBytes(ReaderConfig{Strict: true}, file[:len(file)-10])
			Expect(err).To(BeAssignableToTypeOf(&TruncatedContainerError{}))
		})
	})

	Context("with a corrupt stream", func() {
		var objs []object.Object

		BeforeEach(func() {
			objs = testObjects(4)
		})

		It("stops at a bad top-level signature, keeping earlier records", func() {
			first := containerRecord(container.MethodNone, encodeAll(objs[0], objs[1]))
			file := buildFile(newFileHeader(), first, bytes.Repeat([]byte{0xEE}, 32),
				containerRecord(container.MethodNone, encodeAll(objs[2])))

			recs, warnings, err := readBytes(ReaderConfig{}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(objectsOf(recs)).To(Equal(objs[:2]))
			Expect(warnings).To(HaveLen(1))

			var cse *CorruptStreamError
			Expect(errors.As(warnings[0], &cse)).To(BeTrue())
			Expect(cse.Offset).To(Equal(int64(FileHeaderSize + len(first))))
		})

		It("stops at a bad signature inside a container", func() {
			payload := encodeAll(objs[0])
			payload = append(payload, bytes.Repeat([]byte{0xEE}, 16)...)
			payload = append(payload, encodeAll(objs[1])...)
			file := buildFile(newFileHeader(), containerRecord(container.MethodZlib, payload))

			recs, warnings, err := readBytes(ReaderConfig{}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(objectsOf(recs)).To(Equal(objs[:1]))
			Expect(warnings).To(HaveLen(1))

			var cse *CorruptStreamError
			Expect(errors.As(warnings[0], &cse)).To(BeTrue())
			Expect(cse.Offset).To(Equal(int64(-1)))
		})

		It("rejects objects larger than the configured limit", func() {
			file := buildFile(newFileHeader(), containerRecord(container.MethodNone, encodeAll(objs[0])))
			recs, warnings, err := readBytes(ReaderConfig{MaxObjectSize: 32}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(recs).To(BeEmpty())
			Expect(warnings).To(HaveLen(1))
			Expect(warnings[0]).To(BeAssignableToTypeOf(&CorruptStreamError{}))
		})

		It("skips top-level objects that are not containers", func() {
			first := containerRecord(container.MethodNone, encodeAll(objs[0]))
			file := buildFile(newFileHeader(),
				first,
				encodeAll(objs[1]),
				containerRecord(container.MethodNone, encodeAll(objs[2])))

			recs, warnings, err := readBytes(ReaderConfig{}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(objectsOf(recs)).To(Equal([]object.Object{objs[0], objs[2]}))
			Expect(warnings).To(ConsistOf(&UnexpectedObjectError{
				Offset: int64(FileHeaderSize + len(first)),
				Type:   objs[1].Type(),
			}))
		})

		It("ends at a container with an unsupported compression method", func() {
			bad, err := container.New(container.MethodNone, 0, encodeAll(objs[1]))
			Expect(err).ToNot(HaveOccurred())
			bad.Method = 5
			badRecord, err := bad.Append(nil)
			Expect(err).ToNot(HaveOccurred())

			file := buildFile(newFileHeader(),
				containerRecord(container.MethodNone, encodeAll(objs[0])),
				badRecord,
				containerRecord(container.MethodNone, encodeAll(objs[2])))

			recs, warnings, err := readBytes(ReaderConfig{}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(objectsOf(recs)).To(Equal(objs[:1]))
			Expect(warnings).To(HaveLen(1))

			var de *DecompressionError
			Expect(errors.As(warnings[0], &de)).To(BeTrue())
			Expect(de.Method).To(Equal(uint16(5)))
		})

		It("recovers from a container that inflates partially", func() {
			payload := encodeAll(testObjects(9)...)
			compressed, err := container.Compress(container.MethodZlib, 0, payload)
			Expect(err).ToNot(HaveOccurred())
			partial := container.Container{
				Header: object.Header{Base: object.Base{HeaderVersion: object.HeaderVersion1}},
				Fields: container.Fields{
					Method:           container.MethodZlib,
					UncompressedSize: uint32(len(payload)),
				},
				Data: compressed[:len(compressed)/2],
			}
			partialRecord, err := partial.Append(nil)
			Expect(err).ToNot(HaveOccurred())

			tail := testObjects(2)
			file := buildFile(newFileHeader(), partialRecord, containerRecord(container.MethodZlib, encodeAll(tail...)))

			recs, warnings, err := readBytes(ReaderConfig{}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(len(recs)).To(BeNumerically(">=", len(tail)))
			Expect(objectsOf(recs[len(recs)-len(tail):])).To(Equal(tail))

			var pe *container.PartialError
			Expect(warnings).ToNot(BeEmpty())
			Expect(warnings[0]).To(BeAssignableToTypeOf(&DecompressionError{}))
			Expect(errors.As(warnings[0], &pe)).To(BeTrue())
			Expect(pe.Declared).To(Equal(len(payload)))
		})

		It("ends at a container declaring an oversized payload without allocating it", func() {
			payload := encodeAll(objs[1])
			compressed, err := container.Compress(container.MethodZlib, 0, payload)
			Expect(err).ToNot(HaveOccurred())
			huge := container.Container{
				Header: object.Header{Base: object.Base{HeaderVersion: object.HeaderVersion1}},
				Fields: container.Fields{
					Method:           container.MethodZlib,
					UncompressedSize: 1 << 30,
				},
				Data: compressed,
			}
			hugeRecord, err := huge.Append(nil)
			Expect(err).ToNot(HaveOccurred())

			file := buildFile(newFileHeader(),
				containerRecord(container.MethodZlib, encodeAll(objs[0])),
				hugeRecord,
				containerRecord(container.MethodZlib, encodeAll(objs[2])))

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			recs, warnings, err := readBytes(ReaderConfig{}, file)
			runtime.ReadMemStats(&after)

			Expect(err).ToNot(HaveOccurred())
			Expect(objectsOf(recs)).To(Equal(objs[:1]))
			Expect(after.TotalAlloc - before.TotalAlloc).To(BeNumerically("<", 16*1024*1024))
			Expect(warnings).To(HaveLen(1))

			var sle *container.SizeLimitError
			Expect(warnings[0]).To(BeAssignableToTypeOf(&DecompressionError{}))
			Expect(errors.As(warnings[0], &sle)).To(BeTrue())
			Expect(sle.Declared).To(Equal(uint32(1 << 30)))
			Expect(sle.Limit).To(Equal(uint32(DefaultMaxContainerSize)))
		})

		It("honors a configured container size limit", func() {
			payload := encodeAll(objs...)
			file := buildFile(newFileHeader(), containerRecord(container.MethodZlib, payload))

			recs, warnings, err := readBytes(ReaderConfig{MaxContainerSize: len(payload) - 1}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(recs).To(BeEmpty())
			Expect(warnings).To(HaveLen(1))

			recs, warnings, err = readBytes(ReaderConfig{MaxContainerSize: len(payload)}, file)
			Expect(err).ToNot(HaveOccurred())
			Expect(objectsOf(recs)).To(Equal(objs))
			Expect(warnings).To(BeEmpty())
		})
	})

	It("delivers undecodable records as Raw with a warning", func() {
		unknown := &object.Raw{
			Header:  object.Header{Base: object.Base{HeaderVersion: object.HeaderVersion1, ObjectType: 200}},
			Payload: []byte{1, 2, 3, 4, 5},
		}
		file := buildFile(newFileHeader(), containerRecord(container.MethodNone, encodeAll(unknown)))

		recs, warnings, err := readBytes(ReaderConfig{}, file)
		Expect(err).ToNot(HaveOccurred())
		Expect(warnings).To(BeEmpty())
		Expect(recs).To(HaveLen(1))
		Expect(recs[0].Object).To(Equal(unknown))
	})

	It("opens files by path", func() {
		dir, err := os.MkdirTemp("", "blf_test")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "test.blf")

		objs := testObjects(5)
		w, err := (&WriterConfig{CompressionMethod: container.MethodZlib}).Create(path)
		Expect(err).ToNot(HaveOccurred())
		for _, o := range objs {
			Expect(w.Write(o)).To(Succeed())
		}
		Expect(w.Close()).To(Succeed())

		r, err := Open(path)
		Expect(err).ToNot(HaveOccurred())
		defer r.Close()
		Expect(r.Header().ObjectCount).To(Equal(uint32(5)))

		recs, err := ReadAll(r)
		Expect(err).ToNot(HaveOccurred())
		Expect(objectsOf(recs)).To(Equal(objs))

		_, err = r.Next()
		Expect(err).To(Equal(io.EOF))
	})
})
