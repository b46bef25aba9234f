// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Compression is the compression applied to an export stream's records.
type Compression int32

// Supported compressions.
const (
	CompressionNone   Compression = 0
	CompressionSnappy Compression = 1
	CompressionGzip   Compression = 2
)

var compressionName = map[Compression]string{
	CompressionNone:   "NONE",
	CompressionSnappy: "SNAPPY",
	CompressionGzip:   "GZIP",
}

var compressionValue = map[string]Compression{
	"NONE":   CompressionNone,
	"SNAPPY": CompressionSnappy,
	"GZIP":   CompressionGzip,
}

func (c Compression) String() string {
	if name, ok := compressionName[c]; ok {
		return name
	}
	return fmt.Sprintf("Compression(%d)", int32(c))
}

// ParseCompression returns the Compression named s, ignoring case.
func ParseCompression(s string) (Compression, error) {
	if c, ok := compressionValue[strings.ToUpper(s)]; ok {
		return c, nil
	}
	return CompressionNone, errors.Errorf("unknown compression type: %q", s)
}

// CompressionFlag is a pflag.Value implementation that stores a compression
// value.
type CompressionFlag Compression

var _ pflag.Value = (*CompressionFlag)(nil)

func (cf *CompressionFlag) String() string { return Compression(*cf).String() }

// Set implements pflag.Value.
func (cf *CompressionFlag) Set(v string) error {
	c, err := ParseCompression(v)
	if err != nil {
		return err
	}
	*cf = CompressionFlag(c)
	return nil
}

// Type implements pflag.Value.
func (cf *CompressionFlag) Type() string { return "export.Compression" }

// Value returns the compression value held by this flag.
func (cf CompressionFlag) Value() Compression { return Compression(cf) }

// CompressionFlagValues returns the list of possible values for a
// CompressionFlag.
func CompressionFlagValues() string {
	values := make([]Compression, 0, len(compressionName))
	for c := range compressionName {
		values = append(values, c)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	opts := make([]string, len(values))
	for i, c := range values {
		opts[i] = c.String()
	}
	return strings.Join(opts, ", ")
}
