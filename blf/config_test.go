// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("ReaderConfig", func() {
	DescribeTable("size limits",
		func(v int, exp uint32) {
			cfg := ReaderConfig{MaxObjectSize: v, MaxContainerSize: v}
			Expect(cfg.maxObjectSize()).To(Equal(exp))
			Expect(cfg.maxContainerSize()).To(Equal(exp))
		},
		Entry("default", 0, uint32(DefaultMaxObjectSize)),
		Entry("negative", -1, uint32(DefaultMaxObjectSize)),
		Entry("explicit", 1024, uint32(1024)),
		Entry("largest", math.MaxUint32, uint32(math.MaxUint32)),
		Entry("beyond 32 bits", 1<<32, uint32(math.MaxUint32)),
		Entry("far beyond 32 bits", 1<<40+5, uint32(math.MaxUint32)),
	)
})
