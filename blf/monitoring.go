// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blf

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	containersRead = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blf_reader_containers",
		Help: "Count of containers read.",
	})

	containerBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blf_reader_container_bytes",
		Help: "Count of uncompressed container bytes produced.",
	})

	objectsDecoded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blf_reader_objects",
		Help: "Count of decoded objects, by object type.",
	}, []string{"type"})

	rawObjects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blf_reader_raw_objects",
		Help: "Count of objects delivered undecoded.",
	})

	readerWarnings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blf_reader_warnings",
		Help: "Count of warnings encountered while reading, by kind.",
	}, []string{"kind"})

	containersWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blf_writer_containers",
		Help: "Count of containers written.",
	})

	objectsWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blf_writer_objects",
		Help: "Count of objects written.",
	})
)

// RegisterMonitoring registers all of this package's monitoring metrics.
func RegisterMonitoring(reg prometheus.Registerer) {
	reg.MustRegister(
		// Reader
		containersRead,
		containerBytes,
		objectsDecoded,
		rawObjects,
		readerWarnings,

		// Writer
		containersWritten,
		objectsWritten,
	)
}
