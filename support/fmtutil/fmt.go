// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package fmtutil contains formatting helpers.
package fmtutil

import (
	"encoding/hex"
	"strings"
)

// Hex is a byte slice that renders as a hex-dumped string.
//
// It can be used for easy lazy hex dumping.
type Hex []byte

func (h Hex) String() string { return hex.Dump([]byte(h)) }

// HexBytes is a byte slice that renders as space-separated upper-case hex
// octets, the way bus payloads are usually shown: "01 A2 FF".
type HexBytes []byte

func (hb HexBytes) String() string {
	const digits = "0123456789ABCDEF"

	var sb strings.Builder
	sb.Grow(3 * len(hb))
	for i, b := range hb {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(digits[b>>4])
		sb.WriteByte(digits[b&0x0F])
	}
	return sb.String()
}
