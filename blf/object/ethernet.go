// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package object

import (
	"encoding/binary"
	"math"

	"github.com/danjacques/goblf/support/byteslicereader"

	"github.com/pkg/errors"
)

var ethernetFamily = []registryEntry{
	{TypeEthernetFrame, func() Object { return &EthernetFrame{} }},
}

// Ethernet frame directions.
const (
	EthernetDirRx uint16 = 0
	EthernetDirTx uint16 = 1
)

// EthernetFrame is a captured Ethernet frame (ETHERNET_FRAME).
//
// TPID and TCI are non-zero only for VLAN-tagged frames. Payload excludes the
// MAC addresses, tag and EtherType.
type EthernetFrame struct {
	Header

	SourceAddress      [6]byte
	Channel            uint16
	DestinationAddress [6]byte
	Dir                uint16
	EtherType          uint16
	TPID               uint16
	TCI                uint16
	Reserved           uint64
	Payload            []byte
}

// Type implements Object.
func (*EthernetFrame) Type() Type { return TypeEthernetFrame }

// IsTx returns true if the frame was transmitted by the logging node.
func (o *EthernetFrame) IsTx() bool { return o.Dir == EthernetDirTx }

// VLANID returns the frame's VLAN identifier, or 0 when untagged.
func (o *EthernetFrame) VLANID() uint16 { return o.TCI & 0x0FFF }

func (o *EthernetFrame) decodeBody(r *byteslicereader.R) (err error) {
	if err = r.Fill(o.SourceAddress[:]); err != nil {
		return
	}
	if o.Channel, err = r.Uint16(); err != nil {
		return
	}
	if err = r.Fill(o.DestinationAddress[:]); err != nil {
		return
	}
	for _, v := range []*uint16{&o.Dir, &o.EtherType, &o.TPID, &o.TCI} {
		if *v, err = r.Uint16(); err != nil {
			return
		}
	}
	var n uint16
	if n, err = r.Uint16(); err != nil {
		return
	}
	if o.Reserved, err = r.Uint64(); err != nil {
		return
	}
	if o.Payload, err = r.Bytes(int(n)); err != nil {
		return lengthError(r, "payload", int(n))
	}
	return nil
}

func (o *EthernetFrame) appendBody(b []byte) ([]byte, error) {
	if len(o.Payload) > math.MaxUint16 {
		return b, errors.Errorf("payload of %d bytes is too large", len(o.Payload))
	}

	le := binary.LittleEndian
	b = append(b, o.SourceAddress[:]...)
	b = le.AppendUint16(b, o.Channel)
	b = append(b, o.DestinationAddress[:]...)
	b = le.AppendUint16(b, o.Dir)
	b = le.AppendUint16(b, o.EtherType)
	b = le.AppendUint16(b, o.TPID)
	b = le.AppendUint16(b, o.TCI)
	b = le.AppendUint16(b, uint16(len(o.Payload)))
	b = le.AppendUint64(b, o.Reserved)
	return append(b, o.Payload...), nil
}
