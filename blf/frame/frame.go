// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package frame presents bus frames carried by BLF objects in a common form,
// and filters and summarizes them.
package frame

import (
	"fmt"
	"time"

	"github.com/danjacques/goblf/blf/object"
)

// Bus is the kind of network a frame was captured on.
type Bus int

// Supported buses.
const (
	BusCAN Bus = iota + 1
	BusCANFD
	BusLIN
	BusFlexRay
	BusEthernet
)

func (b Bus) String() string {
	switch b {
	case BusCAN:
		return "CAN"
	case BusCANFD:
		return "CAN FD"
	case BusLIN:
		return "LIN"
	case BusFlexRay:
		return "FlexRay"
	case BusEthernet:
		return "Ethernet"
	default:
		return fmt.Sprintf("Bus(%d)", int(b))
	}
}

// Frame is a bus frame carried by an object.
type Frame interface {
	// Object returns the object carrying the frame.
	Object() object.Object
	// Bus returns the bus the frame was captured on.
	Bus() Bus
	// Channel returns the logging channel.
	Channel() uint16
	// ID returns the frame identifier: the CAN or LIN identifier, the
	// FlexRay slot, or the Ethernet EtherType.
	ID() uint32
	// Payload returns the frame's data bytes.
	Payload() []byte
	// Timestamp returns the time of the frame since the start of the
	// measurement.
	Timestamp() time.Duration
	// IsTx returns true if the frame was transmitted by the logging node.
	IsTx() bool
}

type view struct {
	obj     object.Object
	bus     Bus
	channel uint16
	id      uint32
	payload []byte
	tx      bool
}

func (v *view) Object() object.Object    { return v.obj }
func (v *view) Bus() Bus                 { return v.bus }
func (v *view) Channel() uint16          { return v.channel }
func (v *view) ID() uint32               { return v.id }
func (v *view) Payload() []byte          { return v.payload }
func (v *view) Timestamp() time.Duration { return v.obj.ObjectHeader().Duration() }
func (v *view) IsTx() bool               { return v.tx }

func (v *view) String() string {
	return fmt.Sprintf("%s ch%d id=0x%X len=%d", v.bus, v.channel, v.id, len(v.payload))
}

// Of returns the frame carried by o. It returns false if o does not carry a
// bus frame.
func Of(o object.Object) (Frame, bool) {
	v := view{obj: o}
	switch t := o.(type) {
	case *object.CANMessage:
		v.bus, v.channel, v.id, v.payload, v.tx = BusCAN, t.Channel, uint32(t.ID), t.Payload(), t.IsTx()
	case *object.CANMessage2:
		v.bus, v.channel, v.id, v.payload, v.tx = BusCAN, t.Channel, uint32(t.ID), t.Payload(), t.IsTx()
	case *object.CANFDMessage:
		v.bus, v.channel, v.id, v.payload, v.tx = BusCANFD, t.Channel, uint32(t.ID), t.Payload(), t.IsTx()
	case *object.CANFDMessage64:
		v.bus, v.channel, v.id, v.payload, v.tx = BusCANFD, uint16(t.Channel), uint32(t.ID), t.Payload(), t.IsTx()
	case *object.LINMessage:
		v.bus, v.channel, v.id, v.payload, v.tx = BusLIN, t.Channel, uint32(t.ID), t.Payload(), t.Dir == 1
	case *object.FlexRayData:
		v.bus, v.channel, v.id, v.payload, v.tx = BusFlexRay, t.Channel, uint32(t.MessageID), t.Payload(), t.Dir == 1
	case *object.FlexRayV6Message:
		v.bus, v.channel, v.id, v.payload, v.tx = BusFlexRay, t.Channel, uint32(t.FrameID), t.Payload(), t.Dir == 1
	case *object.FlexRayVFrReceiveMsg:
		v.bus, v.channel, v.id, v.payload, v.tx = BusFlexRay, t.Channel, uint32(t.FrameID), t.Payload(), t.Dir == 1
	case *object.FlexRayVFrReceiveMsgEx:
		v.bus, v.channel, v.id, v.payload, v.tx = BusFlexRay, t.Channel, uint32(t.FrameID), t.Payload(), t.Dir == 1
	case *object.EthernetFrame:
		v.bus, v.channel, v.id, v.payload, v.tx = BusEthernet, t.Channel, uint32(t.EtherType), t.Payload, t.IsTx()
	default:
		return nil, false
	}
	return &v, true
}
