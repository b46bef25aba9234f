// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package frame

// Database resolves frames to message definitions, as a DBC or LDF database
// does. Signal decoding is left to the database's own package.
type Database interface {
	// Lookup returns the name of the message defined for id on channel.
	Lookup(channel uint16, id uint32) (name string, ok bool)
}

// Key identifies a message definition.
type Key struct {
	Channel uint16
	ID      uint32
}

// MapDatabase is a Database backed by a map.
//
// A definition with Channel 0 applies to every channel that has no definition
// of its own.
type MapDatabase map[Key]string

// Lookup implements Database.
func (db MapDatabase) Lookup(channel uint16, id uint32) (string, bool) {
	if name, ok := db[Key{Channel: channel, ID: id}]; ok {
		return name, true
	}
	name, ok := db[Key{ID: id}]
	return name, ok
}

// Annotated is a frame paired with its message name. Name is empty if the
// database has no definition for the frame.
type Annotated struct {
	Frame
	Name string
}

// Annotate pairs each frame with the name db defines for it. A nil db leaves
// every name empty.
func Annotate(db Database, frames []Frame) []Annotated {
	res := make([]Annotated, len(frames))
	for i, fr := range frames {
		res[i].Frame = fr
		if db != nil {
			res[i].Name, _ = db.Lookup(fr.Channel(), fr.ID())
		}
	}
	return res
}
