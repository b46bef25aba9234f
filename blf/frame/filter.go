// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package frame

import (
	"sort"

	"github.com/danjacques/goblf/blf/object"
)

// Filter selects objects by channel, identifier and type. An empty set
// matches everything.
//
// Objects that do not carry a frame have neither channel nor identifier, so
// they never match a Filter that names channels or identifiers.
type Filter struct {
	Channels []uint16
	IDs      []uint32
	Types    []object.Type
}

// IsEmpty returns true if f matches every object.
func (f *Filter) IsEmpty() bool {
	return len(f.Channels) == 0 && len(f.IDs) == 0 && len(f.Types) == 0
}

// Match returns true if o is selected by f.
func (f *Filter) Match(o object.Object) bool {
	if len(f.Types) > 0 && !containsType(f.Types, o.Type()) {
		return false
	}
	if len(f.Channels) == 0 && len(f.IDs) == 0 {
		return true
	}

	fr, ok := Of(o)
	if !ok {
		return false
	}
	if len(f.Channels) > 0 && !containsChannel(f.Channels, fr.Channel()) {
		return false
	}
	if len(f.IDs) > 0 && !containsID(f.IDs, fr.ID()) {
		return false
	}
	return true
}

// Apply returns the objects in objs selected by f, in order.
func (f *Filter) Apply(objs []object.Object) []object.Object {
	if f.IsEmpty() {
		return objs
	}
	var res []object.Object
	for _, o := range objs {
		if f.Match(o) {
			res = append(res, o)
		}
	}
	return res
}

func containsType(s []object.Type, v object.Type) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

func containsChannel(s []uint16, v uint16) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

func containsID(s []uint32, v uint32) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

// Uniques accumulates the distinct channels and identifiers of the frames it
// is shown.
type Uniques struct {
	channels map[uint16]struct{}
	ids      map[uint32]struct{}
}

// Add records o's channel and identifier, if it carries a frame.
func (u *Uniques) Add(o object.Object) {
	fr, ok := Of(o)
	if !ok {
		return
	}
	if u.channels == nil {
		u.channels = make(map[uint16]struct{})
		u.ids = make(map[uint32]struct{})
	}
	u.channels[fr.Channel()] = struct{}{}
	u.ids[fr.ID()] = struct{}{}
}

// Channels returns the distinct channels seen, sorted.
func (u *Uniques) Channels() []uint16 {
	res := make([]uint16, 0, len(u.channels))
	for ch := range u.channels {
		res = append(res, ch)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// IDs returns the distinct identifiers seen, sorted.
func (u *Uniques) IDs() []uint32 {
	res := make([]uint32, 0, len(u.ids))
	for id := range u.ids {
		res = append(res, id)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// UniqueChannels returns the sorted distinct channels of the frames in objs.
func UniqueChannels(objs []object.Object) []uint16 {
	var u Uniques
	for _, o := range objs {
		u.Add(o)
	}
	return u.Channels()
}

// UniqueIDs returns the sorted distinct identifiers of the frames in objs.
func UniqueIDs(objs []object.Object) []uint32 {
	var u Uniques
	for _, o := range objs {
		u.Add(o)
	}
	return u.IDs()
}
