// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blfdump

import (
	"strconv"
	"strings"

	"github.com/danjacques/goblf/blf/frame"
	"github.com/danjacques/goblf/blf/object"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// filterFlags are the record selection flags shared by commands.
type filterFlags struct {
	ids      []string
	channels []uint
	types    []string
	limit    int64
}

func (ff *filterFlags) addFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&ff.ids, "id", nil,
		"Only include frames with this identifier (decimal or 0x hex). May be repeated.")
	fs.UintSliceVar(&ff.channels, "channel", nil,
		"Only include frames on this channel. May be repeated.")
	fs.StringSliceVar(&ff.types, "type", nil,
		"Only include objects of this type (e.g. CAN_MESSAGE). May be repeated.")
	fs.Int64Var(&ff.limit, "limit", 0,
		"If >0, stop after this many matching records.")
}

// filter builds the frame.Filter described by the flags.
func (ff *filterFlags) filter() (*frame.Filter, error) {
	var f frame.Filter

	for _, v := range ff.ids {
		id, err := strconv.ParseUint(strings.TrimSpace(v), 0, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid frame identifier %q", v)
		}
		f.IDs = append(f.IDs, uint32(id))
	}

	for _, ch := range ff.channels {
		if ch > 0xFFFF {
			return nil, errors.Errorf("channel %d out of range", ch)
		}
		f.Channels = append(f.Channels, uint16(ch))
	}

	for _, v := range ff.types {
		t, ok := object.ParseType(strings.ToUpper(strings.TrimSpace(v)))
		if !ok {
			return nil, errors.Errorf("unknown object type %q", v)
		}
		f.Types = append(f.Types, t)
	}
	return &f, nil
}
