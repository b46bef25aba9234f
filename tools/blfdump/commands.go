// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package blfdump

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/danjacques/goblf/blf"
	"github.com/danjacques/goblf/blf/frame"
	"github.com/danjacques/goblf/blf/object"
	"github.com/danjacques/goblf/export"
	"github.com/danjacques/goblf/support/fmtutil"

	"github.com/spf13/cobra"
)

func (a *app) dumpCommand() *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the records in a BLF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			db := a.cfg.Database()
			out := cmd.OutOrStdout()

			var count int64
			_, err = a.eachRecord(args[0], func(r *blf.Reader, rec *blf.Record) error {
				if !f.Match(rec.Object) {
					return nil
				}
				writeRecord(out, rec, db)

				count++
				if ff.limit > 0 && count >= ff.limit {
					return errStop
				}
				return nil
			})
			return err
		},
	}
	ff.addFlags(cmd.Flags())
	return cmd
}

// writeRecord writes a one-line description of rec to w, followed by a line
// for each of its warnings.
func writeRecord(w io.Writer, rec *blf.Record, db frame.Database) {
	o := rec.Object
	fmt.Fprintf(w, "%8d %14.6f %-24s", rec.Index, o.ObjectHeader().Duration().Seconds(), o.Type())

	if fr, ok := frame.Of(o); ok {
		dir := "Rx"
		if fr.IsTx() {
			dir = "Tx"
		}
		fmt.Fprintf(w, " %-8s ch=%-3d id=0x%-8X %s [%s]",
			fr.Bus(), fr.Channel(), fr.ID(), dir, fmtutil.HexBytes(fr.Payload()))
		if db != nil {
			if name, ok := db.Lookup(fr.Channel(), fr.ID()); ok {
				fmt.Fprintf(w, " %s", name)
			}
		}
	} else {
		switch t := o.(type) {
		case *object.AppText:
			fmt.Fprintf(w, " %q", t.Text)
		case *object.EventComment:
			fmt.Fprintf(w, " %q", t.Text)
		case *object.GlobalMarker:
			fmt.Fprintf(w, " %q", t.MarkerName)
		case *object.EnvVariable:
			fmt.Fprintf(w, " %s", t.Name)
		case *object.SystemVariable:
			fmt.Fprintf(w, " %s", t.Name)
		case *object.Raw:
			fmt.Fprintf(w, " (%d bytes)", len(t.Payload))
		}
	}
	fmt.Fprintln(w)

	for _, err := range rec.Warnings {
		fmt.Fprintf(w, "%8s ! %s\n", "", err)
	}
}

// fileStats summarizes a BLF file.
type fileStats struct {
	records  int64
	first    time.Duration
	last     time.Duration
	byType   map[object.Type]int64
	warnings int64
	uniques  frame.Uniques
}

func (s *fileStats) add(rec *blf.Record) {
	ts := rec.Object.ObjectHeader().Duration()
	if s.records == 0 || ts < s.first {
		s.first = ts
	}
	if ts > s.last {
		s.last = ts
	}
	s.records++

	if s.byType == nil {
		s.byType = make(map[object.Type]int64)
	}
	s.byType[rec.Object.Type()]++
	s.warnings += int64(len(rec.Warnings))
	s.uniques.Add(rec.Object)
}

func (s *fileStats) write(w io.Writer, h *blf.FileHeader, streamWarnings []error) {
	fmt.Fprintf(w, "Application:      %d v%d.%d.%d\n",
		h.ApplicationID, h.ApplicationMajor, h.ApplicationMinor, h.ApplicationBuild)
	fmt.Fprintf(w, "API:              %d\n", h.APINumber)
	fmt.Fprintf(w, "File size:        %d (%d uncompressed)\n", h.FileSize, h.UncompressedFileSize)
	fmt.Fprintf(w, "Object count:     %d\n", h.ObjectCount)
	if !h.MeasurementStartTime.IsZero() {
		fmt.Fprintf(w, "Measurement:      %s - %s\n",
			h.MeasurementStartTime.Time().Format(time.RFC3339), h.LastObjectTime.Time().Format(time.RFC3339))
	}

	fmt.Fprintf(w, "Records:          %d\n", s.records)
	if s.records > 0 {
		fmt.Fprintf(w, "Time span:        %s - %s\n", s.first, s.last)
	}
	fmt.Fprintf(w, "Warnings:         %d record, %d stream\n", s.warnings, len(streamWarnings))

	types := make([]object.Type, 0, len(s.byType))
	for t := range s.byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		fmt.Fprintf(w, "  %-28s %d\n", t, s.byType[t])
	}

	channels := s.uniques.Channels()
	chs := make([]string, len(channels))
	for i, ch := range channels {
		chs[i] = fmt.Sprint(ch)
	}
	ids := s.uniques.IDs()
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = fmt.Sprintf("0x%X", id)
	}
	fmt.Fprintf(w, "Channels (%d):     %s\n", len(chs), strings.Join(chs, " "))
	fmt.Fprintf(w, "Identifiers (%d):  %s\n", len(idStrs), strings.Join(idStrs, " "))
}

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Summarize a BLF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s fileStats
			r, err := a.eachRecord(args[0], func(r *blf.Reader, rec *blf.Record) error {
				s.add(rec)
				return nil
			})
			if err != nil {
				return err
			}
			s.write(cmd.OutOrStdout(), r.Header(), r.Warnings())
			return nil
		},
	}
}

func (a *app) exportCommand() *cobra.Command {
	var (
		ff          filterFlags
		compression export.CompressionFlag
		level       int
	)

	cmd := &cobra.Command{
		Use:   "export FILE OUTPUT",
		Short: "Convert a BLF file to an export stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}

			wcfg := export.WriterConfig{
				Compression:      compression.Value(),
				CompressionLevel: level,
				Database:         a.cfg.Database(),
			}
			if c := a.cfg.Export.Compression; c != "" && !cmd.Flags().Changed("compression") {
				if wcfg.Compression, err = export.ParseCompression(c); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("level") && a.cfg.Export.Level != 0 {
				wcfg.CompressionLevel = a.cfg.Export.Level
			}

			var (
				w     *export.Writer
				count int64
			)
			r, err := a.eachRecord(args[0], func(r *blf.Reader, rec *blf.Record) error {
				if w == nil {
					var err error
					if w, err = wcfg.Create(args[1], r.Header()); err != nil {
						return err
					}
				}
				if !f.Match(rec.Object) {
					return nil
				}
				if err := w.Write(rec); err != nil {
					return err
				}

				count++
				if ff.limit > 0 && count >= ff.limit {
					return errStop
				}
				return nil
			})
			if err != nil {
				if w != nil {
					_ = w.Abort()
				}
				return err
			}

			if w == nil {
				// The file had no records; export its header alone.
				if w, err = wcfg.Create(args[1], r.Header()); err != nil {
					return err
				}
			}
			if err := w.Close(); err != nil {
				return err
			}

			a.logger.Infof("Exported %d record(s) (%d bytes) to %q.", w.NumRecords(), w.NumBytes(), w.Path())
			return nil
		},
	}

	fs := cmd.Flags()
	ff.addFlags(fs)
	fs.Var(&compression, "compression",
		fmt.Sprintf("Compression to apply to exported records. Options are: %s", export.CompressionFlagValues()))
	fs.IntVar(&level, "level", 0, "Compression level, if the compression supports it.")
	return cmd
}
