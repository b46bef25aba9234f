// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package stagingdir writes files in a temporary staging directory and moves
// them into place only once they are complete.
package stagingdir

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// D manages a staging directory.
//
// While D is active, it resides in a temporary location. Once finished, its
// contents can either be committed or destroyed. On commit, an entry is
// atomically moved into its destination; on destroy, the directory is deleted
// along with all of its contents.
type D struct {
	// path is the path of the staging directory.
	path string
}

// New creates a new staging directory underneath of tempDir.
//
// The directory will be created with the specified prefix. To guarantee that
// Commit is a rename rather than a copy, tempDir should be on the same
// filesystem as the eventual destination.
func New(tempDir, prefix string) (*D, error) {
	stagingPath, err := os.MkdirTemp(tempDir, prefix)
	if err != nil {
		return nil, err
	}
	return &D{path: stagingPath}, nil
}

// Path builds a path relative to the staging directory from the provided
// components.
func (sd *D) Path(first string, components ...string) string {
	if sd.path == "" {
		panic("invalid")
	}

	comps := make([]string, 0, 2+len(components))
	comps = append(comps, sd.path, first)
	return filepath.Join(append(comps, components...)...)
}

// Destroy purges the staging directory and its contents.
func (sd *D) Destroy() error {
	if sd.path == "" {
		// There is nothing to destroy.
		return nil
	}

	if err := os.RemoveAll(sd.path); err != nil {
		return err
	}

	sd.path = "" // Destroyed.
	return nil
}

// Commit atomically moves the staged entry name to dest, replacing anything
// already there, and then destroys the staging directory.
func (sd *D) Commit(name, dest string) error {
	if sd.path == "" {
		return errors.New("invalid staging directory")
	}

	src := sd.Path(name)
	if err := os.Rename(src, dest); err != nil {
		return errors.Wrapf(err, "moving staged file into place (%q => %q)", src, dest)
	}
	return sd.Destroy()
}

// File is a file being written inside its own staging directory, next to its
// eventual destination.
type File struct {
	*os.File

	sd   *D
	dest string
}

// Create opens a staged file that will be moved to dest on Commit.
func Create(dest string) (*File, error) {
	sd, err := New(filepath.Dir(dest), "."+filepath.Base(dest)+".staging")
	if err != nil {
		return nil, errors.Wrap(err, "creating staging directory")
	}

	fd, err := os.Create(sd.Path(filepath.Base(dest)))
	if err != nil {
		_ = sd.Destroy()
		return nil, errors.Wrap(err, "creating staged file")
	}
	return &File{File: fd, sd: sd, dest: dest}, nil
}

// Commit closes the file and moves it to its destination.
func (f *File) Commit() error {
	if err := f.File.Close(); err != nil {
		_ = f.sd.Destroy()
		return errors.Wrap(err, "closing staged file")
	}
	return f.sd.Commit(filepath.Base(f.dest), f.dest)
}

// Abort closes the file and discards it. It is safe to call after Commit.
func (f *File) Abort() error {
	_ = f.File.Close()
	return f.sd.Destroy()
}
