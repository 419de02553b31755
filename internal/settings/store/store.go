// Package store defines the backing-store seam of the settings
// registry: a narrow file-resident key/value engine interface plus the
// factory through which concrete engines (and test doubles) are
// injected.
package store

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
)

// Status is the health of a Store after its last operation.
type Status int

const (
	// StatusOK means the last operation completed normally.
	StatusOK Status = iota
	// StatusFormatError means the backing file content is corrupt.
	StatusFormatError
	// StatusAccessError means the backing file could not be read or written.
	StatusAccessError
)

// String returns the status name for logs and error messages.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFormatError:
		return "format error"
	case StatusAccessError:
		return "access error"
	}
	return "unknown"
}

// Store is a file-resident key/value engine. Errors are deferred into
// Status rather than returned per call, so that a whole read or write
// pipeline can run and be verified once at the end.
type Store interface {
	// Value returns the stored value for key, or fallback if absent.
	Value(key, fallback string) string

	// SetValue records the value for key in memory.
	SetValue(key, value string)

	// Sync flushes pending changes to the backing file.
	Sync()

	// Status reports the outcome of the operations so far.
	Status() Status

	// FileName returns the path of the backing file.
	FileName() string
}

// Factory produces store handles, one per call; handles are not cached
// across calls. It is the seam through which tests substitute
// in-memory doubles.
type Factory interface {
	Open(path string) Store
}

// FileProbe attempts to open a file for reading. It exists because some
// store engines report an ok status even when the backing file cannot
// actually be opened due to permissions; an independent open attempt
// disambiguates that case.
type FileProbe interface {
	OpenRead(path string) error
}

// OSProbe is the default FileProbe, backed by os.Open.
type OSProbe struct{}

// OpenRead opens the file for reading and closes it immediately.
func (OSProbe) OpenRead(path string) error {
	f, err := os.Open(path)
	if err == nil {
		f.Close()
	}
	return err
}

// ExistsButUnreadable reports whether the probe failed for a reason
// other than the file not existing. A missing file just means no
// settings were saved yet and is not an error.
func ExistsButUnreadable(probe FileProbe, filename string) bool {
	err := probe.OpenRead(filename)
	return err != nil && !errors.Is(err, fs.ErrNotExist)
}
