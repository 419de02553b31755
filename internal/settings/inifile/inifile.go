// Package inifile implements the settings backing store on UTF-8
// INI-style text files via gopkg.in/ini.v1.
//
// A store handle is opened per call and holds the whole file in memory;
// Sync serializes and replaces the file atomically, so interrupted
// writes leave the previous content intact.
package inifile

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/ini.v1"

	"github.com/thoreinstein/vmx/internal/settings/store"
	"github.com/thoreinstein/vmx/pkg/fileutil"
)

// FilePerm restricts settings files to their owner.
const FilePerm = 0o600

func init() {
	// Write bare key=value lines rather than aligned "key = value".
	ini.PrettyFormat = false
}

// Factory opens INI-backed stores.
type Factory struct{}

// NewFactory returns the production store factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Open loads the file at path. A missing file yields an empty store
// with ok status; load failures are deferred into the store's status.
func (*Factory) Open(path string) store.Store {
	s := &iniStore{path: path}

	file, err := ini.Load(path)
	switch {
	case err == nil:
		s.file = file
	case errors.Is(err, fs.ErrNotExist):
		// No settings saved yet.
		s.file = ini.Empty()
	case errors.Is(err, fs.ErrPermission):
		s.file = ini.Empty()
		s.status = store.StatusAccessError
	default:
		s.file = ini.Empty()
		s.status = store.StatusFormatError
	}

	return s
}

type iniStore struct {
	path   string
	file   *ini.File
	status store.Status
}

func (s *iniStore) Value(key, fallback string) string {
	section := s.file.Section(ini.DefaultSection)
	if !section.HasKey(key) {
		return fallback
	}
	return section.Key(key).String()
}

func (s *iniStore) SetValue(key, value string) {
	s.file.Section(ini.DefaultSection).Key(key).SetValue(value)
}

// Sync flushes the in-memory state to disk. It refuses to write over a
// file it could not parse: replacing corrupt content would destroy
// whatever the user had there.
func (s *iniStore) Sync() {
	if s.status == store.StatusFormatError {
		return
	}

	var buf bytes.Buffer
	if _, err := s.file.WriteTo(&buf); err != nil {
		s.status = store.StatusAccessError
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.status = store.StatusAccessError
		return
	}

	if err := fileutil.AtomicWriteFile(s.path, buf.Bytes(), FilePerm); err != nil {
		s.status = store.StatusAccessError
		return
	}

	s.status = store.StatusOK
}

func (s *iniStore) Status() store.Status {
	return s.status
}

func (s *iniStore) FileName() string {
	return s.path
}
