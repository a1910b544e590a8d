package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const (
	dirPermission  = 0o700
	filePermission = 0o600
)

// File is a Store persisted as a single JSON object on disk, the CLI
// analog of the browser's localStorage. Every mutation rewrites the
// whole file through a temp-file rename so readers never observe a
// partial write. I/O failures are logged and otherwise swallowed; the
// session then simply does not survive the process, it never crashes
// it.
type File struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
	log     zerolog.Logger
}

// OpenFile loads (or initializes) the store at path. The parent
// directory is created if missing. A file that does not parse is
// treated as empty and overwritten on the next write.
func OpenFile(path string, log zerolog.Logger) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPermission); err != nil {
		return nil, err
	}
	f := &File{
		path:    path,
		entries: map[string]string{},
		log:     log.With().Str("component", "storage").Logger(),
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &f.entries); err != nil {
		f.log.Warn().Str("path", path).Err(err).Msg("state file does not parse, starting empty")
		f.entries = map[string]string{}
	}
	return f, nil
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[key]
	return v, ok
}

func (f *File) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	f.flushLocked()
}

func (f *File) Remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[key]; !ok {
		return
	}
	delete(f.entries, key)
	f.flushLocked()
}

func (f *File) GetJSON(key string, target any) bool {
	raw, ok := f.Get(key)
	if !ok || raw == "" || raw == "undefined" || raw == "null" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		f.log.Warn().Str("key", key).Err(err).Msg("dropping corrupted entry")
		f.Remove(key)
		return false
	}
	return true
}

func (f *File) SetJSON(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.Set(key, string(raw))
	return nil
}

// flushLocked writes the current entries to disk. Callers hold f.mu.
func (f *File) flushLocked() {
	raw, err := json.MarshalIndent(f.entries, "", "  ")
	if err != nil {
		f.log.Error().Err(err).Msg("encode state")
		return
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, filePermission); err != nil {
		f.log.Error().Str("path", f.path).Err(err).Msg("write state")
		return
	}
	if err := os.Rename(tmp, f.path); err != nil {
		f.log.Error().Str("path", f.path).Err(err).Msg("replace state")
	}
}
