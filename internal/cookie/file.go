package cookie

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "github.com/reciplore/reciplore/internal/errors"
)

// FileJar persists entries as a JSON object in a single 0600 file.
// Every call reads the file, so separate CLI invocations share state.
type FileJar struct {
	path string
	mu   sync.RWMutex
	now  func() time.Time
}

// NewFileJar creates a file-backed jar, creating the parent directory.
func NewFileJar(path string) (*FileJar, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDirectoryFailed, apperrors.KindUnknown,
			"failed to create credential directory", err)
	}

	return &FileJar{path: path, now: time.Now}, nil
}

// WithClock replaces the time source, for tests.
func (j *FileJar) WithClock(now func() time.Time) *FileJar {
	j.now = now
	return j
}

// Path returns the backing file path.
func (j *FileJar) Path() string {
	return j.path
}

// Get returns the value stored under name. A missing or unreadable file
// reads as an empty jar.
func (j *FileJar) Get(name string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	entries, err := j.load()
	if err != nil {
		return "", false
	}

	e, ok := entries[name]
	if !ok || e.expired(j.now()) {
		return "", false
	}
	return e.Value, true
}

// Set stores value under name and prunes expired entries.
func (j *FileJar) Set(name, value string, ttl time.Duration) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.load()
	if err != nil {
		// a corrupt file is replaced rather than blocking login
		entries = make(map[string]Entry)
	}

	now := j.now()
	entries[name] = Entry{Value: value, ExpiresAt: now.Add(ttl)}
	prune(entries, now)

	return j.save(entries)
}

// Remove deletes the named entries. The file is removed once empty.
func (j *FileJar) Remove(names ...string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.load()
	if err != nil {
		entries = make(map[string]Entry)
	}

	for _, name := range names {
		delete(entries, name)
	}
	prune(entries, j.now())

	if len(entries) == 0 {
		if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return apperrors.Wrap(apperrors.ErrCodeFileWriteFailed, apperrors.KindUnknown,
				"failed to remove credential file", err)
		}
		return nil
	}

	return j.save(entries)
}

func prune(entries map[string]Entry, now time.Time) {
	for name, e := range entries {
		if e.expired(now) {
			delete(entries, name)
		}
	}
}

// load reads entries from disk (caller must hold lock).
func (j *FileJar) load() (map[string]Entry, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]Entry), nil
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeFileReadFailed, apperrors.KindUnknown,
			"failed to read credential file", err)
	}

	if len(data) == 0 {
		return make(map[string]Entry), nil
	}

	entries := make(map[string]Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperrors.NewFileUnmarshalError(j.path, "JSON", err)
	}
	return entries, nil
}

// save writes entries atomically via a temp file (caller must hold lock).
func (j *FileJar) save(entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeFileWriteFailed, apperrors.KindUnknown,
			"failed to encode credentials", err)
	}

	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeFileWriteFailed, apperrors.KindUnknown,
			"failed to write credential file", err)
	}

	if err := os.Rename(tmp, j.path); err != nil {
		_ = os.Remove(tmp)
		return apperrors.Wrap(apperrors.ErrCodeFileWriteFailed, apperrors.KindUnknown,
			"failed to replace credential file", err)
	}
	return nil
}
