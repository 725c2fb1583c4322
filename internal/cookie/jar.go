// Package cookie stores client-side credentials by name with a local expiry.
//
// The expiry is storage hygiene only. It says nothing about whether the
// backend still accepts a token.
package cookie

import (
	"sync"
	"time"
)

// Jar is the credential store the session manager reads and writes.
type Jar interface {
	// Get returns the value stored under name. Expired entries are absent.
	Get(name string) (string, bool)

	// Set stores value under name, expiring ttl from now.
	Set(name, value string, ttl time.Duration) error

	// Remove deletes the named entries. Missing names are ignored.
	Remove(names ...string) error
}

// Entry is one stored credential.
type Entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (e Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// MemoryJar keeps entries in process memory.
type MemoryJar struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// NewMemoryJar creates an empty in-memory jar.
func NewMemoryJar() *MemoryJar {
	return &MemoryJar{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (j *MemoryJar) WithClock(now func() time.Time) *MemoryJar {
	j.now = now
	return j
}

// Get returns the value stored under name.
func (j *MemoryJar) Get(name string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	e, ok := j.entries[name]
	if !ok || e.expired(j.now()) {
		return "", false
	}
	return e.Value, true
}

// Set stores value under name.
func (j *MemoryJar) Set(name, value string, ttl time.Duration) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries[name] = Entry{Value: value, ExpiresAt: j.now().Add(ttl)}
	return nil
}

// Remove deletes the named entries.
func (j *MemoryJar) Remove(names ...string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, name := range names {
		delete(j.entries, name)
	}
	return nil
}

// Entry returns the raw entry including its expiry, expired or not.
func (j *MemoryJar) Entry(name string) (Entry, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	e, ok := j.entries[name]
	return e, ok
}

// Len returns the number of stored entries, expired ones included.
func (j *MemoryJar) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

var (
	_ Jar = (*MemoryJar)(nil)
	_ Jar = (*FileJar)(nil)
)
