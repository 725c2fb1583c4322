package cookie

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryJar_SetGetRemove(t *testing.T) {
	clock := newClock()
	jar := NewMemoryJar().WithClock(clock.Now)

	_, ok := jar.Get("accessToken")
	assert.False(t, ok)

	require.NoError(t, jar.Set("accessToken", "a", time.Hour))
	require.NoError(t, jar.Set("refreshToken", "b", 2*time.Hour))

	v, ok := jar.Get("accessToken")
	require.True(t, ok)
	assert.Equal(t, "a", v)

	e, ok := jar.Entry("refreshToken")
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(2*time.Hour), e.ExpiresAt)

	require.NoError(t, jar.Remove("accessToken", "refreshToken", "missing"))
	assert.Equal(t, 0, jar.Len())
}

func TestMemoryJar_Expiry(t *testing.T) {
	clock := newClock()
	jar := NewMemoryJar().WithClock(clock.Now)

	require.NoError(t, jar.Set("accessToken", "a", time.Hour))

	clock.Advance(59 * time.Minute)
	_, ok := jar.Get("accessToken")
	assert.True(t, ok, "entry should survive until its expiry")

	clock.Advance(time.Minute)
	_, ok = jar.Get("accessToken")
	assert.False(t, ok, "entry should be absent at its expiry")
}

func TestFileJar_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cookies.json")
	clock := newClock()

	first, err := NewFileJar(path)
	require.NoError(t, err)
	first.WithClock(clock.Now)

	require.NoError(t, first.Set("accessToken", "a", 7*24*time.Hour))
	require.NoError(t, first.Set("refreshToken", "b", 14*24*time.Hour))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := NewFileJar(path)
	require.NoError(t, err)
	second.WithClock(clock.Now)

	v, ok := second.Get("refreshToken")
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, path, second.Path())
}

func TestFileJar_ExpiredEntriesArePruned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	clock := newClock()

	jar, err := NewFileJar(path)
	require.NoError(t, err)
	jar.WithClock(clock.Now)

	require.NoError(t, jar.Set("accessToken", "a", time.Hour))
	require.NoError(t, jar.Set("refreshToken", "b", 48*time.Hour))

	clock.Advance(2 * time.Hour)
	_, ok := jar.Get("accessToken")
	assert.False(t, ok)

	require.NoError(t, jar.Set("other", "c", time.Hour))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"accessToken"`)
	assert.Contains(t, string(data), `"refreshToken"`)
}

func TestFileJar_RemoveDeletesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")

	jar, err := NewFileJar(path)
	require.NoError(t, err)

	require.NoError(t, jar.Set("accessToken", "a", time.Hour))
	require.NoError(t, jar.Set("refreshToken", "b", time.Hour))
	require.NoError(t, jar.Remove("accessToken", "refreshToken"))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "credential file should be removed once empty")

	// removing again is a no-op
	require.NoError(t, jar.Remove("accessToken"))
}

func TestFileJar_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	jar, err := NewFileJar(path)
	require.NoError(t, err)

	_, ok := jar.Get("accessToken")
	assert.False(t, ok, "corrupt file should read as empty")

	require.NoError(t, jar.Set("accessToken", "fresh", time.Hour))
	v, ok := jar.Get("accessToken")
	require.True(t, ok)
	assert.Equal(t, "fresh", v)
}
