package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDefaultsToRealBackend(t *testing.T) {
	s, err := Open(PathIn(t.TempDir()))
	require.NoError(t, err)
	assert.False(t, s.Get())
}

func TestToggleTwiceRestores(t *testing.T) {
	s, err := Open(PathIn(t.TempDir()))
	require.NoError(t, err)

	v, err := s.Toggle()
	require.NoError(t, err)
	assert.True(t, v)
	assert.True(t, s.Get())

	v, err = s.Toggle()
	require.NoError(t, err)
	assert.False(t, v)
	assert.False(t, s.Get())
}

func TestToggleSurvivesNewSession(t *testing.T) {
	path := PathIn(filepath.Join(t.TempDir(), "nested"))

	first, err := Open(path)
	require.NoError(t, err)
	_, err = first.Toggle()
	require.NoError(t, err)

	second, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, first.Get(), second.Get())
	assert.True(t, second.Get())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"isEnabled": true}`, string(raw))
}

func TestCorruptRecordFallsBackToDefault(t *testing.T) {
	path := PathIn(t.TempDir())
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.False(t, s.Get())
}

func TestToggleWriteFailureKeepsValue(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prefs")
	s, err := Open(PathIn(dir))
	require.NoError(t, err)

	// The record's directory is now a regular file, so the write fails.
	require.NoError(t, os.WriteFile(dir, nil, 0o600))

	v, err := s.Toggle()
	assert.Error(t, err)
	assert.False(t, v)
	assert.False(t, s.Get())
}

func TestPathIn(t *testing.T) {
	assert.Equal(t, filepath.Join("cfg", "simulation-storage.json"), PathIn("cfg"))
}
