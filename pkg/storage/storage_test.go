package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notably/notably.go/pkg/storage"
)

func openFile(t *testing.T, path string) *storage.File {
	t.Helper()
	f, err := storage.OpenFile(path, zerolog.Nop())
	require.NoError(t, err)
	return f
}

func stores(t *testing.T) map[string]storage.Store {
	t.Helper()
	return map[string]storage.Store{
		"memory": storage.NewMemory(),
		"file":   openFile(t, filepath.Join(t.TempDir(), "state.json")),
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		ID    int64             `json:"id"`
		Name  string            `json:"name"`
		Tags  []string          `json:"tags"`
		Extra map[string]string `json:"extra"`
	}
	want := payload{
		ID:    42,
		Name:  "round trip",
		Tags:  []string{"a", "b"},
		Extra: map[string]string{"k": "v"},
	}

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SetJSON("payload", want))

			var got payload
			require.True(t, s.GetJSON("payload", &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestGetJSONCorruptedEntryIsRemoved(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s.Set("user", "{not json")

			var got map[string]any
			assert.False(t, s.GetJSON("user", &got))

			// The corrupted entry must be gone entirely.
			_, ok := s.Get("user")
			assert.False(t, ok)
		})
	}
}

func TestGetJSONSentinelStrings(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, raw := range []string{"", "undefined", "null"} {
				s.Set("k", raw)
				var got any
				assert.False(t, s.GetJSON("k", &got), "raw=%q", raw)
			}
		})
	}
}

func TestClearSession(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s.Set(storage.KeyToken, "t1")
			require.NoError(t, s.SetJSON(storage.KeyUser, map[string]any{"id": 1}))

			storage.ClearSession(s)

			_, ok := s.Get(storage.KeyToken)
			assert.False(t, ok)
			_, ok = s.Get(storage.KeyUser)
			assert.False(t, ok)
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first := openFile(t, path)
	first.Set(storage.KeyToken, "persisted")

	second := openFile(t, path)
	got, ok := second.Get(storage.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "persisted", got)
}

func TestFileStoreUnparsableFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	f := openFile(t, path)
	_, ok := f.Get(storage.KeyToken)
	assert.False(t, ok)
}
