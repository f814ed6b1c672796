package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/autoquiz-api/logger"
	"github.com/andrewpaige1/autoquiz-api/storage"
)

func TestNewEngineSelection(t *testing.T) {
	log := logger.NewNop()

	t.Run("memory when STORAGE=memory", func(t *testing.T) {
		t.Setenv("STORAGE", "memory")
		t.Setenv("DB_URL", "postgres://ignored")

		_, ok := NewEngine(log).(*storage.MemoryBackend)
		require.True(t, ok)
	})

	t.Run("relational when DB_URL is set", func(t *testing.T) {
		t.Setenv("STORAGE", "")
		t.Setenv("DB_URL", "postgres://user:pw@localhost:5432/autoquiz")

		_, ok := NewEngine(log).(*storage.RelationalBackend)
		require.True(t, ok)
	})

	t.Run("relational sqlite fallback", func(t *testing.T) {
		t.Setenv("STORAGE", "")
		t.Setenv("DB_URL", "")
		t.Setenv("SQLITE_PATH", "")

		_, ok := NewEngine(log).(*storage.RelationalBackend)
		require.True(t, ok)
	})
}

func TestSQLiteDSNCarriesForeignKeys(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"autoquiz.db", "autoquiz.db?_foreign_keys=on"},
		{"/data/autoquiz.db", "/data/autoquiz.db?_foreign_keys=on"},
		{"file:test?mode=memory&cache=shared", "file:test?mode=memory&cache=shared&_foreign_keys=on"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, sqliteDSN(tt.path))
	}
}
