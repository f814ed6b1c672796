package config

import (
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"github.com/andrewpaige1/autoquiz-api/logger"
	"github.com/andrewpaige1/autoquiz-api/storage"
)

// NewEngine picks the storage backend from the environment, once, at
// startup:
//
//	STORAGE=memory  -> in-memory backend (environments without a database)
//	DB_URL set      -> relational backend on postgres
//	otherwise       -> relational backend on a local sqlite file
//	                   (SQLITE_PATH, default autoquiz.db)
//
// The choice is fixed for the process lifetime.
func NewEngine(log *logger.Logger) storage.Engine {
	if os.Getenv("STORAGE") == "memory" {
		return storage.NewMemoryBackend(log)
	}
	if dbURL := os.Getenv("DB_URL"); dbURL != "" {
		return storage.NewRelationalBackend(postgres.Open(dbURL), log)
	}
	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "autoquiz.db"
	}
	return storage.NewRelationalBackend(sqlite.Open(sqliteDSN(path)), log)
}

// sqliteDSN appends the foreign-key parameter to a sqlite path. sqlite only
// enforces foreign keys per connection, so the pragma has to travel in the
// DSN to reach every connection the pool opens, not just the first one.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
