package db

import (
	"database/sql"
	_ "embed"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Open opens the page-cache database and applies the schema. `target` is
// either a local sqlite file path (":memory:" works) or a libsql URL for
// a hosted replica.
func Open(target string) (*sql.DB, error) {
	var (
		database *sql.DB
		err      error
	)
	if strings.HasPrefix(target, "libsql://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "wss://") {
		database, err = sql.Open("libsql", target)
	} else {
		database, err = sql.Open("sqlite", target)
	}
	if err != nil {
		return nil, err
	}

	_, err = database.Exec(Schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		database.Close()
		return nil, err
	}
	return database, nil
}
