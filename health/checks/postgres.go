package checks

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Postgres creates a checker that runs SELECT 1 against a PostgreSQL pool.
func Postgres(db *sql.DB) *DatabaseChecker {
	return Database(db)
}

// OpenPostgres opens a connection pool sized for health checks.
// The DSN is parsed immediately; no connection is made until the first check.
func OpenPostgres(dsn string) (*sql.DB, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	return checkPool(sql.OpenDB(connector)), nil
}
