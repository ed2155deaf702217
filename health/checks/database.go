package checks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pleme-io/pleme-health/health"
)

// DatabaseChecker checks database connectivity with a trivial round trip.
type DatabaseChecker struct {
	db    *sql.DB
	query string
}

// Database creates a checker that runs SELECT 1 against db.
func Database(db *sql.DB) *DatabaseChecker {
	return &DatabaseChecker{db: db, query: "SELECT 1"}
}

// Check performs the database health check.
func (c *DatabaseChecker) Check(ctx context.Context) health.Result {
	start := time.Now()

	var one int
	if err := c.db.QueryRowContext(ctx, c.query).Scan(&one); err != nil {
		return health.Unhealthy(fmt.Sprintf("database connection failed: %v", err))
	}

	return health.Healthy().WithDuration(time.Since(start))
}

// Close closes the underlying pool.
func (c *DatabaseChecker) Close() error {
	return c.db.Close()
}

// checkPool sizes a pool for periodic health checks.
func checkPool(db *sql.DB) *sql.DB {
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(time.Minute)
	return db
}
