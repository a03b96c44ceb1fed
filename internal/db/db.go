// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db provides access to the Grafana database being reconciled.
// It abstracts the underlying engine (SQLite by default, MySQL or PostgreSQL
// for externally-backed Grafana installs) behind the Store interface.
package db // import "github.com/tasdomas/juju-charm-grafana/internal/db"

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	// SQL drivers for externally-backed Grafana installs.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// busyTimeout bounds how long a connection waits on a locked store before
// failing with ErrStoreBusy. Mirrors Grafana's own 30s SQLite timeout.
const busyTimeout = 30 * time.Second

var (
	// sqlOpenFunc allows tests to override database opening behavior.
	sqlOpenFunc = sql.Open
	// connectTimeout bounds the initial reachability check. Tests shrink it.
	connectTimeout = busyTimeout
)

// NewStoreFromDSN opens the Grafana database for the given engine type and
// DSN and returns a Store backed by a long-lived *bun.DB. The connection is
// verified with a bounded wait; an unreachable store surfaces as
// ErrStoreUnavailable rather than hanging.
func NewStoreFromDSN(dbType, dsn string) (Store, error) {
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to that driver.
	if dbType == "postgres" {
		driverName = "pgx"
	}
	if dbType == "sqlite" {
		dsn = sqliteDSN(dsn)
	}

	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", MapStoreError(err))
	}

	configurePool(sqlDB, dbType, dsn)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store unreachable: %w", MapStoreError(err))
	}
	dbLogf("db: opened %s driver in %s", driverName, time.Since(start))

	bunDB := createBunDB(sqlDB, dbType)
	switch dbType {
	case "sqlite":
		return &SqliteStore{bun: bunDB}, nil
	case "postgres":
		return &PostgresStore{bun: bunDB}, nil
	case "mysql":
		return &MySQLStore{bun: bunDB}, nil
	default:
		_ = sqlDB.Close()
		return nil, fmt.Errorf("unsupported database type for store creation: '%s'", dbType)
	}
}

// sqliteDSN normalizes a SQLite DSN so every connection carries the busy
// timeout. A plain file path is rewritten to a file: URI first.
func sqliteDSN(dsn string) string {
	if dsn == ":memory:" {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", dsn, sep, busyTimeout.Milliseconds())
}

// configurePool applies conservative connection pool defaults. Values can be
// overridden via environment variables for production tuning.
func configurePool(sqlDB *sql.DB, dbType, dsn string) {
	const (
		defaultMaxOpenConns    = 5
		defaultMaxIdleConns    = 2
		defaultConnMaxLifetime = 5 * time.Minute
	)

	maxOpen := defaultMaxOpenConns
	if v := os.Getenv("GRAFANA_CHARM_DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			maxOpen = n
		}
	}
	maxIdle := defaultMaxIdleConns
	if v := os.Getenv("GRAFANA_CHARM_DB_MAX_IDLE_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			maxIdle = n
		}
	}

	// In-memory SQLite databases are per-connection; force a single open
	// connection so the schema stays visible. Tests rely on this.
	if dbType == "sqlite" && strings.Contains(dsn, "memory") {
		maxOpen = 1
		maxIdle = 1
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(defaultConnMaxLifetime)
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}
