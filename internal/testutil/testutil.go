// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds shared fixtures for tests that need a Grafana
// database: the relevant slice of Grafana's own schema plus seed rows.
package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // test databases are always SQLite
)

// GrafanaSchema is the subset of Grafana's schema the agent touches. It
// matches the tables Grafana 2.x creates on first start.
const GrafanaSchema = `
CREATE TABLE data_source (
  id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
  org_id INTEGER NOT NULL,
  version INTEGER NOT NULL,
  type TEXT NOT NULL,
  name TEXT NOT NULL,
  access TEXT NOT NULL,
  url TEXT NOT NULL,
  password TEXT NULL,
  user TEXT NULL,
  database TEXT NULL,
  basic_auth INTEGER NOT NULL,
  basic_auth_user TEXT NULL,
  basic_auth_password TEXT NULL,
  is_default INTEGER NOT NULL,
  json_data TEXT NULL,
  created DATETIME NOT NULL,
  updated DATETIME NOT NULL,
  with_credentials INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE user (
  id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
  version INTEGER NOT NULL,
  login TEXT NOT NULL,
  email TEXT NOT NULL,
  name TEXT NULL,
  password TEXT NULL,
  salt TEXT NULL,
  rands TEXT NULL,
  company TEXT NULL,
  org_id INTEGER NOT NULL,
  is_admin INTEGER NOT NULL,
  email_verified INTEGER NULL,
  theme TEXT NULL,
  created DATETIME NOT NULL,
  updated DATETIME NOT NULL
);
`

// CreateGrafanaSchema applies GrafanaSchema to the database behind dsn.
// The returned *sql.DB is kept open for the duration of the test so that
// shared-cache in-memory databases survive store reopen cycles.
func CreateGrafanaSchema(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	anchor, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open schema anchor: %v", err)
	}
	t.Cleanup(func() { _ = anchor.Close() })
	if _, err := anchor.Exec(GrafanaSchema); err != nil {
		t.Fatalf("failed to create Grafana schema: %v", err)
	}
	return anchor
}

// SeedAdmin inserts a user row mirroring Grafana's default admin account.
func SeedAdmin(t *testing.T, dbh *sql.DB, login, email, password, salt string) int64 {
	t.Helper()
	res, err := dbh.Exec(
		`INSERT INTO user (version, login, email, name, password, salt, rands, company, org_id, is_admin, email_verified, theme, created, updated)
		 VALUES (0, ?, ?, 'BootStack Team', ?, ?, 'hseJcLcnPN', '', 1, 1, 0, 'light', '2016-01-22 12:00:08', '2016-01-22 12:02:13')`,
		login, email, password, salt)
	if err != nil {
		t.Fatalf("failed to seed user row: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded user id: %v", err)
	}
	return id
}

// SeedDatasource inserts a data_source row with the given natural key.
func SeedDatasource(t *testing.T, dbh *sql.DB, dsType, name, url string, isDefault bool) int64 {
	t.Helper()
	def := 0
	if isDefault {
		def = 1
	}
	res, err := dbh.Exec(
		`INSERT INTO data_source (org_id, version, type, name, access, url, basic_auth, is_default, json_data, created, updated)
		 VALUES (1, 0, ?, ?, 'proxy', ?, 0, ?, '{}', '2016-01-22 12:11:06', '2016-01-22 12:11:11')`,
		dsType, name, url, def)
	if err != nil {
		t.Fatalf("failed to seed data_source row: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded datasource id: %v", err)
	}
	return id
}
