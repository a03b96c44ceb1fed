// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the SQLite implementation of the Store interface.
// SQLite is Grafana's default storage engine and the common case for the
// charm: a grafana.db file on the unit's disk.
package db

import (
	"context"

	"github.com/tasdomas/juju-charm-grafana/internal/model"
	"github.com/uptrace/bun"
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bun *bun.DB
}

// ListDatasources returns the identity slice of every data_source row.
func (s *SqliteStore) ListDatasources(ctx context.Context) ([]model.DatasourceRow, error) {
	return listDatasourcesBun(ctx, s.bun)
}

// ListAccounts returns the rotation slice of every user row.
func (s *SqliteStore) ListAccounts(ctx context.Context) ([]model.AccountRow, error) {
	return listAccountsBun(ctx, s.bun)
}

// Apply executes the given mutations inside a single transaction.
func (s *SqliteStore) Apply(ctx context.Context, muts ...model.Mutation) error {
	return applyBun(ctx, s.bun, muts)
}

// Close releases the underlying connection pool.
func (s *SqliteStore) Close() error {
	return s.bun.Close()
}
