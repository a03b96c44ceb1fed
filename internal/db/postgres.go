// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the PostgreSQL implementation of the Store interface,
// for Grafana installs backed by an external Postgres database.
package db

import (
	"context"

	"github.com/tasdomas/juju-charm-grafana/internal/model"
	"github.com/uptrace/bun"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	bun *bun.DB
}

// ListDatasources returns the identity slice of every data_source row.
func (s *PostgresStore) ListDatasources(ctx context.Context) ([]model.DatasourceRow, error) {
	return listDatasourcesBun(ctx, s.bun)
}

// ListAccounts returns the rotation slice of every user row.
func (s *PostgresStore) ListAccounts(ctx context.Context) ([]model.AccountRow, error) {
	return listAccountsBun(ctx, s.bun)
}

// Apply executes the given mutations inside a single transaction.
func (s *PostgresStore) Apply(ctx context.Context, muts ...model.Mutation) error {
	return applyBun(ctx, s.bun, muts)
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.bun.Close()
}
