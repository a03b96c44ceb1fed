// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the MySQL implementation of the Store interface,
// for Grafana installs backed by an external MySQL database.
package db

import (
	"context"

	"github.com/tasdomas/juju-charm-grafana/internal/model"
	"github.com/uptrace/bun"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	bun *bun.DB
}

// ListDatasources returns the identity slice of every data_source row.
func (s *MySQLStore) ListDatasources(ctx context.Context) ([]model.DatasourceRow, error) {
	return listDatasourcesBun(ctx, s.bun)
}

// ListAccounts returns the rotation slice of every user row.
func (s *MySQLStore) ListAccounts(ctx context.Context) ([]model.AccountRow, error) {
	return listAccountsBun(ctx, s.bun)
}

// Apply executes the given mutations inside a single transaction.
func (s *MySQLStore) Apply(ctx context.Context, muts ...model.Mutation) error {
	return applyBun(ctx, s.bun, muts)
}

// Close releases the underlying connection pool.
func (s *MySQLStore) Close() error {
	return s.bun.Close()
}
