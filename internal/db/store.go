// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/tasdomas/juju-charm-grafana/internal/model"
)

// Store defines the transactional primitives the reconciliation engine needs
// from Grafana's database. This allows multiple backends (Grafana itself
// supports SQLite, MySQL and PostgreSQL) to be implemented.
type Store interface {
	// ListDatasources returns the identity slice of every data_source row.
	ListDatasources(ctx context.Context) ([]model.DatasourceRow, error)

	// ListAccounts returns the rotation slice of every user row.
	ListAccounts(ctx context.Context) ([]model.AccountRow, error)

	// Apply executes the given mutations inside a single transaction:
	// either all of them commit or none do.
	Apply(ctx context.Context, muts ...model.Mutation) error

	// Close releases the underlying connection pool.
	Close() error
}
