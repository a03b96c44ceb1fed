// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/tasdomas/juju-charm-grafana/internal/model"
	"github.com/uptrace/bun"
)

// datasourceModel maps the identity slice of Grafana's data_source table
// for Bun queries.
type datasourceModel struct {
	bun.BaseModel `bun:"table:data_source"`
	ID            int64  `bun:"id,pk,autoincrement"`
	OrgID         int64  `bun:"org_id"`
	Type          string `bun:"type"`
	Name          string `bun:"name"`
	URL           string `bun:"url"`
	IsDefault     bool   `bun:"is_default"`
}

// accountModel maps the rotation slice of Grafana's user table.
type accountModel struct {
	bun.BaseModel `bun:"table:user"`
	ID            int64  `bun:"id,pk,autoincrement"`
	Login         string `bun:"login"`
	Email         string `bun:"email"`
	Salt          string `bun:"salt"`
	Theme         string `bun:"theme"`
}

// listDatasourcesBun reads the identity columns of every datasource row.
func listDatasourcesBun(ctx context.Context, bdb *bun.DB) ([]model.DatasourceRow, error) {
	var ms []datasourceModel
	err := bdb.NewSelect().Model(&ms).
		Column("id", "org_id", "type", "name", "url", "is_default").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, MapStoreError(err)
	}
	rows := make([]model.DatasourceRow, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, model.DatasourceRow{
			ID:        m.ID,
			OrgID:     m.OrgID,
			Type:      m.Type,
			Name:      m.Name,
			URL:       m.URL,
			IsDefault: m.IsDefault,
		})
	}
	return rows, nil
}

// listAccountsBun reads the rotation columns of every user row.
func listAccountsBun(ctx context.Context, bdb *bun.DB) ([]model.AccountRow, error) {
	var ms []accountModel
	err := bdb.NewSelect().Model(&ms).
		Column("id", "login", "email", "salt", "theme").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, MapStoreError(err)
	}
	rows := make([]model.AccountRow, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, model.AccountRow{
			ID:    m.ID,
			Login: m.Login,
			Email: m.Email,
			Salt:  m.Salt,
			Theme: m.Theme,
		})
	}
	return rows, nil
}

// applyBun executes the given mutations within a single transaction.
// A failure rolls the whole batch back so no partial write survives.
func applyBun(ctx context.Context, bdb *bun.DB, muts []model.Mutation) error {
	if len(muts) == 0 {
		return nil
	}
	return bdb.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, m := range muts {
			if _, err := tx.NewRaw(m.SQL, m.Args...).Exec(ctx); err != nil {
				return fmt.Errorf("failed to execute mutation: %w", MapStoreError(err))
			}
		}
		return nil
	})
}
