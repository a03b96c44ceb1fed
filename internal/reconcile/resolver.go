// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// Package reconcile implements the engine that converges Grafana's database
// to the desired state delivered by related services: datasource rows keyed
// by their natural key, and the admin account credential.
package reconcile

import "github.com/tasdomas/juju-charm-grafana/internal/model"

// Match identifies the existing row a desired datasource resolved to, along
// with the is_default flag the planner must preserve.
type Match struct {
	ID        int64
	IsDefault bool
}

// Resolve scans existing rows for one matching the desired datasource's
// natural key (type, derived display name, url). The first match wins; rows
// that already violate natural-key uniqueness are left as found. A nil
// return means the insert path.
func Resolve(rows []model.DatasourceRow, desired model.DesiredDatasource) *Match {
	name := desired.DisplayName()
	for _, row := range rows {
		if row.Type == desired.Type && row.Name == name && row.URL == desired.URL {
			return &Match{ID: row.ID, IsDefault: row.IsDefault}
		}
	}
	return nil
}
