// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

package model

// DatasourceRow is the slice of Grafana's data_source table the engine reads
// when resolving identity. The natural key is (Type, Name, URL); IsDefault is
// carried along because the planner must never overwrite it.
type DatasourceRow struct {
	ID        int64
	OrgID     int64
	Type      string
	Name      string
	URL       string
	IsDefault bool
}

// AccountRow is the slice of Grafana's user table the credential rotator
// needs. Salt is read-only: rotation always re-derives against the stored
// salt and never replaces it.
type AccountRow struct {
	ID    int64
	Login string
	Email string
	Salt  string
	Theme string
}

// Mutation is a parameterized statement plus its arguments, computed by the
// planner or the rotator and executed by the store. Values are always bound,
// never interpolated into the SQL text.
type Mutation struct {
	SQL  string
	Args []any
}
