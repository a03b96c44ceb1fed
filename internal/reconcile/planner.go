// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

package reconcile

import (
	"time"

	"github.com/tasdomas/juju-charm-grafana/internal/model"
)

// timestampLayout is the format Grafana stores in created/updated columns.
const timestampLayout = "2006-01-02 15:04:05"

const (
	insertWithAuthStmt = `INSERT INTO data_source (org_id, version, type, name, access, url, is_default, created, updated, basic_auth, basic_auth_user, basic_auth_password) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insertStmt         = `INSERT INTO data_source (org_id, version, type, name, access, url, is_default, created, updated, basic_auth) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	updateAuthStmt     = `UPDATE data_source SET basic_auth_user = ?, basic_auth_password = ?, basic_auth = 1 WHERE id = ?`
	clearAuthStmt      = `UPDATE data_source SET basic_auth_user = ?, basic_auth_password = ?, basic_auth = 0 WHERE id = ?`
)

// PlanDatasource computes the single statement that converges one datasource.
// It is pure: it never touches the store.
//
// Insert path (no match): a fresh row in org 1 with proxy access, created and
// updated stamped now, and basic auth populated only when the descriptor
// carries a credential pair.
//
// Update path (match found): only the basic auth fields are mutated - set
// when credentials are present, cleared when absent. Everything else on the
// row, including is_default and json_data, is left untouched.
func PlanDatasource(desired model.DesiredDatasource, match *Match, markDefault bool, now time.Time) model.Mutation {
	if match != nil {
		if desired.HasCredentials() {
			return model.Mutation{
				SQL:  updateAuthStmt,
				Args: []any{desired.Username, desired.Password, match.ID},
			}
		}
		return model.Mutation{
			SQL:  clearAuthStmt,
			Args: []any{"", "", match.ID},
		}
	}

	isDefault := 0
	if markDefault {
		isDefault = 1
	}
	stamp := now.Format(timestampLayout)
	args := []any{1, 0, desired.Type, desired.DisplayName(), "proxy", desired.URL, isDefault, stamp, stamp}
	if desired.HasCredentials() {
		args = append(args, 1, desired.Username, desired.Password)
		return model.Mutation{SQL: insertWithAuthStmt, Args: args}
	}
	args = append(args, 0)
	return model.Mutation{SQL: insertStmt, Args: args}
}
