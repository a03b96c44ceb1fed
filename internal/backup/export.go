// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup produces support-bundle exports of the reconciled store
// slices: a Zstandard-compressed JSON document of the datasource identities
// and account rows the agent works with. Secrets are not included; only the
// columns the engine itself reads are exported.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/tasdomas/juju-charm-grafana/internal/db"
	"github.com/tasdomas/juju-charm-grafana/internal/model"
)

// Data is the exported document.
type Data struct {
	Datasources []model.DatasourceRow `json:"datasources"`
	Accounts    []model.AccountRow    `json:"accounts"`
}

// Export reads the store slices and streams them as zstd-compressed JSON.
func Export(ctx context.Context, st db.Store, w io.Writer) error {
	datasources, err := st.ListDatasources(ctx)
	if err != nil {
		return fmt.Errorf("could not read datasources: %w", err)
	}
	accounts, err := st.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("could not read accounts: %w", err)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}

	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Data{Datasources: datasources, Accounts: accounts}); err != nil {
		_ = zw.Close()
		return fmt.Errorf("could not encode export: %w", err)
	}
	return zw.Close()
}

// Read decodes a previously written export. Used by tests and support
// tooling inspecting a bundle.
func Read(r io.Reader) (*Data, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var data Data
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode export: %w", err)
	}
	return &data, nil
}
