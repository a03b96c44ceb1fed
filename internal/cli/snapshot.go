// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tasdomas/juju-charm-grafana/internal/model"
)

// LoadSnapshot reads the desired-state document from path. The file is a YAML
// list of datasource descriptors under a top-level "datasources" key; the
// loaded snapshot is validated before it is handed to the reconciler.
func LoadSnapshot(path string) (model.Snapshot, error) {
	var snap model.Snapshot

	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("could not read desired-state file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("could not parse desired-state file %s: %w", path, err)
	}
	if err := snap.Validate(); err != nil {
		return snap, fmt.Errorf("invalid desired-state file %s: %w", path, err)
	}
	return snap, nil
}
