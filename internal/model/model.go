// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the entities exchanged between the desired-state
// boundary and the reconciliation engine: datasource descriptors delivered
// by related services, and the rows they map onto in Grafana's own database.
package model

import (
	"errors"
	"fmt"
)

// DesiredDatasource describes one datasource a related service wants to see
// configured in Grafana. It is ephemeral: supplied per snapshot, never
// persisted by the agent itself.
type DesiredDatasource struct {
	ServiceName string `yaml:"service_name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	URL         string `yaml:"url"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

// DisplayName returns the name the datasource is stored under in Grafana.
func (d DesiredDatasource) DisplayName() string {
	return fmt.Sprintf("%s - %s", d.ServiceName, d.Description)
}

// HasCredentials reports whether the descriptor carries a basic-auth pair.
// Both halves must be present; a lone username or password is rejected by
// Validate before it ever reaches the planner.
func (d DesiredDatasource) HasCredentials() bool {
	return d.Username != "" && d.Password != ""
}

// Validate checks a descriptor at the boundary, before it enters the
// reconciliation engine.
func (d DesiredDatasource) Validate() error {
	if d.ServiceName == "" {
		return errors.New("datasource missing service_name")
	}
	if d.Type == "" {
		return fmt.Errorf("datasource %q missing type", d.ServiceName)
	}
	if d.URL == "" {
		return fmt.Errorf("datasource %q missing url", d.ServiceName)
	}
	if (d.Username == "") != (d.Password == "") {
		return fmt.Errorf("datasource %q has incomplete credentials", d.ServiceName)
	}
	return nil
}

// Snapshot is one complete desired-state delivery: the ordered set of
// datasources the store should converge to.
type Snapshot struct {
	Datasources []DesiredDatasource `yaml:"datasources"`
}

// Validate validates every descriptor in the snapshot.
func (s Snapshot) Validate() error {
	for i, d := range s.Datasources {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("datasource %d: %w", i, err)
		}
	}
	return nil
}
