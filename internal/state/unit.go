// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// Package state provides the agent's persisted unit state: a small key/value
// file that survives restarts. It holds values that must be generated at most
// once per deployment lifetime (the generated admin password), plus bookkeeping
// for the reconciliation driver (last applied snapshot digest, first-run
// marker).
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"
)

// Well-known keys in unit state.
const (
	KeyAdminPassword = "admin_password"
	KeySourcesDigest = "grafana.sources"
	KeyBootstrapDone = "grafana.db_initialized"
)

// Unit is a concurrency-safe key/value store persisted as a YAML file.
// Every Set rewrites the file so state is durable at each mutation.
type Unit struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open loads unit state from path, creating an empty store when the file
// does not exist yet.
func Open(path string) (*Unit, error) {
	u := &Unit{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return u, nil
		}
		return nil, fmt.Errorf("could not read unit state %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &u.values); err != nil {
			return nil, fmt.Errorf("could not parse unit state %s: %w", path, err)
		}
	}
	return u, nil
}

// Get returns the stored value for key and whether it was present.
func (u *Unit) Get(key string) (string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.values[key]
	return v, ok
}

// Set stores key=value and persists the state file.
func (u *Unit) Set(key, value string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.values[key] = value
	return u.flushLocked()
}

// Delete removes a key and persists the state file. Deleting an absent key
// is a no-op.
func (u *Unit) Delete(key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.values[key]; !ok {
		return nil
	}
	delete(u.values, key)
	return u.flushLocked()
}

// Changed stores value under key and reports whether it differed from the
// previously stored value. This is the primitive the driver uses to
// short-circuit repeated identical snapshots.
func (u *Unit) Changed(key, value string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if prev, ok := u.values[key]; ok && prev == value {
		return false, nil
	}
	u.values[key] = value
	return true, u.flushLocked()
}

func (u *Unit) flushLocked() error {
	data, err := yaml.Marshal(u.values)
	if err != nil {
		return fmt.Errorf("could not encode unit state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(u.path), 0o755); err != nil {
		return fmt.Errorf("could not create state directory: %w", err)
	}
	// 0600: the file may hold the generated admin password.
	if err := os.WriteFile(u.path, data, 0o600); err != nil {
		return fmt.Errorf("could not write unit state %s: %w", u.path, err)
	}
	return nil
}
