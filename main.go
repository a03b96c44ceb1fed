// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import "github.com/tasdomas/juju-charm-grafana/internal/cli"

// main is the entry point of the agent.
func main() {
	cli.Execute()
}
