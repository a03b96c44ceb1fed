package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Point config discovery at an empty directory so host files are ignored.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := &cobra.Command{Use: "test"}
	c, err := LoadConfig[Config](cmd, Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Database.Type != "sqlite" {
		t.Fatalf("unexpected default database type: %q", c.Database.Type)
	}
	if c.Database.Dsn != "/var/lib/grafana/grafana.db" {
		t.Fatalf("unexpected default dsn: %q", c.Database.Dsn)
	}
	if c.BootstrapDelaySeconds != 10 {
		t.Fatalf("unexpected default bootstrap delay: %d", c.BootstrapDelaySeconds)
	}
	if c.AdminPassword != "" {
		t.Fatalf("admin password should default to empty")
	}
}

func TestLoadConfigExplicitFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	path := filepath.Join(dir, "grafana-charm.yaml")
	content := "database:\n  type: sqlite\n  dsn: /tmp/grafana.db\nnagios_context: bootstack-ps45\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := &cobra.Command{Use: "test"}
	c, err := LoadConfig[Config](cmd, Defaults(), &path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Database.Dsn != "/tmp/grafana.db" {
		t.Fatalf("file value not loaded: %q", c.Database.Dsn)
	}
	if c.NagiosContext != "bootstack-ps45" {
		t.Fatalf("nagios context not loaded: %q", c.NagiosContext)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GRAFANA_CHARM_NAGIOS_CONTEXT", "from-env")

	cmd := &cobra.Command{Use: "test"}
	c, err := LoadConfig[Config](cmd, Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.NagiosContext != "from-env" {
		t.Fatalf("env override not applied: %q", c.NagiosContext)
	}
}
