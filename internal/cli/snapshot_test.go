package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSnapshotFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write snapshot file: %v", err)
	}
	return path
}

func TestLoadSnapshot(t *testing.T) {
	path := writeSnapshotFile(t, `
datasources:
  - service_name: prometheus
    description: monitoring
    type: prometheus
    url: http://10.0.0.1:9090
    username: scrape
    password: hunter2
  - service_name: graphite
    description: metrics
    type: graphite
    url: http://10.0.0.2:8080
`)
	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("failed to load snapshot: %v", err)
	}
	if len(snap.Datasources) != 2 {
		t.Fatalf("expected 2 datasources, got %d", len(snap.Datasources))
	}
	first := snap.Datasources[0]
	if first.DisplayName() != "prometheus - monitoring" {
		t.Errorf("unexpected display name: %q", first.DisplayName())
	}
	if !first.HasCredentials() {
		t.Error("expected first datasource to carry credentials")
	}
	if snap.Datasources[1].HasCredentials() {
		t.Error("expected second datasource to carry no credentials")
	}
}

func TestLoadSnapshotEmptyDocument(t *testing.T) {
	path := writeSnapshotFile(t, "datasources: []\n")
	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("failed to load empty snapshot: %v", err)
	}
	if len(snap.Datasources) != 0 {
		t.Fatalf("expected no datasources, got %d", len(snap.Datasources))
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadSnapshotMalformedYAML(t *testing.T) {
	path := writeSnapshotFile(t, "datasources: [unclosed\n")
	if _, err := LoadSnapshot(path); err == nil {
		t.Fatal("expected error for malformed document")
	}
}

func TestLoadSnapshotInvalidDescriptor(t *testing.T) {
	path := writeSnapshotFile(t, `
datasources:
  - service_name: prometheus
    description: monitoring
    type: prometheus
    url: http://10.0.0.1:9090
    username: scrape
`)
	if _, err := LoadSnapshot(path); err == nil {
		t.Fatal("expected error for incomplete credentials")
	}
}
