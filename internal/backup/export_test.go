package backup

import (
	"bytes"
	"context"
	"testing"

	"github.com/tasdomas/juju-charm-grafana/internal/db"
	"github.com/tasdomas/juju-charm-grafana/internal/testutil"
)

func TestExportRoundtrip(t *testing.T) {
	dsn := "file:test_backup_roundtrip?mode=memory&cache=shared"
	anchor := testutil.CreateGrafanaSchema(t, dsn)
	testutil.SeedDatasource(t, anchor, "prometheus", "nagios - monitoring", "http://10.0.0.1:9090", true)
	testutil.SeedAdmin(t, anchor, "admin", "root+UNKNOWN@canonical.com", "secret-hash", "salty")

	st, err := db.NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	var buf bytes.Buffer
	if err := Export(context.Background(), st, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := Read(&buf)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if len(data.Datasources) != 1 {
		t.Fatalf("expected 1 datasource, got %d", len(data.Datasources))
	}
	ds := data.Datasources[0]
	if ds.Type != "prometheus" || ds.Name != "nagios - monitoring" || ds.URL != "http://10.0.0.1:9090" || !ds.IsDefault {
		t.Fatalf("unexpected datasource row: %+v", ds)
	}
	if len(data.Accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(data.Accounts))
	}
	if data.Accounts[0].Login != "admin" || data.Accounts[0].Email != "root+UNKNOWN@canonical.com" {
		t.Fatalf("unexpected account row: %+v", data.Accounts[0])
	}
}

func TestExportEmptyStore(t *testing.T) {
	dsn := "file:test_backup_empty?mode=memory&cache=shared"
	testutil.CreateGrafanaSchema(t, dsn)

	st, err := db.NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	var buf bytes.Buffer
	if err := Export(context.Background(), st, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := Read(&buf)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if len(data.Datasources) != 0 || len(data.Accounts) != 0 {
		t.Fatalf("expected empty export, got %+v", data)
	}
}
