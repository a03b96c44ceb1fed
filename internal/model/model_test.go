package model

import "testing"

func TestDisplayName(t *testing.T) {
	d := DesiredDatasource{ServiceName: "prometheus", Description: "Juju generated source"}
	if got := d.DisplayName(); got != "prometheus - Juju generated source" {
		t.Fatalf("unexpected display name: %q", got)
	}
}

func TestHasCredentials(t *testing.T) {
	d := DesiredDatasource{Username: "u", Password: "p"}
	if !d.HasCredentials() {
		t.Fatalf("expected credentials to be detected")
	}
	d.Password = ""
	if d.HasCredentials() {
		t.Fatalf("half a credential pair must not count as credentials")
	}
}

func TestValidate(t *testing.T) {
	base := DesiredDatasource{
		ServiceName: "prometheus",
		Description: "scrape target",
		Type:        "prometheus",
		URL:         "http://10.0.3.216:9090",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid descriptor rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*DesiredDatasource)
	}{
		{"missing service name", func(d *DesiredDatasource) { d.ServiceName = "" }},
		{"missing type", func(d *DesiredDatasource) { d.Type = "" }},
		{"missing url", func(d *DesiredDatasource) { d.URL = "" }},
		{"username without password", func(d *DesiredDatasource) { d.Username = "u" }},
		{"password without username", func(d *DesiredDatasource) { d.Password = "p" }},
	}
	for _, tc := range cases {
		d := base
		tc.mutate(&d)
		if err := d.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestSnapshotValidate(t *testing.T) {
	s := Snapshot{Datasources: []DesiredDatasource{
		{ServiceName: "prometheus", Description: "d", Type: "prometheus", URL: "http://h:9090"},
		{ServiceName: "broken", Description: "d", Type: "", URL: "http://h:9091"},
	}}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected snapshot validation to fail on second descriptor")
	}
}
