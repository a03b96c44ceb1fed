package reconcile

import (
	"testing"

	"github.com/tasdomas/juju-charm-grafana/internal/model"
)

func TestResolveMatchesNaturalKey(t *testing.T) {
	rows := []model.DatasourceRow{
		{ID: 1, Type: "graphite", Name: "svc - desc", URL: "http://h:9090"},
		{ID: 2, Type: "prometheus", Name: "svc - desc", URL: "http://h:9090", IsDefault: true},
		{ID: 3, Type: "prometheus", Name: "svc - desc", URL: "http://other:9090"},
	}
	desired := model.DesiredDatasource{
		ServiceName: "svc",
		Description: "desc",
		Type:        "prometheus",
		URL:         "http://h:9090",
	}

	m := Resolve(rows, desired)
	if m == nil {
		t.Fatalf("expected a match")
	}
	if m.ID != 2 {
		t.Fatalf("matched wrong row: %d", m.ID)
	}
	if !m.IsDefault {
		t.Fatalf("is_default not carried through the match")
	}
}

func TestResolveNoMatch(t *testing.T) {
	rows := []model.DatasourceRow{
		{ID: 1, Type: "prometheus", Name: "svc - desc", URL: "http://h:9090"},
	}
	desired := model.DesiredDatasource{
		ServiceName: "svc",
		Description: "other desc",
		Type:        "prometheus",
		URL:         "http://h:9090",
	}
	if m := Resolve(rows, desired); m != nil {
		t.Fatalf("expected no match, got row %d", m.ID)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	// Pre-existing duplicate rows violate the natural-key assumption; the
	// resolver picks the first and leaves the rest alone.
	rows := []model.DatasourceRow{
		{ID: 7, Type: "prometheus", Name: "svc - desc", URL: "http://h:9090"},
		{ID: 9, Type: "prometheus", Name: "svc - desc", URL: "http://h:9090"},
	}
	desired := model.DesiredDatasource{
		ServiceName: "svc",
		Description: "desc",
		Type:        "prometheus",
		URL:         "http://h:9090",
	}
	m := Resolve(rows, desired)
	if m == nil || m.ID != 7 {
		t.Fatalf("expected first duplicate (id 7), got %+v", m)
	}
}
