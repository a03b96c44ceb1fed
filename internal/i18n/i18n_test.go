package i18n

import (
	"strings"
	"testing"
)

func TestTKnownMessage(t *testing.T) {
	Init("en")
	got := T("reconcile.adding_datasource", "prometheus - Juju generated source")
	if !strings.Contains(got, "Adding new datasource") {
		t.Fatalf("unexpected translation: %q", got)
	}
	if !strings.Contains(got, "prometheus - Juju generated source") {
		t.Fatalf("args not formatted into message: %q", got)
	}
}

func TestTUnknownIDFallsBack(t *testing.T) {
	Init("en")
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("expected fallback to message ID, got %q", got)
	}
}
