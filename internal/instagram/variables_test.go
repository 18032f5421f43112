package instagram

import (
	"testing"

	apperrors "github.com/orgball2608/insta-viewer/pkg/errors"
)

func TestParseMediaVariables(t *testing.T) {
	vars, err := ParseMediaVariables(`{"id":"123","after":"QVFD","first":12}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vars.ID != "123" || vars.After != "QVFD" || vars.First != 12 {
		t.Errorf("unexpected variables: %+v", vars)
	}
}

func TestParseMediaVariables_Rejects(t *testing.T) {
	for _, raw := range []string{"", "{not json", `{"after":"x","first":12}`, `{"id":"123"}`, `{"id":"123","first":0}`, `{"id":"123","first":-1}`} {
		_, err := ParseMediaVariables(raw)
		if err == nil {
			t.Errorf("expected error for %q", raw)
			continue
		}
		if !apperrors.IsInvalidInput(err) {
			t.Errorf("expected invalid input error for %q, got %v", raw, err)
		}
	}
}

func TestMediaVariables_EncodeOmitsEmptyCursor(t *testing.T) {
	got := MediaVariables{ID: "123", First: 12}.Encode()
	if got != `{"id":"123","first":12}` {
		t.Errorf("unexpected encoding %s", got)
	}

	got = MediaVariables{ID: "123", After: "QVFD", First: 12}.Encode()
	if got != `{"id":"123","after":"QVFD","first":12}` {
		t.Errorf("unexpected encoding %s", got)
	}
}
