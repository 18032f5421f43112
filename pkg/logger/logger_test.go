package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_ProductionWritesJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.WithComponent("relay").Info("Profile fetched", "username", "abc.def_1")

	out := buf.String()
	if !strings.Contains(out, `"component":"relay"`) {
		t.Errorf("expected component field in output, got %q", out)
	}
	if !strings.Contains(out, `"username":"abc.def_1"`) {
		t.Errorf("expected username field in output, got %q", out)
	}
}

func TestNew_ProductionDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.Debug("noise")

	if buf.Len() != 0 {
		t.Errorf("expected debug to be filtered in production, got %q", buf.String())
	}
}

func TestPrintf_LogsFormattedMessage(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.Printf("PROVIDE %s", "api.Server")

	if !strings.Contains(buf.String(), "PROVIDE api.Server") {
		t.Errorf("expected formatted message, got %q", buf.String())
	}
}
