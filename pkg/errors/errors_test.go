package errors

import (
	"fmt"
	"testing"
)

func TestWrapWithCode_KeepsCodeThroughWrapping(t *testing.T) {
	base := fmt.Errorf("dial tcp: connection refused")
	err := WrapWithCode(base, CodeUpstreamRequest, "failed to reach instagram")
	wrapped := fmt.Errorf("profile lookup: %w", err)

	if got := GetCode(wrapped); got != CodeUpstreamRequest {
		t.Fatalf("expected code %q, got %q", CodeUpstreamRequest, got)
	}
	if got := GetMessage(wrapped); got != "failed to reach instagram" {
		t.Fatalf("expected message to survive wrapping, got %q", got)
	}
	if !Is(wrapped, base) {
		t.Fatal("expected wrapped error to match the base error")
	}
}

func TestWrap_NilStaysNil(t *testing.T) {
	if Wrap(nil, "ignored") != nil {
		t.Fatal("expected Wrap(nil) to return nil")
	}
	if WrapWithCode(nil, CodeUpstreamStatus, "ignored") != nil {
		t.Fatal("expected WrapWithCode(nil) to return nil")
	}
}

func TestIsInvalidInput(t *testing.T) {
	if !IsInvalidInput(fmt.Errorf("bad: %w", ErrInvalidInput)) {
		t.Error("expected sentinel to be detected")
	}
	if !IsInvalidInput(WrapWithCode(fmt.Errorf("x"), CodeInvalidInput, "bad variables")) {
		t.Error("expected code to be detected")
	}
	if IsInvalidInput(New("other")) {
		t.Error("unexpected match for plain error")
	}
}
