package formatter

import "testing"

func TestFormatNumber(t *testing.T) {
	cases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-98765:   "-98,765",
		12000000: "12,000,000",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestCounter(t *testing.T) {
	if got := Counter(2, 12); got != "3 / 12" {
		t.Errorf("expected '3 / 12', got %q", got)
	}
	if got := Counter(0, 0); got != "0 / 0" {
		t.Errorf("expected '0 / 0' for an empty feed, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello   world\nagain", 40); got != "hello world again" {
		t.Errorf("expected whitespace to collapse, got %q", got)
	}
	if got := Truncate("abcdefgh", 5); got != "abcd…" {
		t.Errorf("expected 'abcd…', got %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Errorf("expected empty string for zero width, got %q", got)
	}
}
