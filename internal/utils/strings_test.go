package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	if got := AtoiDefault("", 7); got != 7 {
		t.Fatalf("empty: got %d", got)
	}
	if got := AtoiDefault("12", 7); got != 12 {
		t.Fatalf("numeric: got %d", got)
	}
	if got := AtoiDefault("twelve", 7); got != 7 {
		t.Fatalf("garbage: got %d", got)
	}
}

func TestIsDigits(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"42":    true,
		"007":   true,
		"4 2":   false,
		"-1":    false,
		"12a":   false,
		"SO-42": false,
	}
	for in, want := range cases {
		if got := IsDigits(in); got != want {
			t.Fatalf("IsDigits(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZeroPad(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"42", 5, "00042"},
		{"12345", 5, "12345"},
		{"123456", 5, "123456"},
		{"", 3, "000"},
	}
	for _, tc := range cases {
		if got := ZeroPad(tc.in, tc.width); got != tc.want {
			t.Fatalf("ZeroPad(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
