package utils

import "testing"

func TestSanitizeObjectName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"my file (1).txt", "my_file__1_.txt"},
		{"  padded.txt  ", "padded.txt"},
		{"über.txt", "_ber.txt"},
		{"", "unnamed"},
		{"   ", "unnamed"},
		{"a/b\\c.txt", "a_b_c.txt"},
		{"semi-colon;.md", "semi-colon_.md"},
	}
	for _, tc := range cases {
		if got := SanitizeObjectName(tc.in); got != tc.want {
			t.Errorf("SanitizeObjectName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeHeaderFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"", "download"},
		{"evil\r\nname.txt", "evilname.txt"},
		{`quo"ted.txt`, "quoted.txt"},
	}
	for _, tc := range cases {
		if got := SanitizeHeaderFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeHeaderFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
