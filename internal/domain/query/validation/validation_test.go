package validation

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"STRICT", Strict},
		{"strict", Strict},
		{"COERCE", Coerce},
		{"coerce", Coerce},
		{"IGNORE_MALFORMED", IgnoreMalformed},
		{"ignore_malformed", IgnoreMalformed},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	for _, in := range []string{"", "lenient", "IGNORE"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestDefault(t *testing.T) {
	if Default != Strict {
		t.Errorf("Default = %q, want STRICT", Default)
	}
}
