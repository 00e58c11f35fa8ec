package sbpf

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input    int
		expected Version
	}{
		{1, V1},
		{2, V2},
		{3, V3},
		{0, V1},
		{-1, V1},
		{99, V1},
	}
	for _, tt := range tests {
		if got := ParseVersion(tt.input); got != tt.expected {
			t.Errorf("ParseVersion(%d) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		version  Version
		expected string
	}{
		{V1, "sbpf-v1"},
		{V2, "sbpf-v2"},
		{V3, "sbpf-v3"},
	}
	for _, tt := range tests {
		if got := tt.version.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestVersionOrdering(t *testing.T) {
	if !(V1 < V2 && V2 < V3) {
		t.Error("versions do not order by revision")
	}
}
