package httpapi

import "testing"

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"  ", 1},
		{"3", 3},
		{" 7 ", 7},
		{"0", 1},
		{"-4", 1},
		{"abc", 1},
		{"2.5", 1},
	}

	for _, tt := range tests {
		if got := parsePageParam(tt.raw); got != tt.want {
			t.Errorf("parsePageParam(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParsePageSizeParam(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 12},
		{"24", 24},
		{"100", 100},
		{"101", 100},
		{"9999", 100},
		{"0", 12},
		{"junk", 12},
	}

	for _, tt := range tests {
		if got := parsePageSizeParam(tt.raw); got != tt.want {
			t.Errorf("parsePageSizeParam(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
