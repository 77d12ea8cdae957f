package clickhouse

import "testing"

func TestParseRank(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{"042", 42, true},
		{"", 0, false},
		{"-3", 0, false},
		{"7.5", 0, false},
		{" 9", 0, false},
		{"NR", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseRank(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseRank(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
