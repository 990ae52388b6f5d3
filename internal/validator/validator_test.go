package validator

import "testing"

func TestValidMatric(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"A25CS0001", true},
		{"  a25cs0001 ", true},
		{"B25CS0001", false},
		{"A25", false},
		{"A25-CS-01", false},
		{"A25CS00000000000000001", false},
	}
	for _, tt := range tests {
		if got := ValidMatric(tt.in, "A25"); got != tt.want {
			t.Errorf("ValidMatric(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeMatric(t *testing.T) {
	if got := NormalizeMatric(" a25cs0001\n"); got != "A25CS0001" {
		t.Fatalf("NormalizeMatric = %q", got)
	}
}
