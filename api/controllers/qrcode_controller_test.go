package controllers

import "testing"

func TestQRSize(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", defaultQRSize},
		{"300", 300},
		{"300x240", 240},
		{"240X300", 240},
		{"10", minQRSize},
		{"4000", maxQRSize},
		{"abc", defaultQRSize},
		{"200x", defaultQRSize},
	}
	for _, tt := range tests {
		if got := qrSize(tt.raw); got != tt.want {
			t.Errorf("qrSize(%q): expected %d, got %d", tt.raw, tt.want, got)
		}
	}
}
