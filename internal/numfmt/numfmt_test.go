package numfmt

import (
	"math"
	"testing"
)

func TestArea(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{16, "16"},
		{12.566370614, "12.57"},
		{4 * math.Pi, "12.57"},
		{9.5, "9.5"},
		{4.0, "4"},
		{4.5, "4.5"},
		{4.1, "4.1"},
		{4.33, "4.33"},
		{4.001, "4"},
		{4.999, "5"},
		{100, "100"},
		{10.05, "10.05"},
		{0, "0"},
		{0.001, "0"},
		{1234567.891, "1234567.89"},
		{0.125, "0.13"},
		{0.625, "0.63"},
		{2.125, "2.13"},
		{1.005, "1"},
		{0.375, "0.38"},
	}
	for _, tt := range tests {
		if got := Area(tt.in); got != tt.want {
			t.Fatalf("Area(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAreaKeepsIntegerZeros(t *testing.T) {
	// Only fractional zeros are stripped.
	if got := Area(1000); got != "1000" {
		t.Fatalf("Area(1000) = %q", got)
	}
	if got := Area(20.0); got != "20" {
		t.Fatalf("Area(20) = %q", got)
	}
}

func TestWithUnit(t *testing.T) {
	if got := WithUnit(4*math.Pi, "cm"); got != "12.57 cm²" {
		t.Fatalf("WithUnit = %q", got)
	}
	if got := WithUnit(9, ""); got != "9" {
		t.Fatalf("WithUnit without unit = %q", got)
	}
}
