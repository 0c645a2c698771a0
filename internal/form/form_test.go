package form

import (
	"errors"
	"testing"

	"github.com/jask/shapearea/internal/shape"
)

func TestAccept(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"", true},
		{"12", true},
		{"12.", true},
		{"0.5", true},
		{".5", true},
		{".", true},
		{"12.3.4", false},
		{"abc", false},
		{"-1", false},
		{"1e3", false},
		{" 1", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Accept(tt.raw); got != tt.want {
				t.Fatalf("Accept(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsComplete(t *testing.T) {
	v := NewValidator(nil)
	tests := []struct {
		name string
		id   shape.ID
		dims Dimensions
		want bool
	}{
		{"empty set", shape.Rectangle, Dimensions{}, false},
		{"partial", shape.Rectangle, Dimensions{"length": "3"}, false},
		{"empty value", shape.Rectangle, Dimensions{"length": "3", "width": ""}, false},
		{"zero", shape.Square, Dimensions{"side": "0"}, false},
		{"zero decimal", shape.Square, Dimensions{"side": "0.0"}, false},
		{"negative", shape.Square, Dimensions{"side": "-2"}, false},
		{"non numeric", shape.Square, Dimensions{"side": "abc"}, false},
		{"lone dot", shape.Square, Dimensions{"side": "."}, false},
		{"infinite", shape.Square, Dimensions{"side": "Inf"}, false},
		{"nan", shape.Square, Dimensions{"side": "NaN"}, false},
		{"trailing dot", shape.Square, Dimensions{"side": "3."}, true},
		{"complete", shape.Trapezoid, Dimensions{"base1": "2", "base2": "4", "height": "3"}, true},
		{"unknown shape", shape.ID("hexagon"), Dimensions{"side": "3"}, false},
		{"no shape", shape.ID(""), Dimensions{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsComplete(tt.id, tt.dims); got != tt.want {
				t.Fatalf("IsComplete(%q, %v) = %v, want %v", tt.id, tt.dims, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	vals, err := Parse([]string{"base", "height"}, Dimensions{"base": "4", "height": "2.5"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if vals["base"] != 4 || vals["height"] != 2.5 {
		t.Fatalf("unexpected values: %v", vals)
	}

	_, err = Parse([]string{"base", "height"}, Dimensions{"base": "4"})
	if !errors.Is(err, ErrIncompleteInput) {
		t.Fatalf("err = %v, want ErrIncompleteInput", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := Dimensions{"side": "2"}
	c := d.Clone()
	c["side"] = "3"
	if d["side"] != "2" {
		t.Fatalf("original mutated: %v", d)
	}
}
