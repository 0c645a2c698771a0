package area

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/shapearea/internal/form"
	"github.com/jask/shapearea/internal/shape"
)

func TestComputeFormulas(t *testing.T) {
	tests := []struct {
		id   shape.ID
		dims form.Dimensions
		want float64
	}{
		{shape.Square, form.Dimensions{"side": "4"}, 16},
		{shape.Rectangle, form.Dimensions{"length": "3", "width": "5"}, 15},
		{shape.Circle, form.Dimensions{"radius": "2"}, 4 * math.Pi},
		{shape.Triangle, form.Dimensions{"base": "6", "height": "3"}, 9},
		{shape.Trapezoid, form.Dimensions{"base1": "2", "base2": "4", "height": "3"}, 9},
		{shape.Ellipse, form.Dimensions{"radius1": "2", "radius2": "3"}, 6 * math.Pi},
		{shape.Square, form.Dimensions{"side": "0.5"}, 0.25},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			got, err := Compute(nil, tt.id, tt.dims)
			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTrapezoidAddsNumerically(t *testing.T) {
	// "2" + "4" must be 6, not "24".
	got, err := Compute(nil, shape.Trapezoid, form.Dimensions{"base1": "2", "base2": "4", "height": "1"})
	require.NoError(t, err)
	require.Equal(t, 3.0, got)
}

func TestComputeUnknownShape(t *testing.T) {
	_, err := Compute(nil, "hexagon", form.Dimensions{"side": "1"})
	require.True(t, errors.Is(err, shape.ErrUnknownShape), "err = %v", err)
}

func TestComputeIncompleteInput(t *testing.T) {
	cases := []form.Dimensions{
		{},
		{"length": "3"},
		{"length": "3", "width": "0"},
		{"length": "3", "width": "."},
	}
	for _, dims := range cases {
		_, err := Compute(nil, shape.Rectangle, dims)
		require.ErrorIs(t, err, form.ErrIncompleteInput, "dims %v", dims)
	}
}

func TestEveryRegisteredShapeHasFormula(t *testing.T) {
	reg := shape.Default()
	for _, id := range reg.IDs() {
		require.True(t, Supports(id), "no formula for %q", id)
	}
	for id := range formulas {
		require.True(t, reg.Has(id), "formula for unregistered shape %q", id)
	}
}

func TestComputeCustomRegistryWithoutFormula(t *testing.T) {
	reg, err := shape.New([]shape.Definition{{ID: "hexagon", Label: "Hexagon", Fields: []string{"side"}}})
	require.NoError(t, err)
	_, err = Compute(reg, "hexagon", form.Dimensions{"side": "1"})
	require.ErrorIs(t, err, shape.ErrUnknownShape)
}
