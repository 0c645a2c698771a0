// Package area computes shape areas from validated dimensions.
package area

import (
	"fmt"
	"math"

	"github.com/jask/shapearea/internal/form"
	"github.com/jask/shapearea/internal/shape"
)

type formula func(v map[string]float64) float64

var formulas = map[shape.ID]formula{
	shape.Square: func(v map[string]float64) float64 {
		return v["side"] * v["side"]
	},
	shape.Rectangle: func(v map[string]float64) float64 {
		return v["length"] * v["width"]
	},
	shape.Circle: func(v map[string]float64) float64 {
		return math.Pi * v["radius"] * v["radius"]
	},
	shape.Triangle: func(v map[string]float64) float64 {
		return 0.5 * v["base"] * v["height"]
	},
	shape.Trapezoid: func(v map[string]float64) float64 {
		return 0.5 * (v["base1"] + v["base2"]) * v["height"]
	},
	shape.Ellipse: func(v map[string]float64) float64 {
		return math.Pi * v["radius1"] * v["radius2"]
	},
}

// Supports reports whether a formula exists for id.
func Supports(id shape.ID) bool {
	_, ok := formulas[id]
	return ok
}

// Compute returns the unrounded area of shape id. The dimensions must pass
// form.IsComplete for the shape, otherwise form.ErrIncompleteInput is
// returned.
func Compute(reg *shape.Registry, id shape.ID, dims form.Dimensions) (float64, error) {
	if reg == nil {
		reg = shape.Default()
	}
	fields, err := reg.FieldsFor(id)
	if err != nil {
		return 0, err
	}
	f, ok := formulas[id]
	if !ok {
		return 0, fmt.Errorf("%w %q: no area formula", shape.ErrUnknownShape, id)
	}
	vals, err := form.Parse(fields, dims)
	if err != nil {
		return 0, fmt.Errorf("compute %s: %w", id, err)
	}
	return f(vals), nil
}
