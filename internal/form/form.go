// Package form validates the raw dimension text a user has typed for a shape.
package form

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/jask/shapearea/internal/shape"
)

// ErrIncompleteInput is returned when a dimension set does not satisfy
// IsComplete for its shape.
var ErrIncompleteInput = errors.New("incomplete input")

// Dimensions maps field name to the raw text typed for it.
type Dimensions map[string]string

// Clone returns an independent copy.
func (d Dimensions) Clone() Dimensions {
	out := make(Dimensions, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// non-negative decimal literal prefix: "", "3", "3.", ".5", "12.25"
var rawPattern = regexp.MustCompile(`^\d*\.?\d*$`)

// Accept reports whether raw may be stored as a field value. It is applied to
// every keystroke, so partial values like "" and "3." pass.
func Accept(raw string) bool {
	return rawPattern.MatchString(raw)
}

// ParseValue parses one raw field value. ok is false unless the value is
// non-empty, finite and strictly positive.
func ParseValue(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// IsComplete reports whether every field in fields has a valid value in dims.
// An empty field list is never complete.
func IsComplete(fields []string, dims Dimensions) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		raw, ok := dims[f]
		if !ok {
			return false
		}
		if _, ok := ParseValue(raw); !ok {
			return false
		}
	}
	return true
}

// Parse returns the numeric values of fields, or ErrIncompleteInput naming the
// first field that is missing or invalid.
func Parse(fields []string, dims Dimensions) (map[string]float64, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields", ErrIncompleteInput)
	}
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		v, ok := ParseValue(dims[f])
		if !ok {
			return nil, fmt.Errorf("%w: field %q must be a positive number", ErrIncompleteInput, f)
		}
		out[f] = v
	}
	return out, nil
}

// Validator binds completeness checks to a shape registry.
type Validator struct {
	Shapes *shape.Registry
}

// NewValidator returns a Validator over reg, or the default registry when reg
// is nil.
func NewValidator(reg *shape.Registry) *Validator {
	if reg == nil {
		reg = shape.Default()
	}
	return &Validator{Shapes: reg}
}

// IsComplete never fails: unknown shapes are simply incomplete.
func (v *Validator) IsComplete(id shape.ID, dims Dimensions) bool {
	fields, err := v.Shapes.FieldsFor(id)
	if err != nil {
		return false
	}
	return IsComplete(fields, dims)
}
