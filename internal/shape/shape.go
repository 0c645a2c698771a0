// Package shape holds the fixed catalog of supported shapes and the
// dimension fields each one needs.
package shape

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// ErrUnknownShape is returned for ids outside the registry.
var ErrUnknownShape = errors.New("unknown shape")

// ID identifies a supported shape.
type ID string

const (
	Square    ID = "square"
	Rectangle ID = "rectangle"
	Circle    ID = "circle"
	Triangle  ID = "triangle"
	Trapezoid ID = "trapezoid"
	Ellipse   ID = "ellipse"
)

// Definition describes one shape. Fields are ordered for display.
type Definition struct {
	ID     ID
	Label  string
	Fields []string
}

// Registry maps shape ids to definitions. It is immutable once built.
type Registry struct {
	order []ID
	byID  map[ID]Definition
}

var defaultDefinitions = []Definition{
	{ID: Square, Label: "Square", Fields: []string{"side"}},
	{ID: Rectangle, Label: "Rectangle", Fields: []string{"length", "width"}},
	{ID: Circle, Label: "Circle", Fields: []string{"radius"}},
	{ID: Triangle, Label: "Triangle", Fields: []string{"base", "height"}},
	{ID: Trapezoid, Label: "Trapezoid", Fields: []string{"base1", "base2", "height"}},
	{ID: Ellipse, Label: "Ellipse", Fields: []string{"radius1", "radius2"}},
}

var defaultRegistry = mustNew(defaultDefinitions)

// Default returns the registry of the six predefined shapes.
func Default() *Registry {
	return defaultRegistry
}

// New builds a registry from defs. Ids must be unique and non-empty and every
// definition needs at least one field, with no duplicates.
func New(defs []Definition) (*Registry, error) {
	r := &Registry{
		order: make([]ID, 0, len(defs)),
		byID:  make(map[ID]Definition, len(defs)),
	}
	for _, d := range defs {
		if strings.TrimSpace(string(d.ID)) == "" {
			return nil, fmt.Errorf("shape definition %q: id is required", d.Label)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("shape definition %q: duplicate id", d.ID)
		}
		if len(d.Fields) == 0 {
			return nil, fmt.Errorf("shape definition %q: no fields", d.ID)
		}
		seen := make(map[string]bool, len(d.Fields))
		for _, f := range d.Fields {
			if f == "" || seen[f] {
				return nil, fmt.Errorf("shape definition %q: invalid or duplicate field %q", d.ID, f)
			}
			seen[f] = true
		}
		d.Fields = append([]string(nil), d.Fields...)
		r.order = append(r.order, d.ID)
		r.byID[d.ID] = d
	}
	return r, nil
}

func mustNew(defs []Definition) *Registry {
	r, err := New(defs)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the definition for id.
func (r *Registry) Lookup(id ID) (Definition, bool) {
	d, ok := r.byID[id]
	if !ok {
		return Definition{}, false
	}
	d.Fields = append([]string(nil), d.Fields...)
	return d, true
}

// FieldsFor returns the ordered field list for id, or ErrUnknownShape.
func (r *Registry) FieldsFor(id ID) ([]string, error) {
	d, ok := r.Lookup(id)
	if !ok {
		return nil, r.unknown(string(id))
	}
	return d.Fields, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id ID) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs returns every registered id in display order.
func (r *Registry) IDs() []ID {
	return append([]ID(nil), r.order...)
}

// Definitions returns every definition in display order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		d, _ := r.Lookup(id)
		out = append(out, d)
	}
	return out
}

// Parse resolves user text (case and surrounding space insensitive) to a
// registered id.
func (r *Registry) Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if r.Has(id) {
		return id, nil
	}
	return "", r.unknown(s)
}

// Suggest returns the registered id closest to input, provided the edit
// distance is no more than half the input length.
func (r *Registry) Suggest(input string) (ID, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return "", false
	}
	limit := (utf8.RuneCountInString(in) + 1) / 2
	best := ID("")
	bestDist := limit + 1
	for _, id := range r.order {
		d := levenshtein.ComputeDistance(in, string(id))
		if d < bestDist {
			best, bestDist = id, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

func (r *Registry) unknown(input string) error {
	if s, ok := r.Suggest(input); ok {
		return fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownShape, input, s)
	}
	return fmt.Errorf("%w %q", ErrUnknownShape, input)
}

// FieldLabel upper-cases the first letter of a field name for display.
func FieldLabel(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError {
		return field
	}
	return string(unicode.ToUpper(r)) + field[size:]
}

// Placeholder is the hint shown in an empty field input.
func Placeholder(field string) string {
	return "Enter " + field
}
