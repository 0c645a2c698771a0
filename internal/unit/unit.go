// Package unit lists the display units offered by the calculator. Units are
// labels only; no conversion happens anywhere.
package unit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrUnknownUnit is returned for symbols outside the catalog.
var ErrUnknownUnit = errors.New("unknown unit")

// Default is the unit a fresh session starts with.
const Default = "cm"

// Unit is a length unit as shown to the user.
type Unit struct {
	Symbol string
	Label  string
}

// Catalog is the ordered, fixed set of units.
type Catalog struct {
	units []Unit
}

var defaultCatalog = &Catalog{units: []Unit{
	{Symbol: "cm", Label: "Centimeters"},
	{Symbol: "m", Label: "Meters"},
	{Symbol: "in", Label: "Inches"},
	{Symbol: "ft", Label: "Feet"},
}}

// Units returns the built-in catalog.
func Units() *Catalog {
	return defaultCatalog
}

// All returns the units in display order.
func (c *Catalog) All() []Unit {
	return append([]Unit(nil), c.units...)
}

// Lookup finds a unit by symbol.
func (c *Catalog) Lookup(symbol string) (Unit, bool) {
	for _, u := range c.units {
		if u.Symbol == symbol {
			return u, true
		}
	}
	return Unit{}, false
}

// Label returns the display label for symbol, or symbol itself when unknown.
func (c *Catalog) Label(symbol string) string {
	if u, ok := c.Lookup(symbol); ok {
		return u.Label
	}
	return symbol
}

// Parse accepts a symbol or a label, case-insensitively.
func (c *Catalog) Parse(s string) (Unit, error) {
	in := strings.TrimSpace(s)
	for _, u := range c.units {
		if strings.EqualFold(u.Symbol, in) || strings.EqualFold(u.Label, in) {
			return u, nil
		}
	}
	if sug, ok := c.suggest(in); ok {
		return Unit{}, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownUnit, s, sug.Symbol)
	}
	return Unit{}, fmt.Errorf("%w %q", ErrUnknownUnit, s)
}

func (c *Catalog) suggest(in string) (Unit, bool) {
	in = strings.ToLower(in)
	if in == "" {
		return Unit{}, false
	}
	best, bestDist := Unit{}, len(in)/2+1
	found := false
	for _, u := range c.units {
		if d := levenshtein.ComputeDistance(in, strings.ToLower(u.Label)); d < bestDist {
			best, bestDist, found = u, d, true
		}
	}
	return best, found
}
