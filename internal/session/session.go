// Package session holds the state of one calculator: the selected shape, the
// raw dimensions typed for it, the display unit and the last computed area.
package session

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/shapearea/internal/area"
	"github.com/jask/shapearea/internal/form"
	"github.com/jask/shapearea/internal/numfmt"
	"github.com/jask/shapearea/internal/shape"
	"github.com/jask/shapearea/internal/unit"
)

// Result is a computed area and the unit active when it was computed.
type Result struct {
	Area float64
	Unit string
}

// String renders the result as shown to the user, e.g. "12.57 cm²".
func (r Result) String() string {
	return numfmt.WithUnit(r.Area, r.Unit)
}

// Field is a render-ready view of one dimension input.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Value       string
}

// Snapshot is everything the presentation layer needs after a transition.
type Snapshot struct {
	Shape      shape.ID
	ShapeLabel string
	HasShape   bool
	Fields     []Field
	Unit       string
	UnitLabel  string
	Complete   bool
	Result     Result
	HasResult  bool
}

// FormattedResult returns the result line, or "" when there is none.
func (s Snapshot) FormattedResult() string {
	if !s.HasResult {
		return ""
	}
	return s.Result.String()
}

// Options configure a Calculator.
type Options struct {
	Shapes *shape.Registry
	Units  *unit.Catalog
	// DefaultUnit is the unit a new session starts with; unit.Default when
	// empty.
	DefaultUnit string
	Logger      *zap.Logger
	// OnChange is called after every state transition.
	OnChange func(Snapshot)
}

// Calculator orchestrates validation and computation for one user. It is
// driven from a single event loop.
type Calculator struct {
	id       string
	shapes   *shape.Registry
	units    *unit.Catalog
	validate *form.Validator
	log      *zap.Logger
	onChange func(Snapshot)

	selected   shape.ID
	hasShape   bool
	dimensions form.Dimensions
	unit       string
	result     Result
	hasResult  bool
}

// New returns a Calculator with no shape selected.
func New(opts Options) (*Calculator, error) {
	if opts.Shapes == nil {
		opts.Shapes = shape.Default()
	}
	if opts.Units == nil {
		opts.Units = unit.Units()
	}
	if opts.DefaultUnit == "" {
		opts.DefaultUnit = unit.Default
	}
	if _, ok := opts.Units.Lookup(opts.DefaultUnit); !ok {
		return nil, fmt.Errorf("default unit: %w %q", unit.ErrUnknownUnit, opts.DefaultUnit)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Calculator{
		id:         id,
		shapes:     opts.Shapes,
		units:      opts.Units,
		validate:   form.NewValidator(opts.Shapes),
		log:        opts.Logger.With(zap.String("session", id)),
		onChange:   opts.OnChange,
		dimensions: form.Dimensions{},
		unit:       opts.DefaultUnit,
	}, nil
}

// ID identifies the session in logs.
func (c *Calculator) ID() string { return c.id }

// SetOnChange replaces the transition callback.
func (c *Calculator) SetOnChange(fn func(Snapshot)) { c.onChange = fn }

// Shapes returns the registry the session validates against.
func (c *Calculator) Shapes() *shape.Registry { return c.shapes }

// Units returns the unit catalog.
func (c *Calculator) Units() *unit.Catalog { return c.units }

// Shape returns the selected shape.
func (c *Calculator) Shape() (shape.ID, bool) { return c.selected, c.hasShape }

// Unit returns the selected display unit symbol.
func (c *Calculator) Unit() string { return c.unit }

// Fields returns the active shape's ordered field names, or nil.
func (c *Calculator) Fields() []string {
	if !c.hasShape {
		return nil
	}
	fields, _ := c.shapes.FieldsFor(c.selected)
	return fields
}

// Value returns the raw text stored for field.
func (c *Calculator) Value(field string) string { return c.dimensions[field] }

// Dimensions returns a copy of the raw dimension set.
func (c *Calculator) Dimensions() form.Dimensions { return c.dimensions.Clone() }

// Result returns the last computed area.
func (c *Calculator) Result() (Result, bool) { return c.result, c.hasResult }

// Complete reports whether the compute action is available.
func (c *Calculator) Complete() bool {
	if !c.hasShape {
		return false
	}
	return c.validate.IsComplete(c.selected, c.dimensions)
}

// SelectShape switches the active shape and clears dimensions and result.
// Unknown ids leave the session untouched.
func (c *Calculator) SelectShape(id shape.ID) error {
	if _, err := c.shapes.FieldsFor(id); err != nil {
		c.log.Warn("shape rejected", zap.String("shape", string(id)), zap.Error(err))
		return fmt.Errorf("select shape: %w", err)
	}
	c.selected, c.hasShape = id, true
	c.dimensions = form.Dimensions{}
	c.result, c.hasResult = Result{}, false
	c.log.Debug("shape selected", zap.String("shape", string(id)))
	c.changed()
	return nil
}

// SelectUnit changes the display unit. Dimensions and result are kept.
func (c *Calculator) SelectUnit(symbol string) error {
	if _, ok := c.units.Lookup(symbol); !ok {
		return fmt.Errorf("select unit: %w %q", unit.ErrUnknownUnit, symbol)
	}
	c.unit = symbol
	c.log.Debug("unit selected", zap.String("unit", symbol))
	c.changed()
	return nil
}

// ChangeField stores raw for field if the keystroke passes sanitization and
// field belongs to the active shape. It reports whether the value was stored.
func (c *Calculator) ChangeField(field, raw string) bool {
	if !c.hasShape || !c.hasField(field) {
		c.log.Debug("field rejected", zap.String("field", field), zap.String("reason", "not a field of the active shape"))
		return false
	}
	if !form.Accept(raw) {
		c.log.Debug("field rejected", zap.String("field", field), zap.String("raw", raw))
		return false
	}
	if c.dimensions[field] == raw {
		return true
	}
	c.dimensions[field] = raw
	c.changed()
	return true
}

// Compute calculates the area for the active shape. It fails with
// form.ErrIncompleteInput unless Complete reports true.
func (c *Calculator) Compute() (Result, error) {
	if !c.hasShape {
		return Result{}, fmt.Errorf("compute: %w: no shape selected", form.ErrIncompleteInput)
	}
	if !c.Complete() {
		return Result{}, fmt.Errorf("compute %s: %w", c.selected, form.ErrIncompleteInput)
	}
	a, err := area.Compute(c.shapes, c.selected, c.dimensions)
	if err != nil {
		return Result{}, err
	}
	c.result, c.hasResult = Result{Area: a, Unit: c.unit}, true
	c.log.Info("area computed",
		zap.String("shape", string(c.selected)),
		zap.Float64("area", a),
		zap.String("unit", c.unit))
	c.changed()
	return c.result, nil
}

// Snapshot returns the render-ready state.
func (c *Calculator) Snapshot() Snapshot {
	s := Snapshot{
		Shape:     c.selected,
		HasShape:  c.hasShape,
		Unit:      c.unit,
		UnitLabel: c.units.Label(c.unit),
		Complete:  c.Complete(),
		Result:    c.result,
		HasResult: c.hasResult,
	}
	if def, ok := c.shapes.Lookup(c.selected); ok && c.hasShape {
		s.ShapeLabel = def.Label
		s.Fields = make([]Field, 0, len(def.Fields))
		for _, f := range def.Fields {
			s.Fields = append(s.Fields, Field{
				Name:        f,
				Label:       shape.FieldLabel(f),
				Placeholder: shape.Placeholder(f),
				Value:       c.dimensions[f],
			})
		}
	}
	return s
}

func (c *Calculator) hasField(field string) bool {
	for _, f := range c.Fields() {
		if f == field {
			return true
		}
	}
	return false
}

func (c *Calculator) changed() {
	if c.onChange != nil {
		c.onChange(c.Snapshot())
	}
}
