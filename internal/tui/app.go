// Package tui is the interactive front end: a bubbletea program with a shape
// picker, one input per dimension, a unit picker and a calculate button.
package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"github.com/jask/shapearea/internal/config"
	"github.com/jask/shapearea/internal/dropdown"
	"github.com/jask/shapearea/internal/form"
	"github.com/jask/shapearea/internal/keys"
	"github.com/jask/shapearea/internal/pointer"
	"github.com/jask/shapearea/internal/session"
	"github.com/jask/shapearea/internal/shape"
)

const (
	zoneShape     = "shape"
	zoneShapeList = "shape-list"
	zoneUnit      = "unit"
	zoneUnitList  = "unit-list"
	zoneCompute   = "compute"
)

func optionZone(picker string, i int) string { return fmt.Sprintf("%s-opt-%d", picker, i) }
func fieldZone(name string) string          { return "field-" + name }

// KeysReloadedMsg swaps the active key registry, e.g. after the bindings
// file changed on disk.
type KeysReloadedMsg struct {
	Registry *keys.Registry
}

type focusKind int

const (
	focusShape focusKind = iota
	focusField
	focusUnit
	focusCompute
)

type focusItem struct {
	kind  focusKind
	field int
}

// Options configure an App.
type Options struct {
	Session *session.Calculator
	Keys    *keys.Registry
	Logger  *zap.Logger
	Config  config.Config
	// ConfigPath, when set, is where the last chosen unit is remembered.
	ConfigPath string
}

// App is the bubbletea model.
type App struct {
	sess   *session.Calculator
	keys   *keys.Registry
	log    *zap.Logger
	cfg    config.Config
	cfgErr error
	path   string

	hub   *pointer.Hub
	zones *zone.Manager
	// hit reports whether a cell lies in the named zone.
	hit func(id string, x, y int) bool

	shapes *dropdown.Controller[shape.ID]
	units  *dropdown.Controller[string]
	inputs []textinput.Model
	snap   session.Snapshot

	focus  int
	status string
	width  int
	height int
	closed bool
}

// New wires a session to two pickers that share one pointer hub.
func New(opts Options) (*App, error) {
	if opts.Session == nil {
		return nil, errors.New("tui: session is required")
	}
	if opts.Keys == nil {
		opts.Keys = keys.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	a := &App{
		sess:  opts.Session,
		keys:  opts.Keys,
		log:   opts.Logger.Named("tui"),
		cfg:   opts.Config,
		path:  opts.ConfigPath,
		hub:   pointer.NewHub(),
		zones: zone.New(),
	}
	a.hit = a.zoneHit

	shapeOpts := make([]dropdown.Option[shape.ID], 0)
	for _, d := range a.sess.Shapes().Definitions() {
		shapeOpts = append(shapeOpts, dropdown.Option[shape.ID]{Value: d.ID, Label: d.Label})
	}
	a.shapes = dropdown.New("shape", shapeOpts)
	a.shapes.OnSelect = a.onShapeSelected

	unitOpts := make([]dropdown.Option[string], 0)
	for _, u := range a.sess.Units().All() {
		unitOpts = append(unitOpts, dropdown.Option[string]{Value: u.Symbol, Label: u.Label})
	}
	a.units = dropdown.New("unit", unitOpts)
	a.units.OnSelect = a.onUnitSelected
	if err := a.units.SetSelected(a.sess.Unit()); err != nil {
		return nil, err
	}

	a.sess.SetOnChange(func(s session.Snapshot) { a.snap = s })
	a.snap = a.sess.Snapshot()

	if id, ok := a.sess.Shape(); ok {
		if err := a.shapes.SetSelected(id); err != nil {
			return nil, err
		}
		a.rebuildInputs()
	}

	a.shapes.Attach(a.hub, a.boundsFor(zoneShape, zoneShapeList))
	a.units.Attach(a.hub, a.boundsFor(zoneUnit, zoneUnitList))
	a.applyFocus()
	return a, nil
}

// Close releases pointer subscriptions and the zone manager. Safe to call
// more than once.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.shapes.Detach()
	a.units.Detach()
	a.zones.Close()
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case KeysReloadedMsg:
		if msg.Registry != nil {
			a.keys = msg.Registry
			a.status = "keybindings reloaded"
		}
		return a, nil
	case tea.MouseMsg:
		return a.updateMouse(msg)
	case tea.KeyMsg:
		return a.updateKey(msg)
	}
	return a, nil
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	scope := a.scope()

	if a.keys.Is(k, scope, keys.ActionQuit) {
		return a.quit()
	}

	if picker := a.openPicker(); picker != nil {
		a.updateOpenPicker(k, picker)
		return a, nil
	}

	switch {
	case a.keys.Is(k, scope, keys.ActionNextFocus):
		a.moveFocus(1)
		return a, nil
	case a.keys.Is(k, scope, keys.ActionPrevFocus):
		a.moveFocus(-1)
		return a, nil
	case a.keys.Is(k, scope, keys.ActionCompute):
		a.compute()
		return a, nil
	}

	item := a.focused()
	switch item.kind {
	case focusShape:
		if a.keys.Is(k, scope, keys.ActionOpen) {
			a.shapes.Toggle()
		}
	case focusUnit:
		if a.keys.Is(k, scope, keys.ActionOpen) {
			a.units.Toggle()
		}
	case focusCompute:
		if a.keys.Is(k, scope, keys.ActionOpen) {
			a.compute()
		}
	case focusField:
		return a, a.updateField(item.field, msg)
	}
	return a, nil
}

// updateOpenPicker translates bound actions into the picker's own key names;
// anything unbound goes to the picker as a filter keystroke.
func (a *App) updateOpenPicker(k string, picker func(string)) {
	scope := keys.ScopeDropdown
	switch {
	case a.keys.Is(k, scope, keys.ActionUp):
		picker("up")
	case a.keys.Is(k, scope, keys.ActionDown):
		picker("down")
	case a.keys.Is(k, scope, keys.ActionSelect):
		picker("enter")
	case a.keys.Is(k, scope, keys.ActionClose):
		picker("esc")
	case a.keys.Is(k, scope, keys.ActionNextFocus):
		a.dismissAll()
		a.moveFocus(1)
	case a.keys.Is(k, scope, keys.ActionPrevFocus):
		a.dismissAll()
		a.moveFocus(-1)
	default:
		picker(k)
	}
}

// openPicker returns a key sink for whichever picker is open, or nil.
func (a *App) openPicker() func(string) {
	switch {
	case a.shapes.IsOpen():
		return func(k string) { a.shapes.HandleKey(k) }
	case a.units.IsOpen():
		return func(k string) { a.units.HandleKey(k) }
	}
	return nil
}

func (a *App) updateField(i int, msg tea.KeyMsg) tea.Cmd {
	if i < 0 || i >= len(a.inputs) {
		return nil
	}
	name := a.snap.Fields[i].Name
	before := a.inputs[i].Value()
	var cmd tea.Cmd
	a.inputs[i], cmd = a.inputs[i].Update(msg)
	after := a.inputs[i].Value()
	if after == before {
		return cmd
	}
	if !a.sess.ChangeField(name, after) {
		a.inputs[i].SetValue(before)
	}
	return cmd
}

func (a *App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return a, nil
	}
	btn := pointerButton(msg.Button)
	if btn == pointer.ButtonNone {
		return a, nil
	}

	// Outside-pointer dismissal runs before the click lands on anything.
	a.hub.Dispatch(pointer.Event{X: msg.X, Y: msg.Y, Button: btn})
	if btn != pointer.ButtonLeft {
		return a, nil
	}

	x, y := msg.X, msg.Y
	switch {
	case a.hit(zoneShape, x, y):
		a.setFocus(focusItem{kind: focusShape})
		a.shapes.Toggle()
		return a, nil
	case a.hit(zoneUnit, x, y):
		a.setFocus(focusItem{kind: focusUnit})
		a.units.Toggle()
		return a, nil
	case a.hit(zoneCompute, x, y):
		a.setFocus(focusItem{kind: focusCompute})
		a.compute()
		return a, nil
	}
	if a.shapes.IsOpen() {
		for i, o := range a.shapes.Visible() {
			if a.hit(optionZone(zoneShape, i), x, y) {
				_ = a.shapes.Select(o.Value)
				return a, nil
			}
		}
	}
	if a.units.IsOpen() {
		for i, o := range a.units.Visible() {
			if a.hit(optionZone(zoneUnit, i), x, y) {
				_ = a.units.Select(o.Value)
				return a, nil
			}
		}
	}
	for i, f := range a.snap.Fields {
		if a.hit(fieldZone(f.Name), x, y) {
			a.setFocus(focusItem{kind: focusField, field: i})
			return a, nil
		}
	}
	return a, nil
}

func pointerButton(b tea.MouseButton) pointer.Button {
	switch b {
	case tea.MouseButtonLeft:
		return pointer.ButtonLeft
	case tea.MouseButtonMiddle:
		return pointer.ButtonMiddle
	case tea.MouseButtonRight:
		return pointer.ButtonRight
	}
	return pointer.ButtonNone
}

func (a *App) onShapeSelected(id shape.ID) {
	if err := a.sess.SelectShape(id); err != nil {
		a.status = err.Error()
		return
	}
	a.status = ""
	a.rebuildInputs()
	if len(a.inputs) > 0 {
		a.setFocus(focusItem{kind: focusField, field: 0})
	}
}

func (a *App) onUnitSelected(symbol string) {
	if err := a.sess.SelectUnit(symbol); err != nil {
		a.status = err.Error()
		return
	}
	a.status = ""
	a.rememberUnit(symbol)
}

// rememberUnit stores the chosen unit as the default for the next run.
func (a *App) rememberUnit(symbol string) {
	if a.path == "" || a.cfg.UI.DefaultUnit == symbol {
		return
	}
	a.cfg.UI.DefaultUnit = symbol
	if err := config.Save(a.path, a.cfg); err != nil {
		a.cfgErr = err
		a.log.Warn("save config", zap.Error(err))
		return
	}
	a.cfgErr = nil
}

func (a *App) compute() {
	if !a.sess.Complete() {
		a.status = "fill in every dimension with a positive number"
		return
	}
	if _, err := a.sess.Compute(); err != nil {
		if errors.Is(err, form.ErrIncompleteInput) {
			a.status = "fill in every dimension with a positive number"
		} else {
			a.status = err.Error()
		}
		return
	}
	a.status = ""
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.dismissAll()
	a.Close()
	return a, tea.Quit
}

func (a *App) dismissAll() {
	a.shapes.Dismiss()
	a.units.Dismiss()
}

func (a *App) rebuildInputs() {
	a.snap = a.sess.Snapshot()
	a.inputs = make([]textinput.Model, len(a.snap.Fields))
	for i, f := range a.snap.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Placeholder
		ti.CharLimit = 32
		ti.Width = 16
		ti.SetValue(f.Value)
		a.inputs[i] = ti
	}
	a.clampFocus()
	a.applyFocus()
}

func (a *App) focusables() []focusItem {
	items := []focusItem{{kind: focusShape}}
	for i := range a.inputs {
		items = append(items, focusItem{kind: focusField, field: i})
	}
	return append(items, focusItem{kind: focusUnit}, focusItem{kind: focusCompute})
}

func (a *App) focused() focusItem {
	items := a.focusables()
	a.clampFocus()
	return items[a.focus]
}

func (a *App) clampFocus() {
	n := len(a.focusables())
	if a.focus < 0 {
		a.focus = 0
	}
	if a.focus >= n {
		a.focus = n - 1
	}
}

func (a *App) moveFocus(delta int) {
	n := len(a.focusables())
	a.focus = ((a.focus+delta)%n + n) % n
	a.applyFocus()
}

func (a *App) setFocus(target focusItem) {
	for i, it := range a.focusables() {
		if it == target {
			a.focus = i
			break
		}
	}
	a.applyFocus()
}

func (a *App) applyFocus() {
	cur := a.focused()
	for i := range a.inputs {
		if cur.kind == focusField && cur.field == i {
			a.inputs[i].Focus()
		} else {
			a.inputs[i].Blur()
		}
	}
}

// scope maps the focused widget to a key registry scope.
func (a *App) scope() string {
	if a.shapes.IsOpen() || a.units.IsOpen() {
		return keys.ScopeDropdown
	}
	if a.focused().kind == focusField {
		return keys.ScopeField
	}
	return keys.ScopeForm
}

func (a *App) boundsFor(ids ...string) dropdown.Bounds {
	return dropdown.BoundsFunc(func(ev pointer.Event) bool {
		for _, id := range ids {
			if a.hit(id, ev.X, ev.Y) {
				return true
			}
		}
		return false
	})
}

func (a *App) zoneHit(id string, x, y int) bool {
	zi := a.zones.Get(id)
	if zi == nil {
		return false
	}
	return zi.InBounds(tea.MouseMsg{X: x, Y: y})
}
