// Package dropdown implements the single-selection open/closed state machine
// behind the shape and unit pickers.
//
// A Controller starts Closed. Toggle flips between Closed and Open, Select
// (only valid while Open) records a value, notifies the owner and closes, and
// Dismiss closes without touching the selection. While attached to a
// pointer.Hub, any pointer-down outside the controller's bounds dismisses it.
package dropdown

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jask/shapearea/internal/pointer"
)

var (
	// ErrNotOpen is returned by Select while the controller is Closed.
	ErrNotOpen = errors.New("dropdown is not open")
	// ErrUnknownOption is returned by Select for values not in the option list.
	ErrUnknownOption = errors.New("unknown option")
)

// Phase is the open/closed state.
type Phase int

const (
	Closed Phase = iota
	Open
)

func (p Phase) String() string {
	if p == Open {
		return "open"
	}
	return "closed"
}

// Option is one selectable entry.
type Option[K comparable] struct {
	Value K
	Label string
}

// State is a value snapshot of a controller.
type State[K comparable] struct {
	Phase        Phase
	Selected     K
	HasSelection bool
	Cursor       int
	Query        string
}

// IsOpen reports whether the option list is visible.
func (s State[K]) IsOpen() bool {
	return s.Phase == Open
}

// Action describes what a key or pointer event did.
type Action int

const (
	ActionNone Action = iota
	ActionOpened
	ActionMoved
	ActionFiltered
	ActionSelected
	ActionDismissed
)

// Result is returned from HandleKey.
type Result[K comparable] struct {
	Action Action
	Value  K
}

// Bounds decides whether a pointer event landed on the widget.
type Bounds interface {
	Contains(ev pointer.Event) bool
}

// BoundsFunc adapts a function to Bounds.
type BoundsFunc func(ev pointer.Event) bool

// Contains implements Bounds.
func (f BoundsFunc) Contains(ev pointer.Event) bool { return f(ev) }

// Controller is a dropdown over options of type K. It is driven from a single
// event loop and is not safe for concurrent use.
type Controller[K comparable] struct {
	name     string
	options  []Option[K]
	filtered []Option[K]

	phase        Phase
	selected     K
	hasSelection bool
	cursor       int
	query        string

	// OnSelect is called after Select records a value.
	OnSelect func(K)
	// OnChange is called after every state transition.
	OnChange func(State[K])

	sub    *pointer.Subscription
	bounds Bounds
}

// New returns a Closed controller with no selection.
func New[K comparable](name string, options []Option[K]) *Controller[K] {
	c := &Controller[K]{
		name:    name,
		options: append([]Option[K](nil), options...),
	}
	c.filtered = c.options
	return c
}

// Name identifies the controller in logs and hit-testing zones.
func (c *Controller[K]) Name() string { return c.name }

// Options returns every option in display order.
func (c *Controller[K]) Options() []Option[K] {
	return append([]Option[K](nil), c.options...)
}

// Visible returns the options currently shown. It is empty while Closed.
func (c *Controller[K]) Visible() []Option[K] {
	if c.phase != Open {
		return nil
	}
	return append([]Option[K](nil), c.filtered...)
}

// State returns a snapshot of the controller.
func (c *Controller[K]) State() State[K] {
	return State[K]{
		Phase:        c.phase,
		Selected:     c.selected,
		HasSelection: c.hasSelection,
		Cursor:       c.cursor,
		Query:        c.query,
	}
}

// IsOpen reports whether the controller is Open.
func (c *Controller[K]) IsOpen() bool { return c.phase == Open }

// Selected returns the current selection.
func (c *Controller[K]) Selected() (K, bool) {
	return c.selected, c.hasSelection
}

// SelectedLabel returns the label of the selected option, or "".
func (c *Controller[K]) SelectedLabel() string {
	if !c.hasSelection {
		return ""
	}
	if o, ok := c.find(c.selected); ok {
		return o.Label
	}
	return ""
}

// SetSelected seeds the selection without a transition or notification. It
// is meant for initial values such as the default unit.
func (c *Controller[K]) SetSelected(v K) error {
	if _, ok := c.find(v); !ok {
		return fmt.Errorf("%s: %w %v", c.name, ErrUnknownOption, v)
	}
	c.selected, c.hasSelection = v, true
	return nil
}

// Toggle opens a Closed controller and closes an Open one.
func (c *Controller[K]) Toggle() {
	if c.phase == Open {
		c.close()
	} else {
		c.open()
	}
	c.changed()
}

// Select records v, notifies the owner and closes. Only valid while Open.
func (c *Controller[K]) Select(v K) error {
	if c.phase != Open {
		return fmt.Errorf("%s: %w", c.name, ErrNotOpen)
	}
	if _, ok := c.find(v); !ok {
		return fmt.Errorf("%s: %w %v", c.name, ErrUnknownOption, v)
	}
	c.selected, c.hasSelection = v, true
	c.close()
	if c.OnSelect != nil {
		c.OnSelect(v)
	}
	c.changed()
	return nil
}

// Dismiss closes an Open controller without changing the selection. It
// reports whether a transition happened.
func (c *Controller[K]) Dismiss() bool {
	if c.phase != Open {
		return false
	}
	c.close()
	c.changed()
	return true
}

// HandleKey drives the controller from a key name as reported by bubbletea.
func (c *Controller[K]) HandleKey(keyName string) Result[K] {
	if c.phase != Open {
		switch keyName {
		case "enter", " ", "space", "down":
			c.Toggle()
			return Result[K]{Action: ActionOpened}
		}
		return Result[K]{Action: ActionNone}
	}

	switch keyName {
	case "up", "ctrl+p":
		if c.move(-1) {
			return Result[K]{Action: ActionMoved}
		}
		return Result[K]{Action: ActionNone}
	case "down", "ctrl+n":
		if c.move(1) {
			return Result[K]{Action: ActionMoved}
		}
		return Result[K]{Action: ActionNone}
	case "enter":
		o, ok := c.current()
		if !ok {
			return Result[K]{Action: ActionNone}
		}
		if err := c.Select(o.Value); err != nil {
			return Result[K]{Action: ActionNone}
		}
		return Result[K]{Action: ActionSelected, Value: o.Value}
	case "esc":
		c.Dismiss()
		return Result[K]{Action: ActionDismissed}
	case "backspace":
		if c.query == "" {
			return Result[K]{Action: ActionNone}
		}
		r := []rune(c.query)
		c.setQuery(string(r[:len(r)-1]))
		return Result[K]{Action: ActionFiltered}
	default:
		if isPrintableKey(keyName) {
			c.setQuery(c.query + keyName)
			return Result[K]{Action: ActionFiltered}
		}
		return Result[K]{Action: ActionNone}
	}
}

// Attach subscribes the controller to hub so pointer-downs outside bounds
// dismiss it. A previous attachment is released first.
func (c *Controller[K]) Attach(hub *pointer.Hub, bounds Bounds) {
	c.Detach()
	c.bounds = bounds
	c.sub = hub.Subscribe(c.handlePointer)
}

// Detach releases the pointer subscription. It is safe to call at any time,
// any number of times.
func (c *Controller[K]) Detach() {
	c.sub.Close()
	c.sub = nil
	c.bounds = nil
}

// Attached reports whether a pointer subscription is held.
func (c *Controller[K]) Attached() bool {
	return c.sub.Active()
}

func (c *Controller[K]) handlePointer(ev pointer.Event) {
	if c.phase != Open {
		return
	}
	if c.bounds != nil && c.bounds.Contains(ev) {
		return
	}
	c.Dismiss()
}

func (c *Controller[K]) open() {
	c.phase = Open
	c.query = ""
	c.filtered = c.options
	c.cursor = 0
	if c.hasSelection {
		for i, o := range c.filtered {
			if o.Value == c.selected {
				c.cursor = i
				break
			}
		}
	}
}

func (c *Controller[K]) close() {
	c.phase = Closed
	c.query = ""
	c.filtered = c.options
	c.cursor = 0
}

func (c *Controller[K]) changed() {
	if c.OnChange != nil {
		c.OnChange(c.State())
	}
}

func (c *Controller[K]) move(delta int) bool {
	n := len(c.filtered)
	if n == 0 {
		return false
	}
	before := c.cursor
	c.cursor = ((c.cursor+delta)%n + n) % n
	if c.cursor == before {
		return false
	}
	c.changed()
	return true
}

func (c *Controller[K]) current() (Option[K], bool) {
	if c.cursor < 0 || c.cursor >= len(c.filtered) {
		return Option[K]{}, false
	}
	return c.filtered[c.cursor], true
}

func (c *Controller[K]) find(v K) (Option[K], bool) {
	for _, o := range c.options {
		if o.Value == v {
			return o, true
		}
	}
	return Option[K]{}, false
}

type scoredOption[K comparable] struct {
	opt   Option[K]
	score int
	index int
}

func (c *Controller[K]) setQuery(q string) {
	c.query = q
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		c.filtered = c.options
		c.cursor = 0
		c.changed()
		return
	}
	scored := make([]scoredOption[K], 0, len(c.options))
	for i, o := range c.options {
		if ok, score := fuzzyMatchScore(o.Label, trimmed); ok {
			scored = append(scored, scoredOption[K]{opt: o, score: score, index: i})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index < scored[j].index
	})
	c.filtered = make([]Option[K], len(scored))
	for i := range scored {
		c.filtered[i] = scored[i].opt
	}
	c.cursor = 0
	c.changed()
}

// Score weights for fuzzyMatchScore.
const (
	scoreRune      = 1
	scoreWordStart = 8
	scoreAdjacent  = 4
	scoreExact     = 20
	maxLeadPenalty = 5
)

// fuzzyMatchScore matches query as a case-insensitive, rune-wise subsequence
// of label. Matches at the start of a word and runs of adjacent matches
// score higher, skipped leading runes cost a point each, and an exact label
// match scores highest.
func fuzzyMatchScore(label, query string) (bool, int) {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))
	if len(q) == 0 {
		return true, 0
	}
	l := []rune(strings.ToLower(label))

	score, prev, qi := 0, -1, 0
	for li := 0; li < len(l) && qi < len(q); li++ {
		if l[li] != q[qi] {
			continue
		}
		score += scoreRune
		switch {
		case prev >= 0 && li == prev+1:
			score += scoreAdjacent
		case li == 0 || isWordBreak(l[li-1]):
			score += scoreWordStart
		}
		if prev < 0 {
			score -= min(li, maxLeadPenalty)
		}
		prev = li
		qi++
	}
	if qi < len(q) {
		return false, 0
	}
	if strings.EqualFold(strings.TrimSpace(label), string(q)) {
		score += scoreExact
	}
	return true, score
}

func isWordBreak(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

func isPrintableKey(keyName string) bool {
	return len(keyName) == 1 && keyName[0] >= 32 && keyName[0] < 127
}
