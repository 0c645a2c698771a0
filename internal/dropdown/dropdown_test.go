package dropdown

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/jask/shapearea/internal/pointer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testOptions() []Option[string] {
	return []Option[string]{
		{Value: "cm", Label: "Centimeters"},
		{Value: "m", Label: "Meters"},
		{Value: "in", Label: "Inches"},
		{Value: "ft", Label: "Feet"},
	}
}

func visibleLabels(c *Controller[string]) []string {
	var out []string
	for _, o := range c.Visible() {
		out = append(out, o.Label)
	}
	return out
}

func TestInitialState(t *testing.T) {
	c := New("unit", testOptions())
	st := c.State()
	if st.IsOpen() {
		t.Fatal("new controller should be closed")
	}
	if st.HasSelection {
		t.Fatal("new controller should have no selection")
	}
	if len(c.Visible()) != 0 {
		t.Fatal("closed controller should show no options")
	}
}

func TestToggle(t *testing.T) {
	c := New("unit", testOptions())
	c.Toggle()
	if !c.IsOpen() {
		t.Fatal("toggle from closed should open")
	}
	if len(c.Visible()) != 4 {
		t.Fatalf("open controller shows %d options, want 4", len(c.Visible()))
	}
	c.Toggle()
	if c.IsOpen() {
		t.Fatal("toggle from open should close")
	}
}

func TestSelectClosesAndNotifies(t *testing.T) {
	c := New("unit", testOptions())
	var got []string
	c.OnSelect = func(v string) { got = append(got, v) }

	c.Toggle()
	if err := c.Select("ft"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if c.IsOpen() {
		t.Fatal("select should close")
	}
	v, ok := c.Selected()
	if !ok || v != "ft" {
		t.Fatalf("Selected() = %q, %v", v, ok)
	}
	if diff := cmp.Diff([]string{"ft"}, got); diff != "" {
		t.Fatalf("notifications (-want +got):\n%s", diff)
	}
	if c.SelectedLabel() != "Feet" {
		t.Fatalf("SelectedLabel = %q", c.SelectedLabel())
	}
}

func TestSelectRequiresOpen(t *testing.T) {
	c := New("unit", testOptions())
	notified := false
	c.OnSelect = func(string) { notified = true }
	err := c.Select("m")
	if !errors.Is(err, ErrNotOpen) {
		t.Fatalf("err = %v, want ErrNotOpen", err)
	}
	if _, ok := c.Selected(); ok || notified {
		t.Fatal("select while closed must not change selection")
	}
}

func TestSelectUnknownOption(t *testing.T) {
	c := New("unit", testOptions())
	c.Toggle()
	if err := c.Select("yd"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("err = %v, want ErrUnknownOption", err)
	}
	if !c.IsOpen() {
		t.Fatal("failed select should leave the controller open")
	}
}

func TestDismissKeepsSelection(t *testing.T) {
	c := New("unit", testOptions())
	if err := c.SetSelected("cm"); err != nil {
		t.Fatalf("SetSelected: %v", err)
	}
	c.Toggle()
	if !c.Dismiss() {
		t.Fatal("dismiss while open should transition")
	}
	if c.IsOpen() {
		t.Fatal("dismiss should close")
	}
	if v, _ := c.Selected(); v != "cm" {
		t.Fatalf("selection changed to %q", v)
	}
	if c.Dismiss() {
		t.Fatal("dismiss while closed should be a no-op")
	}
}

func TestOnChangeFiresPerTransition(t *testing.T) {
	c := New("unit", testOptions())
	var phases []Phase
	c.OnChange = func(s State[string]) { phases = append(phases, s.Phase) }

	c.Toggle()
	c.Dismiss()
	c.Dismiss()
	c.Toggle()
	_ = c.Select("m")

	want := []Phase{Open, Closed, Open, Closed}
	if diff := cmp.Diff(want, phases); diff != "" {
		t.Fatalf("transitions (-want +got):\n%s", diff)
	}
}

func TestOpenPlacesCursorOnSelection(t *testing.T) {
	c := New("unit", testOptions())
	_ = c.SetSelected("in")
	c.Toggle()
	if c.State().Cursor != 2 {
		t.Fatalf("cursor = %d, want 2", c.State().Cursor)
	}
}

func TestHandleKeyNavigationAndSelect(t *testing.T) {
	c := New("unit", testOptions())

	if r := c.HandleKey("x"); r.Action != ActionNone {
		t.Fatalf("printable key on closed controller: %v", r.Action)
	}
	if r := c.HandleKey("enter"); r.Action != ActionOpened || !c.IsOpen() {
		t.Fatalf("enter should open, got %v", r.Action)
	}
	if r := c.HandleKey("up"); r.Action != ActionMoved || c.State().Cursor != 3 {
		t.Fatalf("up should wrap to last option, cursor=%d", c.State().Cursor)
	}
	if r := c.HandleKey("down"); r.Action != ActionMoved || c.State().Cursor != 0 {
		t.Fatalf("down should wrap to first option, cursor=%d", c.State().Cursor)
	}
	c.HandleKey("down")
	r := c.HandleKey("enter")
	if r.Action != ActionSelected || r.Value != "m" {
		t.Fatalf("enter result = %+v, want Selected m", r)
	}
	if c.IsOpen() {
		t.Fatal("enter on option should close")
	}
}

func TestHandleKeyEscDismisses(t *testing.T) {
	c := New("unit", testOptions())
	_ = c.SetSelected("cm")
	c.HandleKey("space")
	c.HandleKey("down")
	if r := c.HandleKey("esc"); r.Action != ActionDismissed {
		t.Fatalf("esc = %v", r.Action)
	}
	if v, _ := c.Selected(); v != "cm" || c.IsOpen() {
		t.Fatalf("esc changed selection to %q or left open", v)
	}
}

func TestTypeAheadFilter(t *testing.T) {
	c := New("unit", testOptions())
	c.Toggle()

	c.HandleKey("m")
	c.HandleKey("e")
	got := visibleLabels(c)
	if len(got) == 0 || got[0] != "Meters" {
		t.Fatalf("filtered = %v, want Meters first", got)
	}
	for _, l := range got {
		if l == "Inches" || l == "Feet" {
			t.Fatalf("%q should not match \"me\": %v", l, got)
		}
	}

	c.HandleKey("backspace")
	c.HandleKey("backspace")
	if n := len(c.Visible()); n != 4 {
		t.Fatalf("clearing query shows %d options, want 4", n)
	}

	c.HandleKey("z")
	if n := len(c.Visible()); n != 0 {
		t.Fatalf("no-match query shows %d options", n)
	}
	if r := c.HandleKey("enter"); r.Action != ActionNone || !c.IsOpen() {
		t.Fatal("enter with no visible options must not select")
	}
}

func TestQueryResetOnClose(t *testing.T) {
	c := New("unit", testOptions())
	c.Toggle()
	c.HandleKey("f")
	c.Dismiss()
	c.Toggle()
	if c.State().Query != "" || len(c.Visible()) != 4 {
		t.Fatalf("reopened with stale query %q", c.State().Query)
	}
}

func TestFuzzyMatchScoreRanking(t *testing.T) {
	tests := []struct {
		name   string
		labelA string
		labelB string
		query  string
	}{
		{"exact beats prefix", "Square", "Squares", "square"},
		{"prefix beats non-prefix", "Circle", "Semicircle", "ci"},
		{"consecutive beats split", "Trapezoid", "Triangle", "tra"},
		{"word start beats mid-word", "Square Meters", "Parameters", "me"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			okA, scoreA := fuzzyMatchScore(tt.labelA, tt.query)
			okB, scoreB := fuzzyMatchScore(tt.labelB, tt.query)
			if !okA || !okB {
				t.Fatalf("both labels should match %q", tt.query)
			}
			if scoreA <= scoreB {
				t.Fatalf("scoreA=%d scoreB=%d; expected %q higher", scoreA, scoreB, tt.labelA)
			}
		})
	}
}

func TestOutsidePointerDismisses(t *testing.T) {
	hub := pointer.NewHub()
	c := New("unit", testOptions())
	_ = c.SetSelected("cm")
	inside := BoundsFunc(func(ev pointer.Event) bool { return ev.X < 10 && ev.Y < 5 })
	c.Attach(hub, inside)
	defer c.Detach()

	c.Toggle()
	hub.Dispatch(pointer.Event{X: 3, Y: 2, Button: pointer.ButtonLeft})
	if !c.IsOpen() {
		t.Fatal("pointer inside bounds must not dismiss")
	}
	hub.Dispatch(pointer.Event{X: 30, Y: 2, Button: pointer.ButtonLeft})
	if c.IsOpen() {
		t.Fatal("pointer outside bounds should dismiss")
	}
	if v, _ := c.Selected(); v != "cm" {
		t.Fatalf("outside dismissal changed selection to %q", v)
	}
}

func TestIndependentControllers(t *testing.T) {
	hub := pointer.NewHub()
	a := New("shape", testOptions())
	b := New("unit", testOptions())
	a.Attach(hub, BoundsFunc(func(ev pointer.Event) bool { return ev.X < 10 }))
	b.Attach(hub, BoundsFunc(func(ev pointer.Event) bool { return ev.X >= 10 }))
	defer a.Detach()
	defer b.Detach()

	a.Toggle()
	b.Toggle()
	hub.Dispatch(pointer.Event{X: 12})
	if a.IsOpen() {
		t.Fatal("a should be dismissed by a click in b")
	}
	if !b.IsOpen() {
		t.Fatal("b should stay open for a click inside it")
	}
}

func TestDetachReleasesSubscription(t *testing.T) {
	hub := pointer.NewHub()
	c := New("unit", testOptions())
	c.Attach(hub, nil)
	if hub.Len() != 1 || !c.Attached() {
		t.Fatalf("attach: hub.Len()=%d attached=%v", hub.Len(), c.Attached())
	}
	c.Attach(hub, nil)
	if hub.Len() != 1 {
		t.Fatalf("re-attach leaked a subscription: hub.Len()=%d", hub.Len())
	}
	c.Detach()
	c.Detach()
	if hub.Len() != 0 || c.Attached() {
		t.Fatalf("detach: hub.Len()=%d attached=%v", hub.Len(), c.Attached())
	}

	c.Toggle()
	hub.Dispatch(pointer.Event{X: 99})
	if !c.IsOpen() {
		t.Fatal("detached controller must not react to pointer events")
	}
}

func TestDetachWithoutAttach(t *testing.T) {
	c := New("unit", testOptions())
	c.Detach()
	if c.Attached() {
		t.Fatal("never-attached controller reports attached")
	}
}

func TestFuzzyMatchScoreMatching(t *testing.T) {
	tests := []struct {
		label string
		query string
		want  bool
	}{
		{"Rectangle", "", true},
		{"Rectangle", "rgl", true},
		{"Rectangle", "  REC ", true},
		{"Rectangle", "lr", false},
		{"Größe", "grö", true},
		{"Größe", "gro", false},
		{"Ellipse", "ellipses", false},
	}
	for _, tt := range tests {
		if ok, _ := fuzzyMatchScore(tt.label, tt.query); ok != tt.want {
			t.Fatalf("fuzzyMatchScore(%q, %q) matched=%v, want %v", tt.label, tt.query, ok, tt.want)
		}
	}
}
