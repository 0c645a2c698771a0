package keys

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

const (
	ActionQuit      Action = "quit"
	ActionNextFocus Action = "next_focus"
	ActionPrevFocus Action = "prev_focus"
	ActionCompute   Action = "compute"
	ActionOpen      Action = "open"
	ActionUp        Action = "up"
	ActionDown      Action = "down"
	ActionSelect    Action = "select"
	ActionClose     Action = "close"
)

// Scopes name the part of the calculator that has focus. Lookups that miss
// in a scope fall back to ScopeGlobal.
const (
	ScopeGlobal   = "global"
	ScopeForm     = "form"
	ScopeField    = "field"
	ScopeDropdown = "dropdown"
)

// Binding maps keys to one action within a scope.
type Binding struct {
	Action Action
	Keys   []string
	Help   string
}

type defaultBinding struct {
	scope  string
	action Action
	keys   []string
	help   string
}

// defaults lists every (scope, action) pair. Overrides can rebind these
// pairs but never add new ones.
var defaults = []defaultBinding{
	{ScopeGlobal, ActionQuit, []string{"ctrl+c", "ctrl+q"}, "quit"},
	{ScopeGlobal, ActionNextFocus, []string{"tab"}, "next"},
	{ScopeGlobal, ActionPrevFocus, []string{"shift+tab"}, "prev"},

	// A closed picker or the button has focus.
	{ScopeForm, ActionOpen, []string{"enter", "space", "down"}, "open"},
	{ScopeForm, ActionCompute, []string{"ctrl+s"}, "calculate"},
	{ScopeForm, ActionQuit, []string{"q", "ctrl+c", "ctrl+q"}, "quit"},

	// Printable keys go to the dimension input.
	{ScopeField, ActionCompute, []string{"enter", "ctrl+s"}, "calculate"},
	{ScopeField, ActionNextFocus, []string{"down"}, "next field"},
	{ScopeField, ActionPrevFocus, []string{"up"}, "prev field"},

	// Unbound printable keys filter the open list.
	{ScopeDropdown, ActionUp, []string{"up", "ctrl+p"}, "prev option"},
	{ScopeDropdown, ActionDown, []string{"down", "ctrl+n"}, "next option"},
	{ScopeDropdown, ActionSelect, []string{"enter"}, "select"},
	{ScopeDropdown, ActionClose, []string{"esc"}, "close"},
}

type scopeTable struct {
	bindings []*Binding
	byKey    map[string]*Binding
}

// Registry resolves key names to actions per scope.
type Registry struct {
	scopes map[string]*scopeTable
}

func NewRegistry() *Registry {
	r := &Registry{scopes: make(map[string]*scopeTable)}
	for _, d := range defaults {
		t, ok := r.scopes[d.scope]
		if !ok {
			t = &scopeTable{}
			r.scopes[d.scope] = t
		}
		t.bindings = append(t.bindings, &Binding{Action: d.action, Keys: normalizeKeyList(d.keys), Help: d.help})
	}
	for _, t := range r.scopes {
		t.reindex()
	}
	return r
}

// Bindings returns a copy of the bindings of scope in declaration order.
func (r *Registry) Bindings(scope string) []Binding {
	t := r.table(scope)
	if t == nil {
		return nil
	}
	out := make([]Binding, 0, len(t.bindings))
	for _, b := range t.bindings {
		out = append(out, Binding{Action: b.Action, Keys: append([]string(nil), b.Keys...), Help: b.Help})
	}
	return out
}

// Lookup resolves keyName in scope, falling back to the global scope.
func (r *Registry) Lookup(keyName, scope string) *Binding {
	k := normalizeKeyName(keyName)
	if k == "" {
		return nil
	}
	for _, s := range []string{scope, ScopeGlobal} {
		if t := r.table(s); t != nil {
			if b, ok := t.byKey[k]; ok {
				return b
			}
		}
	}
	return nil
}

// Is reports whether keyName triggers action in scope.
func (r *Registry) Is(keyName, scope string, action Action) bool {
	b := r.Lookup(keyName, scope)
	return b != nil && b.Action == action
}

// HelpBindings returns bubbles key bindings for the footer help view.
func (r *Registry) HelpBindings(scope string) []key.Binding {
	items := r.Bindings(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		if len(b.Keys) == 0 {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *Registry) table(scope string) *scopeTable {
	if r == nil {
		return nil
	}
	return r.scopes[scope]
}

// ApplyConfig replaces the keys of existing (scope, action) bindings. All
// items are checked before any is applied, so on error the registry is
// unchanged.
func (r *Registry) ApplyConfig(items []BindingConfig) error {
	if r == nil || len(items) == 0 {
		return nil
	}
	type target struct {
		scope  string
		action Action
	}
	next := make(map[target][]string, len(items))
	for _, o := range items {
		tg := target{scope: strings.TrimSpace(o.Scope), action: Action(strings.TrimSpace(o.Action))}
		where := fmt.Sprintf("keybinding override scope=%q action=%q", tg.scope, tg.action)
		switch {
		case tg.scope == "":
			return fmt.Errorf("keybinding override: scope is required")
		case tg.action == "":
			return fmt.Errorf("%s: action is required", where)
		case r.table(tg.scope) == nil:
			return fmt.Errorf("%s: unknown scope", where)
		case r.table(tg.scope).find(tg.action) == nil:
			return fmt.Errorf("%s: unknown action in scope", where)
		}
		if _, dup := next[tg]; dup {
			return fmt.Errorf("%s: duplicated override entry", where)
		}
		ks := normalizeKeyList(o.Keys)
		if len(ks) == 0 {
			return fmt.Errorf("%s: keys are required", where)
		}
		next[tg] = ks
	}

	// Resolve the final keys per scope and reject any key claimed twice.
	for name, t := range r.scopes {
		owner := make(map[string]Action)
		for _, b := range t.bindings {
			ks := b.Keys
			if o, ok := next[target{name, b.Action}]; ok {
				ks = o
			}
			for _, k := range ks {
				if prev, taken := owner[k]; taken {
					return fmt.Errorf("keybinding override conflict in scope=%q: key %q used by both %q and %q", name, k, prev, b.Action)
				}
				owner[k] = b.Action
			}
		}
	}

	for tg, ks := range next {
		r.scopes[tg.scope].find(tg.action).Keys = ks
	}
	for _, t := range r.scopes {
		t.reindex()
	}
	return nil
}

// ExportConfig returns every binding in the override file format, sorted by
// scope then action.
func (r *Registry) ExportConfig() []BindingConfig {
	if r == nil {
		return nil
	}
	var out []BindingConfig
	for name, t := range r.scopes {
		for _, b := range t.bindings {
			out = append(out, BindingConfig{Scope: name, Action: string(b.Action), Keys: append([]string(nil), b.Keys...)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope != out[j].Scope {
			return out[i].Scope < out[j].Scope
		}
		return out[i].Action < out[j].Action
	})
	return out
}

func (t *scopeTable) find(a Action) *Binding {
	for _, b := range t.bindings {
		if b.Action == a {
			return b
		}
	}
	return nil
}

func (t *scopeTable) reindex() {
	t.byKey = make(map[string]*Binding)
	for _, b := range t.bindings {
		for _, k := range b.Keys {
			if _, ok := t.byKey[k]; !ok {
				t.byKey[k] = b
			}
		}
	}
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// keyAliases maps spellings found in hand-written files to the names
// bubbletea reports.
var keyAliases = strings.NewReplacer(
	"control+", "ctrl+",
	"ctl+", "ctrl+",
	"return", "enter",
	"spacebar", "space",
)

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(k), " ", ""))
	return keyAliases.Replace(s)
}
