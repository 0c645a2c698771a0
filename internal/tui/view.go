package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/shapearea/internal/dropdown"
	"github.com/jask/shapearea/internal/keys"
)

const (
	appTitle     = "Shape Area Calculator"
	shapePrompt  = "Choose a shape"
	computeLabel = "Calculate"
)

func (a *App) View() string {
	if a.closed {
		return ""
	}
	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n\n")

	cur := a.focused()

	shapeText := a.shapes.SelectedLabel()
	if shapeText == "" {
		shapeText = placeholderStyle.Render(shapePrompt)
	}
	b.WriteString(a.renderRow("Shape", a.zones.Mark(zoneShape, renderPicker(shapeText, cur.kind == focusShape, a.shapes.IsOpen()))))
	b.WriteString("\n")
	if a.shapes.IsOpen() {
		b.WriteString(indent(a.zones.Mark(zoneShapeList, renderOptions(a, zoneShape, a.shapes))))
		b.WriteString("\n")
	}

	for i, f := range a.snap.Fields {
		if i >= len(a.inputs) {
			break
		}
		box := pickerStyle
		if cur.kind == focusField && cur.field == i {
			box = pickerFocusStyle
		}
		input := a.zones.Mark(fieldZone(f.Name), box.Render(a.inputs[i].View()))
		b.WriteString(a.renderRow(f.Label, lipgloss.JoinHorizontal(lipgloss.Center, input, unitSuffixStyle.Render(a.snap.Unit))))
		b.WriteString("\n")
	}

	b.WriteString(a.renderRow("Unit", a.zones.Mark(zoneUnit, renderPicker(a.units.SelectedLabel(), cur.kind == focusUnit, a.units.IsOpen()))))
	b.WriteString("\n")
	if a.units.IsOpen() {
		b.WriteString(indent(a.zones.Mark(zoneUnitList, renderOptions(a, zoneUnit, a.units))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(indent(a.zones.Mark(zoneCompute, a.renderButton(cur.kind == focusCompute))))
	b.WriteString("\n\n")

	if line := a.snap.FormattedResult(); line != "" {
		b.WriteString(indent(resultStyle.Render("Area: " + line)))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(indent(statusStyle.Render(a.status)))
		b.WriteString("\n")
	}
	if a.cfgErr != nil {
		b.WriteString(indent(errorStyle.Render("could not save preferences: " + a.cfgErr.Error())))
		b.WriteString("\n")
	}

	b.WriteString(separator(a.width))
	b.WriteString("\n")
	b.WriteString(a.renderFooter(a.keys.HelpBindings(a.scope())))
	return a.zones.Scan(b.String())
}

func (a *App) renderHeader() string {
	title := appTitle
	if a.width > 0 {
		title = ansi.Truncate(title, a.width-4, "…")
		return headerBarStyle.Width(a.width).Render(title)
	}
	return headerBarStyle.Render(title)
}

func (a *App) renderRow(label, content string) string {
	return lipgloss.JoinHorizontal(lipgloss.Center, "  "+labelStyle.Render(label), content)
}

func (a *App) renderButton(focused bool) string {
	switch {
	case !a.snap.Complete:
		return buttonDisabledStyle.Render(computeLabel)
	case focused:
		return buttonFocusStyle.Render(computeLabel)
	default:
		return buttonStyle.Render(computeLabel)
	}
}

func renderPicker(text string, focused, open bool) string {
	arrow := "▾"
	if open {
		arrow = "▴"
	}
	style := pickerStyle
	if focused || open {
		style = pickerFocusStyle
	}
	return style.Render(text + " " + arrow)
}

// renderOptions draws the open list. Each option is its own zone so a click
// can select it.
func renderOptions[K comparable](a *App, name string, c *dropdown.Controller[K]) string {
	st := c.State()
	visible := c.Visible()
	lines := make([]string, 0, len(visible)+1)
	if st.Query != "" {
		lines = append(lines, queryStyle.Render("filter: "+st.Query))
	}
	if len(visible) == 0 {
		lines = append(lines, placeholderStyle.Render("no matches"))
	}
	for i, o := range visible {
		prefix := "  "
		style := optionStyle
		if st.HasSelection && o.Value == st.Selected {
			style = optionChosenStyle
		}
		if i == st.Cursor {
			prefix = "› "
			style = optionCursorStyle
		}
		lines = append(lines, a.zones.Mark(optionZone(name, i), style.Render(prefix+o.Label)))
	}
	return listStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderFooter(bindings []key.Binding) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	for _, binding := range a.keys.HelpBindings(keys.ScopeGlobal) {
		help := binding.Help()
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)
	if a.width <= 0 {
		return footerStyle.Render(content)
	}
	content = ansi.Truncate(content, a.width-4, "…")
	return footerStyle.Width(a.width).Render(content)
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	pad := strings.Repeat(" ", 12)
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func separator(width int) string {
	if width <= 0 {
		width = 40
	}
	return sepStyle.Render(strings.Repeat("─", width))
}
