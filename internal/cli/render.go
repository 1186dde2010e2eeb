package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7"))
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#20B9B4"))
	styleMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54"))
)

// RenderText renders the report for a terminal.
//
// Layout is fixed: value first, one line per leaf in lexical order, then the
// graph fingerprint. Only styling is non-semantic.
func (r *Report) RenderText() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("value: %g", r.Value)))
	b.WriteString("\n")

	for _, g := range r.Gradients {
		b.WriteString(fmt.Sprintf("%s %g\t(value %g)\n",
			styleLabel.Render("grad "+g.Name+" ="), g.Grad, g.Value))
	}

	b.WriteString(styleMuted.Render("graph " + r.Fingerprint))
	b.WriteString("\n")
	return b.String()
}
