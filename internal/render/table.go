// pattern: Functional Core

package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"devloy/internal/resolver"
)

const noValue = "-"

// Table renders the registry as a bordered table, root first.
// With plain set, escape sequences are removed so the output is safe to pipe.
func Table(reg *resolver.Registry, styles *Styles, plain bool) string {
	if reg == nil || reg.Len() == 0 {
		msg := styles.WarnStyle().Render("no projects resolved")
		if plain {
			return ansi.Strip(msg) + "\n"
		}
		return msg + "\n"
	}

	projects := reg.Projects()
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		suffix := p.Suffix
		if suffix == "" {
			suffix = noValue
		}
		rows = append(rows, []string{p.Name, suffix, p.Path, p.MountBase})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.BorderStyle()).
		Headers("Project", "Suffix", "Path", "Mount base").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styles.HeaderStyle()
			case row == 0 && col == 0:
				return styles.RootStyle()
			case col == 1 && rows[row][1] == noValue:
				return styles.DimStyle()
			case col == 1:
				return styles.SuffixStyle()
			case col == 3:
				return styles.DimStyle()
			}
			return styles.CellStyle()
		})

	out := t.Render()
	if plain {
		out = ansi.Strip(out)
	}
	return out + "\n"
}

// Lines renders one "name path" line per project, for scripts.
func Lines(reg *resolver.Registry) string {
	var sb strings.Builder
	for _, p := range reg.Projects() {
		sb.WriteString(p.Name)
		sb.WriteByte(' ')
		sb.WriteString(p.Path)
		sb.WriteByte('\n')
	}
	return sb.String()
}
