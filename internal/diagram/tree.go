package diagram

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olehluchkiv/gosummary/internal/mindmap"
)

// Tree renders the hierarchy as an indented terminal tree, colouring each
// tier with the theme's fill for that tier.
func Tree(h mindmap.Hierarchy, theme mindmap.Theme) string {
	rootStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.RootFill))
	mainStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.MainFill))
	subStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.SubFill))

	var b strings.Builder
	b.WriteString(rootStyle.Render(h.Root))
	for i, t := range h.Topics {
		last := i == len(h.Topics)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		b.WriteString("\n" + branch + mainStyle.Render(t.Label))
		for j, s := range t.Subtopics {
			leaf := "├── "
			if j == len(t.Subtopics)-1 {
				leaf = "└── "
			}
			b.WriteString("\n" + indent + leaf + subStyle.Render(s))
		}
	}
	return b.String()
}
