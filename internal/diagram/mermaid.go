package diagram

import (
	"fmt"
	"strings"
)

// MermaidOptions controls Mermaid flowchart generation.
type MermaidOptions struct {
	IncludeInit bool // include %%{init:}%% directive (for standalone .mmd files)
}

// Mermaid produces a Mermaid flowchart for g, used by the web UI for the live
// in-browser view and offered as a download next to the PNG.
func Mermaid(g Graph, opts MermaidOptions) string {
	var b strings.Builder

	if opts.IncludeInit {
		b.WriteString(fmt.Sprintf("%%%%{init: {'theme': 'base', 'themeVariables': {'background': '%s', 'lineColor': '%s'}}}%%%%\n",
			g.Background, edgeColor(g)))
	}
	b.WriteString("flowchart " + g.RankDir)

	// Style definitions, one per role present in the graph.
	styled := map[Role]bool{}
	for _, n := range g.Nodes {
		if styled[n.Role] {
			continue
		}
		styled[n.Role] = true
		b.WriteString(fmt.Sprintf("\n    classDef %sStyle fill:%s,stroke:%s,color:%s,font-size:%dpx",
			n.Role, n.Fill, n.Fill, n.FontColor, n.FontSize))
	}

	// Nodes.
	for _, n := range g.Nodes {
		b.WriteString(fmt.Sprintf("\n    %s(\"%s\")", n.ID, SanitizeLabel(n.Label)))
	}

	// Edges.
	for _, e := range g.Edges {
		b.WriteString(fmt.Sprintf("\n    %s --> %s", e.From, e.To))
	}
	if len(g.Edges) > 0 {
		b.WriteString(fmt.Sprintf("\n    linkStyle default stroke:%s,stroke-width:%gpx", edgeColor(g), g.Edges[0].PenWidth))
	}

	// Style assignments.
	for _, n := range g.Nodes {
		b.WriteString(fmt.Sprintf("\n    class %s %sStyle", n.ID, n.Role))
	}

	return b.String()
}

// SanitizeLabel escapes characters that break a quoted Mermaid label.
func SanitizeLabel(s string) string {
	r := strings.NewReplacer(`"`, "#quot;", "\n", " ", "<", "#lt;", ">", "#gt;")
	return r.Replace(s)
}

func edgeColor(g Graph) string {
	if len(g.Edges) > 0 {
		return g.Edges[0].Color
	}
	return g.FontColor
}
