package diagram

import (
	"fmt"
	"strconv"
	"strings"
)

// DOT produces a Graphviz digraph for g. Layout follows the graph attributes:
// top-to-bottom ranks, curved splines and merged parallel edges.
func DOT(g Graph) string {
	var b strings.Builder

	b.WriteString("digraph mindmap {\n")
	fmt.Fprintf(&b, "    graph [bgcolor=%s, fontcolor=%s, rankdir=%s, splines=%s, concentrate=true];\n",
		quote(g.Background), quote(g.FontColor), quote(g.RankDir), quote(g.Splines))
	b.WriteString("    node [shape=box, style=\"filled,rounded\"];\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "    %s [label=%s, fillcolor=%s, fontcolor=%s, fontsize=%s];\n",
			n.ID, quote(n.Label), quote(n.Fill), quote(n.FontColor), quote(strconv.Itoa(n.FontSize)))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "    %s -> %s [color=%s, penwidth=%s];\n",
			e.From, e.To, quote(e.Color), quote(strconv.FormatFloat(e.PenWidth, 'f', -1, 64)))
	}

	b.WriteString("}\n")
	return b.String()
}

// quote renders s as a DOT double-quoted string.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")
	return `"` + r.Replace(s) + `"`
}
