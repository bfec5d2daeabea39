// Package diagram turns a mindmap hierarchy into a styled directed graph and
// renders it as DOT, Mermaid, a terminal tree, or a PNG image.
package diagram

import (
	"fmt"

	"github.com/olehluchkiv/gosummary/internal/mindmap"
)

// Role is a node's tier in the mindmap.
type Role int

const (
	RoleRoot Role = iota
	RoleMain
	RoleSub
)

func (r Role) String() string {
	switch r {
	case RoleRoot:
		return "root"
	case RoleMain:
		return "main"
	case RoleSub:
		return "sub"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Node is a styled graph vertex.
type Node struct {
	ID        string
	Label     string
	Role      Role
	Parent    string // parent node ID, empty for the root
	Fill      string
	FontColor string
	FontSize  int
}

// Edge is a styled parent→child link between node IDs.
type Edge struct {
	From     string
	To       string
	Color    string
	PenWidth float64
}

// Graph is the render-ready description of a mindmap.
type Graph struct {
	Nodes      []Node
	Edges      []Edge
	Background string
	FontColor  string
	RankDir    string
	Splines    string
}

const (
	rootFontSize    = 16
	defaultFontSize = 14
	edgePenWidth    = 1.5
)

// Build constructs the graph for h styled with theme. The root is always
// present, so an empty hierarchy yields a single node. Node order is root,
// main topics, then each main topic's sub-topics; IDs follow that order.
func Build(h mindmap.Hierarchy, theme mindmap.Theme) Graph {
	g := Graph{
		Background: theme.Background,
		FontColor:  theme.Font,
		RankDir:    "TB",
		Splines:    "curved",
	}

	ids := make(map[string]string)
	add := func(label string, role Role, parentID string) string {
		if id, ok := ids[label]; ok {
			return id
		}
		n := Node{
			ID:        fmt.Sprintf("n%d", len(g.Nodes)),
			Label:     label,
			Role:      role,
			Parent:    parentID,
			FontColor: theme.NodeFont,
			FontSize:  defaultFontSize,
		}
		switch role {
		case RoleRoot:
			n.Fill = theme.RootFill
			n.FontSize = rootFontSize
		case RoleMain:
			n.Fill = theme.MainFill
		default:
			n.Fill = theme.SubFill
		}
		ids[label] = n.ID
		g.Nodes = append(g.Nodes, n)
		return n.ID
	}

	rootID := add(h.Root, RoleRoot, "")
	topicIDs := make([]string, len(h.Topics))
	for i, t := range h.Topics {
		topicIDs[i] = add(t.Label, RoleMain, rootID)
		g.Edges = append(g.Edges, Edge{From: rootID, To: topicIDs[i], Color: theme.Edge, PenWidth: edgePenWidth})
	}
	for i, t := range h.Topics {
		for _, s := range t.Subtopics {
			id := add(s, RoleSub, topicIDs[i])
			g.Edges = append(g.Edges, Edge{From: topicIDs[i], To: id, Color: theme.Edge, PenWidth: edgePenWidth})
		}
	}
	return g
}

// Node looks up a node by ID.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Children returns the nodes whose parent is id, in graph order.
func (g Graph) Children(id string) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Parent == id && n.Role != RoleRoot {
			out = append(out, n)
		}
	}
	return out
}

// Root returns the root node. Build always creates one.
func (g Graph) Root() Node {
	for _, n := range g.Nodes {
		if n.Role == RoleRoot {
			return n
		}
	}
	return Node{}
}
