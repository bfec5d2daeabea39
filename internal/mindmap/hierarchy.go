// Package mindmap arranges ranked keywords into a two-level tree and holds the
// colour themes and output type of a rendered mindmap.
package mindmap

import "github.com/olehluchkiv/gosummary/internal/keywords"

// PlaceholderRoot labels the root when there are no keywords.
const PlaceholderRoot = "Mindmap"

// maxMainTopics is the number of keywords placed directly under the root.
const maxMainTopics = 2

// Topic is a main topic and the sub-topics it owns.
type Topic struct {
	Label     string   `json:"label"`
	Subtopics []string `json:"subtopics"`
}

// Hierarchy is a tree of depth at most two: Root, its main topics, and each
// main topic's sub-topics.
type Hierarchy struct {
	Root   string  `json:"root"`
	Topics []Topic `json:"topics"`
}

// Edge is one parent→child link of the hierarchy.
type Edge struct {
	Parent string
	Child  string
}

// Build arranges a ranking into a hierarchy. The first keyword is the root,
// the next two are main topics, and the rest are split at the midpoint
// between the two main topics (lower half to the first). Sub-topics are only
// placed when there are two main topics.
func Build(r keywords.Ranking) Hierarchy {
	terms := r.Terms()
	if len(terms) == 0 {
		return Hierarchy{Root: PlaceholderRoot}
	}

	h := Hierarchy{Root: terms[0]}

	rest := terms[1:]
	n := min(len(rest), maxMainTopics)
	for _, label := range rest[:n] {
		h.Topics = append(h.Topics, Topic{Label: label})
	}

	subs := rest[n:]
	if len(h.Topics) == maxMainTopics && len(subs) > 0 {
		mid := len(subs) / 2
		h.Topics[0].Subtopics = append([]string(nil), subs[:mid]...)
		h.Topics[1].Subtopics = append([]string(nil), subs[mid:]...)
	}
	return h
}

// Children returns the ordered children of parent, or nil for a leaf or an
// unknown label.
func (h Hierarchy) Children(parent string) []string {
	if parent == h.Root {
		out := make([]string, 0, len(h.Topics))
		for _, t := range h.Topics {
			out = append(out, t.Label)
		}
		return out
	}
	for _, t := range h.Topics {
		if t.Label == parent {
			return t.Subtopics
		}
	}
	return nil
}

// Edges lists parent→child pairs: root edges first, then each main topic's.
func (h Hierarchy) Edges() []Edge {
	var edges []Edge
	for _, t := range h.Topics {
		edges = append(edges, Edge{Parent: h.Root, Child: t.Label})
	}
	for _, t := range h.Topics {
		for _, s := range t.Subtopics {
			edges = append(edges, Edge{Parent: t.Label, Child: s})
		}
	}
	return edges
}

// Size counts every node, root included.
func (h Hierarchy) Size() int {
	n := 1 + len(h.Topics)
	for _, t := range h.Topics {
		n += len(t.Subtopics)
	}
	return n
}
