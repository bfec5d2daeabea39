package mindmap

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/gosummary/internal/keywords"
)

func rankingOf(terms ...string) keywords.Ranking {
	r := keywords.Ranking{Method: keywords.MethodTFIDF}
	for i, term := range terms {
		r.Keywords = append(r.Keywords, keywords.Keyword{Term: term, Count: 1, First: i})
	}
	return r
}

func TestBuild_EmptyRanking(t *testing.T) {
	h := Build(keywords.Ranking{})
	assert.Equal(t, PlaceholderRoot, h.Root)
	assert.Empty(t, h.Topics)
	assert.Empty(t, h.Edges())
	assert.Equal(t, 1, h.Size())
}

func TestBuild_RootOnly(t *testing.T) {
	h := Build(rankingOf("go"))
	assert.Equal(t, "go", h.Root)
	assert.Empty(t, h.Topics)
}

func TestBuild_OneMainTopic(t *testing.T) {
	h := Build(rankingOf("go", "channels"))
	require.Len(t, h.Topics, 1)
	assert.Equal(t, "channels", h.Topics[0].Label)
	assert.Empty(t, h.Topics[0].Subtopics)
}

func TestBuild_TwoMainTopicsNoSubtopics(t *testing.T) {
	h := Build(rankingOf("go", "channels", "goroutines"))
	assert.Equal(t, []string{"channels", "goroutines"}, h.Children("go"))
	assert.Empty(t, h.Children("channels"))
	assert.Empty(t, h.Children("goroutines"))
}

func TestBuild_StoreScenario(t *testing.T) {
	h := Build(rankingOf("store", "data", "pipeline", "cache", "network"))
	assert.Equal(t, "store", h.Root)
	assert.Equal(t, []string{"data", "pipeline"}, h.Children("store"))
	assert.Equal(t, []string{"cache"}, h.Children("data"))
	assert.Equal(t, []string{"network"}, h.Children("pipeline"))
	assert.Equal(t, []Edge{
		{Parent: "store", Child: "data"},
		{Parent: "store", Child: "pipeline"},
		{Parent: "data", Child: "cache"},
		{Parent: "pipeline", Child: "network"},
	}, h.Edges())
}

func TestBuild_OddSubtopicsGoLowerHalfFirst(t *testing.T) {
	h := Build(rankingOf("r", "m1", "m2", "a", "b", "c"))
	assert.Equal(t, []string{"a"}, h.Children("m1"))
	assert.Equal(t, []string{"b", "c"}, h.Children("m2"))
}

func TestBuild_PartitionProperty(t *testing.T) {
	for n := 4; n <= 12; n++ {
		terms := make([]string, n)
		for i := range terms {
			terms[i] = fmt.Sprintf("kw%d", i)
		}
		h := Build(rankingOf(terms...))
		require.Len(t, h.Topics, 2)

		subs := terms[3:]
		k := len(subs)
		left, right := h.Topics[0].Subtopics, h.Topics[1].Subtopics
		assert.Len(t, left, k/2, "n=%d", n)
		assert.Len(t, right, k-k/2, "n=%d", n)
		assert.Equal(t, subs, append(append([]string{}, left...), right...))

		// Every non-root keyword has exactly one parent.
		parents := map[string]int{}
		for _, e := range h.Edges() {
			parents[e.Child]++
		}
		assert.Len(t, parents, n-1)
		for child, c := range parents {
			assert.Equal(t, 1, c, child)
		}
		assert.Equal(t, n, h.Size())
	}
}

func TestBuild_DoesNotAliasRanking(t *testing.T) {
	r := rankingOf("r", "m1", "m2", "a", "b")
	h := Build(r)
	h.Topics[0].Subtopics[0] = "changed"
	assert.Equal(t, "a", r.Keywords[3].Term)
}

func TestChildren_UnknownLabel(t *testing.T) {
	h := Build(rankingOf("r", "m1", "m2"))
	assert.Nil(t, h.Children("nope"))
}

func TestThemes(t *testing.T) {
	dark := ThemeFor(true)
	light := ThemeFor(false)
	assert.True(t, dark.Dark())
	assert.False(t, light.Dark())
	assert.Equal(t, "#121212", dark.Background)
	assert.Equal(t, "#4B0082", light.RootFill)

	parsed, err := ParseTheme(" DARK ")
	require.NoError(t, err)
	assert.Equal(t, dark, parsed)

	_, err = ParseTheme("sepia")
	require.Error(t, err)
}

func TestFileNameAndDataURI(t *testing.T) {
	assert.Equal(t, "mindmap.png", FileName(""))
	assert.Equal(t, "mindmap_20261017_101500.png", FileName("20261017_101500"))

	r := Rendered{PNG: []byte{0x89, 'P', 'N', 'G'}}
	assert.True(t, strings.HasPrefix(r.DataURI(), "data:image/png;base64,"))
}

func TestValidTimestamp(t *testing.T) {
	for _, ts := range []string{"", "20261017_101500", "42"} {
		assert.True(t, ValidTimestamp(ts), ts)
	}
	for _, ts := range []string{"../x", "a/b", "2026-10-17", "20261017_1015000", "..", "x"} {
		assert.False(t, ValidTimestamp(ts), ts)
	}
}
