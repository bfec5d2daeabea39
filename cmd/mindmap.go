package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/gosummary/internal/diagram"
	"github.com/olehluchkiv/gosummary/internal/keywords"
	"github.com/olehluchkiv/gosummary/internal/mindmap"
	"github.com/olehluchkiv/gosummary/internal/pipeline"
)

var mindmapFlags struct {
	out         string
	mermaid     string
	dark        bool
	maxKeywords int
	renderer    string
	timestamp   string
	tree        bool
}

func newMindmapCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "mindmap [file]",
		Short: "Draw a keyword mindmap PNG from a text file or stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMindmap,
	}
	c.Flags().StringVarP(&mindmapFlags.out, "out", "o", "", "output PNG path (default mindmap[_TIMESTAMP].png)")
	c.Flags().StringVar(&mindmapFlags.mermaid, "mermaid", "", "also write the Mermaid source to this path")
	c.Flags().BoolVar(&mindmapFlags.dark, "dark", false, "use the dark theme")
	c.Flags().IntVarP(&mindmapFlags.maxKeywords, "max-keywords", "k", keywords.DefaultMaxKeywords, "number of keywords to extract")
	c.Flags().StringVar(&mindmapFlags.renderer, "renderer", diagram.KindAuto, "renderer (auto, graphviz, builtin)")
	c.Flags().StringVar(&mindmapFlags.timestamp, "timestamp", "", "timestamp used in the default file name")
	c.Flags().BoolVar(&mindmapFlags.tree, "tree", false, "print the hierarchy as a tree")
	return c
}

func runMindmap(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("no input text")
	}
	if !mindmap.ValidTimestamp(mindmapFlags.timestamp) {
		return fmt.Errorf("invalid --timestamp %q: use digits and underscores, e.g. %s",
			mindmapFlags.timestamp, mindmap.TimestampLayout)
	}

	r, err := diagram.NewRenderer(mindmapFlags.renderer, logger)
	if err != nil {
		return err
	}
	gen := pipeline.New(r, pipeline.Config{MaxKeywords: mindmapFlags.maxKeywords}, logger)

	res, err := gen.Generate(cmd.Context(), pipeline.Request{
		Text:      text,
		Dark:      mindmapFlags.dark,
		Timestamp: mindmapFlags.timestamp,
	})
	if mindmapFlags.tree {
		fmt.Fprintln(cmd.OutOrStdout(), diagram.Tree(res.Hierarchy, mindmap.ThemeFor(mindmapFlags.dark)))
	}
	if mindmapFlags.mermaid != "" {
		src := diagram.Mermaid(res.Graph, diagram.MermaidOptions{IncludeInit: true})
		if werr := os.WriteFile(mindmapFlags.mermaid, []byte(src), 0o644); werr != nil {
			return fmt.Errorf("writing mermaid file: %w", werr)
		}
	}
	if err != nil {
		return fmt.Errorf("%w\n%s", err, pipeline.FailureHint)
	}

	out := mindmapFlags.out
	if out == "" {
		out = res.Image.FileName
	}
	if err := os.WriteFile(out, res.Image.PNG, 0o644); err != nil {
		return fmt.Errorf("writing mindmap: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Mindmap written to %s (%s)\n", out, strings.Join(res.Ranking.Terms(), ", "))
	return nil
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}
