package diagram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	defaultDotBinary = "dot"
	waitDelay        = 500 * time.Millisecond
)

// GraphvizRenderer pipes DOT through the Graphviz dot binary.
type GraphvizRenderer struct {
	binary string
	logger *slog.Logger
}

// NewGraphvizRenderer creates a renderer that runs binary (default "dot").
func NewGraphvizRenderer(binary string, logger *slog.Logger) *GraphvizRenderer {
	if binary == "" {
		binary = defaultDotBinary
	}
	return &GraphvizRenderer{
		binary: binary,
		logger: logger.With("component", "renderer.graphviz"),
	}
}

func (r *GraphvizRenderer) Name() string { return KindGraphviz }

// Render runs dot -Tpng. The process is killed when ctx ends.
func (r *GraphvizRenderer) Render(ctx context.Context, g Graph) ([]byte, error) {
	src := DOT(g)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, "-Tpng")
	cmd.Stdin = strings.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// dot may leave children holding the pipes; stop waiting shortly after a kill.
	cmd.WaitDelay = waitDelay

	r.logger.Debug("running graphviz", "binary", r.binary, "nodes", len(g.Nodes), "edges", len(g.Edges))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &RenderError{Backend: r.Name(), Err: fmt.Errorf("dot: %w", ctxErr)}
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			err = fmt.Errorf("graphviz unavailable: %w", err)
		}
		return nil, &RenderError{Backend: r.Name(), Err: err}
	}

	out := stdout.Bytes()
	if err := checkPNG(out); err != nil {
		return nil, &RenderError{Backend: r.Name(), Err: err}
	}
	return out, nil
}
