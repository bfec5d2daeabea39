package diagram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Renderer rasterizes a graph to PNG bytes.
type Renderer interface {
	Name() string
	Render(ctx context.Context, g Graph) ([]byte, error)
}

// RenderError reports that a backend could not produce an image. Callers get
// either a complete PNG or a *RenderError, never both.
type RenderError struct {
	Backend string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render mindmap (%s): %v", e.Backend, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsRenderError reports whether err is, or wraps, a *RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}

// Renderer kinds accepted by NewRenderer.
const (
	KindAuto     = "auto"
	KindGraphviz = "graphviz"
	KindBuiltin  = "builtin"
)

// NewRenderer picks a backend by kind. "auto" uses Graphviz when the dot
// binary is on PATH and falls back to the built-in rasterizer otherwise.
func NewRenderer(kind string, logger *slog.Logger) (Renderer, error) {
	switch strings.ToLower(kind) {
	case KindGraphviz:
		return NewGraphvizRenderer("", logger), nil
	case KindBuiltin:
		return NewRasterRenderer(), nil
	case KindAuto, "":
		if path, err := exec.LookPath(defaultDotBinary); err == nil {
			logger.Info("using graphviz renderer", "binary", path)
			return NewGraphvizRenderer(path, logger), nil
		}
		logger.Info("graphviz not found, using built-in renderer")
		return NewRasterRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q (valid: auto, graphviz, builtin)", kind)
	}
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// checkPNG rejects empty or truncated output so a broken backend cannot hand
// back a corrupt image.
func checkPNG(data []byte) error {
	if len(data) == 0 {
		return errors.New("backend produced no output")
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return errors.New("backend output is not a PNG image")
	}
	return nil
}
