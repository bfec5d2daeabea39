package diagram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Layout constants for the built-in renderer, in pixels.
const (
	rasterMargin  = 24
	rasterPadX    = 14
	rasterPadY    = 9
	rasterRootPad = 5
	rasterGapX    = 28
	rasterGapY    = 64
	rasterCorner  = 8
	rasterArrow   = 8
	rasterSamples = 32
	rasterMaxSide = 8192
)

// RasterRenderer draws a layered top-to-bottom layout in pure Go: rounded
// boxes, curved edges with arrowheads, and labels in a fixed bitmap font.
// The font covers ASCII and Latin-1; labels in other scripts are rejected
// with a *RenderError rather than drawn as replacement boxes.
// Output depends only on the graph, so identical graphs give identical bytes.
type RasterRenderer struct {
	face    font.Face
	maxSide int
}

// NewRasterRenderer creates the built-in renderer.
func NewRasterRenderer() *RasterRenderer {
	return &RasterRenderer{face: basicfont.Face7x13, maxSide: rasterMaxSide}
}

func (r *RasterRenderer) Name() string { return KindBuiltin }

type box struct {
	x, y, w, h int
}

func (r *RasterRenderer) Render(ctx context.Context, g Graph) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}
	if len(g.Nodes) == 0 {
		return nil, r.fail(errors.New("graph has no nodes"))
	}

	bg, err := parseColor(g.Background)
	if err != nil {
		return nil, r.fail(fmt.Errorf("background: %w", err))
	}
	for _, n := range g.Nodes {
		if !utf8.ValidString(n.Label) || strings.TrimSpace(n.Label) == "" {
			return nil, r.fail(fmt.Errorf("node %s: invalid label %q", n.ID, n.Label))
		}
		if c, ok := r.missingGlyph(n.Label); ok {
			return nil, r.fail(fmt.Errorf("node %s: label %q uses %q, which the built-in font cannot draw", n.ID, n.Label, c))
		}
	}

	boxes, width, height := r.layout(g)
	if width > r.maxSide || height > r.maxSide {
		return nil, r.fail(fmt.Errorf("image %dx%d exceeds %d pixels per side", width, height, r.maxSide))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	// Edges first so boxes cover the curve ends.
	for _, e := range g.Edges {
		from, okFrom := boxes[e.From]
		to, okTo := boxes[e.To]
		if !okFrom || !okTo {
			return nil, r.fail(fmt.Errorf("edge %s->%s references an unknown node", e.From, e.To))
		}
		c, err := parseColor(e.Color)
		if err != nil {
			return nil, r.fail(fmt.Errorf("edge %s->%s: %w", e.From, e.To, err))
		}
		drawEdge(img, from, to, float32(e.PenWidth), c)
	}

	for _, n := range g.Nodes {
		fill, err := parseColor(n.Fill)
		if err != nil {
			return nil, r.fail(fmt.Errorf("node %s fill: %w", n.ID, err))
		}
		fc, err := parseColor(n.FontColor)
		if err != nil {
			return nil, r.fail(fmt.Errorf("node %s font: %w", n.ID, err))
		}
		b := boxes[n.ID]
		fillRoundedRect(img, b, rasterCorner, fill)
		r.drawLabel(img, b, n, fc)
	}

	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, r.fail(fmt.Errorf("encode png: %w", err))
	}
	out := buf.Bytes()
	if err := checkPNG(out); err != nil {
		return nil, r.fail(err)
	}
	return out, nil
}

// missingGlyph returns the first rune of label the face has no glyph for.
// basicfont substitutes U+FFFD for unknown runes and reports ok=false.
func (r *RasterRenderer) missingGlyph(label string) (rune, bool) {
	for _, c := range label {
		if unicode.IsSpace(c) {
			continue
		}
		if _, ok := r.face.GlyphAdvance(c); !ok {
			return c, true
		}
	}
	return 0, false
}

func (r *RasterRenderer) fail(err error) error {
	return &RenderError{Backend: r.Name(), Err: err}
}

// layout assigns a box to every node. Each subtree gets a horizontal band as
// wide as the wider of its own box and its children side by side; parents
// are centred over their band.
func (r *RasterRenderer) layout(g Graph) (map[string]box, int, int) {
	m := r.face.Metrics()
	textH := m.Ascent.Ceil() + m.Descent.Ceil()

	sizes := make(map[string]box, len(g.Nodes))
	rowH := 0
	for _, n := range g.Nodes {
		pad := 0
		if n.Role == RoleRoot {
			pad = rasterRootPad
		}
		w := font.MeasureString(r.face, n.Label).Ceil() + 2*(rasterPadX+pad)
		h := textH + 2*(rasterPadY+pad)
		sizes[n.ID] = box{w: w, h: h}
		rowH = max(rowH, h)
	}

	children := make(map[string][]string)
	for _, n := range g.Nodes {
		if n.Parent != "" {
			children[n.Parent] = append(children[n.Parent], n.ID)
		}
	}

	bands := make(map[string]int)
	var band func(id string) int
	band = func(id string) int {
		if w, ok := bands[id]; ok {
			return w
		}
		kids := children[id]
		total := 0
		for i, k := range kids {
			if i > 0 {
				total += rasterGapX
			}
			total += band(k)
		}
		w := max(sizes[id].w, total)
		bands[id] = w
		return w
	}

	boxes := make(map[string]box, len(g.Nodes))
	levels := 0
	var place func(id string, left, level int)
	place = func(id string, left, level int) {
		levels = max(levels, level+1)
		b := sizes[id]
		w := band(id)
		b.x = left + (w-b.w)/2
		b.y = rasterMargin + level*(rowH+rasterGapY) + (rowH-b.h)/2
		boxes[id] = b

		kids := children[id]
		total := 0
		for i, k := range kids {
			if i > 0 {
				total += rasterGapX
			}
			total += band(k)
		}
		x := left + (w-total)/2
		for _, k := range kids {
			place(k, x, level+1)
			x += band(k) + rasterGapX
		}
	}

	root := g.Root()
	place(root.ID, rasterMargin, 0)

	width := band(root.ID) + 2*rasterMargin
	height := 2*rasterMargin + levels*rowH + (levels-1)*rasterGapY
	return boxes, width, height
}

func (r *RasterRenderer) drawLabel(img *image.RGBA, b box, n Node, c color.Color) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(c), Face: r.face}
	textW := d.MeasureString(n.Label).Ceil()
	m := r.face.Metrics()
	textH := m.Ascent.Ceil() + m.Descent.Ceil()

	x := b.x + (b.w-textW)/2
	baseline := b.y + (b.h-textH)/2 + m.Ascent.Ceil()
	d.Dot = fixed.P(x, baseline)
	d.DrawString(n.Label)
	if n.Role == RoleRoot {
		// Poor man's bold for the larger root label.
		d.Dot = fixed.P(x+1, baseline)
		d.DrawString(n.Label)
	}
}

func fillRoundedRect(img *image.RGBA, b box, radius int, c color.Color) {
	bounds := img.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	x, y := float32(b.x), float32(b.y)
	w, h := float32(b.w), float32(b.h)
	rad := float32(min(radius, b.h/2, b.w/2))

	z.MoveTo(x+rad, y)
	z.LineTo(x+w-rad, y)
	z.QuadTo(x+w, y, x+w, y+rad)
	z.LineTo(x+w, y+h-rad)
	z.QuadTo(x+w, y+h, x+w-rad, y+h)
	z.LineTo(x+rad, y+h)
	z.QuadTo(x, y+h, x, y+h-rad)
	z.LineTo(x, y+rad)
	z.QuadTo(x, y, x+rad, y)
	z.ClosePath()
	z.Draw(img, bounds, image.NewUniform(c), image.Point{})
}

type point struct{ x, y float64 }

// drawEdge strokes a cubic curve from the bottom centre of from to just above
// the top centre of to, then adds an arrowhead pointing down into to.
func drawEdge(img *image.RGBA, from, to box, penWidth float32, c color.Color) {
	if penWidth <= 0 {
		penWidth = 1
	}
	p0 := point{float64(from.x) + float64(from.w)/2, float64(from.y + from.h)}
	p3 := point{float64(to.x) + float64(to.w)/2, float64(to.y - rasterArrow)}
	dy := (p3.y - p0.y) / 2
	p1 := point{p0.x, p0.y + dy}
	p2 := point{p3.x, p3.y - dy}

	half := float64(penWidth) / 2
	left := make([]point, 0, rasterSamples+1)
	right := make([]point, 0, rasterSamples+1)
	for i := 0; i <= rasterSamples; i++ {
		t := float64(i) / rasterSamples
		p := cubic(p0, p1, p2, p3, t)
		d := cubicDeriv(p0, p1, p2, p3, t)
		l := math.Hypot(d.x, d.y)
		if l == 0 {
			d, l = point{0, 1}, 1
		}
		nx, ny := -d.y/l*half, d.x/l*half
		left = append(left, point{p.x + nx, p.y + ny})
		right = append(right, point{p.x - nx, p.y - ny})
	}

	bounds := img.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.MoveTo(float32(left[0].x), float32(left[0].y))
	for _, p := range left[1:] {
		z.LineTo(float32(p.x), float32(p.y))
	}
	for i := len(right) - 1; i >= 0; i-- {
		z.LineTo(float32(right[i].x), float32(right[i].y))
	}
	z.ClosePath()

	tipX, tipY := float32(p3.x), float32(to.y)
	z.MoveTo(tipX, tipY)
	z.LineTo(tipX-rasterArrow/2, tipY-rasterArrow)
	z.LineTo(tipX+rasterArrow/2, tipY-rasterArrow)
	z.ClosePath()

	z.Draw(img, bounds, image.NewUniform(c), image.Point{})
}

func cubic(p0, p1, p2, p3 point, t float64) point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return point{
		a*p0.x + b*p1.x + c*p2.x + d*p3.x,
		a*p0.y + b*p1.y + c*p2.y + d*p3.y,
	}
}

func cubicDeriv(p0, p1, p2, p3 point, t float64) point {
	u := 1 - t
	a, b, c := 3*u*u, 6*u*t, 3*t*t
	return point{
		a*(p1.x-p0.x) + b*(p2.x-p1.x) + c*(p3.x-p2.x),
		a*(p1.y-p0.y) + b*(p2.y-p1.y) + c*(p3.y-p2.y),
	}
}

var namedColors = map[string]color.RGBA{
	"white": {0xff, 0xff, 0xff, 0xff},
	"black": {0x00, 0x00, 0x00, 0xff},
	"red":   {0xff, 0x00, 0x00, 0xff},
	"green": {0x00, 0x80, 0x00, 0xff},
	"blue":  {0x00, 0x00, 0xff, 0xff},
	"gray":  {0x80, 0x80, 0x80, 0xff},
}

// parseColor accepts #rgb, #rrggbb and the handful of names the themes use.
func parseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("unsupported colour %q", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("unsupported colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("unsupported colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
