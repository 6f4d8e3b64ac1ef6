package render

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"slices"

	"github.com/matzehuels/seesaw/pkg/balance"
	"github.com/matzehuels/seesaw/pkg/geometry"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

const (
	svgMargin     = 60.0
	svgHeight     = 320.0
	plankY        = 200.0
	plankHeight   = 12.0
	fulcrumHeight = 50.0
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	plank  geometry.Plank
	params balance.Params
	labels bool
	ids    bool
	colors Palette
}

// Palette holds the fill colours used by the SVG renderer.
type Palette struct {
	Plank   string
	Fulcrum string
	Left    string
	Right   string
	Center  string
	Text    string
}

// DefaultPalette matches the terminal colours of the CLI.
func DefaultPalette() Palette {
	return Palette{
		Plank:   "#8B5A2B",
		Fulcrum: "#555555",
		Left:    "#00AFFF",
		Right:   "#FF5F87",
		Center:  "#AAAAAA",
		Text:    "#333333",
	}
}

func WithPlank(p geometry.Plank) SVGOption  { return func(r *svgRenderer) { r.plank = p } }
func WithParams(p balance.Params) SVGOption { return func(r *svgRenderer) { r.params = p } }
func WithoutLabels() SVGOption              { return func(r *svgRenderer) { r.labels = false } }
func WithObjectIDs() SVGOption              { return func(r *svgRenderer) { r.ids = true } }
func WithPalette(p Palette) SVGOption       { return func(r *svgRenderer) { r.colors = p } }

// RenderSVG draws the snapshot as a standalone SVG document. Positive angles
// rotate clockwise, so the right end goes down.
func RenderSVG(snap simulation.Snapshot, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	length := r.plank.Length
	width := length + 2*svgMargin
	pivotX := svgMargin + r.plank.Pivot()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, svgHeight, width, svgHeight)

	renderFulcrum(&buf, pivotX, r.colors.Fulcrum)

	fmt.Fprintf(&buf, `  <g id="plank" transform="rotate(%.2f %.1f %.1f)">`+"\n", snap.Balance.Angle, pivotX, plankY)
	fmt.Fprintf(&buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s"/>`+"\n",
		svgMargin, plankY-plankHeight, length, plankHeight, r.colors.Plank)
	for _, o := range sortedObjects(snap.Objects) {
		r.renderObject(&buf, o)
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		r.renderLabels(&buf, snap.Balance, width)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		plank:  geometry.NewPlank(geometry.DefaultPlankLength),
		params: balance.DefaultParams(),
		labels: true,
		colors: DefaultPalette(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// sortedObjects orders heavy objects first so light ones are drawn on top.
func sortedObjects(objs []balance.Object) []balance.Object {
	out := slices.Clone(objs)
	slices.SortStableFunc(out, func(a, b balance.Object) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	return out
}

// Radius grows with weight: 1 kg is 8px, 10 kg is 21.5px.
func Radius(weight float64) float64 {
	return 6.5 + 1.5*weight
}

func (r *svgRenderer) renderObject(buf *bytes.Buffer, o balance.Object) {
	cx := svgMargin + r.plank.Offset(o.Distance)
	rad := Radius(o.Weight)
	cy := plankY - plankHeight - rad

	fmt.Fprintf(buf, `    <circle class="object" id="object-%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
		html.EscapeString(o.ID), cx, cy, rad, r.sideColor(o.Side()))
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="10" fill="#FFFFFF">%s</text>`+"\n",
		cx, cy, formatKg(o.Weight))
	if r.ids {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-family="monospace" font-size="8" fill="%s">%s</text>`+"\n",
			cx, cy-rad-4, r.colors.Text, html.EscapeString(o.ID))
	}
}

func (r *svgRenderer) sideColor(s balance.Side) string {
	switch s {
	case balance.Left:
		return r.colors.Left
	case balance.Right:
		return r.colors.Right
	}
	return r.colors.Center
}

func renderFulcrum(buf *bytes.Buffer, pivotX float64, fill string) {
	half := fulcrumHeight * 0.6
	fmt.Fprintf(buf, `  <polygon id="fulcrum" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`+"\n",
		pivotX, plankY, pivotX-half, plankY+fulcrumHeight, pivotX+half, plankY+fulcrumHeight, fill)
}

func (r *svgRenderer) renderLabels(buf *bytes.Buffer, res balance.Result, width float64) {
	y := svgHeight - 24
	fmt.Fprintf(buf, `  <text id="left-total" x="%.1f" y="%.1f" font-family="sans-serif" font-size="14" fill="%s">Left: %s kg (%d)</text>`+"\n",
		svgMargin, y, r.colors.Left, formatKg(res.LeftWeight), res.LeftCount)
	fmt.Fprintf(buf, `  <text id="right-total" x="%.1f" y="%.1f" text-anchor="end" font-family="sans-serif" font-size="14" fill="%s">Right: %s kg (%d)</text>`+"\n",
		width-svgMargin, y, r.colors.Right, formatKg(res.RightWeight), res.RightCount)

	angle := fmt.Sprintf("%.1f°", res.Angle)
	if res.Saturated(r.params) {
		angle += " (max)"
	}
	fmt.Fprintf(buf, `  <text id="angle" x="%.1f" y="32" text-anchor="middle" font-family="sans-serif" font-size="16" fill="%s">Tilt: %s</text>`+"\n",
		width/2, r.colors.Text, angle)
}

// formatKg prints whole kilograms without decimals.
func formatKg(w float64) string {
	if w == float64(int64(w)) {
		return fmt.Sprintf("%d", int64(w))
	}
	return fmt.Sprintf("%.1f", w)
}
