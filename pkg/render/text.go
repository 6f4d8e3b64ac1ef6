package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/seesaw/pkg/balance"
	"github.com/matzehuels/seesaw/pkg/geometry"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

// MinTextWidth is the narrowest plank RenderText draws.
const MinTextWidth = 21

// rowAspect converts horizontal cells into rows when drawing the slope.
// Terminal cells are roughly twice as tall as wide; the extra flattening
// keeps a fully tilted plank within a few lines.
const rowAspect = 0.2

// maxSlope caps rows per column so steep angles stay within a few plank
// widths of output.
const maxSlope = 2.0

var (
	textLeft   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	textRight  = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	textCenter = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	textPlank  = lipgloss.NewStyle().Foreground(lipgloss.Color("130"))
	textDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	textTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
)

type cell struct {
	r     rune
	style lipgloss.Style
}

// RenderText draws the snapshot as a tilted ASCII plank width columns wide.
// Objects appear above the plank as their weight digit ('#' for 10 kg and
// more); the heaviest wins when two share a column. The TUI passes an eased
// angle through angle; pass snap.Balance.Angle for a static drawing.
func RenderText(snap simulation.Snapshot, plank geometry.Plank, width int) string {
	return RenderTextAngle(snap, plank, width, snap.Balance.Angle)
}

// RenderTextAngle is RenderText with the drawn tilt overridden by angle.
// Labels still report the snapshot's angle.
func RenderTextAngle(snap simulation.Snapshot, plank geometry.Plank, width int, angle float64) string {
	if width < MinTextWidth {
		width = MinTextWidth
	}
	center := (width - 1) / 2
	slope := math.Tan(angle*math.Pi/180) * rowAspect
	if math.IsNaN(slope) {
		slope = 0
	}
	slope = max(-maxSlope, min(maxSlope, slope))
	maxDrop := int(math.Ceil(math.Abs(slope) * float64(width-1-center)))

	// One row for objects above the highest plank cell, then the slope span,
	// then the fulcrum.
	base := maxDrop + 1
	rows := base + maxDrop + 2
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, width)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}

	drop := func(col int) int {
		return base + int(math.Round(slope*float64(col-center)))
	}

	for col := 0; col < width; col++ {
		grid[drop(col)][col] = cell{r: '=', style: textPlank}
	}
	grid[drop(center)+1][center] = cell{r: '^', style: textDim}

	heaviest := make(map[int]balance.Object)
	for _, o := range snap.Objects {
		col := Column(plank, o.Distance, width)
		if prev, ok := heaviest[col]; !ok || o.Weight > prev.Weight {
			heaviest[col] = o
		}
	}
	for col, o := range heaviest {
		grid[drop(col)-1][col] = cell{r: weightRune(o.Weight), style: sideStyle(o.Side())}
	}

	var b strings.Builder
	b.WriteString(textTitle.Render(tiltLabel(snap.Balance)))
	b.WriteByte('\n')
	for _, row := range grid {
		line := renderRow(row)
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	b.WriteString(footer(snap.Balance, width))
	return b.String()
}

// Column maps a pivot distance onto a text column in [0, width).
func Column(plank geometry.Plank, distance float64, width int) int {
	x := plank.Scale(plank.Offset(distance), float64(width-1))
	col := int(math.Round(x))
	return max(0, min(width-1, col))
}

func renderRow(row []cell) string {
	var b strings.Builder
	for _, c := range row {
		if c.r == ' ' {
			b.WriteRune(' ')
			continue
		}
		b.WriteString(c.style.Render(string(c.r)))
	}
	return b.String()
}

func weightRune(w float64) rune {
	n := int(math.Round(w))
	switch {
	case n >= 10:
		return '#'
	case n < 1:
		return '.'
	}
	return rune('0' + n)
}

func sideStyle(s balance.Side) lipgloss.Style {
	switch s {
	case balance.Left:
		return textLeft
	case balance.Right:
		return textRight
	}
	return textCenter
}

func tiltLabel(r balance.Result) string {
	return fmt.Sprintf("Tilt %+.1f° (%s)", r.Angle, r.Tilt())
}

func footer(r balance.Result, width int) string {
	left := textLeft.Render(fmt.Sprintf("Left %s kg (%d)", formatKg(r.LeftWeight), r.LeftCount))
	right := textRight.Render(fmt.Sprintf("Right %s kg (%d)", formatKg(r.RightWeight), r.RightCount))
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}
