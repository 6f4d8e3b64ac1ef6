package cli

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/spf13/cobra"

	seesawerrors "github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/geometry"
	"github.com/matzehuels/seesaw/pkg/render"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

const (
	playFPS       = 60
	playMargin    = 2
	playMaxWidth  = 101
	playStep      = 5
	springFreq    = 6.0
	springDamping = 0.35
	settleEpsilon = 0.01

	// playGridTop is the first screen row of the drawn plank: below the
	// header, a blank line, the tilt label and the marker.
	playGridTop = 4
)

// playCommand creates the interactive play command.
func (c *CLI) playCommand() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Drop objects interactively in the terminal",
		Long: `Open an interactive seesaw. Move the marker with the arrow keys (or h/l,
H/L for bigger steps) and press space to drop an object, or click on the
plank. r resets, q quits. Every change is saved like with the other commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			// Log lines would tear the alternate screen; show them afterwards.
			var logs bytes.Buffer
			c.Logger.SetOutput(&logs)
			p := tea.NewProgram(newPlayModel(ctx, sess.ctrl, width),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx))
			final, err := p.Run()
			c.Logger.SetOutput(os.Stderr)
			os.Stderr.Write(logs.Bytes())
			if err != nil {
				return err
			}

			if m, ok := final.(playModel); ok {
				n := len(m.ctrl.State().Objects)
				printSuccess("%d object%s on the plank", n, plural(n))
				printBalance(m.ctrl.Balance(), m.ctrl.Params())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "plank width in columns (default: fit the terminal)")

	return cmd
}

// =============================================================================
// playModel - Interactive seesaw
// =============================================================================

// frameMsg advances the tilt animation by one frame.
type frameMsg time.Time

// playModel is the bubbletea model for the interactive seesaw. The drawn
// angle follows the controller's angle through a spring; the controller's
// value is never changed by the animation.
type playModel struct {
	ctx    context.Context
	ctrl   *simulation.Controller
	width  int  // plank width in columns
	fixed  bool // width set by flag, ignore resizes
	cursor int  // column of the drop marker

	spring    harmonica.Spring
	angle     float64
	velocity  float64
	animating bool

	status string
	err    error
}

func newPlayModel(ctx context.Context, ctrl *simulation.Controller, width int) playModel {
	fixed := width > 0
	if !fixed {
		width = 61
	}
	width = clampWidth(width)
	return playModel{
		ctx:    ctx,
		ctrl:   ctrl,
		width:  width,
		fixed:  fixed,
		cursor: (width - 1) / 2,
		spring: harmonica.NewSpring(harmonica.FPS(playFPS), springFreq, springDamping),
		angle:  ctrl.Balance().Angle,
	}
}

func clampWidth(w int) int {
	return max(render.MinTextWidth, min(playMaxWidth, w))
}

func animate() tea.Cmd {
	return tea.Tick(time.Second/playFPS, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.moveCursor(-1)
		case "right", "l":
			m.moveCursor(1)
		case "shift+left", "H":
			m.moveCursor(-playStep)
		case "shift+right", "L":
			m.moveCursor(playStep)
		case "home", "0":
			m.cursor = 0
		case "end", "$":
			m.cursor = m.width - 1
		case " ", "enter":
			return m.drop(m.cursorX())
		case "r":
			return m.reset()
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.onPlank(msg.Y) {
			local := geometry.ToPlankLocal(float64(msg.X), playMargin)
			if col := int(local); col >= 0 && col < m.width {
				m.cursor = col
			}
			return m.drop(m.ctrl.Plank().Unscale(local, float64(m.width-1)))
		}

	case tea.WindowSizeMsg:
		if !m.fixed {
			m.width = clampWidth(msg.Width - 2*playMargin)
			m.cursor = min(m.cursor, m.width-1)
		}

	case frameMsg:
		target := m.ctrl.Balance().Angle
		m.angle, m.velocity = m.spring.Update(m.angle, m.velocity, target)
		if math.Abs(target-m.angle) < settleEpsilon && math.Abs(m.velocity) < settleEpsilon {
			m.angle, m.velocity = target, 0
			m.animating = false
			return m, nil
		}
		return m, animate()
	}
	return m, nil
}

func (m *playModel) moveCursor(delta int) {
	m.cursor = max(0, min(m.width-1, m.cursor+delta))
}

// drawing renders the plank at the animated angle.
func (m playModel) drawing() string {
	return render.RenderTextAngle(m.ctrl.Snapshot(), m.ctrl.Plank(), m.width, m.angle)
}

// onPlank reports whether screen row y falls on the drawn plank rows.
func (m playModel) onPlank(y int) bool {
	_, rest, _ := strings.Cut(m.drawing(), "\n")
	rows := strings.Count(rest, "\n") // the footer follows the last newline
	return y >= playGridTop && y < playGridTop+rows
}

// cursorX converts the marker column into a plank-local coordinate.
func (m playModel) cursorX() float64 {
	return m.ctrl.Plank().Unscale(float64(m.cursor), float64(m.width-1))
}

func (m playModel) drop(x float64) (tea.Model, tea.Cmd) {
	obj, err := m.ctrl.Drop(m.ctx, x)
	if err != nil {
		m.err = err
		m.status = ""
		return m, nil
	}
	m.err = nil
	m.status = fmt.Sprintf("Dropped %s kg at %+.0fpx", formatKg(obj.Weight), obj.Distance)
	return m.kick()
}

func (m playModel) reset() (tea.Model, tea.Cmd) {
	m.ctrl.Reset(m.ctx)
	m.err = nil
	m.status = "Plank cleared"
	return m.kick()
}

// kick starts the animation loop unless it is already running.
func (m playModel) kick() (tea.Model, tea.Cmd) {
	if m.animating {
		return m, nil
	}
	m.animating = true
	return m, animate()
}

func (m playModel) View() string {
	var b strings.Builder
	pad := strings.Repeat(" ", playMargin)

	b.WriteString(StyleTitle.Render("Seesaw"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render("←/→ move  space/click drop  r reset  q quit"))
	b.WriteString("\n\n")

	title, rest, _ := strings.Cut(m.drawing(), "\n")
	b.WriteString(pad + title + "\n")
	b.WriteString(pad + strings.Repeat(" ", m.cursor) + StyleNumber.Render("▼") + "\n")
	for _, line := range strings.Split(rest, "\n") {
		b.WriteString(pad + line + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(pad + styleIconError.Render(iconError) + " " + seesawerrors.UserMessage(m.err))
	case m.status != "":
		b.WriteString(pad + styleIconSuccess.Render(iconSuccess) + " " + m.status)
	default:
		b.WriteString(pad + StyleDim.Render(fmt.Sprintf("x = %.0f", m.cursorX())))
	}
	b.WriteString("\n")
	return b.String()
}
