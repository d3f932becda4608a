// Package tui is the terminal host for the interaction core: it turns key
// and mouse messages into input events, ticks the core at the configured
// rate and draws the scene with a status panel.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/vrlab/internal/input"
	"github.com/san-kum/vrlab/internal/interaction"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/viz"
	"github.com/san-kum/vrlab/internal/vr"
)

const (
	panelWidth   = 34
	historyLen   = 60
	minCanvasW   = 20
	minCanvasH   = 8
	defaultWidth = 100
)

// handOffsets mirror the rig's controller rest positions.
var handOffsets = [2]mgl64.Vec3{{-0.2, 1.2, -0.3}, {0.2, 1.2, -0.3}}

type tickMsg time.Time

type model struct {
	core   *interaction.Core
	ic     *interaction.Context
	queue  *input.Queue
	keys   held
	theme  int
	styles viz.Styles
	logger *zap.Logger

	dt      time.Duration
	last    interaction.Report
	history []float64

	width, height int
	quitting      bool
	err           error
}

func newModel(core *interaction.Core, theme string, logger *zap.Logger) model {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := viz.GetTheme(theme)
	idx := 0
	for i, th := range viz.Themes {
		if th.Name == t.Name {
			idx = i
		}
	}
	m := model{
		core:    core,
		ic:      core.NewContext(),
		queue:   input.NewQueue(),
		keys:    held{},
		theme:   idx,
		styles:  t.Styles(),
		logger:  logger.Named("tui"),
		dt:      time.Duration(core.Config().Dt * float64(time.Second)),
		history: make([]float64, 0, historyLen),
		width:   defaultWidth,
		height:  30,
	}
	m.last.Held = [2]scene.ID{scene.None, scene.None}
	m.last.Highlight = [3]scene.ID{scene.None, scene.None, scene.None}
	return m
}

// Run starts the live session and blocks until the user quits or ctx ends.
func Run(ctx context.Context, core *interaction.Core, theme string, logger *zap.Logger) error {
	m := newModel(core, theme, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) tick() tea.Cmd {
	return tea.Tick(m.dt, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.step()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if k, ok := moveKey(msg); ok {
		if m.keys.press(k) {
			m.queue.Push(input.KeyEvent(k, true))
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if !m.quitting {
			m.quitting = true
			m.queue.Push(input.Event{Kind: input.SessionEnd, Hand: vr.NoHand})
		}
	case "f":
		m.toggleSelect(vr.Left)
	case "g", " ":
		m.toggleSelect(vr.Right)
	case "t":
		m.theme = (m.theme + 1) % len(viz.Themes)
		m.styles = viz.Themes[m.theme].Styles()
	}
	return m, nil
}

// toggleSelect stands in for a trigger: press to grab, press again to drop.
func (m model) toggleSelect(h vr.Hand) {
	start := !m.core.Grab().Hand(h).Holding()
	m.queue.Push(input.Select(h, start))
}

func (m model) handleMouse(msg tea.MouseMsg) {
	cw, ch := m.canvasSize()
	if msg.X >= cw || msg.Y >= ch {
		return
	}
	x, y := float64(msg.X*2+1), float64(msg.Y*4+2)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.queue.Push(input.Mouse(input.Click, x, y, input.ButtonLeft))
		case tea.MouseButtonRight:
			m.queue.Push(input.Mouse(input.MouseDown, x, y, input.ButtonRight))
		}
	case tea.MouseActionMotion:
		m.queue.Push(input.Mouse(input.MouseMove, x, y, input.ButtonRight))
	case tea.MouseActionRelease:
		m.queue.Push(input.Mouse(input.MouseUp, x, y, input.ButtonRight))
	}
}

func (m model) step() (model, tea.Cmd) {
	for _, k := range m.keys.expire() {
		m.queue.Push(input.KeyEvent(k, false))
	}

	rep, err := m.core.Tick(m.ic, m.frame())
	if err != nil {
		m.logger.Error("tick failed", zap.Error(err))
		m.err = err
		return m, tea.Quit
	}
	m.last = rep
	for _, g := range rep.Grabbed {
		m.logger.Info("grabbed", zap.Stringer("hand", g.Hand), zap.String("object", g.Name))
	}
	for _, r := range rep.Released {
		m.logger.Info("released", zap.Stringer("hand", r.Hand), zap.String("object", r.Name))
	}
	if len(rep.Pendulums) > 0 {
		if len(m.history) == historyLen {
			m.history = m.history[1:]
		}
		m.history = append(m.history, rep.Pendulums[0].Angle)
	}

	if rep.Ended {
		return m, tea.Quit
	}
	return m, m.tick()
}

// frame builds this tick's input. Both controllers are reported at their
// rest offsets and aim wherever the camera looks.
func (m model) frame() input.Frame {
	cw, ch := m.canvasSize()
	aim := m.ic.Look.Rotation()

	var hands [2]input.HandInput
	for _, h := range vr.Hands {
		hands[h] = input.HandInput{
			Connected:  true,
			Handedness: h,
			Pose:       input.Pose{Position: handOffsets[h], Orientation: aim},
		}
	}
	return input.Frame{
		Dt:       m.dt.Seconds(),
		Hands:    hands,
		Viewport: input.Viewport{W: float64(cw * 2), H: float64(ch * 4)},
		Events:   m.queue.Drain(),
	}
}

func (m model) canvasSize() (int, int) {
	return max(m.width-panelWidth-4, minCanvasW), max(m.height-1, minCanvasH)
}

func (m model) View() string {
	if m.err != nil {
		return m.styles.Alert.Render("error: "+m.err.Error()) + "\n"
	}

	g, rig := m.core.Graph(), m.core.Rig()
	cw, ch := m.canvasSize()
	c := viz.NewCanvas(cw, ch)
	viz.DrawScene(c, g, rig.Camera, m.core.Lens(), rig.Lasers[:]...)

	return lipgloss.JoinHorizontal(lipgloss.Top, c.Styled(), " ", m.panel(g))
}

func (m model) panel(g *scene.Graph) string {
	s := m.styles
	rep := m.last
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(s.Label.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(s.Value.Render(value))
		b.WriteByte('\n')
	}

	b.WriteString(s.Title.Render("vrlab") + "  " + s.Label.Render(viz.Themes[m.theme].Name) + "\n\n")
	row("time", fmt.Sprintf("%.2fs  #%d", rep.Time, rep.Tick))
	row("player", fmt.Sprintf("%.2f %.2f %.2f", rep.Player.X(), rep.Player.Y(), rep.Player.Z()))
	row("look", fmt.Sprintf("yaw %.2f pitch %.2f", rep.Yaw, rep.Pitch))
	b.WriteByte('\n')

	for _, h := range vr.Hands {
		name := "-"
		if id := rep.Held[h]; id != scene.None && g.Valid(id) {
			name = s.Active.Render(g.Name(id))
		}
		row(h.String(), fmt.Sprintf("%s  %.1fm", name, rep.Lasers[h]))
	}
	if id := rep.Highlight[vr.PointerMouse]; id != scene.None && g.Valid(id) {
		row("mouse", g.Name(id))
	}
	b.WriteByte('\n')

	if len(rep.Pendulums) > 0 {
		p := rep.Pendulums[0]
		row("θ0", fmt.Sprintf("%+.3f rad", p.Angle))
		b.WriteString(viz.Sparkline(m.history, panelWidth-4) + "\n\n")
	}

	b.WriteString(s.Hint.Render("wasd/arrows move\nf/g grab  click pick\nright-drag look  t theme\nq quit"))
	return s.Panel.Width(panelWidth).Render(b.String())
}
