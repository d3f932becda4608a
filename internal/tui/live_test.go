package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/vrlab/internal/config"
	"github.com/san-kum/vrlab/internal/input"
	"github.com/san-kum/vrlab/internal/interaction"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	cfg := config.DefaultConfig()
	w, err := interaction.NewWorld(cfg, nil)
	require.NoError(t, err)
	core, err := interaction.New(cfg, w.Graph, w.Rig, w.Sim, nil)
	require.NoError(t, err)
	return newModel(core, "minimal", nil)
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out, cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHeldExpire(t *testing.T) {
	h := held{}
	assert.True(t, h.press(input.KeyW))
	assert.False(t, h.press(input.KeyW), "repeat press is not a new key down")

	for i := 0; i < holdTicks-1; i++ {
		assert.Empty(t, h.expire())
	}
	assert.Equal(t, []input.Key{input.KeyW}, h.expire())
	assert.Empty(t, h)
}

func TestMoveKeyWalksForward(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, key("w"))
	assert.Equal(t, 1, m.queue.Len())

	var cmd tea.Cmd
	for i := 0; i < 5; i++ {
		m, cmd = update(t, m, tickMsg(time.Now()))
		require.NotNil(t, cmd)
	}
	assert.Less(t, m.last.Player.Z(), 0.0, "w should walk toward -Z")
	assert.InDelta(t, 0, m.last.Player.X(), 1e-9)

	for i := 0; i < holdTicks; i++ {
		m, _ = update(t, m, tickMsg(time.Now()))
	}
	stopped := m.last.Player
	m, _ = update(t, m, tickMsg(time.Now()))
	assert.True(t, m.last.Player.ApproxEqual(stopped), "key should release after the hold window")
}

func TestQuitEndsSession(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, key("q"))
	assert.True(t, m.quitting)

	m, cmd := update(t, m, tickMsg(time.Now()))
	assert.True(t, m.last.Ended)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestThemeCycles(t *testing.T) {
	m := newTestModel(t)
	first := m.theme
	m, _ = update(t, m, key("t"))
	assert.NotEqual(t, first, m.theme)
}

func TestViewRendersPanel(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 24})
	m, _ = update(t, m, tickMsg(time.Now()))

	out := m.View()
	assert.Contains(t, out, "vrlab")
	assert.Contains(t, out, "player")
}
