package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/vrlab/internal/config"
	"github.com/san-kum/vrlab/internal/input"
	"github.com/san-kum/vrlab/internal/interaction"
	"github.com/san-kum/vrlab/internal/physics"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/vr"
)

const grabScenario = `
name: grab-pendulum
description: grab the first pendulum, hold it, let go and walk
steps:
  - repeat: 5
  - right: {aim: pendulum.0.bob}
    events: [select_start right]
  - repeat: 10
  - events: [select_end right]
  - repeat: 3
    right: {axes: [0, 0, 0, -1]}
  - events: [session_end]
  - repeat: 100
`

func newCore(t *testing.T) (*interaction.Core, *interaction.World) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Cubes.Count = 0
	cfg.Pendulum.Count = 1
	w, err := interaction.NewWorld(cfg, nil)
	require.NoError(t, err)
	core, err := interaction.New(cfg, w.Graph, w.Rig, w.Sim, nil)
	require.NoError(t, err)
	return core, w
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in   string
		want input.Event
	}{
		{"select_start left", input.Select(vr.Left, true)},
		{"select_end right", input.Select(vr.Right, false)},
		{"key_down w", input.KeyEvent(input.KeyW, true)},
		{"key_up Left", input.KeyEvent(input.KeyLeftArrow, false)},
		{"click 400 300", input.Mouse(input.Click, 400, 300, input.ButtonLeft)},
		{"mouse_move 1.5 -2", input.Mouse(input.MouseMove, 1.5, -2, input.ButtonLeft)},
		{"session_end", input.Event{Kind: input.SessionEnd, Hand: vr.NoHand}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEvent(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "squeeze left", "select_start", "select_start middle", "key_down q", "click 1", "click a b"} {
		_, err := ParseEvent(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(grabScenario))
	require.NoError(t, err)
	assert.Equal(t, "grab-pendulum", sc.Name)
	assert.Len(t, sc.Steps, 7)
	assert.Equal(t, 5+1+10+1+3+1+100, sc.Ticks())
	require.NotNil(t, sc.Steps[1].Right)
	assert.Equal(t, "pendulum.0.bob", sc.Steps[1].Right.Aim)

	_, err = ParseScenario([]byte("steps:\n  - events: [jump]\n"))
	assert.Error(t, err)
	_, err = ParseScenario([]byte("steps:\n  - drag: [1]\n"))
	assert.Error(t, err)
	_, err = ParseScenario([]byte("steps:\n  - left: {position: [1, 2]}\n"))
	assert.Error(t, err)
	_, err = ParseScenario([]byte("sources:\n  - {handedness: middle, position: [0, 1, 0]}\n"))
	assert.Error(t, err)
	_, err = ParseScenario([]byte("sources:\n  - {handedness: left}\n"))
	assert.Error(t, err)
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(grabScenario), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "grab-pendulum", sc.Name)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunGrabScenario(t *testing.T) {
	core, w := newCore(t)
	sc, err := ParseScenario([]byte(grabScenario))
	require.NoError(t, err)

	rec := NewRecorder(len(w.Pendulums))
	summary, err := Run(context.Background(), core, core.NewContext(), sc, rec, nil)
	require.NoError(t, err)

	assert.Equal(t, 21, summary.Ticks)
	assert.Equal(t, 1, summary.Grabs)
	assert.Equal(t, 1, summary.Releases)
	assert.True(t, summary.Final.Ended)
	assert.Less(t, summary.Final.Player.Z(), 0.0)

	trace := rec.Trace()
	assert.Equal(t, 21, trace.Len())
	held := trace.Column("held_right")
	require.Len(t, held, 21)
	assert.Equal(t, float64(scene.None), held[0])
	assert.Equal(t, float64(w.Pendulums[0].Pivot), held[5])
	assert.Equal(t, float64(scene.None), held[16])

	angles := trace.Column("pendulum_0")
	for i := 6; i < 16; i++ {
		assert.Equal(t, angles[5], angles[i], "held pendulum moved at tick %d", i+1)
	}
	assert.NotEqual(t, angles[16], angles[18])
}

func TestRunUnknownAimTarget(t *testing.T) {
	core, _ := newCore(t)
	sc := &Scenario{Name: "bad", Steps: []Step{{Left: &HandSpec{Aim: "nothing"}}}}
	_, err := Run(context.Background(), core, core.NewContext(), sc, nil, nil)
	assert.ErrorIs(t, err, vr.ErrUnknownObject)
}

func TestRunAssignsSourcesAtStart(t *testing.T) {
	core, _ := newCore(t)
	sc, err := ParseScenario([]byte(`
name: sources
sources:
  - {position: [0.3, 1.2, -0.3], axes: [0, 0, 0, -1]}
  - {handedness: left, position: [-0.4, 1.1, -0.2]}
steps:
  - repeat: 2
`))
	require.NoError(t, err)

	summary, err := Run(context.Background(), core, core.NewContext(), sc, nil, nil)
	require.NoError(t, err)

	g, rig := core.Graph(), core.Rig()
	assert.True(t, g.Local(rig.Hands[vr.Left]).Position.ApproxEqual(mgl64.Vec3{-0.4, 1.1, -0.2}))
	assert.True(t, g.Local(rig.Hands[vr.Right]).Position.ApproxEqual(mgl64.Vec3{0.3, 1.2, -0.3}),
		"unlabelled source takes the free right hand")
	assert.Less(t, summary.Final.Player.Z(), 0.0, "right stick drives movement")
}

func TestRunRejectsBadEvent(t *testing.T) {
	core, _ := newCore(t)
	sc := &Scenario{Name: "bad", Steps: []Step{{Repeat: 3}, {Events: []string{"jump"}}}}
	summary, err := Run(context.Background(), core, core.NewContext(), sc, nil, nil)
	assert.Error(t, err)
	assert.Nil(t, summary)
}

func TestRunCancelled(t *testing.T) {
	core, _ := newCore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := &Scenario{Name: "idle", Steps: []Step{{Repeat: 10}}}
	summary, err := Run(ctx, core, core.NewContext(), sc, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Ticks)
}

func TestRunDragLooks(t *testing.T) {
	core, _ := newCore(t)
	var pitches []float64
	obs := ObserverFunc(func(rep interaction.Report) { pitches = append(pitches, rep.Pitch) })

	sc := &Scenario{Name: "look", Steps: []Step{{Drag: []float64{0, 100}}, {Repeat: 2}}}
	_, err := Run(context.Background(), core, core.NewContext(), sc, obs, nil)
	require.NoError(t, err)
	require.Len(t, pitches, 3)
	assert.Less(t, pitches[0], 0.0)
	assert.Equal(t, pitches[0], pitches[2])
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Base:      *physics.NewPendulum(),
		ParamName: "damping",
		ParamMin:  0.99,
		ParamMax:  1.0,
		NumSteps:  3,
		Angle:     0.5,
		Duration:  20,
		Dt:        physics.DefaultDt,
	}
	results, err := RunSweep(context.Background(), sweep, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.InDelta(t, 0.99, results[0].ParamValue, 1e-12)
	assert.InDelta(t, 1.0, results[2].ParamValue, 1e-12)
	assert.True(t, results[0].Monotonic)
	assert.Less(t, results[0].LastPeak, results[2].LastPeak)
	assert.LessOrEqual(t, results[0].MinEnergy, results[0].MaxEnergy)

	sweep.ParamName = "mass"
	_, err = RunSweep(context.Background(), sweep, nil)
	assert.Error(t, err)

	sweep.NumSteps = 1
	_, err = RunSweep(context.Background(), sweep, nil)
	assert.Error(t, err)
}
