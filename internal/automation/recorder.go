package automation

import (
	"fmt"

	"github.com/san-kum/vrlab/internal/interaction"
	"github.com/san-kum/vrlab/internal/storage"
)

var baseColumns = []string{
	"player_x", "player_y", "player_z", "yaw", "pitch",
	"held_left", "held_right", "laser_left", "laser_right",
}

// Recorder flattens tick reports into a storage trace. Held objects are
// recorded by id, -1 when the hand is empty.
type Recorder struct {
	trace     *storage.Trace
	pendulums int
}

func NewRecorder(pendulums int) *Recorder {
	cols := append([]string(nil), baseColumns...)
	for i := 0; i < pendulums; i++ {
		cols = append(cols, fmt.Sprintf("pendulum_%d", i))
	}
	return &Recorder{trace: storage.NewTrace(cols...), pendulums: pendulums}
}

func (r *Recorder) OnTick(rep interaction.Report) {
	row := []float64{
		rep.Player.X(), rep.Player.Y(), rep.Player.Z(), rep.Yaw, rep.Pitch,
		float64(rep.Held[0]), float64(rep.Held[1]), rep.Lasers[0], rep.Lasers[1],
	}
	for i := 0; i < r.pendulums; i++ {
		angle := 0.0
		if i < len(rep.Pendulums) {
			angle = rep.Pendulums[i].Angle
		}
		row = append(row, angle)
	}
	r.trace.Append(rep.Time, row...)
}

func (r *Recorder) Trace() *storage.Trace { return r.trace }
