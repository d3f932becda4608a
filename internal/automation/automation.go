// Package automation drives the interaction core from scripted YAML
// scenarios, standing in for a headset in tests and batch runs.
package automation

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/vrlab/internal/input"
	"github.com/san-kum/vrlab/internal/vr"
)

// Scenario defines a scripted session.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Viewport    []float64 `yaml:"viewport"`
	Sources     []Source  `yaml:"sources"`
	Steps       []Step    `yaml:"steps"`
}

// Source is a controller reported at session start, before it is slotted
// into a hand. An empty Handedness takes the first free hand.
type Source struct {
	Handedness string    `yaml:"handedness"`
	Position   []float64 `yaml:"position"`
	Axes       []float64 `yaml:"axes"`
}

func (s Source) input() (input.HandInput, error) {
	in := input.HandInput{Connected: true, Handedness: vr.NoHand, Axes: s.Axes}
	if s.Handedness != "" {
		h, err := vr.ParseHand(s.Handedness)
		if err != nil {
			return in, err
		}
		in.Handedness = h
	}
	if len(s.Position) != 3 {
		return in, fmt.Errorf("source position needs x, y and z")
	}
	in.Pose = input.Pose{Position: vec(s.Position), Orientation: mgl64.QuatIdent()}
	return in, nil
}

// Step holds input for Repeat ticks. Hand settings persist into later steps;
// events and drag apply to the first tick only.
type Step struct {
	Repeat int       `yaml:"repeat"`
	Dt     float64   `yaml:"dt"`
	Left   *HandSpec `yaml:"left"`
	Right  *HandSpec `yaml:"right"`
	Head   []float64 `yaml:"head"`
	Events []string  `yaml:"events"`
	Drag   []float64 `yaml:"drag"`
}

// HandSpec overrides parts of one controller's input. Aim names a scene
// object to point the controller at.
type HandSpec struct {
	Connected *bool     `yaml:"connected"`
	Position  []float64 `yaml:"position"`
	Axes      []float64 `yaml:"axes"`
	Aim       string    `yaml:"aim"`
}

func (s Step) hand(h vr.Hand) *HandSpec {
	if h == vr.Left {
		return s.Left
	}
	return s.Right
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if len(s.Viewport) != 0 && len(s.Viewport) != 2 {
		return fmt.Errorf("scenario %s: viewport needs width and height", s.Name)
	}
	for i, src := range s.Sources {
		if _, err := src.input(); err != nil {
			return fmt.Errorf("source %d: %w", i+1, err)
		}
	}
	for i, step := range s.Steps {
		if step.Repeat < 0 {
			return fmt.Errorf("step %d: negative repeat", i+1)
		}
		if len(step.Drag) != 0 && len(step.Drag) != 2 {
			return fmt.Errorf("step %d: drag needs dx and dy", i+1)
		}
		if len(step.Head) != 0 && len(step.Head) != 3 {
			return fmt.Errorf("step %d: head needs x, y and z", i+1)
		}
		for _, h := range vr.Hands {
			if spec := step.hand(h); spec != nil && len(spec.Position) != 0 && len(spec.Position) != 3 {
				return fmt.Errorf("step %d: %s position needs x, y and z", i+1, h)
			}
		}
		for _, e := range step.Events {
			if _, err := ParseEvent(e); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// Ticks is the number of frames the scenario produces.
func (s *Scenario) Ticks() int {
	n := 0
	for _, step := range s.Steps {
		n += max(step.Repeat, 1)
	}
	return n
}

// ParseEvent reads "select_start left", "key_down w", "click 400 300",
// "session_end" and the other input kinds.
func ParseEvent(s string) (input.Event, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return input.Event{}, fmt.Errorf("empty event")
	}
	kind, err := input.ParseKind(fields[0])
	if err != nil {
		return input.Event{}, err
	}
	args := fields[1:]

	switch kind {
	case input.SelectStart, input.SelectEnd:
		if len(args) != 1 {
			return input.Event{}, fmt.Errorf("%s: want a hand", kind)
		}
		h, err := vr.ParseHand(args[0])
		if err != nil {
			return input.Event{}, err
		}
		return input.Select(h, kind == input.SelectStart), nil

	case input.KeyDown, input.KeyUp:
		if len(args) != 1 {
			return input.Event{}, fmt.Errorf("%s: want a key", kind)
		}
		k, err := input.ParseKey(args[0])
		if err != nil {
			return input.Event{}, err
		}
		return input.KeyEvent(k, kind == input.KeyDown), nil

	case input.SessionEnd:
		return input.Event{Kind: kind, Hand: vr.NoHand}, nil
	}

	if len(args) != 2 {
		return input.Event{}, fmt.Errorf("%s: want x and y", kind)
	}
	x, errX := strconv.ParseFloat(args[0], 64)
	y, errY := strconv.ParseFloat(args[1], 64)
	if errX != nil || errY != nil {
		return input.Event{}, fmt.Errorf("%s: bad coordinates %q", kind, s)
	}
	return input.Mouse(kind, x, y, input.ButtonLeft), nil
}
