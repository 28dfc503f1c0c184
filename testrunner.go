package gesturesound

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSteps is returned by LoadInputScript for a script without steps.
var ErrNoSteps = errors.New("gesturesound: input script has no steps")

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Name   string  `json:"name,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	From   float64 `json:"from,omitempty"` // pinch start distance
	To     float64 `json:"to,omitempty"`   // pinch end distance
	Turn   float64 `json:"turn,omitempty"` // pinch rotation, radians
	Frames int     `json:"frames,omitempty"`
}

type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

// InputRunner plays a scripted sequence of gestures and scene changes
// across ticks. Attach to a Stage via SetInputScript.
type InputRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadInputScript parses a JSON input script of the form
//
//	{"steps": [
//	  {"action": "tap", "x": 100, "y": 200},
//	  {"action": "drag", "fromX": 10, "fromY": 10, "toX": 90, "toY": 10, "frames": 8},
//	  {"action": "pinch", "x": 320, "y": 240, "from": 100, "to": 200, "turn": 0.5, "frames": 10},
//	  {"action": "wait", "frames": 3},
//	  {"action": "scene", "name": "menu"}
//	]}
func LoadInputScript(jsonData []byte) (*InputRunner, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, ErrNoSteps
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "tap", "drag", "pinch", "wait", "scene":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &InputRunner{steps: script.Steps}, nil
}

// SetInputScript attaches a runner. Its step method is called from
// Stage.Update before the active scene updates.
func (st *Stage) SetInputScript(r *InputRunner) {
	st.runner = r
}

// Done reports whether every step has been executed and its input routed.
func (r *InputRunner) Done() bool {
	return r.done
}

// step advances the runner by one tick.
func (r *InputRunner) step(st *Stage) {
	if r.done {
		return
	}
	in := st.input
	// Wait for queued gestures to drain before advancing.
	if in.pendingFrames() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	s := r.steps[r.cursor]
	r.cursor++

	switch s.Action {
	case "tap":
		in.injectTap(s.X, s.Y)
	case "drag":
		in.injectDrag(s.FromX, s.FromY, s.ToX, s.ToY, s.Frames)
	case "pinch":
		in.injectPinch(s.X, s.Y, s.From, s.To, s.Turn, s.Frames)
	case "wait":
		if s.Frames > 0 {
			r.waitCount = s.Frames - 1 // this tick counts as one
		}
	case "scene":
		if err := st.SetScene(st.SceneNamed(s.Name)); err != nil {
			st.logger.Warn("input script: scene switch failed", "scene", s.Name, "error", err)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && in.pendingFrames() == 0 {
		r.done = true
	}
}
