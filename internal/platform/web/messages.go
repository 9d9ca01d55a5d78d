package web

import (
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/render"
)

// Message types sent to spectators.
const (
	TypeStep    = "step"
	TypeVictory = "victory"
	TypeIdle    = "idle"
)

// Message is one JSON frame of the spectator stream.
type Message struct {
	Type   string     `json:"type"`
	Puzzle int        `json:"puzzle"`
	Step   int        `json:"step"`
	Flows  []FlowView `json:"flows"`
	Leaks  []LeakView `json:"leaks"`
	Frame  string     `json:"frame,omitempty"`
}

// FlowView is a flow queued to enter a cell on the next step.
type FlowView struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Dir      string `json:"dir"`
	Color    string `json:"color"`
	Pressure int    `json:"pressure"`
}

// LeakView is a flow that escaped the pipes.
type LeakView struct {
	X      int      `json:"x"`
	Y      int      `json:"y"`
	Colors []string `json:"colors"`
	Step   int      `json:"step"`
}

func flowViews(flows []core.IncomingFlow) []FlowView {
	out := make([]FlowView, 0, len(flows))
	for _, f := range flows {
		out = append(out, FlowView{
			X:        f.Pos.X,
			Y:        f.Pos.Y,
			Dir:      f.Dir.String(),
			Color:    f.Color.String(),
			Pressure: f.Pressure,
		})
	}
	return out
}

func leakViews(leaks []core.Leak) []LeakView {
	out := make([]LeakView, 0, len(leaks))
	for _, l := range leaks {
		colors := make([]string, 0, len(l.Colors))
		for _, c := range l.Colors {
			colors = append(colors, c.String())
		}
		out = append(out, LeakView{X: l.Pos.X, Y: l.Pos.Y, Colors: colors, Step: l.Step})
	}
	return out
}

// stepMessage describes one simulation step.
func stepMessage(frame render.Frame, res core.StepResult) Message {
	return Message{
		Type:   TypeStep,
		Puzzle: frame.Puzzle.ID,
		Step:   res.Step,
		Flows:  flowViews(res.Flows),
		Leaks:  leakViews(res.Leaks),
		Frame:  render.ASCII(frame),
	}
}

// finalMessage summarizes a finished run with every leak so far.
func finalMessage(kind string, frame render.Frame) Message {
	return Message{
		Type:   kind,
		Puzzle: frame.Puzzle.ID,
		Step:   frame.Sim.StepCount(),
		Flows:  []FlowView{},
		Leaks:  leakViews(frame.Sim.Leaks()),
		Frame:  render.ASCII(frame),
	}
}
