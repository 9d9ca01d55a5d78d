package formats_test

import (
	"errors"
	"testing"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles/formats"
)

const sample = `
id: 42
name: Sample
size: 4
inputs:
  - {x: -1, y: 2, dir: left, color: Blue, pressure: 2}
outputs:
  - {x: 4, y: 2, dir: right, color: green}
filters:
  - {x: 1, y: 2, dir: right, color: green}
solution:
  - x: 0
    y: 2
    kind: cross
    dir: up
    labels:
      - {key: vertical, color: blue, pressure: 2}
`

func TestParseYAML(t *testing.T) {
	parsed, err := formats.ParseYAML([]byte(sample))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	p := parsed.Puzzle

	if p.ID != 42 || p.Name != "Sample" || p.Width() != 4 {
		t.Errorf("unexpected header %d %q %d", p.ID, p.Name, p.Width())
	}
	want := core.Edge{Pos: core.C(-1, 2), Dir: core.Left, Color: core.Blue, Pressure: 2}
	if p.Inputs[0] != want {
		t.Errorf("expected input %+v, got %+v", want, p.Inputs[0])
	}
	if p.Outputs[0].Pressure != 1 {
		t.Errorf("expected default pressure 1, got %d", p.Outputs[0].Pressure)
	}
	if len(p.Filters) != 1 || p.Filters[0].Color != core.Green {
		t.Errorf("unexpected filters %+v", p.Filters)
	}

	if len(parsed.Solution) != 1 {
		t.Fatalf("expected 1 solution tile, got %d", len(parsed.Solution))
	}
	pl := parsed.Solution[0]
	if pl.Kind != core.KindCross || pl.Dir != core.Up {
		t.Errorf("unexpected placement %+v", pl)
	}
	if got := pl.Labels[core.KeyVertical]; got != (core.Property{Color: core.Blue, Pressure: 2}) {
		t.Errorf("unexpected label %v", got)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"bad size", `{id: 1, size: 6, inputs: [{x: -1, y: 0, dir: left, color: red}], outputs: [{x: 6, y: 0, dir: right, color: red}]}`},
		{"edge inside grid", `{id: 1, size: 3, inputs: [{x: 0, y: 0, dir: left, color: red}], outputs: [{x: 3, y: 0, dir: right, color: red}]}`},
		{"edge pointing inward", `{id: 1, size: 3, inputs: [{x: -1, y: 0, dir: right, color: red}], outputs: [{x: 3, y: 0, dir: right, color: red}]}`},
		{"no outputs", `{id: 1, size: 3, inputs: [{x: -1, y: 0, dir: left, color: red}]}`},
		{"pressure too high", `{id: 1, size: 3, inputs: [{x: -1, y: 0, dir: left, color: red, pressure: 5}], outputs: [{x: 3, y: 0, dir: right, color: red}]}`},
		{"foreign label key", `{id: 1, size: 3, inputs: [{x: -1, y: 0, dir: left, color: red}], outputs: [{x: 3, y: 0, dir: right, color: red}], solution: [{x: 0, y: 0, kind: straight, labels: [{key: up}]}]}`},
		{"negative label pressure", `{id: 1, size: 3, inputs: [{x: -1, y: 0, dir: left, color: red}], outputs: [{x: 3, y: 0, dir: right, color: red}], solution: [{x: 0, y: 0, kind: straight, labels: [{key: internal, color: red, pressure: -2}]}]}`},
		{"label pressure too high", `{id: 1, size: 3, inputs: [{x: -1, y: 0, dir: left, color: red}], outputs: [{x: 3, y: 0, dir: right, color: red}], solution: [{x: 0, y: 0, kind: straight, labels: [{key: internal, color: red, pressure: 5}]}]}`},
		{"solution outside grid", `{id: 1, size: 3, inputs: [{x: -1, y: 0, dir: left, color: red}], outputs: [{x: 3, y: 0, dir: right, color: red}], solution: [{x: 3, y: 0, kind: straight}]}`},
		{"not yaml", `id: [`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := formats.ParseYAML([]byte(tc.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseYAMLUnknownColor(t *testing.T) {
	doc := `{id: 1, size: 3, inputs: [{x: -1, y: 0, dir: left, color: octarine}], outputs: [{x: 3, y: 0, dir: right, color: red}]}`
	_, err := formats.ParseYAML([]byte(doc))
	if !errors.Is(err, core.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
}
