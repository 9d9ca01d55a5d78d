// Package formats provides puzzle file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
)

// YAMLPuzzle represents the YAML structure for a puzzle file.
type YAMLPuzzle struct {
	ID       int               `yaml:"id"`
	Name     string            `yaml:"name"`
	Size     int               `yaml:"size"`
	Inputs   []YAMLEdge        `yaml:"inputs"`
	Outputs  []YAMLEdge        `yaml:"outputs"`
	Filters  []YAMLFilter      `yaml:"filters,omitempty"`
	Solution []YAMLPlacement   `yaml:"solution,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLEdge is an input or output one cell outside the grid.
type YAMLEdge struct {
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Dir      string `yaml:"dir"`
	Color    string `yaml:"color"`
	Pressure int    `yaml:"pressure"`
}

// YAMLFilter is a color filter on the edge leaving (x, y) in dir.
type YAMLFilter struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Dir   string `yaml:"dir"`
	Color string `yaml:"color"`
}

// YAMLPlacement is one tile of a reference solution.
type YAMLPlacement struct {
	X      int         `yaml:"x"`
	Y      int         `yaml:"y"`
	Kind   string      `yaml:"kind"`
	Dir    string      `yaml:"dir"`
	Labels []YAMLLabel `yaml:"labels,omitempty"`
}

// YAMLLabel overrides one property slot of a placement.
type YAMLLabel struct {
	Key      string `yaml:"key"`
	Color    string `yaml:"color,omitempty"`
	Pressure int    `yaml:"pressure,omitempty"`
}

// Placement is a parsed solution tile.
type Placement struct {
	Pos    core.Coord
	Kind   core.TileKind
	Dir    core.Direction
	Labels map[core.Key]core.Property
}

// Puzzle represents a parsed puzzle ready for use.
type Puzzle struct {
	Puzzle   *core.Puzzle
	Solution []Placement
	Metadata map[string]string
}

// ParseYAML parses and validates a YAML puzzle file.
func ParseYAML(data []byte) (Puzzle, error) {
	var yp YAMLPuzzle
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return Puzzle{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	size, err := core.GridSizeByWidth(yp.Size)
	if err != nil {
		return Puzzle{}, err
	}
	p := &core.Puzzle{ID: yp.ID, Name: yp.Name, Size: size}

	for i, e := range yp.Inputs {
		edge, err := parseEdge(e)
		if err != nil {
			return Puzzle{}, fmt.Errorf("input %d: %w", i, err)
		}
		p.Inputs = append(p.Inputs, edge)
	}
	for i, e := range yp.Outputs {
		edge, err := parseEdge(e)
		if err != nil {
			return Puzzle{}, fmt.Errorf("output %d: %w", i, err)
		}
		p.Outputs = append(p.Outputs, edge)
	}
	for i, f := range yp.Filters {
		dir, err := core.ParseDirection(f.Dir)
		if err != nil {
			return Puzzle{}, fmt.Errorf("filter %d: %w", i, err)
		}
		color, err := core.ParseColor(f.Color)
		if err != nil {
			return Puzzle{}, fmt.Errorf("filter %d: %w", i, err)
		}
		p.Filters = append(p.Filters, core.Filter{Pos: core.C(f.X, f.Y), Dir: dir, Color: color})
	}

	if err := p.Validate(); err != nil {
		return Puzzle{}, fmt.Errorf("puzzle %d: %w", p.ID, err)
	}

	out := Puzzle{Puzzle: p, Metadata: yp.Metadata}
	for i, yt := range yp.Solution {
		pl, err := parsePlacement(yt)
		if err != nil {
			return Puzzle{}, fmt.Errorf("solution tile %d: %w", i, err)
		}
		if !p.InBounds(pl.Pos) {
			return Puzzle{}, fmt.Errorf("solution tile %d at %s is outside the grid", i, pl.Pos)
		}
		out.Solution = append(out.Solution, pl)
	}
	return out, nil
}

func parseEdge(e YAMLEdge) (core.Edge, error) {
	dir, err := core.ParseDirection(e.Dir)
	if err != nil {
		return core.Edge{}, err
	}
	color, err := core.ParseColor(e.Color)
	if err != nil {
		return core.Edge{}, err
	}
	pressure := e.Pressure
	if pressure == 0 {
		pressure = 1
	}
	return core.Edge{Pos: core.C(e.X, e.Y), Dir: dir, Color: color, Pressure: pressure}, nil
}

func parsePlacement(yt YAMLPlacement) (Placement, error) {
	kind, err := core.ParseKind(yt.Kind)
	if err != nil {
		return Placement{}, err
	}
	dir := core.Left
	if yt.Dir != "" {
		if dir, err = core.ParseDirection(yt.Dir); err != nil {
			return Placement{}, err
		}
	}

	pl := Placement{Pos: core.C(yt.X, yt.Y), Kind: kind, Dir: dir}
	shape := core.NewTile(kind, dir)
	for _, yl := range yt.Labels {
		key, err := core.ParseKey(yl.Key)
		if err != nil {
			return Placement{}, err
		}
		if !shape.HasKey(key) {
			return Placement{}, fmt.Errorf("key %s is not valid for a %s tile", key, kind)
		}
		color, err := core.ParseColor(yl.Color)
		if err != nil {
			return Placement{}, err
		}
		pressure := yl.Pressure
		if pressure == 0 {
			pressure = 1
		}
		if pressure < 1 || pressure > core.MaxPressure {
			return Placement{}, fmt.Errorf("label pressure %d outside 1-%d", pressure, core.MaxPressure)
		}
		if pl.Labels == nil {
			pl.Labels = make(map[core.Key]core.Property)
		}
		pl.Labels[key] = core.Property{Color: color, Pressure: pressure}
	}
	return pl, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
