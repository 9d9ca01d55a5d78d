package core_test

import (
	"errors"
	"testing"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
)

func TestRotationLaws(t *testing.T) {
	for _, d := range core.AllDirections() {
		if got := d.CW().CCW(); got != d {
			t.Errorf("%s: cw then ccw = %s", d, got)
		}
		if got := d.Flip().Flip(); got != d {
			t.Errorf("%s: flip twice = %s", d, got)
		}
		if got := d.CW().CW().CW().CW(); got != d {
			t.Errorf("%s: four quarter turns = %s", d, got)
		}
		if d.Flip().Axis() != d.Axis() {
			t.Errorf("%s: flip changed axis", d)
		}
		for _, r := range core.AllDirections() {
			if got := d.Rotate(r).Unrotate(r); got != d {
				t.Errorf("%s: rotate/unrotate by %s = %s", d, r, got)
			}
		}
	}
}

func TestDirectionDelta(t *testing.T) {
	testCases := []struct {
		dir  core.Direction
		want core.Coord
	}{
		{core.Left, core.C(0, 1)},
		{core.Up, core.C(1, 0)},
		{core.Right, core.C(2, 1)},
		{core.Down, core.C(1, 2)},
	}

	for _, tc := range testCases {
		if got := core.C(1, 1).Step(tc.dir); got != tc.want {
			t.Errorf("step %s from (1,1): expected %v, got %v", tc.dir, tc.want, got)
		}
	}
}

func TestParseDirection(t *testing.T) {
	d, err := core.ParseDirection("Right")
	if err != nil || d != core.Right {
		t.Errorf("expected right, got %v (%v)", d, err)
	}
	if _, err := core.ParseDirection("sideways"); !errors.Is(err, core.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
}
