package core_test

import (
	"errors"
	"testing"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
)

func TestMixIsCommutative(t *testing.T) {
	for _, a := range core.AllColors() {
		for _, b := range core.AllColors() {
			ab, okAB := core.MixColors(a, b)
			ba, okBA := core.MixColors(b, a)
			if ab != ba || okAB != okBA {
				t.Errorf("mix(%s, %s) = %s/%v but mix(%s, %s) = %s/%v", a, b, ab, okAB, b, a, ba, okBA)
			}
		}
	}
}

func TestUnmixInvertsMix(t *testing.T) {
	for _, m := range core.Mixes() {
		if got, ok := core.UnmixColor(m.Result, m.Left); !ok || got != m.Right {
			t.Errorf("unmix(%s, %s): expected %s, got %s", m.Result, m.Left, m.Right, got)
		}
		if got, ok := core.UnmixColor(m.Result, m.Right); !ok || got != m.Left {
			t.Errorf("unmix(%s, %s): expected %s, got %s", m.Result, m.Right, m.Left, got)
		}
	}
}

func TestMixWithItselfHasNoResult(t *testing.T) {
	for _, c := range core.AllColors() {
		if _, ok := core.MixColors(c, c); ok {
			t.Errorf("mix(%s, %s) should have no result", c, c)
		}
	}
	if _, ok := core.UnmixColor(core.Red, core.Yellow); ok {
		t.Error("red is not a mix and should not unmix")
	}
}

func TestOutlandish(t *testing.T) {
	testCases := []struct {
		a, b core.Color
		want core.Color
	}{
		{core.ColorNone, core.Red, core.Red},
		{core.Blue, core.ColorNone, core.Blue},
		{core.Red, core.Blue, core.Blue},
		{core.Amber, core.Violet, core.Violet},
		{core.Brown, core.Green, core.Brown},
	}

	for _, tc := range testCases {
		if got := core.Outlandish(tc.a, tc.b); got != tc.want {
			t.Errorf("outlandish(%s, %s): expected %s, got %s", tc.a, tc.b, tc.want, got)
		}
	}
}

func TestParseColor(t *testing.T) {
	for _, c := range core.AllColors() {
		got, err := core.ParseColor(c.String())
		if err != nil || got != c {
			t.Errorf("parse %q: expected %s, got %s (%v)", c.String(), c, got, err)
		}
	}
	if c, err := core.ParseColor("NONE"); err != nil || c != core.ColorNone {
		t.Errorf("expected none, got %s (%v)", c, err)
	}
	if _, err := core.ParseColor("ultraviolet"); !errors.Is(err, core.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
}
