package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
)

// straightRun builds a 3x3 puzzle with a blue input on the left of row 1, a
// blue output on the right, and three straight tiles joining them.
func straightRun(t *testing.T) (*core.Puzzle, *core.Board) {
	t.Helper()
	p := newPuzzle(t, 3)
	p.Inputs = []core.Edge{{Pos: core.C(-1, 1), Dir: core.Left, Color: core.Blue, Pressure: 1}}
	p.Outputs = []core.Edge{{Pos: core.C(3, 1), Dir: core.Right, Color: core.Blue, Pressure: 1}}
	b := core.NewBoard(3)
	for x := 0; x < 3; x++ {
		place(b, core.C(x, 1), core.KindStraight, core.Left)
	}
	return p, b
}

// mixJunction builds a 3x3 puzzle where inputs enter row 1 from both sides,
// meet at an action tile in the center, and leave upward.
func mixJunction(t *testing.T, kind core.TileKind, left, right, out core.Edge) (*core.Puzzle, *core.Board) {
	t.Helper()
	p := newPuzzle(t, 3)
	left.Pos, left.Dir = core.C(-1, 1), core.Left
	right.Pos, right.Dir = core.C(3, 1), core.Right
	out.Pos, out.Dir = core.C(1, -1), core.Up
	p.Inputs = []core.Edge{left, right}
	p.Outputs = []core.Edge{out}

	b := core.NewBoard(3)
	place(b, core.C(0, 1), core.KindStraight, core.Left).Property(core.KeyInternal).Pressure = left.Pressure
	place(b, core.C(2, 1), core.KindStraight, core.Left).Property(core.KeyInternal).Pressure = right.Pressure
	place(b, core.C(1, 0), core.KindStraight, core.Up).Property(core.KeyInternal).Pressure = out.Pressure
	place(b, core.C(1, 1), kind, core.Left).Property(core.KeyUp).Pressure = out.Pressure
	return p, b
}

func TestSimulatorLeaksIntoEmptyCell(t *testing.T) {
	p := newPuzzle(t, 3)
	p.Inputs = []core.Edge{{Pos: core.C(-1, 1), Dir: core.Left, Color: core.Blue, Pressure: 1}}
	p.Outputs = []core.Edge{{Pos: core.C(3, 1), Dir: core.Right, Color: core.Blue, Pressure: 1}}
	rec := newRecorder()
	sim := core.NewSimulator(core.NewBoard(3), p, rec, core.DefaultOptions())

	sum, err := sim.RunToCompletion(10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(sum.Leaks) != 1 {
		t.Fatalf("expected 1 leak, got %d", len(sum.Leaks))
	}
	leak := sum.Leaks[0]
	if leak.Pos != core.C(0, 1) || len(leak.Colors) != 1 || leak.Colors[0] != core.Blue {
		t.Errorf("unexpected leak %+v", leak)
	}
	if sum.Victory || rec.victories != 0 {
		t.Error("expected no victory")
	}
}

func TestSimulatorStraightRunVictory(t *testing.T) {
	p, b := straightRun(t)
	rec := newRecorder()
	sim := core.NewSimulator(b, p, rec, core.DefaultOptions())
	sim.Init()

	for step := 1; step <= 3; step++ {
		res, err := sim.Step()
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if res.Victory {
			t.Fatalf("victory too early at step %d", step)
		}
	}

	res, err := sim.Step()
	if err != nil {
		t.Fatalf("step 4: %v", err)
	}
	if !res.Victory || !sim.Victory() {
		t.Fatal("expected victory on step 4")
	}
	if len(res.Satisfied) != 1 {
		t.Errorf("expected 1 satisfied output, got %d", len(res.Satisfied))
	}
	if len(sim.Leaks()) != 0 {
		t.Errorf("expected no leaks, got %d", len(sim.Leaks()))
	}
	if rec.victories != 1 {
		t.Errorf("expected 1 victory callback, got %d", rec.victories)
	}
	if !sim.Idle() {
		t.Error("expected queue to be empty")
	}

	for x := 0; x < 3; x++ {
		f := b.At(core.C(x, 1)).Flow(core.KeyInternal)
		if f == nil || f.Color != core.Blue || f.Step != x+1 {
			t.Errorf("(%d,1): unexpected flow %+v", x, f)
		}
	}
}

func TestSimulatorWrongOutputColorLeaks(t *testing.T) {
	p, b := straightRun(t)
	p.Outputs[0].Color = core.Red
	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())

	sum, err := sim.RunToCompletion(10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Victory {
		t.Error("expected no victory")
	}
	if len(sum.Leaks) != 1 || sum.Leaks[0].Pos != core.C(3, 1) {
		t.Errorf("expected one leak at (3,1), got %+v", sum.Leaks)
	}
}

func TestSimulatorFilterRecolorsFlow(t *testing.T) {
	p, b := straightRun(t)
	p.Inputs[0].Color = core.Red
	p.Filters = []core.Filter{{Pos: core.C(0, 1), Dir: core.Right, Color: core.Blue}}
	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())

	sum, err := sim.RunToCompletion(10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !sum.Victory || len(sum.Leaks) != 0 {
		t.Errorf("expected clean victory, got %+v", sum)
	}
	if got := b.At(core.C(0, 1)).Flow(core.KeyInternal).Color; got != core.Red {
		t.Errorf("expected red before the filter, got %s", got)
	}
	if got := b.At(core.C(1, 1)).Flow(core.KeyInternal).Color; got != core.Blue {
		t.Errorf("expected blue after the filter, got %s", got)
	}
}

func TestSimulatorLabelRefusesFlow(t *testing.T) {
	p, b := straightRun(t)
	b.At(core.C(1, 1)).Property(core.KeyInternal).Color = core.Yellow
	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())

	sum, err := sim.RunToCompletion(10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Victory {
		t.Error("expected no victory")
	}
	if len(sum.Leaks) != 1 || sum.Leaks[0].Pos != core.C(1, 1) {
		t.Errorf("expected one leak at (1,1), got %+v", sum.Leaks)
	}
}

func TestSimulatorMix(t *testing.T) {
	testCases := []struct {
		name         string
		kind         core.TileKind
		left, right  core.Edge
		out          core.Edge
		wantVictory  bool
		wantLeaks    int
		wantOutColor core.Color
	}{
		{
			name:        "mix red and yellow",
			kind:        core.KindMix,
			left:        core.Edge{Color: core.Red, Pressure: 1},
			right:       core.Edge{Color: core.Yellow, Pressure: 1},
			out:         core.Edge{Color: core.Orange, Pressure: 1},
			wantVictory: true,
		},
		{
			name:      "mix above pressure one",
			kind:      core.KindMix,
			left:      core.Edge{Color: core.Red, Pressure: 2},
			right:     core.Edge{Color: core.Yellow, Pressure: 1},
			out:       core.Edge{Color: core.Orange, Pressure: 1},
			wantLeaks: 1,
		},
		{
			name:      "mix without recipe",
			kind:      core.KindMix,
			left:      core.Edge{Color: core.Red, Pressure: 1},
			right:     core.Edge{Color: core.Red, Pressure: 1},
			out:       core.Edge{Color: core.Orange, Pressure: 1},
			wantLeaks: 1,
		},
		{
			name:        "up adds pressure",
			kind:        core.KindUp,
			left:        core.Edge{Color: core.Blue, Pressure: 1},
			right:       core.Edge{Color: core.Blue, Pressure: 2},
			out:         core.Edge{Color: core.Blue, Pressure: 3},
			wantVictory: true,
		},
		{
			name:      "up with different colors",
			kind:      core.KindUp,
			left:      core.Edge{Color: core.Blue, Pressure: 1},
			right:     core.Edge{Color: core.Red, Pressure: 1},
			out:       core.Edge{Color: core.Blue, Pressure: 2},
			wantLeaks: 1,
		},
		{
			name:      "up above max pressure",
			kind:      core.KindUp,
			left:      core.Edge{Color: core.Blue, Pressure: 3},
			right:     core.Edge{Color: core.Blue, Pressure: 2},
			out:       core.Edge{Color: core.Blue, Pressure: 4},
			wantLeaks: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, b := mixJunction(t, tc.kind, tc.left, tc.right, tc.out)
			sim := core.NewSimulator(b, p, nil, core.DefaultOptions())

			sum, err := sim.RunToCompletion(10)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if sum.Victory != tc.wantVictory {
				t.Errorf("expected victory %v, got %v", tc.wantVictory, sum.Victory)
			}
			if len(sum.Leaks) != tc.wantLeaks {
				t.Errorf("expected %d leaks, got %d", tc.wantLeaks, len(sum.Leaks))
			}
			if tc.wantVictory && sum.Steps != 4 {
				t.Errorf("expected victory after 4 steps, got %d", sum.Steps)
			}
			if tc.wantLeaks > 0 && sum.Leaks[0].Pos != core.C(1, 1) {
				t.Errorf("expected leak at the junction, got %v", sum.Leaks[0].Pos)
			}
		})
	}
}

func TestSimulatorUnmixUsesHint(t *testing.T) {
	p := newPuzzle(t, 3)
	p.Inputs = []core.Edge{{Pos: core.C(-1, 1), Dir: core.Left, Color: core.Orange, Pressure: 1}}
	p.Outputs = []core.Edge{
		{Pos: core.C(1, -1), Dir: core.Up, Color: core.Red, Pressure: 1},
		{Pos: core.C(3, 1), Dir: core.Right, Color: core.Yellow, Pressure: 1},
	}
	b := core.NewBoard(3)
	place(b, core.C(0, 1), core.KindStraight, core.Left)
	place(b, core.C(2, 1), core.KindStraight, core.Left)
	place(b, core.C(1, 0), core.KindStraight, core.Up)
	unmix := place(b, core.C(1, 1), core.KindUnmix, core.Left)
	unmix.Property(core.KeyUp).Color = core.Red

	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())
	sum, err := sim.RunToCompletion(10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !sum.Victory || len(sum.Leaks) != 0 {
		t.Fatalf("expected clean victory, got %+v", sum)
	}
	if got := unmix.Flow(core.KeyRight); got == nil || got.Color != core.Yellow {
		t.Errorf("expected yellow out of the right port, got %+v", got)
	}

	// Without a hint the split is ambiguous.
	unmix.Property(core.KeyUp).Color = core.ColorNone
	sim.Reset()
	sum, err = sim.RunToCompletion(10)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if sum.Victory || len(sum.Leaks) != 1 {
		t.Errorf("expected a single leak, got %+v", sum)
	}
}

func TestSimulatorDownSplitsPressure(t *testing.T) {
	p := newPuzzle(t, 3)
	p.Inputs = []core.Edge{{Pos: core.C(-1, 1), Dir: core.Left, Color: core.Teal, Pressure: 3}}
	p.Outputs = []core.Edge{
		{Pos: core.C(1, -1), Dir: core.Up, Color: core.Teal, Pressure: 1},
		{Pos: core.C(3, 1), Dir: core.Right, Color: core.Teal, Pressure: 2},
	}
	b := core.NewBoard(3)
	place(b, core.C(0, 1), core.KindStraight, core.Left).Property(core.KeyInternal).Pressure = 3
	place(b, core.C(2, 1), core.KindStraight, core.Left).Property(core.KeyInternal).Pressure = 2
	place(b, core.C(1, 0), core.KindStraight, core.Up)
	down := place(b, core.C(1, 1), core.KindDown, core.Left)
	down.Property(core.KeyRight).Pressure = 2

	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())
	sum, err := sim.RunToCompletion(10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !sum.Victory || len(sum.Leaks) != 0 {
		t.Errorf("expected clean victory, got %+v", sum)
	}
}

func TestSimulatorExcludedPortLeaks(t *testing.T) {
	p := newPuzzle(t, 3)
	p.Inputs = []core.Edge{{Pos: core.C(1, 3), Dir: core.Down, Color: core.Red, Pressure: 1}}
	p.Outputs = []core.Edge{{Pos: core.C(1, -1), Dir: core.Up, Color: core.Red, Pressure: 1}}
	b := core.NewBoard(3)
	place(b, core.C(1, 2), core.KindStraight, core.Up)
	place(b, core.C(1, 1), core.KindMix, core.Left)

	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())
	sum, err := sim.RunToCompletion(10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(sum.Leaks) != 1 || sum.Leaks[0].Pos != core.C(1, 1) {
		t.Errorf("expected leak at the excluded port, got %+v", sum.Leaks)
	}
}

func TestSimulatorTickAccumulates(t *testing.T) {
	p, b := straightRun(t)
	sim := core.NewSimulator(b, p, nil, core.Options{StepDuration: 100 * time.Millisecond})

	if res, _ := sim.Tick(time.Second); res != nil {
		t.Error("expected no steps before Init")
	}

	sim.Init()
	res, err := sim.Tick(250 * time.Millisecond)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(res))
	}
	res, _ = sim.Tick(50 * time.Millisecond)
	if len(res) != 1 || res[0].Step != 3 {
		t.Fatalf("expected step 3 after carry-over, got %+v", res)
	}
	res, _ = sim.Tick(time.Second)
	if len(res) != 1 || !res[0].Victory {
		t.Fatalf("expected a final victory step, got %+v", res)
	}
	if res, _ = sim.Tick(time.Second); len(res) != 0 {
		t.Errorf("expected idle simulator to do nothing, got %d steps", len(res))
	}
}

func TestSimulatorResetIsIdempotent(t *testing.T) {
	p, b := straightRun(t)
	rec := newRecorder()
	sim := core.NewSimulator(b, p, rec, core.DefaultOptions())

	if _, err := sim.RunToCompletion(10); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	sim.Reset()
	sim.Reset()

	if sim.Victory() || sim.Running() || sim.StepCount() != 0 {
		t.Error("expected reset state")
	}
	if fx := sim.Effects(); len(fx.Edges) != 0 || len(fx.Leaks) != 0 {
		t.Errorf("expected no effects, got %+v", fx)
	}
	b.Each(func(c core.Coord, tile *core.Tile) {
		if tile.TotalFlows() != 0 {
			t.Errorf("%v: flows survived reset", c)
		}
	})

	sum, err := sim.RunToCompletion(10)
	if err != nil || !sum.Victory {
		t.Fatalf("expected victory on rerun, got %+v (%v)", sum, err)
	}
	if rec.victories != 2 {
		t.Errorf("expected one victory per run, got %d", rec.victories)
	}
}

func TestSimulatorEffects(t *testing.T) {
	p, b := straightRun(t)
	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())
	sim.Init()

	fx := sim.Effects()
	if len(fx.Edges) != 1 || fx.Edges[0].Output {
		t.Fatalf("expected one input edge flow, got %+v", fx.Edges)
	}

	if _, err := sim.RunToCompletion(10); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	fx = sim.Effects()
	if len(fx.Edges) != 2 || !fx.Edges[1].Output {
		t.Errorf("expected an output edge flow, got %+v", fx.Edges)
	}
}

// crossCorner builds a 3x3 puzzle with a cross in the top-left corner fed by
// a red input from the left and a second input from above.
func crossCorner(t *testing.T, above core.Color) (*core.Puzzle, *core.Board, *core.Tile) {
	t.Helper()
	p := newPuzzle(t, 3)
	p.Inputs = []core.Edge{
		{Pos: core.C(-1, 0), Dir: core.Left, Color: core.Red, Pressure: 1},
		{Pos: core.C(0, -1), Dir: core.Up, Color: above, Pressure: 1},
	}
	p.Outputs = []core.Edge{{Pos: core.C(3, 0), Dir: core.Right, Color: core.Red, Pressure: 1}}

	b := core.NewBoard(3)
	cross := place(b, core.C(0, 0), core.KindCross, core.Left)
	cross.Property(core.KeyHorizontal).Color = core.Red
	cross.Property(core.KeyVertical).Color = core.Blue
	return p, b, cross
}

func TestSimulatorCrossRoutesBothAxes(t *testing.T) {
	p, b, cross := crossCorner(t, core.Blue)
	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())
	sim.Init()

	res, err := sim.Step()
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if len(res.Leaks) != 0 {
		t.Fatalf("expected no leaks, got %+v", res.Leaks)
	}

	testCases := []struct {
		key   core.Key
		kind  core.FlowKind
		color core.Color
		to    core.Direction
	}{
		{core.KeyHorizontal, core.FlowStraight, core.Red, core.Right},
		{core.KeyVertical, core.FlowCrossUnder, core.Blue, core.Down},
	}
	for _, tc := range testCases {
		f := cross.Flow(tc.key)
		if f == nil {
			t.Errorf("%s: expected a flow", tc.key)
			continue
		}
		if f.Kind != tc.kind || f.Color != tc.color || f.To != tc.to {
			t.Errorf("%s: unexpected flow %+v", tc.key, f)
		}
	}

	want := map[core.IncomingFlow]bool{
		{Pos: core.C(1, 0), Dir: core.Right, Color: core.Red, Pressure: 1}:  true,
		{Pos: core.C(0, 1), Dir: core.Down, Color: core.Blue, Pressure: 1}: true,
	}
	if len(res.Flows) != len(want) {
		t.Fatalf("expected %d continuations, got %+v", len(want), res.Flows)
	}
	for _, f := range res.Flows {
		if !want[f] {
			t.Errorf("unexpected continuation %+v", f)
		}
	}
}

func TestSimulatorCrossLabelRefusesFlow(t *testing.T) {
	p, b, cross := crossCorner(t, core.Yellow)
	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())
	sim.Init()

	res, err := sim.Step()
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if len(res.Leaks) != 1 || res.Leaks[0].Pos != core.C(0, 0) || res.Leaks[0].Colors[0] != core.Yellow {
		t.Fatalf("expected one yellow leak at the cross, got %+v", res.Leaks)
	}
	if cross.HasFlow(core.KeyVertical) {
		t.Error("vertical slot should stay empty")
	}
	if !cross.HasFlow(core.KeyHorizontal) {
		t.Error("horizontal flow should still pass")
	}
}

func TestSimulatorCrossOccupiedSlotLeaks(t *testing.T) {
	p := newPuzzle(t, 3)
	p.Inputs = []core.Edge{
		{Pos: core.C(-1, 0), Dir: core.Left, Color: core.Red, Pressure: 1},
		{Pos: core.C(3, 0), Dir: core.Right, Color: core.Red, Pressure: 1},
	}
	p.Outputs = []core.Edge{{Pos: core.C(1, 3), Dir: core.Down, Color: core.Red, Pressure: 1}}

	b := core.NewBoard(3)
	place(b, core.C(0, 0), core.KindStraight, core.Left)
	place(b, core.C(2, 0), core.KindStraight, core.Left)
	cross := place(b, core.C(1, 0), core.KindCross, core.Left)

	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())
	sim.Init()
	if _, err := sim.Step(); err != nil {
		t.Fatalf("step 1 failed: %v", err)
	}

	// Both flows reach the cross on the horizontal axis in the same step.
	res, err := sim.Step()
	if err != nil {
		t.Fatalf("step 2 failed: %v", err)
	}
	if len(res.Leaks) != 1 || res.Leaks[0].Pos != core.C(1, 0) {
		t.Fatalf("expected one leak at the cross, got %+v", res.Leaks)
	}
	if f := cross.Flow(core.KeyHorizontal); f == nil || f.From != core.Right {
		t.Errorf("expected the first flow to hold the slot, got %+v", f)
	}
	if cross.HasFlow(core.KeyVertical) {
		t.Error("vertical slot should stay empty")
	}
}

func TestSimulatorMissingPendingIsDefect(t *testing.T) {
	p := newPuzzle(t, 3)
	p.Inputs = []core.Edge{{Pos: core.C(-1, 1), Dir: core.Left, Color: core.Red, Pressure: 1}}
	p.Outputs = []core.Edge{{Pos: core.C(0, -1), Dir: core.Up, Color: core.Red, Pressure: 1}}
	b := core.NewBoard(3)
	mix := place(b, core.C(0, 1), core.KindMix, core.Left)

	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())
	sim.Init()
	// A flow the simulator never buffered.
	if err := mix.AddFlow(core.KeyUp, &core.Flow{Kind: core.FlowActionIn, Color: core.Blue, Pressure: 1}); err != nil {
		t.Fatalf("AddFlow failed: %v", err)
	}

	_, err := sim.Step()
	if !errors.Is(err, core.ErrMissingPending) {
		t.Errorf("expected ErrMissingPending, got %v", err)
	}
}

func TestSimulatorUnknownKindIsDefect(t *testing.T) {
	p, b := straightRun(t)
	b.At(core.C(0, 1)).Kind = core.TileKind(9)

	sim := core.NewSimulator(b, p, nil, core.DefaultOptions())
	sim.Init()

	_, err := sim.Step()
	var kindErr *core.UnknownKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("expected UnknownKindError, got %v", err)
	}
	if kindErr.Kind != core.TileKind(9) {
		t.Errorf("unexpected kind %d", kindErr.Kind)
	}
}
