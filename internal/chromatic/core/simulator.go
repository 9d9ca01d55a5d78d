package core

import (
	"fmt"
	"time"
)

// DefaultStepDuration is how much elapsed time one simulation step consumes.
const DefaultStepDuration = 600 * time.Millisecond

// IncomingFlow is a flow entering cell Pos while travelling in Dir.
type IncomingFlow struct {
	Pos      Coord
	Dir      Direction
	Color    Color
	Pressure int
}

// Leak marks a flow that could not be admitted. It is cosmetic: nothing in
// the simulation depends on it after it is created.
type Leak struct {
	Pos      Coord
	Colors   []Color
	Dir      Direction
	Directed bool // Dir biases the leak's spray
	Delay    time.Duration
	Step     int
}

// EdgeFlow is a flow entering from an input or leaving into a satisfied output.
type EdgeFlow struct {
	Edge   Edge
	Output bool
	Step   int
}

// StepResult contains information about what happened during a simulation step.
type StepResult struct {
	Step      int
	Flows     []IncomingFlow // queued for the next step
	Leaks     []Leak
	Satisfied []Edge
	Victory   bool
}

// Effects is a snapshot of the visual effects a renderer should draw.
type Effects struct {
	Edges []EdgeFlow
	Leaks []Leak
}

// Summary aggregates a run of steps.
type Summary struct {
	Steps   int
	Leaks   []Leak
	Victory bool
}

// Options configures a Simulator.
type Options struct {
	StepDuration time.Duration
	LeakDelay    time.Duration
}

// DefaultOptions returns the default simulator options.
func DefaultOptions() Options {
	return Options{StepDuration: DefaultStepDuration}
}

// Simulator advances flows through the board in discrete steps.
type Simulator struct {
	board    *Board
	puzzle   *Puzzle
	listener Listener
	opts     Options

	queue     []IncomingFlow
	pending   map[int]IncomingFlow // board index -> first input of an additive tile
	satisfied []bool
	leaks     []Leak
	edges     []EdgeFlow
	elapsed   time.Duration
	step      int
	victory   bool
	running   bool
}

// NewSimulator creates a simulator. A nil listener is replaced by NopListener.
func NewSimulator(board *Board, puzzle *Puzzle, listener Listener, opts Options) *Simulator {
	if listener == nil {
		listener = NopListener{}
	}
	if opts.StepDuration <= 0 {
		opts.StepDuration = DefaultStepDuration
	}
	return &Simulator{
		board:     board,
		puzzle:    puzzle,
		listener:  listener,
		opts:      opts,
		pending:   make(map[int]IncomingFlow),
		satisfied: make([]bool, len(puzzle.Outputs)),
	}
}

// Init resets the simulator and queues one flow per puzzle input.
func (s *Simulator) Init() {
	s.Reset()
	for _, in := range s.puzzle.Inputs {
		s.queue = append(s.queue, IncomingFlow{
			Pos:      in.Interior(),
			Dir:      in.Dir.Flip(),
			Color:    in.Color,
			Pressure: in.Pressure,
		})
		s.edges = append(s.edges, EdgeFlow{Edge: in})
	}
	s.running = true
}

// Reset clears all simulation state, including the flows held by tiles.
// It is safe to call repeatedly.
func (s *Simulator) Reset() {
	s.queue = nil
	s.pending = make(map[int]IncomingFlow)
	s.satisfied = make([]bool, len(s.puzzle.Outputs))
	s.leaks = nil
	s.edges = nil
	s.elapsed = 0
	s.step = 0
	s.victory = false
	s.running = false
	s.board.ClearFlows()
}

// Running returns true between Init and Reset.
func (s *Simulator) Running() bool {
	return s.running
}

// Idle returns true when no flows are queued.
func (s *Simulator) Idle() bool {
	return len(s.queue) == 0
}

// Victory returns true once every output has been satisfied.
func (s *Simulator) Victory() bool {
	return s.victory
}

// StepCount returns the number of steps processed since Init.
func (s *Simulator) StepCount() int {
	return s.step
}

// Queue returns a copy of the flows waiting for the next step.
func (s *Simulator) Queue() []IncomingFlow {
	out := make([]IncomingFlow, len(s.queue))
	copy(out, s.queue)
	return out
}

// Leaks returns the leaks created since Init.
func (s *Simulator) Leaks() []Leak {
	out := make([]Leak, len(s.leaks))
	copy(out, s.leaks)
	return out
}

// EdgeFlows returns the active input and output edge flows.
func (s *Simulator) EdgeFlows() []EdgeFlow {
	out := make([]EdgeFlow, len(s.edges))
	copy(out, s.edges)
	return out
}

// Effects returns the transient effects owned by the simulator. They live
// until the next Reset or Init.
func (s *Simulator) Effects() Effects {
	return Effects{Edges: s.EdgeFlows(), Leaks: s.Leaks()}
}

// Satisfied reports whether output i has been matched.
func (s *Simulator) Satisfied(i int) bool {
	return i >= 0 && i < len(s.satisfied) && s.satisfied[i]
}

// Tick accumulates elapsed time and runs a step each time a full step
// duration has accumulated.
func (s *Simulator) Tick(elapsed time.Duration) ([]StepResult, error) {
	if !s.running {
		return nil, nil
	}
	s.elapsed += elapsed

	var results []StepResult
	for s.elapsed >= s.opts.StepDuration {
		s.elapsed -= s.opts.StepDuration
		if s.Idle() {
			s.elapsed = 0
			break
		}
		res, err := s.Step()
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// RunToCompletion steps until the queue drains, victory, or maxSteps is reached.
func (s *Simulator) RunToCompletion(maxSteps int) (Summary, error) {
	if !s.running {
		s.Init()
	}
	var sum Summary
	for sum.Steps < maxSteps && !s.Idle() && !s.victory {
		res, err := s.Step()
		sum.Steps++
		sum.Leaks = append(sum.Leaks, res.Leaks...)
		if err != nil {
			sum.Victory = s.victory
			return sum, err
		}
	}
	sum.Victory = s.victory
	return sum, nil
}

// Step drains the current queue. Every flow is evaluated against the board
// as it stood when the step began; continuations go to the next step.
func (s *Simulator) Step() (StepResult, error) {
	s.step++
	res := StepResult{Step: s.step}

	current := s.queue
	s.queue = nil
	for _, f := range current {
		if err := s.process(f, &res); err != nil {
			return res, fmt.Errorf("step %d, flow at %s: %w", s.step, f.Pos, err)
		}
	}

	res.Flows = s.Queue()
	return res, nil
}

func (s *Simulator) process(f IncomingFlow, res *StepResult) error {
	if !s.board.InBounds(f.Pos) {
		s.exit(f, res)
		return nil
	}

	t := s.board.At(f.Pos)
	if t == nil {
		s.leak(res, f.Pos, f.Dir, true, f.Color)
		return nil
	}

	if filter, ok := s.puzzle.FilterAt(f.Pos.Step(f.Dir.Flip()), f.Dir); ok {
		f.Color = filter.Color
	}

	switch t.Kind {
	case KindStraight:
		if f.Dir.Axis() != t.Dir.Axis() {
			s.leak(res, f.Pos, f.Dir, true, f.Color)
			return nil
		}
		return s.route(t, f, KeyInternal, f.Dir, FlowStraight, res)
	case KindCurve:
		out, ok := OutputCurve(t.Dir, f.Dir)
		if !ok {
			s.leak(res, f.Pos, f.Dir, true, f.Color)
			return nil
		}
		return s.route(t, f, KeyInternal, out, FlowCurve, res)
	case KindCross:
		key, _ := t.EntryKey(f.Dir)
		kind := FlowStraight
		if f.Dir.Axis() != t.Dir.Axis() {
			kind = FlowCrossUnder
		}
		return s.route(t, f, key, f.Dir, kind, res)
	case KindMix, KindUnmix, KindUp, KindDown:
		return s.action(t, f, res)
	default:
		return &UnknownKindError{Kind: t.Kind}
	}
}

// route passes a flow through a straight, curve or cross slot.
func (s *Simulator) route(t *Tile, f IncomingFlow, key Key, out Direction, kind FlowKind, res *StepResult) error {
	if t.HasFlow(key) || !t.CanAccept(key, f.Color, f.Pressure) {
		s.leak(res, f.Pos, f.Dir, true, f.Color)
		return nil
	}
	if err := t.AddFlow(key, s.flow(kind, f, out)); err != nil {
		return err
	}
	s.enqueue(f.Pos.Step(out), out, f.Color, f.Pressure)
	return nil
}

func (s *Simulator) action(t *Tile, f IncomingFlow, res *StepResult) error {
	if t.Excludes(f.Dir) {
		s.leak(res, f.Pos, f.Dir, true, f.Color)
		return nil
	}
	key, _ := t.EntryKey(f.Dir)
	idx := s.board.Index(f.Pos)

	if t.Kind.IsAdditive() {
		switch t.TotalFlows() {
		case 0:
			if err := t.AddFlow(key, s.flow(FlowActionIn, f, f.Dir)); err != nil {
				return err
			}
			s.pending[idx] = f
			return nil
		case 1:
			first, ok := s.pending[idx]
			if !ok {
				return ErrMissingPending
			}
			if t.HasFlow(key) {
				s.leak(res, f.Pos, f.Dir, true, f.Color)
				return nil
			}
			if err := t.AddFlow(key, s.flow(FlowActionIn, f, f.Dir)); err != nil {
				return err
			}
			delete(s.pending, idx)
			return s.combine(t, f.Pos, first, f, res)
		default:
			s.leak(res, f.Pos, f.Dir, true, f.Color)
			return nil
		}
	}

	if t.TotalFlows() != 0 {
		s.leak(res, f.Pos, f.Dir, true, f.Color)
		return nil
	}
	if err := t.AddFlow(key, s.flow(FlowActionIn, f, f.Dir)); err != nil {
		return err
	}
	return s.split(t, f, key, res)
}

// combine evaluates a MIX or UP tile once both inputs have arrived.
func (s *Simulator) combine(t *Tile, pos Coord, a, b IncomingFlow, res *StepResult) error {
	outKey, ok := outputPort(t, a.Dir, b.Dir)
	if !ok {
		s.leak(res, pos, b.Dir, false, a.Color, b.Color)
		return nil
	}

	var color Color
	var pressure int
	switch t.Kind {
	case KindMix:
		if a.Pressure != 1 || b.Pressure != 1 {
			s.leak(res, pos, b.Dir, false, a.Color, b.Color)
			return nil
		}
		m, ok := MixColors(a.Color, b.Color)
		if !ok {
			s.leak(res, pos, b.Dir, false, a.Color, b.Color)
			return nil
		}
		color, pressure = m, 1
	case KindUp:
		if a.Color != b.Color {
			s.leak(res, pos, b.Dir, false, a.Color, b.Color)
			return nil
		}
		if a.Pressure+b.Pressure > MaxPressure {
			s.leak(res, pos, b.Dir, false, a.Color)
			return nil
		}
		color, pressure = a.Color, a.Pressure+b.Pressure
	default:
		return &UnknownKindError{Kind: t.Kind}
	}

	if !t.CanAccept(outKey, color, pressure) {
		s.leak(res, pos, t.PortDir(outKey), true, color)
		return nil
	}
	return s.emit(t, pos, outKey, color, pressure, b.Dir)
}

// split evaluates an UNMIX or DOWN tile on its single input.
func (s *Simulator) split(t *Tile, f IncomingFlow, inKey Key, res *StepResult) error {
	outs := otherPorts(t, inKey)
	k1, k2 := outs[0], outs[1]
	p1, p2 := t.Property(k1), t.Property(k2)

	var c1, c2 Color
	var q1, q2 int
	switch t.Kind {
	case KindUnmix:
		if f.Pressure != 1 {
			s.leak(res, f.Pos, f.Dir, true, f.Color)
			return nil
		}
		ok := true
		switch {
		case p1.Color != ColorNone && p2.Color != ColorNone:
			m, mixed := MixColors(p1.Color, p2.Color)
			ok = mixed && m == f.Color
			c1, c2 = p1.Color, p2.Color
		case p1.Color != ColorNone:
			c1 = p1.Color
			c2, ok = UnmixColor(f.Color, p1.Color)
		case p2.Color != ColorNone:
			c2 = p2.Color
			c1, ok = UnmixColor(f.Color, p2.Color)
		default:
			ok = false
		}
		if !ok {
			s.leak(res, f.Pos, f.Dir, true, f.Color)
			return nil
		}
		q1, q2 = 1, 1
	case KindDown:
		if p1.Pressure+p2.Pressure != f.Pressure {
			s.leak(res, f.Pos, f.Dir, true, f.Color)
			return nil
		}
		c1, c2 = f.Color, f.Color
		q1, q2 = p1.Pressure, p2.Pressure
	default:
		return &UnknownKindError{Kind: t.Kind}
	}

	if !t.CanAccept(k1, c1, q1) || !t.CanAccept(k2, c2, q2) {
		s.leak(res, f.Pos, f.Dir, true, f.Color)
		return nil
	}
	if err := s.emit(t, f.Pos, k1, c1, q1, f.Dir); err != nil {
		return err
	}
	return s.emit(t, f.Pos, k2, c2, q2, f.Dir)
}

// emit sends a flow out of an action tile port.
func (s *Simulator) emit(t *Tile, pos Coord, key Key, color Color, pressure int, from Direction) error {
	out := t.PortDir(key)
	f := IncomingFlow{Pos: pos, Dir: from, Color: color, Pressure: pressure}
	if err := t.AddFlow(key, s.flow(FlowActionOut, f, out)); err != nil {
		return err
	}
	s.enqueue(pos.Step(out), out, color, pressure)
	return nil
}

// exit handles a flow that has left the board.
func (s *Simulator) exit(f IncomingFlow, res *StepResult) {
	for i, o := range s.puzzle.Outputs {
		if s.satisfied[i] || o.Pos != f.Pos || o.Color != f.Color || o.Pressure != f.Pressure {
			continue
		}
		s.satisfied[i] = true
		s.edges = append(s.edges, EdgeFlow{Edge: o, Output: true, Step: s.step})
		res.Satisfied = append(res.Satisfied, o)

		if !s.victory && s.allSatisfied() {
			s.victory = true
			res.Victory = true
			s.listener.OnVictory()
		}
		return
	}
	s.leak(res, f.Pos, f.Dir, true, f.Color)
}

func (s *Simulator) allSatisfied() bool {
	for _, ok := range s.satisfied {
		if !ok {
			return false
		}
	}
	return true
}

func (s *Simulator) leak(res *StepResult, pos Coord, dir Direction, directed bool, colors ...Color) {
	l := Leak{
		Pos:      pos,
		Colors:   colors,
		Dir:      dir,
		Directed: directed,
		Delay:    s.opts.LeakDelay,
		Step:     s.step,
	}
	s.leaks = append(s.leaks, l)
	res.Leaks = append(res.Leaks, l)
}

func (s *Simulator) enqueue(pos Coord, dir Direction, color Color, pressure int) {
	s.queue = append(s.queue, IncomingFlow{Pos: pos, Dir: dir, Color: color, Pressure: pressure})
}

func (s *Simulator) flow(kind FlowKind, f IncomingFlow, out Direction) *Flow {
	return &Flow{
		Kind:     kind,
		Color:    f.Color,
		Pressure: f.Pressure,
		From:     f.Dir,
		To:       out,
		Step:     s.step,
	}
}

// outputPort finds the action tile port that neither input entered through.
func outputPort(t *Tile, a, b Direction) (Key, bool) {
	for _, k := range t.Keys() {
		entry := t.PortDir(k).Flip()
		if entry != a && entry != b {
			return k, true
		}
	}
	return KeyInternal, false
}

// otherPorts returns the two action tile ports other than in, in key order.
func otherPorts(t *Tile, in Key) []Key {
	out := make([]Key, 0, 2)
	for _, k := range t.Keys() {
		if k != in {
			out = append(out, k)
		}
	}
	return out
}
