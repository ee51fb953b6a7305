package daub

// Phase describes where a gesture is in its lifecycle. It is carried
// explicitly alongside the gesture points; consumers never infer idleness
// from point values.
type Phase int

const (
	// PhaseIdle means no drag is in progress and the source is shown
	// unmodified.
	PhaseIdle Phase = iota

	// PhaseDragging means a drag is in progress and frames render a
	// preview without touching the source.
	PhaseDragging

	// PhasePendingCommit means the drag has ended and the next rendered
	// frame must commit the effect into the source.
	PhasePendingCommit
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhasePendingCommit:
		return "pending-commit"
	default:
		return "unknown"
	}
}

// Gesture is an immutable snapshot of tracker state, read by the engine
// once per frame.
type Gesture struct {
	Start Point
	End   Point

	// Mid is the pivot point: the sampled drag point farthest from the
	// start-end chord. Arc and rotation passes fit through it.
	Mid Point

	Phase Phase

	// DragLength is the Euclidean distance from Start to End.
	DragLength float64
}

// Dragging reports whether the snapshot was taken mid-drag.
func (g Gesture) Dragging() bool {
	return g.Phase == PhaseDragging
}

// Tracker converts pointer input into a gesture descriptor. It is mutated
// only by input handlers and read by the engine once per frame; the host
// environment serializes the two, so Tracker does no locking.
type Tracker struct {
	start     Point
	end       Point
	midpoints []Point
	phase     Phase

	// markDirty is invoked after every mutation so the controller renders
	// a fresh frame. May be nil.
	markDirty func()
}

// NewTracker creates a tracker. markDirty, if non-nil, is called after
// every state change.
func NewTracker(markDirty func()) *Tracker {
	return &Tracker{markDirty: markDirty}
}

// DragStart begins a gesture at p: start and end collapse onto p and the
// midpoint list is cleared.
func (t *Tracker) DragStart(p Point) {
	t.start = p
	t.end = p
	t.midpoints = t.midpoints[:0]
	t.phase = PhaseDragging
	t.dirty()
}

// DragMove extends the gesture to p. The previous end point is appended to
// the midpoint list, so the first move records the start point. No-op
// unless a drag is in progress.
func (t *Tracker) DragMove(p Point) {
	if t.phase != PhaseDragging {
		return
	}
	t.midpoints = append(t.midpoints, t.end)
	t.end = p
	t.dirty()
}

// DragEnd finishes the gesture. The actual texture commit is deferred to
// the next render tick so the final frame sees a consistent snapshot.
// No-op unless a drag is in progress.
func (t *Tracker) DragEnd() {
	if t.phase != PhaseDragging {
		return
	}
	t.phase = PhasePendingCommit
	t.dirty()
}

// Reset returns the tracker to idle, discarding all gesture points.
// Called after a commit completes or when the background is replaced
// mid-drag.
func (t *Tracker) Reset() {
	t.start = Point{}
	t.end = Point{}
	t.midpoints = t.midpoints[:0]
	t.phase = PhaseIdle
}

// Phase returns the current gesture phase.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// Start returns the gesture start point.
func (t *Tracker) Start() Point {
	return t.start
}

// End returns the gesture end point.
func (t *Tracker) End() Point {
	return t.end
}

// Midpoints returns the sampled intermediate points in insertion order.
// The returned slice is owned by the tracker.
func (t *Tracker) Midpoints() []Point {
	return t.midpoints
}

// Pivot returns the candidate point farthest from the start-end chord,
// scanning the start point first and then the midpoints in insertion
// order. Ties resolve to the earliest candidate. With no recorded
// midpoints the start point wins by default.
func (t *Tracker) Pivot() Point {
	best := t.start
	bestDist := t.start.DistanceToChord(t.start, t.end)
	for _, p := range t.midpoints {
		if d := p.DistanceToChord(t.start, t.end); d > bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}

// Snapshot captures the tracker state for one frame of rendering.
func (t *Tracker) Snapshot() Gesture {
	return Gesture{
		Start:      t.start,
		End:        t.end,
		Mid:        t.Pivot(),
		Phase:      t.phase,
		DragLength: t.start.Distance(t.end),
	}
}

func (t *Tracker) dirty() {
	if t.markDirty != nil {
		t.markDirty()
	}
}
