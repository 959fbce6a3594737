package game

// Point is a screen-space coordinate supplied by the presentation layer.
type Point struct {
	X, Y int
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Geometry describes where the grid sits on screen. The presentation layer
// supplies it; the core does the coordinate math.
type Geometry struct {
	OriginX, OriginY int
	CellW, CellH     int
}

// AnchorAt maps a screen point to the grid cell under it.
func (g Geometry) AnchorAt(p Point, size int) (Position, bool) {
	if g.CellW <= 0 || g.CellH <= 0 {
		return Position{}, false
	}
	dx := p.X - g.OriginX
	dy := p.Y - g.OriginY
	if dx < 0 || dy < 0 {
		return Position{}, false
	}
	return NewPosition(dy/g.CellH, dx/g.CellW, size)
}

type DragState int

const (
	DragIdle DragState = iota
	DragActive
	DragCommitting
	DragCancelled
)

// DragSession is the ephemeral state of one drag. It is created on pointer
// press, destroyed at release or cancel, and never reused. Offset is the
// finger-to-block distance captured once at start; it stays constant for
// the session so the block tracks the finger instead of snapping to it.
type DragSession struct {
	Slot    int
	Pattern Pattern
	Start   Point
	Offset  Point
	Pointer Point
}

// BlockTopLeft is the screen position of the dragged block's anchor cell.
func (s *DragSession) BlockTopLeft() Point {
	return s.Pointer.Sub(s.Offset)
}

// DropResult reports how a drag ended.
type DropResult struct {
	Placed bool
	Slot   int
	Anchor Position
	Clear  LineClearResult
}

// Machine converts the pointer stream into grid-anchor hypotheses and
// preview requests. At most one drag is active at a time; a Start while
// dragging is ignored, which substitutes for locking since all calls run
// on the event thread.
type Machine struct {
	engine  *Engine
	tray    *Tray
	geom    Geometry
	state   DragState
	session *DragSession
}

func NewMachine(engine *Engine, tray *Tray) *Machine {
	return &Machine{engine: engine, tray: tray}
}

func (m *Machine) SetGeometry(g Geometry) {
	m.geom = g
}

func (m *Machine) State() DragState {
	return m.state
}

// Session returns a copy of the active session, or nil when idle.
func (m *Machine) Session() *DragSession {
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Start begins a drag for the given tray slot. Rejected (returning false)
// while another drag is active or when the slot holds no pattern.
// blockTopLeft is the rendered top-left corner of the block at press time.
func (m *Machine) Start(slot int, pointer, blockTopLeft Point) bool {
	if m.state != DragIdle {
		return false
	}
	p := m.tray.Slot(slot)
	if p == nil {
		return false
	}
	m.session = &DragSession{
		Slot:    slot,
		Pattern: *p,
		Start:   pointer,
		Offset:  pointer.Sub(blockTopLeft),
		Pointer: pointer,
	}
	m.state = DragActive
	return true
}

// Update recomputes the floating block anchor from the new pointer
// location and asks the engine for a preview. The grid's preview overlay
// is refreshed so renderers see the ghost; nothing persistent is written.
func (m *Machine) Update(pointer Point) PreviewResult {
	if m.state != DragActive {
		return PreviewResult{}
	}
	m.session.Pointer = pointer

	result := m.previewCurrent()
	if result.Valid {
		m.engine.grid.setPreview(result.Positions, m.session.Pattern.Color)
	} else {
		m.engine.grid.clearPreview()
	}
	return result
}

// End performs the final coordinate mapping and either commits the
// placement (regenerating the consumed tray slot) or cancels. A drag whose
// anchor never entered the grid always cancels.
func (m *Machine) End(pointer Point) DropResult {
	if m.state != DragActive {
		return DropResult{}
	}
	m.session.Pointer = pointer
	m.engine.grid.clearPreview()

	anchor, ok := m.geom.AnchorAt(m.session.BlockTopLeft(), m.engine.grid.size)
	if !ok {
		m.finish(DragCancelled)
		return DropResult{}
	}

	slot := m.session.Slot
	clear, err := m.engine.Commit(m.session.Pattern, anchor)
	if err != nil {
		m.finish(DragCancelled)
		return DropResult{}
	}

	m.finish(DragCommitting)
	m.tray.Regenerate(slot)
	return DropResult{
		Placed: true,
		Slot:   slot,
		Anchor: anchor,
		Clear:  clear,
	}
}

// Cancel discards the session without touching the grid. Used when the
// owning pointer is invalidated externally; identical to a failed End.
func (m *Machine) Cancel() {
	if m.state != DragActive {
		return
	}
	m.engine.grid.clearPreview()
	m.finish(DragCancelled)
}

func (m *Machine) finish(via DragState) {
	// Committing and Cancelled are pass-through states; the machine always
	// settles back in Idle with the session destroyed.
	m.state = via
	m.session = nil
	m.state = DragIdle
}

func (m *Machine) previewCurrent() PreviewResult {
	anchor, ok := m.geom.AnchorAt(m.session.BlockTopLeft(), m.engine.grid.size)
	if !ok {
		return PreviewResult{}
	}
	return m.engine.Preview(m.session.Pattern, anchor)
}
