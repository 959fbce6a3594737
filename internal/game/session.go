package game

import (
	"math/rand"
	"time"
)

// Config carries everything a session needs; the core holds no ambient or
// global state, so sessions are constructible anywhere (tests included).
type Config struct {
	GridSize     int
	TraySlots    int
	Scoring      Scoring
	HoldPolicy   SwapPolicy
	LockedImmune bool
	LockedCells  []Position // level obstacles seeded at start
	LockedColor  ColorID

	// Objective parameters, supplied opaquely by level data. Zero means
	// endless play.
	TargetScore int
	TargetLines int
}

func DefaultConfig() Config {
	return Config{
		GridSize:   DefaultGridSize,
		TraySlots:  3,
		Scoring:    DefaultScoring(),
		HoldPolicy: SwapPolicy{Mode: SwapOncePerTurn},
	}
}

// Session wires the grid, placement engine, tray, hold slot and drag
// machine into one playable game.
type Session struct {
	Grid   *Grid
	Engine *Engine
	Tray   *Tray
	Hold   *HoldSlot
	Drag   *Machine

	Score  int
	Lines  int
	Moves  int
	Streak int // consecutive clearing placements

	// Versus-mode state: attack power earned by multi-line clears, junk
	// buffered until the next placement resolves.
	AttackPower int
	JunkQueue   int

	Over bool
	Won  bool

	PlayerID   string
	PlayerName string

	cfg Config
	rng *rand.Rand
}

// NewSession creates a session with time-seeded pattern supply.
func NewSession(playerID, playerName string, cfg Config) *Session {
	return NewSeededSession(playerID, playerName, time.Now().UnixNano(), cfg)
}

// NewSeededSession creates a deterministic session: two sessions built with
// the same seed and config offer identical pattern sequences.
func NewSeededSession(playerID, playerName string, seed int64, cfg Config) *Session {
	grid := NewGrid(cfg.GridSize)
	engine := NewEngine(grid, cfg.Scoring, cfg.LockedImmune)
	if len(cfg.LockedCells) > 0 {
		color := cfg.LockedColor
		if color == 0 {
			color = junkColor
		}
		engine.SeedLocked(cfg.LockedCells, color)
	}
	tray := NewTray(cfg.TraySlots, NewPatternGenerator(seed))

	s := &Session{
		Grid:       grid,
		Engine:     engine,
		Tray:       tray,
		Hold:       NewHoldSlot(cfg.HoldPolicy),
		Drag:       NewMachine(engine, tray),
		PlayerID:   playerID,
		PlayerName: playerName,
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
	}
	return s
}

func (s *Session) Config() Config {
	return s.cfg
}

func (s *Session) SetGeometry(g Geometry) {
	s.Drag.SetGeometry(g)
}

// StartDrag begins dragging a tray slot. No-op while a drag is active or
// once the game is over.
func (s *Session) StartDrag(slot int, pointer, blockTopLeft Point) bool {
	if s.Over {
		return false
	}
	return s.Drag.Start(slot, pointer, blockTopLeft)
}

func (s *Session) UpdateDrag(pointer Point) PreviewResult {
	return s.Drag.Update(pointer)
}

// EndDrag finishes the active drag. On a successful placement the session
// does the per-turn bookkeeping: score, lines, combo streak, attack power,
// junk resolution, hold cooldown, objectives, and the dead-board check.
func (s *Session) EndDrag(pointer Point) DropResult {
	res := s.Drag.End(pointer)
	if res.Placed {
		s.applyDrop(res.Clear)
	}
	return res
}

func (s *Session) CancelDrag() {
	s.Drag.Cancel()
}

// Place commits a pattern directly at a grid anchor, the keyboard path
// around the drag machine. The slot is consumed and regenerated on success.
func (s *Session) Place(slot int, anchor Position) (LineClearResult, error) {
	if s.Over {
		return LineClearResult{}, ErrInvalidPlacement
	}
	p := s.Tray.Slot(slot)
	if p == nil {
		return LineClearResult{}, ErrInvalidPlacement
	}
	clear, err := s.Engine.Commit(*p, anchor)
	if err != nil {
		return LineClearResult{}, err
	}
	s.Tray.Regenerate(slot)
	s.applyDrop(clear)
	return clear, nil
}

// HoldSwap exchanges the pattern in a tray slot with the held one. When
// the hold slot was empty the tray slot regenerates from the supplier.
func (s *Session) HoldSwap(slot int) error {
	if s.Over {
		return ErrSwapUnavailable
	}
	offered := s.Tray.Slot(slot)
	if offered == nil {
		return ErrSwapUnavailable
	}
	returned, err := s.Hold.Swap(*offered)
	if err != nil {
		return err
	}
	if returned != nil {
		s.Tray.SetSlot(slot, *returned)
	} else {
		s.Tray.Regenerate(slot)
	}
	s.checkOver()
	return nil
}

// ReceiveJunk buffers incoming junk cells; they land after the next
// placement resolves.
func (s *Session) ReceiveJunk(cells int) {
	if cells > 0 {
		s.JunkQueue += cells
	}
}

func (s *Session) applyDrop(clear LineClearResult) {
	s.Moves++
	s.Score += clear.Score
	lines := clear.Lines()
	s.Lines += lines

	if lines > 0 {
		s.Streak++
		s.AttackPower = attackFor(lines)
	} else {
		s.Streak = 0
		s.AttackPower = 0
	}

	if s.JunkQueue > 0 {
		s.Engine.AddJunkCells(s.JunkQueue, s.rng)
		s.JunkQueue = 0
	}

	s.Hold.TurnAdvanced()
	s.checkObjectives()
	s.checkOver()
}

func (s *Session) checkObjectives() {
	if s.cfg.TargetScore > 0 && s.Score >= s.cfg.TargetScore {
		s.Over = true
		s.Won = true
	}
	if s.cfg.TargetLines > 0 && s.Lines >= s.cfg.TargetLines {
		s.Over = true
		s.Won = true
	}
}

// checkOver marks the session over when no offered pattern fits anywhere
// and a hold swap cannot help.
func (s *Session) checkOver() {
	if s.Over {
		return
	}
	if s.Tray.AnyPlacement(s.Engine) {
		return
	}
	if s.holdCanRescue() {
		return
	}
	s.Over = true
}

// holdCanRescue reports whether swapping the held pattern into play could
// still produce a legal placement.
func (s *Session) holdCanRescue() bool {
	held := s.Hold.Held()
	if held == nil || !s.Engine.CanPlaceAnywhere(*held) {
		return false
	}
	switch s.cfg.HoldPolicy.Mode {
	case SwapLimited:
		return s.Hold.UsesRemaining() > 0
	case SwapOncePerTurn:
		return !s.Hold.OnCooldown()
	}
	return true
}

// attackFor converts simultaneous line clears into junk cells sent to an
// opponent. Single clears never attack.
func attackFor(lines int) int {
	switch {
	case lines <= 1:
		return 0
	case lines == 2:
		return 3
	case lines == 3:
		return 6
	default:
		return 10
	}
}
