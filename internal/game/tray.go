package game

// Supplier decides which pattern fills a regenerated tray slot. The tray
// only signals when to regenerate; randomization and weighting live behind
// this interface.
type Supplier interface {
	Next() Pattern
}

// Tray holds the currently offered patterns. A slot is nil only between
// Take and Regenerate.
type Tray struct {
	slots    []*Pattern
	supplier Supplier
}

func NewTray(slots int, supplier Supplier) *Tray {
	t := &Tray{
		slots:    make([]*Pattern, slots),
		supplier: supplier,
	}
	for i := range t.slots {
		t.Regenerate(i)
	}
	return t
}

func (t *Tray) Len() int {
	return len(t.slots)
}

// Slots returns copies of the current offerings; nil marks a consumed slot.
func (t *Tray) Slots() []*Pattern {
	out := make([]*Pattern, len(t.slots))
	for i, p := range t.slots {
		if p != nil {
			c := *p
			out[i] = &c
		}
	}
	return out
}

// Slot returns a copy of one offering, or nil for an empty or bad index.
func (t *Tray) Slot(i int) *Pattern {
	if i < 0 || i >= len(t.slots) || t.slots[i] == nil {
		return nil
	}
	c := *t.slots[i]
	return &c
}

// Take removes and returns the pattern in a slot.
func (t *Tray) Take(i int) *Pattern {
	if i < 0 || i >= len(t.slots) {
		return nil
	}
	p := t.slots[i]
	t.slots[i] = nil
	return p
}

// SetSlot replaces a slot's offering, used when a held pattern returns to
// play.
func (t *Tray) SetSlot(i int, p Pattern) {
	if i < 0 || i >= len(t.slots) {
		return
	}
	t.slots[i] = &p
}

// Regenerate refills one slot from the supplier. Called exactly once per
// successful commit, for the slot whose block was just placed.
func (t *Tray) Regenerate(i int) {
	if i < 0 || i >= len(t.slots) {
		return
	}
	p := t.supplier.Next()
	t.slots[i] = &p
}

// AnyPlacement reports whether any offered pattern still fits somewhere on
// the grid.
func (t *Tray) AnyPlacement(e *Engine) bool {
	for _, p := range t.slots {
		if p != nil && e.CanPlaceAnywhere(*p) {
			return true
		}
	}
	return false
}
