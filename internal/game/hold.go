package game

import "errors"

var (
	ErrSwapUnavailable = errors.New("hold swap unavailable")
	ErrOnCooldown      = errors.New("hold on cooldown")
)

type SwapMode int

const (
	SwapUnlimited SwapMode = iota
	SwapOncePerTurn
	SwapLimited
)

// SwapPolicy gates hold swaps. Uses only matters for SwapLimited.
type SwapPolicy struct {
	Mode SwapMode
	Uses int
}

// HoldSlot is the one-slot side storage for banking a pattern. It is
// created once per session and mutated only by Swap and TurnAdvanced.
type HoldSlot struct {
	policy   SwapPolicy
	held     *Pattern
	cooldown bool
	usesLeft int
}

func NewHoldSlot(policy SwapPolicy) *HoldSlot {
	return &HoldSlot{
		policy:   policy,
		usesLeft: policy.Uses,
	}
}

// Held returns a copy of the banked pattern, or nil when empty.
func (h *HoldSlot) Held() *Pattern {
	if h.held == nil {
		return nil
	}
	p := *h.held
	return &p
}

func (h *HoldSlot) UsesRemaining() int {
	return h.usesLeft
}

func (h *HoldSlot) OnCooldown() bool {
	return h.cooldown
}

// Swap banks the offered pattern and returns the one previously held, or
// nil if the slot was empty. Behavior branches only on the policy value.
func (h *HoldSlot) Swap(offered Pattern) (*Pattern, error) {
	switch h.policy.Mode {
	case SwapLimited:
		if h.usesLeft <= 0 {
			return nil, ErrSwapUnavailable
		}
	case SwapOncePerTurn:
		if h.cooldown {
			return nil, ErrOnCooldown
		}
	}

	returned := h.held
	stored := offered
	h.held = &stored

	switch h.policy.Mode {
	case SwapLimited:
		h.usesLeft--
	case SwapOncePerTurn:
		h.cooldown = true
	}
	return returned, nil
}

// TurnAdvanced clears the once-per-turn cooldown. Called by the session at
// the start of each placement turn; decoupled from wall-clock time.
func (h *HoldSlot) TurnAdvanced() {
	h.cooldown = false
}

// Reset empties the slot and restores the policy budget for a new game.
func (h *HoldSlot) Reset() {
	h.held = nil
	h.cooldown = false
	h.usesLeft = h.policy.Uses
}
