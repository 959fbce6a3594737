package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldLimitedUses(t *testing.T) {
	h := NewHoldSlot(SwapPolicy{Mode: SwapLimited, Uses: 1})

	returned, err := h.Swap(NewPattern(ShapeDot))
	require.NoError(t, err)
	assert.Nil(t, returned) // slot was empty
	assert.Equal(t, 0, h.UsesRemaining())

	_, err = h.Swap(NewPattern(ShapeBar2H))
	assert.ErrorIs(t, err, ErrSwapUnavailable)
	assert.Equal(t, ShapeDot, h.Held().Shape)
}

func TestHoldOncePerTurn(t *testing.T) {
	h := NewHoldSlot(SwapPolicy{Mode: SwapOncePerTurn})

	_, err := h.Swap(NewPattern(ShapeDot))
	require.NoError(t, err)
	assert.True(t, h.OnCooldown())

	_, err = h.Swap(NewPattern(ShapeBar2H))
	assert.ErrorIs(t, err, ErrOnCooldown)

	// The cooldown clears on the turn-advanced signal, not on time.
	h.TurnAdvanced()
	returned, err := h.Swap(NewPattern(ShapeBar2H))
	require.NoError(t, err)
	require.NotNil(t, returned)
	assert.Equal(t, ShapeDot, returned.Shape)
	assert.Equal(t, ShapeBar2H, h.Held().Shape)
}

func TestHoldUnlimited(t *testing.T) {
	h := NewHoldSlot(SwapPolicy{Mode: SwapUnlimited})

	for i := 0; i < 10; i++ {
		_, err := h.Swap(NewPattern(ShapeDot))
		require.NoError(t, err)
	}
}

func TestHoldReset(t *testing.T) {
	h := NewHoldSlot(SwapPolicy{Mode: SwapLimited, Uses: 2})
	_, err := h.Swap(NewPattern(ShapeDot))
	require.NoError(t, err)

	h.Reset()
	assert.Nil(t, h.Held())
	assert.Equal(t, 2, h.UsesRemaining())
}
