package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{
		"BOX":      CategoryBox,
		"wheel":    CategoryWheel,
		" Plinko ": CategoryPlinko,
		"SCRATCH":  CategoryScratch,
	} {
		got, err := ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseCategory("LOTTERY")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = ParseCategory("")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestRewardAvailability(t *testing.T) {
	assert.True(t, (&Reward{Stock: StockUnlimited}).Available())
	assert.True(t, (&Reward{Stock: 2}).Available())
	assert.False(t, (&Reward{Stock: 0}).Available())
	assert.True(t, (&Reward{Stock: StockUnlimited}).Unlimited())
}
