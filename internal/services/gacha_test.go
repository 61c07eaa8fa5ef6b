package services

import (
	"testing"

	"github.com/mroth/weightedrand/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformGachaPicksEveryItem(t *testing.T) {
	gacha, err := NewUniformGacha([]string{"mug", "bike", "pin"})
	require.NoError(t, err)

	seen := map[string]int{}
	for i := 0; i < 3000; i++ {
		seen[gacha.Pick()]++
	}

	require.Len(t, seen, 3)
	for item, n := range seen {
		// expected 1000 each; the bound is loose enough to never flake
		assert.Greater(t, n, 700, item)
	}
}

func TestUniformGachaEmpty(t *testing.T) {
	_, err := NewUniformGacha([]string{})
	assert.Error(t, err)
}

func TestWeightedGacha(t *testing.T) {
	gacha, err := NewServiceGacha([]weightedrand.Choice[string, int]{
		weightedrand.NewChoice("always", 1),
		weightedrand.NewChoice("never", 0),
	})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.Equal(t, "always", gacha.Pick())
	}
}
