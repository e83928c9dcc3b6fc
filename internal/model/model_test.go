package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONListRoundTripThroughDriver(t *testing.T) {
	in := JSONList[string]{"weight", "steps"}
	v, err := in.Value()
	require.NoError(t, err)

	var out JSONList[string]
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
	assert.Error(t, out.Scan(42))
}

func TestOrderStatusStageIndex(t *testing.T) {
	assert.Equal(t, 0, OrderStatusDraft.StageIndex())
	assert.Equal(t, 6, OrderStatusDelivered.StageIndex())
	assert.Equal(t, -1, OrderStatusCancelled.StageIndex())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus("lost").Valid())
	assert.Len(t, OrderStages, 7)
}

func TestPerkTierRank(t *testing.T) {
	assert.Less(t, PerkTierBronze.Rank(), PerkTierSilver.Rank())
	assert.Less(t, PerkTierSilver.Rank(), PerkTierChampion.Rank())
	assert.Equal(t, 0, PerkTier("gold").Rank())
}
