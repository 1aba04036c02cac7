package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreadhall/internal/rng"
)

func TestDrawCardsReshufflesDiscard(t *testing.T) {
	r := rng.New("deck")
	d := NewDeck([]string{"a", "b"})

	drawn, reshuffled := d.DrawCards(r, 2)
	require.Equal(t, []string{"a", "b"}, drawn)
	assert.False(t, reshuffled)

	d.DiscardCards("a", "b")
	drawn, reshuffled = d.DrawCards(r, 1)
	require.Len(t, drawn, 1)
	assert.True(t, reshuffled)
	assert.Empty(t, d.Discard, "the whole discard pile became the draw pile")
	assert.Len(t, d.Draw, 1)
}

func TestDrawCardsDegradesWhenExhausted(t *testing.T) {
	d := NewDeck([]string{"a", "b"})
	drawn, _ := d.DrawCards(rng.New("x"), 5)
	assert.Equal(t, []string{"a", "b"}, drawn, "short result, not an error")
	drawn, _ = d.DrawCards(rng.New("x"), 1)
	assert.Empty(t, drawn)
}

func TestShufflePreservesCards(t *testing.T) {
	d := NewDeck([]string{"a", "b", "c", "d", "e"})
	d.Shuffle(rng.New("perm"))
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, d.Draw)
}

func TestEnemyCompositionTable(t *testing.T) {
	cases := []struct {
		tier, roll, want int
	}{
		{1, 1, 1}, {1, 2, 2}, {1, 4, 2},
		{2, 1, 1}, {2, 2, 1}, {2, 3, 2}, {2, 6, 2},
		{3, 1, 2}, {3, 3, 2}, {3, 4, 3}, {3, 6, 3},
	}
	for _, c := range cases {
		entry, ok := enemyCount[c.tier]
		require.True(t, ok, "tier %d", c.tier)
		assert.Equal(t, c.want, entry.N(c.roll), "tier %d roll %d", c.tier, c.roll)
	}
	assert.Equal(t, rng.D4, enemyCount[1].Die)
	assert.Equal(t, rng.D6, enemyCount[2].Die)
	assert.Equal(t, rng.D6, enemyCount[3].Die)
}

func TestRollEnemyCompositionUnknownTier(t *testing.T) {
	_, _, count := rollEnemyComposition(rng.New("t"), 9, "p1")
	assert.Equal(t, 1, count)
}
