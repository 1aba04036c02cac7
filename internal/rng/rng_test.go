package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededRollReproducible(t *testing.T) {
	r1 := New("test")
	v := r1.Roll(D4, "p1", "req-1").Value
	require.GreaterOrEqual(t, v, 1)
	require.LessOrEqual(t, v, 4)

	r2 := New("test")
	assert.Equal(t, v, r2.Roll(D4, "p1", "req-1").Value,
		"same seed must reproduce the same first roll")
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New("alpha")
	b := New("beta")
	same := true
	for i := 0; i < 32; i++ {
		if a.Roll(D20, "", "").Value != b.Roll(D20, "", "").Value {
			same = false
			break
		}
	}
	assert.False(t, same, "distinct seeds should not produce identical streams")
}

func TestRollBounds(t *testing.T) {
	r := New("bounds")
	for _, d := range []Die{D4, D6, D8, D10, D12, D20} {
		for i := 0; i < 200; i++ {
			v := r.Roll(d, "", "").Value
			require.GreaterOrEqual(t, v, 1, "die %s", d)
			require.LessOrEqual(t, v, d.Sides(), "die %s", d)
		}
	}
}

func TestCounterAndAuditMonotonic(t *testing.T) {
	r := New("audit")
	var last uint64
	for i := 0; i < 10; i++ {
		r.Roll(D6, "p1", "")
		require.Greater(t, r.Counter(), last, "counter must strictly increase per draw")
		last = r.Counter()
	}
	audit := r.Audit()
	require.Len(t, audit, 10)
	for i, e := range audit {
		assert.Equal(t, uint64(i+1), e.Seq)
		assert.Equal(t, KindRoll, e.Kind)
		assert.Equal(t, "p1", e.Actor)
	}
}

func TestSnapshotRestoreContinues(t *testing.T) {
	r := New("resume")
	for i := 0; i < 5; i++ {
		r.Roll(D8, "", "")
	}
	snap := r.Snapshot()

	var want []int
	for i := 0; i < 5; i++ {
		want = append(want, r.Roll(D8, "", "").Value)
	}

	restored, err := Restore(snap)
	require.NoError(t, err)
	require.Len(t, restored.Audit(), 5, "audit log survives a snapshot round trip")
	for i := 0; i < 5; i++ {
		assert.Equal(t, want[i], restored.Roll(D8, "", "").Value, "draw %d after restore", i)
	}
}

func TestRestoreNonSeeded(t *testing.T) {
	r := NewRandom()
	r.Roll(D6, "", "")
	_, err := Restore(r.Snapshot())
	assert.ErrorIs(t, err, ErrNotReplayable)
}

func TestCloneIndependent(t *testing.T) {
	r := New("clone")
	r.Roll(D12, "", "")
	c := r.Clone()

	require.Equal(t, r.Counter(), c.Counter())
	assert.Equal(t, r.Roll(D12, "", "").Value, c.Roll(D12, "", "").Value,
		"clone continues from the same stream position")

	r.Roll(D12, "", "")
	assert.NotEqual(t, r.Counter(), c.Counter(), "clones advance independently")
}

func TestShuffleIsPermutation(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	r := New("shuffle")
	out := Shuffle(r, in)

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h"}, in, "input must not be mutated")
	assert.ElementsMatch(t, in, out)

	again := Shuffle(New("shuffle"), in)
	assert.Equal(t, out, again, "same seed gives the same permutation")
}

func TestWeightedPick(t *testing.T) {
	r := New("pick")

	_, err := r.WeightedPick(nil, "", "")
	assert.ErrorIs(t, err, ErrBadWeights)
	_, err = r.WeightedPick([]int{0, 0}, "", "")
	assert.ErrorIs(t, err, ErrBadWeights)
	_, err = r.WeightedPick([]int{3, -1}, "", "")
	assert.ErrorIs(t, err, ErrBadWeights)

	weights := []int{0, 5, 1}
	for i := 0; i < 100; i++ {
		idx, err := r.WeightedPick(weights, "p1", "")
		require.NoError(t, err)
		require.NotEqual(t, 0, idx, "zero-weight entries are never picked")
		require.Less(t, idx, len(weights))
	}
}
