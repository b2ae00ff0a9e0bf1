package match

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	sample := []int32{10, 20, 30}
	candidates := []Candidate{
		{Name: "unrelated", Hashes: []int32{1, 2, 3, 4}},
		{Name: "exact", Hashes: []int32{99, 10, 20, 30, 77}},
		{Name: "close", Hashes: []int32{20, 10, 31, 30}},
		{Name: "also unrelated", Hashes: []int32{5, 6, 7}},
		{Name: "also exact", Hashes: []int32{10, 20, 30}},
	}

	for _, workers := range []int{0, 1, 4} {
		matches, elapsed, err := Rank(context.Background(), sample, candidates, Options{Workers: workers})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
		require.Len(t, matches, 5)

		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		assert.Equal(t, []string{"also exact", "exact", "close", "also unrelated", "unrelated"}, names)

		assert.Equal(t, 0.0, matches[0].Distance)
		assert.Equal(t, 1, matches[0].Slices)
		// slices (1,1)/(0,1) and (0,0)/(3,3): (0 + |10-30|) / 2
		assert.Equal(t, 10.0, matches[2].Distance)
		assert.True(t, math.IsInf(matches[3].Distance, 1))
		assert.Zero(t, matches[4].Slices)
	}
}

func TestRankShorterCandidates(t *testing.T) {
	sample := []int32{1, 2, 3, 4}
	candidates := []Candidate{
		{Name: "short", Hashes: []int32{1, 2}},
		{Name: "long", Hashes: []int32{0, 1, 2, 3, 4}},
	}

	matches, _, err := Rank(context.Background(), sample, candidates, Options{Workers: 2})
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, _, err = Rank(context.Background(), sample, candidates, Options{Workers: 2, Strict: true})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "long", matches[0].Name)
}

func TestRankErrors(t *testing.T) {
	_, _, err := Rank(context.Background(), []int32{1}, nil, Options{})
	assert.ErrorIs(t, err, ErrNoCandidates)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = Rank(ctx, []int32{1}, []Candidate{{Name: "a", Hashes: []int32{1}}}, Options{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTop(t *testing.T) {
	matches := []Match{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	assert.Len(t, Top(matches, 2), 2)
	assert.Len(t, Top(matches, 10), 3)
	assert.Len(t, Top(matches, -1), 3)
	assert.Empty(t, Top(matches, 0))
}
