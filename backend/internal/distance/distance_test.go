package distance

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceIdentity(t *testing.T) {
	fingerprints := [][]int32{
		{42},
		{1, 2, 3, 4, 5},
		{7, 7, 7, 7},
		{-1733, 99812, -1733, 0, math.MaxInt32, math.MinInt32},
	}

	rng := rand.New(rand.NewSource(3))
	random := make([]int32, 500)
	for i := range random {
		random[i] = rng.Int31n(64) - 32
	}
	fingerprints = append(fingerprints, random)

	for _, fp := range fingerprints {
		assert.Equal(t, 0.0, Distance(fp, fp), "fingerprint %v", fp)
	}
}

func TestDistanceNoOverlap(t *testing.T) {
	tests := []struct {
		name      string
		sample    []int32
		candidate []int32
	}{
		{"disjoint", []int32{1, 2, 3}, []int32{4, 5, 6, 7}},
		{"negative", []int32{-1, -2}, []int32{1, 2}},
		{"empty sample", []int32{}, []int32{1, 2}},
		{"empty candidate", []int32{1}, []int32{}},
		{"both nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Distance(tt.sample, tt.candidate)
			assert.True(t, math.IsInf(d, 1))
			assert.True(t, IsNoMatch(d))
		})
	}
}

func TestDistanceExcerpt(t *testing.T) {
	sample := []int32{10, 20, 30}
	candidate := []int32{99, 10, 20, 30, 77}

	sampleIdx, candidateIdx := MatchPositions(sample, candidate)
	assert.Equal(t, []int{0, 1, 2}, sampleIdx)
	assert.Equal(t, []int{1, 2, 3}, candidateIdx)

	res := Compare(sample, candidate)
	assert.Equal(t, []Range{{0, 2}}, res.SampleRanges)
	assert.Equal(t, []Range{{1, 3}}, res.CandidateRanges)
	require.Len(t, res.Slices, 1)
	assert.Equal(t, 3, res.Slices[0].Compared)
	assert.Equal(t, 0.0, res.Distance)
}

func TestDistanceNotSymmetric(t *testing.T) {
	a := []int32{4, 3, 1}
	b := []int32{4, 1, 2, 3}

	ab := Distance(a, b)
	ba := Distance(b, a)

	assert.InDelta(t, 1.0, ab, 1e-9)
	assert.Equal(t, 0.0, ba)
	assert.NotEqual(t, ab, ba)
}

func TestDistanceNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		sample := make([]int32, 1+rng.Intn(20))
		for j := range sample {
			sample[j] = rng.Int31n(16)
		}
		candidate := make([]int32, len(sample)+rng.Intn(40))
		for j := range candidate {
			candidate[j] = rng.Int31n(16)
		}
		// guarantee at least one shared hash
		candidate[rng.Intn(len(candidate))] = sample[0]

		d := Distance(sample, candidate)
		require.False(t, math.IsInf(d, 0), "sample %v candidate %v", sample, candidate)
		require.False(t, math.IsNaN(d))
		require.GreaterOrEqual(t, d, 0.0)
	}
}

func TestDistanceExtremeHashes(t *testing.T) {
	sample := []int32{5, math.MinInt32}
	candidate := []int32{5, math.MaxInt32}

	// only the leading 5 is shared
	assert.Equal(t, 0.0, Distance(sample, candidate))

	sample = []int32{5, math.MinInt32, 6}
	candidate = []int32{5, math.MaxInt32, 9, 6}
	// ranges: sample (0,0),(2,2) vs candidate (0,0),(3,3)
	assert.Equal(t, 0.0, Distance(sample, candidate))

	s := scoreSlice([]int32{math.MinInt32}, []int32{math.MaxInt32}, Range{0, 0}, Range{0, 0})
	assert.Equal(t, float64(math.MaxUint32), s.Score)
}

func TestCompareDropsTrailingRanges(t *testing.T) {
	sample := []int32{1, 5, 5, 7, 7}
	candidate := []int32{1, 1, 2, 7, 7, 6, 5, 2}

	res := Compare(sample, candidate)
	assert.Equal(t, []Range{{0, 0}, {0, 0}, {3, 3}, {3, 3}, {1, 1}}, res.SampleRanges)
	assert.Equal(t, []Range{{0, 1}, {3, 4}, {6, 6}}, res.CandidateRanges)
	require.Len(t, res.Slices, 3)

	assert.Equal(t, 0.0, res.Slices[0].Score)
	assert.Equal(t, 1, res.Slices[0].Compared)
	assert.Equal(t, 6.0, res.Slices[1].Score)
	assert.Equal(t, 2.0, res.Slices[2].Score)
	assert.InDelta(t, 8.0/3.0, res.Distance, 1e-9)
}

func TestPairSlicesIgnoresUnmatchedRanges(t *testing.T) {
	fp := []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	sampleRanges := []Range{{0, 1}, {3, 4}, {6, 6}}
	candidateRanges := []Range{{1, 2}, {5, 5}, {7, 9}}

	slices, d := pairSlices(fp, fp, sampleRanges, candidateRanges)
	require.Len(t, slices, 3)
	assert.InDelta(t, 4.0/3.0, d, 1e-9)

	extended := append(append([]Range{}, candidateRanges...), Range{0, 0}, Range{8, 9})
	slicesExt, dExt := pairSlices(fp, fp, sampleRanges, extended)
	assert.Equal(t, slices, slicesExt)
	assert.Equal(t, d, dExt)

	// same thing with the roles swapped
	slicesSwap, dSwap := pairSlices(fp, fp, extended, sampleRanges)
	require.Len(t, slicesSwap, 3)
	assert.InDelta(t, 4.0/3.0, dSwap, 1e-9)
}

func TestScoreSliceTruncatesToShorter(t *testing.T) {
	sample := []int32{10, 20, 30, 40}
	candidate := []int32{11, 22}

	s := scoreSlice(sample, candidate, Range{0, 3}, Range{0, 1})
	assert.Equal(t, 2, s.Compared)
	assert.InDelta(t, 1.5, s.Score, 1e-9)

	s = scoreSlice(sample, candidate, Range{2, 2}, Range{1, 1})
	assert.Equal(t, 1, s.Compared)
	assert.Equal(t, 8.0, s.Score)
}

func TestCheckLengths(t *testing.T) {
	assert.NoError(t, CheckLengths([]int32{1}, []int32{1, 2}))
	assert.NoError(t, CheckLengths([]int32{1, 2}, []int32{1, 2}))
	assert.ErrorIs(t, CheckLengths([]int32{1, 2, 3}, []int32{1, 2}), ErrSampleLonger)
}
