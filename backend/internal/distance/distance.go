// Package distance scores how closely a short sample fingerprint lines up
// with a longer candidate fingerprint. 0 means the sample is a verbatim
// excerpt of the candidate, Infinity means they share no hash at all.
package distance

import (
	"errors"
	"math"
)

// Infinity is returned when sample and candidate have no hash in common.
var Infinity = math.Inf(1)

var ErrSampleLonger = errors.New("sample fingerprint is longer than candidate")

// SliceScore is the comparison of the k-th sample range with the k-th candidate range.
type SliceScore struct {
	Sample    Range
	Candidate Range
	Compared  int     // number of hash pairs averaged
	Score     float64 // mean absolute hash difference
}

type Result struct {
	Distance        float64
	SampleRanges    []Range
	CandidateRanges []Range
	Slices          []SliceScore
}

func IsNoMatch(d float64) bool {
	return math.IsInf(d, 1)
}

// CheckLengths validates the one precondition callers are expected to hold before comparing.
func CheckLengths(sample, candidate []int32) error {
	if len(sample) > len(candidate) {
		return ErrSampleLonger
	}
	return nil
}

func Distance(sample, candidate []int32) float64 {
	return Compare(sample, candidate).Distance
}

/*
Compare finds where the two fingerprints share hashes, collapses those
positions into slices and averages the per slice hash differences.

Slices are paired by their order, not by their bounds. Whatever is left over
on the longer side (ranges or elements inside a slice) is dropped.
*/
func Compare(sample, candidate []int32) Result {
	sampleIdx, candidateIdx := MatchPositions(sample, candidate)
	if len(sampleIdx) == 0 {
		return Result{Distance: Infinity}
	}

	res := Result{
		SampleRanges:    CollapseRuns(sampleIdx),
		CandidateRanges: CollapseRuns(candidateIdx),
	}

	res.Slices, res.Distance = pairSlices(sample, candidate, res.SampleRanges, res.CandidateRanges)

	return res
}

// pairs ranges by ordinal up to the shorter list, the rest is ignored
func pairSlices(sample, candidate []int32, sampleRanges, candidateRanges []Range) ([]SliceScore, float64) {
	n := min(len(sampleRanges), len(candidateRanges))
	if n == 0 {
		return nil, Infinity
	}

	slices := make([]SliceScore, 0, n)
	total := 0.0
	for k := 0; k < n; k++ {
		s := scoreSlice(sample, candidate, sampleRanges[k], candidateRanges[k])
		slices = append(slices, s)
		total += s.Score
	}

	return slices, total / float64(n)
}

func scoreSlice(sample, candidate []int32, sr, cr Range) SliceScore {
	if sr.Singleton() && cr.Singleton() {
		return SliceScore{
			Sample:    sr,
			Candidate: cr,
			Compared:  1,
			Score:     float64(absDiff(sample[sr.Start], candidate[cr.Start])),
		}
	}

	count := min(sr.Len(), cr.Len())
	sum := 0.0
	for i := 0; i < count; i++ {
		sum += float64(absDiff(sample[sr.Start+i], candidate[cr.Start+i]))
	}

	return SliceScore{
		Sample:    sr,
		Candidate: cr,
		Compared:  count,
		Score:     sum / float64(count),
	}
}

// widened to int64 so MinInt32 vs MaxInt32 can't overflow
func absDiff(a, b int32) int64 {
	d := int64(a) - int64(b)
	if d < 0 {
		return -d
	}
	return d
}
