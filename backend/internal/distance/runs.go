package distance

import "fmt"

// Range is an inclusive span of positions in a fingerprint.
type Range struct {
	Start int
	End   int
}

func (r Range) Singleton() bool {
	return r.Start == r.End
}

// number of positions covered
func (r Range) Len() int {
	return r.End - r.Start + 1
}

func (r Range) String() string {
	return fmt.Sprintf("(%d, %d)", r.Start, r.End)
}

/*
CollapseRuns merges consecutive positions into inclusive ranges,
e.g. [1, 2, 3, 5, 6, 8] becomes [(1, 3), (5, 6), (8, 8)].

positions must already be ascending for the runs to make sense, nothing gets sorted here.
A run only grows while the next value is exactly the previous one plus 1.
*/
func CollapseRuns(positions []int) []Range {
	ranges := make([]Range, 0, len(positions))

	for i := 0; i < len(positions); {
		start := positions[i]
		j := i
		for j+1 < len(positions) && positions[j+1] == positions[j]+1 {
			j++
		}
		ranges = append(ranges, Range{Start: start, End: positions[j]})
		i = j + 1
	}

	return ranges
}
