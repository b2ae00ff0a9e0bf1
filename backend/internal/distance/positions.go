package distance

/*
MatchPositions walks long from index 0 upward and, for every value also present
in short, records the index of its FIRST occurrence in short alongside the
current index in long. longIdx is strictly increasing, shortIdx has no ordering
guarantee (repeats in short all map to the same index).

short is assumed to be the shorter of the two, callers check that with CheckLengths.
*/
func MatchPositions(short, long []int32) (shortIdx, longIdx []int) {
	if len(short) == 0 || len(long) == 0 {
		return []int{}, []int{}
	}

	// value -> first index in short
	first := make(map[int32]int, len(short))
	for i, v := range short {
		if _, ok := first[v]; !ok {
			first[v] = i
		}
	}

	shortIdx = make([]int, 0, len(short))
	longIdx = make([]int, 0, len(short))
	for j, v := range long {
		i, ok := first[v]
		if !ok {
			continue
		}
		shortIdx = append(shortIdx, i)
		longIdx = append(longIdx, j)
	}

	return shortIdx, longIdx
}
