package textmatch

// Ratio computes a Ratcliff/Obershelp similarity between two token
// sequences: 2*M/T where M is the total length of matching contiguous
// blocks (longest common block, recursing on the remainders) and T the sum
// of both lengths. The result is in [0, 1]; 1.0 means token-identical
// sequences. Two sequences with disjoint vocabulary score 0.
func Ratio(a, b []string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	matched := matchingTotal(a, b)
	return 2 * float64(matched) / float64(total)
}

func matchingTotal(a, b []string) int {
	i, j, k := longestCommonBlock(a, b)
	if k == 0 {
		return 0
	}
	return k + matchingTotal(a[:i], b[:j]) + matchingTotal(a[i+k:], b[j+k:])
}

// longestCommonBlock finds the longest contiguous run of equal tokens,
// returning its start in a, start in b, and length. Ties resolve to the
// earliest occurrence in a, then in b.
func longestCommonBlock(a, b []string) (bestI, bestJ, bestLen int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// Rolling run lengths ending at each position of b, keyed by b index.
	runs := make(map[int]int)
	for i := range a {
		next := make(map[int]int)
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			length := runs[j-1] + 1
			next[j] = length
			if length > bestLen {
				bestI = i - length + 1
				bestJ = j - length + 1
				bestLen = length
			}
		}
		runs = next
	}
	return bestI, bestJ, bestLen
}
