package faq

import "strings"

// ratio computes the lexical similarity of two question strings in [0, 1].
// It is the classic sequence-matcher measure 2*M/T, where M is the total
// length of the matching blocks found by recursively taking the longest
// common substring, and T is the combined length of both inputs. Comparison
// is case-insensitive and operates on runes so mixed Japanese/Latin text is
// measured per character, not per byte.
func ratio(a, b string) float64 {
	left := []rune(strings.ToLower(a))
	right := []rune(strings.ToLower(b))
	total := len(left) + len(right)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(totalMatching(left, right)) / float64(total)
}

type span struct {
	alo, ahi int
	blo, bhi int
}

// totalMatching sums the sizes of all matching blocks between left and right.
// Blocks are located greedily: the longest match splits the surrounding
// regions, which are then searched the same way.
func totalMatching(left, right []rune) int {
	positions := make(map[rune][]int, len(right))
	for j, r := range right {
		positions[r] = append(positions[r], j)
	}

	matched := 0
	stack := []span{{0, len(left), 0, len(right)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i, j, k := longestMatch(left, positions, s)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			stack = append(stack, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			stack = append(stack, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}

// longestMatch finds the longest block left[i:i+k] == right[j:j+k] within the
// given span, preferring the earliest position in left, then in right.
func longestMatch(left []rune, positions map[rune][]int, s span) (besti, bestj, bestk int) {
	besti, bestj = s.alo, s.blo
	lengths := make(map[int]int)
	for i := s.alo; i < s.ahi; i++ {
		next := make(map[int]int)
		for _, j := range positions[left[i]] {
			if j < s.blo {
				continue
			}
			if j >= s.bhi {
				break
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}
	return besti, bestj, bestk
}
