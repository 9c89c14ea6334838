package faq

import (
	"sort"
	"strings"
)

// rankEntries scores every entry against the user question, keeps those at or
// above the threshold and sorts them by combined score. The sort is stable so
// entries with equal scores keep their insertion order, which keeps results
// deterministic.
func rankEntries(entries []Entry, question string, threshold float64) []MatchResult {
	if strings.TrimSpace(question) == "" {
		return nil
	}

	var results []MatchResult
	for i, entry := range entries {
		sim := ratio(question, entry.Question)
		kw := keywordScore(question, entry.Question, entry.Keywords)
		combined := sim + kw
		if combined >= threshold {
			results = append(results, MatchResult{
				Entry:        entry,
				Index:        i,
				Similarity:   sim,
				KeywordScore: kw,
				Combined:     combined,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Combined > results[j].Combined
	})
	return results
}

// reviewSimilar ranks entries for the admin duplicate-review screen using a
// weighted blend instead of the plain sum used for answering: similarity
// dominates and keyword bonuses only nudge.
func reviewSimilar(entries []Entry, question string, threshold float64, limit int) []MatchResult {
	if strings.TrimSpace(question) == "" {
		return nil
	}

	var results []MatchResult
	for i, entry := range entries {
		sim := ratio(question, entry.Question)
		kw := keywordScore(question, entry.Question, entry.Keywords)
		combined := reviewSimilarityWeight*sim + reviewKeywordWeight*kw
		if combined >= threshold {
			results = append(results, MatchResult{
				Entry:        entry,
				Index:        i,
				Similarity:   sim,
				KeywordScore: kw,
				Combined:     combined,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Combined > results[j].Combined
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
