package match

import "sort"

// Candidate is a known name scored against a wanted one.
type Candidate struct {
	Name           string
	NormalizedName string
	// Score is the edit distance similarity (0-1), the better of the
	// plain and the suffix-stripped comparison.
	Score float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Similarity thresholds used for missing field suggestions.
const (
	// DefaultMinScore is the minimum similarity for a name to be suggested.
	DefaultMinScore = 0.6
	// DefaultSuggestions is the maximum amount of suggested names.
	DefaultSuggestions = 3
)

// RankCandidates scores every known name against target and returns them
// sorted by score (descending).
func RankCandidates(target string, names []string) CandidateList {
	targetNorm := NormalizeIdent(target)
	targetNormStripped := NormalizeIdentWithSuffixStrip(target)

	candidates := make(CandidateList, 0, len(names))
	for _, name := range names {
		norm := NormalizeIdent(name)

		score := Similarity(norm, targetNorm)
		if stripped := Similarity(NormalizeIdentWithSuffixStrip(name), targetNormStripped); stripped > score {
			score = stripped
		}

		candidates = append(candidates, Candidate{
			Name:           name,
			NormalizedName: norm,
			Score:          score,
		})
	}

	// Sort by score (descending), then by name for determinism
	sort.Sort(candidates)

	return candidates
}

// Suggestions returns up to DefaultSuggestions names similar to target.
func Suggestions(target string, names []string) []string {
	best := RankCandidates(target, names).AboveThreshold(DefaultMinScore).Top(DefaultSuggestions)
	if len(best) == 0 {
		return nil
	}

	res := make([]string, 0, len(best))
	for _, c := range best {
		res = append(res, c.Name)
	}

	return res
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates with a score of at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}
