package retriever

import "strings"

// DefaultFuzzyThreshold is the similarity at which two skill names are considered the same.
const DefaultFuzzyThreshold = 0.85

// SkillScorer computes a Jaccard-style overlap between required and offered skills,
// tolerating small spelling differences on the required side.
type SkillScorer struct {
	threshold float64
}

// NewSkillScorer creates a SkillScorer. A non-positive threshold selects DefaultFuzzyThreshold.
func NewSkillScorer(threshold float64) *SkillScorer {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &SkillScorer{threshold: threshold}
}

// Overlap parses both comma separated lists and returns their overlap in [0, 1].
func (s *SkillScorer) Overlap(required, offered string) float64 {
	return s.OverlapSets(ParseSkills(required), ParseSkills(offered))
}

// OverlapSets scores already parsed skill sets.
// matched / (|required| + |offered| - matched)
func (s *SkillScorer) OverlapSets(required, offered []string) float64 {
	if len(required) == 0 || len(offered) == 0 {
		return 0
	}

	offeredSet := make(map[string]struct{}, len(offered))
	for _, o := range offered {
		offeredSet[o] = struct{}{}
	}

	matched := 0
	for _, r := range required {
		if _, ok := offeredSet[r]; ok {
			matched++
			continue
		}
		for _, o := range offered {
			if SimilarityRatio(r, o) >= s.threshold {
				matched++
				break
			}
		}
	}

	union := len(required) + len(offered) - matched
	if union <= 0 {
		return 0
	}
	score := float64(matched) / float64(union)
	if score > 1 {
		return 1
	}
	return score
}

// ParseSkills splits a comma separated list, trims and lowercases each entry,
// and drops empties and duplicates. Order of first appearance is kept.
func ParseSkills(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	seen := make(map[string]struct{}, len(parts))
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		skills = append(skills, p)
	}
	return skills
}

// SimilarityRatio returns 2*LCS(a, b) / (len(a) + len(b)) over runes, the
// indel similarity of two strings. Two empty strings are identical.
func SimilarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(lcsLength(ra, rb)) / float64(total)
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
