package retriever

import (
	"fmt"
	"sort"

	"assessrec/internal/domain"
)

// HybridRanker blends semantic similarity, skill overlap and rule boosts into one score.
type HybridRanker struct {
	skills   *SkillScorer
	booster  *RuleBooster
	defaults domain.Weights
}

// NewHybridRanker creates a new hybrid ranker. defaults apply when a request has no weights.
func NewHybridRanker(skills *SkillScorer, booster *RuleBooster, defaults domain.Weights) *HybridRanker {
	if skills == nil {
		skills = NewSkillScorer(DefaultFuzzyThreshold)
	}
	if booster == nil {
		booster = NewRuleBooster(nil)
	}
	return &HybridRanker{
		skills:   skills,
		booster:  booster,
		defaults: defaults,
	}
}

// Rank scores every entry and returns the best req.TopK.
// final = semantic*w.Semantic + skill*w.Skill + boost; ties keep catalogue order.
func (r *HybridRanker) Rank(semantic []float64, req domain.SearchRequest, entries []domain.CatalogueEntry) ([]domain.Recommendation, error) {
	if req.TopK < 1 {
		return nil, domain.ErrInvalidTopK
	}
	if len(semantic) != len(entries) {
		return nil, fmt.Errorf("semantic scores for %d rows, catalogue has %d", len(semantic), len(entries))
	}

	w := r.defaults
	if req.Weights != nil {
		w = *req.Weights
	}

	required := ParseSkills(req.Skills)
	active := r.booster.Prepare(req.Query)

	scored := make([]domain.Recommendation, len(entries))
	for i, entry := range entries {
		skill := r.skills.OverlapSets(required, ParseSkills(entry.Skills))
		boost, fired := active.Apply(entry)
		final := semantic[i]*w.Semantic + skill*w.Skill + boost

		scored[i] = domain.Recommendation{Entry: entry, Score: final}
		if req.Explain {
			scored[i].Breakdown = &domain.ScoreBreakdown{
				Semantic: semantic[i],
				Skill:    skill,
				Boost:    boost,
				Final:    final,
				Rules:    fired,
			}
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	k := min(req.TopK, len(scored))
	results := scored[:k:k]
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}
