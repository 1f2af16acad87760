package retriever

import (
	"strings"

	"assessrec/config"
	"assessrec/internal/domain"
)

// RuleBooster applies keyword-triggered additive score adjustments.
type RuleBooster struct {
	rules []boostRule
}

type boostRule struct {
	name       string
	keywords   []string
	categories map[string]struct{}
	nameParts  []string
	increment  float64
}

// NewRuleBooster compiles rules for matching. Rules are evaluated independently.
func NewRuleBooster(rules []config.BoostRule) *RuleBooster {
	compiled := make([]boostRule, 0, len(rules))
	for _, r := range rules {
		br := boostRule{
			name:       r.Name,
			keywords:   lowerAll(r.QueryKeywords),
			categories: make(map[string]struct{}, len(r.Categories)),
			nameParts:  lowerAll(r.NameContains),
			increment:  r.Increment,
		}
		for _, c := range r.Categories {
			br.categories[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
		}
		compiled = append(compiled, br)
	}
	return &RuleBooster{rules: compiled}
}

// ActiveRules is the subset of rules whose query keywords appear in one query.
type ActiveRules struct {
	rules []*boostRule
}

// Prepare detects which rules the query triggers. The result is reused for every entry.
func (b *RuleBooster) Prepare(query string) ActiveRules {
	q := strings.ToLower(query)
	var active ActiveRules
	if strings.TrimSpace(q) == "" {
		return active
	}
	for i := range b.rules {
		r := &b.rules[i]
		if containsAny(q, r.keywords) {
			active.rules = append(active.rules, r)
		}
	}
	return active
}

// Apply returns the summed increment of active rules the entry satisfies and their names.
func (a ActiveRules) Apply(entry domain.CatalogueEntry) (float64, []string) {
	if len(a.rules) == 0 {
		return 0, nil
	}
	name := strings.ToLower(entry.Name)

	var total float64
	var fired []string
	for _, r := range a.rules {
		if r.matchesCategory(entry) || containsAny(name, r.nameParts) {
			total += r.increment
			fired = append(fired, r.name)
		}
	}
	return total, fired
}

// Boost is Prepare followed by Apply for a single entry.
func (b *RuleBooster) Boost(query string, entry domain.CatalogueEntry) (float64, []string) {
	return b.Prepare(query).Apply(entry)
}

func (r *boostRule) matchesCategory(entry domain.CatalogueEntry) bool {
	if len(r.categories) == 0 {
		return false
	}
	if _, ok := r.categories[strings.ToLower(strings.TrimSpace(entry.Category))]; ok {
		return true
	}
	for _, t := range entry.Types {
		if _, ok := r.categories[strings.ToLower(strings.TrimSpace(t))]; ok {
			return true
		}
	}
	return false
}

func containsAny(s string, parts []string) bool {
	for _, p := range parts {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
