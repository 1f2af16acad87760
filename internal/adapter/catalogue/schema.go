package catalogue

import (
	"encoding/json"
	"fmt"
	"strings"

	"assessrec/internal/domain"
)

// Column aliases, compared case-insensitively after trimming.
var (
	nameAliases     = []string{"assessment_name", "name", "title"}
	descAliases     = []string{"description"}
	categoryAliases = []string{"assessment_type", "test_type", "category", "type"}
	urlAliases      = []string{"assessment_url", "url", "link"}
	idAliases       = []string{"id", "slug"}
	skillsAliases   = []string{"skills_tested", "skills"}
	durationAliases = []string{"duration"}
	adaptiveAliases = []string{"adaptive", "adaptive_irt"}
)

// Schema maps catalogue fields to CSV column indices. Optional columns are -1 when absent.
type Schema struct {
	Name        int
	Description int
	Category    int
	URL         int
	ID          int
	Skills      int
	Duration    int
	Adaptive    int

	header []string
}

// ParseHeader validates a header row. Name, description and category columns are required.
func ParseHeader(header []string) (Schema, error) {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	find := func(aliases []string) int {
		for _, a := range aliases {
			for i, h := range lower {
				if h == a {
					return i
				}
			}
		}
		return -1
	}

	s := Schema{
		Name:        find(nameAliases),
		Description: find(descAliases),
		Category:    find(categoryAliases),
		URL:         find(urlAliases),
		ID:          find(idAliases),
		Skills:      find(skillsAliases),
		Duration:    find(durationAliases),
		Adaptive:    find(adaptiveAliases),
		header:      header,
	}

	var missing []string
	if s.Name < 0 {
		missing = append(missing, "name")
	}
	if s.Description < 0 {
		missing = append(missing, "description")
	}
	if s.Category < 0 {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return Schema{}, fmt.Errorf("%w: missing required columns %s", domain.ErrMissingData, strings.Join(missing, ", "))
	}
	return s, nil
}

// Entry builds the catalogue entry for one record. Short records yield empty fields.
func (s Schema) Entry(row int, record []string) domain.CatalogueEntry {
	get := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	e := domain.CatalogueEntry{
		Row:         row,
		Name:        get(s.Name),
		URL:         get(s.URL),
		Description: get(s.Description),
		Skills:      get(s.Skills),
		Duration:    get(s.Duration),
		Adaptive:    parseBool(get(s.Adaptive)),
	}
	e.Types = parseTypes(get(s.Category))
	if len(e.Types) > 0 {
		e.Category = e.Types[0]
	}

	e.ID = get(s.ID)
	if e.ID == "" {
		e.ID = e.URL
	}
	if e.ID == "" {
		e.ID = Slug(e.Name)
	}

	known := map[int]struct{}{}
	for _, i := range []int{s.Name, s.Description, s.Category, s.URL, s.ID, s.Skills, s.Duration, s.Adaptive} {
		if i >= 0 {
			known[i] = struct{}{}
		}
	}
	for i, h := range s.header {
		if _, ok := known[i]; ok {
			continue
		}
		if v := get(i); v != "" {
			if e.Attributes == nil {
				e.Attributes = make(map[string]string)
			}
			e.Attributes[strings.TrimSpace(h)] = v
		}
	}
	return e
}

// parseTypes accepts a JSON list such as ["Ability & Aptitude"] or a plain label.
func parseTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			out := list[:0]
			for _, t := range list {
				if t = strings.TrimSpace(t); t != "" {
					out = append(out, t)
				}
			}
			return out
		}
	}
	return []string{raw}
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

// Slug returns the last path segment of a URL, or a lowercase dashed form of a name.
func Slug(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
