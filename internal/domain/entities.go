package domain

import "time"

// CatalogueEntry is one row of the product catalogue.
// Row is the entry's position in the loaded catalogue and pairs it with its vector.
type CatalogueEntry struct {
	Row         int               `json:"row"`
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	URL         string            `json:"url,omitempty"`
	Description string            `json:"description"`
	Skills      string            `json:"skills,omitempty"`
	Category    string            `json:"category,omitempty"`
	Types       []string          `json:"types,omitempty"`
	Duration    string            `json:"duration,omitempty"`
	Adaptive    bool              `json:"adaptive"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Weights blends the semantic and skill signals. Values are used as given.
type Weights struct {
	Semantic float64 `json:"semantic" yaml:"semantic"`
	Skill    float64 `json:"skill" yaml:"skill"`
}

type SearchRequest struct {
	Query   string
	Skills  string
	TopK    int
	Weights *Weights
	Explain bool
}

type ScoreBreakdown struct {
	Semantic float64  `json:"semantic"`
	Skill    float64  `json:"skill"`
	Boost    float64  `json:"boost"`
	Final    float64  `json:"final"`
	Rules    []string `json:"rules,omitempty"`
}

type Recommendation struct {
	Rank      int             `json:"rank"`
	Entry     CatalogueEntry  `json:"entry"`
	Score     float64         `json:"score"`
	Breakdown *ScoreBreakdown `json:"breakdown,omitempty"`
}

// SearchHit is the flat result shape consumed by the HTTP and UI front-ends.
type SearchHit struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// CatalogueStats describes a built engine.
type CatalogueStats struct {
	Entries   int
	Dimension int
	Model     string
	FromCache bool
	BuiltAt   time.Time
}

func (r Recommendation) Hit() SearchHit {
	url := r.Entry.URL
	if url == "" {
		url = r.Entry.ID
	}
	return SearchHit{
		ID:          r.Entry.ID,
		Name:        r.Entry.Name,
		URL:         url,
		Description: r.Entry.Description,
		Score:       r.Score,
	}
}
