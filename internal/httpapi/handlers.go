package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"assessrec/internal/domain"
	"assessrec/internal/logger"
	"assessrec/internal/port"
)

const maxBodyBytes = 1 << 20

type HealthHandler struct {
	Recommender port.Recommender
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.Recommender.Ready() {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "initializing"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type RecommendRequest struct {
	Query   string          `json:"query"`
	Skills  string          `json:"skills,omitempty"`
	TopK    *int            `json:"top_k,omitempty"`
	Weights *domain.Weights `json:"weights,omitempty"`
	Explain bool            `json:"explain,omitempty"`
}

// Recommendation is the wire form of one ranked assessment.
type Recommendation struct {
	Rank        int                    `json:"rank"`
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	URL         string                 `json:"url"`
	Description string                 `json:"description"`
	Category    string                 `json:"category,omitempty"`
	Types       []string               `json:"types,omitempty"`
	Duration    string                 `json:"duration,omitempty"`
	Adaptive    bool                   `json:"adaptive"`
	Score       float64                `json:"score"`
	Breakdown   *domain.ScoreBreakdown `json:"breakdown,omitempty"`
}

type RecommendHandler struct {
	Recommender port.Recommender
	DefaultTopK int
	Log         *zap.Logger
}

func (h RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var body RecommendRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body: "+err.Error())
		return
	}

	req := domain.SearchRequest{
		Query:   body.Query,
		Skills:  body.Skills,
		TopK:    h.DefaultTopK,
		Weights: body.Weights,
		Explain: body.Explain,
	}
	if body.TopK != nil {
		req.TopK = *body.TopK
	}

	recs, err := h.Recommender.Recommend(r.Context(), req)
	if err != nil {
		if !errors.Is(err, domain.ErrNotReady) && !errors.Is(err, domain.ErrInvalidTopK) {
			h.Log.Error("recommend failed",
				zap.String("request_id", RequestIDFrom(r.Context())),
				zap.String("query", logger.Truncate(req.Query, 80)),
				zap.Error(err),
			)
		}
		writeDomainError(w, r, err)
		return
	}

	out := make([]Recommendation, len(recs))
	for i, rec := range recs {
		hit := rec.Hit()
		out[i] = Recommendation{
			Rank:        rec.Rank,
			ID:          hit.ID,
			Name:        hit.Name,
			URL:         hit.URL,
			Description: hit.Description,
			Category:    rec.Entry.Category,
			Types:       rec.Entry.Types,
			Duration:    rec.Entry.Duration,
			Adaptive:    rec.Entry.Adaptive,
			Score:       rec.Score,
			Breakdown:   rec.Breakdown,
		}
	}
	WriteJSON(w, http.StatusOK, out)
}

// StatsHandler reports what the serving engine was built from.
type StatsHandler struct {
	Stats func() (domain.CatalogueStats, bool)
	Files func() []string
}

func (h StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.Stats()
	if !ok {
		writeDomainError(w, r, domain.ErrNotReady)
		return
	}
	var files []string
	if h.Files != nil {
		files = h.Files()
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"entries":    stats.Entries,
		"dimension":  stats.Dimension,
		"model":      stats.Model,
		"from_cache": stats.FromCache,
		"built_at":   stats.BuiltAt,
		"files":      files,
	})
}
