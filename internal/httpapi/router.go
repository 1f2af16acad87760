package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"assessrec/internal/domain"
	"assessrec/internal/logger"
	"assessrec/internal/port"
)

type Deps struct {
	Recommender port.Recommender
	DefaultTopK int

	// Optional; /stats is only mounted when Stats is set.
	Stats func() (domain.CatalogueStats, bool)
	Files func() []string

	Log *zap.Logger
}

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

// NewMux returns the raw routes.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	log := logger.OrNop(d.Log)

	topK := d.DefaultTopK
	if topK <= 0 {
		topK = 10
	}

	hh := HealthHandler{Recommender: d.Recommender}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	rh := RecommendHandler{Recommender: d.Recommender, DefaultTopK: topK, Log: log}
	mux.HandleFunc("/recommend", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Recommend,
	}))

	if d.Stats != nil {
		sh := StatsHandler{Stats: d.Stats, Files: d.Files}
		mux.HandleFunc("/stats", methodMux(map[string]http.HandlerFunc{
			http.MethodGet: sh.Get,
		}))
	}

	return mux
}

// NewHandler wraps the routes with the standard middleware chain.
func NewHandler(d Deps) http.Handler {
	log := logger.OrNop(d.Log)
	return Chain(NewMux(d), RequestID, Recover(log), AccessLog(log), Cors)
}
