package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"assessrec/internal/adapter/catalogue"
	"assessrec/internal/port"
)

// LabelSet is one query and the slugs of the assessments judged relevant for it.
type LabelSet struct {
	Query    string
	Relevant []string
}

// ReadLabels parses a CSV with Query and Assessment_url columns. Rows sharing a
// query are merged; queries keep their first-seen order.
func ReadLabels(r io.Reader) ([]LabelSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read labels header: %w", err)
	}
	qi, ui := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "query":
			qi = i
		case "assessment_url", "url":
			ui = i
		}
	}
	if qi < 0 || ui < 0 {
		return nil, errors.New("labels need Query and Assessment_url columns")
	}

	var sets []LabelSet
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read labels: %w", err)
		}
		if qi >= len(rec) || ui >= len(rec) {
			continue
		}
		query := strings.TrimSpace(rec[qi])
		slug := catalogue.Slug(rec[ui])
		if query == "" || slug == "" {
			continue
		}
		i, ok := index[query]
		if !ok {
			i = len(sets)
			index[query] = i
			sets = append(sets, LabelSet{Query: query})
			seen[query] = make(map[string]bool)
		}
		if seen[query][slug] {
			continue
		}
		seen[query][slug] = true
		sets[i].Relevant = append(sets[i].Relevant, slug)
	}
	return sets, nil
}

// QueryResult holds the metrics of one labelled query.
type QueryResult struct {
	Query     string   `json:"query"`
	Relevant  []string `json:"relevant"`
	Retrieved []string `json:"retrieved"`
	Recall    float64  `json:"recall"`
	Precision float64  `json:"precision"`
	RR        float64  `json:"reciprocal_rank"`
	NDCG      float64  `json:"ndcg"`
	Hit       bool     `json:"hit"`
}

// Report aggregates an evaluation run.
type Report struct {
	K             int           `json:"k"`
	Queries       []QueryResult `json:"queries"`
	MeanRecall    float64       `json:"mean_recall"`
	MeanPrecision float64       `json:"mean_precision"`
	MRR           float64       `json:"mrr"`
	MeanNDCG      float64       `json:"mean_ndcg"`
	HitRate       float64       `json:"hit_rate"`
}

// Evaluate runs every labelled query through rec.Search and scores the top k by URL slug.
func Evaluate(ctx context.Context, rec port.Recommender, labels []LabelSet, k int) (*Report, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1")
	}
	report := &Report{K: k}
	if len(labels) == 0 {
		return report, nil
	}

	hits := 0
	for _, ls := range labels {
		results, err := rec.Search(ctx, ls.Query, k)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", ls.Query, err)
		}

		relevant := make(map[string]bool, len(ls.Relevant))
		for _, s := range ls.Relevant {
			relevant[s] = true
		}
		retrieved := make([]string, len(results))
		for i, r := range results {
			retrieved[i] = catalogue.Slug(r.URL)
		}

		qr := QueryResult{
			Query:     ls.Query,
			Relevant:  ls.Relevant,
			Retrieved: retrieved,
			Recall:    RecallAtK(retrieved, relevant, k),
			Precision: PrecisionAtK(retrieved, relevant, k),
			RR:        ReciprocalRank(retrieved, relevant),
			NDCG:      NDCGAtK(retrieved, relevant, k),
		}
		qr.Hit = qr.RR > 0
		if qr.Hit {
			hits++
		}
		report.Queries = append(report.Queries, qr)

		report.MeanRecall += qr.Recall
		report.MeanPrecision += qr.Precision
		report.MRR += qr.RR
		report.MeanNDCG += qr.NDCG
	}

	n := float64(len(labels))
	report.MeanRecall /= n
	report.MeanPrecision /= n
	report.MRR /= n
	report.MeanNDCG /= n
	report.HitRate = float64(hits) / n
	return report, nil
}
