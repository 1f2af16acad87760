package usecase

import "math"

// PrecisionAtK is the share of the first k retrieved items that are relevant.
// The denominator is k even when fewer items were retrieved.
func PrecisionAtK(retrieved []string, relevant map[string]bool, k int) float64 {
	if len(relevant) == 0 || k <= 0 {
		return 0
	}
	return float64(hitsAtK(retrieved, relevant, k)) / float64(k)
}

// RecallAtK is the share of relevant items found in the first k retrieved.
func RecallAtK(retrieved []string, relevant map[string]bool, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	return float64(hitsAtK(retrieved, relevant, k)) / float64(len(relevant))
}

// ReciprocalRank is 1/rank of the first relevant item, or 0.
func ReciprocalRank(retrieved []string, relevant map[string]bool) float64 {
	for i, r := range retrieved {
		if relevant[r] {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// NDCGAtK uses binary relevance.
func NDCGAtK(retrieved []string, relevant map[string]bool, k int) float64 {
	var dcg float64
	for i, r := range retrieved {
		if i >= k {
			break
		}
		if relevant[r] {
			dcg += 1 / math.Log2(float64(i+2))
		}
	}
	var idcg float64
	for i := 0; i < min(k, len(relevant)); i++ {
		idcg += 1 / math.Log2(float64(i+2))
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

func hitsAtK(retrieved []string, relevant map[string]bool, k int) int {
	hits := 0
	seen := make(map[string]bool)
	for i, r := range retrieved {
		if i >= k {
			break
		}
		if relevant[r] && !seen[r] {
			hits++
			seen[r] = true
		}
	}
	return hits
}
