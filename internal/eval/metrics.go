package eval

import (
	"math"
	"sort"
)

// MetricsSet holds retrieval metrics for one question or a dataset mean.
type MetricsSet struct {
	Recall5  float64 `json:"recall@5"`
	Recall10 float64 `json:"recall@10"`
	NDCG10   float64 `json:"ndcg@10"`
	MRR10    float64 `json:"mrr@10"`
}

// RecallAtK is the fraction of relevant instructions found in the top k.
// Grades > 0 count as relevant.
func RecallAtK(ranked []string, relevant map[string]int, k int) float64 {
	total := 0
	for _, rel := range relevant {
		if rel > 0 {
			total++
		}
	}
	if total == 0 {
		return 0
	}

	found := 0
	for _, id := range ranked[:min(k, len(ranked))] {
		if relevant[id] > 0 {
			found++
		}
	}
	return float64(found) / float64(total)
}

// NDCGAtK is the normalised discounted cumulative gain at k with graded relevance.
func NDCGAtK(ranked []string, relevant map[string]int, k int) float64 {
	dcg := 0.0
	for i, id := range ranked[:min(k, len(ranked))] {
		dcg += gain(relevant[id], i)
	}

	ideal := make([]int, 0, len(relevant))
	for _, r := range relevant {
		if r > 0 {
			ideal = append(ideal, r)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ideal)))

	idcg := 0.0
	for i, r := range ideal[:min(k, len(ideal))] {
		idcg += gain(r, i)
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

func gain(rel, pos int) float64 {
	if rel <= 0 {
		return 0
	}
	return (math.Pow(2, float64(rel)) - 1) / math.Log2(float64(pos+2))
}

// MRRAtK is the reciprocal rank of the first relevant instruction in the top k.
func MRRAtK(ranked []string, relevant map[string]int, k int) float64 {
	for i, id := range ranked[:min(k, len(ranked))] {
		if relevant[id] > 0 {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// ComputeAll calculates the MetricsSet for one question.
func ComputeAll(ranked []string, relevant map[string]int) MetricsSet {
	return MetricsSet{
		Recall5:  RecallAtK(ranked, relevant, 5),
		Recall10: RecallAtK(ranked, relevant, 10),
		NDCG10:   NDCGAtK(ranked, relevant, 10),
		MRR10:    MRRAtK(ranked, relevant, 10),
	}
}

// AverageMetrics returns the mean of per-question metrics.
func AverageMetrics(sets []MetricsSet) MetricsSet {
	if len(sets) == 0 {
		return MetricsSet{}
	}
	var sum MetricsSet
	for _, m := range sets {
		sum.Recall5 += m.Recall5
		sum.Recall10 += m.Recall10
		sum.NDCG10 += m.NDCG10
		sum.MRR10 += m.MRR10
	}
	n := float64(len(sets))
	return MetricsSet{
		Recall5:  sum.Recall5 / n,
		Recall10: sum.Recall10 / n,
		NDCG10:   sum.NDCG10 / n,
		MRR10:    sum.MRR10 / n,
	}
}
