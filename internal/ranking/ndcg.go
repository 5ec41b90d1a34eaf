package ranking

import (
	"math"
	"sort"

	"github.com/jonathan/resume-ranker/internal/types"
)

// ndcgAtK ranks by system score, takes the top k and discounts reference scores by
// log2(rank+1). The ideal DCG ranks by reference score instead. Equal scores keep
// candidate id order.
func ndcgAtK(data aligned, k int) types.NDCGAtK {
	systemOrder := orderBy(data.system)
	idealOrder := orderBy(data.reference)

	idealRank := make([]int, len(idealOrder))
	for pos, idx := range idealOrder {
		idealRank[idx] = pos + 1
	}

	dcg := discountedGain(systemOrder[:k], data.reference)
	idcg := discountedGain(idealOrder[:k], data.reference)
	ndcg := 0.0
	if idcg > 0 {
		ndcg = dcg / idcg
	}

	top := make([]types.RankedEntry, 0, k)
	for pos, idx := range systemOrder[:k] {
		top = append(top, types.RankedEntry{
			Rank:           pos + 1,
			Candidate:      data.ids[idx],
			SystemScore:    round(data.system[idx], 4),
			ReferenceScore: round(data.reference[idx], 4),
			IdealRank:      idealRank[idx],
		})
	}

	return types.NDCGAtK{
		K:              k,
		NDCG:           round(ndcg, 4),
		DCG:            round(dcg, 4),
		IDCG:           round(idcg, 4),
		TopK:           top,
		Interpretation: InterpretNDCG(ndcg),
	}
}

// orderBy returns indices sorted by score descending. The input is already in id order
// and the sort is stable, so ties resolve by id.
func orderBy(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	return idx
}

func discountedGain(order []int, relevance []float64) float64 {
	gain := 0.0
	for pos, idx := range order {
		gain += relevance[idx] / math.Log2(float64(pos+2))
	}
	return gain
}
