package ranking

import "github.com/jonathan/resume-ranker/internal/types"

const (
	// maxSampleDisagreements bounds the disagreements kept for diagnostics
	maxSampleDisagreements = 5

	// thresholdTolerance keeps a pair whose reference difference equals the threshold
	// up to floating-point error
	thresholdTolerance = 1e-9

	tieLabel = "tie"
)

// pairwiseAccuracy counts the unordered pairs the system orders the same way as the reference.
// Pairs whose reference scores differ by less than the threshold are near-ties and skipped.
// A pair the system scores equal while the reference does not counts as incorrect.
func pairwiseAccuracy(data aligned, threshold float64) types.PairwiseAccuracy {
	result := types.PairwiseAccuracy{
		Threshold:           threshold,
		SampleDisagreements: []types.PairDisagreement{},
	}

	n := len(data.ids)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			refDiff := data.reference[i] - data.reference[j]
			if abs(refDiff) < threshold-thresholdTolerance {
				result.SkippedPairs++
				continue
			}
			result.TotalPairs++

			sysDiff := data.system[i] - data.system[j]
			if sign(sysDiff) == sign(refDiff) {
				result.CorrectPairs++
				continue
			}
			if len(result.SampleDisagreements) < maxSampleDisagreements {
				result.SampleDisagreements = append(result.SampleDisagreements, types.PairDisagreement{
					Candidate1:      data.ids[i],
					Candidate2:      data.ids[j],
					ReferenceScores: [2]float64{round(data.reference[i], 4), round(data.reference[j], 4)},
					SystemScores:    [2]float64{round(data.system[i], 4), round(data.system[j], 4)},
					ReferenceWinner: winner(data.ids[i], data.ids[j], refDiff),
					SystemWinner:    winner(data.ids[i], data.ids[j], sysDiff),
				})
			}
		}
	}

	result.IncorrectPairs = result.TotalPairs - result.CorrectPairs
	accuracy := 0.0
	if result.TotalPairs > 0 {
		accuracy = float64(result.CorrectPairs) / float64(result.TotalPairs)
	}
	result.Accuracy = round(accuracy, 4)
	result.Interpretation = InterpretPairwise(accuracy)
	return result
}

func winner(first, second string, diff float64) string {
	switch sign(diff) {
	case 1:
		return first
	case -1:
		return second
	}
	return tieLabel
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
