package ranking

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// exactKendallMaxN is the largest sample for which the exact null distribution of
// Kendall's tau is used when neither ranking has ties
const exactKendallMaxN = 33

// kendallTauB returns Kendall's tau-b with a two-sided p-value. Without ties and for small
// samples the p-value comes from the exact permutation distribution; otherwise from the
// normal approximation with the tie-corrected variance. When either sequence is constant
// tau is undefined and (0, 1) is returned.
func kendallTauB(x, y []float64) (float64, float64) {
	n := len(x)
	if n < 2 || len(y) != n {
		return 0, 1
	}

	var concordant, discordant, xTiedPairs, yTiedPairs int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := sign(x[i] - x[j])
			dy := sign(y[i] - y[j])
			if dx == 0 {
				xTiedPairs++
			}
			if dy == 0 {
				yTiedPairs++
			}
			switch {
			case dx == 0 || dy == 0:
			case dx == dy:
				concordant++
			default:
				discordant++
			}
		}
	}

	total := n * (n - 1) / 2
	if xTiedPairs == total || yTiedPairs == total {
		return 0, 1
	}
	tau := float64(concordant-discordant) /
		math.Sqrt(float64(total-xTiedPairs)) / math.Sqrt(float64(total-yTiedPairs))
	tau = math.Max(-1, math.Min(1, tau))

	if xTiedPairs == 0 && yTiedPairs == 0 && (n <= exactKendallMaxN || min(discordant, total-discordant) <= 1) {
		return tau, kendallExactP(n, discordant)
	}

	xt := tieStats(x)
	yt := tieStats(y)
	m := float64(n * (n - 1))
	variance := (m*float64(2*n+5)-xt.cubic-yt.cubic)/18 +
		2*float64(xt.pairs)*float64(yt.pairs)/m
	if n > 2 {
		variance += xt.triples * yt.triples / (9 * m * float64(n-2))
	}
	if variance <= 0 {
		return tau, 1
	}
	z := float64(concordant-discordant) / math.Sqrt(variance)
	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	return tau, math.Min(1, p)
}

// kendallExactP is the two-sided p-value of observing at most min(c, total-c) discordant pairs
// among n untied items, counted with the Mahonian recurrence over permutation inversions.
func kendallExactP(n, discordant int) float64 {
	total := n * (n - 1) / 2
	c := min(discordant, total-discordant)

	switch {
	case n <= 2:
		return 1
	case c == 0:
		return math.Min(1, 2/factorial(n))
	case c == 1:
		return math.Min(1, 2/factorial(n-1))
	case 4*c == n*(n-1):
		return 1
	}

	// counts[k] is the number of permutations of j items with exactly k inversions, for k <= c
	counts := make([]float64, c+1)
	counts[0], counts[1] = 1, 1
	for j := 3; j <= n; j++ {
		for k := 1; k <= c; k++ {
			counts[k] += counts[k-1]
		}
		if j <= c {
			for k := c; k >= j; k-- {
				counts[k] -= counts[k-j]
			}
		}
	}

	sum := 0.0
	for _, v := range counts {
		sum += v
	}
	return math.Min(1, 2*sum/factorial(n))
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// ties summarises the tie groups of one sequence for the tau-b variance
type ties struct {
	pairs   int     // sum of t(t-1)/2
	triples float64 // sum of t(t-1)(t-2)
	cubic   float64 // sum of t(t-1)(2t+5)
}

func tieStats(values []float64) ties {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	var out ties
	for _, c := range counts {
		if c < 2 {
			continue
		}
		t := float64(c)
		out.pairs += c * (c - 1) / 2
		out.triples += t * (t - 1) * (t - 2)
		out.cubic += t * (t - 1) * (2*t + 5)
	}
	return out
}

// spearmanRho returns Spearman's rho, the Pearson correlation of average ranks, with a
// two-sided p-value from the t distribution with n-2 degrees of freedom. A constant
// sequence gives (0, 1).
func spearmanRho(x, y []float64) (float64, float64) {
	n := len(x)
	if n < 2 || len(y) != n {
		return 0, 1
	}
	rx, ry := averageRanks(x), averageRanks(y)
	if isConstant(rx) || isConstant(ry) {
		return 0, 1
	}

	rho := stat.Correlation(rx, ry, nil)
	if math.IsNaN(rho) {
		return 0, 1
	}
	rho = math.Max(-1, math.Min(1, rho))

	if n < 3 {
		return rho, 1
	}
	if 1-math.Abs(rho) < 1e-12 {
		return rho, 0
	}
	df := float64(n - 2)
	t := rho * math.Sqrt(df/((1+rho)*(1-rho)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return rho, math.Min(1, 2*dist.Survival(math.Abs(t)))
}

// averageRanks assigns 1-based ranks, giving tied values the mean of the ranks they span
func averageRanks(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
