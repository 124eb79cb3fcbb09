package measurement

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoValues is returned when a statistic is requested over no values
var ErrNoValues = errors.New("no values")

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks: with n sorted values the result is
// taken at fractional rank (n-1)*p/100. The input is not modified.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return math.NaN(), ErrNoValues
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

// percentileSorted is Percentile for input already in ascending order
func percentileSorted(sorted []float64, p float64) (float64, error) {
	n := len(sorted)
	if n == 0 {
		return math.NaN(), ErrNoValues
	}
	if math.IsNaN(p) || p < 0 || p > 100 {
		return math.NaN(), fmt.Errorf("percentile %v outside [0, 100]", p)
	}

	rank := float64(n-1) * p / 100
	lo := int(math.Floor(rank))
	if lo >= n-1 {
		return sorted[n-1], nil
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo]), nil
}
