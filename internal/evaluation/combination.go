package evaluation

import (
	"sort"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// DefaultMaxComboSize is the largest combination analyzed unless configured otherwise.
const DefaultMaxComboSize = 3

// Analyze scores every subset of 2 up to maxComboSize candidate columns. A subset triggers a
// buy only on bars where every member is a buy, and a sell only where every member is a sell.
// Subsets without any trigger are dropped. The result is ordered by buy accuracy, then buy
// return, both descending with NaN last. Equal records keep subset enumeration order.
func Analyze(bars []types.PriceBar, candidates []types.SignalSeries, horizon int, maxComboSize int) ([]types.ComboRecord, error) {
	if maxComboSize < 2 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "max combination size must be at least 2, got %d", maxComboSize)
	}

	forward, err := ForwardReturns(bars, horizon)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		if err := candidate.CheckAligned(bars); err != nil {
			return nil, err
		}
	}

	records := []types.ComboRecord{}
	largest := min(len(candidates), maxComboSize)

	for size := 2; size <= largest; size++ {
		for _, subset := range Combinations(len(candidates), size) {
			members := make([]types.SignalSeries, len(subset))
			names := make([]string, len(subset))

			for i, idx := range subset {
				members[i] = candidates[idx]
				names[i] = candidates[idx].Name
			}

			buy, sell := conjunction(members, len(bars))

			record, ok := Score(types.ComboLabel(names), buy, sell, forward)
			if !ok {
				continue
			}

			records = append(records, types.ComboRecord{AccuracyRecord: record, Indicators: names})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		less, _ := byBuyAccuracy(records[i].AccuracyRecord, records[j].AccuracyRecord)

		return less
	})

	return records, nil
}

func conjunction(members []types.SignalSeries, n int) ([]bool, []bool) {
	buy := make([]bool, n)
	sell := make([]bool, n)

	for i := range n {
		allBuy, allSell := true, true

		for _, member := range members {
			allBuy = allBuy && member.IsBuy(i)
			allSell = allSell && member.IsSell(i)
		}

		buy[i] = allBuy
		sell[i] = allSell
	}

	return buy, sell
}

// Combinations returns every k-subset of {0..n-1} as ascending index lists in lexicographic
// order.
func Combinations(n, k int) [][]int {
	if k <= 0 || k > n {
		return nil
	}

	var result [][]int

	subset := make([]int, k)
	for i := range subset {
		subset[i] = i
	}

	for {
		result = append(result, append([]int(nil), subset...))

		// rightmost position that can still move
		i := k - 1
		for i >= 0 && subset[i] == n-k+i {
			i--
		}

		if i < 0 {
			return result
		}

		subset[i]++
		for j := i + 1; j < k; j++ {
			subset[j] = subset[j-1] + 1
		}
	}
}
