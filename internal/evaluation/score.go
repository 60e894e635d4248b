package evaluation

import (
	"math"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

// Score aggregates forward returns over the buy and sell trigger masks.
//
// Trigger counts include every trigger. Accuracies and mean returns only use triggers whose
// forward return is defined. The sell return is the mean of the negated forward return, so a
// sell followed by a falling price reports a positive figure. The boolean is false when
// neither mask has a trigger, in which case the record must not be reported.
func Score(name string, buy, sell []bool, forward []float64) (types.AccuracyRecord, bool) {
	var (
		buyCount, sellCount int
		buyValid, sellValid int
		buyHits, sellHits   int
		buySum, sellSum     float64
	)

	for i, ret := range forward {
		defined := !math.IsNaN(ret)

		if buy[i] {
			buyCount++

			if defined {
				buyValid++
				buySum += ret

				if ret > 0 {
					buyHits++
				}
			}
		}

		if sell[i] {
			sellCount++

			if defined {
				sellValid++
				sellSum += ret

				if ret < 0 {
					sellHits++
				}
			}
		}
	}

	if buyCount+sellCount == 0 {
		return types.AccuracyRecord{}, false
	}

	record := types.AccuracyRecord{
		Signal:       name,
		BuySignals:   buyCount,
		SellSignals:  sellCount,
		TotalSignals: buyCount + sellCount,
		BuyAccuracy:  ratio(buyHits, buyValid),
		SellAccuracy: ratio(sellHits, sellValid),
		BuyReturn:    math.NaN(),
		SellReturn:   math.NaN(),
	}

	if buyValid > 0 {
		record.BuyReturn = buySum / float64(buyValid) * 100
	}

	if sellValid > 0 {
		record.SellReturn = -sellSum / float64(sellValid) * 100
	}

	switch {
	case buyCount > 0 && sellCount > 0:
		record.TotalAccuracy = ratio(buyHits+sellHits, buyValid+sellValid)
	case buyCount > 0:
		record.TotalAccuracy = record.BuyAccuracy
	default:
		record.TotalAccuracy = record.SellAccuracy
	}

	return record, true
}

func ratio(hits, total int) float64 {
	if total == 0 {
		return math.NaN()
	}

	return float64(hits) / float64(total)
}

// descending orders a before b when a is larger. NaN sorts after every number.
func descending(a, b float64) (less bool, tie bool) {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)

	switch {
	case aNaN && bNaN:
		return false, true
	case aNaN:
		return false, false
	case bNaN:
		return true, false
	case a == b:
		return false, true
	default:
		return a > b, false
	}
}
