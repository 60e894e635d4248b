// Package evaluation scores signal columns, alone and in AND-combinations, against forward
// N-bar returns of the close price.
package evaluation

import (
	"context"
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"golang.org/x/sync/errgroup"
)

// Evaluation is the outcome of scoring many signal columns at one horizon.
type Evaluation struct {
	Horizon int
	// Records is keyed by signal name. Columns without any trigger are absent.
	Records map[string]types.AccuracyRecord
	// Failures is keyed by signal name.
	Failures map[string]error
}

// Ranked returns the records sorted by buy accuracy, then buy return, both descending with NaN
// last, then by name.
func (e Evaluation) Ranked() []types.AccuracyRecord {
	return Rank(e.Records)
}

// Top returns the names of the n best ranked signals.
func (e Evaluation) Top(n int) []string {
	ranked := e.Ranked()
	n = max(0, min(n, len(ranked)))

	names := make([]string, n)
	for i := range n {
		names[i] = ranked[i].Signal
	}

	return names
}

// Evaluate scores every signal column against the forward returns at horizon.
// The only returned error is an invalid horizon. A misaligned column is recorded in Failures.
func Evaluate(bars []types.PriceBar, signals []types.SignalSeries, horizon int) (Evaluation, error) {
	return EvaluateParallel(context.Background(), bars, signals, horizon, 1)
}

// EvaluateParallel is Evaluate with up to parallelism columns scored at once.
func EvaluateParallel(ctx context.Context, bars []types.PriceBar, signals []types.SignalSeries, horizon int, parallelism int) (Evaluation, error) {
	forward, err := ForwardReturns(bars, horizon)
	if err != nil {
		return Evaluation{}, err
	}

	evaluation := Evaluation{
		Horizon:  horizon,
		Records:  make(map[string]types.AccuracyRecord, len(signals)),
		Failures: make(map[string]error),
	}

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, parallelism))

	for _, signal := range signals {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			record, ok, err := evaluateOne(bars, signal, forward)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err != nil:
				evaluation.Failures[signal.Name] = err
			case ok:
				evaluation.Records[signal.Name] = record
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return evaluation, err
	}

	return evaluation, nil
}

func evaluateOne(bars []types.PriceBar, signal types.SignalSeries, forward []float64) (types.AccuracyRecord, bool, error) {
	if err := signal.CheckAligned(bars); err != nil {
		return types.AccuracyRecord{}, false, err
	}

	buy := make([]bool, signal.Len())
	sell := make([]bool, signal.Len())

	for i := range signal.Values {
		buy[i] = signal.IsBuy(i)
		sell[i] = signal.IsSell(i)
	}

	record, ok := Score(signal.Name, buy, sell, forward)

	return record, ok, nil
}

// Rank sorts accuracy records by buy accuracy, then buy return, both descending with NaN
// last, then by name.
func Rank(records map[string]types.AccuracyRecord) []types.AccuracyRecord {
	ranked := make([]types.AccuracyRecord, 0, len(records))
	for _, record := range records {
		ranked = append(ranked, record)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if less, tie := byBuyAccuracy(ranked[i], ranked[j]); !tie {
			return less
		}

		return ranked[i].Signal < ranked[j].Signal
	})

	return ranked
}

func byBuyAccuracy(a, b types.AccuracyRecord) (less bool, tie bool) {
	if less, tie := descending(a.BuyAccuracy, b.BuyAccuracy); !tie {
		return less, false
	}

	return descending(a.BuyReturn, b.BuyReturn)
}
