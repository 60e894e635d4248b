package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Outcome is everything produced for one signal column.
type Outcome struct {
	Result
	Equity types.EquityCurve
}

// Batch holds the results of backtesting many signal columns over the same prices.
type Batch struct {
	// Outcomes is keyed by signal name.
	Outcomes map[string]Outcome
	// Ranked holds the summaries sorted by total return, highest first.
	Ranked []types.BacktestSummary
	// Failures is keyed by signal name. A failed column never stops the others.
	Failures map[string]error
}

// Top returns the names of the n best ranked signals.
func (b Batch) Top(n int) []string {
	n = max(0, min(n, len(b.Ranked)))
	names := make([]string, n)

	for i := range n {
		names[i] = b.Ranked[i].Signal
	}

	return names
}

// ProgressFunc is called once per finished signal column.
type ProgressFunc func(signal string)

// Runner backtests signal columns concurrently. Each column is an independent computation over
// the same read-only prices, so the outcome does not depend on scheduling.
type Runner struct {
	engine      *Engine
	log         *logger.Logger
	parallelism int
	progress    ProgressFunc
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithParallelism bounds the number of columns processed at once. Values below one mean one.
func WithParallelism(n int) RunnerOption {
	return func(r *Runner) {
		r.parallelism = max(1, n)
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) RunnerOption {
	return func(r *Runner) {
		r.progress = fn
	}
}

// NewRunner creates a runner around an engine.
func NewRunner(engine *Engine, log *logger.Logger, opts ...RunnerOption) *Runner {
	if log == nil {
		log = logger.NewNopLogger()
	}

	r := &Runner{
		engine:      engine,
		log:         log,
		parallelism: 1,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RunAll backtests every signal and reconstructs its equity curve. Per-signal errors are
// collected in Batch.Failures. The only returned error is the context's.
func (r *Runner) RunAll(ctx context.Context, bars []types.PriceBar, signals []types.SignalSeries) (Batch, error) {
	batch := Batch{
		Outcomes: make(map[string]Outcome, len(signals)),
		Failures: make(map[string]error),
	}

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.parallelism)

	for _, signal := range signals {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			outcome, err := r.runOne(bars, signal)

			mu.Lock()
			if err != nil {
				batch.Failures[signal.Name] = err
			} else {
				batch.Outcomes[signal.Name] = outcome
			}
			mu.Unlock()

			if err != nil {
				r.log.Warn("Backtest failed",
					zap.String("signal", signal.Name),
					zap.Error(err),
				)
			} else {
				r.log.Debug("Backtest finished",
					zap.String("signal", signal.Name),
					zap.Int("trades", len(outcome.Ledger)),
					zap.Float64("total_return_pct", outcome.Summary.TotalReturnPct),
				)
			}

			if r.progress != nil {
				r.progress(signal.Name)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return batch, err
	}

	batch.Ranked = Rank(batch.Outcomes)

	r.log.Info("Backtests completed",
		zap.Int("signals", len(signals)),
		zap.Int("succeeded", len(batch.Outcomes)),
		zap.Int("failed", len(batch.Failures)),
	)

	return batch, nil
}

func (r *Runner) runOne(bars []types.PriceBar, signal types.SignalSeries) (outcome Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf(errors.ErrCodeBacktestFailed, "backtest of %s panicked: %v", signal.Name, rec)
		}
	}()

	result, err := r.engine.Run(bars, signal)
	if err != nil {
		return Outcome{}, err
	}

	curve, err := Reconstruct(signal.Name, bars, result.Ledger, r.engine.config.InitialCapital)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Result: result, Equity: curve}, nil
}

// Rank sorts summaries by total return descending, breaking ties by signal name.
func Rank(outcomes map[string]Outcome) []types.BacktestSummary {
	ranked := make([]types.BacktestSummary, 0, len(outcomes))
	for _, outcome := range outcomes {
		ranked = append(ranked, outcome.Summary)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalReturnPct != ranked[j].TotalReturnPct {
			return ranked[i].TotalReturnPct > ranked[j].TotalReturnPct
		}

		return ranked[i].Signal < ranked[j].Signal
	})

	return ranked
}
