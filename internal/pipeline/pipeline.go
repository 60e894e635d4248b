// Package pipeline sequences one analysis run: load prices, compute indicators and signal rules,
// score every signal column at each horizon, analyze combinations of the best ones, backtest the
// best ones and reconstruct their equity curves.
package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-signals/internal/backtest/engine"
	"github.com/rxtech-lab/argo-signals/internal/datasource"
	"github.com/rxtech-lab/argo-signals/internal/evaluation"
	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/marker"
	"github.com/rxtech-lab/argo-signals/internal/report"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/internal/version"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"go.uber.org/zap"
)

// combinationFailureKey records a failed combination analysis in a horizon's failures.
const combinationFailureKey = "combinations"

// HorizonResult holds everything computed for one forward horizon.
type HorizonResult struct {
	Horizon    int
	Evaluation evaluation.Evaluation
	Combos     []types.ComboRecord
	// Backtests holds the outcomes of the signals backtested at this horizon
	Backtests engine.Batch
	// Equity holds the curves of the best EquityTopN backtests
	Equity []types.EquityCurve
	// Marks holds the trade marks of the signals in Equity
	Marks []types.Mark
	// Advice is the latest-bar reading of this horizon's top signals
	Advice types.Advice
}

// Result is the in-memory outcome of a run. Save persists it.
type Result struct {
	Report   types.Report
	Frame    *types.Frame
	Horizons []HorizonResult
}

// MarkerFactory creates the marker used for one signal column.
type MarkerFactory func(signal string) marker.Marker

// Pipeline runs the analysis stages over one data source.
type Pipeline struct {
	config    Config
	ds        datasource.DataSource
	registry  indicator.IndicatorRegistry
	rules     []signal.Rule
	log       *logger.Logger
	newMarker MarkerFactory
	progress  engine.ProgressFunc
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRegistry replaces the default indicator registry.
func WithRegistry(registry indicator.IndicatorRegistry) Option {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

// WithRules replaces the default signal rules.
func WithRules(rules []signal.Rule) Option {
	return func(p *Pipeline) {
		p.rules = rules
	}
}

// WithMarkerFactory replaces the in-memory trade marker.
func WithMarkerFactory(factory MarkerFactory) Option {
	return func(p *Pipeline) {
		p.newMarker = factory
	}
}

// WithProgress registers a callback invoked after every backtested column.
func WithProgress(fn engine.ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// NewPipeline validates the configuration and creates a pipeline reading from ds.
func NewPipeline(config Config, ds datasource.DataSource, log *logger.Logger, opts ...Option) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	p := &Pipeline{
		config:   config,
		ds:       ds,
		registry: indicator.NewDefaultRegistry(),
		rules:    signal.DefaultRules(),
		log:      log,
		newMarker: func(name string) marker.Marker {
			return marker.NewTradeMarker(name)
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Config returns the validated configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// LoadSignals loads the price window, runs indicators and rules when configured and discovers
// the signal columns.
func (p *Pipeline) LoadSignals(symbol string) (*types.Frame, []types.SignalSeries, error) {
	frame, err := datasource.LoadFrame(p.ds, symbol, p.config.StartTime, p.config.EndTime)
	if err != nil {
		return nil, nil, err
	}

	p.log.Info("Loaded prices",
		zap.String("symbol", symbol),
		zap.Int("bars", frame.Len()),
		zap.Int("columns", len(frame.Columns())),
	)

	if p.config.ComputeIndicators {
		if err := p.registry.ComputeAll(frame); err != nil {
			return nil, nil, err
		}

		if err := signal.Apply(frame, p.rules); err != nil {
			return nil, nil, err
		}
	}

	signals, err := signal.Discover(frame, p.config.SignalSuffixes)
	if err != nil {
		return nil, nil, err
	}

	if len(signals) == 0 {
		return nil, nil, errors.Newf(errors.ErrCodeColumnNotFound, "no signal columns end with any of %v", p.config.SignalSuffixes)
	}

	p.log.Info("Discovered signal columns", zap.Int("signals", len(signals)))

	return frame, signals, nil
}

// Run executes every stage for each configured horizon.
func (p *Pipeline) Run(ctx context.Context, symbol string) (Result, error) {
	frame, signals, err := p.LoadSignals(symbol)
	if err != nil {
		return Result{}, err
	}

	eng, err := engine.NewEngine(p.config.Config)
	if err != nil {
		return Result{}, err
	}

	runner := engine.NewRunner(eng, p.log,
		engine.WithParallelism(p.config.Parallelism),
		engine.WithProgress(p.progress),
	)

	bars := frame.Bars()
	byName := make(map[string]types.SignalSeries, len(signals))

	for _, s := range signals {
		byName[s.Name] = s
	}

	result := Result{
		Frame: frame,
		Report: types.Report{
			ID:        uuid.New().String(),
			Version:   version.GetVersion(),
			Symbol:    symbol,
			CreatedAt: p.now().UTC(),
			Bars:      frame.Len(),
			Start:     bars[0].Time,
			End:       bars[len(bars)-1].Time,
			Files:     map[string]string{},
		},
	}

	// backtests do not depend on the horizon, only the selection does
	backtested := engine.Batch{
		Outcomes: map[string]engine.Outcome{},
		Failures: map[string]error{},
	}

	for _, horizon := range p.config.Horizons {
		hr, err := p.runHorizon(ctx, runner, frame, byName, horizon, &backtested)
		if err != nil {
			return Result{}, err
		}

		result.Horizons = append(result.Horizons, hr)
		result.Report.Horizons = append(result.Report.Horizons, horizonReport(hr))
	}

	return result, nil
}

func (p *Pipeline) runHorizon(ctx context.Context, runner *engine.Runner, frame *types.Frame, byName map[string]types.SignalSeries, horizon int, backtested *engine.Batch) (HorizonResult, error) {
	bars := frame.Bars()
	signals := make([]types.SignalSeries, 0, len(byName))

	for _, s := range byName {
		signals = append(signals, s)
	}

	sort.Slice(signals, func(i, j int) bool { return signals[i].Name < signals[j].Name })

	eval, err := evaluation.EvaluateParallel(ctx, bars, signals, horizon, p.config.Parallelism)
	if err != nil {
		return HorizonResult{}, err
	}

	p.log.Info("Evaluated signals",
		zap.Int("horizon", horizon),
		zap.Int("reported", len(eval.Records)),
		zap.Int("failed", len(eval.Failures)),
	)

	hr := HorizonResult{
		Horizon:    horizon,
		Evaluation: eval,
	}

	advice, err := report.Advise(frame, eval.Top(report.AdviceListN))
	if err != nil {
		return HorizonResult{}, err
	}

	advice.HorizonDays = horizon
	hr.Advice = advice

	candidates := pick(byName, eval.Top(p.config.TopN))

	combos, err := evaluation.Analyze(bars, candidates, horizon, p.config.MaxComboSize)
	if err != nil {
		p.log.Warn("Combination analysis failed", zap.Int("horizon", horizon), zap.Error(err))
		hr.Evaluation.Failures[combinationFailureKey] = err
	}

	hr.Combos = combos

	selected := eval.Top(p.config.BacktestTopN)

	var pending []types.SignalSeries

	for _, name := range selected {
		_, done := backtested.Outcomes[name]
		_, failed := backtested.Failures[name]

		if !done && !failed {
			pending = append(pending, byName[name])
		}
	}

	if len(pending) > 0 {
		batch, err := runner.RunAll(ctx, bars, pending)
		if err != nil {
			return HorizonResult{}, err
		}

		for name, outcome := range batch.Outcomes {
			backtested.Outcomes[name] = outcome
		}

		for name, failure := range batch.Failures {
			backtested.Failures[name] = failure
		}
	}

	hr.Backtests = engine.Batch{
		Outcomes: map[string]engine.Outcome{},
		Failures: map[string]error{},
	}

	for _, name := range selected {
		if outcome, ok := backtested.Outcomes[name]; ok {
			hr.Backtests.Outcomes[name] = outcome
		}

		if failure, ok := backtested.Failures[name]; ok {
			hr.Backtests.Failures[name] = failure
		}
	}

	hr.Backtests.Ranked = engine.Rank(hr.Backtests.Outcomes)

	for _, name := range hr.Backtests.Top(p.config.EquityTopN) {
		outcome := hr.Backtests.Outcomes[name]
		hr.Equity = append(hr.Equity, outcome.Equity)

		m := p.newMarker(name)
		if err := marker.MarkLedger(m, outcome.Ledger); err != nil {
			return HorizonResult{}, err
		}

		marks, err := m.GetMarkers()
		if err != nil {
			return HorizonResult{}, err
		}

		hr.Marks = append(hr.Marks, marks...)
	}

	return hr, nil
}

func pick(byName map[string]types.SignalSeries, names []string) []types.SignalSeries {
	picked := make([]types.SignalSeries, 0, len(names))
	for _, name := range names {
		picked = append(picked, byName[name])
	}

	return picked
}

func horizonReport(hr HorizonResult) types.HorizonReport {
	failures := map[string]string{}

	for name, err := range hr.Evaluation.Failures {
		failures[name] = err.Error()
	}

	for name, err := range hr.Backtests.Failures {
		failures[name] = err.Error()
	}

	if len(failures) == 0 {
		failures = nil
	}

	combos := hr.Combos
	if combos == nil {
		combos = []types.ComboRecord{}
	}

	return types.HorizonReport{
		HorizonDays:  hr.Horizon,
		Accuracy:     hr.Evaluation.Ranked(),
		Combinations: combos,
		Backtests:    hr.Backtests.Ranked,
		Advice:       hr.Advice,
		Failures:     failures,
	}
}
