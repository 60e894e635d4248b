package main

import (
	"context"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/backtest/engine"
	"github.com/rxtech-lab/argo-signals/internal/datasource"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/pipeline"
	"github.com/rxtech-lab/argo-signals/internal/report"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var dateLayouts = cli.TimestampConfig{Layouts: []string{time.DateOnly, time.RFC3339}}

func dataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "data",
			Aliases:  []string{"d"},
			Usage:    "Price file (`PATH` to .parquet or .csv) with a date column and OHLCV columns",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML analysis config. Defaults are used when omitted.",
		},
		&cli.StringFlag{
			Name:    "symbol",
			Aliases: []string{"s"},
			Usage:   "Symbol label for the report",
			Value:   "UNKNOWN",
		},
		&cli.TimestampFlag{
			Name:   "start",
			Usage:  "First date of the analysis window in `YYYY-MM-DD` format",
			Config: dateLayouts,
		},
		&cli.TimestampFlag{
			Name:   "end",
			Usage:  "Last date of the analysis window in `YYYY-MM-DD` format",
			Config: dateLayouts,
		},
	}
}

// setup loads the config, applies flag overrides and opens the data source.
func setup(cmd *cli.Command) (pipeline.Config, datasource.DataSource, *logger.Logger, error) {
	config, err := pipeline.LoadConfig(cmd.String("config"))
	if err != nil {
		return pipeline.Config{}, nil, nil, err
	}

	if level := cmd.String("log-level"); level != "" {
		config.LogLevel = level
	}

	if cmd.IsSet("start") {
		config.StartTime = optional.Some(cmd.Timestamp("start"))
	}

	if cmd.IsSet("end") {
		config.EndTime = optional.Some(cmd.Timestamp("end"))
	}

	if err := config.Validate(); err != nil {
		return pipeline.Config{}, nil, nil, err
	}

	log, err := logger.NewLoggerWithLevel(config.LogLevel)
	if err != nil {
		return pipeline.Config{}, nil, nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create logger", err)
	}

	ds, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return pipeline.Config{}, nil, nil, err
	}

	if err := ds.Initialize(cmd.String("data")); err != nil {
		ds.Close()

		return pipeline.Config{}, nil, nil, err
	}

	return config, ds, log, nil
}

func analyzeCommand() *cli.Command {
	flags := append(dataFlags(),
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Directory reports are saved under",
			Value:   "reports",
		},
		&cli.BoolFlag{
			Name:  "no-save",
			Usage: "Print the report without writing it",
		},
	)

	return &cli.Command{
		Name:   "analyze",
		Usage:  "Score every signal column, combine the best, backtest them and print advice",
		Flags:  flags,
		Action: analyzeAction,
	}
}

func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	config, ds, log, err := setup(cmd)
	if err != nil {
		return err
	}

	defer ds.Close()
	defer log.Sync()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Backtesting signals"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	p, err := pipeline.NewPipeline(config, ds, log, pipeline.WithProgress(func(string) {
		_ = bar.Add(1)
	}))
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, cmd.String("symbol"))
	_ = bar.Finish()

	if err != nil {
		return err
	}

	fmt.Println(report.Render(result.Report))

	if cmd.Bool("no-save") {
		return nil
	}

	dir, err := pipeline.Save(cmd.String("out"), result, log)
	if err != nil {
		return err
	}

	log.Info("Report saved", zap.String("dir", dir))

	return nil
}

func backtestCommand() *cli.Command {
	flags := append(dataFlags(),
		&cli.StringFlag{
			Name:     "signal",
			Usage:    "Signal column to backtest, e.g. RSI_14_Signal",
			Required: true,
		},
	)

	return &cli.Command{
		Name:   "backtest",
		Usage:  "Backtest a single signal column and print its trade ledger",
		Flags:  flags,
		Action: backtestAction,
	}
}

func backtestAction(_ context.Context, cmd *cli.Command) error {
	config, ds, log, err := setup(cmd)
	if err != nil {
		return err
	}

	defer ds.Close()
	defer log.Sync()

	p, err := pipeline.NewPipeline(config, ds, log)
	if err != nil {
		return err
	}

	frame, _, err := p.LoadSignals(cmd.String("symbol"))
	if err != nil {
		return err
	}

	series, err := frame.Signal(cmd.String("signal"))
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(config.Config)
	if err != nil {
		return err
	}

	result, err := eng.Run(frame.Bars(), series)
	if err != nil {
		return err
	}

	fmt.Println(report.LedgerTable(series.Name, result.Ledger))
	fmt.Println(report.BacktestTable([]types.BacktestSummary{result.Summary}))

	return nil
}
