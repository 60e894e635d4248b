package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/writer"
	"go.uber.org/zap"
)

// tableWriter is the part of the parquet writers Save drives.
type tableWriter interface {
	Initialize() error
	GetOutputPath() string
	Flush() error
	Count() (int, error)
	Close() error
}

// finish exports the table even when nothing was written, then releases it.
func finish(w tableWriter, err error, log *logger.Logger) error {
	if err == nil {
		err = w.Flush()
	}

	if err == nil {
		var rows int
		if rows, err = w.Count(); err == nil {
			log.Debug("Exported table",
				zap.String("path", w.GetOutputPath()),
				zap.Int("rows", rows),
			)
		}
	}

	if closeErr := w.Close(); err == nil {
		err = closeErr
	}

	return err
}

// Save writes the run into <dir>/<run id>/: one parquet file per horizon and table, plus
// report.yaml listing them. It returns the run directory.
func Save(dir string, result Result, log *logger.Logger) (string, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	runDir := filepath.Join(dir, result.Report.ID)
	files := map[string]string{}

	open := func(name string, w tableWriter) error {
		if err := w.Initialize(); err != nil {
			return err
		}

		files[name] = filepath.Base(w.GetOutputPath())

		return nil
	}

	for _, hr := range result.Horizons {
		suffix := fmt.Sprintf("%dd", hr.Horizon)

		accuracy := writer.NewAccuracyWriter(filepath.Join(runDir, "accuracy_"+suffix+".parquet"))
		if err := open("accuracy_"+suffix, accuracy); err != nil {
			return "", err
		}

		err := accuracy.Write(hr.Horizon, hr.Evaluation.Ranked())
		if err == nil {
			err = accuracy.WriteCombos(hr.Horizon, hr.Combos)
		}

		if err := finish(accuracy, err, log); err != nil {
			return "", err
		}

		trades := writer.NewTradesWriter(filepath.Join(runDir, "trades_"+suffix+".parquet"))
		if err := open("trades_"+suffix, trades); err != nil {
			return "", err
		}

		for _, summary := range hr.Backtests.Ranked {
			if err = trades.Write(summary.Signal, hr.Backtests.Outcomes[summary.Signal].Ledger); err != nil {
				break
			}
		}

		if err := finish(trades, err, log); err != nil {
			return "", err
		}

		equity := writer.NewEquityWriter(filepath.Join(runDir, "equity_"+suffix+".parquet"))
		if err := open("equity_"+suffix, equity); err != nil {
			return "", err
		}

		for _, curve := range hr.Equity {
			if err = equity.Write(curve); err != nil {
				break
			}
		}

		if err := finish(equity, err, log); err != nil {
			return "", err
		}

		backtests := writer.NewBacktestsWriter(filepath.Join(runDir, "backtests_"+suffix+".parquet"))
		if err := open("backtests_"+suffix, backtests); err != nil {
			return "", err
		}

		if err := finish(backtests, backtests.Write(hr.Horizon, hr.Backtests.Ranked), log); err != nil {
			return "", err
		}

		marks := writer.NewMarksWriter(filepath.Join(runDir, "marks_"+suffix+".parquet"))
		if err := open("marks_"+suffix, marks); err != nil {
			return "", err
		}

		if err := finish(marks, marks.Write(hr.Marks), log); err != nil {
			return "", err
		}
	}

	rep := result.Report
	rep.Files = files

	path, err := writer.WriteReport(runDir, rep)
	if err != nil {
		return "", err
	}

	log.Info("Saved report",
		zap.String("path", path),
		zap.Int("files", len(files)),
	)

	return runDir, nil
}
