package writer

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/internal/version"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ReportFileName is the name of the run report inside a report directory.
const ReportFileName = "report.yaml"

// WriteReport writes the report as YAML into dir, creating the directory if needed.
func WriteReport(dir string, report types.Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create report directory", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to marshal report to YAML", err)
	}

	path := filepath.Join(dir, ReportFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write report", err)
	}

	return path, nil
}

// ReadReport reads the report in dir and rejects reports written by an incompatible version.
func ReadReport(dir string) (types.Report, error) {
	data, err := os.ReadFile(filepath.Join(dir, ReportFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return types.Report{}, errors.Wrapf(errors.ErrCodeDataNotFound, err, "no report in %s", dir)
		}

		return types.Report{}, errors.Wrap(errors.ErrCodeReportReadFailed, "failed to read report", err)
	}

	var report types.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return types.Report{}, errors.Wrap(errors.ErrCodeReportReadFailed, "failed to unmarshal report", err)
	}

	if err := version.CheckReportCompatibility(version.GetVersion(), report.Version); err != nil {
		return types.Report{}, err
	}

	return report, nil
}

// ReportSummary is one entry of a report listing.
type ReportSummary struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Bars      int       `json:"bars"`
	Horizons  []int     `json:"horizons"`
}

// ListReports summarizes the readable reports in the subdirectories of root, newest first.
// Subdirectories without a compatible report are returned in skipped, keyed by directory name.
func ListReports(root string) (summaries []ReportSummary, skipped map[string]error, err error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeReportReadFailed, "failed to list reports", err)
	}

	summaries = []ReportSummary{}
	skipped = map[string]error{}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		report, err := ReadReport(filepath.Join(root, entry.Name()))
		if err != nil {
			skipped[entry.Name()] = err

			continue
		}

		summary := ReportSummary{
			ID:        report.ID,
			Symbol:    report.Symbol,
			Version:   report.Version,
			CreatedAt: report.CreatedAt,
			Bars:      report.Bars,
			Horizons:  make([]int, 0, len(report.Horizons)),
		}

		for _, h := range report.Horizons {
			summary.Horizons = append(summary.Horizons, h.HorizonDays)
		}

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries, skipped, nil
}
